package workers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"swiftmotors/config"
	memoryService "swiftmotors/services/memory"

	"github.com/hibiken/asynq"
)

// MemoryWriter is the append side of the external memory service.
type MemoryWriter interface {
	Add(ctx context.Context, userID, content string) error
}

// InitMemoryWorker runs the async worker consuming deferred memory
// write-backs in the background.
func InitMemoryWorker(writer MemoryWriter) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisMemoryQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(memoryService.TypeMemoryRecord, handleMemoryRecordTask(writer))

	// Start async worker with retry logic.
	go func() {
		log.Println("[MemoryWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[MemoryWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[MemoryWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// NewEnqueueClient returns the asynq client the context provider enqueues
// write-backs through.
func NewEnqueueClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisMemoryQueueDB,
	})
}

func handleMemoryRecordTask(writer MemoryWriter) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p memoryService.RecordPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[MemoryWorker] Invalid payload: %v", err)
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := writer.Add(ctx, p.CustomerID, p.Content); err != nil {
			// Returning the error lets asynq retry the append.
			log.Printf("[MemoryWorker] Write-back failed for %s: %v", p.CustomerID, err)
			return err
		}
		return nil
	}
}
