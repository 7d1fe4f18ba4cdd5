package memory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"swiftmotors/models"
	"swiftmotors/utils"

	"github.com/hibiken/asynq"
)

// Searcher is the retrieval side of the external memory service.
type Searcher interface {
	Search(ctx context.Context, userID, query string, limit int) ([]models.MemoryEntry, error)
}

// ContextCache caches retrieved memory context per customer.
type ContextCache interface {
	Get(ctx context.Context, customerID string) (*models.MemoryContext, error)
	Set(ctx context.Context, customerID string, memCtx *models.MemoryContext) error
	Clear(ctx context.Context, customerID string) error
}

// TaskEnqueuer is the enqueue side of the background queue.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ContextProvider retrieves per-customer context and records interaction
// facts. Retrieval is bounded and degrades to empty context; recording is
// deferred to a background queue. Neither path may fail a scheduling
// decision.
type ContextProvider interface {
	RetrieveContext(ctx context.Context, customerID, query string, k int) []models.MemoryEntry
	RecordInteraction(customerID, content string)
}

// DefaultContextProvider is a concrete implementation backed by the memory
// service client, a Redis context cache, and an asynq queue for write-backs.
type DefaultContextProvider struct {
	Client   Searcher
	Cache    ContextCache // optional
	Enqueuer TaskEnqueuer // optional; nil means write-backs are dropped with a log line
	Timeout  time.Duration
}

// RetrieveContext returns the top-k ranked memory entries for a customer.
// Timeouts and service errors are logged and yield an empty slice; an empty
// result for a new customer is not an error.
func (p *DefaultContextProvider) RetrieveContext(ctx context.Context, customerID, query string, k int) []models.MemoryEntry {
	logger := utils.GetLogger()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if p.Cache != nil {
		cached, err := p.Cache.Get(ctx, customerID)
		if err != nil {
			logger.Debug("Memory context cache read failed", zap.Error(err))
		} else if cached != nil {
			return topK(cached.Entries, k)
		}
	}

	entries, err := p.Client.Search(ctx, customerID, query, k)
	if err != nil {
		// Degrade to empty context; scheduling never depends on memory.
		logger.Warn("Memory service unavailable, proceeding without context",
			zap.String("customerId", customerID), zap.Error(err))
		return nil
	}

	if p.Cache != nil && len(entries) > 0 {
		memCtx := &models.MemoryContext{CustomerID: customerID, Entries: entries}
		if err := p.Cache.Set(ctx, customerID, memCtx); err != nil {
			logger.Debug("Memory context cache write failed", zap.Error(err))
		}
	}
	return topK(entries, k)
}

// RecordInteraction enqueues a fire-and-forget write-back of one fact. The
// scheduling flow never waits on the external service.
func (p *DefaultContextProvider) RecordInteraction(customerID, content string) {
	logger := utils.GetLogger()

	if p.Enqueuer == nil {
		logger.Warn("Memory write-back dropped, no queue configured",
			zap.String("customerId", customerID))
		return
	}

	task, err := NewRecordTask(customerID, content)
	if err != nil {
		logger.Error("Failed to build memory write-back task", zap.Error(err))
		return
	}
	if _, err := p.Enqueuer.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		// Deferred write lost; observed only here, never by the caller.
		logger.Error("Failed to enqueue memory write-back",
			zap.String("customerId", customerID), zap.Error(err))
		return
	}

	// The cached snapshot is stale once a new fact is on its way in.
	if p.Cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := p.Cache.Clear(ctx, customerID); err != nil {
			logger.Debug("Memory context cache invalidation failed",
				zap.String("customerId", customerID), zap.Error(err))
		}
	}
}

func topK(entries []models.MemoryEntry, k int) []models.MemoryEntry {
	if k > 0 && len(entries) > k {
		return entries[:k]
	}
	return entries
}
