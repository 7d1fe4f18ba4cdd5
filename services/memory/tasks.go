package memory

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TypeMemoryRecord is the asynq task type for deferred memory write-backs.
const TypeMemoryRecord = "memory:record"

// RecordPayload is the task payload for one write-back.
type RecordPayload struct {
	CustomerID string `json:"customerId"`
	Content    string `json:"content"`
}

// NewRecordTask builds the asynq task for a memory write-back. Retries are
// left to asynq defaults; the append operation is idempotent-safe.
func NewRecordTask(customerID, content string) (*asynq.Task, error) {
	payload, err := json.Marshal(RecordPayload{CustomerID: customerID, Content: content})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMemoryRecord, payload), nil
}
