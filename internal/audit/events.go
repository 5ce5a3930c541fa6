// Package audit records administrative mutations asynchronously. Handlers
// enqueue events after a write succeeds; the worker persists them so a slow
// audit store never sits on the request path.
package audit

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeRecord is the asynq task type for persisting one audit event.
const TaskTypeRecord = "audit:record"

// Event is one recorded administrative action.
type Event struct {
	ID       string    `json:"id"`
	ActorID  int64     `json:"actor_id"`
	TenantID int64     `json:"tenant_id"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id"`
	At       time.Time `json:"at"`
}

// NewRecordTask wraps an event in an asynq task.
func NewRecordTask(event Event) (*asynq.Task, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRecord, data), nil
}
