package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Persister stores processed events.
type Persister interface {
	Insert(ctx context.Context, event Event) error
}

// HandleRecordTask returns the asynq handler for TaskTypeRecord. A payload
// that cannot be decoded is dropped; a store failure is retried by asynq.
func HandleRecordTask(store Persister, logger *slog.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, task *asynq.Task) error {
		var event Event
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			logger.Error("decode audit event", slog.Any("error", err))
			return asynq.SkipRetry
		}
		if err := store.Insert(ctx, event); err != nil {
			logger.Warn("persist audit event", slog.String("id", event.ID), slog.Any("error", err))
			return err
		}
		return nil
	}
}
