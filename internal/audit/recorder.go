package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Enqueuer is the slice of asynq.Client the recorder needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Recorder enqueues audit events. A nil Recorder is a no-op so handlers can
// run without the worker wired (tests, local development).
type Recorder struct {
	client Enqueuer
	logger *slog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(client Enqueuer, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{client: client, logger: logger}
}

// Record fills in the event id and timestamp and enqueues the event. Enqueue
// failures are logged, not returned: the guarded mutation already happened
// and must not be rolled back by an audit hiccup.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil || r.client == nil {
		return
	}
	event.ID = uuid.NewString()
	event.At = time.Now().UTC()
	task, err := NewRecordTask(event)
	if err != nil {
		r.logger.Error("marshal audit event", slog.Any("error", err))
		return
	}
	if _, err := r.client.EnqueueContext(ctx, task); err != nil {
		r.logger.Error("enqueue audit event",
			slog.String("action", event.Action),
			slog.Any("error", err))
	}
}
