// Package jobs wires background task processing for the service: audit event
// persistence and identity directory sync.
package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stratos-iam/stratos/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskIdentitySync mirrors identity provider accounts into users.
	TaskIdentitySync = "identity:sync"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// NewIdentitySyncTask constructs an identity sync task. The task carries no
// payload; the sync always walks the full directory.
func NewIdentitySyncTask() *asynq.Task {
	return asynq.NewTask(TaskIdentitySync, nil)
}

// IdentitySyncer runs one directory sync pass.
type IdentitySyncer interface {
	Sync(ctx context.Context) (int, error)
}

// IdentitySyncJob mirrors identity provider accounts on a schedule.
type IdentitySyncJob struct {
	syncer  IdentitySyncer
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewIdentitySyncJob constructs the sync job.
func NewIdentitySyncJob(syncer IdentitySyncer, logger *slog.Logger, metrics *jobmetrics.Metrics) *IdentitySyncJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentitySyncJob{syncer: syncer, logger: logger, metrics: metrics}
}

// Handle processes a TaskIdentitySync task.
func (j *IdentitySyncJob) Handle(ctx context.Context, task *asynq.Task) (resultErr error) {
	tracker := j.jobMetrics().Track(TaskIdentitySync)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	n, err := j.syncer.Sync(ctx)
	if err != nil {
		j.logger.Warn("identity sync", slog.Any("error", err))
		return err
	}
	j.jobMetrics().AddSyncedAccounts(n)
	j.logger.Info("identity sync", slog.Int("accounts", n))
	return nil
}

func (j *IdentitySyncJob) jobMetrics() *jobmetrics.Metrics {
	if j.metrics != nil {
		return j.metrics
	}
	return defaultJobMetrics
}
