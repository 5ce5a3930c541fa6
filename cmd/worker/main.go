package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/stratos-iam/stratos/internal/app"
	"github.com/stratos-iam/stratos/internal/audit"
	"github.com/stratos-iam/stratos/internal/identity"
	jobmetrics "github.com/stratos-iam/stratos/internal/jobs"
	"github.com/stratos-iam/stratos/internal/platform/db"
	"github.com/stratos-iam/stratos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := jobmetrics.NewMetrics(nil)

	auditStore := audit.NewStore(pool)

	tokens, err := identity.ParseStaticTokens(cfg.IDPStaticTokens)
	if err != nil {
		logger.Error("parse static tokens", slog.Any("error", err))
		os.Exit(1)
	}
	directory := identity.NewStaticDirectory(tokens)
	syncer := identity.NewSyncer(directory, identity.NewRepository(pool), logger, cfg.IdentitySyncWorkers)
	syncJob := jobs.NewIdentitySyncJob(syncer, logger, metrics)

	var cron []jobs.CronRegistration
	if cfg.IdentitySyncCron != "" {
		cron = append(cron, jobs.CronRegistration{
			Spec:    cfg.IdentitySyncCron,
			Task:    jobs.NewIdentitySyncTask(),
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: audit.TaskTypeRecord, Handler: audit.HandleRecordTask(auditStore, logger)},
			{Type: jobs.TaskIdentitySync, Handler: syncJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
