package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stratos-iam/stratos/internal/app"
	"github.com/stratos-iam/stratos/internal/audit"
	"github.com/stratos-iam/stratos/internal/identity"
	"github.com/stratos-iam/stratos/internal/observability"
	"github.com/stratos-iam/stratos/internal/permissions"
	"github.com/stratos-iam/stratos/internal/platform/cache"
	"github.com/stratos-iam/stratos/internal/platform/db"
	"github.com/stratos-iam/stratos/internal/rbac"
	"github.com/stratos-iam/stratos/internal/roles"
	"github.com/stratos-iam/stratos/internal/tenants"
	"github.com/stratos-iam/stratos/internal/users"
	"github.com/stratos-iam/stratos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens, err := identity.ParseStaticTokens(cfg.IDPStaticTokens)
	if err != nil {
		logger.Error("parse static tokens", slog.Any("error", err))
		os.Exit(1)
	}
	verifier := identity.NewStaticVerifier(tokens)
	identityRepo := identity.NewRepository(pool)
	identityService := identity.NewService(verifier, identityRepo)
	authMiddleware := identity.Middleware{Service: identityService, Logger: logger}

	metrics := observability.NewMetrics()

	rbacRepo := rbac.NewRepository(pool)
	checker := rbac.NewChecker(rbacRepo, logger)
	gate := rbac.NewGate(checker, metrics)
	rbacMiddleware := rbac.Middleware{Gate: gate, Logger: logger}

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	recorder := audit.NewRecorder(jobsClient, logger)

	tenantsHandler := tenants.NewHandler(logger, tenants.NewRepository(pool))
	rolesHandler := roles.NewHandler(logger, roles.NewService(roles.NewRepository(pool)), gate, recorder)
	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(pool)), gate, rbacMiddleware, recorder)
	permissionsHandler := permissions.NewHandler(logger, permissions.NewService(permissions.NewRepository(pool)), gate, recorder)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Auth:               authMiddleware,
		TenantsHandler:     tenantsHandler,
		RolesHandler:       rolesHandler,
		UsersHandler:       usersHandler,
		PermissionsHandler: permissionsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
		Pool:               pool,
		Redis:              redisClient,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
