package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/backoffice/internal/app"
	"github.com/odyssey-erp/backoffice/internal/auth"
	"github.com/odyssey-erp/backoffice/internal/observability"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
	"github.com/odyssey-erp/backoffice/internal/principals"
	"github.com/odyssey-erp/backoffice/internal/rbac"
	"github.com/odyssey-erp/backoffice/internal/recruitment"
	"github.com/odyssey-erp/backoffice/internal/shared"
	"github.com/odyssey-erp/backoffice/internal/triggers"
	"github.com/odyssey-erp/backoffice/internal/workflows"
	"github.com/odyssey-erp/backoffice/jobs"
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
	slog.SetDefault(logger)

	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.PGDSN); err != nil {
			logger.Error("migrate database", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	revocations := auth.NewRevocationList(redisClient)
	authOpts := []auth.Option{auth.WithRevocations(revocations), auth.WithLogger(logger)}
	if cfg.JWTIssuer != "" {
		authOpts = append(authOpts, auth.WithIssuer(cfg.JWTIssuer))
	}
	authenticator, err := auth.NewAuthenticator([]byte(cfg.JWTSecret), authOpts...)
	if err != nil {
		logger.Error("init authenticator", slog.Any("error", err))
		os.Exit(1)
	}

	principalRepo := principals.NewRepository(dbpool)
	registry, err := rbac.NewRegistry(authenticator, func(role string) rbac.LookupFunc {
		return principalRepo.Lookup(role)
	}, principals.Roles()...)
	if err != nil {
		logger.Error("init role registry", slog.Any("error", err))
		os.Exit(1)
	}
	guard := rbac.Middleware{Registry: registry, Logger: logger, Metrics: metrics}

	redisOpts := cfg.Redis().Asynq()
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer inspector.Close()

	workflowService := workflows.NewService(workflows.NewRepository(dbpool), jobClient, logger)
	triggerService := triggers.NewService(triggers.NewRepository(dbpool), shared.NewIdempotencyStore(redisClient, 0))
	recruitmentService := recruitment.NewService(recruitment.NewRepository(dbpool), jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Metrics:            metrics,
		AuthHandler:        auth.NewHandler(logger, revocations, guard.RequireAny()),
		JobHandler:         jobs.NewHandler(inspector, logger, guard.RequireRole(principals.RoleSystemAdmin)),
		WorkflowsHandler:   workflows.NewHandler(logger, workflowService, guard, metrics),
		TriggersHandler:    triggers.NewHandler(logger, triggerService, guard, metrics),
		RecruitmentHandler: recruitment.NewHandler(logger, recruitmentService, guard, metrics),
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: cfg.AppReadTimeout,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown http server", slog.Any("error", err))
	}
	logger.Info("http server stopped")
}
