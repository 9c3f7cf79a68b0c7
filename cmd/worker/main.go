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

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/app"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	jobmetrics "github.com/muzaini-app/muzaini-reports/internal/jobs"
	"github.com/muzaini-app/muzaini-reports/internal/observability"
	"github.com/muzaini-app/muzaini-reports/internal/platform/cache"
	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
	"github.com/muzaini-app/muzaini-reports/internal/platform/pdf"
	"github.com/muzaini-app/muzaini-reports/internal/reportdb"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
	"github.com/muzaini-app/muzaini-reports/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PoolOptions())
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	taxAccounts, err := accounts.LoadTaxAccounts(cfg.TaxAccountsFile)
	if err != nil {
		logger.Error("load tax accounts", slog.Any("error", err))
		os.Exit(1)
	}
	catalog, err := i18n.NewCatalog(cfg.DefaultLang)
	if err != nil {
		logger.Error("init catalog", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	store := reportdb.New(pool)
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())
	registry := app.NewRegistry(app.RegistryParams{
		Logger:      logger,
		Store:       store,
		Company:     cfg.DefaultCompany,
		TaxAccounts: taxAccounts,
		Observer:    metrics,
	})
	renderer := export.NewRenderer(registry, pdf.NewClient(cfg.GotenbergURL))
	exportJob := jobs.NewReportExportJob(
		export.NewStore(redisClient, cfg.ExportTTL),
		renderer,
		catalog,
		logger,
		jobMetrics,
	)
	integrityJob := jobs.NewLedgerIntegrityJob(store, logger, jobMetrics)

	var cron []jobs.CronRegistration
	if cfg.IntegrityCron != "" {
		task, err := jobs.NewLedgerIntegrityTask(cfg.DefaultCompany, cfg.IntegrityWindow)
		if err != nil {
			logger.Error("build integrity task", slog.Any("error", err))
			os.Exit(1)
		}
		cron = append(cron, jobs.CronRegistration{Spec: cfg.IntegrityCron, Task: task})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts.Asynq(),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportExport, Handler: exportJob.Handle},
			{Type: jobs.TaskLedgerIntegrity, Handler: integrityJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.WorkerMetricsAddr != "" {
		metricsServer := &http.Server{Addr: cfg.WorkerMetricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("worker metrics server", slog.Any("error", err))
			}
		}()
		defer func() { _ = metricsServer.Close() }()
	}

	logger.Info("starting worker", slog.Int("concurrency", cfg.WorkerConcurrency))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
