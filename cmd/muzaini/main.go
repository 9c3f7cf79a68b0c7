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

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/app"
	"github.com/muzaini-app/muzaini-reports/internal/auth"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/observability"
	"github.com/muzaini-app/muzaini-reports/internal/platform/cache"
	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
	"github.com/muzaini-app/muzaini-reports/internal/platform/pdf"
	"github.com/muzaini-app/muzaini-reports/internal/reportdb"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
	reporthttp "github.com/muzaini-app/muzaini-reports/internal/reporting/http"
	"github.com/muzaini-app/muzaini-reports/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
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
	tokens, err := auth.NewService(cfg.APITokenHashes)
	if err != nil {
		logger.Error("load api tokens", slog.Any("error", err))
		os.Exit(1)
	}
	if !tokens.Enabled() {
		logger.Warn("no api tokens configured, report endpoints are open")
	}

	metrics := observability.NewMetrics()
	catalog, err := i18n.NewCatalog(cfg.DefaultLang)
	if err != nil {
		logger.Error("init catalog", slog.Any("error", err))
		os.Exit(1)
	}
	registry := app.NewRegistry(app.RegistryParams{
		Logger:      logger,
		Store:       reportdb.New(pool),
		Company:     cfg.DefaultCompany,
		TaxAccounts: taxAccounts,
		Observer:    metrics,
	})
	pdfClient := pdf.NewClient(cfg.GotenbergURL)
	if err := pdfClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg unavailable, pdf exports will fail", slog.Any("error", err))
	}

	queue := jobs.NewClient(redisOpts.Asynq())
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts.Asynq())
	defer func() { _ = inspector.Close() }()

	reportHandler := reporthttp.NewHandler(reporthttp.Config{
		Logger:           logger,
		Reports:          registry,
		Encoder:          export.NewRenderer(registry, pdfClient),
		Catalog:          catalog,
		Exports:          export.NewStore(redisClient, cfg.ExportTTL),
		Queue:            queue,
		ExportsPerMinute: cfg.ExportsPerMinute,
		RunTimeout:       cfg.AppRequestTimeout,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		Auth:          tokens,
		ReportHandler: reportHandler,
		JobHandler:    jobs.NewHandler(inspector, logger),
		Metrics:       metrics,
		Checks: map[string]app.HealthCheck{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.Any("reports", registry.Names()))
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
