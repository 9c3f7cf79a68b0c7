package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/hibiken/asynq"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	jobmetrics "github.com/muzaini-app/muzaini-reports/internal/jobs"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
)

type exportStore interface {
	Get(ctx context.Context, id string) (export.Job, error)
	MarkRunning(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, data []byte) error
	Fail(ctx context.Context, id string, cause error) error
}

type exportRenderer interface {
	Render(ctx context.Context, name string, format export.Format, f reporting.Filters, loc *i18n.Localizer) ([]byte, error)
}

// ReportExportJob renders queued exports and stores the result.
type ReportExportJob struct {
	Store    exportStore
	Renderer exportRenderer
	Catalog  *i18n.Catalog
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics

	// retries reports the attempt number and the retry budget of the running
	// task. Tests replace it.
	retries func(ctx context.Context) (int, int)
}

// NewReportExportJob initialises the export handler.
func NewReportExportJob(store exportStore, renderer exportRenderer, catalog *i18n.Catalog, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportExportJob {
	return &ReportExportJob{
		Store:    store,
		Renderer: renderer,
		Catalog:  catalog,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// Handle executes one export.
func (j *ReportExportJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Store == nil || j.Renderer == nil {
		return errors.New("report export: handler not configured")
	}
	var payload ReportExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.ExportID == "" {
		return fmt.Errorf("report export: bad payload: %w", asynq.SkipRetry)
	}
	logger := j.logger().With(slog.String("export_id", payload.ExportID))

	job, err := j.Store.Get(ctx, payload.ExportID)
	if errors.Is(err, export.ErrNotFound) {
		logger.Warn("export expired before processing")
		return fmt.Errorf("report export: %w", asynq.SkipRetry)
	}
	if err != nil {
		return err
	}
	if job.Status == export.StatusDone {
		return nil
	}

	tracker := j.Metrics.Track(TaskReportExport)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger = logger.With(slog.String("report", job.Report), slog.String("format", string(job.Format)))
	if err := j.Store.MarkRunning(ctx, job.ID); err != nil {
		return err
	}

	start := time.Now()
	loc := j.catalog().Localizer(job.Lang)
	data, err := j.render(ctx, job, loc)
	if err != nil {
		var invalid *reporting.ValidationError
		if errors.As(err, &invalid) {
			logger.Info("export rejected filters", slog.Any("error", err))
			j.fail(ctx, logger, job.ID, errors.New(invalid.Message(loc)))
			return fmt.Errorf("report export: %w: %w", err, asynq.SkipRetry)
		}
		if j.lastAttempt(ctx) {
			logger.Error("export failed", slog.Any("error", err))
			j.fail(ctx, logger, job.ID, errors.New(loc.T("Export failed")))
			return err
		}
		logger.Warn("export attempt failed", slog.Any("error", err))
		return err
	}

	if err := j.Store.Complete(ctx, job.ID, data); err != nil {
		return err
	}
	j.Metrics.AddExportBytes(string(job.Format), len(data))
	logger.Info("export completed", slog.Int("bytes", len(data)), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *ReportExportJob) render(ctx context.Context, job export.Job, loc *i18n.Localizer) ([]byte, error) {
	values, err := url.ParseQuery(job.Filters)
	if err != nil {
		return nil, reporting.Invalid("filters", "Invalid value in %s", "filters")
	}
	f, err := reporting.ParseFilters(values)
	if err != nil {
		return nil, err
	}
	return j.Renderer.Render(ctx, job.Report, job.Format, f, loc)
}

func (j *ReportExportJob) fail(ctx context.Context, logger *slog.Logger, id string, cause error) {
	if err := j.Store.Fail(ctx, id, cause); err != nil {
		logger.Warn("mark export failed", slog.Any("error", err))
	}
}

func (j *ReportExportJob) lastAttempt(ctx context.Context) bool {
	retries := j.retries
	if retries == nil {
		retries = taskRetries
	}
	retried, max := retries(ctx)
	return retried >= max
}

func taskRetries(ctx context.Context) (int, int) {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return 0, 0
	}
	max, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return 0, 0
	}
	return retried, max
}

func (j *ReportExportJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}

func (j *ReportExportJob) catalog() *i18n.Catalog {
	if j.Catalog == nil {
		return i18n.MustCatalog("")
	}
	return j.Catalog
}
