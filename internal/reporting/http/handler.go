// Package reporthttp exposes the report registry over HTTP.
package reporthttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"golang.org/x/sync/singleflight"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/platform/httpx"
	"github.com/muzaini-app/muzaini-reports/internal/platform/pdf"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
)

type reportService interface {
	Names() []string
	Has(name string) bool
	Run(ctx context.Context, name string, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error)
}

type encoder interface {
	Encode(ctx context.Context, name string, format export.Format, res reporting.Result, loc *i18n.Localizer) ([]byte, error)
}

type exportStore interface {
	Create(ctx context.Context, job export.Job) (export.Job, error)
	Get(ctx context.Context, id string) (export.Job, error)
	Payload(ctx context.Context, id string) ([]byte, error)
	Fail(ctx context.Context, id string, cause error) error
}

type enqueuer interface {
	EnqueueExport(ctx context.Context, id string) error
}

// Config carries the handler dependencies. Exports and Queue may be nil, in
// which case the asynchronous export routes answer 503.
type Config struct {
	Logger  *slog.Logger
	Reports reportService
	Encoder encoder
	Catalog *i18n.Catalog
	Exports exportStore
	Queue   enqueuer
	// ExportsPerMinute limits export submissions per client IP. Zero means 10.
	ExportsPerMinute int
	// RunTimeout bounds a shared report run. Zero means 45s.
	RunTimeout time.Duration
}

// Handler serves report runs and exports.
type Handler struct {
	logger      *slog.Logger
	reports     reportService
	encoder     encoder
	catalog     *i18n.Catalog
	exports     exportStore
	queue       enqueuer
	exportLimit int
	runTimeout  time.Duration
	group       singleflight.Group
}

// NewHandler constructs the handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := cfg.ExportsPerMinute
	if limit <= 0 {
		limit = 10
	}
	runTimeout := cfg.RunTimeout
	if runTimeout <= 0 {
		runTimeout = 45 * time.Second
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = i18n.MustCatalog("")
	}
	return &Handler{
		logger:      logger,
		reports:     cfg.Reports,
		encoder:     cfg.Encoder,
		catalog:     catalog,
		exports:     cfg.Exports,
		queue:       cfg.Queue,
		exportLimit: limit,
		runTimeout:  runTimeout,
	}
}

// MountRoutes attaches the report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/exports/{id}", h.exportStatus)
		r.Get("/{name}", h.run)
		r.Get("/{name}/export.csv", h.download(export.FormatCSV))
		r.Get("/{name}/export.pdf", h.download(export.FormatPDF))
		r.With(httprate.LimitByIP(h.exportLimit, time.Minute)).Post("/{name}/exports", h.createExport)
	})
}

func (h *Handler) localizer(r *http.Request) *i18n.Localizer {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return h.catalog.Localizer(lang)
	}
	return h.catalog.Localizer(r.Header.Get("Accept-Language"))
}

type reportListResponse struct {
	Reports []reportInfo `json:"reports"`
}

type reportInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	loc := h.localizer(r)
	names := h.reports.Names()
	out := reportListResponse{Reports: make([]reportInfo, 0, len(names))}
	for _, name := range names {
		out.Reports = append(out.Reports, reportInfo{Name: name, Title: export.Title(name, loc)})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	loc := h.localizer(r)
	res, err := h.execute(r, name, loc)
	if err != nil {
		h.fail(w, r, name, loc, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) download(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		loc := h.localizer(r)
		res, err := h.execute(r, name, loc)
		if err != nil {
			h.fail(w, r, name, loc, err)
			return
		}
		data, err := h.encoder.Encode(r.Context(), name, format, res, loc)
		if err != nil {
			h.fail(w, r, name, loc, err)
			return
		}
		httpx.Attachment(w, format.ContentType(), format.Filename(name), data)
	}
}

// execute parses the filters and runs the report. Identical concurrent
// requests share one run.
func (h *Handler) execute(r *http.Request, name string, loc *i18n.Localizer) (reporting.Result, error) {
	if !h.reports.Has(name) {
		return reporting.Result{}, reporting.ErrUnknownReport
	}
	f, err := reporting.ParseFilters(r.URL.Query())
	if err != nil {
		return reporting.Result{}, err
	}
	key := name + "\x00" + loc.Tag().String() + "\x00" + f.Key()
	// The shared run outlives any single caller; each caller still stops
	// waiting when its own request ends.
	ch := h.group.DoChan(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.runTimeout)
		defer cancel()
		return h.reports.Run(ctx, name, f, loc)
	})
	select {
	case <-r.Context().Done():
		return reporting.Result{}, r.Context().Err()
	case out := <-ch:
		if out.Err != nil {
			return reporting.Result{}, out.Err
		}
		return out.Val.(reporting.Result), nil
	}
}

type exportResponse struct {
	ID        string        `json:"id"`
	Report    string        `json:"report"`
	Format    export.Format `json:"format"`
	Status    export.Status `json:"status"`
	Error     string        `json:"error,omitempty"`
	StatusURL string        `json:"status_url"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func newExportResponse(job export.Job) exportResponse {
	return exportResponse{
		ID:        job.ID,
		Report:    job.Report,
		Format:    job.Format,
		Status:    job.Status,
		Error:     job.Error,
		StatusURL: "/reports/exports/" + job.ID,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func (h *Handler) createExport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	loc := h.localizer(r)
	if h.exports == nil || h.queue == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "")
		return
	}
	if !h.reports.Has(name) {
		h.fail(w, r, name, loc, reporting.ErrUnknownReport)
		return
	}
	query := r.URL.Query()
	format, err := export.ParseFormat(query.Get("format"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", loc.T("Unsupported export format"))
		return
	}
	query.Del("format")
	f, err := reporting.ParseFilters(query)
	if err != nil {
		h.fail(w, r, name, loc, err)
		return
	}

	job, err := h.exports.Create(r.Context(), export.Job{
		Report:  name,
		Format:  format,
		Filters: f.Values().Encode(),
		Lang:    loc.Tag().String(),
	})
	if err != nil {
		h.fail(w, r, name, loc, err)
		return
	}
	if err := h.queue.EnqueueExport(r.Context(), job.ID); err != nil {
		if ferr := h.exports.Fail(r.Context(), job.ID, err); ferr != nil {
			h.logger.Warn("mark export failed", slog.String("export_id", job.ID), slog.Any("error", ferr))
		}
		h.fail(w, r, name, loc, err)
		return
	}
	h.logger.Info("export queued", slog.String("report", name), slog.String("export_id", job.ID), slog.String("format", string(format)))
	w.Header().Set("Location", "/reports/exports/"+job.ID)
	httpx.JSON(w, http.StatusAccepted, newExportResponse(job))
}

func (h *Handler) exportStatus(w http.ResponseWriter, r *http.Request) {
	loc := h.localizer(r)
	if h.exports == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "")
		return
	}
	id := chi.URLParam(r, "id")
	job, err := h.exports.Get(r.Context(), id)
	if errors.Is(err, export.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", loc.T("Export not found"))
		return
	}
	if err != nil {
		h.fail(w, r, "", loc, err)
		return
	}
	switch job.Status {
	case export.StatusDone:
		data, err := h.exports.Payload(r.Context(), id)
		if errors.Is(err, export.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", loc.T("Export not found"))
			return
		}
		if err != nil {
			h.fail(w, r, job.Report, loc, err)
			return
		}
		httpx.Attachment(w, job.Format.ContentType(), job.Format.Filename(job.Report), data)
	case export.StatusFailed:
		httpx.JSON(w, http.StatusOK, newExportResponse(job))
	default:
		httpx.JSON(w, http.StatusAccepted, newExportResponse(job))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, name string, loc *i18n.Localizer, err error) {
	var invalid *reporting.ValidationError
	switch {
	case errors.As(err, &invalid):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", invalid.Message(loc))
	case errors.Is(err, reporting.ErrUnknownReport):
		httpx.Problem(w, http.StatusNotFound, "Not Found", loc.T("Report not found"))
	case errors.Is(err, pdf.ErrNotConfigured):
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("report request aborted", slog.String("report", name), slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "")
	default:
		h.logger.Error("report request failed", slog.String("report", name), slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
