package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/muzaini-app/muzaini-reports/internal/jobs"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsHandlerExposesJobMetrics(t *testing.T) {
	metrics := NewMetrics()
	jobs := jobmetrics.NewMetrics(metrics.Registerer())
	_ = jobs.Track("report:export").End(nil)

	body := scrape(t, metrics)
	require.Contains(t, body, `muzaini_jobs_total{job="report:export",status="success"} 1`)
	require.Contains(t, body, "go_goroutines")
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/reports/{name}")

	req := httptest.NewRequest(http.MethodGet, "/reports/tax-declaration", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	require.Contains(t, body, `muzaini_http_requests_total{code="418",route="/reports/{name}"} 1`)
	require.Contains(t, body, `muzaini_http_request_duration_seconds_bucket{route="/reports/{name}"`)
}

func TestObserveReportOutcomes(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveReport("tax-declaration", 20*time.Millisecond, nil)
	metrics.ObserveReport("tax-declaration", time.Millisecond, reporting.Invalid("company", "Invalid value in %s", "company"))
	metrics.ObserveReport("tax-declaration", time.Millisecond, errors.New("db down"))

	body := scrape(t, metrics)
	require.Contains(t, body, `muzaini_report_runs_total{outcome="ok",report="tax-declaration"} 1`)
	require.Contains(t, body, `muzaini_report_runs_total{outcome="invalid",report="tax-declaration"} 1`)
	require.Contains(t, body, `muzaini_report_runs_total{outcome="error",report="tax-declaration"} 1`)
	require.Contains(t, body, `muzaini_report_duration_seconds_count{report="tax-declaration"} 3`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveReport("x", time.Second, nil)
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
