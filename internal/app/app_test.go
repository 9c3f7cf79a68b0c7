package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/muzaini-app/muzaini-reports/internal/auth"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/observability"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
	reporthttp "github.com/muzaini-app/muzaini-reports/internal/reporting/http"
	_ "github.com/muzaini-app/muzaini-reports/testing"
)

func newReportHandler(registry *reporting.Registry) *reporthttp.Handler {
	return reporthttp.NewHandler(reporthttp.Config{
		Reports: registry,
		Encoder: export.NewRenderer(registry, nil),
		Catalog: i18n.MustCatalog("ar"),
	})
}

func TestInTestMode(t *testing.T) {
	RefreshTestMode()
	require.True(t, InTestMode())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_TOKEN_HASHES", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, "ar", cfg.DefaultLang)
	require.Equal(t, 120, cfg.RateLimitPerMinute)
	require.False(t, cfg.IsProduction())
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{AppEnv: "production", DefaultLang: "ar", RateLimitPerMinute: 10}
	require.Error(t, cfg.Validate())

	cfg.APITokenHashes = []string{"$2a$10$x"}
	require.NoError(t, cfg.Validate())

	cfg.DefaultLang = "not a language!"
	require.Error(t, cfg.Validate())
}

func TestLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "json", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("report", "tax-declaration"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &line))
	require.Equal(t, "shown", line["msg"])
	require.Equal(t, "tax-declaration", line["report"])

	require.Equal(t, slog.LevelInfo, logLevel(&Config{LogLevel: "verbose"}))
	require.Equal(t, slog.LevelDebug, logLevel(&Config{LogLevel: "debug"}))
}

func TestRouterHealthAndMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	router := NewRouter(RouterParams{
		Config:  &Config{RateLimitPerMinute: 100},
		Metrics: metrics,
		Checks: map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		},
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	var body healthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "ok", body.Checks["postgres"])

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `muzaini_http_requests_total{code="200",route="/healthz"} 1`)
}

func TestRouterHealthDegraded(t *testing.T) {
	router := NewRouter(RouterParams{
		Config: &Config{RateLimitPerMinute: 100},
		Checks: map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		},
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.Contains(t, rr.Body.String(), `"redis":"down"`)
}

func TestRouterGuardsReports(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("token"), bcrypt.MinCost)
	require.NoError(t, err)
	svc, err := auth.NewService([]string{string(hash)})
	require.NoError(t, err)

	registry := NewRegistry(RegistryParams{})
	router := NewRouter(RouterParams{
		Config:        &Config{RateLimitPerMinute: 100},
		Auth:          svc,
		ReportHandler: newReportHandler(registry),
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reports", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/reports?lang=en", nil)
	req.Header.Set("Authorization", "Bearer token")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Parent Accounts Trial Balance")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestNewRegistryRegistersEveryReport(t *testing.T) {
	registry := NewRegistry(RegistryParams{Company: "Muzaini"})
	require.Equal(t, []string{
		"cash-account-statement",
		"customer-statement",
		"detailed-sales-log",
		"journal-entries",
		"parent-accounts-trial-balance",
		"payment-register",
		"supplier-statement",
		"tax-declaration",
	}, registry.Names())
}

func TestPoolOptionsFollowConfig(t *testing.T) {
	cfg := &Config{PGMaxConns: 4, AppRequestTimeout: 30 * time.Second}
	opts := cfg.PoolOptions()
	require.Equal(t, int32(4), opts.MaxConns)
	require.Equal(t, 30*time.Second, opts.StatementTimeout)
}
