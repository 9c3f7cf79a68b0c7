// Package jobmetrics instruments background jobs with Prometheus collectors.
package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for background jobs.
type Metrics struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	exportBytes *prometheus.CounterVec
	imbalances  *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job metrics against the provided registerer. When the
// registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker provides lifecycle instrumentation helpers for a single job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track spawns a tracker for the given job name.
func (m *Metrics) Track(job string) *Tracker {
	if m == nil {
		return &Tracker{job: job, start: time.Now()}
	}
	return &Tracker{metrics: m, job: job, start: time.Now()}
}

// End finalises the tracker, recording duration, success/failure counts and
// returning the provided error untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
		t.metrics.failures.WithLabelValues(t.job).Inc()
	}
	t.metrics.runs.WithLabelValues(t.job, status).Inc()
	t.metrics.duration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	return err
}

// AddExportBytes counts the size of a rendered export.
func (m *Metrics) AddExportBytes(format string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.exportBytes.WithLabelValues(format).Add(float64(n))
}

// AddImbalances counts unbalanced vouchers found for a company.
func (m *Metrics) AddImbalances(company string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.imbalances.WithLabelValues(company).Add(float64(count))
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "muzaini_jobs_total",
		Help: "Total job executions partitioned by job name and status.",
	}, []string{"job", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "muzaini_jobs_failures_total",
		Help: "Total failures observed for background jobs.",
	}, []string{"job"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "muzaini_job_duration_seconds",
		Help:    "Duration in seconds of background job executions.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"job"})
	exportBytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "muzaini_export_bytes_total",
		Help: "Bytes of rendered report exports by format.",
	}, []string{"format"})
	imbalances := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "muzaini_ledger_unbalanced_vouchers_total",
		Help: "Unbalanced vouchers detected by the ledger integrity scan.",
	}, []string{"company"})
	registerer.MustRegister(runs, failures, duration, exportBytes, imbalances)
	return &Metrics{runs: runs, failures: failures, duration: duration, exportBytes: exportBytes, imbalances: imbalances}
}
