package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	jobmetrics "github.com/muzaini-app/muzaini-reports/internal/jobs"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
)

type fakeRenderer struct {
	name    string
	format  export.Format
	filters reporting.Filters
	lang    string
	out     []byte
	err     error
}

func (f *fakeRenderer) Render(_ context.Context, name string, format export.Format, filters reporting.Filters, loc *i18n.Localizer) ([]byte, error) {
	f.name = name
	f.format = format
	f.filters = filters
	f.lang = loc.Tag().String()
	return f.out, f.err
}

func newExportFixture(t *testing.T, renderer *fakeRenderer) (*ReportExportJob, *export.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := export.NewStore(client, time.Minute)
	job := NewReportExportJob(store, renderer, i18n.MustCatalog("ar"), nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	return job, store
}

func exportTask(t *testing.T, id string) *asynq.Task {
	t.Helper()
	task, err := NewReportExportTask(id)
	require.NoError(t, err)
	return task
}

func TestNewReportExportTask(t *testing.T) {
	task := exportTask(t, "abc")
	require.Equal(t, TaskReportExport, task.Type())
	var payload ReportExportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "abc", payload.ExportID)

	_, err := NewReportExportTask("")
	require.Error(t, err)
}

func TestReportExportCompletes(t *testing.T) {
	renderer := &fakeRenderer{out: []byte("csv-bytes")}
	handler, store := newExportFixture(t, renderer)
	ctx := context.Background()

	job, err := store.Create(ctx, export.Job{Report: "payment-register", Format: export.FormatCSV, Filters: "company=Muzaini&cost_centers=Main", Lang: "en"})
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, exportTask(t, job.ID)))
	require.Equal(t, "payment-register", renderer.name)
	require.Equal(t, "Muzaini", renderer.filters.Company)
	require.Equal(t, []string{"Main"}, renderer.filters.CostCenters)
	require.Equal(t, "en", renderer.lang)

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, export.StatusDone, got.Status)
	data, err := store.Payload(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, "csv-bytes", string(data))
}

func TestReportExportValidationSkipsRetry(t *testing.T) {
	renderer := &fakeRenderer{err: reporting.Invalid("customer", "Please select a customer")}
	handler, store := newExportFixture(t, renderer)
	ctx := context.Background()

	job, err := store.Create(ctx, export.Job{Report: "customer-statement", Format: export.FormatPDF, Lang: "ar"})
	require.NoError(t, err)

	err = handler.Handle(ctx, exportTask(t, job.ID))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.ErrorIs(t, err, reporting.ErrInvalidFilter)

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, export.StatusFailed, got.Status)
	require.Equal(t, "يرجى تحديد العميل", got.Error)
}

func TestReportExportRetriesTransientErrors(t *testing.T) {
	boom := errors.New("gotenberg timeout")
	renderer := &fakeRenderer{err: boom}
	handler, store := newExportFixture(t, renderer)
	ctx := context.Background()

	job, err := store.Create(ctx, export.Job{Report: "tax-declaration", Format: export.FormatPDF, Lang: "en"})
	require.NoError(t, err)

	handler.retries = func(context.Context) (int, int) { return 0, 3 }
	err = handler.Handle(ctx, exportTask(t, job.ID))
	require.ErrorIs(t, err, boom)
	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, export.StatusRunning, got.Status)

	handler.retries = func(context.Context) (int, int) { return 3, 3 }
	err = handler.Handle(ctx, exportTask(t, job.ID))
	require.ErrorIs(t, err, boom)
	got, err = store.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, export.StatusFailed, got.Status)
	require.Equal(t, "Export failed", got.Error)
}

func TestReportExportSkipsUnknownAndMalformedTasks(t *testing.T) {
	handler, _ := newExportFixture(t, &fakeRenderer{})
	ctx := context.Background()

	err := handler.Handle(ctx, exportTask(t, "3f1c4a8e-0000-4000-8000-000000000000"))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = handler.Handle(ctx, asynq.NewTask(TaskReportExport, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
