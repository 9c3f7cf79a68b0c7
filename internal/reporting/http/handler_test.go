package reporthttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/platform/httpx"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
)

type fakeReports struct {
	mu      sync.Mutex
	calls   int32
	filters reporting.Filters
	lang    string
	res     reporting.Result
	err     error
	gate    chan struct{}
	ctxErr  error
}

func (f *fakeReports) Names() []string { return []string{"customer-statement", "tax-declaration"} }

func (f *fakeReports) Has(name string) bool {
	return name == "customer-statement" || name == "tax-declaration"
}

func (f *fakeReports) Run(ctx context.Context, _ string, filters reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.ctxErr = ctx.Err()
	f.filters = filters
	f.lang = loc.Tag().String()
	f.mu.Unlock()
	return f.res, f.err
}

type fakeQueue struct {
	ids []string
	err error
}

func (q *fakeQueue) EnqueueExport(_ context.Context, id string) error {
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, id)
	return nil
}

func sampleResult() reporting.Result {
	return reporting.Result{
		Columns: []reporting.Column{
			{FieldName: "voucher_no", Label: "Voucher No", Type: reporting.TypeLink},
			{FieldName: "debit", Label: "Debit", Type: reporting.TypeCurrency},
		},
		Rows: []reporting.Row{{"voucher_no": "SINV-1", "debit": decimal.NewFromInt(100)}},
	}
}

type fixture struct {
	router  chi.Router
	reports *fakeReports
	queue   *fakeQueue
	store   *export.Store
}

func newFixture(t *testing.T, reports *fakeReports) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := export.NewStore(client, time.Minute)
	queue := &fakeQueue{}
	h := NewHandler(Config{
		Reports: reports,
		Encoder: export.NewRenderer(reports, nil),
		Catalog: i18n.MustCatalog("ar"),
		Exports: store,
		Queue:   queue,
	})
	r := chi.NewRouter()
	h.MountRoutes(r)
	return &fixture{router: r, reports: reports, queue: queue, store: store}
}

func (f *fixture) do(method, target string, header map[string]string) *httptest.ResponseRecorder {
	return f.doContext(context.Background(), method, target, header)
}

func (f *fixture) doContext(ctx context.Context, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequestWithContext(ctx, method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) httpx.ProblemDetail {
	t.Helper()
	require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	var p httpx.ProblemDetail
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&p))
	return p
}

func TestListReportsLocalizesTitles(t *testing.T) {
	f := newFixture(t, &fakeReports{})

	rr := f.do(http.MethodGet, "/reports", map[string]string{"Accept-Language": "en-US,en;q=0.9"})
	require.Equal(t, http.StatusOK, rr.Code)
	var body reportListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, []reportInfo{
		{Name: "customer-statement", Title: "Customer Statement"},
		{Name: "tax-declaration", Title: "Tax Declaration"},
	}, body.Reports)

	rr = f.do(http.MethodGet, "/reports", nil)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, "كشف حساب عميل", body.Reports[0].Title)
}

func TestRunReportParsesFilters(t *testing.T) {
	f := newFixture(t, &fakeReports{res: sampleResult()})

	rr := f.do(http.MethodGet, "/reports/customer-statement?customer=CUST-1&from_date=2024-01-01&cost_center=Main,Branch&lang=en", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Columns []reporting.Column `json:"columns"`
		Rows    []map[string]any   `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Columns, 2)
	require.Equal(t, "SINV-1", body.Rows[0]["voucher_no"])
	require.Equal(t, "100", body.Rows[0]["debit"])

	require.Equal(t, "CUST-1", f.reports.filters.Customer)
	require.Equal(t, []string{"Main", "Branch"}, f.reports.filters.CostCenters)
	require.Equal(t, "2024-01-01", reporting.FormatDate(f.reports.filters.FromDate))
	require.Equal(t, "en", f.reports.lang)
}

func TestRunReportErrors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		f := newFixture(t, &fakeReports{err: reporting.Invalid("customer", "Please select a customer")})
		rr := f.do(http.MethodGet, "/reports/customer-statement", nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Equal(t, "يرجى تحديد العميل", decodeProblem(t, rr).Detail)
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newFixture(t, &fakeReports{})
		rr := f.do(http.MethodGet, "/reports/customer-statement?from_date=01/02/2024&lang=en", nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.Equal(t, "Invalid date in from_date", decodeProblem(t, rr).Detail)
		require.Zero(t, f.reports.calls)
	})

	t.Run("unknown report", func(t *testing.T) {
		f := newFixture(t, &fakeReports{})
		rr := f.do(http.MethodGet, "/reports/profit-and-loss?lang=en", nil)
		require.Equal(t, http.StatusNotFound, rr.Code)
		require.Equal(t, "Report not found", decodeProblem(t, rr).Detail)
	})

	t.Run("internal", func(t *testing.T) {
		f := newFixture(t, &fakeReports{err: errors.New("pq: relation missing")})
		rr := f.do(http.MethodGet, "/reports/customer-statement", nil)
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		require.Empty(t, decodeProblem(t, rr).Detail)
	})
}

func TestDownloadCSV(t *testing.T) {
	f := newFixture(t, &fakeReports{res: sampleResult()})
	rr := f.do(http.MethodGet, "/reports/customer-statement/export.csv?customer=CUST-1&lang=en", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Header().Get("Content-Disposition"), "filename=customer-statement.csv")
	require.Contains(t, rr.Body.String(), "Voucher No,Debit")
	require.Contains(t, rr.Body.String(), "SINV-1,100.00")
}

func TestDownloadPDFWithoutGotenberg(t *testing.T) {
	f := newFixture(t, &fakeReports{res: sampleResult()})
	rr := f.do(http.MethodGet, "/reports/customer-statement/export.pdf", nil)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestConcurrentIdenticalRequestsShareOneRun(t *testing.T) {
	reports := &fakeReports{res: sampleResult(), gate: make(chan struct{})}
	f := newFixture(t, reports)

	var wg sync.WaitGroup
	codes := make([]int, 4)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = f.do(http.MethodGet, "/reports/customer-statement?customer=CUST-1", nil).Code
		}(i)
	}
	require.Eventually(t, func() bool { return atomic.LoadInt32(&reports.calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(reports.gate)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&reports.calls))
	for _, code := range codes {
		require.Equal(t, http.StatusOK, code)
	}
}

func TestSharedRunSurvivesFirstCallerCancelling(t *testing.T) {
	reports := &fakeReports{res: sampleResult(), gate: make(chan struct{})}
	f := newFixture(t, reports)
	target := "/reports/customer-statement?customer=CUST-1"

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan int, 1)
	go func() { first <- f.doContext(ctx, http.MethodGet, target, nil).Code }()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&reports.calls) == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan int, 1)
	go func() { second <- f.do(http.MethodGet, target, nil).Code }()
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.Equal(t, http.StatusServiceUnavailable, <-first)
	close(reports.gate)
	require.Equal(t, http.StatusOK, <-second)

	require.Equal(t, int32(1), atomic.LoadInt32(&reports.calls))
	reports.mu.Lock()
	defer reports.mu.Unlock()
	require.NoError(t, reports.ctxErr)
}

func TestCreateExportQueuesJob(t *testing.T) {
	f := newFixture(t, &fakeReports{})

	rr := f.do(http.MethodPost, "/reports/tax-declaration/exports?format=pdf&company=Muzaini&lang=en", nil)
	require.Equal(t, http.StatusAccepted, rr.Code)
	var body exportResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, export.StatusQueued, body.Status)
	require.Equal(t, export.FormatPDF, body.Format)
	require.Equal(t, "/reports/exports/"+body.ID, rr.Header().Get("Location"))
	require.Equal(t, []string{body.ID}, f.queue.ids)

	job, err := f.store.Get(context.Background(), body.ID)
	require.NoError(t, err)
	require.Equal(t, "en", job.Lang)
	values, err := url.ParseQuery(job.Filters)
	require.NoError(t, err)
	require.Equal(t, "Muzaini", values.Get("company"))
	require.Empty(t, values.Get("format"))
}

func TestCreateExportRejectsBadInput(t *testing.T) {
	f := newFixture(t, &fakeReports{})

	rr := f.do(http.MethodPost, "/reports/tax-declaration/exports?format=xlsx&lang=en", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Unsupported export format", decodeProblem(t, rr).Detail)

	rr = f.do(http.MethodPost, "/reports/nope/exports", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Empty(t, f.queue.ids)
}

func TestCreateExportEnqueueFailureMarksJobFailed(t *testing.T) {
	f := newFixture(t, &fakeReports{})
	f.queue.err = errors.New("redis down")

	rr := f.do(http.MethodPost, "/reports/tax-declaration/exports", nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestExportStatusLifecycle(t *testing.T) {
	f := newFixture(t, &fakeReports{})
	ctx := context.Background()
	job, err := f.store.Create(ctx, export.Job{Report: "tax-declaration", Format: export.FormatCSV})
	require.NoError(t, err)

	rr := f.do(http.MethodGet, "/reports/exports/"+job.ID, nil)
	require.Equal(t, http.StatusAccepted, rr.Code)

	require.NoError(t, f.store.Complete(ctx, job.ID, []byte("a,b\n")))
	rr = f.do(http.MethodGet, "/reports/exports/"+job.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "a,b\n", rr.Body.String())
	require.Contains(t, rr.Header().Get("Content-Disposition"), "tax-declaration.csv")

	failed, err := f.store.Create(ctx, export.Job{Report: "tax-declaration", Format: export.FormatPDF})
	require.NoError(t, err)
	require.NoError(t, f.store.Fail(ctx, failed.ID, errors.New("boom")))
	rr = f.do(http.MethodGet, "/reports/exports/"+failed.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var body exportResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, export.StatusFailed, body.Status)
	require.Equal(t, "boom", body.Error)

	rr = f.do(http.MethodGet, "/reports/exports/3f1c4a8e-0000-4000-8000-000000000000?lang=en", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "Export not found", decodeProblem(t, rr).Detail)
}
