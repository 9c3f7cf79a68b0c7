package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	jobmetrics "github.com/muzaini-app/muzaini-reports/internal/jobs"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
)

type imbalanceFinder interface {
	Imbalances(ctx context.Context, q ledger.IntegrityQuery) ([]ledger.Imbalance, error)
}

// LedgerIntegrityJob reports submitted vouchers whose debits and credits
// differ. Such vouchers show up as a difference row in the journal register.
type LedgerIntegrityJob struct {
	Store   imbalanceFinder
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewLedgerIntegrityJob initialises the integrity handler.
func NewLedgerIntegrityJob(store imbalanceFinder, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerIntegrityJob {
	return &LedgerIntegrityJob{
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the scan.
func (j *LedgerIntegrityJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Store == nil {
		return errors.New("ledger integrity: handler not configured")
	}
	var payload LedgerIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.WindowDays <= 0 {
		payload.WindowDays = 31
	}

	tracker := j.Metrics.Track(TaskLedgerIntegrity)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("window_days", payload.WindowDays), slog.String("company", payload.Company))
	since := j.clock().AddDate(0, 0, -payload.WindowDays)
	found, err := j.Store.Imbalances(ctx, ledger.IntegrityQuery{
		Company:   payload.Company,
		Since:     time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC),
		Tolerance: decimal.New(1, -2),
	})
	if err != nil {
		logger.Error("ledger integrity scan failed", slog.Any("error", err))
		return err
	}

	perCompany := map[string]int{}
	for _, imb := range found {
		perCompany[imb.Company]++
		logger.Warn("unbalanced voucher",
			slog.String("voucher_type", imb.VoucherType),
			slog.String("voucher_no", imb.VoucherNo),
			slog.String("posting_date", imb.PostingDate.Format(time.DateOnly)),
			slog.String("difference", imb.Difference().StringFixed(2)),
		)
	}
	for company, n := range perCompany {
		j.Metrics.AddImbalances(company, n)
	}
	logger.Info("ledger integrity scan completed", slog.Int("unbalanced", len(found)))
	return nil
}

func (j *LedgerIntegrityJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}
