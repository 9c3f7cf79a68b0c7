package trialbalance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// ReportName is the registry name of the parent accounts trial balance.
const ReportName = "parent-accounts-trial-balance"

var columns = []reporting.Column{
	{FieldName: "account", Label: "Account", Type: reporting.TypeLink, Options: "Account", Width: 300},
	{FieldName: "opening_debit", Label: "Opening (Dr)", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "opening_credit", Label: "Opening (Cr)", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "debit", Label: "Debit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "credit", Label: "Credit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "closing_debit", Label: "Closing (Dr)", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "closing_credit", Label: "Closing (Cr)", Type: reporting.TypeCurrency, Width: 120},
}

// Store is what the trial balance reads.
type Store interface {
	ReadSnapshot(ctx context.Context, fn func(context.Context) error) error
	Tree(ctx context.Context, company string) ([]accounts.Node, error)
	Movements(ctx context.Context, q ledger.MovementQuery) ([]ledger.Movement, error)
	Bounds(ctx context.Context, account string) (accounts.Bounds, error)
	Subtree(ctx context.Context, b accounts.Bounds) ([]string, error)
	Parents(ctx context.Context, names []string) (map[string]string, error)
	FiscalYear(ctx context.Context, name string) (accounts.FiscalYear, error)
	LatestFiscalYear(ctx context.Context) (accounts.FiscalYear, error)
}

// Report is the trial balance restricted to a parent account.
type Report struct {
	store  Store
	norm   *reporting.Normalizer
	logger *slog.Logger
}

// NewReport constructs the parent accounts trial balance.
func NewReport(store Store, norm *reporting.Normalizer, logger *slog.Logger) *Report {
	if logger == nil {
		logger = slog.Default()
	}
	return &Report{store: store, norm: norm, logger: logger}
}

// Name implements reporting.Runner.
func (r *Report) Name() string { return ReportName }

// Run implements reporting.Runner.
func (r *Report) Run(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	var res reporting.Result
	err := r.store.ReadSnapshot(ctx, func(ctx context.Context) error {
		fy, haveYear := r.fiscalYear(ctx, f.FiscalYear)
		if haveYear && (f.FromDate.IsZero() || f.ToDate.IsZero()) {
			f.FromDate, f.ToDate = fy.Start, fy.End
			f.FiscalYear = fy.Name
		}
		nf, err := r.norm.Normalize(f)
		if err != nil {
			return err
		}
		fiscalStart := time.Date(nf.FromDate.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		if haveYear && !fy.Start.After(nf.FromDate) {
			fiscalStart = fy.Start
		}
		res, err = r.build(ctx, nf, fiscalStart, loc)
		return err
	})
	return res, err
}

func (r *Report) build(ctx context.Context, f reporting.Filters, fiscalStart time.Time, loc *i18n.Localizer) (reporting.Result, error) {
	tree, err := r.store.Tree(ctx, f.Company)
	if err != nil {
		return reporting.Result{}, err
	}
	moves, err := r.store.Movements(ctx, ledger.MovementQuery{
		Company:         f.Company,
		From:            f.FromDate,
		To:              f.ToDate,
		FiscalStart:     fiscalStart,
		PeriodRootTypes: accounts.PeriodRootTypes,
		CostCenters:     f.CostCenters,
	})
	if err != nil {
		return reporting.Result{}, err
	}

	tb := Build(tree, moves)
	tb = r.underParent(ctx, tb, f.ParentAccount)
	if !f.ShowZeroValues {
		tb.Lines = nonZero(tb.Lines)
		tb.Total = Total(tb.Lines)
	}
	r.indent(ctx, tb.Lines)

	rows := make([]reporting.Row, 0, len(tb.Lines)+1)
	for _, l := range tb.Lines {
		row := amounts(l)
		row["account"] = l.Account
		row["account_name"] = l.AccountName
		row["parent_account"] = l.Parent
		row["indent"] = l.Indent
		row["is_group"] = l.IsGroup
		rows = append(rows, row)
	}
	total := amounts(tb.Total)
	total["account"] = ""
	total["account_name"] = loc.T("Total")
	total[reporting.FlagTotal] = true
	rows = append(rows, total)

	return reporting.Result{
		Columns: reporting.Localize(loc, columns...),
		Rows:    rows,
		Metadata: map[string]any{
			"from_date":   reporting.FormatDate(f.FromDate),
			"to_date":     reporting.FormatDate(f.ToDate),
			"fiscal_year": f.FiscalYear,
		},
	}, nil
}

// fiscalYear resolves the named year, falling back to the latest enabled
// one. Failure is not an error: the caller falls back to month to date.
func (r *Report) fiscalYear(ctx context.Context, name string) (accounts.FiscalYear, bool) {
	if name != "" {
		fy, err := r.store.FiscalYear(ctx, name)
		if err == nil {
			return fy, true
		}
		if !errors.Is(err, accounts.ErrNotFound) {
			r.logger.Warn("trial balance fiscal year", slog.String("fiscal_year", name), slog.Any("error", err))
		}
	}
	fy, err := r.store.LatestFiscalYear(ctx)
	if err != nil {
		if !errors.Is(err, accounts.ErrNotFound) {
			r.logger.Warn("trial balance latest fiscal year", slog.Any("error", err))
		}
		return accounts.FiscalYear{}, false
	}
	return fy, true
}

// underParent keeps the parent account and its descendants and recomputes
// the total over them. Unresolvable bounds leave the balance untouched.
func (r *Report) underParent(ctx context.Context, tb TrialBalance, parent string) TrialBalance {
	if parent == "" {
		return tb
	}
	bounds, err := r.store.Bounds(ctx, parent)
	if err != nil || !bounds.Valid() {
		if err != nil && !errors.Is(err, accounts.ErrNotFound) {
			r.logger.Warn("trial balance parent bounds", slog.String("account", parent), slog.Any("error", err))
		}
		return tb
	}
	names, err := r.store.Subtree(ctx, bounds)
	if err != nil {
		r.logger.Warn("trial balance parent subtree", slog.String("account", parent), slog.Any("error", err))
		return tb
	}
	keep := make(map[string]struct{}, len(names)+1)
	keep[parent] = struct{}{}
	for _, n := range names {
		keep[n] = struct{}{}
	}
	lines := make([]Line, 0, len(names))
	for _, l := range tb.Lines {
		if _, ok := keep[l.Account]; ok {
			lines = append(lines, l)
		}
	}
	return TrialBalance{Lines: lines, Total: Total(lines)}
}

func nonZero(lines []Line) []Line {
	out := lines[:0:0]
	for _, l := range lines {
		if !l.Zero() {
			out = append(out, l)
		}
	}
	return out
}

// indent sets each line's depth from its parent chain. A failed lookup
// leaves every line at depth zero.
func (r *Report) indent(ctx context.Context, lines []Line) {
	if len(lines) == 0 {
		return
	}
	names := make([]string, len(lines))
	for i, l := range lines {
		names[i] = l.Account
	}
	parents, err := r.store.Parents(ctx, names)
	if err != nil {
		r.logger.Warn("trial balance indentation", slog.Any("error", err))
		return
	}
	for i := range lines {
		lines[i].Indent = accounts.Depth(parents, lines[i].Account)
	}
}

func amounts(l Line) reporting.Row {
	return reporting.Row{
		"opening_debit":  l.OpeningDebit,
		"opening_credit": l.OpeningCredit,
		"debit":          l.Debit,
		"credit":         l.Credit,
		"closing_debit":  l.ClosingDebit,
		"closing_credit": l.ClosingCredit,
	}
}
