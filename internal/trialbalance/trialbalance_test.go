package trialbalance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	_ "github.com/muzaini-app/muzaini-reports/testing"
)

const company = "Muzaini Trading"

var english = i18n.MustCatalog("en").Localizer("en")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// chart returns the nested-set tree below (lft..rgt).
//
//	Application of Funds (Assets)      1..12
//	  Current Assets                   2..9
//	    Cash                           3..4
//	    Bank                           5..6
//	    Debtors                        7..8
//	  Fixed Assets                     10..11
//	Source of Funds (Liabilities)      13..16
//	  Creditors                        14..15
func chart() []accounts.Node {
	return []accounts.Node{
		{Name: "Application of Funds (Assets)", Lft: 1, Rgt: 12, IsGroup: true, RootType: "Asset"},
		{Name: "Current Assets", Parent: "Application of Funds (Assets)", Lft: 2, Rgt: 9, IsGroup: true, RootType: "Asset"},
		{Name: "Cash", Parent: "Current Assets", Lft: 3, Rgt: 4, RootType: "Asset"},
		{Name: "Bank", Parent: "Current Assets", Lft: 5, Rgt: 6, RootType: "Asset"},
		{Name: "Debtors", Parent: "Current Assets", Lft: 7, Rgt: 8, RootType: "Asset"},
		{Name: "Fixed Assets", Parent: "Application of Funds (Assets)", Lft: 10, Rgt: 11, RootType: "Asset"},
		{Name: "Source of Funds (Liabilities)", Lft: 13, Rgt: 16, IsGroup: true, RootType: "Liability"},
		{Name: "Creditors", Parent: "Source of Funds (Liabilities)", Lft: 14, Rgt: 15, RootType: "Liability"},
	}
}

func movements() []ledger.Movement {
	return []ledger.Movement{
		{Account: "Cash", Opening: dec("1000"), Debit: dec("200"), Credit: dec("150")},
		{Account: "Bank", Opening: dec("500"), Debit: dec("100"), Credit: dec("50")},
		{Account: "Debtors", Opening: dec("-100"), Debit: dec("0"), Credit: dec("20")},
		{Account: "Creditors", Opening: dec("-1400"), Debit: dec("10"), Credit: dec("90")},
	}
}

func line(t *testing.T, tb TrialBalance, account string) Line {
	t.Helper()
	for _, l := range tb.Lines {
		if l.Account == account {
			return l
		}
	}
	t.Fatalf("account %q not in trial balance", account)
	return Line{}
}

func TestBuildRollsUpThroughNestedSet(t *testing.T) {
	tb := Build(chart(), movements())
	require.Len(t, tb.Lines, 8)
	require.Equal(t, "Application of Funds (Assets)", tb.Lines[0].Account)

	debtors := line(t, tb, "Debtors")
	require.True(t, debtors.OpeningDebit.IsZero())
	require.True(t, debtors.OpeningCredit.Equal(dec("100")))
	require.True(t, debtors.ClosingCredit.Equal(dec("120")))

	current := line(t, tb, "Current Assets")
	require.True(t, current.OpeningDebit.Equal(dec("1400")))
	require.True(t, current.Debit.Equal(dec("300")))
	require.True(t, current.Credit.Equal(dec("220")))
	require.True(t, current.ClosingDebit.Equal(dec("1480")))
	require.True(t, current.ClosingCredit.IsZero())

	require.True(t, line(t, tb, "Fixed Assets").Zero())

	require.True(t, tb.Total.Debit.Equal(dec("310")))
	require.True(t, tb.Total.Credit.Equal(dec("310")))
	require.True(t, tb.Total.OpeningDebit.Equal(dec("1400")))
	require.True(t, tb.Total.OpeningCredit.Equal(dec("1400")))
	require.True(t, tb.Total.ClosingDebit.Equal(dec("1480")))
	require.True(t, tb.Total.ClosingCredit.Equal(dec("1480")))
}

func TestBuildIgnoresUnknownAccounts(t *testing.T) {
	tb := Build(chart(), []ledger.Movement{{Account: "Suspense", Debit: dec("5")}})
	require.True(t, tb.Total.Zero())
}

func TestTotalSkipsNestedLines(t *testing.T) {
	lines := []Line{
		{Account: "Current Assets", Parent: "Application of Funds (Assets)", Debit: dec("300")},
		{Account: "Cash", Parent: "Current Assets", Debit: dec("200")},
		{Account: "Bank", Parent: "Current Assets", Debit: dec("100")},
	}
	require.True(t, Total(lines).Debit.Equal(dec("300")))
}

type fakeStore struct {
	tree      []accounts.Node
	moves     []ledger.Movement
	bounds    map[string]accounts.Bounds
	years     map[string]accounts.FiscalYear
	latest    *accounts.FiscalYear
	parentErr error

	query ledger.MovementQuery
}

func (s *fakeStore) ReadSnapshot(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) Tree(context.Context, string) ([]accounts.Node, error) { return s.tree, nil }

func (s *fakeStore) Movements(_ context.Context, q ledger.MovementQuery) ([]ledger.Movement, error) {
	s.query = q
	return s.moves, nil
}

func (s *fakeStore) Bounds(_ context.Context, account string) (accounts.Bounds, error) {
	b, ok := s.bounds[account]
	if !ok {
		return accounts.Bounds{}, accounts.ErrNotFound
	}
	return b, nil
}

func (s *fakeStore) Subtree(_ context.Context, b accounts.Bounds) ([]string, error) {
	var out []string
	for _, n := range s.tree {
		if n.Lft >= b.Lft && n.Rgt <= b.Rgt {
			out = append(out, n.Name)
		}
	}
	return out, nil
}

func (s *fakeStore) Parents(_ context.Context, _ []string) (map[string]string, error) {
	if s.parentErr != nil {
		return nil, s.parentErr
	}
	out := make(map[string]string)
	for _, n := range s.tree {
		out[n.Name] = n.Parent
	}
	return out, nil
}

func (s *fakeStore) FiscalYear(_ context.Context, name string) (accounts.FiscalYear, error) {
	fy, ok := s.years[name]
	if !ok {
		return accounts.FiscalYear{}, accounts.ErrNotFound
	}
	return fy, nil
}

func (s *fakeStore) LatestFiscalYear(context.Context) (accounts.FiscalYear, error) {
	if s.latest == nil {
		return accounts.FiscalYear{}, accounts.ErrNotFound
	}
	return *s.latest, nil
}

func newStore() *fakeStore {
	return &fakeStore{
		tree:  chart(),
		moves: movements(),
		bounds: map[string]accounts.Bounds{
			"Current Assets": {Lft: 2, Rgt: 9},
			"Broken":         {},
		},
	}
}

func run(t *testing.T, store *fakeStore, f reporting.Filters) reporting.Result {
	t.Helper()
	norm := reporting.NewNormalizer(company, func() time.Time { return date(2025, time.March, 10) })
	res, err := NewReport(store, norm, nil).Run(context.Background(), f, english)
	require.NoError(t, err)
	return res
}

func accountsOf(rows []reporting.Row) []string {
	var out []string
	for _, r := range rows {
		if !r.Flag(reporting.FlagTotal) {
			out = append(out, r["account"].(string))
		}
	}
	return out
}

func TestReportFiltersByParentAccount(t *testing.T) {
	res := run(t, newStore(), reporting.Filters{ParentAccount: "Current Assets"})
	require.Equal(t, []string{"Current Assets", "Cash", "Bank", "Debtors"}, accountsOf(res.Rows))

	total := res.Rows[len(res.Rows)-1]
	require.True(t, total.Flag(reporting.FlagTotal))
	require.Equal(t, "Total", total["account_name"])
	require.True(t, total["debit"].(decimal.Decimal).Equal(dec("300")))
	require.True(t, total["closing_debit"].(decimal.Decimal).Equal(dec("1480")))
}

func TestReportUnresolvedParentReturnsEverything(t *testing.T) {
	full := run(t, newStore(), reporting.Filters{})
	for _, parent := range []string{"Missing Account", "Broken"} {
		res := run(t, newStore(), reporting.Filters{ParentAccount: parent})
		require.Equal(t, full.Rows, res.Rows, parent)
	}
}

func TestReportSuppressesZeroRows(t *testing.T) {
	res := run(t, newStore(), reporting.Filters{})
	require.NotContains(t, accountsOf(res.Rows), "Fixed Assets")

	res = run(t, newStore(), reporting.Filters{ShowZeroValues: true})
	require.Contains(t, accountsOf(res.Rows), "Fixed Assets")
	require.Len(t, res.Rows, 9)
}

func TestReportTotalCountsChildrenOfSuppressedGroups(t *testing.T) {
	store := newStore()
	store.tree = append(store.tree,
		accounts.Node{Name: "Suspense", Lft: 17, Rgt: 22, IsGroup: true, RootType: "Asset"},
		accounts.Node{Name: "Suspense In", Parent: "Suspense", Lft: 18, Rgt: 19, RootType: "Asset"},
		accounts.Node{Name: "Suspense Out", Parent: "Suspense", Lft: 20, Rgt: 21, RootType: "Asset"},
	)
	store.moves = append(store.moves,
		ledger.Movement{Account: "Suspense In", Opening: dec("100"), Debit: dec("0"), Credit: dec("0")},
		ledger.Movement{Account: "Suspense Out", Opening: dec("-100"), Debit: dec("0"), Credit: dec("0")},
	)

	res := run(t, store, reporting.Filters{})
	names := accountsOf(res.Rows)
	require.NotContains(t, names, "Suspense")
	require.Contains(t, names, "Suspense In")
	require.Contains(t, names, "Suspense Out")

	total := res.Rows[len(res.Rows)-1]
	require.True(t, total.Flag(reporting.FlagTotal))
	require.True(t, total["opening_debit"].(decimal.Decimal).Equal(dec("1500")))
	require.True(t, total["opening_credit"].(decimal.Decimal).Equal(dec("1500")))
	require.True(t, total["closing_debit"].(decimal.Decimal).Equal(dec("1580")))
	require.True(t, total["closing_credit"].(decimal.Decimal).Equal(dec("1580")))
}

func TestReportIndentsByParentChain(t *testing.T) {
	res := run(t, newStore(), reporting.Filters{})
	indent := map[string]int{}
	for _, r := range res.Rows {
		if a, _ := r["account"].(string); a != "" {
			indent[a] = r["indent"].(int)
		}
	}
	require.Equal(t, 0, indent["Application of Funds (Assets)"])
	require.Equal(t, 1, indent["Current Assets"])
	require.Equal(t, 2, indent["Cash"])

	store := newStore()
	store.parentErr = errors.New("hierarchy unavailable")
	res = run(t, store, reporting.Filters{})
	require.Equal(t, 0, res.Rows[1]["indent"])
}

func TestReportDefaultsToFiscalYear(t *testing.T) {
	store := newStore()
	store.years = map[string]accounts.FiscalYear{
		"2024": {Name: "2024", Start: date(2024, time.January, 1), End: date(2024, time.December, 31)},
	}
	store.latest = &accounts.FiscalYear{Name: "2025", Start: date(2025, time.January, 1), End: date(2025, time.December, 31)}

	res := run(t, store, reporting.Filters{FiscalYear: "2024"})
	require.Equal(t, date(2024, time.January, 1), store.query.From)
	require.Equal(t, date(2024, time.December, 31), store.query.To)
	require.Equal(t, "2024", res.Metadata["fiscal_year"])

	run(t, store, reporting.Filters{FiscalYear: "1999"})
	require.Equal(t, date(2025, time.January, 1), store.query.From)
	require.Equal(t, date(2025, time.January, 1), store.query.FiscalStart)
	require.Equal(t, accounts.PeriodRootTypes, store.query.PeriodRootTypes)

	run(t, store, reporting.Filters{FromDate: date(2025, time.February, 1), ToDate: date(2025, time.February, 28), CostCenters: []string{"Main - MT"}})
	require.Equal(t, date(2025, time.February, 1), store.query.From)
	require.Equal(t, date(2025, time.January, 1), store.query.FiscalStart)
	require.Equal(t, []string{"Main - MT"}, store.query.CostCenters)
}

func TestReportFallsBackToMonthToDate(t *testing.T) {
	store := newStore()
	run(t, store, reporting.Filters{})
	require.Equal(t, date(2025, time.March, 1), store.query.From)
	require.Equal(t, date(2025, time.March, 10), store.query.To)
	require.Equal(t, date(2025, time.January, 1), store.query.FiscalStart)
}
