package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFoldRunningBalance(t *testing.T) {
	entries := []Entry{
		{VoucherNo: "SINV-1", Debit: dec("500"), Credit: decimal.Zero},
		{VoucherNo: "PE-1", Debit: decimal.Zero, Credit: dec("300")},
		{VoucherNo: "SINV-2", Debit: dec("40.5"), Credit: decimal.Zero},
	}
	postings, totals := Fold(dec("100"), entries)

	require.Len(t, postings, 3)
	require.True(t, postings[0].Balance.Equal(dec("600")))
	require.True(t, postings[1].Balance.Equal(dec("300")))
	require.True(t, postings[2].Balance.Equal(dec("340.5")))
	require.True(t, totals.Debit.Equal(dec("540.5")))
	require.True(t, totals.Credit.Equal(dec("300")))
	require.True(t, totals.Closing.Equal(postings[2].Balance))
}

func TestFoldEmptyKeepsOpening(t *testing.T) {
	postings, totals := Fold(dec("-75"), nil)
	require.Empty(t, postings)
	require.True(t, totals.Closing.Equal(dec("-75")))
	require.True(t, totals.Debit.IsZero())
	require.True(t, totals.Credit.IsZero())
}

func TestSortEntriesByDateThenCreation(t *testing.T) {
	entries := []Entry{
		{VoucherNo: "c", PostingDate: day(2), Creation: day(1).Add(3 * time.Hour)},
		{VoucherNo: "a", PostingDate: day(1), Creation: day(1).Add(5 * time.Hour)},
		{VoucherNo: "b", PostingDate: day(2), Creation: day(1).Add(time.Hour)},
		{VoucherNo: "z", PostingDate: day(1), Creation: day(1)},
	}
	SortEntries(entries)
	var got []string
	for _, e := range entries {
		got = append(got, e.VoucherNo)
	}
	require.Equal(t, []string{"z", "a", "b", "c"}, got)
}

func TestOpeningSides(t *testing.T) {
	dr, cr := OpeningSides(dec("-12.5"))
	require.True(t, dr.IsZero())
	require.True(t, cr.Equal(dec("12.5")))

	dr, cr = OpeningSides(dec("8"))
	require.True(t, dr.Equal(dec("8")))
	require.True(t, cr.IsZero())
}

func TestQueryPredicatesBase(t *testing.T) {
	where, args := db.Where(1, Query{Company: "Muzaini"}.Predicates()...)
	require.Equal(t, "gle.docstatus = 1 AND gle.is_cancelled = 0 AND gle.company = $1", where)
	require.Equal(t, []any{"Muzaini"}, args)
}

func TestQueryIncludeCancelledKeepsDocstatus(t *testing.T) {
	where, _ := db.Where(1, Query{IncludeCancelled: true}.Predicates()...)
	require.Equal(t, "gle.docstatus = 1", where)
}

func TestQueryOpeningAndPeriodWindows(t *testing.T) {
	base := Query{Company: "Muzaini", Accounts: []string{"Debtors"}, PartyType: PartyCustomer, Party: "CUST-1"}

	where, args := db.Where(1, base.Opening(day(1)).Predicates()...)
	require.Contains(t, where, "gle.posting_date < $5")
	require.NotContains(t, where, ">=")
	require.Equal(t, day(1), args[4])

	where, args = db.Where(1, base.Period(day(1), day(31)).Predicates()...)
	require.Contains(t, where, "gle.posting_date >= $5 AND gle.posting_date <= $6")
	require.NotContains(t, where, "posting_date < $")
	require.Len(t, args, 6)
}

func TestQueryOpeningAndPeriodPartitionTheLedger(t *testing.T) {
	q := Query{Company: "Muzaini"}
	entries := []Entry{
		{PostingDate: day(1).AddDate(0, 0, -1), Debit: dec("10"), Credit: decimal.Zero},
		{PostingDate: day(1), Debit: dec("20"), Credit: decimal.Zero},
		{PostingDate: day(15), Debit: decimal.Zero, Credit: dec("5")},
		{PostingDate: day(31), Debit: dec("1"), Credit: decimal.Zero},
	}
	opening, period := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if q.Opening(day(1)).Matches(e, "Muzaini", "", "") {
			opening = opening.Add(e.Net())
		}
		if q.Period(day(1), day(31)).Matches(e, "Muzaini", "", "") {
			period = period.Add(e.Net())
		}
	}
	require.True(t, opening.Equal(dec("10")))
	require.True(t, period.Equal(dec("16")))
}

func TestQueryAccountsUseAnyForLists(t *testing.T) {
	where, args := db.Where(1, Query{Accounts: []string{"Cash", "Bank"}}.Predicates()...)
	require.Contains(t, where, "gle.account = ANY($1)")
	require.Equal(t, []string{"Cash", "Bank"}, args[0])
}

func TestQueryDocumentDimensions(t *testing.T) {
	q := Query{
		Users:       []string{"amal@example.com"},
		CostCenters: []string{"Main - M"},
		Warehouses:  []string{"Stores - M"},
	}
	where, args := db.Where(1, q.Predicates()...)

	require.Contains(t, where, `SELECT si.owner FROM "tabSales Invoice" si`)
	require.Contains(t, where, ") = ANY($1)")
	// cost center matches the document header or any invoice line
	require.Contains(t, where, ") = ANY($2) OR (gle.voucher_type = 'Sales Invoice'")
	require.Contains(t, where, "sii.cost_center = ANY($3)")
	require.Contains(t, where, "sii.warehouse = ANY($4)")
	require.Len(t, args, 4)
	require.Equal(t, 1, strings.Count(where, " OR "))
}

func TestQueryPostingDimensions(t *testing.T) {
	where, args := db.Where(1, Query{EntryCostCenter: "Main - M", EntryOwner: "amal@example.com"}.Predicates()...)
	require.True(t, strings.HasSuffix(where, "gle.cost_center = $1 AND gle.owner = $2"))
	require.Equal(t, []any{"Main - M", "amal@example.com"}, args)
}

func TestMovementQueryPredicates(t *testing.T) {
	to := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	where, args := db.Where(5, MovementQuery{Company: "Muzaini Trading", To: to, CostCenters: []string{"Main - MT"}}.Predicates()...)
	require.Equal(t, "gle.company = $5 AND gle.is_cancelled = 0 AND gle.docstatus = 1 AND gle.posting_date <= $6 AND gle.cost_center = ANY($7)", where)
	require.Equal(t, []any{"Muzaini Trading", to, []string{"Main - MT"}}, args)
}

func TestMovementClosing(t *testing.T) {
	m := Movement{Opening: dec("100"), Debit: dec("40"), Credit: dec("65")}
	require.True(t, m.Closing().Equal(dec("75")))
}

func TestIntegrityQueryPredicates(t *testing.T) {
	where, args := db.Where(2, IntegrityQuery{Company: "Muzaini", Since: day(1)}.Predicates()...)
	require.Equal(t, "gle.is_cancelled = 0 AND gle.docstatus = 1 AND gle.posting_date >= $2 AND gle.company = $3", where)
	require.Equal(t, []any{day(1), "Muzaini"}, args)

	where, _ = db.Where(2, IntegrityQuery{}.Predicates()...)
	require.Equal(t, "gle.is_cancelled = 0 AND gle.docstatus = 1", where)
}

func TestImbalanceDifference(t *testing.T) {
	i := Imbalance{Debit: dec("100.00"), Credit: dec("99.50")}
	require.True(t, i.Difference().Equal(dec("0.50")))
}

func TestMatchesUsesPostingDimensions(t *testing.T) {
	e := Entry{
		PostingDate: day(5), CostCenter: "Branch - M", CreatedBy: "doc@example.com",
		PostingCostCenter: "Main - M", PostedBy: "amal@example.com",
	}
	q := Query{EntryCostCenter: "Main - M", EntryOwner: "amal@example.com"}
	require.True(t, q.Matches(e, "Muzaini", "", ""))

	q.EntryOwner = "doc@example.com"
	require.False(t, q.Matches(e, "Muzaini", "", ""))
	q = Query{EntryCostCenter: "Branch - M"}
	require.False(t, q.Matches(e, "Muzaini", "", ""))
}
