package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Posting is an entry with the balance after it is applied.
type Posting struct {
	Entry
	Balance decimal.Decimal
}

// Totals sums a folded sequence. Closing equals the last running balance,
// or the opening when there are no entries.
type Totals struct {
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Closing decimal.Decimal
}

// Fold applies entries in order starting from opening.
func Fold(opening decimal.Decimal, entries []Entry) ([]Posting, Totals) {
	postings := make([]Posting, 0, len(entries))
	totals := Totals{Debit: decimal.Zero, Credit: decimal.Zero, Closing: opening}
	balance := opening
	for _, e := range entries {
		balance = balance.Add(e.Debit).Sub(e.Credit)
		totals.Debit = totals.Debit.Add(e.Debit)
		totals.Credit = totals.Credit.Add(e.Credit)
		postings = append(postings, Posting{Entry: e, Balance: balance})
	}
	totals.Closing = balance
	return postings, totals
}

// SortEntries orders entries by posting date then creation time. Ties keep
// their input order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.PostingDate.Equal(b.PostingDate) {
			return a.PostingDate.Before(b.PostingDate)
		}
		return a.Creation.Before(b.Creation)
	})
}

// OpeningSides splits a signed opening balance into debit and credit
// columns.
func OpeningSides(opening decimal.Decimal) (debit, credit decimal.Decimal) {
	if opening.IsNegative() {
		return decimal.Zero, opening.Neg()
	}
	return opening, decimal.Zero
}
