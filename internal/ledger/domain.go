// Package ledger reads general ledger postings and folds them into running
// balances.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher types owning ledger entries.
const (
	VoucherSalesInvoice    = "Sales Invoice"
	VoucherPurchaseInvoice = "Purchase Invoice"
	VoucherPaymentEntry    = "Payment Entry"
	VoucherJournalEntry    = "Journal Entry"
)

// Party types.
const (
	PartyCustomer = "Customer"
	PartySupplier = "Supplier"
	PartyEmployee = "Employee"
)

// Entry is one posting, or one voucher's postings summed when grouped.
type Entry struct {
	PostingDate time.Time
	Creation    time.Time
	VoucherType string
	VoucherNo   string
	Account     string
	Against     string
	Remarks     string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	// CostCenter and CreatedBy come from the owning document when it is an
	// invoice, payment or journal entry, and from the posting otherwise.
	CostCenter string
	CreatedBy  string

	// PostingCostCenter and PostedBy are the posting's own columns.
	PostingCostCenter string
	PostedBy          string
}

// Net returns debit minus credit.
func (e Entry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// Movement is the per-account aggregate used by the trial balance.
type Movement struct {
	Account string
	Opening decimal.Decimal
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// Closing is the net position after the period.
func (m Movement) Closing() decimal.Decimal {
	return m.Opening.Add(m.Debit).Sub(m.Credit)
}
