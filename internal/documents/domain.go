// Package documents looks up the vouchers that own ledger entries: sales and
// purchase invoices, payment entries and journal entries.
package documents

import "github.com/shopspring/decimal"

// Invoice carries the fields reports derive statuses and descriptions from.
type Invoice struct {
	Name          string
	Status        string
	IsReturn      bool
	IsPOS         bool
	GrandTotal    decimal.Decimal
	Outstanding   decimal.Decimal
	PartyName     string
	Remarks       string
	ReturnAgainst string
}

// Payment is the header of a payment entry.
type Payment struct {
	Name        string
	PaymentType string
	PartyType   string
	PartyName   string
	Remarks     string
	Status      string
}

// Payment types.
const (
	PaymentReceive          = "Receive"
	PaymentPay              = "Pay"
	PaymentInternalTransfer = "Internal Transfer"
)

// Reference links a payment entry to a document it settles.
type Reference struct {
	Payment string
	Doctype string
	Name    string
}

// Journal is the header of a journal entry.
type Journal struct {
	Name        string
	VoucherType string
	UserRemark  string
}
