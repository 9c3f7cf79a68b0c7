// Package registers lists source documents directly: journal entry lines,
// payment entries and sales invoices.
package registers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

// JournalLine is one account line of a journal entry with its header.
type JournalLine struct {
	PostingDate   time.Time
	Name          string
	VoucherType   string
	UserRemark    string
	Docstatus     int
	Account       string
	AccountName   string
	PartyType     string
	Party         string
	PartyName     string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	CostCenter    string
	ReferenceType string
	ReferenceName string
}

// JournalQuery selects journal lines. Docstatus nil means any.
type JournalQuery struct {
	Company     string
	From        time.Time
	To          time.Time
	VoucherType string
	Account     string
	PartyType   string
	Party       string
	CostCenter  string
	Docstatus   *int
}

// Predicates renders the query over "tabJournal Entry" je joined to its
// account lines jea.
func (q JournalQuery) Predicates() []db.Predicate {
	preds := []db.Predicate{
		db.Cond("je.company = ?", q.Company),
		db.Cond("je.posting_date BETWEEN ? AND ?", q.From, q.To),
	}
	if q.VoucherType != "" {
		preds = append(preds, db.Cond("je.voucher_type = ?", q.VoucherType))
	}
	if q.Account != "" {
		preds = append(preds, db.Cond("jea.account = ?", q.Account))
	}
	if q.PartyType != "" {
		preds = append(preds, db.Cond("jea.party_type = ?", q.PartyType))
	}
	if q.Party != "" {
		preds = append(preds, db.Cond("jea.party = ?", q.Party))
	}
	if q.CostCenter != "" {
		preds = append(preds, db.Cond("jea.cost_center = ?", q.CostCenter))
	}
	if q.Docstatus != nil {
		preds = append(preds, db.Cond("je.docstatus = ?", *q.Docstatus))
	}
	return preds
}

// Payment is one payment entry.
type Payment struct {
	PostingDate    time.Time
	Name           string
	PaymentType    string
	PartyType      string
	Party          string
	PartyName      string
	PaidAmount     decimal.Decimal
	ReceivedAmount decimal.Decimal
	Account        string
	ModeOfPayment  string
	ReferenceNo    string
	ReferenceDate  *time.Time
	CostCenter     string
	Status         string
}

// Amount is the received amount for receipts and the paid amount otherwise.
func (p Payment) Amount() decimal.Decimal {
	if p.PaymentType == "Receive" {
		return p.ReceivedAmount
	}
	return p.PaidAmount
}

// PaymentQuery selects payment entries. Without a status only submitted
// entries are listed.
type PaymentQuery struct {
	Company       string
	From          time.Time
	To            time.Time
	PaymentType   string
	PartyType     string
	Party         string
	ModeOfPayment string
	Account       string
	CostCenter    string
	Status        string
}

// Predicates renders the query over "tabPayment Entry" pe.
func (q PaymentQuery) Predicates() []db.Predicate {
	preds := []db.Predicate{
		db.Cond("pe.company = ?", q.Company),
		db.Cond("pe.posting_date BETWEEN ? AND ?", q.From, q.To),
	}
	if q.PaymentType != "" {
		preds = append(preds, db.Cond("pe.payment_type = ?", q.PaymentType))
	}
	if q.PartyType != "" {
		preds = append(preds, db.Cond("pe.party_type = ?", q.PartyType))
	}
	if q.Party != "" {
		preds = append(preds, db.Cond("pe.party = ?", q.Party))
	}
	if q.ModeOfPayment != "" {
		preds = append(preds, db.Cond("pe.mode_of_payment = ?", q.ModeOfPayment))
	}
	if q.Account != "" {
		preds = append(preds, db.Or(
			db.Cond("pe.paid_to = ?", q.Account),
			db.Cond("pe.paid_from = ?", q.Account),
		))
	}
	if q.CostCenter != "" {
		preds = append(preds, db.Cond("pe.cost_center = ?", q.CostCenter))
	}
	if q.Status != "" {
		preds = append(preds, db.Cond("pe.status = ?", q.Status))
	} else {
		preds = append(preds, db.Cond("pe.docstatus = 1"))
	}
	return preds
}

// Sale is one sales invoice of the sales log.
type Sale struct {
	PostingDate   time.Time
	PostingTime   string
	Name          string
	ReturnAgainst string
	CustomerName  string
	Status        string
	IsReturn      bool
	IsPOS         bool
	TaxAmount     decimal.Decimal
	GrandTotal    decimal.Decimal
	POSProfile    string
	Owner         string
	Warehouse     string
	CostCenter    string
	ModeOfPayment string

	// Set for returns against an existing invoice.
	OriginalIsPOS       *bool
	OriginalOutstanding decimal.NullDecimal
}

// SalesQuery selects submitted sales invoices in a date and time window.
type SalesQuery struct {
	Company           string
	From              time.Time
	To                time.Time
	Customer          string
	ModeOfPayment     string
	CostCenter        string
	POSProfile        string
	Owner             string
	Warehouse         string
	Status            string
	CreditReturnsOnly bool
}

// Predicates renders the query over "tabSales Invoice" si. From and To carry
// the time of day.
func (q SalesQuery) Predicates() []db.Predicate {
	preds := []db.Predicate{
		db.Cond("si.company = ?", q.Company),
		db.Cond("si.docstatus = 1"),
		db.Cond("si.status NOT IN ('Draft', 'Cancelled')"),
		db.Cond("(si.posting_date + si.posting_time) BETWEEN ? AND ?", q.From, q.To),
	}
	if q.Customer != "" {
		preds = append(preds, db.Cond("si.customer = ?", q.Customer))
	}
	if q.ModeOfPayment != "" {
		preds = append(preds, db.Cond(`EXISTS (SELECT 1 FROM "tabSales Invoice Payment" sip WHERE sip.parent = si.name AND sip.mode_of_payment = ?)`, q.ModeOfPayment))
	}
	if q.CostCenter != "" {
		preds = append(preds, db.Cond(`EXISTS (SELECT 1 FROM "tabSales Invoice Item" sii WHERE sii.parent = si.name AND sii.cost_center = ?)`, q.CostCenter))
	}
	if q.POSProfile != "" {
		preds = append(preds, db.Cond("si.pos_profile = ?", q.POSProfile))
	}
	if q.Owner != "" {
		preds = append(preds, db.Cond("si.owner = ?", q.Owner))
	}
	if q.Warehouse != "" {
		preds = append(preds, db.Cond(`EXISTS (SELECT 1 FROM "tabSales Invoice Item" sii WHERE sii.parent = si.name AND sii.warehouse = ?)`, q.Warehouse))
	}
	if q.Status != "" && q.Status != "Draft" && q.Status != "Cancelled" {
		preds = append(preds, db.Cond("si.status = ?", q.Status))
	}
	if q.CreditReturnsOnly {
		preds = append(preds,
			db.Cond("si.is_return = 1"),
			db.Cond("COALESCE(si.return_against, '') <> ''"),
			db.Cond(`(SELECT original.is_pos FROM "tabSales Invoice" original WHERE original.name = si.return_against) = 0`),
		)
	}
	return preds
}
