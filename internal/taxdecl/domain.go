// Package taxdecl computes the periodic VAT declaration from invoice totals
// and tax postings.
package taxdecl

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

// Side selects the invoice doctype a category aggregates.
type Side int

const (
	Sales Side = iota
	Purchases
)

func (s Side) table() string {
	if s == Purchases {
		return `"tabPurchase Invoice"`
	}
	return `"tabSales Invoice"`
}

func (s Side) itemTable() string {
	if s == Purchases {
		return `"tabPurchase Invoice Item"`
	}
	return `"tabSales Invoice Item"`
}

// Totals are the aggregated amounts of one category.
type Totals struct {
	Base        decimal.Decimal
	Net         decimal.Decimal
	Adjustments decimal.Decimal
	Tax         decimal.Decimal
}

// Round returns the totals rounded to two decimals.
func (t Totals) Round() Totals {
	return Totals{
		Base:        t.Base.Round(2),
		Net:         t.Net.Round(2),
		Adjustments: t.Adjustments.Round(2),
		Tax:         t.Tax.Round(2),
	}
}

// InvoiceQuery selects one invoice category: a side, taxable or exempt,
// originals or returns.
type InvoiceQuery struct {
	Side       Side
	Taxable    bool
	Returns    bool
	Company    string
	From       time.Time
	To         time.Time
	CostCenter string
}

// Predicates renders the category over the invoice table aliased inv.
func (q InvoiceQuery) Predicates() []db.Predicate {
	isReturn := 0
	if q.Returns {
		isReturn = 1
	}
	preds := []db.Predicate{
		db.Cond("inv.docstatus = 1"),
		db.Cond("inv.is_return = ?", isReturn),
		db.Cond("inv.posting_date BETWEEN ? AND ?", q.From, q.To),
		db.Cond("inv.company = ?", q.Company),
	}
	if q.CostCenter != "" {
		preds = append(preds, db.Cond("EXISTS (SELECT 1 FROM "+q.Side.itemTable()+" item WHERE item.parent = inv.name AND item.cost_center = ?)", q.CostCenter))
	}
	switch {
	case !q.Taxable:
		preds = append(preds, db.Cond("COALESCE(inv.total_taxes_and_charges, 0) = 0"))
	case q.Returns:
		preds = append(preds, db.Cond("ABS(inv.total_taxes_and_charges) > 0"))
	default:
		preds = append(preds, db.Cond("inv.total_taxes_and_charges > 0"))
	}
	return preds
}

// ExpenseQuery selects debit postings on tax accounts.
type ExpenseQuery struct {
	Company    string
	From       time.Time
	To         time.Time
	CostCenter string
	Accounts   []string
}

// JournalPredicates renders the query over journal entries je and their
// account lines jea. Only plain journal entries count.
func (q ExpenseQuery) JournalPredicates() []db.Predicate {
	preds := []db.Predicate{
		db.Cond("je.docstatus = 1"),
		db.Cond("je.posting_date BETWEEN ? AND ?", q.From, q.To),
		db.Cond("je.company = ?", q.Company),
		db.Cond("jea.account = ANY(?)", q.Accounts),
		db.Cond("je.voucher_type = 'Journal Entry'"),
		db.Cond("jea.debit > 0"),
	}
	if q.CostCenter != "" {
		preds = append(preds, db.Cond("jea.cost_center = ?", q.CostCenter))
	}
	return preds
}

// PaymentPredicates renders the query over payment entry postings gl.
func (q ExpenseQuery) PaymentPredicates() []db.Predicate {
	preds := []db.Predicate{
		db.Cond("gl.docstatus = 1"),
		db.Cond("gl.is_cancelled = 0"),
		db.Cond("gl.posting_date BETWEEN ? AND ?", q.From, q.To),
		db.Cond("gl.debit > 0"),
		db.Cond("gl.company = ?", q.Company),
		db.Cond("gl.account = ANY(?)", q.Accounts),
		db.Cond("gl.voucher_type = 'Payment Entry'"),
	}
	if q.CostCenter != "" {
		preds = append(preds, db.Cond("gl.cost_center = ?", q.CostCenter))
	}
	return preds
}
