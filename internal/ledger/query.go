package ledger

import (
	"time"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

// documentOwner resolves who created the voucher behind a posting.
const documentOwner = `CASE gle.voucher_type
	WHEN 'Sales Invoice' THEN (SELECT si.owner FROM "tabSales Invoice" si WHERE si.name = gle.voucher_no)
	WHEN 'Payment Entry' THEN (SELECT pe.owner FROM "tabPayment Entry" pe WHERE pe.name = gle.voucher_no)
	WHEN 'Journal Entry' THEN (SELECT je.owner FROM "tabJournal Entry" je WHERE je.name = gle.voucher_no)
	ELSE gle.owner END`

// documentCostCenter resolves the cost center of the voucher behind a posting.
const documentCostCenter = `CASE gle.voucher_type
	WHEN 'Sales Invoice' THEN (SELECT si.cost_center FROM "tabSales Invoice" si WHERE si.name = gle.voucher_no)
	WHEN 'Payment Entry' THEN (SELECT pe.cost_center FROM "tabPayment Entry" pe WHERE pe.name = gle.voucher_no)
	WHEN 'Journal Entry' THEN (SELECT je.cost_center FROM "tabJournal Entry" je WHERE je.name = gle.voucher_no)
	ELSE gle.cost_center END`

// Query selects postings. Every field is optional; zero values add no
// condition. Cancelled postings and unsubmitted ones are always excluded
// unless IncludeCancelled lifts the cancellation check.
type Query struct {
	Company   string
	Accounts  []string
	PartyType string
	Party     string

	// From and To bound the period inclusively. Before is an exclusive upper
	// bound used for opening balances.
	From   time.Time
	To     time.Time
	Before time.Time

	// Dimensions matched against the owning document.
	Users       []string
	CostCenters []string
	Warehouses  []string

	// Dimensions matched against the posting row itself.
	EntryCostCenter string
	EntryOwner      string

	IncludeCancelled bool
}

// Opening returns the query for everything strictly before from.
func (q Query) Opening(from time.Time) Query {
	q.From, q.To = time.Time{}, time.Time{}
	q.Before = from
	return q
}

// Period returns the query for from..to inclusive.
func (q Query) Period(from, to time.Time) Query {
	q.Before = time.Time{}
	q.From, q.To = from, to
	return q
}

// Predicates renders the query as typed conditions over "tabGL Entry" gle.
func (q Query) Predicates() []db.Predicate {
	preds := []db.Predicate{db.Cond("gle.docstatus = 1")}
	if !q.IncludeCancelled {
		preds = append(preds, db.Cond("gle.is_cancelled = 0"))
	}
	if q.Company != "" {
		preds = append(preds, db.Cond("gle.company = ?", q.Company))
	}
	switch len(q.Accounts) {
	case 0:
	case 1:
		preds = append(preds, db.Cond("gle.account = ?", q.Accounts[0]))
	default:
		preds = append(preds, db.Cond("gle.account = ANY(?)", q.Accounts))
	}
	if q.PartyType != "" {
		preds = append(preds, db.Cond("gle.party_type = ?", q.PartyType))
	}
	if q.Party != "" {
		preds = append(preds, db.Cond("gle.party = ?", q.Party))
	}
	if !q.From.IsZero() {
		preds = append(preds, db.Cond("gle.posting_date >= ?", q.From))
	}
	if !q.To.IsZero() {
		preds = append(preds, db.Cond("gle.posting_date <= ?", q.To))
	}
	if !q.Before.IsZero() {
		preds = append(preds, db.Cond("gle.posting_date < ?", q.Before))
	}
	if len(q.Users) > 0 {
		preds = append(preds, db.Cond("("+documentOwner+") = ANY(?)", q.Users))
	}
	if len(q.CostCenters) > 0 {
		preds = append(preds, db.Or(
			db.Cond("("+documentCostCenter+") = ANY(?)", q.CostCenters),
			db.Cond(`(gle.voucher_type = 'Sales Invoice' AND gle.voucher_no IN (SELECT sii.parent FROM "tabSales Invoice Item" sii WHERE sii.cost_center = ANY(?)))`, q.CostCenters),
		))
	}
	if len(q.Warehouses) > 0 {
		preds = append(preds, db.Cond(`(gle.voucher_type = 'Sales Invoice' AND gle.voucher_no IN (SELECT sii.parent FROM "tabSales Invoice Item" sii WHERE sii.warehouse = ANY(?)))`, q.Warehouses))
	}
	if q.EntryCostCenter != "" {
		preds = append(preds, db.Cond("gle.cost_center = ?", q.EntryCostCenter))
	}
	if q.EntryOwner != "" {
		preds = append(preds, db.Cond("gle.owner = ?", q.EntryOwner))
	}
	return preds
}

// Matches evaluates the posting-level part of the query against an entry.
// Document dimensions are not evaluated. In-memory ledgers use it.
func (q Query) Matches(e Entry, company, partyType, party string) bool {
	if q.Company != "" && q.Company != company {
		return false
	}
	if len(q.Accounts) > 0 && !contains(q.Accounts, e.Account) {
		return false
	}
	if q.PartyType != "" && q.PartyType != partyType {
		return false
	}
	if q.Party != "" && q.Party != party {
		return false
	}
	if !q.From.IsZero() && e.PostingDate.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && e.PostingDate.After(q.To) {
		return false
	}
	if !q.Before.IsZero() && !e.PostingDate.Before(q.Before) {
		return false
	}
	if q.EntryCostCenter != "" && q.EntryCostCenter != e.PostingCostCenter {
		return false
	}
	if q.EntryOwner != "" && q.EntryOwner != e.PostedBy {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// MovementQuery selects the postings aggregated into trial balance
// movements. CostCenters narrows on the posting's own cost center.
type MovementQuery struct {
	Company         string
	From            time.Time
	To              time.Time
	FiscalStart     time.Time
	PeriodRootTypes []string
	CostCenters     []string
}

// Predicates renders the posting filter. Opening and period split happens
// in the aggregate itself.
func (q MovementQuery) Predicates() []db.Predicate {
	preds := []db.Predicate{
		db.Cond("gle.company = ?", q.Company),
		db.Cond("gle.is_cancelled = 0"),
		db.Cond("gle.docstatus = 1"),
		db.Cond("gle.posting_date <= ?", q.To),
	}
	if len(q.CostCenters) > 0 {
		preds = append(preds, db.Cond("gle.cost_center = ANY(?)", q.CostCenters))
	}
	return preds
}
