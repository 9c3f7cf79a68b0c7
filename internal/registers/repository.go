package registers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

// Repository runs the register queries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a registers repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// JournalLines lists journal lines newest entry first, lines in entry order.
func (r *Repository) JournalLines(ctx context.Context, q JournalQuery) ([]JournalLine, error) {
	where, args := db.Where(1, q.Predicates()...)
	sql := `SELECT je.posting_date, je.name, COALESCE(je.voucher_type, ''), COALESCE(je.user_remark, ''), je.docstatus,
	jea.account, COALESCE(a.account_name, ''), COALESCE(jea.party_type, ''), COALESCE(jea.party, ''),
	COALESCE(CASE jea.party_type
		WHEN 'Customer' THEN cust.customer_name
		WHEN 'Supplier' THEN supp.supplier_name
		WHEN 'Employee' THEN emp.employee_name
		ELSE jea.party END, ''),
	COALESCE(jea.debit, 0), COALESCE(jea.credit, 0), COALESCE(jea.cost_center, ''),
	COALESCE(jea.reference_type, ''), COALESCE(jea.reference_name, '')
FROM "tabJournal Entry" je
JOIN "tabJournal Entry Account" jea ON jea.parent = je.name
LEFT JOIN "tabAccount" a ON a.name = jea.account
LEFT JOIN "tabCustomer" cust ON jea.party_type = 'Customer' AND cust.name = jea.party
LEFT JOIN "tabSupplier" supp ON jea.party_type = 'Supplier' AND supp.name = jea.party
LEFT JOIN "tabEmployee" emp ON jea.party_type = 'Employee' AND emp.name = jea.party
WHERE ` + where + `
ORDER BY je.posting_date DESC, je.name, jea.idx`
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("registers: journal lines: %w", err)
	}
	defer rows.Close()
	var out []JournalLine
	for rows.Next() {
		var l JournalLine
		if err := rows.Scan(&l.PostingDate, &l.Name, &l.VoucherType, &l.UserRemark, &l.Docstatus,
			&l.Account, &l.AccountName, &l.PartyType, &l.Party, &l.PartyName,
			&l.Debit, &l.Credit, &l.CostCenter, &l.ReferenceType, &l.ReferenceName); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Payments lists payment entries newest first.
func (r *Repository) Payments(ctx context.Context, q PaymentQuery) ([]Payment, error) {
	where, args := db.Where(1, q.Predicates()...)
	sql := `SELECT pe.posting_date, pe.name, pe.payment_type, COALESCE(pe.party_type, ''), COALESCE(pe.party, ''),
	COALESCE(CASE pe.party_type
		WHEN 'Customer' THEN cust.customer_name
		WHEN 'Supplier' THEN supp.supplier_name
		ELSE pe.party END, ''),
	COALESCE(pe.paid_amount, 0), COALESCE(pe.received_amount, 0),
	CASE pe.payment_type
		WHEN 'Receive' THEN COALESCE(pe.paid_to, '')
		WHEN 'Pay' THEN COALESCE(pe.paid_from, '')
		ELSE COALESCE(pe.paid_from, '') || ' → ' || COALESCE(pe.paid_to, '') END,
	COALESCE(pe.mode_of_payment, ''), COALESCE(pe.reference_no, ''), pe.reference_date,
	COALESCE(pe.cost_center, ''), COALESCE(pe.status, '')
FROM "tabPayment Entry" pe
LEFT JOIN "tabCustomer" cust ON pe.party_type = 'Customer' AND cust.name = pe.party
LEFT JOIN "tabSupplier" supp ON pe.party_type = 'Supplier' AND supp.name = pe.party
WHERE ` + where + `
ORDER BY pe.posting_date DESC, pe.name`
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("registers: payments: %w", err)
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.PostingDate, &p.Name, &p.PaymentType, &p.PartyType, &p.Party, &p.PartyName,
			&p.PaidAmount, &p.ReceivedAmount, &p.Account, &p.ModeOfPayment, &p.ReferenceNo, &p.ReferenceDate,
			&p.CostCenter, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Sales lists sales invoices newest first. Line level values come from the
// first item and payment row.
func (r *Repository) Sales(ctx context.Context, q SalesQuery) ([]Sale, error) {
	where, args := db.Where(1, q.Predicates()...)
	sql := `SELECT si.posting_date, COALESCE(si.posting_time::text, ''), si.name, COALESCE(si.return_against, ''),
	COALESCE(si.customer_name, ''), COALESCE(si.status, ''), si.is_return = 1, si.is_pos = 1,
	COALESCE(si.total_taxes_and_charges, 0), COALESCE(si.grand_total, 0),
	COALESCE(si.pos_profile, ''), COALESCE(si.owner, ''),
	COALESCE((SELECT sii.warehouse FROM "tabSales Invoice Item" sii WHERE sii.parent = si.name ORDER BY sii.idx LIMIT 1), ''),
	COALESCE((SELECT sii.cost_center FROM "tabSales Invoice Item" sii WHERE sii.parent = si.name ORDER BY sii.idx LIMIT 1), ''),
	COALESCE((SELECT sip.mode_of_payment FROM "tabSales Invoice Payment" sip WHERE sip.parent = si.name ORDER BY sip.idx LIMIT 1), ''),
	orig.is_pos = 1, orig.outstanding_amount
FROM "tabSales Invoice" si
LEFT JOIN "tabSales Invoice" orig ON si.is_return = 1 AND orig.name = si.return_against
WHERE ` + where + `
ORDER BY si.posting_date DESC, si.posting_time DESC, si.name`
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("registers: sales: %w", err)
	}
	defer rows.Close()
	var out []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.PostingDate, &s.PostingTime, &s.Name, &s.ReturnAgainst,
			&s.CustomerName, &s.Status, &s.IsReturn, &s.IsPOS, &s.TaxAmount, &s.GrandTotal,
			&s.POSProfile, &s.Owner, &s.Warehouse, &s.CostCenter, &s.ModeOfPayment,
			&s.OriginalIsPOS, &s.OriginalOutstanding); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
