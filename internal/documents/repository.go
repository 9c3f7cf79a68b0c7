package documents

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

// Repository reads voucher headers in batches keyed by name. Each lookup
// returns its error so callers decide how to degrade.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a documents repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SalesInvoices loads sales invoices by name.
func (r *Repository) SalesInvoices(ctx context.Context, names []string) (map[string]Invoice, error) {
	return r.invoices(ctx, `SELECT name, COALESCE(status, ''), is_return = 1, is_pos = 1,
	COALESCE(grand_total, 0), COALESCE(outstanding_amount, 0),
	COALESCE(customer_name, ''), COALESCE(remarks, ''), COALESCE(return_against, '')
FROM "tabSales Invoice" WHERE name = ANY($1)`, names)
}

// PurchaseInvoices loads purchase invoices by name.
func (r *Repository) PurchaseInvoices(ctx context.Context, names []string) (map[string]Invoice, error) {
	return r.invoices(ctx, `SELECT name, COALESCE(status, ''), is_return = 1, FALSE,
	COALESCE(grand_total, 0), COALESCE(outstanding_amount, 0),
	COALESCE(supplier_name, ''), COALESCE(remarks, ''), COALESCE(return_against, '')
FROM "tabPurchase Invoice" WHERE name = ANY($1)`, names)
}

func (r *Repository) invoices(ctx context.Context, sql string, names []string) (map[string]Invoice, error) {
	out := make(map[string]Invoice, len(names))
	if len(names) == 0 {
		return out, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, names)
	if err != nil {
		return nil, fmt.Errorf("documents: invoices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.Name, &inv.Status, &inv.IsReturn, &inv.IsPOS,
			&inv.GrandTotal, &inv.Outstanding, &inv.PartyName, &inv.Remarks, &inv.ReturnAgainst); err != nil {
			return nil, err
		}
		out[inv.Name] = inv
	}
	return out, rows.Err()
}

// PaymentEntries loads payment entry headers by name.
func (r *Repository) PaymentEntries(ctx context.Context, names []string) (map[string]Payment, error) {
	out := make(map[string]Payment, len(names))
	if len(names) == 0 {
		return out, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT name, COALESCE(payment_type, ''), COALESCE(party_type, ''),
	COALESCE(party_name, ''), COALESCE(remarks, ''), COALESCE(status, '')
FROM "tabPayment Entry" WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("documents: payment entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.Name, &p.PaymentType, &p.PartyType, &p.PartyName, &p.Remarks, &p.Status); err != nil {
			return nil, err
		}
		out[p.Name] = p
	}
	return out, rows.Err()
}

// PaymentReferences loads the submitted references of the given payments,
// grouped by payment in row order.
func (r *Repository) PaymentReferences(ctx context.Context, payments []string) (map[string][]Reference, error) {
	out := make(map[string][]Reference, len(payments))
	if len(payments) == 0 {
		return out, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT parent, reference_doctype, reference_name
FROM "tabPayment Entry Reference"
WHERE docstatus = 1 AND parent = ANY($1)
ORDER BY parent, idx`, payments)
	if err != nil {
		return nil, fmt.Errorf("documents: payment references: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ref Reference
		if err := rows.Scan(&ref.Payment, &ref.Doctype, &ref.Name); err != nil {
			return nil, err
		}
		out[ref.Payment] = append(out[ref.Payment], ref)
	}
	return out, rows.Err()
}

// JournalEntries loads journal entry headers by name.
func (r *Repository) JournalEntries(ctx context.Context, names []string) (map[string]Journal, error) {
	out := make(map[string]Journal, len(names))
	if len(names) == 0 {
		return out, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT name, COALESCE(voucher_type, ''), COALESCE(user_remark, '')
FROM "tabJournal Entry" WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("documents: journal entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var j Journal
		if err := rows.Scan(&j.Name, &j.VoucherType, &j.UserRemark); err != nil {
			return nil, err
		}
		out[j.Name] = j
	}
	return out, rows.Err()
}

// UserFullNames maps user ids to their full names. Users without a full name
// are omitted.
func (r *Repository) UserFullNames(ctx context.Context, users []string) (map[string]string, error) {
	out := make(map[string]string, len(users))
	if len(users) == 0 {
		return out, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT name, full_name FROM "tabUser"
WHERE name = ANY($1) AND COALESCE(full_name, '') <> ''`, users)
	if err != nil {
		return nil, fmt.Errorf("documents: users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, full string
		if err := rows.Scan(&name, &full); err != nil {
			return nil, err
		}
		out[name] = full
	}
	return out, rows.Err()
}
