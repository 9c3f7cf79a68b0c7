package taxdecl

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

// Repository runs the declaration aggregates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a tax declaration repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InvoiceTotals aggregates one invoice category. Returns are reported as
// positive amounts.
func (r *Repository) InvoiceTotals(ctx context.Context, q InvoiceQuery) (Totals, error) {
	where, args := db.Where(1, q.Predicates()...)
	cols := `COALESCE(SUM(inv.base_grand_total), 0),
	COALESCE(SUM(inv.base_net_total), 0),
	COALESCE(SUM(inv.base_grand_total - inv.base_net_total), 0),
	COALESCE(SUM(inv.total_taxes_and_charges), 0)`
	if q.Returns {
		cols = `ABS(COALESCE(SUM(inv.base_grand_total), 0)),
	ABS(COALESCE(SUM(inv.base_net_total), 0)),
	ABS(COALESCE(SUM(inv.base_grand_total - inv.base_net_total), 0)),
	ABS(COALESCE(SUM(inv.total_taxes_and_charges), 0))`
	}
	var t Totals
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+cols+`
FROM `+q.Side.table()+` inv
WHERE `+where, args...).Scan(&t.Base, &t.Net, &t.Adjustments, &t.Tax)
	if err != nil {
		return Totals{}, fmt.Errorf("taxdecl: invoice totals: %w", err)
	}
	if !q.Taxable {
		t.Tax = decimal.Zero
	}
	return t, nil
}

// JournalTaxDebits sums debits to tax accounts on journal entries.
func (r *Repository) JournalTaxDebits(ctx context.Context, q ExpenseQuery) (decimal.Decimal, error) {
	where, args := db.Where(1, q.JournalPredicates()...)
	var sum decimal.Decimal
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COALESCE(SUM(jea.debit), 0)
FROM "tabJournal Entry" je
JOIN "tabJournal Entry Account" jea ON jea.parent = je.name
WHERE `+where, args...).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("taxdecl: journal tax: %w", err)
	}
	return sum, nil
}

// PaymentTaxDebits sums debits to tax accounts posted by payment entries.
func (r *Repository) PaymentTaxDebits(ctx context.Context, q ExpenseQuery) (decimal.Decimal, error) {
	where, args := db.Where(1, q.PaymentPredicates()...)
	var sum decimal.Decimal
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COALESCE(SUM(gl.debit), 0)
FROM "tabGL Entry" gl
WHERE `+where, args...).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("taxdecl: payment tax: %w", err)
	}
	return sum, nil
}
