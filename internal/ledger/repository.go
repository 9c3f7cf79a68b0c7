package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

// Repository reads "tabGL Entry".
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a ledger repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// OpeningBalance returns the net of debit minus credit over q.
func (r *Repository) OpeningBalance(ctx context.Context, q Query) (decimal.Decimal, error) {
	where, args := db.Where(1, q.Predicates()...)
	sql := `SELECT COALESCE(SUM(gle.debit), 0) - COALESCE(SUM(gle.credit), 0)
FROM "tabGL Entry" gle
WHERE ` + where
	var balance decimal.Decimal
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("ledger: opening balance: %w", err)
	}
	return balance, nil
}

// Entries returns every posting matched by q ordered by posting date and
// creation time.
func (r *Repository) Entries(ctx context.Context, q Query) ([]Entry, error) {
	where, args := db.Where(1, q.Predicates()...)
	sql := `SELECT gle.posting_date, gle.creation, gle.voucher_type, gle.voucher_no,
	gle.account, COALESCE(gle.against, ''), COALESCE(gle.remarks, ''),
	COALESCE(gle.debit, 0), COALESCE(gle.credit, 0),
	COALESCE(` + documentCostCenter + `, ''),
	COALESCE(` + documentOwner + `, ''),
	COALESCE(gle.cost_center, ''), COALESCE(gle.owner, '')
FROM "tabGL Entry" gle
WHERE ` + where + `
ORDER BY gle.posting_date, gle.creation`
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: entries: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PostingDate, &e.Creation, &e.VoucherType, &e.VoucherNo,
			&e.Account, &e.Against, &e.Remarks, &e.Debit, &e.Credit, &e.CostCenter, &e.CreatedBy,
			&e.PostingCostCenter, &e.PostedBy); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GroupedEntries sums the postings of each voucher so a voucher touching
// the same party twice yields one line.
func (r *Repository) GroupedEntries(ctx context.Context, q Query) ([]Entry, error) {
	where, args := db.Where(1, q.Predicates()...)
	sql := `SELECT MIN(gle.posting_date), MIN(gle.creation), gle.voucher_type, gle.voucher_no,
	COALESCE(gle.against, ''), COALESCE(gle.remarks, ''),
	COALESCE(SUM(gle.debit), 0), COALESCE(SUM(gle.credit), 0)
FROM "tabGL Entry" gle
WHERE ` + where + `
GROUP BY gle.voucher_type, gle.voucher_no, gle.against, gle.remarks
ORDER BY MIN(gle.posting_date), MIN(gle.creation)`
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: grouped entries: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PostingDate, &e.Creation, &e.VoucherType, &e.VoucherNo,
			&e.Against, &e.Remarks, &e.Debit, &e.Credit); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LedgerAccounts lists the distinct accounts a party has postings on.
func (r *Repository) LedgerAccounts(ctx context.Context, company, partyType, party string) ([]string, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT DISTINCT account FROM "tabGL Entry"
WHERE company = $1 AND party_type = $2 AND party = $3 AND is_cancelled = 0 AND docstatus = 1
ORDER BY account`, company, partyType, party)
	if err != nil {
		return nil, fmt.Errorf("ledger: party accounts: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Movements aggregates opening and period activity per account. Opening
// covers everything before From; accounts whose root type is in
// PeriodRootTypes only accumulate opening from FiscalStart.
func (r *Repository) Movements(ctx context.Context, q MovementQuery) ([]Movement, error) {
	where, args := db.Where(5, q.Predicates()...)
	sql := `SELECT gle.account,
	COALESCE(SUM(CASE WHEN gle.posting_date < $1
		AND (acc.root_type <> ALL($4) OR gle.posting_date >= $3)
		THEN gle.debit - gle.credit ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN gle.posting_date BETWEEN $1 AND $2 THEN gle.debit ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN gle.posting_date BETWEEN $1 AND $2 THEN gle.credit ELSE 0 END), 0)
FROM "tabGL Entry" gle
JOIN "tabAccount" acc ON acc.name = gle.account
WHERE ` + where + `
GROUP BY gle.account
ORDER BY gle.account`
	roots := q.PeriodRootTypes
	if roots == nil {
		roots = []string{}
	}
	args = append([]any{q.From, q.To, q.FiscalStart, roots}, args...)
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: movements: %w", err)
	}
	defer rows.Close()
	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.Account, &m.Opening, &m.Debit, &m.Credit); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
