package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

// Imbalance is a submitted voucher whose postings do not net to zero.
type Imbalance struct {
	Company     string
	VoucherType string
	VoucherNo   string
	PostingDate time.Time
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Difference is debit minus credit.
func (i Imbalance) Difference() decimal.Decimal {
	return i.Debit.Sub(i.Credit)
}

// IntegrityQuery selects the postings checked for balance.
type IntegrityQuery struct {
	Company string
	Since   time.Time
	// Tolerance below which a difference is treated as rounding noise.
	Tolerance decimal.Decimal
}

// Predicates renders the posting filters.
func (q IntegrityQuery) Predicates() []db.Predicate {
	preds := []db.Predicate{
		db.Cond("gle.is_cancelled = 0"),
		db.Cond("gle.docstatus = 1"),
	}
	if !q.Since.IsZero() {
		preds = append(preds, db.Cond("gle.posting_date >= ?", q.Since))
	}
	if q.Company != "" {
		preds = append(preds, db.Cond("gle.company = ?", q.Company))
	}
	return preds
}

// Imbalances lists vouchers whose debits and credits differ by more than the
// tolerance.
func (r *Repository) Imbalances(ctx context.Context, q IntegrityQuery) ([]Imbalance, error) {
	where, args := db.Where(2, q.Predicates()...)
	sql := `SELECT gle.company, gle.voucher_type, gle.voucher_no, MIN(gle.posting_date),
	COALESCE(SUM(gle.debit), 0), COALESCE(SUM(gle.credit), 0)
FROM "tabGL Entry" gle
WHERE ` + where + `
GROUP BY gle.company, gle.voucher_type, gle.voucher_no
HAVING ABS(COALESCE(SUM(gle.debit), 0) - COALESCE(SUM(gle.credit), 0)) > $1
ORDER BY MIN(gle.posting_date), gle.voucher_no`
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, append([]any{q.Tolerance}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("ledger: imbalances: %w", err)
	}
	defer rows.Close()
	var out []Imbalance
	for rows.Next() {
		var i Imbalance
		if err := rows.Scan(&i.Company, &i.VoucherType, &i.VoucherNo, &i.PostingDate, &i.Debit, &i.Credit); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
