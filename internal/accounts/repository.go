package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
)

// Repository reads "tabAccount" and related setup tables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs an accounts repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PartyAccounts lists the accounts configured on a customer or supplier for
// a company.
func (r *Repository) PartyAccounts(ctx context.Context, partyType, party, company string) ([]string, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT account FROM "tabParty Account"
WHERE parenttype = $1 AND parent = $2 AND company = $3 AND COALESCE(account, '') <> ''
ORDER BY idx`, partyType, party, company)
	if err != nil {
		return nil, fmt.Errorf("accounts: party accounts: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// LeafAccounts lists the company's non-group accounts of a type.
func (r *Repository) LeafAccounts(ctx context.Context, company, accountType string) ([]string, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT name FROM "tabAccount"
WHERE company = $1 AND account_type = $2 AND is_group = 0
ORDER BY lft`, company, accountType)
	if err != nil {
		return nil, fmt.Errorf("accounts: leaf accounts: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ModeOfPaymentAccount returns the default account of a mode of payment for
// a company.
func (r *Repository) ModeOfPaymentAccount(ctx context.Context, mode, company string) (string, error) {
	var account string
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COALESCE(default_account, '') FROM "tabMode of Payment Account"
WHERE parent = $1 AND company = $2
LIMIT 1`, mode, company).Scan(&account)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && account == "") {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("accounts: mode of payment account: %w", err)
	}
	return account, nil
}

// Bounds returns the nested-set interval of an account.
func (r *Repository) Bounds(ctx context.Context, account string) (Bounds, error) {
	var b Bounds
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COALESCE(lft, 0), COALESCE(rgt, 0) FROM "tabAccount" WHERE name = $1`, account).
		Scan(&b.Lft, &b.Rgt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Bounds{}, ErrNotFound
	}
	if err != nil {
		return Bounds{}, fmt.Errorf("accounts: bounds: %w", err)
	}
	return b, nil
}

// Subtree lists the accounts inside an interval, the root included.
func (r *Repository) Subtree(ctx context.Context, b Bounds) ([]string, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT name FROM "tabAccount" WHERE lft >= $1 AND rgt <= $2 ORDER BY lft`, b.Lft, b.Rgt)
	if err != nil {
		return nil, fmt.Errorf("accounts: subtree: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Tree returns the company's chart of accounts in nested-set order.
func (r *Repository) Tree(ctx context.Context, company string) ([]Node, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT name, COALESCE(account_name, ''), COALESCE(parent_account, ''),
	COALESCE(lft, 0), COALESCE(rgt, 0), is_group = 1, COALESCE(root_type, '')
FROM "tabAccount"
WHERE company = $1
ORDER BY lft`, company)
	if err != nil {
		return nil, fmt.Errorf("accounts: tree: %w", err)
	}
	defer rows.Close()
	var out []Node
	for rows.Next() {
		var n Node
		if err := rows.Scan(&n.Name, &n.AccountName, &n.Parent, &n.Lft, &n.Rgt, &n.IsGroup, &n.RootType); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Parents maps each named account to its parent account.
func (r *Repository) Parents(ctx context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	if len(names) == 0 {
		return out, nil
	}
	// Ancestors are not known up front, so the whole closure is fetched
	// with a recursive walk bounded like Depth.
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `WITH RECURSIVE chain(name, parent, depth) AS (
	SELECT name, COALESCE(parent_account, ''), 0 FROM "tabAccount" WHERE name = ANY($1)
	UNION
	SELECT a.name, COALESCE(a.parent_account, ''), c.depth + 1
	FROM "tabAccount" a JOIN chain c ON a.name = c.parent
	WHERE c.depth < $2
)
SELECT DISTINCT name, parent FROM chain`, names, MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("accounts: parents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, parent string
		if err := rows.Scan(&name, &parent); err != nil {
			return nil, err
		}
		out[name] = parent
	}
	return out, rows.Err()
}

// FiscalYear loads a fiscal year by name.
func (r *Repository) FiscalYear(ctx context.Context, name string) (FiscalYear, error) {
	return r.fiscalYear(ctx, `SELECT name, year_start_date, year_end_date FROM "tabFiscal Year" WHERE name = $1`, name)
}

// LatestFiscalYear returns the enabled fiscal year with the latest start.
func (r *Repository) LatestFiscalYear(ctx context.Context) (FiscalYear, error) {
	return r.fiscalYear(ctx, `SELECT name, year_start_date, year_end_date FROM "tabFiscal Year"
WHERE disabled = 0 ORDER BY year_start_date DESC LIMIT 1`)
}

func (r *Repository) fiscalYear(ctx context.Context, sql string, args ...any) (FiscalYear, error) {
	var fy FiscalYear
	err := db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&fy.Name, &fy.Start, &fy.End)
	if errors.Is(err, pgx.ErrNoRows) {
		return FiscalYear{}, ErrNotFound
	}
	if err != nil {
		return FiscalYear{}, fmt.Errorf("accounts: fiscal year: %w", err)
	}
	return fy, nil
}
