// Package reportdb assembles the Postgres repositories into the store every
// report reads through.
package reportdb

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/documents"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
	"github.com/muzaini-app/muzaini-reports/internal/registers"
	"github.com/muzaini-app/muzaini-reports/internal/statements"
	"github.com/muzaini-app/muzaini-reports/internal/taxdecl"
	"github.com/muzaini-app/muzaini-reports/internal/trialbalance"
)

type (
	Ledger    = ledger.Repository
	Documents = documents.Repository
	Accounts  = accounts.Repository
	Registers = registers.Repository
	Taxes     = taxdecl.Repository
)

// Store reads every report table from one pool. Calls made inside
// ReadSnapshot share a read-only transaction.
type Store struct {
	db.Snapshots
	*Ledger
	*Documents
	*Accounts
	*Registers
	*Taxes
}

var (
	_ statements.Store   = (*Store)(nil)
	_ registers.Store    = (*Store)(nil)
	_ trialbalance.Store = (*Store)(nil)
	_ taxdecl.Store      = (*Store)(nil)
)

// New wires the repositories over pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		Snapshots: db.Snapshots{Pool: pool},
		Ledger:    ledger.NewRepository(pool),
		Documents: documents.NewRepository(pool),
		Accounts:  accounts.NewRepository(pool),
		Registers: registers.NewRepository(pool),
		Taxes:     taxdecl.NewRepository(pool),
	}
}
