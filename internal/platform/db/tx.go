package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the read surface shared by pools and transactions.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type txKey struct{}

// WithSnapshot runs fn inside a read-only RepeatableRead transaction. Every
// repository call made with the derived context reads the same snapshot, so an
// opening balance and the period that follows it read the same rows.
// Nested calls reuse the outer transaction.
func WithSnapshot(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok || pool == nil {
		return fn(ctx)
	}
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("platform/db: begin snapshot: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit snapshot: %w", err)
	}

	return nil
}

// Conn returns the snapshot transaction carried by ctx, or the pool.
func Conn(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// Snapshots gives repositories a ReadSnapshot method bound to their pool.
type Snapshots struct {
	Pool *pgxpool.Pool
}

// ReadSnapshot runs fn against one consistent read-only snapshot.
func (s Snapshots) ReadSnapshot(ctx context.Context, fn func(context.Context) error) error {
	return WithSnapshot(ctx, s.Pool, fn)
}
