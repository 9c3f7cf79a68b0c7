// Package statements builds the running-balance statements: customer,
// supplier and cash account.
package statements

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/documents"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
)

// Store is the read surface the statements need.
type Store interface {
	ReadSnapshot(ctx context.Context, fn func(context.Context) error) error

	PartyAccounts(ctx context.Context, partyType, party, company string) ([]string, error)
	LedgerAccounts(ctx context.Context, company, partyType, party string) ([]string, error)
	LeafAccounts(ctx context.Context, company, accountType string) ([]string, error)
	ModeOfPaymentAccount(ctx context.Context, mode, company string) (string, error)

	OpeningBalance(ctx context.Context, q ledger.Query) (decimal.Decimal, error)
	Entries(ctx context.Context, q ledger.Query) ([]ledger.Entry, error)
	GroupedEntries(ctx context.Context, q ledger.Query) ([]ledger.Entry, error)

	SalesInvoices(ctx context.Context, names []string) (map[string]documents.Invoice, error)
	PurchaseInvoices(ctx context.Context, names []string) (map[string]documents.Invoice, error)
	PaymentEntries(ctx context.Context, names []string) (map[string]documents.Payment, error)
	PaymentReferences(ctx context.Context, payments []string) (map[string][]documents.Reference, error)
	JournalEntries(ctx context.Context, names []string) (map[string]documents.Journal, error)
}

// degrade returns m, or an empty map when the lookup failed. Enrichment
// lookups never abort a statement.
func degrade[K comparable, V any](logger *slog.Logger, lookup string, m map[K]V, err error) map[K]V {
	if err != nil {
		logger.Warn("statement enrichment", slog.String("lookup", lookup), slog.Any("error", err))
		return map[K]V{}
	}
	if m == nil {
		return map[K]V{}
	}
	return m
}

// vouchers collects the distinct voucher numbers of one type in entry order.
func vouchers(entries []ledger.Entry, voucherType string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		if e.VoucherType != voucherType || e.VoucherNo == "" {
			continue
		}
		if _, ok := seen[e.VoucherNo]; ok {
			continue
		}
		seen[e.VoucherNo] = struct{}{}
		out = append(out, e.VoucherNo)
	}
	return out
}

// positive returns the amount when it is non-zero, otherwise nil so the cell
// renders empty.
func positive(d decimal.Decimal) any {
	if d.IsZero() {
		return nil
	}
	return d
}
