package statements

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/documents"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
)

type glRow struct {
	ledger.Entry
	Company   string
	PartyType string
	Party     string
}

type fakeStore struct {
	rows          []glRow
	partyAccounts map[string][]string
	leafAccounts  map[string][]string
	modeAccounts  map[string]string

	sales      map[string]documents.Invoice
	purchases  map[string]documents.Invoice
	payments   map[string]documents.Payment
	references map[string][]documents.Reference
	journals   map[string]documents.Journal

	failLookups bool
	snapshots   int
	queries     []ledger.Query
}

var errLookup = errors.New("lookup unavailable")

func (s *fakeStore) ReadSnapshot(ctx context.Context, fn func(context.Context) error) error {
	s.snapshots++
	return fn(ctx)
}

func (s *fakeStore) PartyAccounts(_ context.Context, partyType, party, company string) ([]string, error) {
	return s.partyAccounts[partyType+"/"+party+"/"+company], nil
}

func (s *fakeStore) LedgerAccounts(_ context.Context, company, partyType, party string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range s.rows {
		if r.Company == company && r.PartyType == partyType && r.Party == party {
			if _, ok := seen[r.Account]; !ok {
				seen[r.Account] = struct{}{}
				out = append(out, r.Account)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *fakeStore) LeafAccounts(_ context.Context, company, accountType string) ([]string, error) {
	return s.leafAccounts[company+"/"+accountType], nil
}

func (s *fakeStore) ModeOfPaymentAccount(_ context.Context, mode, company string) (string, error) {
	account, ok := s.modeAccounts[mode+"/"+company]
	if !ok {
		return "", accounts.ErrNotFound
	}
	return account, nil
}

func (s *fakeStore) match(q ledger.Query) []ledger.Entry {
	s.queries = append(s.queries, q)
	var out []ledger.Entry
	for _, r := range s.rows {
		if q.Matches(r.Entry, r.Company, r.PartyType, r.Party) {
			out = append(out, r.Entry)
		}
	}
	return out
}

func (s *fakeStore) OpeningBalance(_ context.Context, q ledger.Query) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range s.match(q) {
		total = total.Add(e.Net())
	}
	return total, nil
}

func (s *fakeStore) Entries(_ context.Context, q ledger.Query) ([]ledger.Entry, error) {
	return s.match(q), nil
}

func (s *fakeStore) GroupedEntries(_ context.Context, q ledger.Query) ([]ledger.Entry, error) {
	type key struct{ vt, vn, against, remarks string }
	index := map[key]int{}
	var out []ledger.Entry
	for _, e := range s.match(q) {
		k := key{e.VoucherType, e.VoucherNo, e.Against, e.Remarks}
		if i, ok := index[k]; ok {
			out[i].Debit = out[i].Debit.Add(e.Debit)
			out[i].Credit = out[i].Credit.Add(e.Credit)
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out, nil
}

func pick[V any](all map[string]V, names []string, fail bool) (map[string]V, error) {
	if fail {
		return nil, errLookup
	}
	out := map[string]V{}
	for _, n := range names {
		if v, ok := all[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

func (s *fakeStore) SalesInvoices(_ context.Context, names []string) (map[string]documents.Invoice, error) {
	return pick(s.sales, names, s.failLookups)
}

func (s *fakeStore) PurchaseInvoices(_ context.Context, names []string) (map[string]documents.Invoice, error) {
	return pick(s.purchases, names, s.failLookups)
}

func (s *fakeStore) PaymentEntries(_ context.Context, names []string) (map[string]documents.Payment, error) {
	return pick(s.payments, names, s.failLookups)
}

func (s *fakeStore) PaymentReferences(_ context.Context, payments []string) (map[string][]documents.Reference, error) {
	return pick(s.references, payments, s.failLookups)
}

func (s *fakeStore) JournalEntries(_ context.Context, names []string) (map[string]documents.Journal, error) {
	return pick(s.journals, names, s.failLookups)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
