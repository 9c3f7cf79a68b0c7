package registers

import "context"

// Store is the read surface of the registers.
type Store interface {
	JournalLines(ctx context.Context, q JournalQuery) ([]JournalLine, error)
	Payments(ctx context.Context, q PaymentQuery) ([]Payment, error)
	Sales(ctx context.Context, q SalesQuery) ([]Sale, error)
	UserFullNames(ctx context.Context, users []string) (map[string]string, error)
}

// selected treats "All" as no selection.
func selected(v string) string {
	if v == "All" {
		return ""
	}
	return v
}
