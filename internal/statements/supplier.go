package statements

import (
	"context"
	"log/slog"

	"github.com/muzaini-app/muzaini-reports/internal/documents"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// SupplierStatementName is the registry name of the supplier statement.
const SupplierStatementName = "supplier-statement"

var supplierColumns = []reporting.Column{
	{FieldName: "posting_date", Label: "Date", Type: reporting.TypeDate, Width: 110},
	{FieldName: "voucher_no", Label: "Voucher No", Type: reporting.TypeDynamicLink, Options: "voucher_type", Width: 150},
	{FieldName: "voucher_type", Label: "Voucher Type", Type: reporting.TypeData, Width: 150},
	{FieldName: "description", Label: "Description", Type: reporting.TypeData, Width: 250},
	{FieldName: "invoice_status", Label: "Invoice Status", Type: reporting.TypeData, Width: 120},
	{FieldName: "debit", Label: "Debit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "credit", Label: "Credit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "balance", Label: "Balance", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "invoice_amount", Label: "Invoice Amount", Type: reporting.TypeCurrency, Width: 120},
}

// SupplierStatement lists a supplier's postings grouped per voucher.
type SupplierStatement struct {
	store  Store
	norm   *reporting.Normalizer
	logger *slog.Logger
}

// NewSupplierStatement constructs the supplier statement.
func NewSupplierStatement(store Store, norm *reporting.Normalizer, logger *slog.Logger) *SupplierStatement {
	if logger == nil {
		logger = slog.Default()
	}
	return &SupplierStatement{store: store, norm: norm, logger: logger}
}

// Name implements reporting.Runner.
func (s *SupplierStatement) Name() string { return SupplierStatementName }

// Run implements reporting.Runner.
func (s *SupplierStatement) Run(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	f, err := s.norm.Normalize(f, reporting.RequireSupplier)
	if err != nil {
		return reporting.Result{}, err
	}
	var res reporting.Result
	err = s.store.ReadSnapshot(ctx, func(ctx context.Context) error {
		res, err = s.build(ctx, f, loc)
		return err
	})
	return res, err
}

func (s *SupplierStatement) build(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	q := ledger.Query{Company: f.Company, PartyType: ledger.PartySupplier, Party: f.Supplier}
	opening, err := s.store.OpeningBalance(ctx, q.Opening(f.FromDate))
	if err != nil {
		return reporting.Result{}, err
	}
	period := q.Period(f.FromDate, f.ToDate)
	period.IncludeCancelled = f.IncludeCancelled
	entries, err := s.store.GroupedEntries(ctx, period)
	if err != nil {
		return reporting.Result{}, err
	}
	ledger.SortEntries(entries)

	purchases, err := s.store.PurchaseInvoices(ctx, vouchers(entries, ledger.VoucherPurchaseInvoice))
	purchases = degrade(s.logger, "purchase invoices", purchases, err)
	sales, err := s.store.SalesInvoices(ctx, vouchers(entries, ledger.VoucherSalesInvoice))
	sales = degrade(s.logger, "sales invoices", sales, err)

	openDr, openCr := ledger.OpeningSides(opening)
	rows := []reporting.Row{{
		"posting_date":        reporting.FormatDate(f.FromDate.AddDate(0, 0, -1)),
		"voucher_type":        "Opening Balance",
		"description":         loc.T("Opening Balance"),
		"debit":               openDr,
		"credit":              openCr,
		"balance":             opening,
		"invoice_status":      "",
		reporting.FlagOpening: true,
	}}

	postings, totals := ledger.Fold(opening, entries)
	for _, p := range postings {
		var status string
		var amount any
		switch p.VoucherType {
		case ledger.VoucherPurchaseInvoice:
			if inv, ok := purchases[p.VoucherNo]; ok {
				status = documents.PurchaseStatus(inv, loc)
				amount = positive(inv.GrandTotal)
			}
		case ledger.VoucherSalesInvoice:
			if inv, ok := sales[p.VoucherNo]; ok {
				amount = positive(inv.GrandTotal)
			}
		}
		description := p.Remarks
		if description == "" {
			description = p.Against
		}
		rows = append(rows, reporting.Row{
			"posting_date":   reporting.FormatDate(p.PostingDate),
			"voucher_type":   p.VoucherType,
			"voucher_no":     p.VoucherNo,
			"description":    description,
			"debit":          p.Debit,
			"credit":         p.Credit,
			"balance":        p.Balance,
			"against":        p.Against,
			"invoice_amount": amount,
			"invoice_status": status,
		})
	}

	rows = append(rows, reporting.Row{
		"posting_date":      "",
		"voucher_type":      "",
		"voucher_no":        "",
		"description":       loc.T("Total"),
		"debit":             totals.Debit,
		"credit":            totals.Credit,
		"balance":           totals.Closing,
		"invoice_status":    "",
		reporting.FlagTotal: true,
	})
	return reporting.Result{Columns: reporting.Localize(loc, supplierColumns...), Rows: rows}, nil
}
