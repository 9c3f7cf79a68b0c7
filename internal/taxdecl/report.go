package taxdecl

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// ReportName is the registry name of the tax declaration.
const ReportName = "tax-declaration"

var columns = []reporting.Column{
	{FieldName: "description", Label: "Description", Type: reporting.TypeData, Width: 450},
	{FieldName: "amount", Label: "Amount", Type: reporting.TypeCurrency, Width: 180},
	{FieldName: "adjustments", Label: "Adjustments", Type: reporting.TypeCurrency, Width: 180},
	{FieldName: "net_amount", Label: "Net", Type: reporting.TypeCurrency, Width: 180},
	{FieldName: "tax_amount", Label: "VAT Amount", Type: reporting.TypeCurrency, Width: 180},
}

// Store is what the declaration reads.
type Store interface {
	ReadSnapshot(ctx context.Context, fn func(context.Context) error) error
	InvoiceTotals(ctx context.Context, q InvoiceQuery) (Totals, error)
	JournalTaxDebits(ctx context.Context, q ExpenseQuery) (decimal.Decimal, error)
	PaymentTaxDebits(ctx context.Context, q ExpenseQuery) (decimal.Decimal, error)
	LeafAccounts(ctx context.Context, company, accountType string) ([]string, error)
}

// Report is the VAT declaration.
type Report struct {
	store    Store
	norm     *reporting.Normalizer
	accounts accounts.TaxAccounts
}

// NewReport constructs the tax declaration. taxAccounts maps companies to
// their tax accounts; companies without an entry use their Tax leaf accounts.
func NewReport(store Store, norm *reporting.Normalizer, taxAccounts accounts.TaxAccounts) *Report {
	return &Report{store: store, norm: norm, accounts: taxAccounts}
}

// Name implements reporting.Runner.
func (r *Report) Name() string { return ReportName }

// Run implements reporting.Runner.
func (r *Report) Run(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	f, err := r.norm.Normalize(f)
	if err != nil {
		return reporting.Result{}, err
	}
	var in Inputs
	err = r.store.ReadSnapshot(ctx, func(ctx context.Context) error {
		var err error
		in, err = r.inputs(ctx, f)
		return err
	})
	if err != nil {
		return reporting.Result{}, err
	}
	d := Compute(in)
	return reporting.Result{
		Columns: reporting.Localize(loc, columns...),
		Rows:    d.Rows(loc),
		Summary: d.Summary(loc),
	}, nil
}

func (r *Report) inputs(ctx context.Context, f reporting.Filters) (Inputs, error) {
	var in Inputs
	categories := []struct {
		dst     *Totals
		side    Side
		taxable bool
		returns bool
	}{
		{&in.TaxableSales, Sales, true, false},
		{&in.ExemptSales, Sales, false, false},
		{&in.TaxableSalesReturns, Sales, true, true},
		{&in.ExemptSalesReturns, Sales, false, true},
		{&in.TaxablePurchases, Purchases, true, false},
		{&in.ExemptPurchases, Purchases, false, false},
		{&in.TaxablePurchaseReturns, Purchases, true, true},
		{&in.ExemptPurchaseReturns, Purchases, false, true},
	}
	for _, c := range categories {
		t, err := r.store.InvoiceTotals(ctx, InvoiceQuery{
			Side:       c.side,
			Taxable:    c.taxable,
			Returns:    c.returns,
			Company:    f.Company,
			From:       f.FromDate,
			To:         f.ToDate,
			CostCenter: f.CostCenter(),
		})
		if err != nil {
			return Inputs{}, err
		}
		*c.dst = t
	}

	taxAccounts, err := r.taxAccounts(ctx, f)
	if err != nil {
		return Inputs{}, err
	}
	if len(taxAccounts) == 0 {
		in.JournalTax, in.PaymentTax = decimal.Zero, decimal.Zero
		return in, nil
	}
	q := ExpenseQuery{Company: f.Company, From: f.FromDate, To: f.ToDate, CostCenter: f.CostCenter(), Accounts: taxAccounts}
	if in.JournalTax, err = r.store.JournalTaxDebits(ctx, q); err != nil {
		return Inputs{}, err
	}
	if in.PaymentTax, err = r.store.PaymentTaxDebits(ctx, q); err != nil {
		return Inputs{}, err
	}
	return in, nil
}

// taxAccounts resolves the accounts whose debits count as recoverable tax:
// the tax_account filter, else the configured mapping, else Tax leaves.
func (r *Report) taxAccounts(ctx context.Context, f reporting.Filters) ([]string, error) {
	if f.TaxAccount != "" {
		return []string{f.TaxAccount}, nil
	}
	if configured, ok := r.accounts.For(f.Company); ok {
		return configured, nil
	}
	return r.store.LeafAccounts(ctx, f.Company, accounts.TypeTax)
}
