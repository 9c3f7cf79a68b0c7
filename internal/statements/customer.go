package statements

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/documents"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// CustomerStatementName is the registry name of the customer statement.
const CustomerStatementName = "customer-statement"

var customerColumns = []reporting.Column{
	{FieldName: "posting_date", Label: "Date", Type: reporting.TypeDate, Width: 110},
	{FieldName: "voucher_no", Label: "Voucher No", Type: reporting.TypeDynamicLink, Options: "voucher_type", Width: 150},
	{FieldName: "voucher_type", Label: "Voucher Type", Type: reporting.TypeData, Width: 150},
	{FieldName: "description", Label: "Description", Type: reporting.TypeData, Width: 250},
	{FieldName: "invoice_status", Label: "Document Status", Type: reporting.TypeData, Width: 120},
	{FieldName: "payment_type", Label: "Payment Type", Type: reporting.TypeData, Width: 120},
	{FieldName: "debit", Label: "Debit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "credit", Label: "Credit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "balance", Label: "Balance", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "invoice_amount", Label: "Invoice Amount", Type: reporting.TypeCurrency, Width: 120},
}

// CustomerStatement lists a customer's receivable postings with a running
// balance.
type CustomerStatement struct {
	store  Store
	norm   *reporting.Normalizer
	logger *slog.Logger
}

// NewCustomerStatement constructs the customer statement.
func NewCustomerStatement(store Store, norm *reporting.Normalizer, logger *slog.Logger) *CustomerStatement {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerStatement{store: store, norm: norm, logger: logger}
}

// Name implements reporting.Runner.
func (s *CustomerStatement) Name() string { return CustomerStatementName }

// Run implements reporting.Runner.
func (s *CustomerStatement) Run(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	f, err := s.norm.Normalize(f, reporting.RequireCustomer)
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

func (s *CustomerStatement) build(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	openingDate := f.FromDate.AddDate(0, 0, -1)
	res := reporting.Result{
		Columns: reporting.Localize(loc, customerColumns...),
		Rows:    []reporting.Row{},
		Metadata: map[string]any{
			"opening_balance": decimal.Zero,
			"opening_date":    reporting.FormatDate(openingDate),
		},
	}

	receivables := s.receivableAccounts(ctx, f.Company, f.Customer)
	if len(receivables) == 0 {
		res.Notices = append(res.Notices,
			loc.T("No receivable accounts found for the customer"),
			loc.T("No data for this customer in the selected period"))
		return res, nil
	}

	q := ledger.Query{
		Company:     f.Company,
		Accounts:    receivables,
		PartyType:   ledger.PartyCustomer,
		Party:       f.Customer,
		Users:       f.Users,
		CostCenters: f.CostCenters,
		Warehouses:  f.Warehouses,
	}
	opening, err := s.store.OpeningBalance(ctx, q.Opening(f.FromDate))
	if err != nil {
		return reporting.Result{}, err
	}
	entries, err := s.store.Entries(ctx, q.Period(f.FromDate, f.ToDate))
	if err != nil {
		return reporting.Result{}, err
	}
	ledger.SortEntries(entries)

	salesNos := vouchers(entries, ledger.VoucherSalesInvoice)
	paymentNos := vouchers(entries, ledger.VoucherPaymentEntry)
	invoices, err := s.store.SalesInvoices(ctx, salesNos)
	invoices = degrade(s.logger, "sales invoices", invoices, err)
	payments, err := s.store.PaymentEntries(ctx, paymentNos)
	payments = degrade(s.logger, "payment entries", payments, err)
	refs, err := s.store.PaymentReferences(ctx, paymentNos)
	refs = degrade(s.logger, "payment references", refs, err)

	res.Metadata["opening_balance"] = opening

	openDr, openCr := ledger.OpeningSides(opening)
	res.Rows = append(res.Rows, reporting.Row{
		"posting_date":        reporting.FormatDate(openingDate),
		"voucher_type":        "Opening Balance",
		"voucher_no":          "",
		"description":         loc.T("Opening Balance"),
		"debit":               openDr,
		"credit":              openCr,
		"balance":             opening,
		"invoice_status":      "",
		"payment_type":        "",
		reporting.FlagOpening: true,
	})

	postings, totals := ledger.Fold(opening, entries)
	for _, p := range postings {
		var status, paymentType string
		var amount any
		switch p.VoucherType {
		case ledger.VoucherSalesInvoice:
			if inv, ok := invoices[p.VoucherNo]; ok {
				status = documents.SalesStatus(inv, loc)
				amount = positive(inv.GrandTotal)
			}
		case ledger.VoucherPaymentEntry:
			status = loc.T("Payment")
			paymentType = documents.PaymentDirection(payments[p.VoucherNo].PaymentType, loc)
		}
		res.Rows = append(res.Rows, reporting.Row{
			"posting_date":   reporting.FormatDate(p.PostingDate),
			"voucher_type":   p.VoucherType,
			"voucher_no":     p.VoucherNo,
			"description":    customerDescription(p.Entry, refs[p.VoucherNo], loc),
			"debit":          p.Debit,
			"credit":         p.Credit,
			"balance":        p.Balance,
			"invoice_status": status,
			"payment_type":   paymentType,
			"invoice_amount": amount,
			"created_by":     p.CreatedBy,
			"cost_center":    p.CostCenter,
		})
	}

	if len(postings) == 0 {
		res.Notices = append(res.Notices, loc.T("No data for this customer in the selected period"))
		return res, nil
	}
	res.Rows = append(res.Rows, reporting.Row{
		"posting_date":      "",
		"voucher_type":      "Total",
		"voucher_no":        "",
		"description":       loc.T("Total"),
		"debit":             totals.Debit,
		"credit":            totals.Credit,
		"balance":           totals.Closing,
		"invoice_status":    "",
		"payment_type":      "",
		reporting.FlagTotal: true,
	})
	return res, nil
}

// receivableAccounts resolves the customer's receivable accounts: configured
// party accounts, then accounts the customer has postings on, then every
// receivable leaf of the company. Each step degrades to the next on error.
func (s *CustomerStatement) receivableAccounts(ctx context.Context, company, customer string) []string {
	steps := []struct {
		name string
		load func() ([]string, error)
	}{
		{"party accounts", func() ([]string, error) {
			return s.store.PartyAccounts(ctx, ledger.PartyCustomer, customer, company)
		}},
		{"ledger accounts", func() ([]string, error) {
			return s.store.LedgerAccounts(ctx, company, ledger.PartyCustomer, customer)
		}},
		{"receivable accounts", func() ([]string, error) {
			return s.store.LeafAccounts(ctx, company, accounts.TypeReceivable)
		}},
	}
	for _, step := range steps {
		list, err := step.load()
		if err != nil {
			s.logger.Warn("resolve receivable accounts", slog.String("step", step.name), slog.Any("error", err))
			continue
		}
		if len(list) > 0 {
			return list
		}
	}
	return nil
}

func customerDescription(e ledger.Entry, refs []documents.Reference, loc *i18n.Localizer) string {
	description := e.Remarks
	if e.VoucherType == ledger.VoucherPaymentEntry {
		var invoices []string
		for _, ref := range refs {
			if ref.Doctype == ledger.VoucherSalesInvoice {
				invoices = append(invoices, ref.Name)
			}
		}
		if len(invoices) > 0 {
			description = loc.T("Payment for invoices: %s", strings.Join(invoices, ", "))
		}
	}
	if description != "" {
		return description
	}
	if e.Against != "" {
		return e.Against
	}
	if e.VoucherNo != "" {
		return e.VoucherNo
	}
	return loc.T("No description")
}
