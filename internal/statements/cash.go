package statements

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/documents"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// CashStatementName is the registry name of the cash account statement.
const CashStatementName = "cash-account-statement"

var cashColumns = []reporting.Column{
	{FieldName: "posting_date", Label: "Date", Type: reporting.TypeDate, Width: 100},
	{FieldName: "voucher_type", Label: "Voucher Type", Type: reporting.TypeData, Width: 130},
	{FieldName: "voucher_no", Label: "Voucher No", Type: reporting.TypeDynamicLink, Options: "voucher_type", Width: 140},
	{FieldName: "description", Label: "Description", Type: reporting.TypeData, Width: 250},
	{FieldName: "debit_amount", Label: "Debit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "credit_amount", Label: "Credit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "running_balance", Label: "Balance", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "created_by", Label: "User", Type: reporting.TypeLink, Options: "User", Width: 120},
	{FieldName: "cost_center", Label: "Cost Center", Type: reporting.TypeData, Width: 130, Hidden: true},
}

// CashStatement lists the postings on the account behind a mode of payment.
type CashStatement struct {
	store  Store
	norm   *reporting.Normalizer
	logger *slog.Logger
}

// NewCashStatement constructs the cash account statement.
func NewCashStatement(store Store, norm *reporting.Normalizer, logger *slog.Logger) *CashStatement {
	if logger == nil {
		logger = slog.Default()
	}
	return &CashStatement{store: store, norm: norm, logger: logger}
}

// Name implements reporting.Runner.
func (s *CashStatement) Name() string { return CashStatementName }

// Run implements reporting.Runner.
func (s *CashStatement) Run(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	f, err := s.norm.Normalize(f, reporting.RequireModeOfPayment)
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

func (s *CashStatement) build(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	account, err := s.store.ModeOfPaymentAccount(ctx, f.ModeOfPayment, f.Company)
	if errors.Is(err, accounts.ErrNotFound) {
		return reporting.Result{}, reporting.Invalid("mode_of_payment", "No account is linked to this mode of payment for the company.")
	}
	if err != nil {
		return reporting.Result{}, err
	}

	base := ledger.Query{Company: f.Company, Accounts: []string{account}}
	opening, err := s.store.OpeningBalance(ctx, base.Opening(f.FromDate))
	if err != nil {
		return reporting.Result{}, err
	}
	period := base.Period(f.FromDate, f.ToDate)
	period.EntryCostCenter = f.CostCenter()
	period.EntryOwner = f.User()
	entries, err := s.store.Entries(ctx, period)
	if err != nil {
		return reporting.Result{}, err
	}
	ledger.SortEntries(entries)

	d := s.describer(ctx, entries)

	var rows []reporting.Row
	totalDr, totalCr := decimal.Zero, decimal.Zero
	if !opening.IsZero() {
		totalDr, totalCr = ledger.OpeningSides(opening)
		rows = append(rows, reporting.Row{
			"posting_date":        reporting.FormatDate(f.FromDate),
			"voucher_type":        "",
			"voucher_no":          "",
			"description":         loc.T("Opening Balance"),
			"debit_amount":        totalDr,
			"credit_amount":       totalCr,
			"running_balance":     opening,
			"created_by":          "",
			reporting.FlagOpening: true,
		})
	}

	postings, totals := ledger.Fold(opening, entries)
	for _, p := range postings {
		rows = append(rows, reporting.Row{
			"posting_date":    reporting.FormatDate(p.PostingDate),
			"voucher_type":    documents.VoucherLabel(p.VoucherType, d.payments[p.VoucherNo].PaymentType, loc),
			"voucher_no":      p.VoucherNo,
			"description":     d.describe(p.Entry, loc),
			"debit_amount":    p.Debit,
			"credit_amount":   p.Credit,
			"running_balance": p.Balance,
			"created_by":      p.PostedBy,
			"cost_center":     p.PostingCostCenter,
		})
	}

	rows = append(rows, reporting.Row{
		"posting_date":      "",
		"voucher_type":      "",
		"voucher_no":        "",
		"description":       loc.T("Total"),
		"debit_amount":      totalDr.Add(totals.Debit),
		"credit_amount":     totalCr.Add(totals.Credit),
		"running_balance":   totals.Closing,
		"created_by":        "",
		reporting.FlagTotal: true,
	})
	return reporting.Result{
		Columns:  reporting.Localize(loc, cashColumns...),
		Rows:     rows,
		Metadata: map[string]any{"account": account, "opening_balance": opening},
	}, nil
}

// describer holds the owning documents of a batch of entries.
type describer struct {
	sales     map[string]documents.Invoice
	purchases map[string]documents.Invoice
	payments  map[string]documents.Payment
	journals  map[string]documents.Journal
}

func (s *CashStatement) describer(ctx context.Context, entries []ledger.Entry) describer {
	var d describer
	var err error
	d.sales, err = s.store.SalesInvoices(ctx, vouchers(entries, ledger.VoucherSalesInvoice))
	d.sales = degrade(s.logger, "sales invoices", d.sales, err)
	d.purchases, err = s.store.PurchaseInvoices(ctx, vouchers(entries, ledger.VoucherPurchaseInvoice))
	d.purchases = degrade(s.logger, "purchase invoices", d.purchases, err)
	d.payments, err = s.store.PaymentEntries(ctx, vouchers(entries, ledger.VoucherPaymentEntry))
	d.payments = degrade(s.logger, "payment entries", d.payments, err)
	d.journals, err = s.store.JournalEntries(ctx, vouchers(entries, ledger.VoucherJournalEntry))
	d.journals = degrade(s.logger, "journal entries", d.journals, err)
	return d
}

// describe builds the narrative of an entry from its owning document,
// falling back to the posting remarks.
func (d describer) describe(e ledger.Entry, loc *i18n.Localizer) string {
	var parts []string
	switch e.VoucherType {
	case ledger.VoucherSalesInvoice:
		inv, ok := d.sales[e.VoucherNo]
		if !ok {
			break
		}
		if inv.PartyName != "" {
			parts = append(parts, loc.T("Customer: %s", inv.PartyName))
		}
		if inv.Remarks != "" {
			parts = append(parts, inv.Remarks)
		}
	case ledger.VoucherPurchaseInvoice:
		inv, ok := d.purchases[e.VoucherNo]
		if !ok {
			break
		}
		if inv.PartyName != "" {
			parts = append(parts, loc.T("Supplier: %s", inv.PartyName))
		}
		if inv.Remarks != "" {
			parts = append(parts, inv.Remarks)
		}
	case ledger.VoucherPaymentEntry:
		pe, ok := d.payments[e.VoucherNo]
		if !ok {
			break
		}
		if pe.PartyType != "" && pe.PartyName != "" {
			parts = append(parts, loc.Label(pe.PartyType)+": "+pe.PartyName)
		}
		if pe.Remarks != "" {
			parts = append(parts, pe.Remarks)
		}
	case ledger.VoucherJournalEntry:
		je, ok := d.journals[e.VoucherNo]
		if !ok {
			break
		}
		if je.VoucherType != "" {
			parts = append(parts, loc.Label(je.VoucherType))
		}
		if je.UserRemark != "" {
			parts = append(parts, je.UserRemark)
		}
	}
	if len(parts) == 0 {
		return e.Remarks
	}
	return strings.Join(parts, " - ")
}
