package registers

import (
	"context"
	"log/slog"
	"time"

	"github.com/muzaini-app/muzaini-reports/internal/documents"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// SalesLogName is the registry name of the detailed sales log.
const SalesLogName = "detailed-sales-log"

const (
	dayStart = "00:00:00"
	dayEnd   = "23:59:59"
)

var salesLogColumns = []reporting.Column{
	{FieldName: "posting_date", Label: "Date", Type: reporting.TypeDate, Width: 100},
	{FieldName: "posting_time", Label: "Time", Type: reporting.TypeTime, Width: 80},
	{FieldName: "voucher_type", Label: "Voucher Type", Type: reporting.TypeData, Width: 120},
	{FieldName: "voucher_no", Label: "Voucher No", Type: reporting.TypeLink, Options: "Sales Invoice", Width: 140},
	{FieldName: "return_against", Label: "Return Against", Type: reporting.TypeLink, Options: "Sales Invoice", Width: 140},
	{FieldName: "customer_name", Label: "Customer", Type: reporting.TypeData, Width: 180},
	{FieldName: "invoice_status", Label: "Invoice Status", Type: reporting.TypeData, Width: 120},
	{FieldName: "tax_amount", Label: "Tax", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "grand_total", Label: "Amount", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "pos_profile", Label: "POS Profile", Type: reporting.TypeData, Width: 120},
	{FieldName: "owner", Label: "User", Type: reporting.TypeData, Width: 120},
	{FieldName: "warehouse", Label: "Warehouse", Type: reporting.TypeData, Width: 120},
	{FieldName: "cost_center", Label: "Cost Center", Type: reporting.TypeData, Width: 140},
	{FieldName: "mode_of_payment", Label: "Mode of Payment", Type: reporting.TypeData, Width: 130},
	{FieldName: "credit_return_status", Label: "Credit Return Status", Type: reporting.TypeData, Width: 140},
}

// SalesLog lists submitted sales invoices in a date and time window.
type SalesLog struct {
	store  Store
	norm   *reporting.Normalizer
	logger *slog.Logger
}

// NewSalesLog constructs the detailed sales log.
func NewSalesLog(store Store, norm *reporting.Normalizer, logger *slog.Logger) *SalesLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalesLog{store: store, norm: norm, logger: logger}
}

// Name implements reporting.Runner.
func (l *SalesLog) Name() string { return SalesLogName }

// Run implements reporting.Runner.
func (l *SalesLog) Run(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	if f.FromTime == "" {
		f.FromTime = dayStart
	}
	if f.ToTime == "" {
		f.ToTime = dayEnd
	}
	f, err := l.norm.Normalize(f)
	if err != nil {
		return reporting.Result{}, err
	}
	from, err := at(f.FromDate, f.FromTime)
	if err != nil {
		return reporting.Result{}, reporting.Invalid("from_time", "Invalid time in %s", "from_time")
	}
	to, err := at(f.ToDate, f.ToTime)
	if err != nil {
		return reporting.Result{}, reporting.Invalid("to_time", "Invalid time in %s", "to_time")
	}

	sales, err := l.store.Sales(ctx, SalesQuery{
		Company:           f.Company,
		From:              from,
		To:                to,
		Customer:          f.Customer,
		ModeOfPayment:     f.ModeOfPayment,
		CostCenter:        f.CostCenter(),
		POSProfile:        f.POSProfile,
		Owner:             f.User(),
		Warehouse:         f.Warehouse(),
		Status:            f.Status,
		CreditReturnsOnly: f.ShowCreditReturns,
	})
	if err != nil {
		return reporting.Result{}, err
	}

	names := l.fullNames(ctx, sales)
	notSpecified := loc.T("Not specified")
	rows := make([]reporting.Row, 0, len(sales))
	for _, s := range sales {
		status := creditReturnStatus(s, loc)
		credit := 0
		if status != "" {
			credit = 1
		}
		var creditStatus any
		if status != "" {
			creditStatus = status
		}
		rows = append(rows, reporting.Row{
			"posting_date":         reporting.FormatDate(s.PostingDate),
			"posting_time":         s.PostingTime,
			"voucher_type":         loc.T(ledger.VoucherSalesInvoice),
			"voucher_no":           s.Name,
			"return_against":       s.ReturnAgainst,
			"customer_name":        firstNonEmpty(s.CustomerName, notSpecified),
			"invoice_status":       documents.SalesLogStatus(s.Status, s.IsReturn, loc),
			"tax_amount":           s.TaxAmount,
			"grand_total":          s.GrandTotal,
			"pos_profile":          firstNonEmpty(s.POSProfile, notSpecified),
			"owner":                firstNonEmpty(names[s.Owner], s.Owner, notSpecified),
			"warehouse":            firstNonEmpty(s.Warehouse, notSpecified),
			"cost_center":          firstNonEmpty(s.CostCenter, notSpecified),
			"mode_of_payment":      firstNonEmpty(s.ModeOfPayment, notSpecified),
			"credit_return_status": creditStatus,
			"is_credit_return":     credit,
		})
	}
	return reporting.Result{Columns: reporting.Localize(loc, salesLogColumns...), Rows: rows}, nil
}

// fullNames resolves invoice owners to display names. A failed lookup
// leaves the raw user ids in place.
func (l *SalesLog) fullNames(ctx context.Context, sales []Sale) map[string]string {
	seen := make(map[string]struct{})
	var users []string
	for _, s := range sales {
		if s.Owner == "" {
			continue
		}
		if _, ok := seen[s.Owner]; ok {
			continue
		}
		seen[s.Owner] = struct{}{}
		users = append(users, s.Owner)
	}
	if len(users) == 0 {
		return map[string]string{}
	}
	names, err := l.store.UserFullNames(ctx, users)
	if err != nil {
		l.logger.Warn("sales log user lookup", slog.Any("error", err))
		return map[string]string{}
	}
	return names
}

// creditReturnStatus classifies returns raised against credit (non POS)
// invoices. Other invoices have no credit return status.
func creditReturnStatus(s Sale, loc *i18n.Localizer) string {
	if !s.IsReturn || s.ReturnAgainst == "" {
		return ""
	}
	if s.OriginalIsPOS != nil && *s.OriginalIsPOS {
		return ""
	}
	if s.OriginalOutstanding.Valid && s.OriginalOutstanding.Decimal.IsPositive() {
		return loc.T("Unpaid credit invoice")
	}
	return loc.T("Credit invoice")
}

func at(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(time.TimeOnly, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}
