package registers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/documents"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// PaymentRegisterName is the registry name of the payment register.
const PaymentRegisterName = "payment-register"

var paymentColumns = []reporting.Column{
	{FieldName: "posting_date", Label: "Date", Type: reporting.TypeDate, Width: 100},
	{FieldName: "payment_type", Label: "Payment Type", Type: reporting.TypeData, Width: 120},
	{FieldName: "name", Label: "Payment No", Type: reporting.TypeLink, Options: "Payment Entry", Width: 140},
	{FieldName: "party_name", Label: "Party Name", Type: reporting.TypeData, Width: 180},
	{FieldName: "party_type", Label: "Party Type", Type: reporting.TypeData, Width: 100},
	{FieldName: "paid_amount", Label: "Amount", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "account", Label: "Account", Type: reporting.TypeData, Width: 220},
	{FieldName: "mode_of_payment", Label: "Mode of Payment", Type: reporting.TypeData, Width: 120},
	{FieldName: "reference_no", Label: "Reference No", Type: reporting.TypeData, Width: 120},
	{FieldName: "cost_center", Label: "Cost Center", Type: reporting.TypeData, Width: 120},
	{FieldName: "status", Label: "Status", Type: reporting.TypeData, Width: 100},
}

// PaymentRegister lists payment entries with receipt and payment totals.
type PaymentRegister struct {
	store Store
	norm  *reporting.Normalizer
}

// NewPaymentRegister constructs the payment register.
func NewPaymentRegister(store Store, norm *reporting.Normalizer) *PaymentRegister {
	return &PaymentRegister{store: store, norm: norm}
}

// Name implements reporting.Runner.
func (r *PaymentRegister) Name() string { return PaymentRegisterName }

// Run implements reporting.Runner.
func (r *PaymentRegister) Run(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	f, err := r.norm.Normalize(f)
	if err != nil {
		return reporting.Result{}, err
	}
	payments, err := r.store.Payments(ctx, PaymentQuery{
		Company:       f.Company,
		From:          f.FromDate,
		To:            f.ToDate,
		PaymentType:   selected(f.PaymentType),
		PartyType:     selected(f.PartyType),
		Party:         f.Party,
		ModeOfPayment: f.ModeOfPayment,
		Account:       f.Account,
		CostCenter:    f.CostCenter(),
		Status:        selected(f.Status),
	})
	if err != nil {
		return reporting.Result{}, err
	}
	return reporting.Result{Columns: reporting.Localize(loc, paymentColumns...), Rows: paymentRows(payments, loc)}, nil
}

func paymentRows(payments []Payment, loc *i18n.Localizer) []reporting.Row {
	rows := make([]reporting.Row, 0, len(payments)+3)
	receipts, paid := decimal.Zero, decimal.Zero
	for _, p := range payments {
		amount := p.Amount()
		switch p.PaymentType {
		case documents.PaymentReceive:
			receipts = receipts.Add(amount)
		case documents.PaymentPay:
			paid = paid.Add(amount)
		}
		var refDate string
		if p.ReferenceDate != nil {
			refDate = reporting.FormatDate(*p.ReferenceDate)
		}
		rows = append(rows, reporting.Row{
			"posting_date":    reporting.FormatDate(p.PostingDate),
			"payment_type":    documents.PaymentTypeLabel(p.PaymentType, loc),
			"name":            p.Name,
			"party_name":      firstNonEmpty(p.PartyName, p.Party),
			"party":           p.Party,
			"party_type":      loc.Label(p.PartyType),
			"paid_amount":     amount,
			"account":         p.Account,
			"mode_of_payment": p.ModeOfPayment,
			"reference_no":    p.ReferenceNo,
			"reference_date":  refDate,
			"cost_center":     firstNonEmpty(p.CostCenter, loc.T("Not specified")),
			"status":          loc.Label(p.Status),
		})
	}
	if len(rows) == 0 {
		return rows
	}
	return append(rows,
		reporting.Row{"party_name": loc.T("Total receipts"), "paid_amount": receipts, reporting.FlagReceiptTotal: true},
		reporting.Row{"party_name": loc.T("Total payments"), "paid_amount": paid, reporting.FlagPaymentTotal: true},
		reporting.Row{"party_name": loc.T("Net movement"), "paid_amount": receipts.Sub(paid), reporting.FlagNetTotal: true},
	)
}
