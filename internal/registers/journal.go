package registers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/documents"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// JournalRegisterName is the registry name of the journal entries register.
const JournalRegisterName = "journal-entries"

var journalColumns = []reporting.Column{
	{FieldName: "posting_date", Label: "Date", Type: reporting.TypeDate, Width: 100},
	{FieldName: "name", Label: "Entry No", Type: reporting.TypeLink, Options: "Journal Entry", Width: 140},
	{FieldName: "voucher_type", Label: "Entry Type", Type: reporting.TypeData, Width: 120},
	{FieldName: "account", Label: "Account", Type: reporting.TypeLink, Options: "Account", Width: 200},
	{FieldName: "party_name", Label: "Party Name", Type: reporting.TypeData, Width: 150},
	{FieldName: "party_type", Label: "Party Type", Type: reporting.TypeData, Width: 100},
	{FieldName: "debit", Label: "Debit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "credit", Label: "Credit", Type: reporting.TypeCurrency, Width: 120},
	{FieldName: "cost_center", Label: "Cost Center", Type: reporting.TypeData, Width: 120},
	{FieldName: "reference_type", Label: "Reference Type", Type: reporting.TypeData, Width: 120},
	{FieldName: "reference_name", Label: "Reference Name", Type: reporting.TypeData, Width: 140},
	{FieldName: "user_remark", Label: "Remarks", Type: reporting.TypeData, Width: 200},
	{FieldName: "status", Label: "Status", Type: reporting.TypeData, Width: 100},
}

// JournalRegister lists journal entries line by line.
type JournalRegister struct {
	store Store
	norm  *reporting.Normalizer
}

// NewJournalRegister constructs the journal entries register.
func NewJournalRegister(store Store, norm *reporting.Normalizer) *JournalRegister {
	return &JournalRegister{store: store, norm: norm}
}

// Name implements reporting.Runner.
func (r *JournalRegister) Name() string { return JournalRegisterName }

// Run implements reporting.Runner.
func (r *JournalRegister) Run(ctx context.Context, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error) {
	f, err := r.norm.Normalize(f)
	if err != nil {
		return reporting.Result{}, err
	}
	q := JournalQuery{
		Company:     f.Company,
		From:        f.FromDate,
		To:          f.ToDate,
		VoucherType: selected(f.VoucherType),
		Account:     f.Account,
		PartyType:   selected(f.PartyType),
		Party:       f.Party,
		CostCenter:  f.CostCenter(),
	}
	if status := selected(f.Status); status != "" {
		ds := documents.Docstatus(status)
		q.Docstatus = &ds
	}
	lines, err := r.store.JournalLines(ctx, q)
	if err != nil {
		return reporting.Result{}, err
	}
	return reporting.Result{Columns: reporting.Localize(loc, journalColumns...), Rows: journalRows(lines, loc)}, nil
}

// journalRows lays out lines grouped per entry in first-seen order. The
// first line of an entry carries the header fields; a separator follows
// each entry.
func journalRows(lines []JournalLine, loc *i18n.Localizer) []reporting.Row {
	var order []string
	grouped := make(map[string][]JournalLine)
	totalDr, totalCr := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if _, ok := grouped[l.Name]; !ok {
			order = append(order, l.Name)
		}
		grouped[l.Name] = append(grouped[l.Name], l)
		totalDr = totalDr.Add(l.Debit)
		totalCr = totalCr.Add(l.Credit)
	}

	rows := make([]reporting.Row, 0, len(lines)+len(order)+2)
	for _, name := range order {
		for i, l := range grouped[name] {
			row := reporting.Row{
				"name":           l.Name,
				"account":        accountLabel(l),
				"party_type":     loc.Label(l.PartyType),
				"party_name":     firstNonEmpty(l.PartyName, l.Party),
				"debit":          l.Debit,
				"credit":         l.Credit,
				"cost_center":    firstNonEmpty(l.CostCenter, loc.T("Not specified")),
				"reference_type": loc.Label(l.ReferenceType),
				"reference_name": l.ReferenceName,
			}
			if i == 0 {
				row["posting_date"] = reporting.FormatDate(l.PostingDate)
				row["voucher_type"] = loc.Label(l.VoucherType)
				row["party"] = l.Party
				row["user_remark"] = l.UserRemark
				row["status"] = documents.DocstatusLabel(l.Docstatus, loc)
			}
			rows = append(rows, row)
		}
		rows = append(rows, reporting.Row{"name": "", "voucher_type": "---", reporting.FlagSeparator: true})
	}
	if len(rows) == 0 {
		return rows
	}

	rows = append(rows, reporting.Row{
		"account":           loc.T("Total"),
		"debit":             totalDr,
		"credit":            totalCr,
		reporting.FlagTotal: true,
	})
	if !totalDr.Equal(totalCr) {
		dr, cr := decimal.Zero, decimal.Zero
		if diff := totalDr.Sub(totalCr); diff.IsPositive() {
			dr = diff
		} else {
			cr = diff.Neg()
		}
		rows = append(rows, reporting.Row{
			"account":                loc.T("Difference"),
			"debit":                  dr,
			"credit":                 cr,
			reporting.FlagDifference: true,
		})
	}
	return rows
}

func accountLabel(l JournalLine) string {
	if l.AccountName == "" {
		return l.Account
	}
	return l.Account + " - " + l.AccountName
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
