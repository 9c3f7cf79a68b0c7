package taxdecl

import (
	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// Inputs are the ten independent aggregates of a declaration.
type Inputs struct {
	TaxableSales           Totals
	ExemptSales            Totals
	TaxableSalesReturns    Totals
	ExemptSalesReturns     Totals
	TaxablePurchases       Totals
	ExemptPurchases        Totals
	TaxablePurchaseReturns Totals
	ExemptPurchaseReturns  Totals
	JournalTax             decimal.Decimal
	PaymentTax             decimal.Decimal
}

// Line is one declaration line.
type Line struct {
	Description string
	Amount      decimal.Decimal
	Adjustments decimal.Decimal
	Net         decimal.Decimal
	Tax         decimal.Decimal
}

// Section groups declaration lines under a heading.
type Section struct {
	Heading string
	Lines   []Line
}

// Declaration is the computed declaration.
type Declaration struct {
	TaxableSales           Line
	ExemptSales            Line
	TotalSales             Line
	TaxableSalesReturns    Line
	ExemptSalesReturns     Line
	TotalSalesReturns      Line
	NetSales               Line
	TaxablePurchases       Line
	ExemptPurchases        Line
	TotalPurchases         Line
	TaxablePurchaseReturns Line
	ExemptPurchaseReturns  Line
	TotalPurchaseReturns   Line
	NetPurchases           Line
	JournalExpenses        Line
	PaymentExpenses        Line
	Recoverable            Line
	VATDue                 decimal.Decimal
}

func r2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

func category(description string, t Totals) Line {
	return Line{Description: description, Amount: t.Base, Adjustments: t.Adjustments, Net: t.Net, Tax: t.Tax}
}

func sum(description string, a, b Line, tax decimal.Decimal) Line {
	return Line{
		Description: description,
		Amount:      r2(a.Amount.Add(b.Amount)),
		Adjustments: r2(a.Adjustments.Add(b.Adjustments)),
		Net:         r2(a.Net.Add(b.Net)),
		Tax:         tax,
	}
}

func net(description string, total, returns Line) Line {
	return Line{
		Description: description,
		Amount:      r2(total.Amount.Sub(returns.Amount)),
		Adjustments: r2(total.Adjustments.Sub(returns.Adjustments)),
		Net:         r2(total.Net.Sub(returns.Net)),
		Tax:         r2(total.Tax.Sub(returns.Tax)),
	}
}

func expense(description string, tax decimal.Decimal) Line {
	return Line{Description: description, Amount: tax, Adjustments: decimal.Zero, Net: tax, Tax: tax}
}

// Compute derives every declaration line. Inputs are rounded to two
// decimals first and each derived figure is rounded again.
func Compute(in Inputs) Declaration {
	var d Declaration

	exempt := func(t Totals) Totals {
		t = t.Round()
		t.Tax = decimal.Zero
		return t
	}

	d.TaxableSales = category("Sales at the standard rate", in.TaxableSales.Round())
	d.ExemptSales = category("Exempt or zero-rated sales", exempt(in.ExemptSales))
	d.TotalSales = sum("Total sales", d.TaxableSales, d.ExemptSales, d.TaxableSales.Tax)
	d.TaxableSalesReturns = category("Sales returns at the standard rate", in.TaxableSalesReturns.Round())
	d.ExemptSalesReturns = category("Exempt sales returns", exempt(in.ExemptSalesReturns))
	d.TotalSalesReturns = sum("Total sales returns", d.TaxableSalesReturns, d.ExemptSalesReturns, d.TaxableSalesReturns.Tax)
	d.NetSales = net("Net sales (after returns)", d.TotalSales, d.TotalSalesReturns)

	d.TaxablePurchases = category("Purchases at the standard rate", in.TaxablePurchases.Round())
	d.ExemptPurchases = category("Exempt or zero-rated purchases", exempt(in.ExemptPurchases))
	d.TotalPurchases = sum("Total purchases", d.TaxablePurchases, d.ExemptPurchases, d.TaxablePurchases.Tax)
	d.TaxablePurchaseReturns = category("Purchase returns at the standard rate", in.TaxablePurchaseReturns.Round())
	d.ExemptPurchaseReturns = category("Exempt purchase returns", exempt(in.ExemptPurchaseReturns))
	d.TotalPurchaseReturns = sum("Total purchase returns", d.TaxablePurchaseReturns, d.ExemptPurchaseReturns, d.TaxablePurchaseReturns.Tax)
	d.NetPurchases = net("Net purchases (after returns)", d.TotalPurchases, d.TotalPurchaseReturns)

	journal, payment := r2(in.JournalTax), r2(in.PaymentTax)
	d.JournalExpenses = expense("Expenses (journal entries)", journal)
	d.PaymentExpenses = expense("Expenses (payment vouchers)", payment)

	// Only the taxable purchases recover tax; exempt purchases stay out.
	taxableNet := net("", d.TaxablePurchases, d.TaxablePurchaseReturns)
	d.Recoverable = Line{
		Description: "Total recoverable tax (purchases and expenses)",
		Amount:      r2(taxableNet.Amount.Add(journal).Add(payment)),
		Adjustments: taxableNet.Adjustments,
		Net:         r2(taxableNet.Net.Add(journal).Add(payment)),
		Tax:         r2(taxableNet.Tax.Add(journal).Add(payment)),
	}
	d.VATDue = r2(d.NetSales.Tax.Sub(d.Recoverable.Tax))
	return d
}

// Sections lays the declaration out in reporting order.
func (d Declaration) Sections() []Section {
	return []Section{
		{Heading: "--- Sales ---", Lines: []Line{d.TaxableSales, d.ExemptSales, d.TotalSales, d.TaxableSalesReturns, d.ExemptSalesReturns, d.TotalSalesReturns, d.NetSales}},
		{Heading: "--- Purchases ---", Lines: []Line{d.TaxablePurchases, d.ExemptPurchases, d.TotalPurchases, d.TaxablePurchaseReturns, d.ExemptPurchaseReturns, d.TotalPurchaseReturns, d.NetPurchases}},
		{Heading: "--- Expenses ---", Lines: []Line{d.JournalExpenses, d.PaymentExpenses, d.Recoverable}},
	}
}

// Rows renders the declaration with section header rows and the final VAT
// due line.
func (d Declaration) Rows(loc *i18n.Localizer) []reporting.Row {
	header := func(heading string) reporting.Row {
		return reporting.Row{
			"description":               loc.T(heading),
			"amount":                    "",
			"adjustments":               "",
			"net_amount":                "",
			"tax_amount":                "",
			reporting.FlagSectionHeader: true,
		}
	}
	var rows []reporting.Row
	for _, s := range d.Sections() {
		rows = append(rows, header(s.Heading))
		for _, l := range s.Lines {
			rows = append(rows, reporting.Row{
				"description": loc.T(l.Description),
				"amount":      l.Amount,
				"adjustments": l.Adjustments,
				"net_amount":  l.Net,
				"tax_amount":  l.Tax,
			})
		}
	}
	rows = append(rows, header("--- Final summary ---"), reporting.Row{
		"description": loc.T("Total VAT due for the current tax period"),
		"amount":      "",
		"adjustments": "",
		"net_amount":  "",
		"tax_amount":  d.VATDue,
	})
	return rows
}

// Summary renders the key figures panel.
func (d Declaration) Summary(loc *i18n.Localizer) []reporting.SummaryItem {
	item := func(label string, v decimal.Decimal, indicator string) reporting.SummaryItem {
		return reporting.SummaryItem{Label: loc.T(label), Value: loc.Money(v), Indicator: indicator}
	}
	due := reporting.IndicatorGreen
	if d.VATDue.IsNegative() {
		due = reporting.IndicatorRed
	}
	return []reporting.SummaryItem{
		item("Taxable sales", d.TaxableSales.Amount, reporting.IndicatorGreen),
		item("Taxable sales tax", d.TaxableSales.Tax, reporting.IndicatorGreen),
		item("Exempt sales", d.ExemptSales.Amount, reporting.IndicatorBlue),
		item("Total sales", d.TotalSales.Amount, reporting.IndicatorGreen),
		item("Taxable sales returns", d.TaxableSalesReturns.Amount, reporting.IndicatorRed),
		item("Exempt sales returns", d.ExemptSalesReturns.Amount, reporting.IndicatorRed),
		item("Total sales returns", d.TotalSalesReturns.Amount, reporting.IndicatorRed),
		item("Sales returns tax", d.TaxableSalesReturns.Tax, reporting.IndicatorRed),
		item("Net sales", d.NetSales.Amount, reporting.IndicatorGreen),
		item("Net sales tax", d.NetSales.Tax, reporting.IndicatorGreen),
		item("Taxable purchases", d.TaxablePurchases.Amount, reporting.IndicatorBlue),
		item("Taxable purchases tax", d.TaxablePurchases.Tax, reporting.IndicatorBlue),
		item("Exempt purchases", d.ExemptPurchases.Amount, reporting.IndicatorBlue),
		item("Total purchases", d.TotalPurchases.Amount, reporting.IndicatorBlue),
		item("Taxable purchase returns", d.TaxablePurchaseReturns.Amount, reporting.IndicatorRed),
		item("Exempt purchase returns", d.ExemptPurchaseReturns.Amount, reporting.IndicatorRed),
		item("Total purchase returns", d.TotalPurchaseReturns.Amount, reporting.IndicatorRed),
		item("Purchase returns tax", d.TaxablePurchaseReturns.Tax, reporting.IndicatorRed),
		item("Net purchases", d.NetPurchases.Amount, reporting.IndicatorBlue),
		item("Net purchases tax", d.NetPurchases.Tax, reporting.IndicatorBlue),
		item("Expense tax (journal entries)", d.JournalExpenses.Tax, reporting.IndicatorPurple),
		item("Expense tax (payment vouchers)", d.PaymentExpenses.Tax, reporting.IndicatorPurple),
		item("Total recoverable tax", d.Recoverable.Tax, reporting.IndicatorBlue),
		item("VAT due", d.VATDue, due),
	}
}
