package export

import (
	"context"
	"fmt"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/platform/pdf"
	"github.com/muzaini-app/muzaini-reports/internal/registers"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	"github.com/muzaini-app/muzaini-reports/internal/statements"
	"github.com/muzaini-app/muzaini-reports/internal/taxdecl"
	"github.com/muzaini-app/muzaini-reports/internal/trialbalance"
)

var titles = map[string]string{
	statements.CustomerStatementName: "Customer Statement",
	statements.SupplierStatementName: "Supplier Statement",
	statements.CashStatementName:     "Cash Account Statement",
	registers.JournalRegisterName:    "Journal Entries",
	registers.PaymentRegisterName:    "Payment Register",
	registers.SalesLogName:           "Detailed Sales Log",
	trialbalance.ReportName:          "Parent Accounts Trial Balance",
	taxdecl.ReportName:               "Tax Declaration",
}

// Title returns the localized display title of a report.
func Title(name string, loc *i18n.Localizer) string {
	if id, ok := titles[name]; ok {
		return loc.T(id)
	}
	return name
}

// Reports runs a named report. *reporting.Registry satisfies it.
type Reports interface {
	Run(ctx context.Context, name string, f reporting.Filters, loc *i18n.Localizer) (reporting.Result, error)
}

// PDFRenderer converts HTML to PDF. *pdf.Client satisfies it.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html []byte, opts pdf.PageOptions) ([]byte, error)
}

// Renderer runs reports and encodes them in an output format.
type Renderer struct {
	reports Reports
	pdf     PDFRenderer
}

// NewRenderer wires a renderer. pdf may be nil, in which case PDF output fails
// with pdf.ErrNotConfigured.
func NewRenderer(reports Reports, pdf PDFRenderer) *Renderer {
	return &Renderer{reports: reports, pdf: pdf}
}

// Render runs the report and encodes the result.
func (r *Renderer) Render(ctx context.Context, name string, format Format, f reporting.Filters, loc *i18n.Localizer) ([]byte, error) {
	res, err := r.reports.Run(ctx, name, f, loc)
	if err != nil {
		return nil, err
	}
	return r.Encode(ctx, name, format, res, loc)
}

// Encode turns an existing result into the requested format.
func (r *Renderer) Encode(ctx context.Context, name string, format Format, res reporting.Result, loc *i18n.Localizer) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CSV(res, loc)
	case FormatPDF:
		if r.pdf == nil {
			return nil, pdf.ErrNotConfigured
		}
		doc, err := HTML(Title(name, loc), res, loc)
		if err != nil {
			return nil, fmt.Errorf("export: html: %w", err)
		}
		out, err := r.pdf.RenderHTML(ctx, doc, pdf.PageOptions{Landscape: len(res.Columns) > 8, Margin: 0.4})
		if err != nil {
			return nil, fmt.Errorf("export: pdf: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("export: unsupported format %q", format)
}
