// Package reporting defines the tabular result model, the filter set and the
// registry shared by every financial report.
package reporting

import (
	"time"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
)

// FieldType describes how a column is rendered.
type FieldType string

const (
	TypeData        FieldType = "Data"
	TypeDate        FieldType = "Date"
	TypeTime        FieldType = "Time"
	TypeCurrency    FieldType = "Currency"
	TypeInt         FieldType = "Int"
	TypeLink        FieldType = "Link"
	TypeDynamicLink FieldType = "Dynamic Link"
)

// Row flags marking synthetic rows.
const (
	FlagOpening       = "is_opening_row"
	FlagTotal         = "is_total_row"
	FlagSeparator     = "is_separator"
	FlagDifference    = "is_diff_total"
	FlagReceiptTotal  = "is_receipt_total"
	FlagPaymentTotal  = "is_payment_total"
	FlagNetTotal      = "is_net_total"
	FlagSectionHeader = "is_section_header"
)

// Summary indicator colours.
const (
	IndicatorGreen  = "Green"
	IndicatorBlue   = "Blue"
	IndicatorRed    = "Red"
	IndicatorPurple = "Purple"
)

// Column is the metadata of one output column. Label holds a message id until
// Localize resolves it.
type Column struct {
	FieldName string    `json:"fieldname"`
	Label     string    `json:"label"`
	Type      FieldType `json:"fieldtype"`
	Width     int       `json:"width,omitempty"`
	Options   string    `json:"options,omitempty"`
	Hidden    bool      `json:"hidden,omitempty"`
}

// Row is one heterogeneous output record.
type Row map[string]any

// Flag reports whether the boolean marker key is set on the row.
func (r Row) Flag(key string) bool {
	v, ok := r[key].(bool)
	return ok && v
}

// Synthetic reports whether the row is not backed by a ledger entry.
func (r Row) Synthetic() bool {
	for _, key := range []string{FlagOpening, FlagTotal, FlagSeparator, FlagDifference, FlagReceiptTotal, FlagPaymentTotal, FlagNetTotal, FlagSectionHeader} {
		if r.Flag(key) {
			return true
		}
	}
	return false
}

// SummaryItem is one entry of the key-value summary panel.
type SummaryItem struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Indicator string `json:"indicator,omitempty"`
}

// Result is what a report run returns.
type Result struct {
	Columns  []Column       `json:"columns"`
	Rows     []Row          `json:"rows"`
	Metadata map[string]any `json:"report_metadata,omitempty"`
	Summary  []SummaryItem  `json:"summary,omitempty"`
	Notices  []string       `json:"notices,omitempty"`
}

// Localize resolves column labels for the given language.
func Localize(loc *i18n.Localizer, cols ...Column) []Column {
	out := make([]Column, len(cols))
	for i, col := range cols {
		col.Label = loc.T(col.Label)
		out[i] = col
	}
	return out
}

// FormatDate renders a posting date. The zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
