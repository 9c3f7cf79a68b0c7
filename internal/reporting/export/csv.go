// Package export renders report results to files and keeps asynchronous
// export jobs in Redis.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// Format names an output format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "csv" and "pdf".
func ParseFormat(v string) (Format, error) {
	switch Format(v) {
	case FormatCSV, FormatPDF:
		return Format(v), nil
	case "":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("export: unsupported format %q", v)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Filename builds the attachment name for a report.
func (f Format) Filename(report string) string {
	return report + "." + string(f)
}

// WriteCSV serialises the visible columns of a result. Hidden columns are
// skipped and money is written without grouping so spreadsheets can parse it.
func WriteCSV(w io.Writer, res reporting.Result, loc *i18n.Localizer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	cols := visible(res.Columns)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Label
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range res.Rows {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = cell(row[col.FieldName], col.Type, loc, false)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSV is WriteCSV into a byte slice.
func CSV(res reporting.Result, loc *i18n.Localizer) ([]byte, error) {
	var buf bytes.Buffer
	// UTF-8 BOM so spreadsheet tools detect Arabic text.
	buf.WriteString("\ufeff")
	if err := WriteCSV(&buf, res, loc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func visible(cols []reporting.Column) []reporting.Column {
	out := make([]reporting.Column, 0, len(cols))
	for _, col := range cols {
		if !col.Hidden {
			out = append(out, col)
		}
	}
	return out
}

func cell(v any, typ reporting.FieldType, loc *i18n.Localizer, grouped bool) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case decimal.Decimal:
		if grouped {
			return loc.Money(val)
		}
		return val.StringFixed(2)
	case *decimal.Decimal:
		if val == nil {
			return ""
		}
		return cell(*val, typ, loc, grouped)
	case time.Time:
		if typ == reporting.TypeTime {
			return val.Format(time.TimeOnly)
		}
		return reporting.FormatDate(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
