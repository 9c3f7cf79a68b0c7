package export

import (
	"bytes"
	"html/template"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}"><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:24px;font-size:11px;}
h1{font-size:18px;}
table{width:100%;border-collapse:collapse;margin-bottom:16px;}
th,td{border:1px solid #ddd;padding:4px 6px;}
th{background:#f5f5f5;}
td.num{text-align:end;white-space:nowrap;}
tr.synthetic td{font-weight:bold;background:#fafafa;}
tr.separator td{border:none;height:6px;}
dl{display:grid;grid-template-columns:max-content auto;gap:4px 16px;}
dd{margin:0;}
.Green{color:#2e7d32;}.Red{color:#c62828;}.Blue{color:#1565c0;}.Purple{color:#6a1b9a;}
</style></head><body>
<h1>{{.Title}}</h1>
{{range .Notices}}<p>{{.}}</p>{{end}}
<table><thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead><tbody>
{{range .Rows}}<tr class="{{.Class}}">{{range .Cells}}<td{{if .Numeric}} class="num"{{end}}>{{.Text}}</td>{{end}}</tr>
{{end}}</tbody></table>
{{if .Summary}}<dl>{{range .Summary}}<dt>{{.Label}}</dt><dd class="{{.Indicator}}">{{.Value}}</dd>{{end}}</dl>{{end}}
</body></html>
`))

type htmlCell struct {
	Text    string
	Numeric bool
}

type htmlRow struct {
	Class string
	Cells []htmlCell
}

type htmlPage struct {
	Lang    string
	Dir     string
	Title   string
	Notices []string
	Header  []string
	Rows    []htmlRow
	Summary []reporting.SummaryItem
}

// HTML renders a self-contained document suitable for PDF conversion. Text
// direction follows the localizer language.
func HTML(title string, res reporting.Result, loc *i18n.Localizer) ([]byte, error) {
	cols := visible(res.Columns)
	data := htmlPage{
		Lang:    loc.Tag().String(),
		Dir:     loc.Dir(),
		Title:   title,
		Notices: res.Notices,
		Summary: res.Summary,
	}
	for _, col := range cols {
		data.Header = append(data.Header, col.Label)
	}
	for _, row := range res.Rows {
		r := htmlRow{Cells: make([]htmlCell, len(cols))}
		switch {
		case row.Flag(reporting.FlagSeparator):
			r.Class = "separator"
		case row.Synthetic():
			r.Class = "synthetic"
		}
		for i, col := range cols {
			r.Cells[i] = htmlCell{
				Text:    cell(row[col.FieldName], col.Type, loc, true),
				Numeric: col.Type == reporting.TypeCurrency || col.Type == reporting.TypeInt,
			}
		}
		data.Rows = append(data.Rows, r)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
