package export

import (
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
)

// WriteTable prints a result as aligned plain-text columns followed by the
// summary panel.
func WriteTable(w io.Writer, res reporting.Result, loc *i18n.Localizer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cols := visible(res.Columns)

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Label
	}
	if _, err := io.WriteString(tw, strings.Join(header, "\t")+"\n"); err != nil {
		return err
	}
	for _, row := range res.Rows {
		if row.Flag(reporting.FlagSeparator) {
			if _, err := io.WriteString(tw, "\n"); err != nil {
				return err
			}
			continue
		}
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = cell(row[col.FieldName], col.Type, loc, true)
		}
		if _, err := io.WriteString(tw, strings.Join(cells, "\t")+"\n"); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, notice := range res.Notices {
		if _, err := io.WriteString(w, "\n"+notice+"\n"); err != nil {
			return err
		}
	}
	if len(res.Summary) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, item := range res.Summary {
		if _, err := io.WriteString(tw, item.Label+"\t"+item.Value+"\n"); err != nil {
			return err
		}
	}
	return tw.Flush()
}
