package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
)

type runOptions struct {
	filters []string
	format  string
	output  string
}

func newRunCmd(b backend) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <report>",
		Short: "Run a report",
		Long: `Run a report with filters given as key=value pairs, using the same keys as
the HTTP API.

Examples:
  reportctl run customer-statement --filter customer=CUST-0001 --filter from_date=2024-01-01
  reportctl run tax-declaration --filter company="Muzaini Trading" --format pdf --output vat.pdf
  reportctl run journal-entries --filter cost_center=Main,Branch --format csv --lang en`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, b, args[0], opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.filters, "filter", "f", nil, "Filter as key=value, repeatable")
	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table, json, csv, pdf")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func parseFilterArgs(args []string) (reporting.Filters, error) {
	values := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return reporting.Filters{}, fmt.Errorf("filter %q must be key=value", arg)
		}
		values.Add(strings.TrimSpace(key), value)
	}
	return reporting.ParseFilters(values)
}

func runReport(cmd *cobra.Command, b backend, name string, opts *runOptions) error {
	loc := localizer(cmd, b.defaultLang)
	switch opts.format {
	case "table", "json", "csv", "pdf":
	default:
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	if opts.format == "pdf" && opts.output == "" {
		return errors.New("pdf output needs --output")
	}
	f, err := parseFilterArgs(opts.filters)
	if err != nil {
		return userError(err, loc)
	}

	registry, printer, release, err := b.open(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	if !registry.Has(name) {
		return fmt.Errorf("unknown report %q, see reportctl list", name)
	}
	res, err := registry.Run(cmd.Context(), name, f, loc)
	if err != nil {
		return userError(err, loc)
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	switch opts.format {
	case "table":
		return export.WriteTable(out, res, loc)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	data, err := export.NewRenderer(registry, printer).Encode(cmd.Context(), name, export.Format(opts.format), res, loc)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// userError replaces filter errors with their localized message.
func userError(err error, loc *i18n.Localizer) error {
	var invalid *reporting.ValidationError
	if errors.As(err, &invalid) {
		return errors.New(invalid.Message(loc))
	}
	return err
}
