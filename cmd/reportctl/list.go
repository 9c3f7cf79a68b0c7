package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/muzaini-app/muzaini-reports/internal/app"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
)

func newListCmd(b backend) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := localizer(cmd, b.defaultLang)
			registry := app.NewRegistry(app.RegistryParams{Logger: discardLogger()})
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, name := range registry.Names() {
				fmt.Fprintf(tw, "%s\t%s\n", name, export.Title(name, loc))
			}
			return tw.Flush()
		},
	}
}
