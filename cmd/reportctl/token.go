package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muzaini-app/muzaini-reports/internal/auth"
)

func newHashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token <token>",
		Short: "Print the bcrypt hash of an API token for API_TOKEN_HASHES",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashToken(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
