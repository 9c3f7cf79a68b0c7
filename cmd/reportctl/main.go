package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/app"
	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	"github.com/muzaini-app/muzaini-reports/internal/platform/db"
	"github.com/muzaini-app/muzaini-reports/internal/platform/pdf"
	"github.com/muzaini-app/muzaini-reports/internal/reportdb"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	"github.com/muzaini-app/muzaini-reports/internal/reporting/export"
)

// backend is what the commands need from the environment. Tests swap it.
type backend struct {
	defaultLang string
	// open connects the report registry and the PDF renderer. The returned
	// func releases them.
	open func(ctx context.Context) (*reporting.Registry, export.PDFRenderer, func(), error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(envBackend(), os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(b backend, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Run financial reports from the command line",
		Long: `reportctl runs the same reports the HTTP API serves, straight against the
ledger database, and prints them as a table or writes CSV, JSON or PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().String("lang", b.defaultLang, "Output language (ar or en)")
	root.AddCommand(newListCmd(b), newRunCmd(b), newHashTokenCmd())
	return root
}

func envBackend() backend {
	return backend{
		defaultLang: envOr("DEFAULT_LANG", "ar"),
		open: func(ctx context.Context) (*reporting.Registry, export.PDFRenderer, func(), error) {
			cfg, err := app.LoadConfig()
			if err != nil {
				return nil, nil, nil, fmt.Errorf("load config: %w", err)
			}
			logger := app.NewLogger(&app.Config{LogFormat: cfg.LogFormat, LogLevel: "warn"})
			pool, err := db.New(ctx, cfg.PGDSN, cfg.PoolOptions())
			if err != nil {
				return nil, nil, nil, err
			}
			taxAccounts, err := accounts.LoadTaxAccounts(cfg.TaxAccountsFile)
			if err != nil {
				pool.Close()
				return nil, nil, nil, err
			}
			registry := app.NewRegistry(app.RegistryParams{
				Logger:      logger,
				Store:       reportdb.New(pool),
				Company:     cfg.DefaultCompany,
				TaxAccounts: taxAccounts,
			})
			return registry, pdf.NewClient(cfg.GotenbergURL), pool.Close, nil
		},
	}
}

func localizer(cmd *cobra.Command, defaultLang string) *i18n.Localizer {
	lang, _ := cmd.Flags().GetString("lang")
	return i18n.MustCatalog(defaultLang).Localizer(lang)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
