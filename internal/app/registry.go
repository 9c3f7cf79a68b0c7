package app

import (
	"log/slog"
	"time"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/registers"
	"github.com/muzaini-app/muzaini-reports/internal/reportdb"
	"github.com/muzaini-app/muzaini-reports/internal/reporting"
	"github.com/muzaini-app/muzaini-reports/internal/statements"
	"github.com/muzaini-app/muzaini-reports/internal/taxdecl"
	"github.com/muzaini-app/muzaini-reports/internal/trialbalance"
)

// RegistryParams groups what the report runners need.
type RegistryParams struct {
	Logger      *slog.Logger
	Store       *reportdb.Store
	Company     string
	TaxAccounts accounts.TaxAccounts
	Observer    reporting.Observer
	Now         func() time.Time
}

// NewRegistry registers every report against the database store.
func NewRegistry(params RegistryParams) *reporting.Registry {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	norm := reporting.NewNormalizer(params.Company, params.Now)
	registry := reporting.NewRegistry(logger, params.Observer)
	registry.Register(
		statements.NewCustomerStatement(params.Store, norm, logger),
		statements.NewSupplierStatement(params.Store, norm, logger),
		statements.NewCashStatement(params.Store, norm, logger),
		registers.NewJournalRegister(params.Store, norm),
		registers.NewPaymentRegister(params.Store, norm),
		registers.NewSalesLog(params.Store, norm, logger),
		trialbalance.NewReport(params.Store, norm, logger),
		taxdecl.NewReport(params.Store, norm, params.TaxAccounts),
	)
	return registry
}
