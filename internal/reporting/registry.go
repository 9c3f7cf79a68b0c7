package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
)

// Runner executes one report.
type Runner interface {
	Name() string
	Run(ctx context.Context, f Filters, loc *i18n.Localizer) (Result, error)
}

// Observer receives the outcome of each run, typically for metrics.
type Observer interface {
	ObserveReport(name string, elapsed time.Duration, err error)
}

// Registry indexes runners by name.
type Registry struct {
	runners  map[string]Runner
	logger   *slog.Logger
	observer Observer
}

// NewRegistry builds an empty registry. observer may be nil.
func NewRegistry(logger *slog.Logger, observer Observer) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{runners: make(map[string]Runner), logger: logger, observer: observer}
}

// Register adds runners, replacing any with the same name.
func (r *Registry) Register(runners ...Runner) {
	for _, runner := range runners {
		r.runners[runner.Name()] = runner
	}
}

// Names lists the registered report names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.runners[name]
	return ok
}

// Run executes the named report.
func (r *Registry) Run(ctx context.Context, name string, f Filters, loc *i18n.Localizer) (Result, error) {
	runner, ok := r.runners[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}
	start := time.Now()
	res, err := runner.Run(ctx, f, loc)
	elapsed := time.Since(start)
	if r.observer != nil {
		r.observer.ObserveReport(name, elapsed, err)
	}
	switch {
	case err == nil:
		r.logger.Debug("report run", slog.String("report", name), slog.Int("rows", len(res.Rows)), slog.Duration("elapsed", elapsed))
	case errors.Is(err, ErrInvalidFilter):
		r.logger.Info("report rejected filters", slog.String("report", name), slog.Any("error", err))
	default:
		r.logger.Error("report failed", slog.String("report", name), slog.Any("error", err))
	}
	if err != nil {
		return Result{}, err
	}
	if res.Rows == nil {
		res.Rows = []Row{}
	}
	return res, nil
}
