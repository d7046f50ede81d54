package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"financas/internal/core"
	"financas/internal/ledger"
)

// MetricsService composes ledger reads into the month-scoped aggregate
// view. It never caches: every call reflects the latest persisted state.
type MetricsService struct {
	repo ledger.Repository
}

func NewMetricsService(repo ledger.Repository) *MetricsService {
	return &MetricsService{repo: repo}
}

// ComputeMetrics loads the three collections fresh, in parallel, and
// aggregates them for the given calendar month.
func (s *MetricsService) ComputeMetrics(ctx context.Context, month, year int) (core.MetricsSnapshot, error) {
	if month < 1 || month > 12 {
		return core.MetricsSnapshot{}, fmt.Errorf("month %d: %w", month, core.ErrInvalidMonth)
	}

	var (
		incomes  []core.IncomeEntry
		expenses []core.ExpenseEntry
		debts    []core.Debt
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = s.repo.ListIncomes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.repo.ListExpenses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		debts, err = s.repo.ListDebts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.MetricsSnapshot{}, fmt.Errorf("load ledgers: %w", err)
	}

	return core.ComputeMetrics(incomes, expenses, debts, month, year), nil
}
