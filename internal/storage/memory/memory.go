// Package memory provides an in-memory ledger repository, used by tests and
// as a throwaway dev backend.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

type Store struct {
	mu       sync.Mutex
	incomes  []core.IncomeEntry
	expenses []core.ExpenseEntry
	debts    []core.Debt
}

func New() *Store {
	return &Store{}
}

func (s *Store) Init(_ context.Context) error {
	return nil
}

func (s *Store) ListIncomes(_ context.Context) ([]core.IncomeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.IncomeEntry(nil), s.incomes...), nil
}

func (s *Store) AppendIncome(_ context.Context, e core.IncomeEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = append(s.incomes, e)
	return len(s.incomes) - 1, nil
}

func (s *Store) DeleteIncome(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = removeAt(s.incomes, index)
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.ExpenseEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExpenseEntry(nil), s.expenses...), nil
}

func (s *Store) AppendExpense(_ context.Context, e core.ExpenseEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return len(s.expenses) - 1, nil
}

func (s *Store) DeleteExpense(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = removeAt(s.expenses, index)
	return nil
}

func (s *Store) ListDebts(_ context.Context) ([]core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Debt(nil), s.debts...), nil
}

func (s *Store) AppendDebt(_ context.Context, d core.Debt) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debts = append(s.debts, d)
	return len(s.debts) - 1, nil
}

func (s *Store) DeleteDebt(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debts = removeAt(s.debts, index)
	return nil
}

func (s *Store) UpdateDebtPaid(_ context.Context, index int, paid decimal.Decimal) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.debts) {
		return core.Debt{}, core.ErrDebtNotFound
	}
	s.debts[index].PaidAmount = paid
	return s.debts[index], nil
}

func removeAt[T any](records []T, index int) []T {
	if index < 0 || index >= len(records) {
		return records
	}
	return append(records[:index], records[index+1:]...)
}
