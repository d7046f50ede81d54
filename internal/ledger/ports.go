package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

// Ports for outbound storage adapters. Records are identified positionally:
// index N refers to the Nth record in storage order, and deletes re-densify,
// so any index held across a delete must be re-derived from a fresh list.
type (
	IncomeRepository interface {
		ListIncomes(ctx context.Context) ([]core.IncomeEntry, error)
		// AppendIncome stores the record at the end of the collection and
		// returns its index.
		AppendIncome(ctx context.Context, e core.IncomeEntry) (int, error)
		// DeleteIncome removes the record at index; out-of-range is a no-op.
		DeleteIncome(ctx context.Context, index int) error
	}

	ExpenseRepository interface {
		ListExpenses(ctx context.Context) ([]core.ExpenseEntry, error)
		AppendExpense(ctx context.Context, e core.ExpenseEntry) (int, error)
		DeleteExpense(ctx context.Context, index int) error
	}

	DebtRepository interface {
		ListDebts(ctx context.Context) ([]core.Debt, error)
		AppendDebt(ctx context.Context, d core.Debt) (int, error)
		DeleteDebt(ctx context.Context, index int) error
		// UpdateDebtPaid sets the paid amount on the debt at index and
		// returns the updated record. Out-of-range yields core.ErrDebtNotFound.
		UpdateDebtPaid(ctx context.Context, index int, paid decimal.Decimal) (core.Debt, error)
	}

	// Repository is the full storage surface a backend must provide.
	Repository interface {
		IncomeRepository
		ExpenseRepository
		DebtRepository
		// Init bootstraps empty collections on first run. Idempotent; never
		// overwrites existing data.
		Init(ctx context.Context) error
	}
)
