package csv

import (
	"context"
	"path/filepath"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

const (
	incomesFile  = "incomes.csv"
	expensesFile = "expenses.csv"
	debtsFile    = "debts.csv"
)

func incomeCodec() Codec[core.IncomeEntry] {
	return Codec[core.IncomeEntry]{
		Header: []string{"id", "date", "source_type", "partner", "amount", "note"},
		Encode: func(e core.IncomeEntry) []string {
			return []string{e.ID, e.Date.String(), string(e.Source), e.Partner, e.Amount.String(), e.Note}
		},
		Decode: func(row []string) core.IncomeEntry {
			date, _ := core.ParseDate(row[1])
			return core.IncomeEntry{
				ID:      row[0],
				Date:    date,
				Source:  core.SourceType(row[2]),
				Partner: row[3],
				Amount:  core.ParseStoredAmount(row[4]),
				Note:    row[5],
			}
		},
	}
}

func expenseCodec() Codec[core.ExpenseEntry] {
	return Codec[core.ExpenseEntry]{
		Header: []string{"id", "date", "category", "amount", "note"},
		Encode: func(e core.ExpenseEntry) []string {
			return []string{e.ID, e.Date.String(), string(e.Category), e.Amount.String(), e.Note}
		},
		Decode: func(row []string) core.ExpenseEntry {
			date, _ := core.ParseDate(row[1])
			return core.ExpenseEntry{
				ID:       row[0],
				Date:     date,
				Category: core.Category(row[2]),
				Amount:   core.ParseStoredAmount(row[3]),
				Note:     row[4],
			}
		},
	}
}

func debtCodec() Codec[core.Debt] {
	return Codec[core.Debt]{
		Header: []string{"id", "creditor", "total_amount", "paid_amount", "status", "start_date", "note"},
		Encode: func(d core.Debt) []string {
			return []string{d.ID, d.Creditor, d.TotalAmount.String(), d.PaidAmount.String(), string(d.Status), d.StartDate.String(), d.Note}
		},
		Decode: func(row []string) core.Debt {
			start, _ := core.ParseDate(row[5])
			return core.Debt{
				ID:          row[0],
				Creditor:    row[1],
				TotalAmount: core.ParseStoredAmount(row[2]),
				PaidAmount:  core.ParseStoredAmount(row[3]),
				Status:      core.DebtStatus(row[4]),
				StartDate:   start,
				Note:        row[6],
			}
		},
	}
}

// Repository implements ledger.Repository over three flat files in one
// storage directory.
type Repository struct {
	incomes  *Store[core.IncomeEntry]
	expenses *Store[core.ExpenseEntry]
	debts    *Store[core.Debt]
}

func NewRepository(dir string) *Repository {
	return &Repository{
		incomes:  NewStore(filepath.Join(dir, incomesFile), incomeCodec()),
		expenses: NewStore(filepath.Join(dir, expensesFile), expenseCodec()),
		debts:    NewStore(filepath.Join(dir, debtsFile), debtCodec()),
	}
}

// Init creates the three header-only files on first run.
func (r *Repository) Init(_ context.Context) error {
	if err := r.incomes.Init(); err != nil {
		return err
	}
	if err := r.expenses.Init(); err != nil {
		return err
	}
	return r.debts.Init()
}

func (r *Repository) ListIncomes(_ context.Context) ([]core.IncomeEntry, error) {
	return r.incomes.Load()
}

func (r *Repository) AppendIncome(_ context.Context, e core.IncomeEntry) (int, error) {
	var index int
	err := r.incomes.Mutate(func(records []core.IncomeEntry) ([]core.IncomeEntry, error) {
		index = len(records)
		return append(records, e), nil
	})
	return index, err
}

func (r *Repository) DeleteIncome(_ context.Context, index int) error {
	return r.incomes.Mutate(func(records []core.IncomeEntry) ([]core.IncomeEntry, error) {
		return removeAt(records, index), nil
	})
}

func (r *Repository) ListExpenses(_ context.Context) ([]core.ExpenseEntry, error) {
	return r.expenses.Load()
}

func (r *Repository) AppendExpense(_ context.Context, e core.ExpenseEntry) (int, error) {
	var index int
	err := r.expenses.Mutate(func(records []core.ExpenseEntry) ([]core.ExpenseEntry, error) {
		index = len(records)
		return append(records, e), nil
	})
	return index, err
}

func (r *Repository) DeleteExpense(_ context.Context, index int) error {
	return r.expenses.Mutate(func(records []core.ExpenseEntry) ([]core.ExpenseEntry, error) {
		return removeAt(records, index), nil
	})
}

func (r *Repository) ListDebts(_ context.Context) ([]core.Debt, error) {
	return r.debts.Load()
}

func (r *Repository) AppendDebt(_ context.Context, d core.Debt) (int, error) {
	var index int
	err := r.debts.Mutate(func(records []core.Debt) ([]core.Debt, error) {
		index = len(records)
		return append(records, d), nil
	})
	return index, err
}

func (r *Repository) DeleteDebt(_ context.Context, index int) error {
	return r.debts.Mutate(func(records []core.Debt) ([]core.Debt, error) {
		return removeAt(records, index), nil
	})
}

func (r *Repository) UpdateDebtPaid(_ context.Context, index int, paid decimal.Decimal) (core.Debt, error) {
	var updated core.Debt
	err := r.debts.Mutate(func(records []core.Debt) ([]core.Debt, error) {
		if index < 0 || index >= len(records) {
			return nil, core.ErrDebtNotFound
		}
		records[index].PaidAmount = paid
		updated = records[index]
		return records, nil
	})
	if err != nil {
		return core.Debt{}, err
	}
	return updated, nil
}

// removeAt drops the record at index and re-densifies; out-of-range leaves
// the collection unchanged (stale indices from concurrent callers tolerated).
func removeAt[T any](records []T, index int) []T {
	if index < 0 || index >= len(records) {
		return records
	}
	return append(records[:index], records[index+1:]...)
}
