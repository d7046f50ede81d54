package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"financas/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "financas.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func amt(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestIncomeRoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	entries := []core.IncomeEntry{
		{ID: "a", Date: core.NewDate(2024, 3, 5), Source: core.Salary, Partner: "A", Amount: amt(t, "3000.00"), Note: "ok"},
		{ID: "b", Date: core.NewDate(2024, 3, 10), Source: core.ExtraIncome, Partner: "B", Amount: amt(t, "500.5"), Note: ""},
	}
	for i, e := range entries {
		index, err := repo.AppendIncome(ctx, e)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if index != i {
			t.Fatalf("expected append at index %d, got %d", i, index)
		}
	}

	got, err := repo.ListIncomes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("order not preserved: %+v", got)
	}
	if !got[1].Amount.Equal(amt(t, "500.5")) {
		t.Fatalf("amount lost precision: %s", got[1].Amount)
	}
	if !got[0].Date.InMonth(3, 2024) {
		t.Fatalf("date did not round-trip: %s", got[0].Date)
	}
}

func TestDeleteExpenseReDensifies(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, id := range []string{"a", "b", "c"} {
		e := core.ExpenseEntry{ID: id, Date: core.NewDate(2024, 3, 1), Category: core.Food, Amount: amt(t, "10")}
		if _, err := repo.AppendExpense(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := repo.DeleteExpense(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected records after delete: %+v", got)
	}

	// Out-of-range delete is a silent no-op.
	if err := repo.DeleteExpense(ctx, 10); err != nil {
		t.Fatalf("stale delete should be a no-op: %v", err)
	}
	got, _ = repo.ListExpenses(ctx)
	if len(got) != 2 {
		t.Fatalf("stale delete changed state: %+v", got)
	}
}

func TestUpdateDebtPaid(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	d := core.Debt{
		ID: "d1", Creditor: "Bank",
		TotalAmount: amt(t, "1000"), PaidAmount: amt(t, "200"),
		Status: core.InAgreement, StartDate: core.NewDate(2023, 1, 15),
	}
	if _, err := repo.AppendDebt(ctx, d); err != nil {
		t.Fatalf("append: %v", err)
	}

	updated, err := repo.UpdateDebtPaid(ctx, 0, amt(t, "350"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.PaidAmount.Equal(amt(t, "350")) || updated.ID != "d1" {
		t.Fatalf("unexpected updated debt: %+v", updated)
	}

	if _, err := repo.UpdateDebtPaid(ctx, 5, amt(t, "1")); !errors.Is(err, core.ErrDebtNotFound) {
		t.Fatalf("expected ErrDebtNotFound, got %v", err)
	}
}
