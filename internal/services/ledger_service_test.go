package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/storage/memory"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type recordingPublisher struct {
	events []*amqp.LedgerEvent
}

func (p *recordingPublisher) PublishLedgerEvent(_ context.Context, e *amqp.LedgerEvent) error {
	p.events = append(p.events, e)
	return nil
}

func newTestService() (*LedgerService, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewLedgerService(memory.New(), pub), pub
}

func TestAddIncomeAppendsAtEnd(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService()

	first, firstIndex, err := svc.AddIncome(ctx, core.NewDate(2024, 3, 5), core.Salary, "A", amt("3000.00"), "")
	if err != nil {
		t.Fatalf("add income: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected a generated record ID")
	}
	if firstIndex != 0 {
		t.Fatalf("expected first record at index 0, got %d", firstIndex)
	}

	second, secondIndex, err := svc.AddIncome(ctx, core.NewDate(2024, 3, 10), core.ExtraIncome, "B", amt("500.00"), "freelance")
	if err != nil {
		t.Fatalf("add income: %v", err)
	}
	if secondIndex != 1 {
		t.Fatalf("expected second record at index 1, got %d", secondIndex)
	}

	incomes, err := svc.ListIncomes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(incomes) != 2 {
		t.Fatalf("expected 2 incomes, got %d", len(incomes))
	}
	if incomes[1].ID != second.ID {
		t.Fatal("new record must be the last element")
	}

	if len(pub.events) != 2 || pub.events[0].Kind != amqp.KindIncome || pub.events[0].Op != amqp.OpAdd {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
	if pub.events[1].Index != 1 {
		t.Fatalf("event should carry the appended index, got %d", pub.events[1].Index)
	}
}

func TestAddIncomeValidation(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService()

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"zero amount", func() error {
			_, _, err := svc.AddIncome(ctx, core.NewDate(2024, 3, 5), core.Salary, "A", decimal.Zero, "")
			return err
		}, core.ErrInvalidAmount},
		{"bad source", func() error {
			_, _, err := svc.AddIncome(ctx, core.NewDate(2024, 3, 5), "Gift", "A", amt("10"), "")
			return err
		}, core.ErrInvalidSourceType},
		{"zero date", func() error {
			_, _, err := svc.AddIncome(ctx, core.Date{}, core.Salary, "A", amt("10"), "")
			return err
		}, core.ErrInvalidDate},
	}
	for _, tc := range cases {
		if err := tc.run(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// Rejected adds must not touch storage or the event stream.
	incomes, _ := svc.ListIncomes(ctx)
	if len(incomes) != 0 {
		t.Fatalf("validation failure persisted a record: %d", len(incomes))
	}
	if len(pub.events) != 0 {
		t.Fatalf("validation failure published events: %d", len(pub.events))
	}
}

func TestAddExpenseValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, _, err := svc.AddExpense(ctx, core.NewDate(2024, 3, 12), "Pets", amt("10"), ""); !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if _, _, err := svc.AddExpense(ctx, core.NewDate(2024, 3, 12), core.Food, amt("-1"), ""); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, _, err := svc.AddExpense(ctx, core.NewDate(2024, 3, 12), core.Food, amt("800.00"), "groceries"); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}
}

func TestAddDebtValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, _, err := svc.AddDebt(ctx, "", amt("100"), amt("0"), core.InAgreement, core.NewDate(2024, 1, 1), ""); !errors.Is(err, core.ErrEmptyCreditor) {
		t.Fatalf("expected ErrEmptyCreditor, got %v", err)
	}
	if _, _, err := svc.AddDebt(ctx, "Bank", amt("100"), amt("200"), core.InAgreement, core.NewDate(2024, 1, 1), ""); !errors.Is(err, core.ErrPaidExceedsTotal) {
		t.Fatalf("expected ErrPaidExceedsTotal, got %v", err)
	}
	if _, _, err := svc.AddDebt(ctx, "Bank", amt("1000.00"), amt("200.00"), core.InAgreement, core.NewDate(2024, 1, 10), ""); err != nil {
		t.Fatalf("valid debt rejected: %v", err)
	}
}

func TestDeleteShiftsIndices(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	for _, partner := range []string{"A", "B", "C"} {
		if _, _, err := svc.AddIncome(ctx, core.NewDate(2024, 3, 1), core.Salary, partner, amt("1"), ""); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if err := svc.DeleteIncome(ctx, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	incomes, _ := svc.ListIncomes(ctx)
	if len(incomes) != 2 || incomes[0].Partner != "B" || incomes[1].Partner != "C" {
		t.Fatalf("expected [B C] after deleting index 0, got %+v", incomes)
	}

	// Stale index past the end: silent no-op.
	if err := svc.DeleteIncome(ctx, 7); err != nil {
		t.Fatalf("out-of-range delete errored: %v", err)
	}
	incomes, _ = svc.ListIncomes(ctx)
	if len(incomes) != 2 {
		t.Fatalf("out-of-range delete changed collection: %d", len(incomes))
	}
}

func TestPayDebt(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService()

	if _, _, err := svc.AddDebt(ctx, "Bank", amt("1000.00"), amt("200.00"), core.InAgreement, core.NewDate(2024, 1, 10), ""); err != nil {
		t.Fatalf("add debt: %v", err)
	}

	// Exceeds outstanding balance of 800.00.
	if _, err := svc.PayDebt(ctx, 0, amt("900.00")); !errors.Is(err, core.ErrPaymentExceedsBalance) {
		t.Fatalf("expected ErrPaymentExceedsBalance, got %v", err)
	}

	debts, _ := svc.ListDebts(ctx)
	if !debts[0].PaidAmount.Equal(amt("200.00")) {
		t.Fatalf("rejected payment mutated storage: paid=%s", debts[0].PaidAmount)
	}

	updated, err := svc.PayDebt(ctx, 0, amt("800.00"))
	if err != nil {
		t.Fatalf("pay debt: %v", err)
	}
	if !updated.PaidAmount.Equal(amt("1000.00")) {
		t.Fatalf("expected paid 1000.00, got %s", updated.PaidAmount)
	}
	if !updated.Outstanding().IsZero() {
		t.Fatalf("expected zero outstanding, got %s", updated.Outstanding())
	}

	last := pub.events[len(pub.events)-1]
	if last.Kind != amqp.KindDebt || last.Op != amqp.OpPayment || last.Amount != "1000" {
		t.Fatalf("unexpected payment event: %+v", last)
	}
}

func TestPayDebtEdgeCases(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.PayDebt(ctx, 0, amt("10")); !errors.Is(err, core.ErrDebtNotFound) {
		t.Fatalf("expected ErrDebtNotFound on empty ledger, got %v", err)
	}

	if _, _, err := svc.AddDebt(ctx, "Bank", amt("100"), amt("0"), core.Delinquent, core.NewDate(2024, 1, 1), ""); err != nil {
		t.Fatalf("add debt: %v", err)
	}
	if _, err := svc.PayDebt(ctx, 0, decimal.Zero); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero payment, got %v", err)
	}
	if _, err := svc.PayDebt(ctx, 3, amt("10")); !errors.Is(err, core.ErrDebtNotFound) {
		t.Fatalf("expected ErrDebtNotFound for stale index, got %v", err)
	}
}

func TestUpdateDebtPaymentCeiling(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, _, err := svc.AddDebt(ctx, "Bank", amt("100"), amt("0"), core.InAgreement, core.NewDate(2024, 1, 1), ""); err != nil {
		t.Fatalf("add debt: %v", err)
	}

	// The primitive re-validates the ceiling even when called directly.
	if _, err := svc.UpdateDebtPayment(ctx, 0, amt("150")); !errors.Is(err, core.ErrPaidExceedsTotal) {
		t.Fatalf("expected ErrPaidExceedsTotal, got %v", err)
	}
	if _, err := svc.UpdateDebtPayment(ctx, 0, amt("-5")); !errors.Is(err, core.ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}

	updated, err := svc.UpdateDebtPayment(ctx, 0, amt("60"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.PaidAmount.Equal(amt("60")) {
		t.Fatalf("expected paid 60, got %s", updated.PaidAmount)
	}
}

func TestServiceWithoutPublisher(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(memory.New(), nil)

	if _, _, err := svc.AddExpense(ctx, core.NewDate(2024, 3, 1), core.Food, amt("5"), ""); err != nil {
		t.Fatalf("nil publisher must not affect mutations: %v", err)
	}
}
