package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/ledger"
)

// EventPublisher is the audit-stream port. A nil publisher disables
// publishing without changing service behavior.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
}

// LedgerService provides validated CRUD over the three ledgers. All
// validation happens before any mutation reaches storage.
type LedgerService struct {
	repo   ledger.Repository
	events EventPublisher
}

func NewLedgerService(repo ledger.Repository, events EventPublisher) *LedgerService {
	return &LedgerService{repo: repo, events: events}
}

// Initialize bootstraps empty collections on first run.
func (s *LedgerService) Initialize(ctx context.Context) error {
	return s.repo.Init(ctx)
}

func (s *LedgerService) ListIncomes(ctx context.Context) ([]core.IncomeEntry, error) {
	return s.repo.ListIncomes(ctx)
}

func (s *LedgerService) ListExpenses(ctx context.Context) ([]core.ExpenseEntry, error) {
	return s.repo.ListExpenses(ctx)
}

func (s *LedgerService) ListDebts(ctx context.Context) ([]core.Debt, error) {
	return s.repo.ListDebts(ctx)
}

// AddIncome validates and appends an income record, returning the record and
// the index it landed at.
func (s *LedgerService) AddIncome(ctx context.Context, date core.Date, source core.SourceType, partner string, amount decimal.Decimal, note string) (core.IncomeEntry, int, error) {
	e := core.IncomeEntry{
		ID:      uuid.NewString(),
		Date:    date,
		Source:  source,
		Partner: partner,
		Amount:  amount,
		Note:    note,
	}
	if err := e.Validate(); err != nil {
		return core.IncomeEntry{}, 0, err
	}
	index, err := s.repo.AppendIncome(ctx, e)
	if err != nil {
		return core.IncomeEntry{}, 0, fmt.Errorf("append income: %w", err)
	}

	event := amqp.NewLedgerEvent(amqp.KindIncome, amqp.OpAdd, e.ID)
	event.Index = index
	event.Amount = e.Amount.String()
	s.publish(ctx, event)

	return e, index, nil
}

func (s *LedgerService) AddExpense(ctx context.Context, date core.Date, category core.Category, amount decimal.Decimal, note string) (core.ExpenseEntry, int, error) {
	e := core.ExpenseEntry{
		ID:       uuid.NewString(),
		Date:     date,
		Category: category,
		Amount:   amount,
		Note:     note,
	}
	if err := e.Validate(); err != nil {
		return core.ExpenseEntry{}, 0, err
	}
	index, err := s.repo.AppendExpense(ctx, e)
	if err != nil {
		return core.ExpenseEntry{}, 0, fmt.Errorf("append expense: %w", err)
	}

	event := amqp.NewLedgerEvent(amqp.KindExpense, amqp.OpAdd, e.ID)
	event.Index = index
	event.Amount = e.Amount.String()
	s.publish(ctx, event)

	return e, index, nil
}

func (s *LedgerService) AddDebt(ctx context.Context, creditor string, total, paid decimal.Decimal, status core.DebtStatus, startDate core.Date, note string) (core.Debt, int, error) {
	d := core.Debt{
		ID:          uuid.NewString(),
		Creditor:    creditor,
		TotalAmount: total,
		PaidAmount:  paid,
		Status:      status,
		StartDate:   startDate,
		Note:        note,
	}
	if err := d.Validate(); err != nil {
		return core.Debt{}, 0, err
	}
	index, err := s.repo.AppendDebt(ctx, d)
	if err != nil {
		return core.Debt{}, 0, fmt.Errorf("append debt: %w", err)
	}

	event := amqp.NewLedgerEvent(amqp.KindDebt, amqp.OpAdd, d.ID)
	event.Index = index
	event.Amount = d.TotalAmount.String()
	s.publish(ctx, event)

	return d, index, nil
}

// DeleteIncome removes the income at the given position. A stale
// (out-of-range) index is a silent no-op.
func (s *LedgerService) DeleteIncome(ctx context.Context, index int) error {
	if err := s.repo.DeleteIncome(ctx, index); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	event := amqp.NewLedgerEvent(amqp.KindIncome, amqp.OpDelete, "")
	event.Index = index
	s.publish(ctx, event)
	return nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, index int) error {
	if err := s.repo.DeleteExpense(ctx, index); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	event := amqp.NewLedgerEvent(amqp.KindExpense, amqp.OpDelete, "")
	event.Index = index
	s.publish(ctx, event)
	return nil
}

func (s *LedgerService) DeleteDebt(ctx context.Context, index int) error {
	if err := s.repo.DeleteDebt(ctx, index); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	event := amqp.NewLedgerEvent(amqp.KindDebt, amqp.OpDelete, "")
	event.Index = index
	s.publish(ctx, event)
	return nil
}

// PayDebt records an additional payment against the debt at index. The
// payment must be positive and must not exceed the outstanding balance.
func (s *LedgerService) PayDebt(ctx context.Context, index int, additional decimal.Decimal) (core.Debt, error) {
	if !additional.IsPositive() {
		return core.Debt{}, core.ErrInvalidAmount
	}

	debts, err := s.repo.ListDebts(ctx)
	if err != nil {
		return core.Debt{}, fmt.Errorf("load debts: %w", err)
	}
	if index < 0 || index >= len(debts) {
		return core.Debt{}, core.ErrDebtNotFound
	}

	current := debts[index]
	if additional.GreaterThan(current.Outstanding()) {
		return core.Debt{}, core.ErrPaymentExceedsBalance
	}

	return s.UpdateDebtPayment(ctx, index, current.PaidAmount.Add(additional))
}

// UpdateDebtPayment sets the paid amount on the debt at index. The ceiling
// is re-validated here as well, so a caller bypassing PayDebt can never push
// paid above total.
func (s *LedgerService) UpdateDebtPayment(ctx context.Context, index int, newPaid decimal.Decimal) (core.Debt, error) {
	if newPaid.IsNegative() {
		return core.Debt{}, core.ErrNegativeAmount
	}

	debts, err := s.repo.ListDebts(ctx)
	if err != nil {
		return core.Debt{}, fmt.Errorf("load debts: %w", err)
	}
	if index < 0 || index >= len(debts) {
		return core.Debt{}, core.ErrDebtNotFound
	}
	if newPaid.GreaterThan(debts[index].TotalAmount) {
		return core.Debt{}, core.ErrPaidExceedsTotal
	}

	updated, err := s.repo.UpdateDebtPaid(ctx, index, newPaid)
	if err != nil {
		return core.Debt{}, fmt.Errorf("update debt payment: %w", err)
	}

	event := amqp.NewLedgerEvent(amqp.KindDebt, amqp.OpPayment, updated.ID)
	event.Amount = newPaid.String()
	s.publish(ctx, event)

	return updated, nil
}

// publish is fire-and-forget: the mutation already succeeded, a broker
// failure must not fail the request.
func (s *LedgerService) publish(ctx context.Context, event *amqp.LedgerEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"error", err,
			"kind", event.Kind,
			"op", event.Op)
	}
}
