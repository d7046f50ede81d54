package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SourceAmount is an income total keyed by "{source} - {partner}".
type SourceAmount struct {
	Source string
	Amount decimal.Decimal
}

// CategoryAmount is an expense total for one category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// MetricsSnapshot is the month-scoped aggregate view over the three ledgers.
// Income and expense figures cover the given month only; debt figures always
// cover every stored debt regardless of start date.
type MetricsSnapshot struct {
	Month int
	Year  int

	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal

	// IncomeBySource preserves first-seen order of its keys.
	IncomeBySource []SourceAmount
	// ExpenseByCategory omits categories with no expenses that month.
	ExpenseByCategory []CategoryAmount

	OutstandingInAgreement decimal.Decimal
	CountInAgreement       int
	OutstandingDelinquent  decimal.Decimal
	CountDelinquent        int
}

// TotalDebtOutstanding sums the outstanding balance across both statuses.
func (s MetricsSnapshot) TotalDebtOutstanding() decimal.Decimal {
	return s.OutstandingInAgreement.Add(s.OutstandingDelinquent)
}

// NetWorth is the month balance minus total outstanding debt.
func (s MetricsSnapshot) NetWorth() decimal.Decimal {
	return s.Balance.Sub(s.TotalDebtOutstanding())
}

// FilterByMonth returns the subsequence of records whose date falls in the
// given calendar month, preserving relative order. Records whose date is the
// zero Date are excluded.
func FilterByMonth[T any](records []T, month, year int, dateOf func(T) Date) []T {
	var out []T
	for _, r := range records {
		if dateOf(r).InMonth(month, year) {
			out = append(out, r)
		}
	}
	return out
}

// ComputeMetrics aggregates the three ledgers into a MetricsSnapshot. It is
// pure: the caller is responsible for loading fresh collections.
func ComputeMetrics(incomes []IncomeEntry, expenses []ExpenseEntry, debts []Debt, month, year int) MetricsSnapshot {
	snap := MetricsSnapshot{
		Month:        month,
		Year:         year,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	monthIncomes := FilterByMonth(incomes, month, year, func(e IncomeEntry) Date { return e.Date })
	monthExpenses := FilterByMonth(expenses, month, year, func(e ExpenseEntry) Date { return e.Date })

	sourceIdx := make(map[string]int)
	for _, e := range monthIncomes {
		snap.TotalIncome = snap.TotalIncome.Add(e.Amount)
		key := fmt.Sprintf("%s - %s", e.Source, e.Partner)
		if i, ok := sourceIdx[key]; ok {
			snap.IncomeBySource[i].Amount = snap.IncomeBySource[i].Amount.Add(e.Amount)
			continue
		}
		sourceIdx[key] = len(snap.IncomeBySource)
		snap.IncomeBySource = append(snap.IncomeBySource, SourceAmount{Source: key, Amount: e.Amount})
	}

	categoryIdx := make(map[Category]int)
	for _, e := range monthExpenses {
		snap.TotalExpense = snap.TotalExpense.Add(e.Amount)
		if i, ok := categoryIdx[e.Category]; ok {
			snap.ExpenseByCategory[i].Amount = snap.ExpenseByCategory[i].Amount.Add(e.Amount)
			continue
		}
		categoryIdx[e.Category] = len(snap.ExpenseByCategory)
		snap.ExpenseByCategory = append(snap.ExpenseByCategory, CategoryAmount{Category: e.Category, Amount: e.Amount})
	}

	snap.Balance = snap.TotalIncome.Sub(snap.TotalExpense)

	snap.OutstandingInAgreement = decimal.Zero
	snap.OutstandingDelinquent = decimal.Zero
	for _, d := range debts {
		switch d.Status {
		case InAgreement:
			snap.OutstandingInAgreement = snap.OutstandingInAgreement.Add(d.Outstanding())
			snap.CountInAgreement++
		case Delinquent:
			snap.OutstandingDelinquent = snap.OutstandingDelinquent.Add(d.Outstanding())
			snap.CountDelinquent++
		}
	}

	return snap
}
