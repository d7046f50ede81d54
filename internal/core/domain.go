package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Salary      SourceType = "Salary"
	ExtraIncome SourceType = "ExtraIncome"
)

const (
	InAgreement DebtStatus = "InAgreement"
	Delinquent  DebtStatus = "Delinquent"
)

const (
	Food      Category = "Food"
	Housing   Category = "Housing"
	Transport Category = "Transport"
	Health    Category = "Health"
	Leisure   Category = "Leisure"
	Education Category = "Education"
	Clothing  Category = "Clothing"
	Services  Category = "Services"
	Debts     Category = "Debt"
	Other     Category = "Other"
)

type (
	SourceType string
	Category   string
	DebtStatus string

	// Date wraps time.Time; the zero value means the date is unknown
	// (for example a malformed cell in storage).
	Date struct {
		time.Time
	}

	IncomeEntry struct {
		ID      string
		Date    Date
		Source  SourceType
		Partner string
		Amount  decimal.Decimal
		Note    string
	}

	ExpenseEntry struct {
		ID       string
		Date     Date
		Category Category
		Amount   decimal.Decimal
		Note     string
	}

	Debt struct {
		ID          string
		Creditor    string
		TotalAmount decimal.Decimal
		PaidAmount  decimal.Decimal
		Status      DebtStatus
		StartDate   Date
		Note        string
	}
)

var (
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrNegativeAmount        = errors.New("amount cannot be negative")
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidMonth          = errors.New("month must be between 1 and 12")
	ErrInvalidSourceType     = errors.New("invalid source type")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrInvalidStatus         = errors.New("invalid debt status")
	ErrEmptyPartner          = errors.New("empty partner")
	ErrEmptyCreditor         = errors.New("empty creditor")
	ErrPaidExceedsTotal      = errors.New("paid amount exceeds total amount")
	ErrPaymentExceedsBalance = errors.New("payment exceeds outstanding balance")
	ErrDebtNotFound          = errors.New("debt not found")
)

// AllCategories is the closed set of expense categories, in display order.
var AllCategories = []Category{
	Food, Housing, Transport, Health, Leisure,
	Education, Clothing, Services, Debts, Other,
}

func (s SourceType) Valid() bool {
	return s == Salary || s == ExtraIncome
}

func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (s DebtStatus) Valid() bool {
	return s == InAgreement || s == Delinquent
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD. An empty or malformed value yields the zero
// Date and an error; callers loading stored rows ignore the error so that
// malformed rows stay loadable.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD; the zero date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// InMonth reports whether the date falls within the given calendar month.
// The zero date is in no month.
func (d Date) InMonth(month, year int) bool {
	if d.IsZero() {
		return false
	}
	return int(d.Time.Month()) == month && d.Time.Year() == year
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (e IncomeEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Source.Valid() {
		return ErrInvalidSourceType
	}
	if strings.TrimSpace(e.Partner) == "" {
		return ErrEmptyPartner
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (e ExpenseEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Creditor) == "" {
		return ErrEmptyCreditor
	}
	if !d.TotalAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if d.PaidAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if d.PaidAmount.GreaterThan(d.TotalAmount) {
		return ErrPaidExceedsTotal
	}
	if !d.Status.Valid() {
		return ErrInvalidStatus
	}
	if err := d.StartDate.Validate(); err != nil {
		return err
	}
	return nil
}

// Outstanding returns the remaining balance on the debt.
func (d Debt) Outstanding() decimal.Decimal {
	return d.TotalAmount.Sub(d.PaidAmount)
}

// PercentPaid returns paid/total as a percentage, 0 when total is zero.
func (d Debt) PercentPaid() decimal.Decimal {
	if d.TotalAmount.IsZero() {
		return decimal.Zero
	}
	return d.PaidAmount.Div(d.TotalAmount).Mul(decimal.NewFromInt(100))
}
