// Package sqlite implements the ledger repository over a local SQLite
// database. It is an alternate backend to the flat-file store and keeps the
// same externally observed semantics: insertion order preserved, positional
// indices, re-densifying deletes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"financas/internal/core"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Init is satisfied by the migrations; kept so the backend matches the
// repository port.
func (r *Repository) Init(_ context.Context) error {
	return nil
}

func (r *Repository) ListIncomes(ctx context.Context) ([]core.IncomeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, source_type, partner, amount, note FROM incomes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var out []core.IncomeEntry
	for rows.Next() {
		var e core.IncomeEntry
		var date, amount string
		if err := rows.Scan(&e.ID, &date, &e.Source, &e.Partner, &amount, &e.Note); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		e.Date, _ = core.ParseDate(date)
		e.Amount = core.ParseStoredAmount(amount)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) AppendIncome(ctx context.Context, e core.IncomeEntry) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (id, date, source_type, partner, amount, note) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.String(), string(e.Source), e.Partner, e.Amount.String(), e.Note)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	return r.indexOf(ctx, "incomes", res)
}

func (r *Repository) DeleteIncome(ctx context.Context, index int) error {
	return r.deleteAt(ctx, "incomes", index)
}

func (r *Repository) ListExpenses(ctx context.Context) ([]core.ExpenseEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, category, amount, note FROM expenses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseEntry
	for rows.Next() {
		var e core.ExpenseEntry
		var date, amount string
		if err := rows.Scan(&e.ID, &date, &e.Category, &amount, &e.Note); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Date, _ = core.ParseDate(date)
		e.Amount = core.ParseStoredAmount(amount)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) AppendExpense(ctx context.Context, e core.ExpenseEntry) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, date, category, amount, note) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Date.String(), string(e.Category), e.Amount.String(), e.Note)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	return r.indexOf(ctx, "expenses", res)
}

func (r *Repository) DeleteExpense(ctx context.Context, index int) error {
	return r.deleteAt(ctx, "expenses", index)
}

func (r *Repository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, creditor, total_amount, paid_amount, status, start_date, note FROM debts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var out []core.Debt
	for rows.Next() {
		var d core.Debt
		var total, paid, start string
		if err := rows.Scan(&d.ID, &d.Creditor, &total, &paid, &d.Status, &start, &d.Note); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		d.TotalAmount = core.ParseStoredAmount(total)
		d.PaidAmount = core.ParseStoredAmount(paid)
		d.StartDate, _ = core.ParseDate(start)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repository) AppendDebt(ctx context.Context, d core.Debt) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO debts (id, creditor, total_amount, paid_amount, status, start_date, note) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Creditor, d.TotalAmount.String(), d.PaidAmount.String(), string(d.Status), d.StartDate.String(), d.Note)
	if err != nil {
		return 0, fmt.Errorf("insert debt: %w", err)
	}
	return r.indexOf(ctx, "debts", res)
}

func (r *Repository) DeleteDebt(ctx context.Context, index int) error {
	return r.deleteAt(ctx, "debts", index)
}

func (r *Repository) UpdateDebtPaid(ctx context.Context, index int, paid decimal.Decimal) (core.Debt, error) {
	seq, err := r.seqAt(ctx, "debts", index)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.ErrDebtNotFound
	}
	if err != nil {
		return core.Debt{}, err
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE debts SET paid_amount = ? WHERE seq = ?`, paid.String(), seq); err != nil {
		return core.Debt{}, fmt.Errorf("update debt: %w", err)
	}

	var d core.Debt
	var total, paidOut, start string
	err = r.db.QueryRowContext(ctx,
		`SELECT id, creditor, total_amount, paid_amount, status, start_date, note FROM debts WHERE seq = ?`, seq).
		Scan(&d.ID, &d.Creditor, &total, &paidOut, &d.Status, &start, &d.Note)
	if err != nil {
		return core.Debt{}, fmt.Errorf("reload debt: %w", err)
	}
	d.TotalAmount = core.ParseStoredAmount(total)
	d.PaidAmount = core.ParseStoredAmount(paidOut)
	d.StartDate, _ = core.ParseDate(start)
	return d, nil
}

// indexOf turns the seq of a just-inserted row into its positional index:
// the count of rows with a smaller seq.
func (r *Repository) indexOf(ctx context.Context, table string, res sql.Result) (int, error) {
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted row in %s: %w", table, err)
	}
	var index int
	err = r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE seq < ?`, table), seq).Scan(&index)
	if err != nil {
		return 0, fmt.Errorf("resolve index in %s: %w", table, err)
	}
	return index, nil
}

// seqAt resolves a positional index to the row's seq, following insertion
// order.
func (r *Repository) seqAt(ctx context.Context, table string, index int) (int64, error) {
	if index < 0 {
		return 0, sql.ErrNoRows
	}
	var seq int64
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT seq FROM %s ORDER BY seq LIMIT 1 OFFSET ?`, table), index).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *Repository) deleteAt(ctx context.Context, table string, index int) error {
	seq, err := r.seqAt(ctx, table, index)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // stale index tolerated, same as the flat-file store
	}
	if err != nil {
		return fmt.Errorf("resolve index in %s: %w", table, err)
	}
	if _, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE seq = ?`, table), seq); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}
