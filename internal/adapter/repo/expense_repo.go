package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finbot/internal/domain"
)

// ExpenseRepositoryPG implements domain.ExpenseRepository backed by PostgreSQL.
type ExpenseRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepositoryPG.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepositoryPG {
	return &ExpenseRepositoryPG{pool: pool}
}

const expenseColumns = `id, owner_id, amount, category, description, date, receipt_url, status, created_at`

// Insert persists a new expense and returns the stored record.
func (r *ExpenseRepositoryPG) Insert(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO expenses (id, owner_id, amount, category, description, date, receipt_url, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+expenseColumns+`;
`, expense.ID, expense.OwnerID, expense.Amount, expense.Category, expense.Description, expense.Date, expense.ReceiptURL, expense.Status)
	return scanExpense(row)
}

// GetByIDAndOwner fetches an expense scoped to its owner. A record owned by a
// different user is indistinguishable from a missing one.
func (r *ExpenseRepositoryPG) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Expense, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanExpense(row)
}

// Update overwrites the mutable expense fields.
func (r *ExpenseRepositoryPG) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE expenses
SET amount = $2, category = $3, description = $4, date = $5, receipt_url = $6, status = $7
WHERE id = $1
RETURNING `+expenseColumns+`;
`, expense.ID, expense.Amount, expense.Category, expense.Description, expense.Date, expense.ReceiptURL, expense.Status)
	return scanExpense(row)
}

// Delete removes an owner's expense and reports whether a row matched.
func (r *ExpenseRepositoryPG) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List returns expenses ordered by date desc then id desc. An empty ownerID
// lists across all owners.
func (r *ExpenseRepositoryPG) List(ctx context.Context, ownerID string, skip, limit int) ([]domain.Expense, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if ownerID == "" {
		rows, err = r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC, id DESC OFFSET $1 LIMIT $2`, skip, limit)
	} else {
		rows, err = r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE owner_id = $1 ORDER BY date DESC, id DESC OFFSET $2 LIMIT $3`, ownerID, skip, limit)
	}
	if err != nil {
		return nil, err
	}
	return collectExpenses(rows)
}

// ListByOwnerCategoryStatus returns an owner's expenses matching category and
// status exactly. The budget ledger narrows these to the relevant day.
func (r *ExpenseRepositoryPG) ListByOwnerCategoryStatus(ctx context.Context, ownerID string, category domain.Category, status domain.ExpenseStatus) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE owner_id = $1 AND category = $2 AND status = $3`, ownerID, category, status)
	if err != nil {
		return nil, err
	}
	return collectExpenses(rows)
}

// ListRecentByOwner returns the owner's newest expenses regardless of status.
func (r *ExpenseRepositoryPG) ListRecentByOwner(ctx context.Context, ownerID string, limit int) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE owner_id = $1 ORDER BY date DESC, id DESC LIMIT $2`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	return collectExpenses(rows)
}

func collectExpenses(rows pgx.Rows) ([]domain.Expense, error) {
	defer rows.Close()
	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Amount, &e.Category, &e.Description, &e.Date, &e.ReceiptURL, &e.Status, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

var _ domain.ExpenseRepository = (*ExpenseRepositoryPG)(nil)
