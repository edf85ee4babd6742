package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/agency-finance/internal/model"
)

const expenseColumns = `
	id,
	description,
	amount,
	category,
	type,
	expense_date,
	recurring,
	recurring_start_date,
	recurring_end_date,
	notes,
	created_at,
	updated_at
`

func (r *LedgerRepository) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	expenses := []model.Expense{}
	if !r.Available() {
		return expenses, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT` + expenseColumns + `
		FROM expenses
		ORDER BY expense_date DESC NULLS LAST
	`).Scan(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *LedgerRepository) ListExpensesByCategory(ctx context.Context, category model.ExpenseCategory) ([]model.Expense, error) {
	expenses := []model.Expense{}
	if !r.Available() {
		return expenses, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+expenseColumns+`
		FROM expenses
		WHERE category = ?
		ORDER BY expense_date DESC NULLS LAST
	`, category).Scan(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *LedgerRepository) ListExpensesByDateRange(ctx context.Context, from, to time.Time) ([]model.Expense, error) {
	expenses := []model.Expense{}
	if !r.Available() {
		return expenses, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+expenseColumns+`
		FROM expenses
		WHERE expense_date >= ?
			AND expense_date <= ?
		ORDER BY expense_date ASC
	`, from, to).Scan(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *LedgerRepository) GetExpense(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	if !r.Available() {
		return nil, ErrNotFound
	}
	var expense model.Expense
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+expenseColumns+`
		FROM expenses
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&expense).Error; err != nil {
		return nil, translate(err)
	}
	if expense.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return &expense, nil
}

func (r *LedgerRepository) CreateExpense(ctx context.Context, expense model.Expense) (*model.Expense, error) {
	if err := r.writable(); err != nil {
		return nil, err
	}
	var saved model.Expense
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO expenses (
			description,
			amount,
			category,
			type,
			expense_date,
			recurring,
			recurring_start_date,
			recurring_end_date,
			notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING`+expenseColumns,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.Type,
		expense.ExpenseDate,
		expense.Recurring,
		expense.RecurringStartDate,
		expense.RecurringEndDate,
		expense.Notes,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *LedgerRepository) UpdateExpense(ctx context.Context, expense model.Expense) error {
	if err := r.writable(); err != nil {
		return err
	}
	return affected(r.db.WithContext(ctx).Exec(`
		UPDATE expenses
		SET
			description = ?,
			amount = ?,
			category = ?,
			type = ?,
			expense_date = ?,
			recurring = ?,
			recurring_start_date = ?,
			recurring_end_date = ?,
			notes = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.Type,
		expense.ExpenseDate,
		expense.Recurring,
		expense.RecurringStartDate,
		expense.RecurringEndDate,
		expense.Notes,
		expense.ID,
	))
}

// ArchiveExpense writes the history snapshots and deletes the expense in a
// single transaction. Nothing is deleted if any snapshot fails to insert.
func (r *LedgerRepository) ArchiveExpense(ctx context.Context, id uuid.UUID, history []model.ExpenseHistory) error {
	if err := r.writable(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertExpenseHistory(tx, history); err != nil {
			return err
		}
		return affected(tx.Exec(`DELETE FROM expenses WHERE id = ?`, id))
	})
}
