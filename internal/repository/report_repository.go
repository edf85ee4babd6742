package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/agency-finance/internal/model"
)

func (r *LedgerRepository) ListExpenseHistoryByDateRange(ctx context.Context, from, to time.Time) ([]model.ExpenseHistory, error) {
	rows := []model.ExpenseHistory{}
	if !r.Available() {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			expense_id,
			description,
			amount,
			category,
			type,
			month,
			created_at
		FROM expense_history
		WHERE month >= ?
			AND month <= ?
		ORDER BY month ASC
	`, from, to).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func insertExpenseHistory(tx *gorm.DB, history []model.ExpenseHistory) error {
	for _, row := range history {
		if err := tx.Exec(`
			INSERT INTO expense_history (
				expense_id,
				description,
				amount,
				category,
				type,
				month
			) VALUES (?, ?, ?, ?, ?, ?)
		`,
			row.ExpenseID,
			row.Description,
			row.Amount,
			row.Category,
			row.Type,
			row.Month,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetCompanySettings returns the first settings row, or nil when none exists.
func (r *LedgerRepository) GetCompanySettings(ctx context.Context) (*model.CompanySettings, error) {
	if !r.Available() {
		return nil, nil
	}
	return firstSettings(r.db.WithContext(ctx))
}

// UpsertCompanySettings updates the singleton row, creating it when absent.
func (r *LedgerRepository) UpsertCompanySettings(ctx context.Context, taxRate decimal.Decimal) (*model.CompanySettings, error) {
	if err := r.writable(); err != nil {
		return nil, err
	}
	var saved *model.CompanySettings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := firstSettings(tx)
		if err != nil {
			return err
		}
		var row model.CompanySettings
		if existing == nil {
			err = tx.Raw(`
				INSERT INTO company_settings (tax_rate)
				VALUES (?)
				RETURNING id, tax_rate, created_at, updated_at
			`, taxRate).Scan(&row).Error
		} else {
			err = tx.Raw(`
				UPDATE company_settings
				SET tax_rate = ?, updated_at = NOW()
				WHERE id = ?
				RETURNING id, tax_rate, created_at, updated_at
			`, taxRate, existing.ID).Scan(&row).Error
		}
		if err != nil {
			return err
		}
		saved = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func firstSettings(db *gorm.DB) (*model.CompanySettings, error) {
	var row model.CompanySettings
	if err := db.Raw(`
		SELECT id, tax_rate, created_at, updated_at
		FROM company_settings
		ORDER BY created_at ASC
		LIMIT 1
	`).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
