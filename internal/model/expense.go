package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseType splits outflows: cost is variable (COGS), expense is fixed/operating.
type ExpenseType string

const (
	ExpenseTypeCost    ExpenseType = "cost"
	ExpenseTypeExpense ExpenseType = "expense"
)

func (t ExpenseType) Valid() bool {
	return t == ExpenseTypeCost || t == ExpenseTypeExpense
}

type ExpenseCategory string

const (
	ExpenseCategoryInfrastructure ExpenseCategory = "infrastructure"
	ExpenseCategoryTeam           ExpenseCategory = "team"
	ExpenseCategoryMarketing      ExpenseCategory = "marketing"
	ExpenseCategorySoftware       ExpenseCategory = "software"
	ExpenseCategoryOffice         ExpenseCategory = "office"
	ExpenseCategoryOther          ExpenseCategory = "other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseCategoryInfrastructure, ExpenseCategoryTeam, ExpenseCategoryMarketing,
		ExpenseCategorySoftware, ExpenseCategoryOffice, ExpenseCategoryOther:
		return true
	}
	return false
}

type Expense struct {
	ID                 uuid.UUID       `json:"id"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Category           ExpenseCategory `json:"category"`
	Type               ExpenseType     `json:"type"`
	ExpenseDate        *time.Time      `json:"expense_date,omitempty"`
	Recurring          bool            `json:"recurring"`
	RecurringStartDate *time.Time      `json:"recurring_start_date,omitempty"`
	RecurringEndDate   *time.Time      `json:"recurring_end_date,omitempty"` // nil means open-ended
	Notes              *string         `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ExpenseHistory is an immutable snapshot of one month an expense applied to.
type ExpenseHistory struct {
	ID          uuid.UUID       `json:"id"`
	ExpenseID   *uuid.UUID      `json:"expense_id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ExpenseCategory `json:"category"`
	Type        ExpenseType     `json:"type"`
	Month       time.Time       `json:"month"`
	CreatedAt   time.Time       `json:"created_at"`
}
