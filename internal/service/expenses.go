package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
)

// openEndedYears bounds the history of a recurring expense without an end date.
const openEndedYears = 10

type ExpenseInput struct {
	Description        string
	Amount             decimal.Decimal
	Category           model.ExpenseCategory
	Type               model.ExpenseType
	ExpenseDate        *time.Time
	Recurring          bool
	RecurringStartDate *time.Time
	RecurringEndDate   *time.Time
	Notes              *string
}

type ExpensePatch struct {
	Description        *string
	Amount             *decimal.Decimal
	Category           *model.ExpenseCategory
	Type               *model.ExpenseType
	ExpenseDate        *time.Time
	Recurring          *bool
	RecurringStartDate *time.Time
	RecurringEndDate   *time.Time
	ClearEndDate       bool
	Notes              *string
}

func (s *LedgerService) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	expenses, err := s.repo.ListExpenses(ctx)
	return expenses, mapRepoError(err)
}

func (s *LedgerService) GetExpense(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	expense, err := s.repo.GetExpense(ctx, id)
	return expense, mapRepoError(err)
}

func (s *LedgerService) ListExpensesByCategory(ctx context.Context, category model.ExpenseCategory) ([]model.Expense, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown expense category %q", ErrInvalidInput, category)
	}
	expenses, err := s.repo.ListExpensesByCategory(ctx, category)
	return expenses, mapRepoError(err)
}

// ListExpensesByPeriod returns live expenses whose expense date falls in the month.
func (s *LedgerService) ListExpensesByPeriod(ctx context.Context, year, month int) ([]model.Expense, error) {
	start, end, err := s.env.monthRange(year, month)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ListExpensesByDateRange(ctx, start, end)
	return expenses, mapRepoError(err)
}

func (s *LedgerService) CreateExpense(ctx context.Context, input ExpenseInput) (*model.Expense, error) {
	expense := model.Expense{
		Description:        strings.TrimSpace(input.Description),
		Amount:             input.Amount.Round(2),
		Category:           input.Category,
		Type:               input.Type,
		ExpenseDate:        input.ExpenseDate,
		Recurring:          input.Recurring,
		RecurringStartDate: input.RecurringStartDate,
		RecurringEndDate:   input.RecurringEndDate,
		Notes:              input.Notes,
	}
	if expense.Category == "" {
		expense.Category = model.ExpenseCategoryOther
	}
	if err := normalizeExpense(&expense); err != nil {
		return nil, err
	}

	saved, err := s.repo.CreateExpense(ctx, expense)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return saved, nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, id uuid.UUID, patch ExpensePatch) (*model.Expense, error) {
	expense, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if patch.Description != nil {
		expense.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Amount != nil {
		expense.Amount = patch.Amount.Round(2)
	}
	if patch.Category != nil {
		expense.Category = *patch.Category
	}
	if patch.Type != nil {
		expense.Type = *patch.Type
	}
	if patch.ExpenseDate != nil {
		expense.ExpenseDate = patch.ExpenseDate
	}
	if patch.Recurring != nil {
		expense.Recurring = *patch.Recurring
	}
	if patch.RecurringStartDate != nil {
		expense.RecurringStartDate = patch.RecurringStartDate
	}
	if patch.RecurringEndDate != nil {
		expense.RecurringEndDate = patch.RecurringEndDate
	}
	if patch.ClearEndDate {
		expense.RecurringEndDate = nil
	}
	if patch.Notes != nil {
		expense.Notes = patch.Notes
	}
	if err := normalizeExpense(expense); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateExpense(ctx, *expense); err != nil {
		return nil, mapRepoError(err)
	}
	return s.GetExpense(ctx, id)
}

// DeleteExpense writes the months the expense applied to into expense history
// and removes the expense in the same unit. Nothing is deleted when the
// history cannot be stored, or when the expense has no date to recognize it by.
func (s *LedgerService) DeleteExpense(ctx context.Context, principal model.Principal, id uuid.UUID) (int, error) {
	expense, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return 0, mapRepoError(err)
	}

	history := ExpenseHistoryFor(*expense)
	if len(history) == 0 {
		return 0, fmt.Errorf("%w: expense has no recognition date", ErrInvalidInput)
	}
	if err := s.repo.ArchiveExpense(ctx, id, history); err != nil {
		return 0, mapRepoError(err)
	}

	s.log.Info().
		Bool("audit", true).
		Str("actor_id", principal.UserID.String()).
		Str("expense_id", id.String()).
		Int("history_rows", len(history)).
		Msg("expense deleted")
	return len(history), nil
}

// ExpenseHistoryFor lists the months an expense applied to. A recurring
// expense covers every month from its start through its end, or through
// December of the tenth year after the start when open-ended. A one-off
// expense covers the month of its expense date.
func ExpenseHistoryFor(expense model.Expense) []model.ExpenseHistory {
	var months []time.Time
	switch {
	case expense.Recurring && expense.RecurringStartDate != nil:
		start := *expense.RecurringStartDate
		end := time.Date(start.Year()+openEndedYears, time.December, 31, 0, 0, 0, 0, time.UTC)
		if expense.RecurringEndDate != nil {
			end = dateOnly(*expense.RecurringEndDate)
		}
		for month := firstOfMonth(start); !month.After(end); month = month.AddDate(0, 1, 0) {
			months = append(months, month)
		}
	case expense.ExpenseDate != nil:
		months = append(months, firstOfMonth(*expense.ExpenseDate))
	}

	history := make([]model.ExpenseHistory, 0, len(months))
	for _, month := range months {
		expenseID := expense.ID
		history = append(history, model.ExpenseHistory{
			ExpenseID:   &expenseID,
			Description: expense.Description,
			Amount:      expense.Amount,
			Category:    expense.Category,
			Type:        expense.Type,
			Month:       month,
		})
	}
	return history
}

// normalizeExpense validates the row and pins the expense date of a recurring
// expense to its start date.
func normalizeExpense(expense *model.Expense) error {
	if expense.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if !expense.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !expense.Category.Valid() {
		return fmt.Errorf("%w: unknown expense category %q", ErrInvalidInput, expense.Category)
	}
	if !expense.Type.Valid() {
		return fmt.Errorf("%w: expense type must be cost or expense", ErrInvalidInput)
	}

	expense.ExpenseDate = dateOnlyPtr(expense.ExpenseDate)
	expense.RecurringStartDate = dateOnlyPtr(expense.RecurringStartDate)
	expense.RecurringEndDate = dateOnlyPtr(expense.RecurringEndDate)

	if !expense.Recurring {
		if expense.ExpenseDate == nil {
			return fmt.Errorf("%w: expense date is required for one-off expenses", ErrInvalidInput)
		}
		return nil
	}
	if expense.RecurringStartDate == nil {
		return fmt.Errorf("%w: recurring start date is required for recurring expenses", ErrInvalidInput)
	}
	if end := expense.RecurringEndDate; end != nil && end.Before(*expense.RecurringStartDate) {
		return fmt.Errorf("%w: recurring end date must not be before the start date", ErrInvalidInput)
	}
	start := *expense.RecurringStartDate
	expense.ExpenseDate = &start
	return nil
}
