package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/http/middleware"
	"github.com/nurpe/agency-finance/internal/model"
	"github.com/nurpe/agency-finance/internal/service"
)

type expenseRequest struct {
	Description        *string          `json:"description"`
	Amount             *decimal.Decimal `json:"amount"`
	Category           *string          `json:"category"`
	Type               *string          `json:"type"`
	ExpenseDate        *string          `json:"expense_date"`
	Recurring          *bool            `json:"recurring"`
	RecurringStartDate *string          `json:"recurring_start_date"`
	RecurringEndDate   *string          `json:"recurring_end_date"`
	ClearEndDate       bool             `json:"clear_recurring_end_date"`
	Notes              *string          `json:"notes"`
}

// listExpenses filters by category, or by year and month when either is given.
func (h *Handler) listExpenses(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		expenses []model.Expense
		err      error
	)
	switch {
	case c.Query("category") != "":
		expenses, err = h.ledger.ListExpensesByCategory(ctx, model.ExpenseCategory(strings.ToLower(c.Query("category"))))
	case c.Query("year") != "" || c.Query("month") != "":
		year, month, parseErr := h.yearMonth(c)
		if parseErr != nil {
			h.badRequest(c, parseErr.Error())
			return
		}
		expenses, err = h.ledger.ListExpensesByPeriod(ctx, year, month)
	default:
		expenses, err = h.ledger.ListExpenses(ctx)
	}
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *Handler) getExpense(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	expense, err := h.ledger.GetExpense(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *Handler) createExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	expenseDate, startDate, endDate, ok := h.expenseDates(c, req)
	if !ok {
		return
	}

	input := service.ExpenseInput{
		ExpenseDate:        expenseDate,
		RecurringStartDate: startDate,
		RecurringEndDate:   endDate,
		Notes:              req.Notes,
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Amount != nil {
		input.Amount = *req.Amount
	}
	if req.Category != nil {
		input.Category = model.ExpenseCategory(strings.ToLower(*req.Category))
	}
	if req.Type != nil {
		input.Type = model.ExpenseType(strings.ToLower(*req.Type))
	}
	if req.Recurring != nil {
		input.Recurring = *req.Recurring
	}

	expense, err := h.ledger.CreateExpense(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *Handler) updateExpense(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	expenseDate, startDate, endDate, ok := h.expenseDates(c, req)
	if !ok {
		return
	}

	patch := service.ExpensePatch{
		Description:        req.Description,
		Amount:             req.Amount,
		ExpenseDate:        expenseDate,
		Recurring:          req.Recurring,
		RecurringStartDate: startDate,
		RecurringEndDate:   endDate,
		ClearEndDate:       req.ClearEndDate,
		Notes:              req.Notes,
	}
	if req.Category != nil {
		category := model.ExpenseCategory(strings.ToLower(*req.Category))
		patch.Category = &category
	}
	if req.Type != nil {
		expenseType := model.ExpenseType(strings.ToLower(*req.Type))
		patch.Type = &expenseType
	}

	expense, err := h.ledger.UpdateExpense(c.Request.Context(), id, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *Handler) deleteExpense(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	rows, err := h.ledger.DeleteExpense(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history_rows": rows})
}

func (h *Handler) expenseDates(c *gin.Context, req expenseRequest) (expenseDate, startDate, endDate *time.Time, ok bool) {
	var err error
	if expenseDate, err = parseOptionalDate(req.ExpenseDate); err != nil {
		h.badRequest(c, "invalid expense_date")
		return nil, nil, nil, false
	}
	if startDate, err = parseOptionalDate(req.RecurringStartDate); err != nil {
		h.badRequest(c, "invalid recurring_start_date")
		return nil, nil, nil, false
	}
	if endDate, err = parseOptionalDate(req.RecurringEndDate); err != nil {
		h.badRequest(c, "invalid recurring_end_date")
		return nil, nil, nil, false
	}
	return expenseDate, startDate, endDate, true
}
