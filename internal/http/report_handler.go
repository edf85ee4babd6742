package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/http/middleware"
	"github.com/nurpe/agency-finance/internal/model"
	"github.com/nurpe/agency-finance/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

func (h *Handler) periodQuery(c *gin.Context) (model.DateRange, bool) {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		h.badRequest(c, "invalid start")
		return model.DateRange{}, false
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		h.badRequest(c, "invalid end")
		return model.DateRange{}, false
	}
	return model.DateRange{Start: start, End: end}, true
}

func (h *Handler) metricsForRange(c *gin.Context) {
	period, ok := h.periodQuery(c)
	if !ok {
		return
	}
	metrics, err := h.metrics.Aggregate(c.Request.Context(), period)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) monthlyMetrics(c *gin.Context) {
	year, month, err := h.yearMonth(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	metrics, err := h.metrics.Monthly(c.Request.Context(), year, month)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) reconcile(c *gin.Context) {
	result, err := h.metrics.Reconcile(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) futureProjection(c *gin.Context) {
	projection, err := h.metrics.FutureProjection(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection)
}

func (h *Handler) expensesByCategory(c *gin.Context) {
	year, month, err := h.yearMonth(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	byCategory, err := h.metrics.ExpensesByCategory(c.Request.Context(), year, month)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, byCategory)
}

func (h *Handler) setupPending(c *gin.Context) {
	year, month, err := h.yearMonth(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	breakdown, err := h.metrics.SetupPendingBreakdown(c.Request.Context(), year, month)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (h *Handler) alerts(c *gin.Context) {
	alerts, err := h.metrics.Alerts(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *Handler) cashFlow(c *gin.Context) {
	projection, err := h.metrics.CashFlowProjection(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection)
}

func (h *Handler) revenueHistory(c *gin.Context) {
	history, err := h.metrics.RevenueHistory(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) incomeStatement(c *gin.Context) {
	year, month, err := h.yearMonth(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	dre, err := h.dre.MonthlyIncomeStatement(c.Request.Context(), year, month)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dre)
}

func (h *Handler) taxRate(c *gin.Context) {
	rate, err := h.dre.TaxRate(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tax_rate": rate})
}

type taxRateRequest struct {
	TaxRate *decimal.Decimal `json:"tax_rate" binding:"required"`
}

func (h *Handler) updateTaxRate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req taxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	settings, err := h.dre.UpdateTaxRate(c.Request.Context(), principal, *req.TaxRate)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) upcomingCharges(c *gin.Context) {
	daysAhead := service.DefaultUpcomingDays
	if raw := c.Query("days_ahead"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.badRequest(c, "invalid days_ahead")
			return
		}
		daysAhead = parsed
	}
	charges, err := h.billing.UpcomingCharges(c.Request.Context(), daysAhead)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, charges)
}

func (h *Handler) overdueCharges(c *gin.Context) {
	charges, err := h.billing.OverdueCharges(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, charges)
}

func (h *Handler) exportIncomeStatementXLSX(c *gin.Context) {
	year, month, err := h.yearMonth(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	result, err := h.export.IncomeStatementXLSX(c.Request.Context(), year, month)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.sendFile(c, contentTypeXLSX, result)
}

func (h *Handler) exportIncomeStatementPDF(c *gin.Context) {
	year, month, err := h.yearMonth(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	result, err := h.export.IncomeStatementPDF(c.Request.Context(), year, month)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.sendFile(c, contentTypePDF, result)
}

func (h *Handler) exportMetricsXLSX(c *gin.Context) {
	period, ok := h.periodQuery(c)
	if !ok {
		return
	}
	result, err := h.export.MetricsXLSX(c.Request.Context(), period)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.sendFile(c, contentTypeXLSX, result)
}
