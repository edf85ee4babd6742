package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/agency-finance/internal/service"
)

type Services struct {
	Env     service.Env
	Ledger  *service.LedgerService
	Metrics *service.MetricsService
	DRE     *service.DREService
	Billing *service.BillingService
	Export  *service.ExportService
}

type Handler struct {
	env     service.Env
	ledger  *service.LedgerService
	metrics *service.MetricsService
	dre     *service.DREService
	billing *service.BillingService
	export  *service.ExportService
	log     zerolog.Logger
}

func NewHandler(services Services, log zerolog.Logger) *Handler {
	return &Handler{
		env:     services.Env,
		ledger:  services.Ledger,
		metrics: services.Metrics,
		dre:     services.DRE,
		billing: services.Billing,
		export:  services.Export,
		log:     log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", h.health)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/clients", h.listClients)
	protected.POST("/clients", h.createClient)
	protected.GET("/clients/:id", h.getClient)
	protected.PATCH("/clients/:id", h.updateClient)
	protected.DELETE("/clients/:id", h.deleteClient)
	protected.GET("/clients/:id/details", h.clientDetails)
	protected.GET("/clients/:id/contracts", h.listClientContracts)
	protected.GET("/clients/:id/services", h.listClientServices)

	protected.GET("/contracts", h.listContracts)
	protected.POST("/contracts", h.createContract)
	protected.POST("/contracts/regenerate-installments", h.regenerateInstallments)
	protected.GET("/contracts/:id", h.getContract)
	protected.PATCH("/contracts/:id", h.updateContract)
	protected.DELETE("/contracts/:id", h.deleteContract)
	protected.GET("/contracts/:id/installments", h.listInstallments)
	protected.POST("/installments/:id/pay", h.payInstallment)
	protected.POST("/installments/:id/unpay", h.unpayInstallment)

	protected.GET("/services", h.listServices)
	protected.POST("/services", h.createService)
	protected.GET("/services/:id", h.getService)
	protected.PATCH("/services/:id", h.updateService)
	protected.DELETE("/services/:id", h.deleteService)

	protected.GET("/expenses", h.listExpenses)
	protected.POST("/expenses", h.createExpense)
	protected.GET("/expenses/:id", h.getExpense)
	protected.PATCH("/expenses/:id", h.updateExpense)
	protected.DELETE("/expenses/:id", h.deleteExpense)

	protected.GET("/metrics", h.metricsForRange)
	protected.GET("/metrics/monthly", h.monthlyMetrics)
	protected.POST("/metrics/reconcile", h.reconcile)
	protected.GET("/metrics/future-projection", h.futureProjection)
	protected.GET("/metrics/expenses-by-category", h.expensesByCategory)
	protected.GET("/metrics/setup-pending", h.setupPending)
	protected.GET("/metrics/alerts", h.alerts)
	protected.GET("/metrics/cash-flow", h.cashFlow)
	protected.GET("/metrics/revenue-history", h.revenueHistory)

	protected.GET("/dre", h.incomeStatement)
	protected.GET("/settings/tax-rate", h.taxRate)
	protected.PUT("/settings/tax-rate", h.updateTaxRate)

	protected.GET("/billing/upcoming", h.upcomingCharges)
	protected.GET("/billing/overdue", h.overdueCharges)

	protected.GET("/exports/dre.xlsx", h.exportIncomeStatementXLSX)
	protected.GET("/exports/dre.pdf", h.exportIncomeStatementPDF)
	protected.GET("/exports/metrics.xlsx", h.exportMetricsXLSX)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func (h *Handler) sendFile(c *gin.Context, contentType string, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

// parseOptionalDate returns nil for a nil or blank value.
func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// yearMonth reads the year and month query parameters, defaulting to the
// current month in the finance timezone.
func (h *Handler) yearMonth(c *gin.Context) (int, int, error) {
	year, month := h.env.YearMonth()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year")
		}
		year = parsed
	}
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid month")
		}
		month = parsed
	}
	return year, month, nil
}
