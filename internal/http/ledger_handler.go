package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/http/middleware"
	"github.com/nurpe/agency-finance/internal/model"
	"github.com/nurpe/agency-finance/internal/service"
)

type clientRequest struct {
	Name              *string          `json:"name"`
	Email             *string          `json:"email"`
	Phone             *string          `json:"phone"`
	Company           *string          `json:"company"`
	MRR               *decimal.Decimal `json:"mrr"`
	Status            *string          `json:"status"`
	BillingDayOfMonth *int             `json:"billing_day_of_month"`
	StartDate         *string          `json:"start_date"`
	Notes             *string          `json:"notes"`
}

func (h *Handler) listClients(c *gin.Context) {
	clients, err := h.ledger.ListClients(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) getClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	client, err := h.ledger.GetClient(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) createClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		h.badRequest(c, "invalid start_date")
		return
	}

	input := service.ClientInput{
		Email:             req.Email,
		Phone:             req.Phone,
		Company:           req.Company,
		BillingDayOfMonth: req.BillingDayOfMonth,
		Notes:             req.Notes,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.MRR != nil {
		input.MRR = *req.MRR
	}
	if req.Status != nil {
		input.Status = model.ClientStatus(strings.ToLower(*req.Status))
	}
	if startDate != nil {
		input.StartDate = *startDate
	}

	client, err := h.ledger.CreateClient(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) updateClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		h.badRequest(c, "invalid start_date")
		return
	}

	patch := service.ClientPatch{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Company:           req.Company,
		MRR:               req.MRR,
		BillingDayOfMonth: req.BillingDayOfMonth,
		StartDate:         startDate,
		Notes:             req.Notes,
	}
	if req.Status != nil {
		status := model.ClientStatus(strings.ToLower(*req.Status))
		patch.Status = &status
	}

	client, err := h.ledger.UpdateClient(c.Request.Context(), id, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) deleteClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteClient(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clientDetails(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	details, err := h.metrics.ClientDetails(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) listClientContracts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contracts, err := h.ledger.ListSetupContractsByClient(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) listClientServices(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	services, err := h.ledger.ListServicesByClient(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

type contractRequest struct {
	ClientID     string           `json:"client_id" binding:"required"`
	TotalAmount  *decimal.Decimal `json:"total_amount" binding:"required"`
	Installments int              `json:"installments" binding:"required"`
	StartDate    string           `json:"start_date" binding:"required"`
	Description  *string          `json:"description"`
	Status       string           `json:"status"`
}

type contractPatchRequest struct {
	TotalAmount  *decimal.Decimal `json:"total_amount"`
	Installments *int             `json:"installments"`
	StartDate    *string          `json:"start_date"`
	Description  *string          `json:"description"`
	Status       *string          `json:"status"`
}

func (h *Handler) listContracts(c *gin.Context) {
	contracts, err := h.ledger.ListSetupContracts(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) getContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contract, err := h.ledger.GetSetupContract(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) createContract(c *gin.Context) {
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	clientID, err := uuid.Parse(strings.TrimSpace(req.ClientID))
	if err != nil {
		h.badRequest(c, "invalid client_id")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		h.badRequest(c, "invalid start_date")
		return
	}

	contract, err := h.ledger.CreateSetupContract(c.Request.Context(), service.ContractInput{
		ClientID:     clientID,
		TotalAmount:  *req.TotalAmount,
		Installments: req.Installments,
		StartDate:    startDate,
		Description:  req.Description,
		Status:       model.ContractStatus(strings.ToLower(req.Status)),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) updateContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req contractPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		h.badRequest(c, "invalid start_date")
		return
	}

	patch := service.ContractPatch{
		TotalAmount:  req.TotalAmount,
		Installments: req.Installments,
		StartDate:    startDate,
		Description:  req.Description,
	}
	if req.Status != nil {
		status := model.ContractStatus(strings.ToLower(*req.Status))
		patch.Status = &status
	}

	contract, err := h.ledger.UpdateSetupContract(c.Request.Context(), id, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) deleteContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteSetupContract(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listInstallments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	installments, err := h.ledger.ListInstallments(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, installments)
}

type payInstallmentRequest struct {
	PaidDate string `json:"paid_date" binding:"required"`
}

func (h *Handler) payInstallment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req payInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	paidDate, err := parseDate(req.PaidDate)
	if err != nil {
		h.badRequest(c, "invalid paid_date")
		return
	}

	installment, err := h.ledger.MarkInstallmentPaid(c.Request.Context(), id, paidDate)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, installment)
}

func (h *Handler) unpayInstallment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	installment, err := h.ledger.MarkInstallmentPending(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, installment)
}

func (h *Handler) regenerateInstallments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	result, err := h.ledger.RegenerateAll(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type serviceRequest struct {
	ClientID         *string          `json:"client_id"`
	Description      *string          `json:"description"`
	Amount           *decimal.Decimal `json:"amount"`
	ServiceDate      *string          `json:"service_date"`
	Status           *string          `json:"status"`
	PaymentStatus    *string          `json:"payment_status"`
	IsInstallment    *bool            `json:"is_installment"`
	InstallmentCount *int             `json:"installment_count"`
	Notes            *string          `json:"notes"`
}

func (h *Handler) listServices(c *gin.Context) {
	services, err := h.ledger.ListServices(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *Handler) getService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	svc, err := h.ledger.GetService(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *Handler) createService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	if req.ClientID == nil {
		h.badRequest(c, "client_id is required")
		return
	}
	clientID, err := uuid.Parse(strings.TrimSpace(*req.ClientID))
	if err != nil {
		h.badRequest(c, "invalid client_id")
		return
	}
	serviceDate, err := parseOptionalDate(req.ServiceDate)
	if err != nil {
		h.badRequest(c, "invalid service_date")
		return
	}

	input := service.ServiceInput{
		ClientID:         clientID,
		InstallmentCount: req.InstallmentCount,
		Notes:            req.Notes,
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Amount != nil {
		input.Amount = *req.Amount
	}
	if serviceDate != nil {
		input.ServiceDate = *serviceDate
	}
	if req.Status != nil {
		input.Status = model.ServiceStatus(strings.ToLower(*req.Status))
	}
	if req.PaymentStatus != nil {
		input.PaymentStatus = model.PaymentStatus(strings.ToLower(*req.PaymentStatus))
	}
	if req.IsInstallment != nil {
		input.IsInstallment = *req.IsInstallment
	}

	svc, err := h.ledger.CreateService(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *Handler) updateService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	serviceDate, err := parseOptionalDate(req.ServiceDate)
	if err != nil {
		h.badRequest(c, "invalid service_date")
		return
	}

	patch := service.ServicePatch{
		Description:      req.Description,
		Amount:           req.Amount,
		ServiceDate:      serviceDate,
		IsInstallment:    req.IsInstallment,
		InstallmentCount: req.InstallmentCount,
		Notes:            req.Notes,
	}
	if req.Status != nil {
		status := model.ServiceStatus(strings.ToLower(*req.Status))
		patch.Status = &status
	}
	if req.PaymentStatus != nil {
		status := model.PaymentStatus(strings.ToLower(*req.PaymentStatus))
		patch.PaymentStatus = &status
	}

	svc, err := h.ledger.UpdateService(c.Request.Context(), id, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *Handler) deleteService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteService(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
