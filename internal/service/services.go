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

type ServiceInput struct {
	ClientID         uuid.UUID
	Description      string
	Amount           decimal.Decimal
	ServiceDate      time.Time
	Status           model.ServiceStatus
	PaymentStatus    model.PaymentStatus
	IsInstallment    bool
	InstallmentCount *int
	Notes            *string
}

type ServicePatch struct {
	Description      *string
	Amount           *decimal.Decimal
	ServiceDate      *time.Time
	Status           *model.ServiceStatus
	PaymentStatus    *model.PaymentStatus
	IsInstallment    *bool
	InstallmentCount *int
	Notes            *string
}

func (s *LedgerService) ListServices(ctx context.Context) ([]model.Service, error) {
	services, err := s.repo.ListServices(ctx)
	return services, mapRepoError(err)
}

func (s *LedgerService) ListServicesByClient(ctx context.Context, clientID uuid.UUID) ([]model.Service, error) {
	services, err := s.repo.ListServicesByClient(ctx, clientID)
	return services, mapRepoError(err)
}

func (s *LedgerService) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	service, err := s.repo.GetService(ctx, id)
	return service, mapRepoError(err)
}

func (s *LedgerService) CreateService(ctx context.Context, input ServiceInput) (*model.Service, error) {
	service := model.Service{
		ClientID:         input.ClientID,
		Description:      strings.TrimSpace(input.Description),
		Amount:           input.Amount.Round(2),
		ServiceDate:      dateOnly(input.ServiceDate),
		Status:           input.Status,
		PaymentStatus:    input.PaymentStatus,
		IsInstallment:    input.IsInstallment,
		InstallmentCount: input.InstallmentCount,
		Notes:            input.Notes,
	}
	if service.Status == "" {
		service.Status = model.ServiceStatusPending
	}
	if service.PaymentStatus == "" {
		service.PaymentStatus = model.PaymentStatusPending
	}
	if err := validateService(service); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetClient(ctx, service.ClientID); err != nil {
		return nil, mapRepoError(err)
	}

	saved, err := s.repo.CreateService(ctx, service)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return saved, nil
}

func (s *LedgerService) UpdateService(ctx context.Context, id uuid.UUID, patch ServicePatch) (*model.Service, error) {
	service, err := s.repo.GetService(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if patch.Description != nil {
		service.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Amount != nil {
		service.Amount = patch.Amount.Round(2)
	}
	if patch.ServiceDate != nil {
		service.ServiceDate = dateOnly(*patch.ServiceDate)
	}
	if patch.Status != nil {
		service.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		service.PaymentStatus = *patch.PaymentStatus
	}
	if patch.IsInstallment != nil {
		service.IsInstallment = *patch.IsInstallment
	}
	if patch.InstallmentCount != nil {
		service.InstallmentCount = patch.InstallmentCount
	}
	if patch.Notes != nil {
		service.Notes = patch.Notes
	}
	if err := validateService(*service); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateService(ctx, *service); err != nil {
		return nil, mapRepoError(err)
	}
	return s.GetService(ctx, id)
}

func (s *LedgerService) DeleteService(ctx context.Context, id uuid.UUID) error {
	return mapRepoError(s.repo.DeleteService(ctx, id))
}

func validateService(service model.Service) error {
	if service.ClientID == uuid.Nil {
		return fmt.Errorf("%w: client_id is required", ErrInvalidInput)
	}
	if service.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if service.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if service.ServiceDate.IsZero() {
		return fmt.Errorf("%w: service date is required", ErrInvalidInput)
	}
	if !service.Status.Valid() {
		return fmt.Errorf("%w: unknown service status %q", ErrInvalidInput, service.Status)
	}
	if !service.PaymentStatus.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, service.PaymentStatus)
	}
	if count := service.InstallmentCount; count != nil && *count < 1 {
		return fmt.Errorf("%w: installment count must be at least 1", ErrInvalidInput)
	}
	return nil
}
