package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
)

type ContractInput struct {
	ClientID     uuid.UUID
	TotalAmount  decimal.Decimal
	Installments int
	StartDate    time.Time
	Description  *string
	Status       model.ContractStatus
}

type ContractPatch struct {
	TotalAmount  *decimal.Decimal
	Installments *int
	StartDate    *time.Time
	Description  *string
	Status       *model.ContractStatus
}

type RegenerateResult struct {
	Contracts    int `json:"contracts"`
	Installments int `json:"installments"`
}

func (s *LedgerService) ListSetupContracts(ctx context.Context) ([]model.SetupContract, error) {
	contracts, err := s.repo.ListSetupContracts(ctx)
	return contracts, mapRepoError(err)
}

func (s *LedgerService) ListSetupContractsByClient(ctx context.Context, clientID uuid.UUID) ([]model.SetupContract, error) {
	contracts, err := s.repo.ListSetupContractsByClient(ctx, clientID)
	return contracts, mapRepoError(err)
}

func (s *LedgerService) GetSetupContract(ctx context.Context, id uuid.UUID) (*model.SetupContract, error) {
	contract, err := s.repo.GetSetupContract(ctx, id)
	return contract, mapRepoError(err)
}

// CreateSetupContract stores the contract and its full installment schedule
// in one unit.
func (s *LedgerService) CreateSetupContract(ctx context.Context, input ContractInput) (*model.SetupContract, error) {
	contract := model.SetupContract{
		ClientID:     input.ClientID,
		TotalAmount:  input.TotalAmount.Round(2),
		Installments: input.Installments,
		StartDate:    dateOnly(input.StartDate),
		Description:  input.Description,
		Status:       input.Status,
	}
	if contract.Status == "" {
		contract.Status = model.ContractStatusActive
	}
	if err := validateContract(contract); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetClient(ctx, contract.ClientID); err != nil {
		return nil, mapRepoError(err)
	}

	schedule, err := GenerateSchedule(contract.TotalAmount, contract.Installments, contract.StartDate)
	if err != nil {
		return nil, err
	}
	contract.InstallmentAmount = installmentAmount(contract.TotalAmount, contract.Installments)

	saved, err := s.repo.CreateSetupContract(ctx, contract, schedule)
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.log.Info().
		Str("contract_id", saved.ID.String()).
		Str("client_id", saved.ClientID.String()).
		Int("installments", len(schedule)).
		Msg("setup contract created")
	return saved, nil
}

// UpdateSetupContract leaves the stored installments untouched; use
// RegenerateAll to rebuild schedules from the current contract terms.
func (s *LedgerService) UpdateSetupContract(ctx context.Context, id uuid.UUID, patch ContractPatch) (*model.SetupContract, error) {
	contract, err := s.repo.GetSetupContract(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if patch.TotalAmount != nil {
		contract.TotalAmount = patch.TotalAmount.Round(2)
	}
	if patch.Installments != nil {
		contract.Installments = *patch.Installments
	}
	if patch.StartDate != nil {
		contract.StartDate = dateOnly(*patch.StartDate)
	}
	if patch.Description != nil {
		contract.Description = patch.Description
	}
	if patch.Status != nil {
		contract.Status = *patch.Status
	}
	if err := validateContract(*contract); err != nil {
		return nil, err
	}
	contract.InstallmentAmount = installmentAmount(contract.TotalAmount, contract.Installments)

	if err := s.repo.UpdateSetupContract(ctx, *contract); err != nil {
		return nil, mapRepoError(err)
	}
	return s.GetSetupContract(ctx, id)
}

func (s *LedgerService) DeleteSetupContract(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteSetupContract(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.log.Info().Str("contract_id", id.String()).Msg("setup contract deleted")
	return nil
}

func (s *LedgerService) ListInstallments(ctx context.Context, contractID uuid.UUID) ([]model.Installment, error) {
	if _, err := s.repo.GetSetupContract(ctx, contractID); err != nil {
		return nil, mapRepoError(err)
	}
	installments, err := s.repo.ListInstallmentsByContract(ctx, contractID)
	return installments, mapRepoError(err)
}

func (s *LedgerService) MarkInstallmentPaid(ctx context.Context, id uuid.UUID, paidDate time.Time) (*model.Installment, error) {
	if paidDate.IsZero() {
		return nil, fmt.Errorf("%w: paid date is required", ErrInvalidInput)
	}
	paidDate = dateOnly(paidDate)
	return s.setInstallmentStatus(ctx, id, model.InstallmentStatusPaid, &paidDate)
}

func (s *LedgerService) MarkInstallmentPending(ctx context.Context, id uuid.UUID) (*model.Installment, error) {
	return s.setInstallmentStatus(ctx, id, model.InstallmentStatusPending, nil)
}

func (s *LedgerService) setInstallmentStatus(
	ctx context.Context,
	id uuid.UUID,
	status model.InstallmentStatus,
	paidDate *time.Time,
) (*model.Installment, error) {
	installment, err := s.repo.GetInstallment(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	installment.Status = status
	installment.PaidDate = paidDate
	if err := s.repo.UpdateInstallment(ctx, *installment); err != nil {
		return nil, mapRepoError(err)
	}
	return installment, nil
}

// RegenerateAll discards every installment, paid ones included, and rebuilds
// each contract's schedule from its current terms. Contracts are processed one
// at a time; each replacement is atomic and the first failure stops the run.
func (s *LedgerService) RegenerateAll(ctx context.Context, principal model.Principal) (RegenerateResult, error) {
	var result RegenerateResult
	if !principal.IsAdmin() {
		return result, ErrPermissionDenied
	}

	contracts, err := s.repo.ListSetupContracts(ctx)
	if err != nil {
		return result, mapRepoError(err)
	}

	for _, contract := range contracts {
		schedule, err := GenerateSchedule(contract.TotalAmount, contract.Installments, contract.StartDate)
		if err != nil {
			return result, fmt.Errorf("contract %s: %w", contract.ID, err)
		}
		if err := s.repo.ReplaceInstallments(ctx, contract.ID, schedule); err != nil {
			return result, fmt.Errorf("contract %s: %w", contract.ID, mapRepoError(err))
		}
		result.Contracts++
		result.Installments += len(schedule)
	}

	s.log.Warn().
		Bool("audit", true).
		Str("actor_id", principal.UserID.String()).
		Int("contracts", result.Contracts).
		Int("installments", result.Installments).
		Msg("installment schedules regenerated")
	return result, nil
}

func validateContract(contract model.SetupContract) error {
	if contract.ClientID == uuid.Nil {
		return fmt.Errorf("%w: client_id is required", ErrInvalidInput)
	}
	if !contract.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: total amount must be positive", ErrInvalidInput)
	}
	if contract.Installments < 1 {
		return fmt.Errorf("%w: installments must be at least 1", ErrInvalidInput)
	}
	if contract.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	if !contract.Status.Valid() {
		return fmt.Errorf("%w: unknown contract status %q", ErrInvalidInput, contract.Status)
	}
	return nil
}
