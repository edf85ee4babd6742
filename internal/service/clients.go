package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
)

// LedgerService owns the CRUD operations over clients, contracts, services
// and expenses.
type LedgerService struct {
	repo Repository
	env  Env
	log  zerolog.Logger
}

func NewLedgerService(repo Repository, env Env, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		repo: repo,
		env:  env,
		log:  log.With().Str("component", "ledger").Logger(),
	}
}

type ClientInput struct {
	Name              string
	Email             *string
	Phone             *string
	Company           *string
	MRR               decimal.Decimal
	Status            model.ClientStatus
	BillingDayOfMonth *int
	StartDate         time.Time
	Notes             *string
}

// ClientPatch updates only the non-nil fields.
type ClientPatch struct {
	Name              *string
	Email             *string
	Phone             *string
	Company           *string
	MRR               *decimal.Decimal
	Status            *model.ClientStatus
	BillingDayOfMonth *int
	StartDate         *time.Time
	Notes             *string
}

func (s *LedgerService) ListClients(ctx context.Context) ([]model.Client, error) {
	clients, err := s.repo.ListClients(ctx)
	return clients, mapRepoError(err)
}

func (s *LedgerService) GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	client, err := s.repo.GetClient(ctx, id)
	return client, mapRepoError(err)
}

func (s *LedgerService) CreateClient(ctx context.Context, input ClientInput) (*model.Client, error) {
	client := model.Client{
		Name:              strings.TrimSpace(input.Name),
		Email:             input.Email,
		Phone:             input.Phone,
		Company:           input.Company,
		MRR:               input.MRR.Round(2),
		Status:            input.Status,
		BillingDayOfMonth: input.BillingDayOfMonth,
		StartDate:         dateOnly(input.StartDate),
		Notes:             input.Notes,
	}
	if client.Status == "" {
		client.Status = model.ClientStatusActive
	}
	if client.StartDate.IsZero() {
		client.StartDate = s.env.today()
	}
	if err := validateClient(client); err != nil {
		return nil, err
	}

	saved, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return saved, nil
}

func (s *LedgerService) UpdateClient(ctx context.Context, id uuid.UUID, patch ClientPatch) (*model.Client, error) {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if patch.Name != nil {
		client.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		client.Email = patch.Email
	}
	if patch.Phone != nil {
		client.Phone = patch.Phone
	}
	if patch.Company != nil {
		client.Company = patch.Company
	}
	if patch.MRR != nil {
		client.MRR = patch.MRR.Round(2)
	}
	if patch.Status != nil {
		client.Status = *patch.Status
	}
	if patch.BillingDayOfMonth != nil {
		client.BillingDayOfMonth = patch.BillingDayOfMonth
	}
	if patch.StartDate != nil {
		client.StartDate = dateOnly(*patch.StartDate)
	}
	if patch.Notes != nil {
		client.Notes = patch.Notes
	}
	if err := validateClient(*client); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateClient(ctx, *client); err != nil {
		return nil, mapRepoError(err)
	}
	return s.GetClient(ctx, id)
}

// DeleteClient also removes the client's contracts, installments and services.
func (s *LedgerService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.log.Info().Str("client_id", id.String()).Msg("client deleted")
	return nil
}

func validateClient(client model.Client) error {
	if client.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if client.MRR.IsNegative() {
		return fmt.Errorf("%w: mrr must not be negative", ErrInvalidInput)
	}
	if !client.Status.Valid() {
		return fmt.Errorf("%w: unknown client status %q", ErrInvalidInput, client.Status)
	}
	if day := client.BillingDayOfMonth; day != nil && (*day < 1 || *day > 28) {
		return fmt.Errorf("%w: billing day must be between 1 and 28", ErrInvalidInput)
	}
	return nil
}
