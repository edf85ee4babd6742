package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
)

// Repository is the ledger store consumed by every service. Range queries
// are inclusive on both ends.
type Repository interface {
	ListClients(ctx context.Context) ([]model.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error)
	CreateClient(ctx context.Context, client model.Client) (*model.Client, error)
	UpdateClient(ctx context.Context, client model.Client) error
	UpdateClientStatus(ctx context.Context, id uuid.UUID, status model.ClientStatus) error
	DeleteClient(ctx context.Context, id uuid.UUID) error

	ListSetupContracts(ctx context.Context) ([]model.SetupContract, error)
	ListSetupContractsByClient(ctx context.Context, clientID uuid.UUID) ([]model.SetupContract, error)
	GetSetupContract(ctx context.Context, id uuid.UUID) (*model.SetupContract, error)
	CreateSetupContract(ctx context.Context, contract model.SetupContract, installments []model.Installment) (*model.SetupContract, error)
	UpdateSetupContract(ctx context.Context, contract model.SetupContract) error
	DeleteSetupContract(ctx context.Context, id uuid.UUID) error

	ListInstallmentsByContract(ctx context.Context, contractID uuid.UUID) ([]model.Installment, error)
	ListInstallmentsByDateRange(ctx context.Context, from, to time.Time) ([]model.Installment, error)
	ListUnpaidInstallmentsDueBefore(ctx context.Context, before time.Time) ([]model.Installment, error)
	GetInstallment(ctx context.Context, id uuid.UUID) (*model.Installment, error)
	UpdateInstallment(ctx context.Context, installment model.Installment) error
	ReplaceInstallments(ctx context.Context, contractID uuid.UUID, installments []model.Installment) error

	ListServices(ctx context.Context) ([]model.Service, error)
	ListServicesByClient(ctx context.Context, clientID uuid.UUID) ([]model.Service, error)
	ListServicesByDateRange(ctx context.Context, from, to time.Time) ([]model.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*model.Service, error)
	CreateService(ctx context.Context, service model.Service) (*model.Service, error)
	UpdateService(ctx context.Context, service model.Service) error
	DeleteService(ctx context.Context, id uuid.UUID) error

	ListExpenses(ctx context.Context) ([]model.Expense, error)
	ListExpensesByCategory(ctx context.Context, category model.ExpenseCategory) ([]model.Expense, error)
	ListExpensesByDateRange(ctx context.Context, from, to time.Time) ([]model.Expense, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	CreateExpense(ctx context.Context, expense model.Expense) (*model.Expense, error)
	UpdateExpense(ctx context.Context, expense model.Expense) error
	ArchiveExpense(ctx context.Context, id uuid.UUID, history []model.ExpenseHistory) error

	ListExpenseHistoryByDateRange(ctx context.Context, from, to time.Time) ([]model.ExpenseHistory, error)

	GetCompanySettings(ctx context.Context) (*model.CompanySettings, error)
	UpsertCompanySettings(ctx context.Context, taxRate decimal.Decimal) (*model.CompanySettings, error)
}
