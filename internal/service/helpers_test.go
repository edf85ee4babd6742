package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
	"github.com/nurpe/agency-finance/internal/repository"
	"github.com/nurpe/agency-finance/internal/repository/memory"
)

var (
	_ Repository = (*memory.Store)(nil)
	_ Repository = (*repository.LedgerRepository)(nil)
)

// testNow is Monday 2025-03-10 12:00 UTC.
var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

var errInjected = errors.New("injected failure")

var (
	admin  = model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	member = model.Principal{UserID: uuid.New(), Role: model.RoleUser}
)

func testEnv() Env {
	return Env{
		Location:        time.UTC,
		DefaultTaxRate:  decimal.NewFromInt(11),
		AlertWindowDays: 7,
		Now:             func() time.Time { return testNow },
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got.String(), want)
	}
}

// faultyRepo wraps a repository and fails selected writes.
type faultyRepo struct {
	Repository
	archiveErr   error
	replaceErr   error
	statusFailID uuid.UUID
}

func (r *faultyRepo) ArchiveExpense(ctx context.Context, id uuid.UUID, history []model.ExpenseHistory) error {
	if r.archiveErr != nil {
		return r.archiveErr
	}
	return r.Repository.ArchiveExpense(ctx, id, history)
}

func (r *faultyRepo) ReplaceInstallments(ctx context.Context, contractID uuid.UUID, installments []model.Installment) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	return r.Repository.ReplaceInstallments(ctx, contractID, installments)
}

func (r *faultyRepo) UpdateClientStatus(ctx context.Context, id uuid.UUID, status model.ClientStatus) error {
	if id == r.statusFailID {
		return errInjected
	}
	return r.Repository.UpdateClientStatus(ctx, id, status)
}

type fixture struct {
	store      *memory.Store
	repo       Repository
	env        Env
	ledger     *LedgerService
	reconciler *StatusReconciler
	metrics    *MetricsService
	dre        *DREService
	billing    *BillingService
}

func newFixture(repo Repository) *fixture {
	return newFixtureWithEnv(repo, testEnv())
}

func newFixtureWithEnv(repo Repository, env Env) *fixture {
	store, _ := repo.(*memory.Store)
	log := zerolog.Nop()
	reconciler := NewStatusReconciler(repo, env, log)
	return &fixture{
		store:      store,
		repo:       repo,
		env:        env,
		ledger:     NewLedgerService(repo, env, log),
		reconciler: reconciler,
		metrics:    NewMetricsService(repo, reconciler, env, log),
		dre:        NewDREService(repo, reconciler, env, log),
		billing:    NewBillingService(repo, env, log),
	}
}

func newMemoryFixture() *fixture {
	return newFixture(memory.New())
}

func (f *fixture) client(t *testing.T, name string, mrr string, status model.ClientStatus) model.Client {
	t.Helper()
	client, err := f.ledger.CreateClient(context.Background(), ClientInput{
		Name:      name,
		MRR:       dec(mrr),
		Status:    status,
		StartDate: day(2024, time.January, 1),
	})
	if err != nil {
		t.Fatalf("create client %s: %v", name, err)
	}
	return *client
}

func (f *fixture) contract(t *testing.T, clientID uuid.UUID, total string, count int, start time.Time) model.SetupContract {
	t.Helper()
	contract, err := f.ledger.CreateSetupContract(context.Background(), ContractInput{
		ClientID:     clientID,
		TotalAmount:  dec(total),
		Installments: count,
		StartDate:    start,
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	return *contract
}

func (f *fixture) service(t *testing.T, clientID uuid.UUID, amount string, date time.Time, status model.ServiceStatus) {
	t.Helper()
	_, err := f.ledger.CreateService(context.Background(), ServiceInput{
		ClientID:    clientID,
		Description: "service",
		Amount:      dec(amount),
		ServiceDate: date,
		Status:      status,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
}

func (f *fixture) expense(t *testing.T, input ExpenseInput) model.Expense {
	t.Helper()
	if input.Description == "" {
		input.Description = "expense"
	}
	if input.Category == "" {
		input.Category = model.ExpenseCategorySoftware
	}
	expense, err := f.ledger.CreateExpense(context.Background(), input)
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	return *expense
}

func (f *fixture) installments(t *testing.T, contractID uuid.UUID) []model.Installment {
	t.Helper()
	installments, err := f.ledger.ListInstallments(context.Background(), contractID)
	if err != nil {
		t.Fatalf("list installments: %v", err)
	}
	return installments
}
