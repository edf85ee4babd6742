// Package memory keeps the finance ledger in process memory. It mirrors the
// postgres repository, including cascades and inclusive range queries.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
	"github.com/nurpe/agency-finance/internal/repository"
)

type Store struct {
	mu           sync.Mutex
	clients      map[uuid.UUID]model.Client
	contracts    map[uuid.UUID]model.SetupContract
	installments map[uuid.UUID]model.Installment
	services     map[uuid.UUID]model.Service
	expenses     map[uuid.UUID]model.Expense
	history      []model.ExpenseHistory
	settings     *model.CompanySettings
	now          func() time.Time
}

func New() *Store {
	return &Store{
		clients:      map[uuid.UUID]model.Client{},
		contracts:    map[uuid.UUID]model.SetupContract{},
		installments: map[uuid.UUID]model.Installment{},
		services:     map[uuid.UUID]model.Service{},
		expenses:     map[uuid.UUID]model.Expense{},
		now:          time.Now,
	}
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// Clients

func (s *Store) ListClients(_ context.Context) ([]model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetClient(_ context.Context, id uuid.UUID) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateClient(_ context.Context, client model.Client) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client.ID = uuid.New()
	client.CreatedAt = s.now()
	client.UpdatedAt = client.CreatedAt
	s.clients[client.ID] = client
	return &client, nil
}

func (s *Store) UpdateClient(_ context.Context, client model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.clients[client.ID]
	if !ok {
		return repository.ErrNotFound
	}
	client.CreatedAt = existing.CreatedAt
	client.UpdatedAt = s.now()
	s.clients[client.ID] = client
	return nil
}

func (s *Store) UpdateClientStatus(_ context.Context, id uuid.UUID, status model.ClientStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = s.now()
	s.clients[id] = c
	return nil
}

func (s *Store) DeleteClient(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.clients, id)
	for cid, contract := range s.contracts {
		if contract.ClientID == id {
			s.deleteContractLocked(cid)
		}
	}
	for sid, svc := range s.services {
		if svc.ClientID == id {
			delete(s.services, sid)
		}
	}
	return nil
}

// Setup contracts and installments

func (s *Store) ListSetupContracts(_ context.Context) ([]model.SetupContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contractsLocked(func(model.SetupContract) bool { return true }), nil
}

func (s *Store) ListSetupContractsByClient(_ context.Context, clientID uuid.UUID) ([]model.SetupContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contractsLocked(func(c model.SetupContract) bool { return c.ClientID == clientID }), nil
}

func (s *Store) contractsLocked(keep func(model.SetupContract) bool) []model.SetupContract {
	out := []model.SetupContract{}
	for _, c := range s.contracts {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) GetSetupContract(_ context.Context, id uuid.UUID) (*model.SetupContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateSetupContract(_ context.Context, contract model.SetupContract, installments []model.Installment) (*model.SetupContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contract.ID = uuid.New()
	contract.CreatedAt = s.now()
	contract.UpdatedAt = contract.CreatedAt
	s.contracts[contract.ID] = contract
	s.insertInstallmentsLocked(contract.ID, installments)
	return &contract, nil
}

func (s *Store) UpdateSetupContract(_ context.Context, contract model.SetupContract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.contracts[contract.ID]
	if !ok {
		return repository.ErrNotFound
	}
	contract.CreatedAt = existing.CreatedAt
	contract.UpdatedAt = s.now()
	s.contracts[contract.ID] = contract
	return nil
}

func (s *Store) DeleteSetupContract(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[id]; !ok {
		return repository.ErrNotFound
	}
	s.deleteContractLocked(id)
	return nil
}

func (s *Store) deleteContractLocked(id uuid.UUID) {
	delete(s.contracts, id)
	for iid, inst := range s.installments {
		if inst.ContractID == id {
			delete(s.installments, iid)
		}
	}
}

func (s *Store) insertInstallmentsLocked(contractID uuid.UUID, installments []model.Installment) {
	for _, inst := range installments {
		inst.ID = uuid.New()
		inst.ContractID = contractID
		inst.CreatedAt = s.now()
		inst.UpdatedAt = inst.CreatedAt
		s.installments[inst.ID] = inst
	}
}

func (s *Store) installmentsLocked(keep func(model.Installment) bool, byNumber bool) []model.Installment {
	out := []model.Installment{}
	for _, inst := range s.installments {
		if keep(inst) {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if byNumber {
			return out[i].InstallmentNumber < out[j].InstallmentNumber
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

func (s *Store) ListInstallmentsByContract(_ context.Context, contractID uuid.UUID) ([]model.Installment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installmentsLocked(func(i model.Installment) bool { return i.ContractID == contractID }, true), nil
}

func (s *Store) ListInstallmentsByDateRange(_ context.Context, from, to time.Time) ([]model.Installment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installmentsLocked(func(i model.Installment) bool { return within(i.DueDate, from, to) }, false), nil
}

func (s *Store) ListUnpaidInstallmentsDueBefore(_ context.Context, before time.Time) ([]model.Installment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installmentsLocked(func(i model.Installment) bool {
		return i.DueDate.Before(before) && i.Status != model.InstallmentStatusPaid
	}, false), nil
}

func (s *Store) GetInstallment(_ context.Context, id uuid.UUID) (*model.Installment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.installments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inst, nil
}

func (s *Store) UpdateInstallment(_ context.Context, installment model.Installment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.installments[installment.ID]
	if !ok {
		return repository.ErrNotFound
	}
	installment.ContractID = existing.ContractID
	installment.InstallmentNumber = existing.InstallmentNumber
	installment.CreatedAt = existing.CreatedAt
	installment.UpdatedAt = s.now()
	s.installments[installment.ID] = installment
	return nil
}

func (s *Store) ReplaceInstallments(_ context.Context, contractID uuid.UUID, installments []model.Installment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, inst := range s.installments {
		if inst.ContractID == contractID {
			delete(s.installments, id)
		}
	}
	s.insertInstallmentsLocked(contractID, installments)
	return nil
}

// Services

func (s *Store) servicesLocked(keep func(model.Service) bool, ascending bool) []model.Service {
	out := []model.Service{}
	for _, svc := range s.services {
		if keep(svc) {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if ascending {
			return out[i].ServiceDate.Before(out[j].ServiceDate)
		}
		return out[i].ServiceDate.After(out[j].ServiceDate)
	})
	return out
}

func (s *Store) ListServices(_ context.Context) ([]model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servicesLocked(func(model.Service) bool { return true }, false), nil
}

func (s *Store) ListServicesByClient(_ context.Context, clientID uuid.UUID) ([]model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servicesLocked(func(svc model.Service) bool { return svc.ClientID == clientID }, false), nil
}

func (s *Store) ListServicesByDateRange(_ context.Context, from, to time.Time) ([]model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servicesLocked(func(svc model.Service) bool { return within(svc.ServiceDate, from, to) }, true), nil
}

func (s *Store) GetService(_ context.Context, id uuid.UUID) (*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &svc, nil
}

func (s *Store) CreateService(_ context.Context, service model.Service) (*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	service.ID = uuid.New()
	service.CreatedAt = s.now()
	service.UpdatedAt = service.CreatedAt
	s.services[service.ID] = service
	return &service, nil
}

func (s *Store) UpdateService(_ context.Context, service model.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.services[service.ID]
	if !ok {
		return repository.ErrNotFound
	}
	service.ClientID = existing.ClientID
	service.CreatedAt = existing.CreatedAt
	service.UpdatedAt = s.now()
	s.services[service.ID] = service
	return nil
}

func (s *Store) DeleteService(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.services, id)
	return nil
}

// Expenses and history

func (s *Store) expensesLocked(keep func(model.Expense) bool, ascending bool) []model.Expense {
	out := []model.Expense{}
	for _, e := range s.expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	date := func(e model.Expense) time.Time {
		if e.ExpenseDate == nil {
			return time.Time{}
		}
		return *e.ExpenseDate
	}
	sort.Slice(out, func(i, j int) bool {
		if ascending {
			return date(out[i]).Before(date(out[j]))
		}
		return date(out[i]).After(date(out[j]))
	})
	return out
}

func (s *Store) ListExpenses(_ context.Context) ([]model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expensesLocked(func(model.Expense) bool { return true }, false), nil
}

func (s *Store) ListExpensesByCategory(_ context.Context, category model.ExpenseCategory) ([]model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expensesLocked(func(e model.Expense) bool { return e.Category == category }, false), nil
}

func (s *Store) ListExpensesByDateRange(_ context.Context, from, to time.Time) ([]model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expensesLocked(func(e model.Expense) bool {
		return e.ExpenseDate != nil && within(*e.ExpenseDate, from, to)
	}, true), nil
}

func (s *Store) GetExpense(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (s *Store) CreateExpense(_ context.Context, expense model.Expense) (*model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expense.ID = uuid.New()
	expense.CreatedAt = s.now()
	expense.UpdatedAt = expense.CreatedAt
	s.expenses[expense.ID] = expense
	return &expense, nil
}

func (s *Store) UpdateExpense(_ context.Context, expense model.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.expenses[expense.ID]
	if !ok {
		return repository.ErrNotFound
	}
	expense.CreatedAt = existing.CreatedAt
	expense.UpdatedAt = s.now()
	s.expenses[expense.ID] = expense
	return nil
}

func (s *Store) ArchiveExpense(_ context.Context, id uuid.UUID, history []model.ExpenseHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return repository.ErrNotFound
	}
	s.appendHistoryLocked(history)
	delete(s.expenses, id)
	return nil
}

func (s *Store) appendHistoryLocked(history []model.ExpenseHistory) {
	for _, row := range history {
		row.ID = uuid.New()
		row.CreatedAt = s.now()
		s.history = append(s.history, row)
	}
}

func (s *Store) ListExpenseHistoryByDateRange(_ context.Context, from, to time.Time) ([]model.ExpenseHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.ExpenseHistory{}
	for _, row := range s.history {
		if within(row.Month, from, to) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

// Settings

func (s *Store) GetCompanySettings(_ context.Context) (*model.CompanySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, nil
	}
	row := *s.settings
	return &row, nil
}

func (s *Store) UpsertCompanySettings(_ context.Context, taxRate decimal.Decimal) (*model.CompanySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if s.settings == nil {
		s.settings = &model.CompanySettings{ID: uuid.New(), CreatedAt: now}
	}
	s.settings.TaxRate = taxRate
	s.settings.UpdatedAt = now
	row := *s.settings
	return &row, nil
}
