package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
	"github.com/nurpe/agency-finance/internal/repository"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestDeleteClientCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	client, _ := s.CreateClient(ctx, model.Client{Name: "Acme"})
	other, _ := s.CreateClient(ctx, model.Client{Name: "Other"})
	contract, _ := s.CreateSetupContract(ctx, model.SetupContract{ClientID: client.ID}, []model.Installment{
		{InstallmentNumber: 1, DueDate: day(2025, time.March, 1)},
		{InstallmentNumber: 2, DueDate: day(2025, time.April, 1)},
	})
	kept, _ := s.CreateSetupContract(ctx, model.SetupContract{ClientID: other.ID}, []model.Installment{
		{InstallmentNumber: 1, DueDate: day(2025, time.March, 1)},
	})
	_, _ = s.CreateService(ctx, model.Service{ClientID: client.ID, ServiceDate: day(2025, time.March, 2)})

	if err := s.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if _, err := s.GetSetupContract(ctx, contract.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("contract err = %v", err)
	}
	if left, _ := s.ListInstallmentsByContract(ctx, contract.ID); len(left) != 0 {
		t.Errorf("installments left = %d", len(left))
	}
	if left, _ := s.ListServicesByClient(ctx, client.ID); len(left) != 0 {
		t.Errorf("services left = %d", len(left))
	}
	if left, _ := s.ListInstallmentsByContract(ctx, kept.ID); len(left) != 1 {
		t.Errorf("other client's installments = %d, want 1", len(left))
	}
	if err := s.DeleteClient(ctx, client.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestRangeQueriesAreInclusive(t *testing.T) {
	ctx := context.Background()
	s := New()
	contract, _ := s.CreateSetupContract(ctx, model.SetupContract{ClientID: uuid.New()}, []model.Installment{
		{InstallmentNumber: 1, DueDate: day(2025, time.February, 28)},
		{InstallmentNumber: 2, DueDate: day(2025, time.March, 1)},
		{InstallmentNumber: 3, DueDate: day(2025, time.March, 31)},
		{InstallmentNumber: 4, DueDate: day(2025, time.April, 1)},
	})
	got, _ := s.ListInstallmentsByDateRange(ctx, day(2025, time.March, 1), day(2025, time.March, 31))
	if len(got) != 2 || got[0].InstallmentNumber != 2 || got[1].InstallmentNumber != 3 {
		t.Fatalf("installments = %+v", got)
	}

	unpaid, _ := s.ListUnpaidInstallmentsDueBefore(ctx, day(2025, time.March, 1))
	if len(unpaid) != 1 || unpaid[0].ContractID != contract.ID {
		t.Fatalf("unpaid = %+v", unpaid)
	}

	dated := day(2025, time.March, 31)
	_, _ = s.CreateExpense(ctx, model.Expense{ExpenseDate: &dated})
	_, _ = s.CreateExpense(ctx, model.Expense{})
	expenses, _ := s.ListExpensesByDateRange(ctx, day(2025, time.March, 1), day(2025, time.March, 31))
	if len(expenses) != 1 {
		t.Fatalf("expenses = %d, want 1", len(expenses))
	}
}

func TestArchiveExpense(t *testing.T) {
	ctx := context.Background()
	s := New()
	expense, _ := s.CreateExpense(ctx, model.Expense{Amount: decimal.NewFromInt(10)})

	history := []model.ExpenseHistory{
		{ExpenseID: &expense.ID, Month: day(2025, time.February, 1)},
		{ExpenseID: &expense.ID, Month: day(2025, time.January, 1)},
	}
	if err := s.ArchiveExpense(ctx, uuid.New(), history); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing expense err = %v", err)
	}
	if rows, _ := s.ListExpenseHistoryByDateRange(ctx, day(2000, time.January, 1), day(2100, time.January, 1)); len(rows) != 0 {
		t.Fatalf("history written for missing expense: %d", len(rows))
	}

	if err := s.ArchiveExpense(ctx, expense.ID, history); err != nil {
		t.Fatalf("ArchiveExpense: %v", err)
	}
	if _, err := s.GetExpense(ctx, expense.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expense survived: %v", err)
	}
	rows, _ := s.ListExpenseHistoryByDateRange(ctx, day(2025, time.January, 1), day(2025, time.February, 1))
	if len(rows) != 2 || !rows[0].Month.Equal(day(2025, time.January, 1)) {
		t.Fatalf("history = %+v", rows)
	}
}

func TestUpsertCompanySettingsKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	s := New()
	if settings, err := s.GetCompanySettings(ctx); err != nil || settings != nil {
		t.Fatalf("empty settings = %+v, %v", settings, err)
	}
	first, _ := s.UpsertCompanySettings(ctx, decimal.NewFromInt(11))
	second, _ := s.UpsertCompanySettings(ctx, decimal.NewFromInt(12))
	if first.ID != second.ID || !second.TaxRate.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("first = %+v, second = %+v", first, second)
	}
}
