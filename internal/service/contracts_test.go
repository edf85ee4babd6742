package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/agency-finance/internal/model"
	"github.com/nurpe/agency-finance/internal/repository/memory"
)

func TestCreateSetupContractBuildsSchedule(t *testing.T) {
	f := newMemoryFixture()
	client := f.client(t, "Acme", "0", model.ClientStatusActive)
	contract := f.contract(t, client.ID, "1000", 3, day(2025, time.April, 1))

	assertDecimal(t, "InstallmentAmount", contract.InstallmentAmount, "333.33")
	if contract.Status != model.ContractStatusActive {
		t.Errorf("status = %s, want active", contract.Status)
	}
	installments := f.installments(t, contract.ID)
	if len(installments) != 3 {
		t.Fatalf("installments = %d, want 3", len(installments))
	}
	for i, inst := range installments {
		if inst.InstallmentNumber != i+1 || inst.ContractID != contract.ID {
			t.Errorf("installment %d = %+v", i, inst)
		}
	}
}

func TestCreateSetupContractValidation(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture()
	client := f.client(t, "Acme", "0", model.ClientStatusActive)

	tests := []struct {
		name  string
		input ContractInput
		want  error
	}{
		{"unknown client", ContractInput{ClientID: uuid.New(), TotalAmount: dec("10"), Installments: 1, StartDate: testNow}, ErrNotFound},
		{"zero installments", ContractInput{ClientID: client.ID, TotalAmount: dec("10"), StartDate: testNow}, ErrInvalidInput},
		{"zero total", ContractInput{ClientID: client.ID, Installments: 2, StartDate: testNow}, ErrInvalidInput},
		{"missing start", ContractInput{ClientID: client.ID, TotalAmount: dec("10"), Installments: 2}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.ledger.CreateSetupContract(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMarkInstallmentPaidAndPending(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture()
	client := f.client(t, "Acme", "0", model.ClientStatusActive)
	contract := f.contract(t, client.ID, "100", 1, day(2025, time.April, 1))
	inst := f.installments(t, contract.ID)[0]

	if _, err := f.ledger.MarkInstallmentPaid(ctx, inst.ID, time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero paid date err = %v", err)
	}
	paid, err := f.ledger.MarkInstallmentPaid(ctx, inst.ID, testNow)
	if err != nil {
		t.Fatalf("MarkInstallmentPaid: %v", err)
	}
	if paid.Status != model.InstallmentStatusPaid || paid.PaidDate == nil {
		t.Fatalf("paid = %+v", paid)
	}
	pending, err := f.ledger.MarkInstallmentPending(ctx, inst.ID)
	if err != nil {
		t.Fatalf("MarkInstallmentPending: %v", err)
	}
	if pending.Status != model.InstallmentStatusPending || pending.PaidDate != nil {
		t.Fatalf("pending = %+v", pending)
	}
	if _, err := f.ledger.MarkInstallmentPending(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing installment err = %v", err)
	}
}

func TestRegenerateAllIsStableInRowCount(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture()
	client := f.client(t, "Acme", "0", model.ClientStatusActive)
	first := f.contract(t, client.ID, "900", 3, day(2025, time.April, 1))
	second := f.contract(t, client.ID, "400", 4, day(2025, time.May, 1))

	inst := f.installments(t, first.ID)[0]
	if _, err := f.ledger.MarkInstallmentPaid(ctx, inst.ID, testNow); err != nil {
		t.Fatalf("MarkInstallmentPaid: %v", err)
	}

	for run := 1; run <= 2; run++ {
		result, err := f.ledger.RegenerateAll(ctx, admin)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if result.Contracts != 2 || result.Installments != 7 {
			t.Fatalf("run %d result = %+v", run, result)
		}
		total := len(f.installments(t, first.ID)) + len(f.installments(t, second.ID))
		if total != 7 {
			t.Fatalf("run %d left %d installments, want 7", run, total)
		}
	}

	for _, inst := range f.installments(t, first.ID) {
		if inst.Status != model.InstallmentStatusPending {
			t.Errorf("installment %d kept status %s", inst.InstallmentNumber, inst.Status)
		}
	}
}

func TestRegenerateAllRequiresAdmin(t *testing.T) {
	f := newMemoryFixture()
	if _, err := f.ledger.RegenerateAll(context.Background(), member); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestRegenerateAllStopsOnFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := &faultyRepo{Repository: store}
	f := newFixture(repo)
	client := f.client(t, "Acme", "0", model.ClientStatusActive)
	contract := f.contract(t, client.ID, "300", 3, day(2025, time.April, 1))
	inst := f.installments(t, contract.ID)[0]
	if _, err := f.ledger.MarkInstallmentPaid(ctx, inst.ID, testNow); err != nil {
		t.Fatalf("MarkInstallmentPaid: %v", err)
	}

	repo.replaceErr = errInjected
	result, err := f.ledger.RegenerateAll(ctx, admin)
	if !errors.Is(err, errInjected) {
		t.Fatalf("err = %v, want injected failure", err)
	}
	if result.Contracts != 0 {
		t.Fatalf("result = %+v", result)
	}
	if got := f.installments(t, contract.ID)[0]; got.Status != model.InstallmentStatusPaid {
		t.Fatalf("failed run touched installments: %+v", got)
	}
}

func TestUpdateSetupContractKeepsInstallments(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture()
	client := f.client(t, "Acme", "0", model.ClientStatusActive)
	contract := f.contract(t, client.ID, "300", 3, day(2025, time.April, 1))

	updated, err := f.ledger.UpdateSetupContract(ctx, contract.ID, ContractPatch{TotalAmount: ptr(dec("1000")), Installments: ptr(4)})
	if err != nil {
		t.Fatalf("UpdateSetupContract: %v", err)
	}
	assertDecimal(t, "InstallmentAmount", updated.InstallmentAmount, "250")
	if n := len(f.installments(t, contract.ID)); n != 3 {
		t.Fatalf("installments = %d, want 3", n)
	}
}

func TestDeleteClientCascades(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture()
	client := f.client(t, "Acme", "0", model.ClientStatusActive)
	contract := f.contract(t, client.ID, "300", 3, day(2025, time.April, 1))
	f.service(t, client.ID, "50", day(2025, time.March, 1), model.ServiceStatusCompleted)

	if err := f.ledger.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if _, err := f.ledger.GetSetupContract(ctx, contract.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("contract survived: %v", err)
	}
	services, _ := f.ledger.ListServices(ctx)
	if len(services) != 0 {
		t.Errorf("services survived: %d", len(services))
	}
	remaining, _ := f.repo.ListInstallmentsByDateRange(ctx, day(2000, time.January, 1), day(2100, time.January, 1))
	if len(remaining) != 0 {
		t.Errorf("installments survived: %d", len(remaining))
	}
}

func TestClientValidation(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture()
	tests := []ClientInput{
		{Name: "", MRR: dec("1")},
		{Name: "Neg", MRR: dec("-1")},
		{Name: "Day", MRR: dec("1"), BillingDayOfMonth: ptr(29)},
		{Name: "Status", MRR: dec("1"), Status: "gone"},
	}
	for _, input := range tests {
		if _, err := f.ledger.CreateClient(ctx, input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("CreateClient(%+v) err = %v", input, err)
		}
	}

	client, err := f.ledger.CreateClient(ctx, ClientInput{Name: " Acme ", MRR: dec("10")})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if client.Name != "Acme" || client.Status != model.ClientStatusActive || !client.StartDate.Equal(day(2025, time.March, 10)) {
		t.Fatalf("defaults not applied: %+v", client)
	}
}
