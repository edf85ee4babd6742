package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nurpe/agency-finance/internal/model"
	"github.com/nurpe/agency-finance/internal/repository/memory"
)

var westOfUTC = time.FixedZone("UTC-3", -3*60*60)

func westEnv(now time.Time) Env {
	env := testEnv()
	env.Location = westOfUTC
	env.Now = func() time.Time { return now }
	return env
}

func TestMonthTotalsOutsideUTC(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWithEnv(memory.New(), westEnv(testNow))
	acme := f.client(t, "Acme", "0", model.ClientStatusActive)

	// Dates arrive both as UTC midnight and as local midnight.
	f.contract(t, acme.ID, "900", 3, day(2025, time.March, 1))
	f.contract(t, acme.ID, "600", 1, time.Date(2025, time.March, 1, 0, 0, 0, 0, westOfUTC))
	f.service(t, acme.ID, "50", time.Date(2025, time.March, 1, 0, 0, 0, 0, westOfUTC), model.ServiceStatusCompleted)
	cost := f.expense(t, ExpenseInput{Amount: dec("100"), Type: model.ExpenseTypeCost, ExpenseDate: ptr(day(2025, time.March, 1))})
	if _, err := f.ledger.DeleteExpense(ctx, admin, cost.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}

	march, err := f.metrics.Monthly(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("Monthly(March): %v", err)
	}
	assertDecimal(t, "march setup", march.SetupRevenue, "900")
	assertDecimal(t, "march services", march.ServicesRevenue, "50")

	february, err := f.metrics.Monthly(ctx, 2025, 2)
	if err != nil {
		t.Fatalf("Monthly(February): %v", err)
	}
	assertDecimal(t, "february setup", february.SetupRevenue, "0")

	dre, err := f.dre.MonthlyIncomeStatement(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("MonthlyIncomeStatement: %v", err)
	}
	assertDecimal(t, "DRE setup", dre.Setup, "1500")
	assertDecimal(t, "DRE services", dre.Services, "50")
	assertDecimal(t, "DRE costs", dre.Costs, "100")

	history, _ := f.repo.ListExpenseHistoryByDateRange(ctx, day(2025, time.March, 1), day(2025, time.March, 31))
	if len(history) != 1 || !history[0].Month.Equal(day(2025, time.March, 1)) {
		t.Fatalf("history = %+v", history)
	}
}

func TestTodayFollowsLocation(t *testing.T) {
	// 01:00 UTC on April 1st is 22:00 on March 31st at UTC-3.
	env := westEnv(time.Date(2025, time.April, 1, 1, 0, 0, 0, time.UTC))

	if got := env.today(); !got.Equal(day(2025, time.March, 31)) {
		t.Errorf("today = %s, want 2025-03-31", got)
	}
	if year, month := env.YearMonth(); year != 2025 || month != 3 {
		t.Errorf("YearMonth = %d-%02d, want 2025-03", year, month)
	}

	f := newFixtureWithEnv(memory.New(), env)
	if _, err := f.ledger.CreateClient(context.Background(), ClientInput{
		Name:              "Acme",
		MRR:               dec("100"),
		BillingDayOfMonth: ptr(28),
	}); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	overdue, err := f.billing.OverdueCharges(context.Background())
	if err != nil {
		t.Fatalf("OverdueCharges: %v", err)
	}
	if len(overdue) != 1 || overdue[0].DaysOverdue != 3 || !overdue[0].DueDate.Equal(day(2025, time.March, 28)) {
		t.Fatalf("overdue = %+v", overdue)
	}
}

func TestReportsSurvivePartialReconcile(t *testing.T) {
	ctx := context.Background()
	repo := &faultyRepo{Repository: memory.New()}
	f := newFixture(repo)

	broken := f.client(t, "Broken", "100", model.ClientStatusActive)
	late := f.client(t, "Late", "200", model.ClientStatusActive)
	f.contract(t, broken.ID, "100", 1, day(2025, time.January, 5))
	f.contract(t, late.ID, "100", 1, day(2025, time.January, 5))
	repo.statusFailID = broken.ID

	metrics, err := f.metrics.Monthly(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	// The client whose status write failed is still active.
	if metrics.ActiveClientsCount != 1 {
		t.Errorf("ActiveClientsCount = %d, want 1", metrics.ActiveClientsCount)
	}
	assertDecimal(t, "TotalMRR", metrics.TotalMRR, "100")

	dre, err := f.dre.MonthlyIncomeStatement(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("MonthlyIncomeStatement: %v", err)
	}
	assertDecimal(t, "DRE MRR", dre.MRR, "100")

	if _, err := f.reconciler.Reconcile(ctx); !errors.Is(err, errInjected) {
		t.Fatalf("Reconcile err = %v, want injected failure", err)
	}
}
