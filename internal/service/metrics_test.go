package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/agency-finance/internal/model"
)

// seedLedger builds a March 2025 ledger that is not overdue at testNow.
func seedLedger(t *testing.T, f *fixture) model.Client {
	t.Helper()
	acme := f.client(t, "Acme", "1000", model.ClientStatusActive)
	paused := f.client(t, "Paused", "500", model.ClientStatusPaused)

	f.contract(t, acme.ID, "1200", 3, day(2025, time.March, 20))
	f.service(t, acme.ID, "300", day(2025, time.March, 12), model.ServiceStatusCompleted)
	f.service(t, acme.ID, "200", day(2025, time.March, 15), model.ServiceStatusPending)
	f.service(t, paused.ID, "700", day(2025, time.April, 1), model.ServiceStatusCompleted)

	f.expense(t, ExpenseInput{Amount: dec("100"), Type: model.ExpenseTypeCost, ExpenseDate: ptr(day(2025, time.March, 3))})
	f.expense(t, ExpenseInput{Amount: dec("250"), Type: model.ExpenseTypeExpense, ExpenseDate: ptr(day(2025, time.March, 20))})
	f.expense(t, ExpenseInput{Amount: dec("999"), Type: model.ExpenseTypeExpense, ExpenseDate: ptr(day(2025, time.February, 1))})
	return acme
}

func TestMonthlyMetrics(t *testing.T) {
	f := newMemoryFixture()
	seedLedger(t, f)

	metrics, err := f.metrics.Monthly(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	assertDecimal(t, "TotalMRR", metrics.TotalMRR, "1000")
	assertDecimal(t, "SetupRevenue", metrics.SetupRevenue, "400")
	assertDecimal(t, "ServicesRevenue", metrics.ServicesRevenue, "300")
	assertDecimal(t, "TotalRevenue", metrics.TotalRevenue, "1700")
	assertDecimal(t, "TotalCosts", metrics.TotalCosts, "100")
	assertDecimal(t, "TotalExpenses", metrics.TotalExpenses, "250")
	assertDecimal(t, "Profit", metrics.Profit, "1350")
	assertDecimal(t, "ProfitMargin", metrics.ProfitMargin, "79.41")
	if metrics.ActiveClientsCount != 1 {
		t.Errorf("ActiveClientsCount = %d, want 1", metrics.ActiveClientsCount)
	}
	if !metrics.PeriodStart.Equal(day(2025, time.March, 1)) {
		t.Errorf("PeriodStart = %s", metrics.PeriodStart)
	}
	if want := day(2025, time.April, 1).Add(-time.Nanosecond); !metrics.PeriodEnd.Equal(want) {
		t.Errorf("PeriodEnd = %s, want %s", metrics.PeriodEnd, want)
	}
}

func TestAggregateProfitIdentity(t *testing.T) {
	f := newMemoryFixture()
	seedLedger(t, f)

	periods := []model.DateRange{
		{Start: day(2025, time.January, 1), End: day(2025, time.December, 31)},
		{Start: day(2025, time.February, 1), End: day(2025, time.February, 28)},
		{Start: day(2025, time.March, 20), End: day(2025, time.March, 20)},
		{Start: day(2030, time.January, 1), End: day(2030, time.January, 31)},
	}
	for _, period := range periods {
		m, err := f.metrics.Aggregate(context.Background(), period)
		if err != nil {
			t.Fatalf("Aggregate(%v): %v", period, err)
		}
		if !m.Profit.Equal(m.TotalRevenue.Sub(m.TotalCosts.Add(m.TotalExpenses))) {
			t.Errorf("%v: profit %s does not match revenue minus outflows", period, m.Profit)
		}
		wantMargin := dec("0")
		if m.TotalRevenue.IsPositive() {
			wantMargin = m.Profit.Div(m.TotalRevenue).Mul(dec("100"))
		}
		if m.ProfitMargin.Sub(wantMargin).Abs().GreaterThan(dec("0.01")) {
			t.Errorf("%v: margin %s, want %s", period, m.ProfitMargin, wantMargin)
		}
	}
}

func TestAggregateEmptyLedger(t *testing.T) {
	f := newMemoryFixture()
	m, err := f.metrics.Monthly(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	assertDecimal(t, "TotalRevenue", m.TotalRevenue, "0")
	assertDecimal(t, "Profit", m.Profit, "0")
	assertDecimal(t, "ProfitMargin", m.ProfitMargin, "0")
}

func TestAggregateRejectsBadPeriods(t *testing.T) {
	f := newMemoryFixture()
	ctx := context.Background()

	if _, err := f.metrics.Aggregate(ctx, model.DateRange{Start: day(2025, time.April, 1), End: day(2025, time.March, 1)}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("inverted range err = %v", err)
	}
	if _, err := f.metrics.Aggregate(ctx, model.DateRange{End: day(2025, time.March, 1)}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing start err = %v", err)
	}
	for _, ym := range [][2]int{{2025, 0}, {2025, 13}, {1999, 5}, {2101, 1}} {
		if _, err := f.metrics.Monthly(ctx, ym[0], ym[1]); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Monthly(%d, %d) err = %v", ym[0], ym[1], err)
		}
	}
}

func TestAggregateReconcilesFirst(t *testing.T) {
	f := newMemoryFixture()
	late := f.client(t, "Late", "800", model.ClientStatusActive)
	f.contract(t, late.ID, "100", 1, day(2025, time.January, 10))

	m, err := f.metrics.Monthly(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if m.ActiveClientsCount != 0 {
		t.Errorf("ActiveClientsCount = %d, want 0", m.ActiveClientsCount)
	}
	assertDecimal(t, "TotalMRR", m.TotalMRR, "0")
}

func TestFutureProjectionAndBreakdown(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture()
	acme := seedLedger(t, f)
	soon := f.contract(t, acme.ID, "500", 1, day(2025, time.March, 15))

	projection, err := f.metrics.FutureProjection(ctx)
	if err != nil {
		t.Fatalf("FutureProjection: %v", err)
	}
	assertDecimal(t, "TotalPending", projection.TotalPending, "1700")
	assertDecimal(t, "2025-03", projection.ByMonth["2025-03"], "900")
	assertDecimal(t, "2025-05", projection.ByMonth["2025-05"], "400")

	breakdown, err := f.metrics.SetupPendingBreakdown(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("SetupPendingBreakdown: %v", err)
	}
	assertDecimal(t, "ThisMonth", breakdown.ThisMonth, "900")
	assertDecimal(t, "Next3Months", breakdown.Next3Months, "800")
	assertDecimal(t, "TotalFuture", breakdown.TotalFuture, "1700")

	alerts, err := f.metrics.Alerts(ctx)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Count != 1 {
		t.Fatalf("alerts = %+v", alerts)
	}
	assertDecimal(t, "alert amount", alerts[0].Amount, "500")

	paid := f.installments(t, soon.ID)[0]
	if _, err := f.ledger.MarkInstallmentPaid(ctx, paid.ID, testNow); err != nil {
		t.Fatalf("MarkInstallmentPaid: %v", err)
	}
	alerts, err = f.metrics.Alerts(ctx)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("alerts after payment = %+v", alerts)
	}
}

func TestCashFlowAndRevenueHistory(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture()
	seedLedger(t, f)

	flow, err := f.metrics.CashFlowProjection(ctx)
	if err != nil {
		t.Fatalf("CashFlowProjection: %v", err)
	}
	if len(flow) != 3 || flow[0].Month != "2025-03" || flow[2].Month != "2025-05" {
		t.Fatalf("flow months = %+v", flow)
	}
	assertDecimal(t, "march entries", flow[0].Entries, "1400")
	assertDecimal(t, "march exits", flow[0].Exits, "350")
	assertDecimal(t, "march balance", flow[0].Balance, "1050")

	history, err := f.metrics.RevenueHistory(ctx)
	if err != nil {
		t.Fatalf("RevenueHistory: %v", err)
	}
	if len(history) != 6 || history[0].Month != "2024-10" || history[5].Month != "2025-03" {
		t.Fatalf("history months = %+v", history)
	}
	assertDecimal(t, "march services", history[5].Services, "300")
	assertDecimal(t, "march setup", history[5].Setup, "0")
	assertDecimal(t, "march revenue", history[5].Revenue, "1300")
}

func TestClientDetails(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture()
	acme := seedLedger(t, f)

	details, err := f.metrics.ClientDetails(ctx, acme.ID)
	if err != nil {
		t.Fatalf("ClientDetails: %v", err)
	}
	if len(details.Contracts) != 1 || len(details.Installments) != 3 || len(details.Services) != 2 {
		t.Fatalf("details = %d contracts, %d installments, %d services",
			len(details.Contracts), len(details.Installments), len(details.Services))
	}
	assertDecimal(t, "TotalPendingSetup", details.Summary.TotalPendingSetup, "1200")
	assertDecimal(t, "TotalServices", details.Summary.TotalServices, "300")
	assertDecimal(t, "TotalRevenue", details.Summary.TotalRevenue, "1300")

	if _, err := f.metrics.ClientDetails(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing client err = %v, want ErrNotFound", err)
	}
}
