package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/agency-finance/internal/model"
)

const (
	cashFlowMonths       = 3
	revenueHistoryMonths = 6
	projectionYears      = 2
)

// FutureProjection sums pending installments due from now through the end of
// the year two years ahead.
func (s *MetricsService) FutureProjection(ctx context.Context) (*model.FutureProjection, error) {
	now := s.env.now()
	until := time.Date(now.Year()+projectionYears, time.December, 31, 23, 59, 59, 0, time.UTC)

	installments, err := s.repo.ListInstallmentsByDateRange(ctx, now, until)
	if err != nil {
		return nil, mapRepoError(err)
	}

	projection := &model.FutureProjection{
		TotalPending: decimal.Zero,
		ByMonth:      map[string]decimal.Decimal{},
	}
	for _, inst := range installments {
		if !isPending(inst) {
			continue
		}
		key := monthKey(inst.DueDate)
		projection.ByMonth[key] = projection.ByMonth[key].Add(inst.Amount)
		projection.TotalPending = projection.TotalPending.Add(inst.Amount)
	}
	return projection, nil
}

// ExpensesByCategory sums live expenses dated in the month per category.
func (s *MetricsService) ExpensesByCategory(ctx context.Context, year, month int) (map[model.ExpenseCategory]decimal.Decimal, error) {
	start, end, err := s.env.monthRange(year, month)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ListExpensesByDateRange(ctx, start, end)
	if err != nil {
		return nil, mapRepoError(err)
	}

	byCategory := map[model.ExpenseCategory]decimal.Decimal{}
	for _, exp := range expenses {
		category := exp.Category
		if category == "" {
			category = model.ExpenseCategoryOther
		}
		byCategory[category] = byCategory[category].Add(exp.Amount)
	}
	return byCategory, nil
}

// SetupPendingBreakdown splits pending installments into those due in the
// given month and those due in the two months after it.
func (s *MetricsService) SetupPendingBreakdown(ctx context.Context, year, month int) (*model.SetupPendingBreakdown, error) {
	start, monthEnd, err := s.env.monthRange(year, month)
	if err != nil {
		return nil, err
	}
	windowEnd := endOfMonth(start.AddDate(0, 2, 0))

	installments, err := s.repo.ListInstallmentsByDateRange(ctx, start, windowEnd)
	if err != nil {
		return nil, mapRepoError(err)
	}

	pending := make([]model.Installment, 0, len(installments))
	for _, inst := range installments {
		if isPending(inst) {
			pending = append(pending, inst)
		}
	}
	return &model.SetupPendingBreakdown{
		ThisMonth:   sumBy(pending, dueBetween(start, monthEnd), installmentValue),
		Next3Months: sumBy(pending, func(i model.Installment) bool { return i.DueDate.After(monthEnd) }, installmentValue),
		TotalFuture: sumBy(pending, nil, installmentValue),
	}, nil
}

func (s *MetricsService) Alerts(ctx context.Context) ([]model.Alert, error) {
	alerts := []model.Alert{}
	if s.env.AlertWindowDays <= 0 {
		return alerts, nil
	}

	now := s.env.now()
	installments, err := s.repo.ListInstallmentsByDateRange(ctx, now, now.AddDate(0, 0, s.env.AlertWindowDays))
	if err != nil {
		return nil, mapRepoError(err)
	}

	var count int
	total := decimal.Zero
	for _, inst := range installments {
		if isPending(inst) {
			count++
			total = total.Add(inst.Amount)
		}
	}
	if count > 0 {
		alerts = append(alerts, model.Alert{
			Type:    model.AlertLevelWarning,
			Title:   "Installments due soon",
			Message: fmt.Sprintf("%d installment(s) due in the next %d days (%s)", count, s.env.AlertWindowDays, total.StringFixed(2)),
			Count:   count,
			Amount:  total,
		})
	}
	return alerts, nil
}

// CashFlowProjection projects the current and the next two calendar months.
// Entries are the active MRR plus pending installments due in the month; exits
// are the live expenses dated in the month.
func (s *MetricsService) CashFlowProjection(ctx context.Context) ([]model.CashFlowMonth, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	mrr := totalMRR(activeClients(clients))

	first := firstOfMonth(s.env.now())
	projection := make([]model.CashFlowMonth, cashFlowMonths)
	g, gctx := errgroup.WithContext(ctx)
	for i := range projection {
		monthStart := first.AddDate(0, i, 0)
		monthEnd := endOfMonth(monthStart)
		g.Go(func() error {
			installments, err := s.repo.ListInstallmentsByDateRange(gctx, monthStart, monthEnd)
			if err != nil {
				return err
			}
			expenses, err := s.repo.ListExpensesByDateRange(gctx, monthStart, monthEnd)
			if err != nil {
				return err
			}
			entries := mrr.Add(sumBy(installments, isPending, installmentValue))
			exits := sumBy(expenses, nil, expenseValue)
			projection[i] = model.CashFlowMonth{
				Month:   monthKey(monthStart),
				Entries: entries,
				Exits:   exits,
				Balance: entries.Sub(exits),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, mapRepoError(err)
	}
	return projection, nil
}

// RevenueHistory covers the last six calendar months, oldest first. MRR is the
// current snapshot for every month; setup counts paid installments due in the
// month.
func (s *MetricsService) RevenueHistory(ctx context.Context) ([]model.RevenueMonth, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	mrr := totalMRR(activeClients(clients))

	first := firstOfMonth(s.env.now())
	history := make([]model.RevenueMonth, revenueHistoryMonths)
	g, gctx := errgroup.WithContext(ctx)
	for i := range history {
		monthStart := first.AddDate(0, i-(revenueHistoryMonths-1), 0)
		monthEnd := endOfMonth(monthStart)
		g.Go(func() error {
			installments, err := s.repo.ListInstallmentsByDateRange(gctx, monthStart, monthEnd)
			if err != nil {
				return err
			}
			services, err := s.repo.ListServicesByDateRange(gctx, monthStart, monthEnd)
			if err != nil {
				return err
			}
			setup := sumBy(installments, func(i model.Installment) bool {
				return i.Status == model.InstallmentStatusPaid
			}, installmentValue)
			servicesRevenue := sumBy(services, isCompleted, serviceValue)
			history[i] = model.RevenueMonth{
				Month:    monthKey(monthStart),
				Revenue:  mrr.Add(setup).Add(servicesRevenue),
				MRR:      mrr,
				Setup:    setup,
				Services: servicesRevenue,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, mapRepoError(err)
	}
	return history, nil
}

func (s *MetricsService) ClientDetails(ctx context.Context, clientID uuid.UUID) (*model.ClientDetails, error) {
	client, err := s.repo.GetClient(ctx, clientID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	var (
		contracts []model.SetupContract
		services  []model.Service
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		contracts, err = s.repo.ListSetupContractsByClient(gctx, clientID)
		return err
	})
	g.Go(func() (err error) {
		services, err = s.repo.ListServicesByClient(gctx, clientID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapRepoError(err)
	}

	installments := []model.Installment{}
	for _, contract := range contracts {
		items, err := s.repo.ListInstallmentsByContract(ctx, contract.ID)
		if err != nil {
			return nil, mapRepoError(err)
		}
		installments = append(installments, items...)
	}

	summary := model.ClientSummary{
		MRR: client.MRR,
		TotalPaidSetup: sumBy(installments, func(i model.Installment) bool {
			return i.Status == model.InstallmentStatusPaid
		}, installmentValue),
		TotalPendingSetup: sumBy(installments, isPending, installmentValue),
		TotalServices:     sumBy(services, isCompleted, serviceValue),
	}
	summary.TotalRevenue = summary.MRR.Add(summary.TotalPaidSetup).Add(summary.TotalServices)

	return &model.ClientDetails{
		Client:       *client,
		Contracts:    contracts,
		Services:     services,
		Installments: installments,
		Summary:      summary,
	}, nil
}
