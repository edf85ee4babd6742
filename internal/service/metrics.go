package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/agency-finance/internal/model"
)

// MetricsService computes cash-basis dashboard figures and projections.
type MetricsService struct {
	repo       Repository
	reconciler *StatusReconciler
	env        Env
	log        zerolog.Logger
}

func NewMetricsService(repo Repository, reconciler *StatusReconciler, env Env, log zerolog.Logger) *MetricsService {
	return &MetricsService{
		repo:       repo,
		reconciler: reconciler,
		env:        env,
		log:        log.With().Str("component", "metrics").Logger(),
	}
}

func (s *MetricsService) Reconcile(ctx context.Context) (ReconcileResult, error) {
	return s.reconciler.Reconcile(ctx)
}

// Aggregate returns metrics for [start, end]. MRR is the current run-rate of
// active clients and is not filtered by the range. Setup revenue counts every
// installment due in the range regardless of payment status.
func (s *MetricsService) Aggregate(ctx context.Context, period model.DateRange) (*model.Metrics, error) {
	if err := validateRange(period.Start, period.End); err != nil {
		return nil, err
	}
	period.Start, period.End = calendarRange(period.Start, period.End)
	if _, err := s.reconciler.Reconcile(ctx); err != nil {
		s.log.Warn().Err(err).Msg("client status reconcile incomplete, aggregating current statuses")
	}

	var (
		clients      []model.Client
		installments []model.Installment
		services     []model.Service
		expenses     []model.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		clients, err = s.repo.ListClients(gctx)
		return err
	})
	g.Go(func() (err error) {
		installments, err = s.repo.ListInstallmentsByDateRange(gctx, period.Start, period.End)
		return err
	})
	g.Go(func() (err error) {
		services, err = s.repo.ListServicesByDateRange(gctx, period.Start, period.End)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.repo.ListExpensesByDateRange(gctx, period.Start, period.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapRepoError(err)
	}

	active := activeClients(clients)
	metrics := &model.Metrics{
		PeriodStart:        period.Start,
		PeriodEnd:          period.End,
		TotalMRR:           totalMRR(active),
		SetupRevenue:       sumBy(installments, nil, installmentValue),
		ServicesRevenue:    sumBy(services, isCompleted, serviceValue),
		TotalCosts:         sumBy(expenses, expenseOfType(model.ExpenseTypeCost), expenseValue),
		TotalExpenses:      sumBy(expenses, expenseOfType(model.ExpenseTypeExpense), expenseValue),
		ActiveClientsCount: len(active),
	}
	metrics.TotalRevenue = metrics.TotalMRR.Add(metrics.SetupRevenue).Add(metrics.ServicesRevenue)
	metrics.Profit = metrics.TotalRevenue.Sub(metrics.TotalCosts.Add(metrics.TotalExpenses))
	metrics.ProfitMargin = percentOf(metrics.Profit, metrics.TotalRevenue)
	return metrics, nil
}

// Monthly aggregates the calendar month from its first to its last instant.
func (s *MetricsService) Monthly(ctx context.Context, year, month int) (*model.Metrics, error) {
	start, end, err := s.env.monthRange(year, month)
	if err != nil {
		return nil, err
	}
	return s.Aggregate(ctx, model.DateRange{Start: start, End: end})
}

func activeClients(clients []model.Client) []model.Client {
	active := make([]model.Client, 0, len(clients))
	for _, c := range clients {
		if c.Status == model.ClientStatusActive {
			active = append(active, c)
		}
	}
	return active
}

func totalMRR(clients []model.Client) decimal.Decimal {
	return sumBy(clients, nil, func(c model.Client) decimal.Decimal { return c.MRR })
}

func installmentValue(i model.Installment) decimal.Decimal { return i.Amount }
func serviceValue(s model.Service) decimal.Decimal         { return s.Amount }
func expenseValue(e model.Expense) decimal.Decimal         { return e.Amount }

func isCompleted(s model.Service) bool {
	return s.Status == model.ServiceStatusCompleted
}

func isPending(i model.Installment) bool {
	return i.Status == model.InstallmentStatusPending
}

func expenseOfType(t model.ExpenseType) func(model.Expense) bool {
	return func(e model.Expense) bool { return e.Type == t }
}

func dueBetween(from, to time.Time) func(model.Installment) bool {
	return func(i model.Installment) bool {
		return !i.DueDate.Before(from) && !i.DueDate.After(to)
	}
}
