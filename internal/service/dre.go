package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/agency-finance/internal/model"
)

// DREService builds the accrual-basis monthly income statement.
type DREService struct {
	repo       Repository
	reconciler *StatusReconciler
	env        Env
	log        zerolog.Logger
}

func NewDREService(repo Repository, reconciler *StatusReconciler, env Env, log zerolog.Logger) *DREService {
	return &DREService{
		repo:       repo,
		reconciler: reconciler,
		env:        env,
		log:        log.With().Str("component", "dre").Logger(),
	}
}

// MonthlyIncomeStatement recognizes setup revenue by contract start date and
// costs/expenses from expense history rows of the month.
func (s *DREService) MonthlyIncomeStatement(ctx context.Context, year, month int) (*model.DREResult, error) {
	start, end, err := s.env.monthRange(year, month)
	if err != nil {
		return nil, err
	}
	if _, err := s.reconciler.Reconcile(ctx); err != nil {
		s.log.Warn().Err(err).Msg("client status reconcile incomplete, reporting current statuses")
	}

	var (
		clients   []model.Client
		contracts []model.SetupContract
		services  []model.Service
		history   []model.ExpenseHistory
		taxRate   decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		clients, err = s.repo.ListClients(gctx)
		return err
	})
	g.Go(func() (err error) {
		contracts, err = s.repo.ListSetupContracts(gctx)
		return err
	})
	g.Go(func() (err error) {
		services, err = s.repo.ListServicesByDateRange(gctx, start, end)
		return err
	})
	g.Go(func() (err error) {
		history, err = s.repo.ListExpenseHistoryByDateRange(gctx, start, end)
		return err
	})
	g.Go(func() (err error) {
		taxRate, err = s.TaxRate(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapRepoError(err)
	}

	result := &model.DREResult{
		Year:    year,
		Month:   month,
		MRR:     totalMRR(activeClients(clients)),
		TaxRate: taxRate,
		Setup: sumBy(contracts, func(c model.SetupContract) bool {
			return c.Status != model.ContractStatusCancelled &&
				!c.StartDate.Before(start) && !c.StartDate.After(end)
		}, func(c model.SetupContract) decimal.Decimal { return c.TotalAmount }),
		Services: sumBy(services, isCompleted, serviceValue),
		Costs:    sumBy(history, historyOfType(model.ExpenseTypeCost), historyValue),
		Expenses: sumBy(history, historyOfType(model.ExpenseTypeExpense), historyValue),
	}
	result.GrossRevenue = result.MRR.Add(result.Setup).Add(result.Services)
	result.Taxes = result.GrossRevenue.Mul(taxRate).Div(hundred).Round(2)
	result.NetRevenue = result.GrossRevenue.Sub(result.Taxes)
	result.GrossMargin = result.NetRevenue.Sub(result.Costs)
	result.NetIncome = result.GrossMargin.Sub(result.Expenses)
	result.GrossMarginPercent = percentOf(result.GrossMargin, result.GrossRevenue)
	result.NetIncomePercent = percentOf(result.NetIncome, result.GrossRevenue)
	return result, nil
}

// TaxRate reads the singleton settings row, falling back to the configured default.
func (s *DREService) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	settings, err := s.repo.GetCompanySettings(ctx)
	if err != nil {
		return decimal.Zero, mapRepoError(err)
	}
	if settings == nil {
		return s.env.DefaultTaxRate, nil
	}
	return settings.TaxRate, nil
}

func (s *DREService) UpdateTaxRate(ctx context.Context, principal model.Principal, rate decimal.Decimal) (*model.CompanySettings, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: tax rate must be between 0 and 100", ErrInvalidInput)
	}

	settings, err := s.repo.UpsertCompanySettings(ctx, rate.Round(2))
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.log.Info().
		Bool("audit", true).
		Str("actor_id", principal.UserID.String()).
		Str("tax_rate", settings.TaxRate.StringFixed(2)).
		Msg("tax rate updated")
	return settings, nil
}

func historyOfType(t model.ExpenseType) func(model.ExpenseHistory) bool {
	return func(h model.ExpenseHistory) bool { return h.Type == t }
}

func historyValue(h model.ExpenseHistory) decimal.Decimal { return h.Amount }
