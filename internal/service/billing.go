package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/agency-finance/internal/model"
)

const DefaultUpcomingDays = 7

// BillingService forecasts MRR charges from each client's billing day. It
// works on calendar days in the configured timezone and ignores installments.
type BillingService struct {
	repo Repository
	env  Env
	log  zerolog.Logger
}

func NewBillingService(repo Repository, env Env, log zerolog.Logger) *BillingService {
	return &BillingService{
		repo: repo,
		env:  env,
		log:  log.With().Str("component", "billing").Logger(),
	}
}

// UpcomingCharges lists the next billing date of every active client when it
// falls within [today, today+daysAhead], earliest first.
func (s *BillingService) UpcomingCharges(ctx context.Context, daysAhead int) ([]model.Charge, error) {
	if daysAhead < 0 {
		return nil, fmt.Errorf("%w: days ahead must not be negative", ErrInvalidInput)
	}
	clients, err := s.billableClients(ctx)
	if err != nil {
		return nil, err
	}

	today := s.env.today()
	charges := []model.Charge{}
	for _, client := range clients {
		next := billingDate(today, *client.BillingDayOfMonth)
		if next.Before(today) {
			next = billingDate(today.AddDate(0, 0, 1-today.Day()).AddDate(0, 1, 0), *client.BillingDayOfMonth)
		}
		days := daysBetween(today, next)
		if days > daysAhead {
			continue
		}
		charges = append(charges, model.Charge{
			ClientID:     client.ID,
			ClientName:   client.Name,
			Amount:       client.MRR,
			DueDate:      next,
			DaysUntilDue: days,
		})
	}
	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].DueDate.Before(charges[j].DueDate)
	})
	return charges, nil
}

// OverdueCharges lists active clients whose most recent billing date is
// strictly before today, most overdue first.
func (s *BillingService) OverdueCharges(ctx context.Context) ([]model.Charge, error) {
	clients, err := s.billableClients(ctx)
	if err != nil {
		return nil, err
	}

	today := s.env.today()
	charges := []model.Charge{}
	for _, client := range clients {
		last := billingDate(today, *client.BillingDayOfMonth)
		if last.After(today) {
			last = billingDate(today.AddDate(0, 0, 1-today.Day()).AddDate(0, -1, 0), *client.BillingDayOfMonth)
		}
		if !last.Before(today) {
			continue
		}
		charges = append(charges, model.Charge{
			ClientID:    client.ID,
			ClientName:  client.Name,
			Amount:      client.MRR,
			DueDate:     last,
			DaysOverdue: daysBetween(last, today),
		})
	}
	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].DaysOverdue > charges[j].DaysOverdue
	})
	return charges, nil
}

func (s *BillingService) billableClients(ctx context.Context) ([]model.Client, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	billable := make([]model.Client, 0, len(clients))
	for _, client := range clients {
		if client.Status == model.ClientStatusActive && client.BillingDayOfMonth != nil {
			billable = append(billable, client)
		}
	}
	return billable, nil
}

// billingDate places day in the month of ref. Billing days are capped at 28 so
// the result never leaves that month.
func billingDate(ref time.Time, day int) time.Time {
	return time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, ref.Location())
}
