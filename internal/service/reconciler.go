package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/agency-finance/internal/model"
)

// StatusReconciler derives the overdue client status from installment due dates.
type StatusReconciler struct {
	repo Repository
	env  Env
	log  zerolog.Logger
}

type ReconcileResult struct {
	MarkedOverdue  int `json:"marked_overdue"`
	RestoredActive int `json:"restored_active"`
}

func NewStatusReconciler(repo Repository, env Env, log zerolog.Logger) *StatusReconciler {
	return &StatusReconciler{
		repo: repo,
		env:  env,
		log:  log.With().Str("component", "status_reconciler").Logger(),
	}
}

// Reconcile is idempotent. Writes are issued per client; a failed write leaves
// the others applied and the next run corrects the rest.
func (r *StatusReconciler) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	overdue, err := r.repo.ListUnpaidInstallmentsDueBefore(ctx, r.env.now())
	if err != nil {
		return result, mapRepoError(err)
	}

	withOverdue := map[uuid.UUID]struct{}{}
	if len(overdue) > 0 {
		contracts, err := r.repo.ListSetupContracts(ctx)
		if err != nil {
			return result, mapRepoError(err)
		}
		owner := make(map[uuid.UUID]uuid.UUID, len(contracts))
		for _, contract := range contracts {
			owner[contract.ID] = contract.ClientID
		}
		for _, inst := range overdue {
			if clientID, ok := owner[inst.ContractID]; ok {
				withOverdue[clientID] = struct{}{}
			}
		}
	}

	clients, err := r.repo.ListClients(ctx)
	if err != nil {
		return result, mapRepoError(err)
	}

	var errs []error
	for _, client := range clients {
		_, hasOverdue := withOverdue[client.ID]
		next := ReconcileStatus(client.Status, hasOverdue)
		if next == client.Status {
			continue
		}
		if err := r.repo.UpdateClientStatus(ctx, client.ID, next); err != nil {
			errs = append(errs, fmt.Errorf("client %s: %w", client.ID, mapRepoError(err)))
			continue
		}
		if next == model.ClientStatusOverdue {
			result.MarkedOverdue++
		} else {
			result.RestoredActive++
		}
		r.log.Info().
			Str("client_id", client.ID.String()).
			Str("from", string(client.Status)).
			Str("to", string(next)).
			Msg("client status reconciled")
	}

	return result, errors.Join(errs...)
}
