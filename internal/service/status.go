package service

import "github.com/nurpe/agency-finance/internal/model"

// ReconcileStatus is the transition applied by the status reconciler.
//
//	inactive            -> inactive (never touched)
//	active/paused/overdue + overdue installment -> overdue
//	overdue             + nothing overdue       -> active
//	active/paused       + nothing overdue       -> unchanged
func ReconcileStatus(current model.ClientStatus, hasOverdue bool) model.ClientStatus {
	if current == model.ClientStatusInactive {
		return current
	}
	if hasOverdue {
		return model.ClientStatusOverdue
	}
	if current == model.ClientStatusOverdue {
		return model.ClientStatusActive
	}
	return current
}
