package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceStatus string

const (
	ServiceStatusPending   ServiceStatus = "pending"
	ServiceStatusCompleted ServiceStatus = "completed"
	ServiceStatusCancelled ServiceStatus = "cancelled"
)

func (s ServiceStatus) Valid() bool {
	switch s {
	case ServiceStatusPending, ServiceStatusCompleted, ServiceStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	}
	return false
}

// Service is a one-off job billed to a client. IsInstallment is informational
// and never generates installment rows.
type Service struct {
	ID               uuid.UUID       `json:"id"`
	ClientID         uuid.UUID       `json:"client_id"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	ServiceDate      time.Time       `json:"service_date"`
	Status           ServiceStatus   `json:"status"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	IsInstallment    bool            `json:"is_installment"`
	InstallmentCount *int            `json:"installment_count,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
