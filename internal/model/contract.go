package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
	ContractStatusOverdue   ContractStatus = "overdue"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusCompleted, ContractStatusCancelled, ContractStatusOverdue:
		return true
	}
	return false
}

// SetupContract is a one-time implementation fee billed in installments.
type SetupContract struct {
	ID                uuid.UUID       `json:"id"`
	ClientID          uuid.UUID       `json:"client_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Installments      int             `json:"installments"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"` // informational, total / installments
	StartDate         time.Time       `json:"start_date"`
	Description       *string         `json:"description,omitempty"`
	Status            ContractStatus  `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
	InstallmentStatusOverdue InstallmentStatus = "overdue"
)

type Installment struct {
	ID                uuid.UUID         `json:"id"`
	ContractID        uuid.UUID         `json:"contract_id"`
	InstallmentNumber int               `json:"installment_number"`
	Amount            decimal.Decimal   `json:"amount"`
	DueDate           time.Time         `json:"due_date"`
	PaidDate          *time.Time        `json:"paid_date,omitempty"`
	Status            InstallmentStatus `json:"status"`
	Notes             *string           `json:"notes,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
