package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusPaused   ClientStatus = "paused"
	ClientStatusOverdue  ClientStatus = "overdue"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientStatusActive, ClientStatusInactive, ClientStatusPaused, ClientStatusOverdue:
		return true
	}
	return false
}

type Client struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Email             *string         `json:"email,omitempty"`
	Phone             *string         `json:"phone,omitempty"`
	Company           *string         `json:"company,omitempty"`
	MRR               decimal.Decimal `json:"mrr" gorm:"column:mrr"`
	Status            ClientStatus    `json:"status"`
	BillingDayOfMonth *int            `json:"billing_day_of_month,omitempty"` // 1..28
	StartDate         time.Time       `json:"start_date"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
