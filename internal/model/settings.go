package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanySettings is a singleton row.
type CompanySettings struct {
	ID        uuid.UUID       `json:"id"`
	TaxRate   decimal.Decimal `json:"tax_rate"` // percent
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
