package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
)

// GenerateSchedule splits total into count monthly installments. Each amount
// is total/count rounded to cents; the rounding remainder is not redistributed.
// Installment i is due on (start.year, start.month+i, start.day); a day that
// does not exist in the target month rolls into the following month
// (Jan 31 + 1 month = Mar 3 in a non-leap year).
func GenerateSchedule(total decimal.Decimal, count int, start time.Time) ([]model.Installment, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: installments must be at least 1", ErrInvalidInput)
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}

	amount := installmentAmount(total, count)
	year, month, day := dateOnly(start).Date()
	schedule := make([]model.Installment, 0, count)
	for i := 0; i < count; i++ {
		schedule = append(schedule, model.Installment{
			InstallmentNumber: i + 1,
			Amount:            amount,
			DueDate:           time.Date(year, month+time.Month(i), day, 0, 0, 0, 0, time.UTC),
			Status:            model.InstallmentStatusPending,
		})
	}
	return schedule, nil
}

func installmentAmount(total decimal.Decimal, count int) decimal.Decimal {
	return total.DivRound(decimal.NewFromInt(int64(count)), 2)
}
