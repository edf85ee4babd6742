package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/config"
)

// Env carries the calendar and defaults shared by the finance services.
type Env struct {
	Location        *time.Location
	DefaultTaxRate  decimal.Decimal
	AlertWindowDays int
	Now             func() time.Time
}

func NewEnv(cfg *config.Config) Env {
	return Env{
		Location:        cfg.Finance.Location,
		DefaultTaxRate:  cfg.Finance.DefaultTaxRate,
		AlertWindowDays: cfg.Finance.AlertWindowDays,
		Now:             time.Now,
	}
}

func (e Env) loc() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// now is the wall-clock time in Location re-expressed in UTC, so it compares
// directly with stored calendar dates.
func (e Env) now() time.Time {
	clock := e.Now
	if clock == nil {
		clock = time.Now
	}
	t := clock().In(e.loc())
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC)
}

func (e Env) today() time.Time {
	return dateOnly(e.now())
}

// YearMonth is the current calendar month in Location.
func (e Env) YearMonth() (int, int) {
	now := e.now()
	return now.Year(), int(now.Month())
}

func (e Env) monthRange(year, month int) (time.Time, time.Time, error) {
	if err := validateYearMonth(year, month); err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, endOfMonth(start), nil
}
