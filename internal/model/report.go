package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DateRange struct {
	Start time.Time
	End   time.Time
}

// Metrics are cash-basis dashboard figures for a period.
type Metrics struct {
	PeriodStart        time.Time       `json:"period_start"`
	PeriodEnd          time.Time       `json:"period_end"`
	TotalMRR           decimal.Decimal `json:"total_mrr"`
	SetupRevenue       decimal.Decimal `json:"setup_revenue"`
	ServicesRevenue    decimal.Decimal `json:"services_revenue"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalCosts         decimal.Decimal `json:"total_costs"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	Profit             decimal.Decimal `json:"profit"`
	ProfitMargin       decimal.Decimal `json:"profit_margin"`
	ActiveClientsCount int             `json:"active_clients_count"`
}

// DREResult is the accrual-basis income statement for one calendar month.
type DREResult struct {
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	GrossRevenue       decimal.Decimal `json:"gross_revenue"`
	MRR                decimal.Decimal `json:"mrr"`
	Setup              decimal.Decimal `json:"setup"`
	Services           decimal.Decimal `json:"services"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	Taxes              decimal.Decimal `json:"taxes"`
	NetRevenue         decimal.Decimal `json:"net_revenue"`
	Costs              decimal.Decimal `json:"costs"`
	GrossMargin        decimal.Decimal `json:"gross_margin"`
	Expenses           decimal.Decimal `json:"expenses"`
	NetIncome          decimal.Decimal `json:"net_income"`
	GrossMarginPercent decimal.Decimal `json:"gross_margin_percent"`
	NetIncomePercent   decimal.Decimal `json:"net_income_percent"`
}

// Charge is a recurring MRR billing derived from Client.BillingDayOfMonth.
type Charge struct {
	ClientID     uuid.UUID       `json:"client_id"`
	ClientName   string          `json:"client_name"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
	DaysUntilDue int             `json:"days_until_due"`
	DaysOverdue  int             `json:"days_overdue"`
}

type FutureProjection struct {
	TotalPending decimal.Decimal            `json:"total_pending"`
	ByMonth      map[string]decimal.Decimal `json:"by_month"` // YYYY-MM
}

type SetupPendingBreakdown struct {
	ThisMonth   decimal.Decimal `json:"this_month"`
	Next3Months decimal.Decimal `json:"next_3_months"`
	TotalFuture decimal.Decimal `json:"total_future"`
}

type AlertLevel string

const AlertLevelWarning AlertLevel = "warning"

type Alert struct {
	Type    AlertLevel      `json:"type"`
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Amount  decimal.Decimal `json:"amount"`
}

type CashFlowMonth struct {
	Month   string          `json:"month"` // YYYY-MM
	Entries decimal.Decimal `json:"entries"`
	Exits   decimal.Decimal `json:"exits"`
	Balance decimal.Decimal `json:"balance"`
}

type RevenueMonth struct {
	Month    string          `json:"month"` // YYYY-MM
	Revenue  decimal.Decimal `json:"revenue"`
	MRR      decimal.Decimal `json:"mrr"`
	Setup    decimal.Decimal `json:"setup"`
	Services decimal.Decimal `json:"services"`
}

type ClientSummary struct {
	MRR               decimal.Decimal `json:"mrr"`
	TotalPaidSetup    decimal.Decimal `json:"total_paid_setup"`
	TotalPendingSetup decimal.Decimal `json:"total_pending_setup"`
	TotalServices     decimal.Decimal `json:"total_services"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

type ClientDetails struct {
	Client       Client          `json:"client"`
	Contracts    []SetupContract `json:"contracts"`
	Services     []Service       `json:"services"`
	Installments []Installment   `json:"installments"`
	Summary      ClientSummary   `json:"summary"`
}
