package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	createEnum("client_status", "active", "inactive", "paused", "overdue"),
	createEnum("contract_status", "active", "completed", "cancelled", "overdue"),
	createEnum("installment_status", "pending", "paid", "overdue"),
	createEnum("service_status", "pending", "completed", "cancelled"),
	createEnum("payment_status", "pending", "paid", "overdue"),
	createEnum("expense_type", "cost", "expense"),
	createEnum("expense_category", "infrastructure", "team", "marketing", "software", "office", "other"),
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(320),
		phone VARCHAR(32),
		company VARCHAR(255),
		mrr NUMERIC(12,2) NOT NULL DEFAULT 0,
		status client_status NOT NULL DEFAULT 'active',
		billing_day_of_month INT CHECK (billing_day_of_month BETWEEN 1 AND 28),
		start_date DATE NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS setup_contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		total_amount NUMERIC(12,2) NOT NULL,
		installments INT NOT NULL CHECK (installments >= 1),
		installment_amount NUMERIC(12,2) NOT NULL,
		start_date DATE NOT NULL,
		description TEXT,
		status contract_status NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS installments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES setup_contracts(id) ON DELETE CASCADE,
		installment_number INT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		due_date DATE NOT NULL,
		paid_date DATE,
		status installment_status NOT NULL DEFAULT 'pending',
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_installments_contract_number ON installments (contract_id, installment_number);`,
	`CREATE INDEX IF NOT EXISTS idx_installments_due_date ON installments (due_date);`,
	`CREATE INDEX IF NOT EXISTS idx_setup_contracts_client_id ON setup_contracts (client_id);`,
	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		description TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		service_date DATE NOT NULL,
		status service_status NOT NULL DEFAULT 'pending',
		payment_status payment_status NOT NULL DEFAULT 'pending',
		is_installment BOOLEAN NOT NULL DEFAULT FALSE,
		installment_count INT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_services_client_id ON services (client_id);`,
	`CREATE INDEX IF NOT EXISTS idx_services_service_date ON services (service_date);`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		description TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		category expense_category NOT NULL DEFAULT 'other',
		type expense_type NOT NULL,
		expense_date DATE,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		recurring_start_date DATE,
		recurring_end_date DATE,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_expense_date ON expenses (expense_date);`,
	`CREATE TABLE IF NOT EXISTS expense_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		expense_id UUID,
		description TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		category expense_category NOT NULL,
		type expense_type NOT NULL,
		month DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_expense_history_month ON expense_history (month);`,
	`CREATE TABLE IF NOT EXISTS company_settings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tax_rate NUMERIC(5,2) NOT NULL CHECK (tax_rate BETWEEN 0 AND 100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
}

func createEnum(name string, values ...string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return fmt.Sprintf(`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = '%s') THEN
			CREATE TYPE %s AS ENUM (%s);
		END IF;
	END
	$$;`, name, name, strings.Join(quoted, ", "))
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
