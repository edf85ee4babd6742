package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/agency-finance/internal/model"
)

const clientColumns = `
	id,
	name,
	email,
	phone,
	company,
	mrr,
	status,
	billing_day_of_month,
	start_date,
	notes,
	created_at,
	updated_at
`

const serviceColumns = `
	id,
	client_id,
	description,
	amount,
	service_date,
	status,
	payment_status,
	is_installment,
	installment_count,
	notes,
	created_at,
	updated_at
`

func (r *LedgerRepository) ListClients(ctx context.Context) ([]model.Client, error) {
	clients := []model.Client{}
	if !r.Available() {
		return clients, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT` + clientColumns + `
		FROM clients
		ORDER BY created_at DESC
	`).Scan(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *LedgerRepository) GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	if !r.Available() {
		return nil, ErrNotFound
	}
	var client model.Client
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+clientColumns+`
		FROM clients
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&client).Error; err != nil {
		return nil, translate(err)
	}
	if client.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return &client, nil
}

func (r *LedgerRepository) CreateClient(ctx context.Context, client model.Client) (*model.Client, error) {
	if err := r.writable(); err != nil {
		return nil, err
	}
	var saved model.Client
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO clients (
			name,
			email,
			phone,
			company,
			mrr,
			status,
			billing_day_of_month,
			start_date,
			notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING`+clientColumns,
		client.Name,
		client.Email,
		client.Phone,
		client.Company,
		client.MRR,
		client.Status,
		client.BillingDayOfMonth,
		client.StartDate,
		client.Notes,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *LedgerRepository) UpdateClient(ctx context.Context, client model.Client) error {
	if err := r.writable(); err != nil {
		return err
	}
	return affected(r.db.WithContext(ctx).Exec(`
		UPDATE clients
		SET
			name = ?,
			email = ?,
			phone = ?,
			company = ?,
			mrr = ?,
			status = ?,
			billing_day_of_month = ?,
			start_date = ?,
			notes = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		client.Name,
		client.Email,
		client.Phone,
		client.Company,
		client.MRR,
		client.Status,
		client.BillingDayOfMonth,
		client.StartDate,
		client.Notes,
		client.ID,
	))
}

func (r *LedgerRepository) UpdateClientStatus(ctx context.Context, id uuid.UUID, status model.ClientStatus) error {
	if err := r.writable(); err != nil {
		return err
	}
	return affected(r.db.WithContext(ctx).Exec(`
		UPDATE clients SET status = ?, updated_at = NOW() WHERE id = ?
	`, status, id))
}

// DeleteClient removes the client; contracts, installments and services go with it.
func (r *LedgerRepository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if err := r.writable(); err != nil {
		return err
	}
	return affected(r.db.WithContext(ctx).Exec(`DELETE FROM clients WHERE id = ?`, id))
}

func (r *LedgerRepository) ListServices(ctx context.Context) ([]model.Service, error) {
	services := []model.Service{}
	if !r.Available() {
		return services, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT` + serviceColumns + `
		FROM services
		ORDER BY service_date DESC
	`).Scan(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *LedgerRepository) ListServicesByClient(ctx context.Context, clientID uuid.UUID) ([]model.Service, error) {
	services := []model.Service{}
	if !r.Available() {
		return services, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+serviceColumns+`
		FROM services
		WHERE client_id = ?
		ORDER BY service_date DESC
	`, clientID).Scan(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *LedgerRepository) ListServicesByDateRange(ctx context.Context, from, to time.Time) ([]model.Service, error) {
	services := []model.Service{}
	if !r.Available() {
		return services, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+serviceColumns+`
		FROM services
		WHERE service_date >= ?
			AND service_date <= ?
		ORDER BY service_date ASC
	`, from, to).Scan(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *LedgerRepository) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	if !r.Available() {
		return nil, ErrNotFound
	}
	var service model.Service
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+serviceColumns+`
		FROM services
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&service).Error; err != nil {
		return nil, translate(err)
	}
	if service.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return &service, nil
}

func (r *LedgerRepository) CreateService(ctx context.Context, service model.Service) (*model.Service, error) {
	if err := r.writable(); err != nil {
		return nil, err
	}
	var saved model.Service
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO services (
			client_id,
			description,
			amount,
			service_date,
			status,
			payment_status,
			is_installment,
			installment_count,
			notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING`+serviceColumns,
		service.ClientID,
		service.Description,
		service.Amount,
		service.ServiceDate,
		service.Status,
		service.PaymentStatus,
		service.IsInstallment,
		service.InstallmentCount,
		service.Notes,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *LedgerRepository) UpdateService(ctx context.Context, service model.Service) error {
	if err := r.writable(); err != nil {
		return err
	}
	return affected(r.db.WithContext(ctx).Exec(`
		UPDATE services
		SET
			description = ?,
			amount = ?,
			service_date = ?,
			status = ?,
			payment_status = ?,
			is_installment = ?,
			installment_count = ?,
			notes = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		service.Description,
		service.Amount,
		service.ServiceDate,
		service.Status,
		service.PaymentStatus,
		service.IsInstallment,
		service.InstallmentCount,
		service.Notes,
		service.ID,
	))
}

func (r *LedgerRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := r.writable(); err != nil {
		return err
	}
	return affected(r.db.WithContext(ctx).Exec(`DELETE FROM services WHERE id = ?`, id))
}
