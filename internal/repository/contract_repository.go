package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/agency-finance/internal/model"
)

const contractColumns = `
	id,
	client_id,
	total_amount,
	installments,
	installment_amount,
	start_date,
	description,
	status,
	created_at,
	updated_at
`

const installmentColumns = `
	id,
	contract_id,
	installment_number,
	amount,
	due_date,
	paid_date,
	status,
	notes,
	created_at,
	updated_at
`

func (r *LedgerRepository) ListSetupContracts(ctx context.Context) ([]model.SetupContract, error) {
	contracts := []model.SetupContract{}
	if !r.Available() {
		return contracts, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT` + contractColumns + `
		FROM setup_contracts
		ORDER BY created_at DESC
	`).Scan(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *LedgerRepository) ListSetupContractsByClient(ctx context.Context, clientID uuid.UUID) ([]model.SetupContract, error) {
	contracts := []model.SetupContract{}
	if !r.Available() {
		return contracts, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+contractColumns+`
		FROM setup_contracts
		WHERE client_id = ?
		ORDER BY created_at DESC
	`, clientID).Scan(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *LedgerRepository) GetSetupContract(ctx context.Context, id uuid.UUID) (*model.SetupContract, error) {
	if !r.Available() {
		return nil, ErrNotFound
	}
	var contract model.SetupContract
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+contractColumns+`
		FROM setup_contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&contract).Error; err != nil {
		return nil, translate(err)
	}
	if contract.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return &contract, nil
}

// CreateSetupContract stores the contract together with its installment schedule.
func (r *LedgerRepository) CreateSetupContract(
	ctx context.Context,
	contract model.SetupContract,
	installments []model.Installment,
) (*model.SetupContract, error) {
	if err := r.writable(); err != nil {
		return nil, err
	}
	var saved model.SetupContract
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO setup_contracts (
				client_id,
				total_amount,
				installments,
				installment_amount,
				start_date,
				description,
				status
			) VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING`+contractColumns,
			contract.ClientID,
			contract.TotalAmount,
			contract.Installments,
			contract.InstallmentAmount,
			contract.StartDate,
			contract.Description,
			contract.Status,
		).Scan(&saved).Error
		if err != nil {
			return err
		}
		return insertInstallments(tx, saved.ID, installments)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *LedgerRepository) UpdateSetupContract(ctx context.Context, contract model.SetupContract) error {
	if err := r.writable(); err != nil {
		return err
	}
	return affected(r.db.WithContext(ctx).Exec(`
		UPDATE setup_contracts
		SET
			client_id = ?,
			total_amount = ?,
			installments = ?,
			installment_amount = ?,
			start_date = ?,
			description = ?,
			status = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		contract.ClientID,
		contract.TotalAmount,
		contract.Installments,
		contract.InstallmentAmount,
		contract.StartDate,
		contract.Description,
		contract.Status,
		contract.ID,
	))
}

// DeleteSetupContract removes the contract and its installments.
func (r *LedgerRepository) DeleteSetupContract(ctx context.Context, id uuid.UUID) error {
	if err := r.writable(); err != nil {
		return err
	}
	return affected(r.db.WithContext(ctx).Exec(`DELETE FROM setup_contracts WHERE id = ?`, id))
}

func (r *LedgerRepository) ListInstallmentsByContract(ctx context.Context, contractID uuid.UUID) ([]model.Installment, error) {
	installments := []model.Installment{}
	if !r.Available() {
		return installments, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+installmentColumns+`
		FROM installments
		WHERE contract_id = ?
		ORDER BY installment_number ASC
	`, contractID).Scan(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

func (r *LedgerRepository) ListInstallmentsByDateRange(ctx context.Context, from, to time.Time) ([]model.Installment, error) {
	installments := []model.Installment{}
	if !r.Available() {
		return installments, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+installmentColumns+`
		FROM installments
		WHERE due_date >= ?
			AND due_date <= ?
		ORDER BY due_date ASC
	`, from, to).Scan(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// ListUnpaidInstallmentsDueBefore returns installments with due_date < before and status != paid.
func (r *LedgerRepository) ListUnpaidInstallmentsDueBefore(ctx context.Context, before time.Time) ([]model.Installment, error) {
	installments := []model.Installment{}
	if !r.Available() {
		return installments, nil
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+installmentColumns+`
		FROM installments
		WHERE due_date < ?
			AND status <> ?
		ORDER BY due_date ASC
	`, before, model.InstallmentStatusPaid).Scan(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

func (r *LedgerRepository) GetInstallment(ctx context.Context, id uuid.UUID) (*model.Installment, error) {
	if !r.Available() {
		return nil, ErrNotFound
	}
	var installment model.Installment
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+installmentColumns+`
		FROM installments
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&installment).Error; err != nil {
		return nil, translate(err)
	}
	if installment.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return &installment, nil
}

func (r *LedgerRepository) UpdateInstallment(ctx context.Context, installment model.Installment) error {
	if err := r.writable(); err != nil {
		return err
	}
	return affected(r.db.WithContext(ctx).Exec(`
		UPDATE installments
		SET
			amount = ?,
			due_date = ?,
			paid_date = ?,
			status = ?,
			notes = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		installment.Amount,
		installment.DueDate,
		installment.PaidDate,
		installment.Status,
		installment.Notes,
		installment.ID,
	))
}

// ReplaceInstallments drops every installment of the contract and stores the
// given schedule in one transaction.
func (r *LedgerRepository) ReplaceInstallments(ctx context.Context, contractID uuid.UUID, installments []model.Installment) error {
	if err := r.writable(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM installments WHERE contract_id = ?`, contractID).Error; err != nil {
			return err
		}
		return insertInstallments(tx, contractID, installments)
	})
}

func insertInstallments(tx *gorm.DB, contractID uuid.UUID, installments []model.Installment) error {
	for _, inst := range installments {
		if err := tx.Exec(`
			INSERT INTO installments (
				contract_id,
				installment_number,
				amount,
				due_date,
				paid_date,
				status,
				notes
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			contractID,
			inst.InstallmentNumber,
			inst.Amount,
			inst.DueDate,
			inst.PaidDate,
			inst.Status,
			inst.Notes,
		).Error; err != nil {
			return err
		}
	}
	return nil
}
