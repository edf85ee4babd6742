package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnavailable = errors.New("database not available")
)

// LedgerRepository stores the finance ledger in postgres. A repository built
// without a database answers reads with empty results and fails every write.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Available() bool {
	return r != nil && r.db != nil
}

func (r *LedgerRepository) writable() error {
	if !r.Available() {
		return ErrUnavailable
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
