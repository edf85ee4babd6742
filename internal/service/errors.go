package service

import (
	"errors"

	"github.com/nurpe/agency-finance/internal/repository"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnavailable      = errors.New("storage unavailable")
)

// mapRepoError converts repository sentinels into service sentinels.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrUnavailable):
		return ErrUnavailable
	default:
		return err
	}
}
