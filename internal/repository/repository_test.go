package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
)

func TestUnavailableRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository(nil)
	if repo.Available() {
		t.Fatal("repository without database reports available")
	}

	clients, err := repo.ListClients(ctx)
	if err != nil || len(clients) != 0 {
		t.Fatalf("ListClients = %v, %v", clients, err)
	}
	if _, err := repo.GetClient(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetClient err = %v", err)
	}
	if settings, err := repo.GetCompanySettings(ctx); err != nil || settings != nil {
		t.Errorf("GetCompanySettings = %v, %v", settings, err)
	}

	writes := map[string]error{}
	_, writes["CreateClient"] = repo.CreateClient(ctx, model.Client{Name: "Acme"})
	writes["DeleteClient"] = repo.DeleteClient(ctx, uuid.New())
	writes["ReplaceInstallments"] = repo.ReplaceInstallments(ctx, uuid.New(), nil)
	writes["ArchiveExpense"] = repo.ArchiveExpense(ctx, uuid.New(), []model.ExpenseHistory{{Month: time.Now()}})
	_, writes["UpsertCompanySettings"] = repo.UpsertCompanySettings(ctx, decimal.NewFromInt(11))
	for name, err := range writes {
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("%s err = %v, want ErrUnavailable", name, err)
		}
	}
}
