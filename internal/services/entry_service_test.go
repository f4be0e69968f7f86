package services

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/core"
	"ledger/internal/storage"
)

func TestCreateEntryPersists(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewEntryService(store, nil)

	created, err := svc.CreateEntry(context.Background(), core.Entry{
		Type:   core.Expense,
		Amount: core.Money{Cents: 1250},
		Date:   core.NewDate(2024, 5, 12),
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected assigned id")
	}

	got, err := store.GetEntry(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.Amount.Cents != 1250 {
		t.Errorf("amount = %d, want 1250", got.Amount.Cents)
	}
}

func TestCreateEntryRejectsInvalid(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewEntryService(store, nil)

	_, err := svc.CreateEntry(context.Background(), core.Entry{
		Type:   core.Expense,
		Amount: core.Money{Cents: 0},
		Date:   core.NewDate(2024, 5, 12),
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewEntryService(store, nil)

	created, err := svc.CreateEntry(context.Background(), core.Entry{
		Type:   core.Income,
		Amount: core.Money{Cents: 100},
		Date:   core.NewDate(2024, 5, 1),
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	if err := svc.DeleteEntry(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := svc.DeleteEntry(context.Background(), created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
