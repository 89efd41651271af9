package account

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestMemoryRepositoryLookups(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.FindByEmail(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected %v, got %v", ErrNotFound, err)
	}

	acct := Account{
		ID:            uuid.NewString(),
		Email:         "a@x.com",
		Name:          "A",
		Phone:         "111",
		Status:        StatusPending,
		ReferenceCode: "REF123456",
	}
	if err := repo.Save(ctx, acct); err != nil {
		t.Fatalf("save: %v", err)
	}

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != acct.ID {
		t.Fatalf("expected account %s, got %s", acct.ID, byEmail.ID)
	}

	byCode, err := repo.FindByReferenceCode(ctx, "REF123456")
	if err != nil {
		t.Fatalf("find by reference code: %v", err)
	}
	if byCode.Email != "a@x.com" {
		t.Fatalf("expected a@x.com, got %s", byCode.Email)
	}
	if _, err := repo.FindByReferenceCode(ctx, "REF999999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected %v, got %v", ErrNotFound, err)
	}

	// Save is an upsert keyed by email.
	acct.Status = StatusActive
	if err := repo.Save(ctx, acct); err != nil {
		t.Fatalf("resave: %v", err)
	}
	updated, err := repo.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("find updated: %v", err)
	}
	if updated.Status != StatusActive {
		t.Fatalf("expected %s, got %s", StatusActive, updated.Status)
	}
}
