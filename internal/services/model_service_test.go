package services

import (
	"context"
	"errors"
	"testing"

	"github.com/g8d3/ai-chat-dev/internal/repo"
)

func TestModelCRUDScopedToProvider(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := &ModelService{DB: db}

	p, err := repo.CreateProvider(ctx, db, "alice", "local", "http://localhost:8080/v1", "")
	if err != nil {
		t.Fatalf("seed provider: %v", err)
	}

	m, err := svc.Create(ctx, "alice", p.ID, "  gpt-4o-mini  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.Name != "gpt-4o-mini" {
		t.Fatalf("name not trimmed: %q", m.Name)
	}

	got, err := svc.List(ctx, "alice", p.ID)
	if err != nil || len(got) != 1 {
		t.Fatalf("list: %v %d", err, len(got))
	}

	if err := svc.Delete(ctx, "alice", p.ID, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "alice", p.ID, m.ID); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("repeat delete err = %v", err)
	}
}

func TestModelOperationsRequireOwnedProvider(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := &ModelService{DB: db}

	p, err := repo.CreateProvider(ctx, db, "alice", "local", "http://localhost:8080/v1", "")
	if err != nil {
		t.Fatalf("seed provider: %v", err)
	}

	// Blank name rejected before the provider lookup.
	if _, err := svc.Create(ctx, "alice", p.ID, "   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("blank name err = %v", err)
	}

	// Another user cannot see or touch the provider's models.
	if _, err := svc.Create(ctx, "mallory", p.ID, "m"); !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("foreign create err = %v", err)
	}
	if _, err := svc.List(ctx, "mallory", p.ID); !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("foreign list err = %v", err)
	}
	if err := svc.Delete(ctx, "mallory", p.ID, "whatever"); !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("foreign delete err = %v", err)
	}
}
