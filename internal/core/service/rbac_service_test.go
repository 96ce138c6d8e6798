package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// Granting a permission must drop the role's cached set so the new grant is
// live on the next request, not after the cache TTL.
func TestRBACService_Grant_InvalidatesCache(t *testing.T) {
	repo := newStubRBACRepo()
	role := repo.addRole("editor")
	cache := newStubPermCache()
	cache.entries[role.UUID] = domain.NewPermissionSet([]domain.Grant{{Action: "GET", Route: "/devices"}})
	svc := NewRBACService(repo, cache, zerolog.Nop())

	if _, err := svc.Grant(context.Background(), role.UUID, uuid.New()); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if cache.deletes != 1 {
		t.Fatalf("expected cache invalidation, got %d deletes", cache.deletes)
	}
	if _, ok := cache.entries[role.UUID]; ok {
		t.Fatalf("cached set not dropped")
	}
}

func TestRBACService_Revoke_InvalidatesCache(t *testing.T) {
	repo := newStubRBACRepo()
	role := repo.addRole("editor")
	cache := newStubPermCache()
	svc := NewRBACService(repo, cache, zerolog.Nop())

	if err := svc.Revoke(context.Background(), role.UUID, uuid.New()); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if cache.deletes != 1 {
		t.Fatalf("expected cache invalidation, got %d deletes", cache.deletes)
	}
}

func TestRBACService_DeleteRole_InvalidatesCache(t *testing.T) {
	repo := newStubRBACRepo()
	role := repo.addRole("editor")
	cache := newStubPermCache()
	svc := NewRBACService(repo, cache, zerolog.Nop())

	if err := svc.DeleteRole(context.Background(), role.UUID); err != nil {
		t.Fatalf("delete role: %v", err)
	}
	if cache.deletes != 1 {
		t.Fatalf("expected cache invalidation, got %d deletes", cache.deletes)
	}
}

func TestRBACService_DeleteRole_NotFoundSkipsInvalidation(t *testing.T) {
	repo := newStubRBACRepo()
	cache := newStubPermCache()
	svc := NewRBACService(repo, cache, zerolog.Nop())

	if err := svc.DeleteRole(context.Background(), uuid.New()); err != domain.ErrRoleNotFound {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	if cache.deletes != 0 {
		t.Fatalf("unexpected invalidation on failed delete")
	}
}

// A nil cache is valid wiring; grant and revoke work without one.
func TestRBACService_NilCache(t *testing.T) {
	repo := newStubRBACRepo()
	role := repo.addRole("editor")
	svc := NewRBACService(repo, nil, zerolog.Nop())

	if _, err := svc.Grant(context.Background(), role.UUID, uuid.New()); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.Revoke(context.Background(), role.UUID, uuid.New()); err != nil {
		t.Fatalf("revoke: %v", err)
	}
}
