package service

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/repository"
)

func newRoleService(t *testing.T) (*RoleService, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	svc := NewRoleService(repository.NewUserRepository(db), repository.NewRoleRepository(db), discardLogger())
	return svc, db
}

func TestRoleCreateValidatesEnum(t *testing.T) {
	svc, _ := newRoleService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "ROLE_WIZARD"); !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for unknown role, got %v", err)
	}

	// seeding already created the full enum
	_, err := svc.Create(ctx, domain.RoleAdmin)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for existing role, got %v", err)
	}
}

func TestRoleList(t *testing.T) {
	svc, _ := newRoleService(t)

	roles, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(roles) != len(domain.AllRoleNames()) {
		t.Fatalf("expected %d seeded roles, got %d", len(domain.AllRoleNames()), len(roles))
	}
}

func TestAddToUser(t *testing.T) {
	svc, db := newRoleService(t)
	ctx := context.Background()

	createEnabledUser(t, db, "yogi", "yogi@example.com", "s3cret-password", domain.RoleUser)

	updated, err := svc.AddToUser(ctx, "yogi", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("AddToUser: %v", err)
	}
	if !updated.HasRole(domain.RoleAdmin) || !updated.HasRole(domain.RoleUser) {
		t.Fatalf("role set incomplete: %v", updated.RoleNames())
	}

	if _, err := svc.AddToUser(ctx, "yogi", domain.RoleAdmin); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for repeated grant, got %v", err)
	}
	if _, err := svc.AddToUser(ctx, "ghost", domain.RoleAdmin); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
	if _, err := svc.AddToUser(ctx, "yogi", "ROLE_WIZARD"); !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for unknown role, got %v", err)
	}
}
