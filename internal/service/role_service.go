package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/repository"
)

// RoleService manages the role catalog and user grants. Role names are
// validated against the closed enum before they touch storage.
type RoleService struct {
	users repository.UserRepository
	roles repository.RoleRepository
	log   *slog.Logger
}

func NewRoleService(users repository.UserRepository, roles repository.RoleRepository, log *slog.Logger) *RoleService {
	return &RoleService{users: users, roles: roles, log: log}
}

func (s *RoleService) Create(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	if !name.Valid() {
		return nil, apperr.BadRequest("Role %s is not a known role", name)
	}

	role := &domain.Role{Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Role %s is already exist", name)
		}
		return nil, apperr.Internal(err)
	}
	s.log.InfoContext(ctx, "role created", "role", name)
	return role, nil
}

func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return roles, nil
}

// AddToUser grants a role to an account. Granting a role the user already has
// is a conflict, not a no-op, so callers learn their view is stale.
func (s *RoleService) AddToUser(ctx context.Context, username string, name domain.RoleName) (*domain.User, error) {
	if !name.Valid() {
		return nil, apperr.BadRequest("Role %s is not a known role", name)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User %s is not found", username)
		}
		return nil, apperr.Internal(err)
	}
	if user.HasRole(name) {
		return nil, apperr.Conflict("User %s already has role %s", username, name)
	}

	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return nil, apperr.NotFound("Role %s is not found", name)
		}
		return nil, apperr.Internal(err)
	}
	if err := s.users.AddRole(ctx, user, role); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Internal(err)
	}

	s.log.InfoContext(ctx, "role granted", "username", username, "role", name)
	updated, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return updated, nil
}
