package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/repository"
	"github.com/yogigan/go-user-auth-service/internal/security"
)

// UserService backs the admin-facing user management endpoints.
type UserService struct {
	db     *gorm.DB
	users  repository.UserRepository
	roles  repository.RoleRepository
	hasher *security.PasswordHasher
	log    *slog.Logger
}

func NewUserService(
	db *gorm.DB,
	users repository.UserRepository,
	roles repository.RoleRepository,
	hasher *security.PasswordHasher,
	log *slog.Logger,
) *UserService {
	return &UserService{db: db, users: users, roles: roles, hasher: hasher, log: log}
}

func (s *UserService) List(ctx context.Context, page repository.Page) (repository.PagedResult[domain.User], error) {
	result, err := s.users.List(ctx, page)
	if err != nil {
		return repository.PagedResult[domain.User]{}, apperr.Internal(err)
	}
	return result, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User %s is not found", username)
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

type CreateUserRequest struct {
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	Password  string            `json:"password"`
	Roles     []domain.RoleName `json:"roles"`
}

// Create provisions an account directly, already enabled and with explicit
// roles. This is the admin path; self-service signup goes through
// registration and email confirmation instead.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if len(req.Roles) == 0 {
		return nil, apperr.BadRequest("at least one role is required")
	}
	for _, name := range req.Roles {
		if !name.Valid() {
			return nil, apperr.BadRequest("Role %s is not a known role", name)
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Enabled:      true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		roles := s.roles.WithTx(tx)
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		for _, name := range req.Roles {
			role, err := roles.FindByName(ctx, name)
			if err != nil {
				return err
			}
			if err := users.AddRole(ctx, user, role); err != nil {
				return err
			}
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperr.Conflict("Email %s is already exist", req.Email)
	case errors.Is(err, repository.ErrRoleNotFound):
		return nil, apperr.NotFound("Role is not found")
	default:
		return nil, apperr.Internal(err)
	}

	s.log.InfoContext(ctx, "user created by admin", "username", user.Username)
	return user, nil
}
