package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/repository"
	"github.com/yogigan/go-user-auth-service/internal/security"
)

// TokenPair is the login and refresh response payload.
type TokenPair struct {
	AccessToken  security.IssuedToken `json:"accessToken"`
	RefreshToken security.IssuedToken `json:"refreshToken"`
}

// AuthService authenticates credentials and manages the token lifecycle.
type AuthService struct {
	users  repository.UserRepository
	tokens *security.TokenManager
	hasher *security.PasswordHasher
	log    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *security.TokenManager,
	hasher *security.PasswordHasher,
	log *slog.Logger,
) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher, log: log}
}

// Login verifies credentials and mints a fresh token pair. The identifier is
// tried as an email first, then as a username, so both forms work on the same
// field. Lookup misses and password mismatches share one client-facing error.
func (s *AuthService) Login(ctx context.Context, identifier, password, issuer string) (*TokenPair, error) {
	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Unauthenticated("Invalid username or password")
		}
		return nil, apperr.Internal(err)
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, apperr.Unauthenticated("Invalid username or password")
	}
	if err := checkAccountState(user); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user logged in", "username", user.Username)
	return s.issuePair(user, issuer)
}

// RefreshTokens exchanges a valid refresh token for a new pair. Roles are
// re-read from storage, so authority changes take effect on the next refresh
// even though access tokens are stateless.
func (s *AuthService) RefreshTokens(ctx context.Context, rawRefreshToken, issuer string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(rawRefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Unauthorized("Token invalid : unknown subject")
		}
		return nil, apperr.Internal(err)
	}
	if err := checkAccountState(user); err != nil {
		return nil, err
	}
	return s.issuePair(user, issuer)
}

// UserInfo returns the account behind an authenticated principal.
func (s *AuthService) UserInfo(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User %s is not found", username)
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	return s.users.FindByUsername(ctx, identifier)
}

func (s *AuthService) issuePair(user *domain.User, issuer string) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user.Username, user.RoleNames(), issuer)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.Username, issuer)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func checkAccountState(user *domain.User) error {
	if user.Locked {
		return apperr.Forbidden("User %s is locked", user.Username)
	}
	if !user.Enabled {
		return apperr.Forbidden("User %s is not enabled, please confirm your email", user.Username)
	}
	return nil
}
