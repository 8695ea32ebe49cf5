package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/repository"
	"github.com/yogigan/go-user-auth-service/internal/security"
)

var emailPattern = regexp.MustCompile(`^(.+)@(.+)$`)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// RegistrationService creates accounts and drives the email confirmation
// state machine.
type RegistrationService struct {
	db                    *gorm.DB
	users                 repository.UserRepository
	roles                 repository.RoleRepository
	tokens                repository.ConfirmationTokenRepository
	hasher                *security.PasswordHasher
	mailer                ConfirmationMailer
	log                   *slog.Logger
	baseURL               string
	defaultRole           domain.RoleName
	tokenTTL              time.Duration
	verificationEnabled   bool
	now                   func() time.Time
	sendMailSynchronously bool
}

type RegistrationServiceOptions struct {
	BaseURL             string
	DefaultRole         domain.RoleName
	ConfirmationTTL     time.Duration
	VerificationEnabled bool
}

func NewRegistrationService(
	db *gorm.DB,
	users repository.UserRepository,
	roles repository.RoleRepository,
	tokens repository.ConfirmationTokenRepository,
	hasher *security.PasswordHasher,
	mailer ConfirmationMailer,
	log *slog.Logger,
	opts RegistrationServiceOptions,
) *RegistrationService {
	return &RegistrationService{
		db:                  db,
		users:               users,
		roles:               roles,
		tokens:              tokens,
		hasher:              hasher,
		mailer:              mailer,
		log:                 log,
		baseURL:             strings.TrimRight(opts.BaseURL, "/"),
		defaultRole:         opts.DefaultRole,
		tokenTTL:            opts.ConfirmationTTL,
		verificationEnabled: opts.VerificationEnabled,
		now:                 time.Now,
	}
}

// RegistrationResult carries the created account and its confirmation token.
// The token is part of the response body so clients can confirm without mail
// delivery in development setups.
type RegistrationResult struct {
	User              *domain.User
	ConfirmationToken string
}

// Register creates a disabled account with the default role and a single
// outstanding confirmation token, then mails the activation link. When email
// verification is disabled the account starts enabled and the token is
// created but not delivered.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (*RegistrationResult, error) {
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}

	if exists, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, apperr.Internal(err)
	} else if exists {
		return nil, apperr.Conflict("Email %s is already exist", req.Email)
	}
	if exists, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, apperr.Internal(err)
	} else if exists {
		return nil, apperr.Conflict("Username %s is already exist", req.Username)
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
		Enabled:      !s.verificationEnabled,
	}
	tokenValue := security.NewConfirmationToken()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("Email %s is already exist", req.Email)
			}
			return err
		}
		role, err := s.roles.WithTx(tx).FindByName(ctx, s.defaultRole)
		if err != nil {
			return fmt.Errorf("default role %s: %w", s.defaultRole, err)
		}
		if err := users.AddRole(ctx, user, role); err != nil {
			return err
		}
		return s.tokens.WithTx(tx).Create(ctx, &domain.ConfirmationToken{
			UserID:    user.ID,
			Token:     tokenValue,
			ExpiresAt: s.now().Add(s.tokenTTL),
		})
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apperr.Internal(err)
	}

	if s.verificationEnabled {
		s.dispatchMail(user, tokenValue)
	}
	return &RegistrationResult{User: user, ConfirmationToken: tokenValue}, nil
}

func (s *RegistrationService) dispatchMail(user *domain.User, tokenValue string) {
	link := s.baseURL + "/api/v1/registration?token=" + url.QueryEscape(tokenValue)
	send := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendConfirmation(ctx, user.Email, user.FirstName, link); err != nil {
			s.log.Error("confirmation mail delivery failed", "email", user.Email, "error", err)
		}
	}
	if s.sendMailSynchronously {
		send()
		return
	}
	go send()
}

// Confirm redeems a confirmation token and enables its account. Redeeming is
// set-once; unknown, replayed and expired tokens all reject as bad requests
// with distinct messages.
func (s *RegistrationService) Confirm(ctx context.Context, tokenValue string) error {
	if tokenValue == "" {
		return apperr.BadRequest("Invalid token")
	}

	token, err := s.tokens.FindByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, repository.ErrConfirmationTokenNotFound) {
			return apperr.BadRequest("Invalid token")
		}
		return apperr.Internal(err)
	}
	if token.Confirmed() {
		return apperr.BadRequest("Token %s is already confirmed", tokenValue)
	}
	if token.Expired(s.now()) {
		return apperr.BadRequest("Token %s is expired", tokenValue)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokens.WithTx(tx).Confirm(ctx, tokenValue, s.now()); err != nil {
			return err
		}
		return s.users.WithTx(tx).Enable(ctx, token.UserID)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrAlreadyConfirmed):
		return apperr.BadRequest("Token %s is already confirmed", tokenValue)
	case errors.Is(err, repository.ErrConfirmationTokenNotFound):
		return apperr.BadRequest("Invalid token")
	default:
		return apperr.Internal(err)
	}
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperr.BadRequest("Email %s is not valid", email)
	}
	return nil
}
