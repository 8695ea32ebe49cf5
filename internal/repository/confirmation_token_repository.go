package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/domain"
)

type ConfirmationTokenRepository interface {
	Create(ctx context.Context, token *domain.ConfirmationToken) error
	FindByToken(ctx context.Context, value string) (*domain.ConfirmationToken, error)
	// Confirm marks the token consumed. The update is conditional on the
	// token still being unconfirmed, so concurrent redeems resolve to exactly
	// one winner.
	Confirm(ctx context.Context, value string, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	WithTx(tx *gorm.DB) ConfirmationTokenRepository
}

type gormConfirmationTokenRepository struct {
	db *gorm.DB
}

func NewConfirmationTokenRepository(db *gorm.DB) ConfirmationTokenRepository {
	return &gormConfirmationTokenRepository{db: db}
}

func (r *gormConfirmationTokenRepository) WithTx(tx *gorm.DB) ConfirmationTokenRepository {
	return &gormConfirmationTokenRepository{db: tx}
}

func (r *gormConfirmationTokenRepository) Create(ctx context.Context, token *domain.ConfirmationToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *gormConfirmationTokenRepository) FindByToken(ctx context.Context, value string) (*domain.ConfirmationToken, error) {
	var token domain.ConfirmationToken
	err := r.db.WithContext(ctx).Where("token = ?", value).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConfirmationTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *gormConfirmationTokenRepository) Confirm(ctx context.Context, value string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ConfirmationToken{}).
		Where("token = ? AND confirmed_at IS NULL", value).
		Update("confirmed_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&domain.ConfirmationToken{}).
			Where("token = ?", value).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrConfirmationTokenNotFound
		}
		return ErrAlreadyConfirmed
	}
	return nil
}

func (r *gormConfirmationTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? AND confirmed_at IS NULL", before).
		Delete(&domain.ConfirmationToken{})
	return result.RowsAffected, result.Error
}
