package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/domain"
)

// Migrate applies the schema for every persisted model. AutoMigrate is
// additive; it never drops columns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.UserRole{},
		&domain.ConfirmationToken{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
