package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/repository"
)

// SeedRoles inserts every member of the role enum that is not present yet.
// Safe to run on every startup.
func SeedRoles(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	roles := repository.NewRoleRepository(db)
	for _, name := range domain.AllRoleNames() {
		err := roles.Create(ctx, &domain.Role{Name: name})
		switch {
		case err == nil:
			log.InfoContext(ctx, "seeded role", "role", name)
		case errors.Is(err, repository.ErrDuplicate):
			// already present
		default:
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

// AdminSeed describes the bootstrap administrator account.
type AdminSeed struct {
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PasswordHash string
}

// SeedAdmin creates an enabled admin account if the username is free. It
// exists so a fresh deployment has at least one account able to reach the
// role and user management endpoints.
func SeedAdmin(ctx context.Context, db *gorm.DB, seed AdminSeed, log *slog.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		roles := repository.NewRoleRepository(tx)

		exists, err := users.ExistsByUsername(ctx, seed.Username)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		admin := &domain.User{
			FirstName:    seed.FirstName,
			LastName:     seed.LastName,
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: seed.PasswordHash,
			Enabled:      true,
		}
		if err := users.Create(ctx, admin); err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		for _, name := range []domain.RoleName{domain.RoleUser, domain.RoleAdmin} {
			role, err := roles.FindByName(ctx, name)
			if err != nil {
				return fmt.Errorf("lookup role %s: %w", name, err)
			}
			if err := users.AddRole(ctx, admin, role); err != nil {
				return fmt.Errorf("grant role %s: %w", name, err)
			}
		}
		log.InfoContext(ctx, "seeded admin user", "username", seed.Username)
		return nil
	})
}
