package di

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/database"
)

// MigrationRunner applies the schema and the role seed. Deployments run it
// before the first request; it is idempotent so repeated runs are safe.
type MigrationRunner struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewMigrationRunner(db *gorm.DB, log *slog.Logger) *MigrationRunner {
	return &MigrationRunner{db: db, log: log}
}

func (r *MigrationRunner) Run(ctx context.Context) error {
	if err := database.Migrate(r.db); err != nil {
		return err
	}
	if err := database.SeedRoles(ctx, r.db, r.log); err != nil {
		return err
	}
	r.log.InfoContext(ctx, "migration complete")
	return nil
}
