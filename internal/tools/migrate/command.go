package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/config"
	"github.com/yogigan/go-user-auth-service/internal/database"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/tools/common"
)

type options struct {
	envFile string
	ci      bool
	timeout time.Duration
}

// NewRootCommand builds the migrate command tree: up applies the schema,
// status reports which tables exist, plan lists what up would touch.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Apply and inspect the database schema",
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "env file to load before connecting")
	root.PersistentFlags().BoolVar(&opts.ci, "ci", false, "machine readable output")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply the schema and seed the role catalog",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := run(opts, "migrate up", "applying", func(ctx context.Context) ([]string, error) {
					_, db, err := loadConfigDB(opts.envFile)
					if err != nil {
						return nil, err
					}
					if err := database.Migrate(db); err != nil {
						return nil, err
					}
					log := slog.Default()
					if err := database.SeedRoles(ctx, db, log); err != nil {
						return nil, err
					}
					return []string{"schema applied", "roles seeded"}, nil
				})
				return err
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report which tables exist",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := run(opts, "migrate status", "inspecting", func(ctx context.Context) ([]string, error) {
					_, db, err := loadConfigDB(opts.envFile)
					if err != nil {
						return nil, err
					}
					return tableStatus(db), nil
				})
				return err
			},
		},
		&cobra.Command{
			Use:   "plan",
			Short: "List the tables up would create",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := run(opts, "migrate plan", "planning", func(ctx context.Context) ([]string, error) {
					_, db, err := loadConfigDB(opts.envFile)
					if err != nil {
						return nil, err
					}
					var pending []string
					for name, model := range managedTables() {
						if !db.Migrator().HasTable(model) {
							pending = append(pending, "create "+name)
						}
					}
					if len(pending) == 0 {
						pending = []string{"schema is up to date"}
					}
					return pending, nil
				})
				return err
			},
		},
	)
	return root
}

func run(opts *options, title, status string, fn func(ctx context.Context) ([]string, error)) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if !opts.ci {
		fmt.Printf("%s...\n", status)
	}
	details, err := fn(ctx)
	if opts.ci {
		common.PrintCIResult(err == nil, title, details, err)
	} else {
		common.PrintHumanResult(err == nil, title, details, err)
	}
	return details, err
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.DatabaseURL, slog.LevelInfo)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func managedTables() map[string]any {
	return map[string]any{
		"users":               &domain.User{},
		"roles":               &domain.Role{},
		"user_roles":          &domain.UserRole{},
		"confirmation_tokens": &domain.ConfirmationToken{},
	}
}

func tableStatus(db *gorm.DB) []string {
	var out []string
	for name, model := range managedTables() {
		state := "missing"
		if db.Migrator().HasTable(model) {
			state = "present"
		}
		out = append(out, strings.Join([]string{name, state}, ": "))
	}
	return out
}
