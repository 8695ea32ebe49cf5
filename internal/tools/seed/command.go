package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/config"
	"github.com/yogigan/go-user-auth-service/internal/database"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/repository"
	"github.com/yogigan/go-user-auth-service/internal/security"
	"github.com/yogigan/go-user-auth-service/internal/tools/common"
)

type options struct {
	envFile string
	ci      bool
	timeout time.Duration
}

// NewRootCommand builds the seed command tree: apply seeds the role catalog,
// dry-run reports what apply would insert, admin bootstraps an administrator
// account.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed reference data",
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "env file to load before connecting")
	root.PersistentFlags().BoolVar(&opts.ci, "ci", false, "machine readable output")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "apply",
			Short: "Insert any missing roles",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := run(opts, "seed apply", "seeding", func(ctx context.Context) ([]string, error) {
					_, db, err := loadConfigDB(opts.envFile)
					if err != nil {
						return nil, err
					}
					if err := database.SeedRoles(ctx, db, slog.Default()); err != nil {
						return nil, err
					}
					return []string{fmt.Sprintf("%d roles ensured", len(domain.AllRoleNames()))}, nil
				})
				return err
			},
		},
		&cobra.Command{
			Use:   "dry-run",
			Short: "Report which roles are missing",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := run(opts, "seed dry-run", "inspecting", func(ctx context.Context) ([]string, error) {
					_, db, err := loadConfigDB(opts.envFile)
					if err != nil {
						return nil, err
					}
					return missingRoles(ctx, db)
				})
				return err
			},
		},
		newAdminCommand(opts),
	)
	return root
}

func newAdminCommand(opts *options) *cobra.Command {
	var (
		username  string
		email     string
		password  string
		firstName string
		lastName  string
	)

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create an enabled administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "seed admin", "creating", func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				hash, err := security.NewPasswordHasher(cfg.BcryptCost).Hash(password)
				if err != nil {
					return nil, err
				}
				seed := database.AdminSeed{
					FirstName:    firstName,
					LastName:     lastName,
					Username:     username,
					Email:        email,
					PasswordHash: hash,
				}
				if err := database.SeedAdmin(ctx, db, seed, slog.Default()); err != nil {
					return nil, err
				}
				return []string{"admin account ensured: " + username}, nil
			})
			return err
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "admin username")
	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&firstName, "first-name", "Root", "admin first name")
	cmd.Flags().StringVar(&lastName, "last-name", "Admin", "admin last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
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

func missingRoles(ctx context.Context, db *gorm.DB) ([]string, error) {
	roles := repository.NewRoleRepository(db)
	var out []string
	for _, name := range domain.AllRoleNames() {
		if _, err := roles.FindByName(ctx, name); err != nil {
			out = append(out, "would create "+name.String())
		}
	}
	if len(out) == 0 {
		out = []string{"all roles present"}
	}
	return out, nil
}
