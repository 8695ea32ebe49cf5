package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yogigan/go-user-auth-service/internal/database"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/repository"
	"github.com/yogigan/go-user-auth-service/internal/security"
)

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedRoles(context.Background(), db, discardLogger()); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHasher() *security.PasswordHasher {
	return security.NewPasswordHasher(4)
}

// recordingMailer captures sent confirmations for assertions.
type recordingMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	fail  error
}

type sentMail struct {
	To        string
	FirstName string
	Link      string
}

func (m *recordingMailer) SendConfirmation(_ context.Context, to, firstName, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{To: to, FirstName: firstName, Link: link})
	return nil
}

func (m *recordingMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

func createEnabledUser(t *testing.T, db *gorm.DB, username, email, password string, roles ...domain.RoleName) *domain.User {
	t.Helper()
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)

	hash, err := testHasher().Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &domain.User{
		FirstName:    "Test",
		LastName:     "User",
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Enabled:      true,
	}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for _, name := range roles {
		role, err := roleRepo.FindByName(ctx, name)
		if err != nil {
			t.Fatalf("find role %s: %v", name, err)
		}
		if err := users.AddRole(ctx, user, role); err != nil {
			t.Fatalf("add role %s: %v", name, err)
		}
	}
	return user
}
