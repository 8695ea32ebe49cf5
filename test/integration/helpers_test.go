package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yogigan/go-user-auth-service/internal/database"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/http/handler"
	"github.com/yogigan/go-user-auth-service/internal/http/middleware"
	"github.com/yogigan/go-user-auth-service/internal/http/response"
	"github.com/yogigan/go-user-auth-service/internal/http/router"
	"github.com/yogigan/go-user-auth-service/internal/repository"
	"github.com/yogigan/go-user-auth-service/internal/security"
	"github.com/yogigan/go-user-auth-service/internal/service"
)

type apiEnvelope struct {
	Timestamp string          `json:"timestamp"`
	Code      int             `json:"code"`
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

type testServerOptions struct {
	limiter             middleware.Limiter
	verificationEnabled bool
}

type testServer struct {
	URL    string
	DB     *gorm.DB
	Tokens *security.TokenManager
	Client *http.Client
}

var testAllowPrefixes = []string{
	"/api/v1/login", "/api/v1/registration", "/api/v1/session", "/health",
}

func newTestServer(t *testing.T, opts testServerOptions) *testServer {
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
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	if err := database.SeedRoles(ctx, db, log); err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	hasher := security.NewPasswordHasher(4)
	adminHash, err := hasher.Hash("Admin#Pass1234")
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	err = database.SeedAdmin(ctx, db, database.AdminSeed{
		FirstName: "Root", LastName: "Admin",
		Username: "admin", Email: "admin@example.com",
		PasswordHash: adminHash,
	}, log)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	tokens := security.NewTokenManager(
		"0123456789abcdef0123456789abcdef", "Bearer ", 30*time.Minute, 720*time.Hour)
	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	confirmations := repository.NewConfirmationTokenRepository(db)
	writer := response.NewWriter(time.UTC, log)

	registration := service.NewRegistrationService(db, users, roles, confirmations,
		hasher, &service.LogMailer{Log: log}, log, service.RegistrationServiceOptions{
			BaseURL:             "http://localhost:8080",
			DefaultRole:         domain.RoleUser,
			ConfirmationTTL:     15 * time.Minute,
			VerificationEnabled: opts.verificationEnabled,
		})

	limiter := opts.limiter
	if limiter == nil {
		limiter = middleware.NewLocalLimiter(1000, time.Minute)
	}

	auth := service.NewAuthService(users, tokens, hasher, log)
	mux := router.New(router.Dependencies{
		Auth:          handler.NewAuthHandler(auth, writer),
		Session:       handler.NewSessionHandler(auth, tokens, writer),
		Registration:  handler.NewRegistrationHandler(registration, writer),
		Role:          handler.NewRoleHandler(service.NewRoleService(users, roles, log), writer),
		User:          handler.NewUserHandler(service.NewUserService(db, users, roles, hasher, log), writer),
		Health:        handler.NewHealthHandler(db, writer),
		Authenticator: middleware.NewAuthenticator(tokens, writer, testAllowPrefixes),
		Limiter:       limiter,
		Writer:        writer,
		Log:           log,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{URL: srv.URL, DB: db, Tokens: tokens, Client: srv.Client()}
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any, bearer string) (int, apiEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope from %s %s: %v", method, path, err)
	}
	return resp.StatusCode, env
}

// confirmationTokenFor pulls the outstanding token straight from storage;
// mail delivery is a log line in tests.
func (s *testServer) confirmationTokenFor(t *testing.T, username string) string {
	t.Helper()
	user, err := repository.NewUserRepository(s.DB).FindByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("find user %q: %v", username, err)
	}
	var token domain.ConfirmationToken
	if err := s.DB.Where("user_id = ?", user.ID).Order("id DESC").First(&token).Error; err != nil {
		t.Fatalf("load confirmation token: %v", err)
	}
	return token.Token
}

// register creates an account and returns the confirmation token from the
// response body.
func (s *testServer) register(t *testing.T, username, email string) string {
	t.Helper()
	status, env := s.doJSON(t, http.MethodPost, "/api/v1/registration", map[string]string{
		"firstName": "Test",
		"lastName":  "User",
		"username":  username,
		"email":     email,
		"password":  "Valid#Pass1234",
	}, "")
	if status != http.StatusCreated {
		t.Fatalf("register %q: status=%d message=%q", username, status, env.Message)
	}
	var body struct {
		ConfirmationToken string `json:"confirmationToken"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode registration body: %v", err)
	}
	if body.ConfirmationToken == "" {
		t.Fatalf("register %q: missing confirmation token", username)
	}
	return body.ConfirmationToken
}

func (s *testServer) login(t *testing.T, identifier, password string) tokenPair {
	t.Helper()
	status, env := s.doJSON(t, http.MethodPost, "/api/v1/login", map[string]string{
		"username": identifier,
		"password": password,
	}, "")
	if status != http.StatusOK {
		t.Fatalf("login %q: status=%d message=%q", identifier, status, env.Message)
	}
	var pair tokenPair
	if err := json.Unmarshal(env.Data, &pair); err != nil {
		t.Fatalf("decode token pair: %v", err)
	}
	if pair.AccessToken.Value == "" || pair.RefreshToken.Value == "" {
		t.Fatalf("incomplete token pair: %+v", pair)
	}
	return pair
}

type issuedToken struct {
	Value     string `json:"value"`
	ExpiredAt string `json:"expiredAt"`
}

type tokenPair struct {
	AccessToken  issuedToken `json:"accessToken"`
	RefreshToken issuedToken `json:"refreshToken"`
}
