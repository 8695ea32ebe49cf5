package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yogigan/go-user-auth-service/internal/http/response"
	"github.com/yogigan/go-user-auth-service/internal/security"
)

func testWriter() *response.Writer {
	return response.NewWriter(time.UTC, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testTokens() *security.TokenManager {
	return security.NewTokenManager(
		"0123456789abcdef0123456789abcdef", "Bearer ", 30*time.Minute, 720*time.Hour)
}

func principalEcho(t *testing.T, got *Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFromContext(r.Context()); ok {
			*got = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorAllowsListedPrefixes(t *testing.T) {
	auth := NewAuthenticator(testTokens(), testWriter(), []string{"/api/v1/login", "/health"})
	var principal Principal
	handler := auth.Handler(principalEcho(t, &principal))

	for _, path := range []string{"/api/v1/login", "/health", "/health/live"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("path %s should bypass the gate, got %d", path, rec.Code)
		}
	}
	if principal.Username != "" {
		t.Fatal("allow-listed requests must not carry a principal")
	}
}

func TestAuthenticatorAdmitsValidAccessToken(t *testing.T) {
	tokens := testTokens()
	auth := NewAuthenticator(tokens, testWriter(), []string{"/api/v1/login"})
	var principal Principal
	handler := auth.Handler(principalEcho(t, &principal))

	issued, err := tokens.IssueAccessToken("yogi", []string{"ROLE_USER", "ROLE_ADMIN"}, "/api/v1/login")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	r := httptest.NewRequest("GET", "/api/v1/user/me", nil)
	r.Header.Set("Authorization", "Bearer "+issued.Value)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if principal.Username != "yogi" {
		t.Fatalf("principal username: %q", principal.Username)
	}
	if !principal.HasAuthority("ROLE_ADMIN") {
		t.Fatalf("authorities: %v", principal.Authorities)
	}
}

func TestAuthenticatorRejections(t *testing.T) {
	tokens := testTokens()
	auth := NewAuthenticator(tokens, testWriter(), []string{"/api/v1/login"})
	handler := auth.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	refresh, err := tokens.IssueRefreshToken("yogi", "/api/v1/login")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	expired := security.NewTokenManager(
		"0123456789abcdef0123456789abcdef", "Bearer ", -time.Minute, 720*time.Hour)
	expiredToken, err := expired.IssueAccessToken("yogi", nil, "/api/v1/login")
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "no header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
		{name: "refresh token", authHeader: "Bearer " + refresh.Value, wantStatus: http.StatusUnauthorized},
		{name: "expired token", authHeader: "Bearer " + expiredToken.Value, wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/user/me", nil)
			if tc.authHeader != "" {
				r.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)
			if rec.Code != tc.wantStatus {
				t.Fatalf("got %d want %d: %s", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRequireAuthority(t *testing.T) {
	tokens := testTokens()
	auth := NewAuthenticator(tokens, testWriter(), nil)
	admin := RequireAuthority(testWriter(), "ROLE_ADMIN")

	handler := auth.Handler(admin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	plain, err := tokens.IssueAccessToken("user", []string{"ROLE_USER"}, "/api/v1/login")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	elevated, err := tokens.IssueAccessToken("admin", []string{"ROLE_USER", "ROLE_ADMIN"}, "/api/v1/login")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	r := httptest.NewRequest("GET", "/api/v1/user", nil)
	r.Header.Set("Authorization", "Bearer "+plain.Value)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing authority, got %d", rec.Code)
	}

	r = httptest.NewRequest("GET", "/api/v1/user", nil)
	r.Header.Set("Authorization", "Bearer "+elevated.Value)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestRequireAuthorityWithoutGate(t *testing.T) {
	admin := RequireAuthority(testWriter(), "ROLE_ADMIN")
	handler := admin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/user", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", rec.Code)
	}
}
