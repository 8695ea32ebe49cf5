package security

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the single claim set for both token kinds; Roles is populated on
// access tokens only so a leaked refresh token carries no authorities.
type Claims struct {
	Roles     []string `json:"roles,omitempty"`
	TokenType string   `json:"token_type"`
	jwt.RegisteredClaims
}

// IssuedToken pairs the compact token with its expiry for the response body.
type IssuedToken struct {
	Value     string    `json:"value"`
	ExpiredAt time.Time `json:"expiredAt"`
}

// TokenManager mints and verifies HS256-signed tokens. The issuer claim is
// the originating request path and is diagnostic only; trust decisions rest
// on the signature and the embedded expiry alone.
type TokenManager struct {
	secret       []byte
	bearerPrefix string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewTokenManager(secret, bearerPrefix string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:       []byte(secret),
		bearerPrefix: bearerPrefix,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

func (m *TokenManager) IssueAccessToken(username string, roles []string, issuer string) (IssuedToken, error) {
	return m.sign(username, roles, TokenTypeAccess, issuer, m.accessTTL)
}

func (m *TokenManager) IssueRefreshToken(username string, issuer string) (IssuedToken, error) {
	return m.sign(username, nil, TokenTypeRefresh, issuer, m.refreshTTL)
}

func (m *TokenManager) sign(subject string, roles []string, tokenType, issuer string, ttl time.Duration) (IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Roles:     roles,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return IssuedToken{}, apperr.Internal(err)
	}
	return IssuedToken{Value: signed, ExpiredAt: expiresAt}, nil
}

// Verify validates signature and expiry and decodes claims. Expiry is checked
// by the parser itself, not by a separate clock comparison.
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthorized("Token expired : %s", err.Error())
		}
		return nil, apperr.Unauthorized("Token invalid : %s", err.Error())
	}
	if claims.Subject == "" {
		return nil, apperr.Unauthorized("Token invalid : missing subject")
	}
	return claims, nil
}

// VerifyAccess rejects refresh tokens so they cannot be replayed against
// protected resources.
func (m *TokenManager) VerifyAccess(raw string) (*Claims, error) {
	claims, err := m.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, apperr.Unauthorized("Token invalid : not an access token")
	}
	return claims, nil
}

// VerifyRefresh rejects access tokens on the refresh endpoint.
func (m *TokenManager) VerifyRefresh(raw string) (*Claims, error) {
	claims, err := m.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, apperr.Unauthorized("Token invalid : not a refresh token")
	}
	return claims, nil
}

// FromRequest locates the Authorization header, requires the configured
// scheme prefix and strips it.
func (m *TokenManager) FromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, m.bearerPrefix) {
		return "", apperr.BadRequest("Invalid token")
	}
	token := strings.TrimSpace(header[len(m.bearerPrefix):])
	if token == "" {
		return "", apperr.BadRequest("Invalid token")
	}
	return token, nil
}
