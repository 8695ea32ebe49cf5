package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
	"github.com/yogigan/go-user-auth-service/internal/http/response"
	"github.com/yogigan/go-user-auth-service/internal/security"
)

// Principal is the authenticated caller derived from a verified access token.
type Principal struct {
	Username    string
	Authorities []string
}

func (p Principal) HasAuthority(name string) bool {
	for _, a := range p.Authorities {
		if a == name {
			return true
		}
	}
	return false
}

type principalKey struct{}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// Authenticator gates every route except the configured allow-list prefixes.
// Requests passing the gate carry a Principal in their context.
type Authenticator struct {
	tokens        *security.TokenManager
	writer        *response.Writer
	allowPrefixes []string
}

func NewAuthenticator(tokens *security.TokenManager, writer *response.Writer, allowPrefixes []string) *Authenticator {
	return &Authenticator{tokens: tokens, writer: writer, allowPrefixes: allowPrefixes}
}

func (a *Authenticator) allowed(path string) bool {
	for _, prefix := range a.allowPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.allowed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		// a missing or malformed header is an authentication failure at the
		// gate, even though the extractor itself reports a bad request
		raw, err := a.tokens.FromRequest(r)
		if err != nil {
			a.writer.Error(w, r, apperr.Unauthorized("Invalid token"))
			return
		}
		claims, err := a.tokens.VerifyAccess(raw)
		if err != nil {
			a.writer.Error(w, r, err)
			return
		}

		principal := Principal{Username: claims.Subject, Authorities: claims.Roles}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// RequireAuthority returns a middleware enforcing one authority on top of the
// authentication gate.
func RequireAuthority(writer *response.Writer, authority string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writer.Error(w, r, apperr.Unauthorized("Token invalid : missing principal"))
				return
			}
			if !principal.HasAuthority(authority) {
				writer.Error(w, r, apperr.Forbidden("Access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
