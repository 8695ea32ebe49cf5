package handler

import (
	"net/http"

	"github.com/yogigan/go-user-auth-service/internal/http/response"
	"github.com/yogigan/go-user-auth-service/internal/security"
	"github.com/yogigan/go-user-auth-service/internal/service"
)

// SessionHandler serves the token-bearing endpoints under /api/v1/session.
// The routes sit on the allow-list because the refresh endpoint carries a
// refresh token, not an access token, so each handler extracts and verifies
// its own credential.
type SessionHandler struct {
	auth   *service.AuthService
	tokens *security.TokenManager
	writer *response.Writer
}

func NewSessionHandler(auth *service.AuthService, tokens *security.TokenManager, writer *response.Writer) *SessionHandler {
	return &SessionHandler{auth: auth, tokens: tokens, writer: writer}
}

// Refresh handles GET /api/v1/session/refresh-token. The Authorization
// header carries the refresh token.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw, err := h.tokens.FromRequest(r)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	pair, err := h.auth.RefreshTokens(r.Context(), raw, r.URL.Path)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.OK(w, r, "Refresh token successfully", pair)
}

type profileView struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	UserName  string   `json:"userName"`
	Roles     []string `json:"roles"`
}

// UserMe handles GET /api/v1/session/user-me with an access token.
func (h *SessionHandler) UserMe(w http.ResponseWriter, r *http.Request) {
	raw, err := h.tokens.FromRequest(r)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	claims, err := h.tokens.VerifyAccess(raw)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}

	user, err := h.auth.UserInfo(r.Context(), claims.Subject)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.OK(w, r, "Success retrieve user", profileView{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		UserName:  user.Username,
		Roles:     user.RoleNames(),
	})
}
