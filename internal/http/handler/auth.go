package handler

import (
	"net/http"

	"github.com/yogigan/go-user-auth-service/internal/http/response"
	"github.com/yogigan/go-user-auth-service/internal/service"
)

type AuthHandler struct {
	auth   *service.AuthService
	writer *response.Writer
}

func NewAuthHandler(auth *service.AuthService, writer *response.Writer) *AuthHandler {
	return &AuthHandler{auth: auth, writer: writer}
}

type loginRequest struct {
	// Username accepts either the username or the registered email address.
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Username, req.Password, r.URL.Path)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.OK(w, r, "Login Successful", pair)
}
