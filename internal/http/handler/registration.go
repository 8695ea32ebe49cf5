package handler

import (
	"net/http"

	"github.com/yogigan/go-user-auth-service/internal/http/response"
	"github.com/yogigan/go-user-auth-service/internal/service"
)

type registrationView struct {
	ConfirmationToken string `json:"confirmationToken"`
}

type RegistrationHandler struct {
	registration *service.RegistrationService
	writer       *response.Writer
}

func NewRegistrationHandler(registration *service.RegistrationService, writer *response.Writer) *RegistrationHandler {
	return &RegistrationHandler{registration: registration, writer: writer}
}

// Register handles POST /api/v1/registration.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	result, err := h.registration.Register(r.Context(), req)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.Created(w, r, "User registered successfully", registrationView{
		ConfirmationToken: result.ConfirmationToken,
	})
}

// Confirm handles GET /api/v1/registration?token=...
func (h *RegistrationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := h.registration.Confirm(r.Context(), token); err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.OK(w, r, "User confirmed successfully, you can now login", nil)
}
