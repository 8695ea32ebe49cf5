package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yogigan/go-user-auth-service/internal/http/response"
	"github.com/yogigan/go-user-auth-service/internal/repository"
	"github.com/yogigan/go-user-auth-service/internal/service"
)

type UserHandler struct {
	users  *service.UserService
	writer *response.Writer
}

func NewUserHandler(users *service.UserService, writer *response.Writer) *UserHandler {
	return &UserHandler{users: users, writer: writer}
}

type pagedUsers struct {
	Users      any   `json:"users"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// List handles GET /api/v1/user?page=&size=.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := repository.Page{
		Number: queryInt(r, "page", 1),
		Size:   queryInt(r, "size", 20),
	}
	result, err := h.users.List(r.Context(), page)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.OK(w, r, "Success retrieve users", pagedUsers{
		Users:      result.Items,
		Page:       result.Page,
		Size:       result.Size,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// Get handles GET /api/v1/user/{username}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.OK(w, r, "Success retrieve user", user)
}

// Create handles POST /api/v1/user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.Created(w, r, "Success create user", user)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
