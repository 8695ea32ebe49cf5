package handler

import (
	"net/http"

	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/http/response"
	"github.com/yogigan/go-user-auth-service/internal/service"
)

type RoleHandler struct {
	roles  *service.RoleService
	writer *response.Writer
}

func NewRoleHandler(roles *service.RoleService, writer *response.Writer) *RoleHandler {
	return &RoleHandler{roles: roles, writer: writer}
}

type createRoleRequest struct {
	Name domain.RoleName `json:"name"`
}

// Create handles POST /api/v1/role.
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	role, err := h.roles.Create(r.Context(), req.Name)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.Created(w, r, "Role created successfully", role)
}

// List handles GET /api/v1/role.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.List(r.Context())
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.OK(w, r, "Success retrieve roles", roles)
}

type addRoleToUserRequest struct {
	Username string          `json:"username"`
	RoleName domain.RoleName `json:"roleName"`
}

// AddToUser handles POST /api/v1/role/add-to-user.
func (h *RoleHandler) AddToUser(w http.ResponseWriter, r *http.Request) {
	var req addRoleToUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writer.Error(w, r, err)
		return
	}

	user, err := h.roles.AddToUser(r.Context(), req.Username, req.RoleName)
	if err != nil {
		h.writer.Error(w, r, err)
		return
	}
	h.writer.OK(w, r, "Success add role to user", user)
}
