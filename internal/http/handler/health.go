package handler

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
	"github.com/yogigan/go-user-auth-service/internal/http/response"
)

type HealthHandler struct {
	db     *gorm.DB
	writer *response.Writer
}

func NewHealthHandler(db *gorm.DB, writer *response.Writer) *HealthHandler {
	return &HealthHandler{db: db, writer: writer}
}

// Live handles GET /health.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.writer.OK(w, r, "ok", nil)
}

// Ready handles GET /health/ready and pings the database.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.db.DB()
	if err != nil {
		h.writer.Error(w, r, apperr.Internal(err))
		return
	}
	if err := sqlDB.PingContext(r.Context()); err != nil {
		h.writer.Error(w, r, apperr.Internal(err))
		return
	}
	h.writer.OK(w, r, "ok", nil)
}
