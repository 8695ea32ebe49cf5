package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
)

// timestampLayout renders as dd-MM-yyyy hh:mm:ss, matching what API
// consumers already parse.
const timestampLayout = "02-01-2006 03:04:05"

// Body is the envelope every endpoint returns, success or failure.
type Body struct {
	Timestamp string `json:"timestamp"`
	Code      int    `json:"code"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// Writer renders envelopes with timestamps in the service's configured zone.
type Writer struct {
	loc *time.Location
	log *slog.Logger
}

func NewWriter(loc *time.Location, log *slog.Logger) *Writer {
	if loc == nil {
		loc = time.UTC
	}
	return &Writer{loc: loc, log: log}
}

func (wr *Writer) JSON(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	body := Body{
		Timestamp: time.Now().In(wr.loc).Format(timestampLayout),
		Code:      status,
		Status:    http.StatusText(status),
		Message:   message,
		Data:      data,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		wr.log.ErrorContext(r.Context(), "write response", "error", err)
	}
}

func (wr *Writer) OK(w http.ResponseWriter, r *http.Request, message string, data any) {
	wr.JSON(w, r, http.StatusOK, message, data)
}

func (wr *Writer) Created(w http.ResponseWriter, r *http.Request, message string, data any) {
	wr.JSON(w, r, http.StatusCreated, message, data)
}

// Error maps err through the error taxonomy. Internal errors are logged with
// the request id and replaced by a generic message so causes never leak.
func (wr *Writer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusOf(err)
	message := apperr.MessageOf(err)
	if status == http.StatusInternalServerError {
		wr.log.ErrorContext(r.Context(), "request failed",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	wr.JSON(w, r, status, message, nil)
}
