package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/yogigan/go-user-auth-service/internal/apperr"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads one JSON document from the request body with a size cap.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.BadRequest("invalid request body")
	}
	return nil
}
