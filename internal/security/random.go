package security

import "github.com/google/uuid"

// NewConfirmationToken returns an unguessable single-use token value.
func NewConfirmationToken() string {
	return uuid.NewString()
}
