package repository

import "errors"

// Sentinel errors returned by repositories. Services translate these into
// client-facing apperr values; repositories stay HTTP-agnostic.
var (
	ErrUserNotFound              = errors.New("user not found")
	ErrRoleNotFound              = errors.New("role not found")
	ErrConfirmationTokenNotFound = errors.New("confirmation token not found")
	ErrDuplicate                 = errors.New("duplicate record")
	ErrAlreadyConfirmed          = errors.New("confirmation token already consumed")
)
