package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized marks the distinguished authorization-failure class:
	// the credential was missing, expired, or rejected. The gateway has
	// already invalidated the session by the time a caller sees it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotAuthenticated is returned by operations that require an
	// authenticated session before any request is issued.
	ErrNotAuthenticated = errors.New("not authenticated")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrForbidden          = errors.New("access forbidden")
)

// APIError carries the status code and message the backing API returned for
// a failed request. Validation, not-found and server failures all surface
// this way; the caller decides what to show.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unauthorized reports whether err belongs to the authorization-failure
// class handled centrally by the gateway.
func Unauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
