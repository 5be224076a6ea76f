package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error codes attached to APIError values
const (
	ErrCodeUnauthorised  = "UNAUTHORIZED"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeBusinessRule  = "BUSINESS_RULE"
	ErrCodeTransient     = "TRANSIENT"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError is a failed exchange with the storefront API. StatusCode 0
// means the server was never reached.
type APIError struct {
	StatusCode    int
	Code          string
	Message       string
	CorrelationID string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode == 0 {
		return "storefront API unreachable"
	}
	return fmt.Sprintf("storefront API returned status %d", e.StatusCode)
}

// Unauthorized reports the non-retryable 401 class; the session has
// already been invalidated by the transport when this is returned.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// NotFound reports a 404, which the cart load treats as "no cart yet".
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Transient reports failures a user may sensibly retry as-is: the
// server was unreachable or answered 5xx.
func (e *APIError) Transient() bool {
	return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError
}

// IsUnauthorized reports whether err is an unauthorized API failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// IsNotFound reports whether err is a not-found API failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

// IsTransient reports whether err is a retryable API failure.
func IsTransient(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Transient()
}

// UserMessage picks the text shown to the user for err: the server's
// own message for business rejections, the fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && !apiErr.Transient() {
		return apiErr.Message
	}
	return fallback
}

// Client-side rule violations, rejected before any request is issued.
var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotInCart   = errors.New("item is not in the cart")
	ErrItemBusy        = errors.New("a change for this item is already in flight")
)
