package apperror

import (
	"errors"
	"net/http"
)

// Error is a client-facing failure: an HTTP status, a stable machine code and a
// message that is safe to show to the customer.
type Error struct {
	Status  int
	Code    string
	Message string
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Shared kinds. Domain packages declare their own sentinels on top of these
// when they need a more specific message.
var (
	ErrValidation   = New(http.StatusBadRequest, "VALIDATION_ERROR", "invalid request")
	ErrNotFound     = New(http.StatusNotFound, "NOT_FOUND", "not found")
	ErrUnauthorized = New(http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	ErrInternal     = New(http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
)

// As extracts the first *Error in err's chain. Unknown errors are reported as
// ErrInternal so store failures never leak their text to the client.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal
}
