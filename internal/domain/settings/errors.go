package settings

import (
	"net/http"

	"bookingsite/internal/pkg/apperror"
)

var (
	ErrUnconfigured = apperror.New(http.StatusServiceUnavailable, "UNCONFIGURED", "booking is not configured yet")
	ErrValidation   = apperror.New(http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking settings")
)
