package catalog

import (
	"net/http"

	"bookingsite/internal/pkg/apperror"
)

var (
	ErrServiceNotFound  = apperror.New(http.StatusNotFound, "NOT_FOUND", "service not found")
	ErrBlackoutNotFound = apperror.New(http.StatusNotFound, "NOT_FOUND", "blackout date not found")
	ErrBlackoutExists   = apperror.New(http.StatusConflict, "CONFLICT", "blackout date already exists")
	ErrValidation       = apperror.New(http.StatusBadRequest, "VALIDATION_ERROR", "invalid request")
)
