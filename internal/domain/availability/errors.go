package availability

import (
	"net/http"

	"bookingsite/internal/pkg/apperror"
)

var (
	ErrInvalidDate = apperror.New(http.StatusBadRequest, "VALIDATION_ERROR", "date must be formatted as YYYY-MM-DD")
	ErrBadRule     = apperror.New(http.StatusInternalServerError, "INTERNAL_ERROR", "availability rule is malformed")
)
