package booking

import (
	"net/http"

	"bookingsite/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "NOT_FOUND", "booking not found")
	ErrSlotUnavailable   = apperror.New(http.StatusConflict, "SLOT_UNAVAILABLE", "this slot is no longer available, please pick another")
	ErrSlotNotOffered    = apperror.New(http.StatusBadRequest, "VALIDATION_ERROR", "start is not an available slot for this service")
	ErrValidation        = apperror.New(http.StatusBadRequest, "VALIDATION_ERROR", "invalid booking request")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "INVALID_TRANSITION", "booking can no longer change to that status")
	ErrPaymentSession    = apperror.New(http.StatusBadGateway, "PAYMENT_SESSION_ERROR", "we could not start the payment, please try again")
)
