package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"bookingsite/internal/pkg/apperror"
	"bookingsite/internal/pkg/response"
)

const maxWebhookBody = 65536

// Confirmer resolves a paid checkout session back to its booking.
type Confirmer interface {
	ConfirmByPaymentRef(ctx context.Context, sessionRef, bookingID string) error
}

type WebhookHandler struct {
	secret    string
	confirmer Confirmer
	log       *zap.Logger
}

func NewWebhookHandler(secret string, confirmer Confirmer, log *zap.Logger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{secret: secret, confirmer: confirmer, log: log}
}

// Stripe delivers at least once. Anything that will never succeed on retry is
// acknowledged with 200; store failures answer 500 so Stripe redelivers.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		h.log.Warn("stripe webhook rejected", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Invalid signature")
		return
	}

	log := h.log.With(zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))

	switch string(event.Type) {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			log.Error("decode checkout session", zap.Error(err))
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed event")
			return
		}
		if cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
			log.Info("checkout session not paid yet", zap.String("session", cs.ID), zap.String("payment_status", string(cs.PaymentStatus)))
			break
		}

		if err := h.confirmer.ConfirmByPaymentRef(c.Request.Context(), cs.ID, cs.Metadata[MetadataBookingID]); err != nil {
			appErr := apperror.As(err)
			if appErr.Status >= http.StatusInternalServerError {
				log.Error("confirm booking from webhook", zap.String("session", cs.ID), zap.Error(err))
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process event")
				return
			}
			log.Warn("webhook payment not applied", zap.String("session", cs.ID), zap.String("code", appErr.Code), zap.Error(err))
		}

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		log.Info("checkout session ended without payment; hold will expire")

	default:
		log.Debug("ignored stripe event")
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}
