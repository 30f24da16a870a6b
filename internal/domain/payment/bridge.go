package payment

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by DisabledBridge.
var ErrNotConfigured = errors.New("payment provider is not configured")

// CheckoutRequest describes a one-off deposit payment for a booking.
type CheckoutRequest struct {
	BookingID     string
	AmountCents   int64
	Description   string
	SuccessURL    string
	CancelURL     string
	CustomerName  string
	CustomerEmail string
}

// CheckoutSession is what the customer is redirected to. Ref comes back on
// the completion webhook.
type CheckoutSession struct {
	Ref string
	URL string
}

type Bridge interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// DisabledBridge is used when no payment provider key is configured; every
// deposit request fails and the hold is left to expire.
type DisabledBridge struct{}

func (DisabledBridge) CreateSession(context.Context, CheckoutRequest) (*CheckoutSession, error) {
	return nil, ErrNotConfigured
}
