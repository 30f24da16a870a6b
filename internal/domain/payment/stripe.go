package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// MetadataBookingID is the checkout session metadata key carrying the booking id.
const MetadataBookingID = "booking_id"

type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeBridge struct {
	sessions sessionCreator
	currency string
}

func NewStripeBridge(secretKey, currency string) *StripeBridge {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return newStripeBridge(sc.CheckoutSessions, currency)
}

func newStripeBridge(sessions sessionCreator, currency string) *StripeBridge {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeBridge{sessions: sessions, currency: currency}
}

func (b *StripeBridge) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("checkout amount must be positive, got %d", req.AmountCents)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.BookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(b.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{MetadataBookingID: req.BookingID},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata(MetadataBookingID, req.BookingID)
	params.Context = ctx

	s, err := b.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}
	return &CheckoutSession{Ref: s.ID, URL: s.URL}, nil
}
