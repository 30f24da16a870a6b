package booking

import "time"

type CreateHoldRequest struct {
	ServiceID int64     `json:"service_id" binding:"required" validate:"required,gt=0"`
	Start     time.Time `json:"start" binding:"required"`
	End       time.Time `json:"end"`
	Customer  struct {
		Name  string `json:"name" validate:"required,max=200"`
		Phone string `json:"phone" validate:"omitempty,e164"`
		Email string `json:"email" validate:"required,email,max=254"`
		Notes string `json:"notes" validate:"max=2000"`
	} `json:"customer"`
}

type HoldResponse struct {
	BookingID    string    `json:"booking_id"`
	Status       Status    `json:"status"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	ExpiresAt    time.Time `json:"expires_at"`
	DepositCents int64     `json:"deposit_cents"`
	CheckoutURL  string    `json:"checkout_url,omitempty"`
}

// PublicBooking is what the customer return page may see.
type PublicBooking struct {
	ID           string    `json:"id"`
	ServiceID    int64     `json:"service_id"`
	Status       Status    `json:"status"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DepositCents int64     `json:"deposit_cents"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func toPublic(b *Booking) PublicBooking {
	return PublicBooking{
		ID:           b.ID.String(),
		ServiceID:    b.ServiceID,
		Status:       b.Status,
		Start:        b.StartTime,
		End:          b.EndTime,
		DepositCents: b.DepositCents,
		ExpiresAt:    b.ExpiresAt,
	}
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type NotesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

type ListResponse struct {
	Items  []Booking `json:"items"`
	Total  int64     `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}
