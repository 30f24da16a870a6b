package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusHold      Status = "hold"
	StatusConfirmed Status = "confirmed"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// activeStatuses occupy their slot.
var activeStatuses = []Status{StatusHold, StatusConfirmed}

func (s Status) Valid() bool {
	switch s {
	case StatusHold, StatusConfirmed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// Booking is a reservation of [StartTime, EndTime) on one service. A hold
// carries ExpiresAt; the sweeper moves it to expired once that instant passes.
type Booking struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ServiceID int64     `json:"service_id" gorm:"not null;index:idx_bookings_service_start,priority:1"`
	StartTime time.Time `json:"start_time" gorm:"not null;index:idx_bookings_service_start,priority:2"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	Status    Status    `json:"status" gorm:"size:16;not null;index"`

	CustomerName  string `json:"customer_name" gorm:"size:200;not null"`
	CustomerPhone string `json:"customer_phone,omitempty" gorm:"size:32"`
	CustomerEmail string `json:"customer_email" gorm:"size:254;not null"`
	CustomerNotes string `json:"customer_notes,omitempty" gorm:"type:text"`

	PriceCents        int64   `json:"price_cents" gorm:"not null"`
	DepositCents      int64   `json:"deposit_cents" gorm:"not null;default:0"`
	PaymentSessionRef *string `json:"payment_session_ref,omitempty" gorm:"size:255;uniqueIndex"`

	AdminNotes   string `json:"admin_notes,omitempty" gorm:"type:text"`
	CancelReason string `json:"cancel_reason,omitempty" gorm:"size:500"`

	ExpiresAt          time.Time  `json:"expires_at" gorm:"not null;index"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	ExpiredAt          *time.Time `json:"expired_at,omitempty"`
	ConfirmationSentAt *time.Time `json:"confirmation_sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
