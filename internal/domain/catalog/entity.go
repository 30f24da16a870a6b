package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"bookingsite/internal/domain/settings"
)

// Service is a bookable offering. Admin tooling owns writes; the booking flow
// only reads it.
type Service struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null"`
	Description     string `json:"description,omitempty" gorm:"type:text"`
	DurationMinutes int    `json:"duration_minutes" gorm:"not null"`
	PriceCents      int64  `json:"price_cents" gorm:"not null"`
	Active          bool   `json:"active" gorm:"not null;default:true;index"`

	// Optional per-service deposit policy; both set or both nil.
	DepositOverrideType  *settings.DepositType `json:"deposit_override_type,omitempty" gorm:"size:16"`
	DepositOverrideValue *decimal.Decimal      `json:"deposit_override_value,omitempty" gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Service) TableName() string { return "services" }

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

func (s *Service) HasDepositOverride() bool {
	return s.DepositOverrideType != nil && s.DepositOverrideValue != nil
}

// AvailabilityRule holds the recurring business hours for one weekday.
// StartTime/EndTime are wall-clock "HH:MM" in the shop timezone.
type AvailabilityRule struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	DayOfWeek int    `json:"day_of_week" gorm:"not null;uniqueIndex" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" gorm:"size:5;not null" validate:"required,clock"`
	EndTime   string `json:"end_time" gorm:"size:5;not null" validate:"required,clock"`
	Active    bool   `json:"active" gorm:"not null;default:true"`
}

func (AvailabilityRule) TableName() string { return "availability_rules" }

// OpenCloseMinutes returns the rule window as minutes after midnight.
func (r *AvailabilityRule) OpenCloseMinutes() (int, int, error) {
	open, err := time.Parse("15:04", r.StartTime)
	if err != nil {
		return 0, 0, err
	}
	closeT, err := time.Parse("15:04", r.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return open.Hour()*60 + open.Minute(), closeT.Hour()*60 + closeT.Minute(), nil
}

// BlackoutDate removes a whole calendar day (shop timezone) from booking.
type BlackoutDate struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Date      string    `json:"date" gorm:"size:10;not null;uniqueIndex" validate:"required,date"`
	Reason    string    `json:"reason,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlackoutDate) TableName() string { return "blackout_dates" }
