package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepositType string

const (
	DepositFixed   DepositType = "fixed"
	DepositPercent DepositType = "percent"
)

// SingletonID is the primary key of the only BookingSettings row.
const SingletonID int64 = 1

type BookingSettings struct {
	ID                  int64           `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Timezone            string          `json:"timezone" gorm:"size:64;not null;default:'UTC'" validate:"required,timezone"`
	MinNoticeMinutes    int             `json:"min_notice_minutes" gorm:"not null;default:0" validate:"gte=0"`
	BufferMinutes       int             `json:"buffer_minutes" gorm:"not null;default:0" validate:"gte=0"`
	MaxDaysOut          int             `json:"max_days_out" gorm:"not null;default:60" validate:"gte=1,lte=730"`
	HoldMinutes         int             `json:"hold_minutes" gorm:"not null;default:15" validate:"gte=1,lte=1440"`
	DepositsEnabled     bool            `json:"deposits_enabled" gorm:"not null;default:false"`
	DefaultDepositType  DepositType     `json:"default_deposit_type" gorm:"size:16;not null;default:'percent'" validate:"oneof=fixed percent"`
	DefaultDepositValue decimal.Decimal `json:"default_deposit_value" gorm:"type:numeric(12,2);not null;default:0"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (BookingSettings) TableName() string { return "booking_settings" }

// Location resolves Timezone. Rows are validated on save, so the UTC fallback
// only covers rows written by something other than this service.
func (s *BookingSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *BookingSettings) MinNotice() time.Duration {
	return time.Duration(s.MinNoticeMinutes) * time.Minute
}

func (s *BookingSettings) Buffer() time.Duration {
	return time.Duration(s.BufferMinutes) * time.Minute
}

func (s *BookingSettings) HoldDuration() time.Duration {
	return time.Duration(s.HoldMinutes) * time.Minute
}
