package booking

import (
	"context"
	"time"

	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/settings"
)

type ServiceReader interface {
	GetActiveService(ctx context.Context, id int64) (*catalog.Service, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*settings.BookingSettings, error)
}

// SlotChecker reports whether start is a slot the schedule offers.
type SlotChecker interface {
	IsBookable(ctx context.Context, serviceID int64, start time.Time) (bool, error)
}

type DepositCalculator interface {
	ForService(ctx context.Context, basePriceCents int64, svc *catalog.Service) (int64, error)
}
