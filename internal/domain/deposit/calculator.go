package deposit

import (
	"context"

	"github.com/shopspring/decimal"

	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/settings"
)

type ServiceReader interface {
	GetActiveService(ctx context.Context, id int64) (*catalog.Service, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*settings.BookingSettings, error)
}

// Policy is a deposit rule: a fixed amount in cents or a percentage of the price.
type Policy struct {
	Type  settings.DepositType
	Value decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Compute applies p to basePriceCents. Percentages round half up to the cent.
// The result is clamped to [0, basePriceCents].
func Compute(p Policy, basePriceCents int64) int64 {
	if basePriceCents <= 0 {
		return 0
	}

	var amount int64
	switch p.Type {
	case settings.DepositFixed:
		amount = p.Value.Round(0).IntPart()
	case settings.DepositPercent:
		// decimal.Round rounds half away from zero; inputs are non-negative.
		amount = decimal.NewFromInt(basePriceCents).Mul(p.Value).Div(hundred).Round(0).IntPart()
	default:
		return 0
	}

	if amount < 0 {
		return 0
	}
	if amount > basePriceCents {
		return basePriceCents
	}
	return amount
}

type Calculator struct {
	services ServiceReader
	settings SettingsReader
}

func NewCalculator(services ServiceReader, settings SettingsReader) *Calculator {
	return &Calculator{services: services, settings: settings}
}

// Calculate resolves the deposit owed for serviceID: the service override wins,
// then the shop default when deposits are enabled, otherwise zero.
func (c *Calculator) Calculate(ctx context.Context, basePriceCents int64, serviceID int64) (int64, error) {
	svc, err := c.services.GetActiveService(ctx, serviceID)
	if err != nil {
		return 0, err
	}
	return c.ForService(ctx, basePriceCents, svc)
}

// ForService is Calculate for a service the caller already loaded.
func (c *Calculator) ForService(ctx context.Context, basePriceCents int64, svc *catalog.Service) (int64, error) {
	if svc.HasDepositOverride() {
		return Compute(Policy{Type: *svc.DepositOverrideType, Value: *svc.DepositOverrideValue}, basePriceCents), nil
	}

	s, err := c.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	if !s.DepositsEnabled {
		return 0, nil
	}
	return Compute(Policy{Type: s.DefaultDepositType, Value: s.DefaultDepositValue}, basePriceCents), nil
}
