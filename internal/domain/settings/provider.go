package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bookingsite/internal/cache"
	"bookingsite/internal/pkg/validator"
)

const cacheKey = "booking_settings"

var hundred = decimal.NewFromInt(100)

// Provider serves the settings singleton, read-through cached.
type Provider struct {
	repo  Repository
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewProvider(repo Repository, c cache.Cache, ttl time.Duration, log *zap.Logger) *Provider {
	if c == nil {
		c = cache.NewNoop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{repo: repo, cache: c, ttl: ttl, log: log}
}

// Get returns the current settings or ErrUnconfigured. Cache failures degrade
// to a direct store read.
func (p *Provider) Get(ctx context.Context) (*BookingSettings, error) {
	if p.ttl > 0 {
		raw, ok, err := p.cache.Get(ctx, cacheKey)
		if err != nil {
			p.log.Warn("settings cache read failed", zap.Error(err))
		} else if ok {
			var s BookingSettings
			if err := json.Unmarshal(raw, &s); err == nil {
				return &s, nil
			}
		}
	}

	s, err := p.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if p.ttl > 0 {
		if raw, err := json.Marshal(s); err == nil {
			if err := p.cache.Set(ctx, cacheKey, raw, p.ttl); err != nil {
				p.log.Warn("settings cache write failed", zap.Error(err))
			}
		}
	}
	return s, nil
}

func (p *Provider) Save(ctx context.Context, s *BookingSettings) error {
	if errs := validator.Validate(s); errs != nil {
		return fmt.Errorf("%w: %v", ErrValidation, errs)
	}
	if s.DefaultDepositValue.IsNegative() {
		return fmt.Errorf("%w: default_deposit_value must be >= 0", ErrValidation)
	}
	if s.DefaultDepositType == DepositPercent && s.DefaultDepositValue.GreaterThan(hundred) {
		return fmt.Errorf("%w: percentage deposit must be <= 100", ErrValidation)
	}

	if err := p.repo.Upsert(ctx, s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := p.cache.Delete(ctx, cacheKey); err != nil {
		p.log.Warn("settings cache invalidation failed", zap.Error(err))
	}
	p.log.Info("booking settings updated",
		zap.String("timezone", s.Timezone),
		zap.Int("hold_minutes", s.HoldMinutes),
		zap.Bool("deposits_enabled", s.DepositsEnabled))
	return nil
}
