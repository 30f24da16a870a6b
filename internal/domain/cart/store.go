package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookingsite/internal/cache"
	"bookingsite/internal/pkg/clock"
)

const keyPrefix = "cart:"

// Store is the persistence boundary for carts. Each Save refreshes the TTL, so
// an abandoned cart disappears ttl after its last change.
type Store struct {
	cache cache.Cache
	ttl   time.Duration
	clock clock.Clock
}

func NewStore(c cache.Cache, ttl time.Duration, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Store{cache: c, ttl: ttl, clock: clk}
}

// Load returns the stored cart, or an empty one when id is unknown or expired.
func (s *Store) Load(ctx context.Context, id string) (*Cart, error) {
	raw, ok, err := s.cache.Get(ctx, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return New(id), nil
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	c.ID = id
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

func (s *Store) Save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = s.clock.Now()
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.cache.Set(ctx, keyPrefix+c.ID, raw, s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
