package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"bookingsite/internal/events"
	"bookingsite/internal/pkg/clock"
)

const sweepTimeout = time.Minute

type HoldExpirer interface {
	ExpireHolds(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper releases holds whose expires_at has passed. It can be triggered by
// its own cron schedule, the internal HTTP route or cmd/sweep.
type Sweeper struct {
	repo   HoldExpirer
	events events.Publisher
	clock  clock.Clock
	log    *zap.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

func NewSweeper(repo HoldExpirer, pub events.Publisher, clk clock.Clock, log *zap.Logger) *Sweeper {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{repo: repo, events: pub, clock: clk, log: log}
}

// ReleaseExpiredHolds moves every expired hold to expired in one statement and
// returns how many rows changed.
func (s *Sweeper) ReleaseExpiredHolds(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	n, err := s.repo.ExpireHolds(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("expire holds: %w", err)
	}

	if n > 0 {
		s.log.Info("expired holds released", zap.Int64("released", n))
		if err := s.events.Publish(ctx, events.Event{
			Type:       events.BookingHoldsExpired,
			OccurredAt: now,
			Data:       map[string]any{"released": n},
		}); err != nil {
			s.log.Warn("publish sweep event", zap.Error(err))
		}
	} else {
		s.log.Debug("no expired holds")
	}
	return n, nil
}

// Start runs the sweep on spec (standard cron syntax or descriptors such as
// "@every 5m"). Overlapping runs are skipped.
func (s *Sweeper) Start(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("sweeper already started")
	}

	logger := cronLogger{s.log.Sugar()}
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("invalid sweeper schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c

	s.log.Info("expiry sweeper started", zap.String("schedule", spec))
	return nil
}

// Stop unschedules the sweep and waits for a running one to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.log.Info("expiry sweeper stopped")
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.ReleaseExpiredHolds(ctx); err != nil {
		s.log.Error("scheduled sweep failed", zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
