package availability

import (
	"context"
	"fmt"
	"time"

	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/settings"
	"bookingsite/internal/pkg/clock"
)

type ServiceReader interface {
	GetActiveService(ctx context.Context, id int64) (*catalog.Service, error)
}

type ScheduleReader interface {
	ListRules(ctx context.Context) ([]catalog.AvailabilityRule, error)
	BlackoutsBetween(ctx context.Context, from, to string) ([]catalog.BlackoutDate, error)
}

// BusyReader lists the hold/confirmed bookings of a service that intersect [from, to).
type BusyReader interface {
	ActiveIntervals(ctx context.Context, serviceID int64, from, to time.Time) ([]Interval, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*settings.BookingSettings, error)
}

type Calculator struct {
	services ServiceReader
	schedule ScheduleReader
	busy     BusyReader
	settings SettingsReader
	clock    clock.Clock
}

func NewCalculator(services ServiceReader, schedule ScheduleReader, busy BusyReader, settings SettingsReader, clk clock.Clock) *Calculator {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Calculator{
		services: services,
		schedule: schedule,
		busy:     busy,
		settings: settings,
		clock:    clk,
	}
}

// DaySlots is one date (shop timezone) and its free slots.
type DaySlots struct {
	Date  string
	Slots []Slot
}

// ListAvailableSlots returns the free slots of serviceID on date (YYYY-MM-DD,
// shop timezone).
func (c *Calculator) ListAvailableSlots(ctx context.Context, serviceID int64, date string) ([]Slot, error) {
	svc, s, err := c.load(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation(dateLayout, date, s.Location())
	if err != nil {
		return nil, ErrInvalidDate
	}

	days, err := c.compute(ctx, svc, s, day, day, true)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return []Slot{}, nil
	}
	return days[0].Slots, nil
}

// ListAvailableDates returns every date in the next horizonDays (inclusive of
// today) with at least one free slot. A horizon outside (0, max_days_out] is
// clamped to max_days_out.
func (c *Calculator) ListAvailableDates(ctx context.Context, serviceID int64, horizonDays int) ([]string, error) {
	svc, s, err := c.load(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if horizonDays <= 0 || horizonDays > s.MaxDaysOut {
		horizonDays = s.MaxDaysOut
	}

	today := localMidnight(c.clock.Now(), s.Location())
	days, err := c.compute(ctx, svc, s, today, today.AddDate(0, 0, horizonDays), true)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Date)
	}
	return out, nil
}

// IsBookable reports whether start is a slot the schedule offers for
// serviceID: open day, inside business hours on the slot grid, past the
// minimum notice and inside the horizon. Existing bookings are not considered;
// that check happens atomically when the hold is written.
func (c *Calculator) IsBookable(ctx context.Context, serviceID int64, start time.Time) (bool, error) {
	svc, s, err := c.load(ctx, serviceID)
	if err != nil {
		return false, err
	}

	day := localMidnight(start, s.Location())
	days, err := c.compute(ctx, svc, s, day, day, false)
	if err != nil {
		return false, err
	}
	for _, d := range days {
		for _, slot := range d.Slots {
			if slot.Start.Equal(start) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (c *Calculator) load(ctx context.Context, serviceID int64) (*catalog.Service, *settings.BookingSettings, error) {
	svc, err := c.services.GetActiveService(ctx, serviceID)
	if err != nil {
		return nil, nil, err
	}
	s, err := c.settings.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	return svc, s, nil
}

// compute walks local days first..last (both local midnights) and returns the
// days that still have slots, in order.
func (c *Calculator) compute(ctx context.Context, svc *catalog.Service, s *settings.BookingSettings, first, last time.Time, withBusy bool) ([]DaySlots, error) {
	loc := s.Location()
	now := c.clock.Now()
	today := localMidnight(now, loc)
	horizonEnd := today.AddDate(0, 0, s.MaxDaysOut)

	if first.Before(today) {
		first = today
	}
	if last.After(horizonEnd) {
		last = horizonEnd
	}
	if first.After(last) {
		return nil, nil
	}

	rules, err := c.schedule.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}
	byDay := make(map[int]catalog.AvailabilityRule, len(rules))
	for _, r := range rules {
		byDay[r.DayOfWeek] = r
	}

	blackouts, err := c.schedule.BlackoutsBetween(ctx, first.Format(dateLayout), last.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list blackout dates: %w", err)
	}
	closed := make(map[string]struct{}, len(blackouts))
	for _, b := range blackouts {
		closed[b.Date] = struct{}{}
	}

	buffer := s.Buffer()
	var busy []Interval
	if withBusy {
		busy, err = c.busy.ActiveIntervals(ctx, svc.ID, first.Add(-buffer), last.AddDate(0, 0, 1).Add(buffer))
		if err != nil {
			return nil, fmt.Errorf("list active bookings: %w", err)
		}
	}

	earliest := now.Add(s.MinNotice())
	var out []DaySlots
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		if _, ok := closed[key]; ok {
			continue
		}
		rule, ok := byDay[int(d.Weekday())]
		if !ok || !rule.Active {
			continue
		}
		openMin, closeMin, err := rule.OpenCloseMinutes()
		if err != nil {
			return nil, fmt.Errorf("%w: day %d: %v", ErrBadRule, rule.DayOfWeek, err)
		}

		slots := FilterSlots(GenerateSlots(d, loc, openMin, closeMin, svc.Duration()), earliest, busy, buffer)
		if len(slots) > 0 {
			out = append(out, DaySlots{Date: key, Slots: slots})
		}
	}
	return out, nil
}
