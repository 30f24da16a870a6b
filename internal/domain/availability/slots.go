package availability

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Slot is a bookable [Start, End) interval in UTC.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval is an occupied [Start, End) range, usually an active booking.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// GenerateSlots lays back-to-back slots of length duration over the window
// [openMin, closeMin) minutes after local midnight of day. Slots that would end
// after closing are dropped. Wall-clock arithmetic goes through time.Date so
// DST transitions resolve the way the shop's clock does.
func GenerateSlots(day time.Time, loc *time.Location, openMin, closeMin int, duration time.Duration) []Slot {
	step := int(duration / time.Minute)
	if step <= 0 || closeMin <= openMin {
		return nil
	}

	y, m, d := day.Date()
	closeAt := time.Date(y, m, d, 0, closeMin, 0, 0, loc)

	out := make([]Slot, 0, (closeMin-openMin)/step)
	for startMin := openMin; startMin+step <= closeMin; startMin += step {
		start := time.Date(y, m, d, 0, startMin, 0, 0, loc)
		end := start.Add(duration)
		if end.After(closeAt) {
			break
		}
		out = append(out, Slot{Start: start.UTC(), End: end.UTC()})
	}
	return out
}

// FilterSlots drops slots that start before earliest or that come within
// buffer of any busy interval.
func FilterSlots(slots []Slot, earliest time.Time, busy []Interval, buffer time.Duration) []Slot {
	if len(busy) > 1 {
		sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	}

	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Start.Before(earliest) {
			continue
		}
		if conflicts(s, busy, buffer) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func conflicts(s Slot, busy []Interval, buffer time.Duration) bool {
	for _, b := range busy {
		if !b.Start.Add(-buffer).Before(s.End) {
			// busy is sorted by start; nothing later can overlap.
			return false
		}
		if Overlaps(s.Start, s.End, b.Start.Add(-buffer), b.End.Add(buffer)) {
			return true
		}
	}
	return false
}

// localMidnight returns 00:00 of t's calendar day in loc.
func localMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
