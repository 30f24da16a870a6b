package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapsIsHalfOpen(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	hour := time.Hour

	assert.True(t, Overlaps(base, base.Add(hour), base.Add(30*time.Minute), base.Add(2*hour)))
	assert.False(t, Overlaps(base, base.Add(hour), base.Add(hour), base.Add(2*hour)), "touching intervals do not overlap")
	assert.False(t, Overlaps(base.Add(hour), base.Add(2*hour), base, base.Add(hour)))
}

func TestGenerateSlotsDropsPartialTail(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	slots := GenerateSlots(day, time.UTC, 9*60, 16*60+30, time.Hour)

	require.Len(t, slots, 7)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC), slots[6].End)
}

func TestGenerateSlotsEmptyWindow(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, GenerateSlots(day, time.UTC, 9*60, 9*60, time.Hour))
	assert.Empty(t, GenerateSlots(day, time.UTC, 9*60, 9*60+30, time.Hour))
	assert.Empty(t, GenerateSlots(day, time.UTC, 9*60, 17*60, 0))
}

func TestGenerateSlotsAcrossSpringForward(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 2026-03-08 02:00 local jumps to 03:00.
	day := time.Date(2026, 3, 8, 0, 0, 0, 0, ny)

	slots := GenerateSlots(day, ny, 9*60, 11*60, time.Hour)

	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 3, 8, 13, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 8, 14, 0, 0, 0, time.UTC), slots[1].Start)
	assert.Equal(t, time.UTC, slots[0].Start.Location())
}

func TestFilterSlotsAppliesNoticeAndBuffer(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots := GenerateSlots(day, time.UTC, 9*60, 17*60, time.Hour)
	at := func(h, m int) time.Time { return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC) }

	busy := []Interval{
		{Start: at(15, 0), End: at(16, 0)},
		{Start: at(12, 0), End: at(13, 0)},
	}

	got := FilterSlots(slots, at(10, 0), busy, 15*time.Minute)

	starts := make([]int, 0, len(got))
	for _, s := range got {
		starts = append(starts, s.Start.Hour())
	}
	// 09 is inside the notice window; 11, 12, 13, 14, 15 and 16 sit within
	// 15 minutes of a busy interval.
	assert.Equal(t, []int{10}, starts)
}

func TestFilterSlotsZeroBufferAllowsBackToBack(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots := GenerateSlots(day, time.UTC, 9*60, 12*60, time.Hour)
	busy := []Interval{{
		Start: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
	}}

	got := FilterSlots(slots, day, busy, 0)

	require.Len(t, got, 2)
	assert.Equal(t, 9, got[0].Start.Hour())
	assert.Equal(t, 11, got[1].Start.Hour())
}
