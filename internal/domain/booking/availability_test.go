package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingsite/internal/domain/availability"
	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/settings"
	"bookingsite/internal/pkg/clock"
)

// Evening hours in New York put the last slots on the next UTC day, so the
// busy lookup has to compare instants rather than local wall-clock text.
func TestAvailabilityExcludesBookingAcrossUTCDate(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&catalog.AvailabilityRule{}, &catalog.BlackoutDate{}))
	svc := seedService(t, db, 60, 10000)
	require.NoError(t, db.Create(&catalog.AvailabilityRule{
		DayOfWeek: int(time.Monday), StartTime: "18:00", EndTime: "23:00", Active: true,
	}).Error)

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	ctx := context.Background()
	repo := NewRepository(db)

	// 22:00 EST on Monday 2026-03-02 is 03:00 UTC on Tuesday.
	start := time.Date(2026, 3, 2, 22, 0, 0, 0, ny).UTC()
	require.NoError(t, repo.CreateHold(ctx, newHold(svc.ID, start, time.Hour), 0))

	dayStart := time.Date(2026, 3, 2, 0, 0, 0, 0, ny)
	busy, err := repo.ActiveIntervals(ctx, svc.ID, dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.True(t, busy[0].Start.Equal(start))

	services := catalog.NewRepository(db)
	calc := availability.NewCalculator(services, services, repo, &staticSettings{s: &settings.BookingSettings{
		Timezone:    "America/New_York",
		MaxDaysOut:  30,
		HoldMinutes: 15,
	}}, clock.NewManual(t0))

	slots, err := calc.ListAvailableSlots(ctx, svc.ID, "2026-03-02")
	require.NoError(t, err)

	var starts []string
	for _, s := range slots {
		starts = append(starts, s.Start.In(ny).Format("15:04"))
	}
	assert.Equal(t, []string{"18:00", "19:00", "20:00", "21:00"}, starts)
}
