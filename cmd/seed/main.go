package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookingsite/internal/config"
	"bookingsite/internal/database"
	"bookingsite/internal/domain/booking"
	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/settings"
	"bookingsite/internal/pkg/jwt"
	"bookingsite/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.IsProdLike() {
		log.Fatal("seed refuses to run with APP_ENV=" + cfg.AppEnv)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}

	zl.Info("running migrations")
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	// Cleanup old data (bookings first, they reference services)
	zl.Info("cleaning old data")
	for _, table := range []string{"bookings", "services", "blackout_dates", "availability_rules", "booking_settings"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			zl.Fatal("cleanup failed", zap.String("table", table), zap.Error(err))
		}
	}

	ctx := context.Background()

	// ================== SETTINGS ==================
	provider := settings.NewProvider(settings.NewRepository(db), nil, 0, zl)
	if err := provider.Save(ctx, &settings.BookingSettings{
		Timezone:            "America/New_York",
		MinNoticeMinutes:    120,
		BufferMinutes:       15,
		MaxDaysOut:          60,
		HoldMinutes:         15,
		DepositsEnabled:     true,
		DefaultDepositType:  settings.DepositPercent,
		DefaultDepositValue: decimal.NewFromInt(20),
	}); err != nil {
		zl.Fatal("settings failed", zap.Error(err))
	}

	// ================== BUSINESS HOURS ==================
	rules := []catalog.AvailabilityRule{
		{DayOfWeek: int(time.Tuesday), StartTime: "09:00", EndTime: "18:00", Active: true},
		{DayOfWeek: int(time.Wednesday), StartTime: "09:00", EndTime: "18:00", Active: true},
		{DayOfWeek: int(time.Thursday), StartTime: "09:00", EndTime: "20:00", Active: true},
		{DayOfWeek: int(time.Friday), StartTime: "09:00", EndTime: "20:00", Active: true},
		{DayOfWeek: int(time.Saturday), StartTime: "10:00", EndTime: "16:00", Active: true},
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day_of_week"}},
		DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "active"}),
	}).Create(&rules).Error; err != nil {
		zl.Fatal("rules failed", zap.Error(err))
	}

	// ================== SERVICES ==================
	fixed := settings.DepositFixed
	fixedValue := decimal.NewFromInt(25)
	services := []catalog.Service{
		{Name: "Haircut", Description: "Wash, cut and style", DurationMinutes: 45, PriceCents: 5500, Active: true},
		{Name: "Colour", Description: "Full colour with toner", DurationMinutes: 120, PriceCents: 14000, Active: true,
			DepositOverrideType: &fixed, DepositOverrideValue: &fixedValue},
		{Name: "Beard trim", DurationMinutes: 20, PriceCents: 2000, Active: true},
		{Name: "Consultation", Description: "Free 15 minute chat", DurationMinutes: 15, PriceCents: 0, Active: true},
	}
	if err := db.Create(&services).Error; err != nil {
		zl.Fatal("services failed", zap.Error(err))
	}

	// ================== BLACKOUTS ==================
	loc, _ := time.LoadLocation("America/New_York")
	today := time.Now().In(loc)
	blackout := catalog.BlackoutDate{
		Date:   nextWeekday(today, time.Saturday).AddDate(0, 0, 7).Format("2006-01-02"),
		Reason: "Staff training",
	}
	if err := db.Create(&blackout).Error; err != nil {
		zl.Fatal("blackout failed", zap.Error(err))
	}

	// ================== BOOKINGS ==================
	if err := seedBookings(db, services[0], nextWeekday(today, time.Wednesday), loc); err != nil {
		zl.Fatal("bookings failed", zap.Error(err))
	}

	// ================== ADMIN TOKEN ==================
	token, err := jwt.New(cfg.JWTSecret, cfg.JWTTTL).GenerateToken("dev-admin", jwt.RoleAdmin)
	if err != nil {
		zl.Fatal("token failed", zap.Error(err))
	}

	fmt.Println("Seed completed")
	fmt.Printf("services=%d rules=%d blackout=%s\n", len(services), len(rules), blackout.Date)
	fmt.Printf("admin token (valid %s):\n%s\n", cfg.JWTTTL, token)
}

// seedBookings books the morning of day so the availability endpoints show
// a partially filled calendar.
func seedBookings(db *gorm.DB, svc catalog.Service, day time.Time, loc *time.Location) error {
	now := time.Now().UTC()
	y, m, d := day.Date()
	for i, hour := range []int{9, 11} {
		start := time.Date(y, m, d, hour, 0, 0, 0, loc).UTC()
		b := booking.Booking{
			ID:                 uuid.New(),
			ServiceID:          svc.ID,
			StartTime:          start,
			EndTime:            start.Add(svc.Duration()),
			Status:             booking.StatusConfirmed,
			CustomerName:       fmt.Sprintf("Sample Customer %d", i+1),
			CustomerPhone:      fmt.Sprintf("+1555010%04d", i),
			CustomerEmail:      fmt.Sprintf("customer%d@example.com", i+1),
			PriceCents:         svc.PriceCents,
			ExpiresAt:          now,
			ConfirmedAt:        &now,
			ConfirmationSentAt: &now,
		}
		if err := db.Create(&b).Error; err != nil {
			return err
		}
	}
	return nil
}

func nextWeekday(from time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return from.AddDate(0, 0, days)
}
