package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"bookingsite/internal/domain/booking"
	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/settings"
)

// OverlapConstraint is the Postgres exclusion constraint that backs the
// no-double-booking guarantee. The booking repository maps its violation to
// a slot-unavailable error.
const OverlapConstraint = "no_overlapping_active_bookings"

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	if IsPostgres(dsn) {
		log.Info("connecting to PostgreSQL")
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		return db, nil
	}

	log.Info("using SQLite for local development", zap.String("dsn", dsn))
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers anyway; one connection keeps hold transactions
	// from failing with SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates the schema. On Postgres it also installs the
// overlap exclusion constraint, which needs btree_gist for the equality part.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&settings.BookingSettings{},
		&catalog.Service{},
		&catalog.AvailabilityRule{},
		&catalog.BlackoutDate{},
		&booking.Booking{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}

	var exists int64
	if err := db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, OverlapConstraint).
		Scan(&exists).Error; err != nil {
		return fmt.Errorf("check overlap constraint: %w", err)
	}
	if exists > 0 {
		return nil
	}

	stmt := fmt.Sprintf(`ALTER TABLE bookings ADD CONSTRAINT %s EXCLUDE USING gist (
		service_id WITH =,
		tstzrange(start_time, end_time, '[)') WITH &&
	) WHERE (status IN ('hold', 'confirmed'))`, OverlapConstraint)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("add overlap constraint: %w", err)
	}
	return nil
}
