package settings

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookingsite/internal/cache"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:settings_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&BookingSettings{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

func validSettings() *BookingSettings {
	return &BookingSettings{
		Timezone:            "America/New_York",
		MinNoticeMinutes:    120,
		BufferMinutes:       15,
		MaxDaysOut:          60,
		HoldMinutes:         15,
		DepositsEnabled:     true,
		DefaultDepositType:  DepositPercent,
		DefaultDepositValue: decimal.NewFromInt(20),
	}
}

func TestGetWithoutRowIsUnconfigured(t *testing.T) {
	p := NewProvider(NewRepository(setupTestDB(t)), nil, 0, nil)

	_, err := p.Get(context.Background())
	assert.True(t, errors.Is(err, ErrUnconfigured))
}

func TestSaveThenGet(t *testing.T) {
	p := NewProvider(NewRepository(setupTestDB(t)), nil, 0, nil)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, validSettings()))

	got, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", got.Timezone)
	assert.Equal(t, 15*time.Minute, got.HoldDuration())
	assert.True(t, got.DefaultDepositValue.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "America/New_York", got.Location().String())
}

func TestSaveOverwritesSingleton(t *testing.T) {
	db := setupTestDB(t)
	p := NewProvider(NewRepository(db), nil, 0, nil)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, validSettings()))
	next := validSettings()
	next.HoldMinutes = 30
	require.NoError(t, p.Save(ctx, next))

	var count int64
	require.NoError(t, db.Model(&BookingSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, got.HoldMinutes)
}

func TestSaveRejectsInvalid(t *testing.T) {
	p := NewProvider(NewRepository(setupTestDB(t)), nil, 0, nil)
	ctx := context.Background()

	bad := validSettings()
	bad.Timezone = "Nowhere/Special"
	assert.True(t, errors.Is(p.Save(ctx, bad), ErrValidation))

	bad = validSettings()
	bad.DefaultDepositValue = decimal.NewFromInt(150)
	assert.True(t, errors.Is(p.Save(ctx, bad), ErrValidation))

	bad = validSettings()
	bad.HoldMinutes = 0
	assert.True(t, errors.Is(p.Save(ctx, bad), ErrValidation))
}

func TestGetUsesCacheAndSaveInvalidates(t *testing.T) {
	db := setupTestDB(t)
	c := cache.NewMemory()
	p := NewProvider(NewRepository(db), c, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, validSettings()))
	_, err := p.Get(ctx)
	require.NoError(t, err)

	// A write that bypasses the provider is not visible while cached.
	require.NoError(t, db.Model(&BookingSettings{}).Where("id = ?", SingletonID).Update("hold_minutes", 45).Error)
	got, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, got.HoldMinutes)

	next := validSettings()
	next.HoldMinutes = 20
	require.NoError(t, p.Save(ctx, next))
	got, err = p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, got.HoldMinutes)
}
