package deposit

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/settings"
)

type MockServiceReader struct {
	mock.Mock
}

func (m *MockServiceReader) GetActiveService(ctx context.Context, id int64) (*catalog.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

type MockSettingsReader struct {
	mock.Mock
}

func (m *MockSettingsReader) Get(ctx context.Context) (*settings.BookingSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.BookingSettings), args.Error(1)
}

func shopDefaults(enabled bool, typ settings.DepositType, value int64) *settings.BookingSettings {
	return &settings.BookingSettings{
		Timezone:            "UTC",
		DepositsEnabled:     enabled,
		DefaultDepositType:  typ,
		DefaultDepositValue: decimal.NewFromInt(value),
	}
}

func TestCalculateShopDefaults(t *testing.T) {
	cases := []struct {
		name     string
		settings *settings.BookingSettings
		price    int64
		want     int64
	}{
		{"percent of price", shopDefaults(true, settings.DepositPercent, 20), 10000, 2000},
		{"fixed regardless of price", shopDefaults(true, settings.DepositFixed, 5000), 10000, 5000},
		{"fixed on a larger price", shopDefaults(true, settings.DepositFixed, 5000), 25000, 5000},
		{"deposits disabled", shopDefaults(false, settings.DepositPercent, 20), 10000, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			services := new(MockServiceReader)
			services.On("GetActiveService", mock.Anything, int64(1)).Return(&catalog.Service{ID: 1, PriceCents: tc.price}, nil)
			st := new(MockSettingsReader)
			st.On("Get", mock.Anything).Return(tc.settings, nil)

			got, err := NewCalculator(services, st).Calculate(context.Background(), tc.price, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCalculateServiceOverrideWins(t *testing.T) {
	typ := settings.DepositFixed
	val := decimal.NewFromInt(1500)
	services := new(MockServiceReader)
	services.On("GetActiveService", mock.Anything, int64(2)).Return(&catalog.Service{
		ID: 2, PriceCents: 10000, DepositOverrideType: &typ, DepositOverrideValue: &val,
	}, nil)
	st := new(MockSettingsReader)

	got, err := NewCalculator(services, st).Calculate(context.Background(), 10000, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got)
	// The override applies even when shop deposits are off, so settings are never read.
	st.AssertNotCalled(t, "Get", mock.Anything)
}

func TestCalculatePropagatesLookupErrors(t *testing.T) {
	services := new(MockServiceReader)
	services.On("GetActiveService", mock.Anything, int64(3)).Return(nil, catalog.ErrServiceNotFound)

	_, err := NewCalculator(services, new(MockSettingsReader)).Calculate(context.Background(), 100, 3)
	assert.True(t, errors.Is(err, catalog.ErrServiceNotFound))

	services.On("GetActiveService", mock.Anything, int64(4)).Return(&catalog.Service{ID: 4}, nil)
	st := new(MockSettingsReader)
	st.On("Get", mock.Anything).Return(nil, settings.ErrUnconfigured)
	_, err = NewCalculator(services, st).Calculate(context.Background(), 100, 4)
	assert.True(t, errors.Is(err, settings.ErrUnconfigured))
}

func TestComputeRoundsHalfUp(t *testing.T) {
	pct := func(v string) Policy {
		return Policy{Type: settings.DepositPercent, Value: decimal.RequireFromString(v)}
	}

	assert.Equal(t, int64(1), Compute(pct("50"), 1))           // 0.5 -> 1
	assert.Equal(t, int64(1234), Compute(pct("12.345"), 9996)) // 1233.9762 -> 1234
	assert.Equal(t, int64(334), Compute(pct("33.35"), 1001))   // 333.8335 -> 334
	assert.Equal(t, int64(125), Compute(pct("12.5"), 1000))
}

func TestComputeClamps(t *testing.T) {
	assert.Equal(t, int64(3000), Compute(Policy{Type: settings.DepositFixed, Value: decimal.NewFromInt(5000)}, 3000))
	assert.Equal(t, int64(0), Compute(Policy{Type: settings.DepositFixed, Value: decimal.NewFromInt(-10)}, 3000))
	assert.Equal(t, int64(3000), Compute(Policy{Type: settings.DepositPercent, Value: decimal.NewFromInt(150)}, 3000))
	assert.Equal(t, int64(0), Compute(Policy{Type: settings.DepositPercent, Value: decimal.NewFromInt(20)}, 0))
	assert.Equal(t, int64(0), Compute(Policy{Type: "bogus", Value: decimal.NewFromInt(20)}, 1000))
}
