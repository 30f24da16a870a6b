package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/deposit"
	"bookingsite/internal/domain/notification"
	"bookingsite/internal/domain/payment"
	"bookingsite/internal/domain/settings"
	"bookingsite/internal/events"
	"bookingsite/internal/pkg/clock"
)

type staticSettings struct {
	s *settings.BookingSettings
}

func (f *staticSettings) Get(context.Context) (*settings.BookingSettings, error) {
	return f.s, nil
}

type stubSlots struct {
	ok bool
}

func (f *stubSlots) IsBookable(context.Context, int64, time.Time) (bool, error) {
	return f.ok, nil
}

type MockBridge struct {
	mock.Mock
}

func (m *MockBridge) CreateSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

type countingNotifier struct {
	mu    sync.Mutex
	sent  []notification.Confirmation
	fails int
}

func (n *countingNotifier) BookingConfirmed(_ context.Context, c notification.Confirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fails > 0 {
		n.fails--
		return errors.New("sms gateway unavailable")
	}
	n.sent = append(n.sent, c)
	return nil
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type serviceFixture struct {
	db       *gorm.DB
	repo     Repository
	svc      *catalog.Service
	settings *settings.BookingSettings
	slots    *stubSlots
	bridge   *MockBridge
	notifier *countingNotifier
	events   *events.Recorder
	clock    *clock.Manual
	service  *Service
}

func newServiceFixture(t *testing.T, depositPercent int64) *serviceFixture {
	t.Helper()
	db := setupTestDB(t)
	f := &serviceFixture{
		db:   db,
		repo: NewRepository(db),
		svc:  seedService(t, db, 60, 10000),
		settings: &settings.BookingSettings{
			Timezone:            "America/New_York",
			BufferMinutes:       15,
			MaxDaysOut:          60,
			HoldMinutes:         15,
			DepositsEnabled:     depositPercent > 0,
			DefaultDepositType:  settings.DepositPercent,
			DefaultDepositValue: decimal.NewFromInt(depositPercent),
		},
		slots:    &stubSlots{ok: true},
		bridge:   new(MockBridge),
		notifier: &countingNotifier{},
		events:   &events.Recorder{},
		clock:    clock.NewManual(t0),
	}

	services := catalog.NewRepository(db)
	st := &staticSettings{s: f.settings}
	f.service = NewService(Deps{
		Repo:     f.repo,
		Services: services,
		Settings: st,
		Slots:    f.slots,
		Deposits: deposit.NewCalculator(services, st),
		Checkout: f.bridge,
		Notifier: f.notifier,
		Events:   f.events,
		Clock:    f.clock,
		URLs: CheckoutURLs{
			Success: "https://shop.test/book/success?booking={BOOKING_ID}",
			Cancel:  "https://shop.test/book/cancelled?booking={BOOKING_ID}",
		},
	})
	return f
}

func (f *serviceFixture) request(start time.Time) HoldRequest {
	return HoldRequest{
		ServiceID: f.svc.ID,
		Start:     start,
		Customer:  Customer{Name: "Ana Lopez", Phone: "+15550001111", Email: "ana@example.com"},
	}
}

func TestCreateHoldWithoutDepositConfirmsImmediately(t *testing.T) {
	f := newServiceFixture(t, 0)
	ctx := context.Background()

	res, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, res.Booking.Status)
	assert.Empty(t, res.CheckoutURL)
	assert.Zero(t, res.Booking.DepositCents)
	assert.Equal(t, 1, f.notifier.count())
	assert.Equal(t, "Haircut", f.notifier.sent[0].ServiceName)
	assert.Equal(t, "America/New_York", f.notifier.sent[0].Location.String())
	assert.Equal(t, 1, f.events.Count(events.BookingHoldCreated))
	assert.Equal(t, 1, f.events.Count(events.BookingConfirmed))
	f.bridge.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestCreateHoldWithDepositStartsCheckout(t *testing.T) {
	f := newServiceFixture(t, 20)
	ctx := context.Background()

	f.bridge.On("CreateSession", mock.Anything, mock.MatchedBy(func(req payment.CheckoutRequest) bool {
		return req.AmountCents == 2000 &&
			strings.HasSuffix(req.SuccessURL, "booking="+req.BookingID) &&
			strings.HasSuffix(req.CancelURL, "booking="+req.BookingID)
	})).Return(&payment.CheckoutSession{Ref: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil)

	res, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.NoError(t, err)

	b := res.Booking
	assert.Equal(t, StatusHold, b.Status)
	assert.Equal(t, int64(2000), b.DepositCents)
	assert.Equal(t, "https://checkout.test/cs_test_1", res.CheckoutURL)
	assert.True(t, b.ExpiresAt.Equal(t0.Add(15*time.Minute)))
	assert.True(t, b.EndTime.Equal(at(13, 0)))

	stored, err := f.repo.FindByPaymentRef(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, stored.ID)
	assert.Zero(t, f.notifier.count())
	f.bridge.AssertExpectations(t)
}

func TestCreateHoldPaymentFailureKeepsHold(t *testing.T) {
	f := newServiceFixture(t, 20)
	ctx := context.Background()
	f.bridge.On("CreateSession", mock.Anything, mock.Anything).Return(nil, errors.New("stripe timeout"))

	_, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	assert.True(t, errors.Is(err, ErrPaymentSession))

	items, _, err := f.repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusHold, items[0].Status)

	// The slot stays blocked until the sweeper releases the orphaned hold.
	_, err = f.service.CreateHold(ctx, f.request(at(12, 0)))
	assert.True(t, errors.Is(err, ErrSlotUnavailable))

	f.clock.Advance(16 * time.Minute)
	n, err := NewSweeper(f.repo, nil, f.clock, nil).ReleaseExpiredHolds(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCreateHoldConflict(t *testing.T) {
	f := newServiceFixture(t, 0)
	ctx := context.Background()

	_, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.NoError(t, err)

	_, err = f.service.CreateHold(ctx, f.request(at(13, 0)))
	assert.True(t, errors.Is(err, ErrSlotUnavailable), "13:00 is inside the 15 minute buffer")
}

func TestCreateHoldValidation(t *testing.T) {
	f := newServiceFixture(t, 0)
	ctx := context.Background()

	req := f.request(at(12, 0))
	req.Customer.Email = " "
	_, err := f.service.CreateHold(ctx, req)
	assert.True(t, errors.Is(err, ErrValidation))

	req = f.request(at(12, 0))
	req.End = at(12, 30)
	_, err = f.service.CreateHold(ctx, req)
	assert.True(t, errors.Is(err, ErrValidation), "end must match the service duration")

	req = f.request(at(12, 0))
	req.ServiceID = 9999
	_, err = f.service.CreateHold(ctx, req)
	assert.True(t, errors.Is(err, catalog.ErrServiceNotFound))

	f.slots.ok = false
	_, err = f.service.CreateHold(ctx, f.request(at(12, 0)))
	assert.True(t, errors.Is(err, ErrSlotNotOffered))
}

func TestDuplicateWebhookConfirmsOnce(t *testing.T) {
	f := newServiceFixture(t, 20)
	ctx := context.Background()
	f.bridge.On("CreateSession", mock.Anything, mock.Anything).
		Return(&payment.CheckoutSession{Ref: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil)

	res, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.NoError(t, err)

	require.NoError(t, f.service.ConfirmByPaymentRef(ctx, "cs_test_1", res.Booking.ID.String()))
	require.NoError(t, f.service.ConfirmByPaymentRef(ctx, "cs_test_1", res.Booking.ID.String()))

	got, err := f.service.Get(ctx, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Equal(t, 1, f.notifier.count())
	assert.Equal(t, 1, f.events.Count(events.BookingConfirmed))
}

func TestConcurrentWebhooksConfirmOnce(t *testing.T) {
	f := newServiceFixture(t, 20)
	ctx := context.Background()
	f.bridge.On("CreateSession", mock.Anything, mock.Anything).
		Return(&payment.CheckoutSession{Ref: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil)

	_, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.service.ConfirmByPaymentRef(ctx, "cs_test_1", ""))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.notifier.count())
}

func TestFailedNoticeIsRetriedOnRedelivery(t *testing.T) {
	f := newServiceFixture(t, 20)
	ctx := context.Background()
	f.notifier.fails = 1
	f.bridge.On("CreateSession", mock.Anything, mock.Anything).
		Return(&payment.CheckoutSession{Ref: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil)

	_, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.NoError(t, err)

	require.NoError(t, f.service.ConfirmByPaymentRef(ctx, "cs_test_1", ""))
	assert.Zero(t, f.notifier.count())

	require.NoError(t, f.service.ConfirmByPaymentRef(ctx, "cs_test_1", ""))
	assert.Equal(t, 1, f.notifier.count())

	require.NoError(t, f.service.ConfirmByPaymentRef(ctx, "cs_test_1", ""))
	assert.Equal(t, 1, f.notifier.count())
}

func TestConfirmByPaymentRefFallsBackToBookingID(t *testing.T) {
	f := newServiceFixture(t, 20)
	ctx := context.Background()
	f.bridge.On("CreateSession", mock.Anything, mock.Anything).
		Return(&payment.CheckoutSession{Ref: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil)

	res, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.NoError(t, err)
	// Simulate the reference write having failed after the session was created.
	require.NoError(t, f.db.Model(&Booking{}).Where("id = ?", res.Booking.ID).Update("payment_session_ref", nil).Error)

	require.NoError(t, f.service.ConfirmByPaymentRef(ctx, "cs_test_1", res.Booking.ID.String()))

	got, err := f.repo.FindByPaymentRef(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	err = f.service.ConfirmByPaymentRef(ctx, "cs_unknown", "")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = f.service.ConfirmByPaymentRef(ctx, "cs_other", res.Booking.ID.String())
	assert.True(t, errors.Is(err, ErrNotFound), "session must match the stored reference")
}

func TestLatePaymentAfterExpiry(t *testing.T) {
	f := newServiceFixture(t, 20)
	ctx := context.Background()
	f.bridge.On("CreateSession", mock.Anything, mock.Anything).
		Return(&payment.CheckoutSession{Ref: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil)

	res, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.NoError(t, err)

	f.clock.Advance(20 * time.Minute)
	_, err = NewSweeper(f.repo, nil, f.clock, nil).ReleaseExpiredHolds(ctx)
	require.NoError(t, err)

	err = f.service.ConfirmByPaymentRef(ctx, "cs_test_1", "")
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	got, err := f.service.Get(ctx, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.Status)
	assert.Zero(t, f.notifier.count())
}

func TestAdminCancelAndNotes(t *testing.T) {
	f := newServiceFixture(t, 0)
	ctx := context.Background()

	res, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.NoError(t, err)
	id := res.Booking.ID

	b, err := f.service.UpdateAdminNotes(ctx, id, "  bring reference photo ")
	require.NoError(t, err)
	assert.Equal(t, "bring reference photo", b.AdminNotes)

	b, err = f.service.Cancel(ctx, id, "double booked by phone")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)
	assert.Equal(t, 1, f.events.Count(events.BookingCancelled))

	_, err = f.service.Cancel(ctx, id, "again")
	assert.NoError(t, err, "cancel is idempotent")
	assert.Equal(t, 1, f.events.Count(events.BookingCancelled))

	_, err = f.service.Confirm(ctx, id)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestCancelExpiredIsInvalid(t *testing.T) {
	f := newServiceFixture(t, 20)
	ctx := context.Background()
	f.bridge.On("CreateSession", mock.Anything, mock.Anything).Return(nil, errors.New("down"))

	_, err := f.service.CreateHold(ctx, f.request(at(12, 0)))
	require.Error(t, err)
	items, _, err := f.repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	f.clock.Advance(time.Hour)
	_, err = NewSweeper(f.repo, nil, f.clock, nil).ReleaseExpiredHolds(ctx)
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, items[0].ID, "")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestListRejectsUnknownStatus(t *testing.T) {
	f := newServiceFixture(t, 0)

	_, _, err := f.service.List(context.Background(), ListFilter{Status: "pending"})

	assert.True(t, errors.Is(err, ErrValidation))
}
