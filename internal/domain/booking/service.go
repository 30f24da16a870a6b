package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookingsite/internal/domain/catalog"
	"bookingsite/internal/domain/notification"
	"bookingsite/internal/domain/payment"
	"bookingsite/internal/events"
	"bookingsite/internal/pkg/clock"
)

// bookingIDPlaceholder is replaced in checkout return URLs.
const bookingIDPlaceholder = "{BOOKING_ID}"

type Customer struct {
	Name  string
	Phone string
	Email string
	Notes string
}

type HoldRequest struct {
	ServiceID int64
	Start     time.Time
	// End is optional; when set it must equal Start plus the service duration.
	End      time.Time
	Customer Customer
}

type HoldResult struct {
	Booking     *Booking
	CheckoutURL string
}

type CheckoutURLs struct {
	Success string
	Cancel  string
}

type Deps struct {
	Repo     Repository
	Services ServiceReader
	Settings SettingsReader
	Slots    SlotChecker
	Deposits DepositCalculator
	Checkout payment.Bridge
	Notifier notification.Notifier
	Events   events.Publisher
	Clock    clock.Clock
	Logger   *zap.Logger
	URLs     CheckoutURLs
}

type Service struct {
	repo     Repository
	services ServiceReader
	settings SettingsReader
	slots    SlotChecker
	deposits DepositCalculator
	checkout payment.Bridge
	notifier notification.Notifier
	events   events.Publisher
	clock    clock.Clock
	log      *zap.Logger
	urls     CheckoutURLs
}

func NewService(d Deps) *Service {
	s := &Service{
		repo:     d.Repo,
		services: d.Services,
		settings: d.Settings,
		slots:    d.Slots,
		deposits: d.Deposits,
		checkout: d.Checkout,
		notifier: d.Notifier,
		events:   d.Events,
		clock:    d.Clock,
		log:      d.Logger,
		urls:     d.URLs,
	}
	if s.checkout == nil {
		s.checkout = payment.DisabledBridge{}
	}
	if s.notifier == nil {
		s.notifier = notification.NewLogNotifier(d.Logger)
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.clock == nil {
		s.clock = clock.Real{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// CreateHold reserves a slot. The hold row is committed before any payment
// call; if the checkout session cannot be created the hold stays and the
// sweeper reclaims it.
func (s *Service) CreateHold(ctx context.Context, req HoldRequest) (*HoldResult, error) {
	if err := validateHold(req); err != nil {
		return nil, err
	}

	svc, err := s.services.GetActiveService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	start := req.Start.UTC()
	end := start.Add(svc.Duration())
	if !req.End.IsZero() && !req.End.Equal(end) {
		return nil, fmt.Errorf("%w: end must be start plus %d minutes", ErrValidation, svc.DurationMinutes)
	}

	ok, err := s.slots.IsBookable(ctx, svc.ID, start)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotNotOffered
	}

	deposit, err := s.deposits.ForService(ctx, svc.PriceCents, svc)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	b := &Booking{
		ID:            uuid.New(),
		ServiceID:     svc.ID,
		StartTime:     start,
		EndTime:       end,
		Status:        StatusHold,
		CustomerName:  strings.TrimSpace(req.Customer.Name),
		CustomerPhone: strings.TrimSpace(req.Customer.Phone),
		CustomerEmail: strings.TrimSpace(req.Customer.Email),
		CustomerNotes: strings.TrimSpace(req.Customer.Notes),
		PriceCents:    svc.PriceCents,
		DepositCents:  deposit,
		ExpiresAt:     now.Add(st.HoldDuration()),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateHold(ctx, b, st.Buffer()); err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			s.log.Info("hold rejected, slot taken",
				zap.Int64("service_id", svc.ID), zap.Time("start", start))
		}
		return nil, err
	}

	log := s.log.With(zap.String("booking_id", b.ID.String()))
	log.Info("hold created",
		zap.Int64("service_id", svc.ID),
		zap.Time("start", start),
		zap.Int64("deposit_cents", deposit),
		zap.Time("expires_at", b.ExpiresAt))
	s.publish(ctx, events.BookingHoldCreated, b, map[string]any{
		"service_id":    b.ServiceID,
		"start":         b.StartTime,
		"deposit_cents": b.DepositCents,
		"expires_at":    b.ExpiresAt,
	})

	if deposit == 0 {
		confirmed, err := s.confirm(ctx, b.ID, "no_deposit")
		if err != nil {
			return nil, err
		}
		return &HoldResult{Booking: confirmed}, nil
	}

	session, err := s.checkout.CreateSession(ctx, payment.CheckoutRequest{
		BookingID:     b.ID.String(),
		AmountCents:   deposit,
		Description:   "Deposit: " + svc.Name,
		SuccessURL:    withBookingID(s.urls.Success, b.ID),
		CancelURL:     withBookingID(s.urls.Cancel, b.ID),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
	})
	if err != nil {
		log.Warn("checkout session failed, hold left to expire", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentSession, err)
	}

	if err := s.repo.SetPaymentRef(ctx, b.ID, session.Ref); err != nil {
		// The session metadata still carries the booking id, so the webhook
		// can resolve it without the stored reference.
		log.Error("store payment session ref", zap.String("session", session.Ref), zap.Error(err))
	} else {
		ref := session.Ref
		b.PaymentSessionRef = &ref
	}

	return &HoldResult{Booking: b, CheckoutURL: session.URL}, nil
}

// Confirm moves a hold to confirmed. Confirming a confirmed booking is a no-op.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.confirm(ctx, id, "admin")
}

// ConfirmByPaymentRef handles a paid checkout session. bookingID is the id
// from the session metadata, used when the reference was never stored.
func (s *Service) ConfirmByPaymentRef(ctx context.Context, sessionRef, bookingID string) error {
	b, err := s.repo.FindByPaymentRef(ctx, sessionRef)
	if errors.Is(err, ErrNotFound) && bookingID != "" {
		id, perr := uuid.Parse(bookingID)
		if perr != nil {
			return fmt.Errorf("%w: malformed booking id in session metadata", ErrNotFound)
		}
		b, err = s.repo.GetByID(ctx, id)
		if err == nil {
			if b.PaymentSessionRef != nil && *b.PaymentSessionRef != sessionRef {
				s.log.Warn("payment session does not match booking",
					zap.String("booking_id", bookingID), zap.String("session", sessionRef))
				return ErrNotFound
			}
			if b.PaymentSessionRef == nil {
				if err := s.repo.SetPaymentRef(ctx, b.ID, sessionRef); err != nil {
					return err
				}
			}
		}
	}
	if err != nil {
		return err
	}

	_, err = s.confirm(ctx, b.ID, "payment")
	return err
}

func (s *Service) confirm(ctx context.Context, id uuid.UUID, source string) (*Booking, error) {
	log := s.log.With(zap.String("booking_id", id.String()), zap.String("source", source))

	changed, err := s.repo.Confirm(ctx, id, s.clock.Now())
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case changed:
		log.Info("booking confirmed")
	case b.Status == StatusConfirmed:
		log.Debug("booking already confirmed")
	default:
		if source == "payment" {
			log.Warn("payment received for inactive booking, needs manual follow-up", zap.String("status", string(b.Status)))
		}
		return b, ErrInvalidTransition
	}

	s.sendConfirmation(ctx, b)
	return b, nil
}

// sendConfirmation runs the confirmation side effects at most once per
// booking. A failed send gives the claim back so a redelivered webhook retries.
func (s *Service) sendConfirmation(ctx context.Context, b *Booking) {
	log := s.log.With(zap.String("booking_id", b.ID.String()))

	claimed, err := s.repo.ClaimConfirmation(ctx, b.ID, s.clock.Now())
	if err != nil {
		log.Error("claim confirmation", zap.Error(err))
		return
	}
	if !claimed {
		return
	}

	msg := notification.Confirmation{
		BookingID:     b.ID.String(),
		Start:         b.StartTime,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		CustomerEmail: b.CustomerEmail,
		DepositCents:  b.DepositCents,
	}
	if svc, err := s.services.GetActiveService(ctx, b.ServiceID); err == nil {
		msg.ServiceName = svc.Name
	} else if !errors.Is(err, catalog.ErrServiceNotFound) {
		log.Warn("load service for confirmation", zap.Error(err))
	}
	if st, err := s.settings.Get(ctx); err == nil {
		msg.Location = st.Location()
	}

	if err := s.notifier.BookingConfirmed(ctx, msg); err != nil {
		log.Error("confirmation notice failed", zap.Error(err))
		if err := s.repo.ReleaseConfirmation(ctx, b.ID); err != nil {
			log.Error("release confirmation claim", zap.Error(err))
		}
		return
	}

	s.publish(ctx, events.BookingConfirmed, b, map[string]any{
		"service_id":    b.ServiceID,
		"start":         b.StartTime,
		"deposit_cents": b.DepositCents,
	})
}

// Cancel is an admin action on a hold or confirmed booking. Cancelling a
// cancelled booking is a no-op.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*Booking, error) {
	reason = strings.TrimSpace(reason)
	changed, err := s.repo.Cancel(ctx, id, reason, s.clock.Now())
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		if b.Status == StatusCancelled {
			return b, nil
		}
		return b, ErrInvalidTransition
	}

	s.log.Info("booking cancelled", zap.String("booking_id", id.String()), zap.String("reason", reason))
	s.publish(ctx, events.BookingCancelled, b, map[string]any{
		"service_id": b.ServiceID,
		"start":      b.StartTime,
		"reason":     reason,
	})
	return b, nil
}

func (s *Service) UpdateAdminNotes(ctx context.Context, id uuid.UUID, notes string) (*Booking, error) {
	if err := s.repo.UpdateAdminNotes(ctx, id, strings.TrimSpace(notes), s.clock.Now()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	return s.repo.List(ctx, f)
}

// publish is best-effort; a broker outage never fails the booking flow.
func (s *Service) publish(ctx context.Context, t events.Type, b *Booking, data map[string]any) {
	err := s.events.Publish(ctx, events.Event{
		Type:       t,
		Key:        b.ID.String(),
		OccurredAt: s.clock.Now(),
		Data:       data,
	})
	if err != nil {
		s.log.Warn("publish booking event", zap.String("type", string(t)), zap.String("booking_id", b.ID.String()), zap.Error(err))
	}
}

func validateHold(req HoldRequest) error {
	switch {
	case req.ServiceID <= 0:
		return fmt.Errorf("%w: service_id is required", ErrValidation)
	case req.Start.IsZero():
		return fmt.Errorf("%w: start is required", ErrValidation)
	case strings.TrimSpace(req.Customer.Name) == "":
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	case strings.TrimSpace(req.Customer.Email) == "":
		return fmt.Errorf("%w: customer email is required", ErrValidation)
	}
	return nil
}

func withBookingID(url string, id uuid.UUID) string {
	return strings.ReplaceAll(url, bookingIDPlaceholder, id.String())
}
