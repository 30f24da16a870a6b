package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookingsite/internal/domain/availability"
	"bookingsite/internal/domain/catalog"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// ListFilter narrows the admin booking list. Zero values are ignored.
type ListFilter struct {
	Status    Status
	ServiceID int64
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// PageSize is the limit List actually applies.
func (f ListFilter) PageSize() int {
	if f.Limit <= 0 || f.Limit > maxPageSize {
		return defaultPageSize
	}
	return f.Limit
}

type Repository interface {
	// CreateHold inserts b if no active booking of the same service overlaps
	// [b.StartTime-buffer, b.EndTime+buffer). Check and insert are one transaction.
	CreateHold(ctx context.Context, b *Booking, buffer time.Duration) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByPaymentRef(ctx context.Context, ref string) (*Booking, error)
	SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error
	ActiveIntervals(ctx context.Context, serviceID int64, from, to time.Time) ([]availability.Interval, error)

	// Confirm and Cancel are compare-and-set transitions; they report whether
	// this call changed the row.
	Confirm(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error)
	ExpireHolds(ctx context.Context, now time.Time) (int64, error)

	ClaimConfirmation(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ReleaseConfirmation(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, f ListFilter) ([]Booking, int64, error)
	UpdateAdminNotes(ctx context.Context, id uuid.UUID, notes string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateHold(ctx context.Context, b *Booking, buffer time.Duration) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes hold creation per service on Postgres.
		var svc catalog.Service
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND active = ?", b.ServiceID, true).
			First(&svc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.ErrServiceNotFound
			}
			return err
		}

		var n int64
		if err := tx.Model(&Booking{}).
			Where("service_id = ?", b.ServiceID).
			Where("status IN ?", activeStatuses).
			Where("start_time < ? AND end_time > ?", b.EndTime.Add(buffer).UTC(), b.StartTime.Add(-buffer).UTC()).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrSlotUnavailable
		}

		return tx.Create(b).Error
	})
	if err != nil {
		if isOverlapViolation(err) {
			return ErrSlotUnavailable
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindByPaymentRef(ctx context.Context, ref string) (*Booking, error) {
	var b Booking
	if err := r.db.WithContext(ctx).Where("payment_session_ref = ?", ref).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", id).
		Update("payment_session_ref", ref)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ActiveIntervals(ctx context.Context, serviceID int64, from, to time.Time) ([]availability.Interval, error) {
	var rows []struct {
		StartTime time.Time
		EndTime   time.Time
	}
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Select("start_time, end_time").
		Where("service_id = ?", serviceID).
		Where("status IN ?", activeStatuses).
		Where("start_time < ? AND end_time > ?", to.UTC(), from.UTC()).
		Order("start_time").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]availability.Interval, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.Interval{Start: row.StartTime.UTC(), End: row.EndTime.UTC()})
	}
	return out, nil
}

func (r *repository) Confirm(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusHold).
		Updates(map[string]any{
			"status":       StatusConfirmed,
			"confirmed_at": at,
			"updated_at":   at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status IN ?", id, activeStatuses).
		Updates(map[string]any{
			"status":        StatusCancelled,
			"cancel_reason": reason,
			"cancelled_at":  at,
			"updated_at":    at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) ExpireHolds(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("status = ? AND expires_at < ?", StatusHold, now.UTC()).
		Updates(map[string]any{
			"status":     StatusExpired,
			"expired_at": now,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) ClaimConfirmation(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ? AND confirmation_sent_at IS NULL", id, StatusConfirmed).
		Update("confirmation_sent_at", at)
	return res.RowsAffected == 1, res.Error
}

func (r *repository) ReleaseConfirmation(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", id).
		Update("confirmation_sent_at", nil).Error
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ServiceID > 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	if !f.From.IsZero() {
		q = q.Where("start_time >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("start_time < ?", f.To.UTC())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Booking
	if err := q.Order("start_time ASC").Limit(f.PageSize()).Offset(f.Offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) UpdateAdminNotes(ctx context.Context, id uuid.UUID, notes string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"admin_notes": notes, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isOverlapViolation recognizes the Postgres exclusion constraint and unique
// violations raised when a concurrent writer won the slot.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no_overlapping_active_bookings")
}
