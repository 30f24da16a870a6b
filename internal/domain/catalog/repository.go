package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	GetActiveService(ctx context.Context, id int64) (*Service, error)
	ListActiveServices(ctx context.Context) ([]Service, error)
	ListRules(ctx context.Context) ([]AvailabilityRule, error)
	BlackoutsBetween(ctx context.Context, from, to string) ([]BlackoutDate, error)
	CreateBlackout(ctx context.Context, b *BlackoutDate) error
	DeleteBlackout(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetActiveService(ctx context.Context, id int64) (*Service, error) {
	var s Service
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListActiveServices(ctx context.Context) ([]Service, error) {
	var out []Service
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&out).Error
	return out, err
}

func (r *repository) ListRules(ctx context.Context) ([]AvailabilityRule, error) {
	var out []AvailabilityRule
	err := r.db.WithContext(ctx).Order("day_of_week").Find(&out).Error
	return out, err
}

// BlackoutsBetween returns blackouts with from <= date <= to. Dates are
// zero-padded ISO strings, so lexical order equals calendar order.
func (r *repository) BlackoutsBetween(ctx context.Context, from, to string) ([]BlackoutDate, error) {
	var out []BlackoutDate
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date").
		Find(&out).Error
	return out, err
}

func (r *repository) CreateBlackout(ctx context.Context, b *BlackoutDate) error {
	err := r.db.WithContext(ctx).Create(b).Error
	if err != nil && isUniqueConstraintError(err) {
		return ErrBlackoutExists
	}
	return err
}

func (r *repository) DeleteBlackout(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&BlackoutDate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBlackoutNotFound
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
