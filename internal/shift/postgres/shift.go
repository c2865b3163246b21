package postgres

import (
	"context"
	"errors"

	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
	"github.com/frahmantamala/staff-attendance/internal/shift"
	"gorm.io/gorm"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) shift.RepositoryAPI {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) List(ctx context.Context, includeInactive bool) ([]*shiftModel.Shift, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var rows []*shiftModel.Shift
	err := q.Order("type ASC").Order("start_time ASC").Find(&rows).Error
	return rows, err
}

func (r *ShiftRepository) ListByType(ctx context.Context, t shiftModel.Type) ([]*shiftModel.Shift, error) {
	var rows []*shiftModel.Shift
	err := r.db.WithContext(ctx).
		Where("type = ? AND is_active = ?", t, true).
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ShiftRepository) GetByID(ctx context.Context, id int64) (*shiftModel.Shift, error) {
	var s shiftModel.Shift
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShiftRepository) Create(ctx context.Context, s *shiftModel.Shift) error {
	active := s.IsActive
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		// is_active defaults to true, so a false value is skipped on insert
		s.IsActive = false
		return tx.Model(s).Update("is_active", false).Error
	})
}

func (r *ShiftRepository) Update(ctx context.Context, s *shiftModel.Shift) error {
	return r.db.WithContext(ctx).Save(s).Error
}
