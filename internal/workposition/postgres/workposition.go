package postgres

import (
	"context"
	"errors"

	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
	"github.com/frahmantamala/staff-attendance/internal/workposition"
	"gorm.io/gorm"
)

type WorkPositionRepository struct {
	db *gorm.DB
}

func NewWorkPositionRepository(db *gorm.DB) workposition.RepositoryAPI {
	return &WorkPositionRepository{db: db}
}

func (r *WorkPositionRepository) List(ctx context.Context, includeInactive bool) ([]*workpositionModel.WorkPosition, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var rows []*workpositionModel.WorkPosition
	err := q.Order("level ASC, name ASC").Find(&rows).Error
	return rows, err
}

func (r *WorkPositionRepository) ListByLevel(ctx context.Context, level int) ([]*workpositionModel.WorkPosition, error) {
	var rows []*workpositionModel.WorkPosition
	err := r.db.WithContext(ctx).
		Where("level = ? AND is_active = ?", level, true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *WorkPositionRepository) GetByID(ctx context.Context, id int64) (*workpositionModel.WorkPosition, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *WorkPositionRepository) GetByCode(ctx context.Context, code string) (*workpositionModel.WorkPosition, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *WorkPositionRepository) first(ctx context.Context, query string, arg interface{}) (*workpositionModel.WorkPosition, error) {
	var p workpositionModel.WorkPosition
	if err := r.db.WithContext(ctx).Where(query, arg).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *WorkPositionRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&workpositionModel.WorkPosition{}).Where("code = ?", code)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *WorkPositionRepository) Create(ctx context.Context, p *workpositionModel.WorkPosition) error {
	active := p.IsActive
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		p.IsActive = false
		return tx.Model(p).Update("is_active", false).Error
	})
}

func (r *WorkPositionRepository) Update(ctx context.Context, p *workpositionModel.WorkPosition) error {
	return r.db.WithContext(ctx).Save(p).Error
}
