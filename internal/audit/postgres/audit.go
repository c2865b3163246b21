package postgres

import (
	"context"

	"github.com/frahmantamala/staff-attendance/internal/audit"
	auditModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/audit"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{db: db}
}

// Insert ignores an event id that was already written, so redelivered entries are harmless.
func (r *AuditRepository) Insert(ctx context.Context, row *auditModel.AccessAuditLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(row).Error
}

func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter, limit, offset int) ([]*auditModel.AccessAuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&auditModel.AccessAuditLog{})
	if filter.Decision != "" {
		q = q.Where("decision = ?", filter.Decision)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		q = q.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("occurred_at <= ?", *filter.To)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*auditModel.AccessAuditLog
	err := q.Order("occurred_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}
