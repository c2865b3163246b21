package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
	assignmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shiftassignment"
	"github.com/frahmantamala/staff-attendance/internal/shiftassignment"
	"gorm.io/gorm"
)

type ShiftAssignmentRepository struct {
	db *gorm.DB
}

func NewShiftAssignmentRepository(db *gorm.DB) shiftassignment.RepositoryAPI {
	return &ShiftAssignmentRepository{db: db}
}

func (r *ShiftAssignmentRepository) List(ctx context.Context, scope access.ScopeDecision, filter shiftassignment.ListFilter, limit, offset int) ([]*assignmentModel.ShiftAssignment, int64, error) {
	q := r.db.WithContext(ctx).Model(&assignmentModel.ShiftAssignment{}).
		Joins("JOIN employees ON employees.id = shift_assignments.employee_id").
		Scopes(scope.Scope(shiftassignment.Columns))
	if filter.EmployeeID != nil {
		q = q.Where("shift_assignments.employee_id = ?", *filter.EmployeeID)
	}
	if filter.ShiftID != nil {
		q = q.Where("shift_assignments.shift_id = ?", *filter.ShiftID)
	}
	if filter.StatusCode != "" {
		q = q.Where("shift_assignments.status_code = ?", filter.StatusCode)
	}
	if filter.From != nil {
		q = q.Where("shift_assignments.work_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("shift_assignments.work_date <= ?", *filter.To)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*assignmentModel.ShiftAssignment
	err := q.Preload("Employee").Preload("Shift").
		Order("shift_assignments.work_date DESC").Order("shift_assignments.id ASC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *ShiftAssignmentRepository) GetByID(ctx context.Context, id int64) (*assignmentModel.ShiftAssignment, error) {
	var a assignmentModel.ShiftAssignment
	err := r.db.WithContext(ctx).Preload("Employee").Preload("Shift").Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *ShiftAssignmentRepository) Exists(ctx context.Context, employeeID, shiftID int64, date datamodel.Date, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&assignmentModel.ShiftAssignment{}).
		Where("employee_id = ? AND shift_id = ? AND work_date = ?", employeeID, shiftID, date)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *ShiftAssignmentRepository) GetShift(ctx context.Context, id int64) (*shiftModel.Shift, error) {
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

func (r *ShiftAssignmentRepository) Create(ctx context.Context, a *assignmentModel.ShiftAssignment) error {
	return r.db.WithContext(ctx).Omit("Employee", "Shift").Create(a).Error
}

func (r *ShiftAssignmentRepository) Update(ctx context.Context, a *assignmentModel.ShiftAssignment) error {
	return r.db.WithContext(ctx).Omit("Employee", "Shift").Save(a).Error
}

func (r *ShiftAssignmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&assignmentModel.ShiftAssignment{}, id).Error
}
