package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/staff-attendance/internal/access"
	departmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
	"github.com/frahmantamala/staff-attendance/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context, scope access.ScopeDecision, filter employee.ListFilter, limit, offset int) ([]*employeeModel.Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&employeeModel.Employee{}).Scopes(scope.Scope(access.EmployeeColumns))
	if !filter.IncludeInactive {
		q = q.Where("employees.is_active = ?", true)
	}
	if filter.DepartmentID != nil {
		q = q.Where("employees.department_id = ?", *filter.DepartmentID)
	}
	if filter.WorkPositionID != nil {
		q = q.Where("employees.work_position_id = ?", *filter.WorkPositionID)
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(employees.full_name) LIKE ? OR LOWER(employees.code) LIKE ? OR LOWER(employees.email) LIKE ?", like, like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*employeeModel.Employee
	err := q.Preload("Department").Preload("WorkPosition").
		Order("employees.full_name ASC").Order("employees.id ASC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeModel.Employee, error) {
	return r.first(ctx, "employees.id = ?", id)
}

func (r *EmployeeRepository) GetByCode(ctx context.Context, code string) (*employeeModel.Employee, error) {
	return r.first(ctx, "employees.code = ?", code)
}

func (r *EmployeeRepository) first(ctx context.Context, query string, arg interface{}) (*employeeModel.Employee, error) {
	var e employeeModel.Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("WorkPosition").
		Where(query, arg).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&employeeModel.Employee{}).Where("code = ?", code)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeModel.Employee) error {
	active := e.IsActive
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Department", "WorkPosition").Create(e).Error; err != nil {
			return err
		}
		return keepInactive(tx, e, active)
	})
}

// keepInactive undoes the column default when a row was created inactive.
func keepInactive(tx *gorm.DB, e *employeeModel.Employee, active bool) error {
	if active {
		return nil
	}
	e.IsActive = false
	return tx.Model(e).Update("is_active", false).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employeeModel.Employee) error {
	return r.db.WithContext(ctx).Omit("Department", "WorkPosition").Save(e).Error
}

func (r *EmployeeRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&employeeModel.Employee{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *EmployeeRepository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&departmentModel.Department{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&n).Error
	return n > 0, err
}

func (r *EmployeeRepository) PositionLevel(ctx context.Context, workPositionID int64) (int, bool, error) {
	var wp workpositionModel.WorkPosition
	err := r.db.WithContext(ctx).Select("id", "level").Where("id = ?", workPositionID).First(&wp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return wp.Level, true, nil
}
