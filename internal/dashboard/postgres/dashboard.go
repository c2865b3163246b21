package postgres

import (
	"context"

	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	assignmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shiftassignment"
	"github.com/frahmantamala/staff-attendance/internal/dashboard"
	"gorm.io/gorm"
)

var (
	departmentColumns = access.Columns{Employee: "employees.id", Department: "departments.id"}
	assignmentColumns = access.Columns{Employee: "shift_assignments.employee_id", Department: "employees.department_id"}
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) dashboard.RepositoryAPI {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) activeEmployees(ctx context.Context, scope access.ScopeDecision) *gorm.DB {
	return r.db.WithContext(ctx).Table("employees").
		Where("employees.is_active = ?", true).
		Scopes(scope.Scope(access.EmployeeColumns))
}

func (r *DashboardRepository) todaysAssignments(ctx context.Context, scope access.ScopeDecision, date datamodel.Date) *gorm.DB {
	return r.db.WithContext(ctx).Table("shift_assignments").
		Joins("JOIN employees ON employees.id = shift_assignments.employee_id").
		Where("shift_assignments.work_date = ?", date).
		Scopes(scope.Scope(assignmentColumns))
}

func (r *DashboardRepository) CountEmployees(ctx context.Context, scope access.ScopeDecision) (int64, error) {
	var n int64
	err := r.activeEmployees(ctx, scope).Count(&n).Error
	return n, err
}

// CountDepartments counts active departments; a self scope sees only its own department.
func (r *DashboardRepository) CountDepartments(ctx context.Context, scope access.ScopeDecision) (int64, error) {
	q := r.db.WithContext(ctx).Table("departments").Where("departments.is_active = ?", true)
	if scope.Kind == access.ScopeSelfOnly {
		q = q.Where("departments.id IN (?)",
			r.db.WithContext(ctx).Table("employees").Select("department_id").Where("id = ?", scope.EmployeeID))
	} else {
		q = q.Scopes(scope.Scope(departmentColumns))
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *DashboardRepository) CountWorkPositions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("work_positions").Where("is_active = ?", true).Count(&n).Error
	return n, err
}

func (r *DashboardRepository) CountAssignments(ctx context.Context, scope access.ScopeDecision, date datamodel.Date) (int64, error) {
	var n int64
	err := r.todaysAssignments(ctx, scope, date).Count(&n).Error
	return n, err
}

func (r *DashboardRepository) RecentEmployees(ctx context.Context, scope access.ScopeDecision, limit int) ([]dashboard.RecentEmployee, error) {
	var rows []dashboard.RecentEmployee
	err := r.activeEmployees(ctx, scope).
		Select("employees.id, employees.code, employees.full_name, " +
			"COALESCE(departments.name, '') AS department_name, COALESCE(work_positions.name, '') AS position_name").
		Joins("LEFT JOIN departments ON departments.id = employees.department_id").
		Joins("LEFT JOIN work_positions ON work_positions.id = employees.work_position_id").
		Order("employees.created_at DESC").Order("employees.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// EmployeesByDepartment drops departments with no employees inside a narrowed scope.
func (r *DashboardRepository) EmployeesByDepartment(ctx context.Context, scope access.ScopeDecision) ([]dashboard.DepartmentStat, error) {
	var rows []dashboard.DepartmentStat
	err := r.db.WithContext(ctx).Table("departments").
		Select("departments.id AS department_id, departments.code, departments.name, COUNT(employees.id) AS employee_count").
		Joins("LEFT JOIN employees ON employees.department_id = departments.id AND employees.is_active = ?", true).
		Where("departments.is_active = ?", true).
		Scopes(scope.Scope(departmentColumns)).
		Group("departments.id, departments.code, departments.name").
		Order("employee_count DESC").Order("departments.name ASC").
		Scan(&rows).Error
	return rows, err
}

// EmployeesByPosition lists every active position for an unrestricted scope; narrower scopes
// only see positions someone in scope holds.
func (r *DashboardRepository) EmployeesByPosition(ctx context.Context, scope access.ScopeDecision) ([]dashboard.PositionStat, error) {
	var rows []dashboard.PositionStat
	q := r.db.WithContext(ctx).Table("work_positions").
		Select("work_positions.id AS work_position_id, work_positions.code, work_positions.name, work_positions.level, COUNT(employees.id) AS employee_count").
		Joins("LEFT JOIN employees ON employees.work_position_id = work_positions.id AND employees.is_active = ?", true).
		Where("work_positions.is_active = ?", true)
	if scope.Kind != access.ScopeAll {
		q = q.Scopes(scope.Scope(access.EmployeeColumns))
	}
	err := q.Group("work_positions.id, work_positions.code, work_positions.name, work_positions.level").
		Order("work_positions.level ASC").Order("employee_count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *DashboardRepository) Attendance(ctx context.Context, scope access.ScopeDecision, date datamodel.Date) (dashboard.AttendanceCounts, error) {
	var out dashboard.AttendanceCounts
	err := r.todaysAssignments(ctx, scope, date).
		Select(
			"COUNT(*) AS total_scheduled, "+
				"COALESCE(SUM(CASE WHEN shift_assignments.check_in_time IS NOT NULL THEN 1 ELSE 0 END), 0) AS checked_in, "+
				"COALESCE(SUM(CASE WHEN shift_assignments.check_out_time IS NOT NULL THEN 1 ELSE 0 END), 0) AS checked_out, "+
				"COALESCE(SUM(CASE WHEN shift_assignments.status_code = ? THEN 1 ELSE 0 END), 0) AS on_leave, "+
				"COALESCE(SUM(CASE WHEN shift_assignments.status_code = ? THEN 1 ELSE 0 END), 0) AS rest",
			assignmentModel.StatusLeave, assignmentModel.StatusRest).
		Scan(&out).Error
	return out, err
}

func (r *DashboardRepository) AttendanceByShiftType(ctx context.Context, scope access.ScopeDecision, date datamodel.Date) ([]dashboard.ShiftTypeStat, error) {
	var rows []dashboard.ShiftTypeStat
	err := r.todaysAssignments(ctx, scope, date).
		Joins("JOIN shifts ON shifts.id = shift_assignments.shift_id").
		Select("shifts.type AS type, COUNT(*) AS count, " +
			"COALESCE(SUM(CASE WHEN shift_assignments.check_in_time IS NOT NULL THEN 1 ELSE 0 END), 0) AS checked_in").
		Group("shifts.type").
		Order("shifts.type ASC").
		Scan(&rows).Error
	return rows, err
}
