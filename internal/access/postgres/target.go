package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/jmoiron/sqlx"
)

// ErrTargetNotFound is returned when the employee does not exist.
var ErrTargetNotFound = access.ErrTargetNotFound

// TargetRepository resolves the ownership attributes of an employee record.
type TargetRepository struct {
	db *sqlx.DB
}

func NewTargetRepository(db *sqlx.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

type targetRow struct {
	EmployeeID    int64         `db:"employee_id"`
	DepartmentID  int64         `db:"department_id"`
	PositionLevel sql.NullInt64 `db:"position_level"`
}

const employeeTargetQuery = `SELECT e.id AS employee_id, e.department_id, wp.level AS position_level
	FROM employees e
	LEFT JOIN work_positions wp ON wp.id = e.work_position_id
	WHERE e.id = ?`

// EmployeeTarget loads the employee as an access target. A missing position leaves the level unset.
func (r *TargetRepository) EmployeeTarget(ctx context.Context, employeeID int64) (access.Target, error) {
	var row targetRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(employeeTargetQuery), employeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return access.Target{}, ErrTargetNotFound
		}
		return access.Target{}, fmt.Errorf("load employee target %d: %w", employeeID, err)
	}

	t := access.Target{}.WithEmployee(row.EmployeeID).WithDepartment(row.DepartmentID)
	if row.PositionLevel.Valid {
		t = t.WithPositionLevel(int(row.PositionLevel.Int64))
	}
	return t, nil
}
