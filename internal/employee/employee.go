package employee

import (
	"time"

	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
)

type Employee struct {
	ID             int64          `json:"id"`
	Code           string         `json:"code"`
	FullName       string         `json:"full_name"`
	DateOfBirth    datamodel.Date `json:"date_of_birth"`
	Age            int            `json:"age,omitempty"`
	Email          string         `json:"email"`
	Phone          *string        `json:"phone,omitempty"`
	IsActive       bool           `json:"is_active"`
	DepartmentID   int64          `json:"department_id"`
	DepartmentName string         `json:"department_name,omitempty"`
	WorkPositionID int64          `json:"work_position_id"`
	PositionName   string         `json:"position_name,omitempty"`
	PositionLevel  *int           `json:"position_level,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func FromDataModel(e *employeeModel.Employee, now time.Time) *Employee {
	out := &Employee{
		ID:             e.ID,
		Code:           e.Code,
		FullName:       e.FullName,
		DateOfBirth:    e.DateOfBirth,
		Age:            AgeOn(e.DateOfBirth, now),
		Email:          e.Email,
		Phone:          e.Phone,
		IsActive:       e.IsActive,
		DepartmentID:   e.DepartmentID,
		WorkPositionID: e.WorkPositionID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.Department != nil {
		out.DepartmentName = e.Department.Name
	}
	if e.WorkPosition != nil {
		out.PositionName = e.WorkPosition.Name
		level := e.WorkPosition.Level
		out.PositionLevel = &level
	}
	return out
}

// AgeOn returns completed years between dob and now, or 0 for an unknown birth date.
func AgeOn(dob datamodel.Date, now time.Time) int {
	if dob.IsZero() {
		return 0
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// TargetOf describes a stored employee for scope checks. The work position must be
// preloaded for its level to count.
func TargetOf(e *employeeModel.Employee) access.Target {
	t := access.Target{}.WithEmployee(e.ID).WithDepartment(e.DepartmentID)
	if level, ok := e.PositionLevel(); ok {
		t = t.WithPositionLevel(level)
	}
	return t
}
