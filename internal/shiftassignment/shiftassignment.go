package shiftassignment

import (
	"time"

	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	assignmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shiftassignment"
)

// Columns maps listing scopes onto an assignment query joined with employees.
var Columns = access.Columns{
	Employee:   "shift_assignments.employee_id",
	Department: "employees.department_id",
}

type ShiftAssignment struct {
	ID           int64          `json:"id"`
	WorkDate     datamodel.Date `json:"work_date"`
	StatusCode   string         `json:"status_code"`
	StatusName   string         `json:"status_name"`
	Notes        string         `json:"notes,omitempty"`
	EmployeeID   int64          `json:"employee_id"`
	EmployeeCode string         `json:"employee_code,omitempty"`
	EmployeeName string         `json:"employee_name,omitempty"`
	DepartmentID int64          `json:"department_id,omitempty"`
	ShiftID      int64          `json:"shift_id"`
	ShiftName    string         `json:"shift_name,omitempty"`
	StartTime    string         `json:"start_time,omitempty"`
	EndTime      string         `json:"end_time,omitempty"`
	CheckInTime  *time.Time     `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time     `json:"check_out_time,omitempty"`
	CreatedBy    *int64         `json:"created_by,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func StatusName(code string) string {
	switch code {
	case assignmentModel.StatusWorked:
		return "Worked"
	case assignmentModel.StatusRest:
		return "Rest"
	case assignmentModel.StatusLeave:
		return "Leave"
	default:
		return "Unknown"
	}
}

func ValidStatus(code string) bool {
	return StatusName(code) != "Unknown"
}

func FromDataModel(a *assignmentModel.ShiftAssignment) *ShiftAssignment {
	out := &ShiftAssignment{
		ID:           a.ID,
		WorkDate:     a.WorkDate,
		StatusCode:   a.StatusCode,
		StatusName:   StatusName(a.StatusCode),
		Notes:        a.Notes,
		EmployeeID:   a.EmployeeID,
		ShiftID:      a.ShiftID,
		CheckInTime:  a.CheckInTime,
		CheckOutTime: a.CheckOutTime,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.Employee != nil {
		out.EmployeeCode = a.Employee.Code
		out.EmployeeName = a.Employee.FullName
		out.DepartmentID = a.Employee.DepartmentID
	}
	if a.Shift != nil {
		out.ShiftName = a.Shift.Name
		out.StartTime = a.Shift.StartTime
		out.EndTime = a.Shift.EndTime
	}
	return out
}
