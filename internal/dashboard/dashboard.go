package dashboard

import (
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
)

const recentEmployeeLimit = 5

type Statistics struct {
	Scope              string           `json:"scope"`
	TotalEmployees     int64            `json:"total_employees"`
	TotalDepartments   int64            `json:"total_departments"`
	TotalWorkPositions int64            `json:"total_work_positions"`
	TodayAssignments   int64            `json:"today_assignments"`
	RecentEmployees    []RecentEmployee `json:"recent_employees"`
}

type RecentEmployee struct {
	ID             int64  `json:"id"`
	Code           string `json:"code"`
	FullName       string `json:"full_name"`
	DepartmentName string `json:"department_name"`
	PositionName   string `json:"position_name"`
}

type DepartmentStat struct {
	DepartmentID  int64  `json:"department_id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	EmployeeCount int64  `json:"employee_count"`
}

type PositionStat struct {
	WorkPositionID int64  `json:"work_position_id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Level          int    `json:"level"`
	EmployeeCount  int64  `json:"employee_count"`
}

type AttendanceCounts struct {
	TotalScheduled int64 `json:"total_scheduled"`
	CheckedIn      int64 `json:"checked_in"`
	CheckedOut     int64 `json:"checked_out"`
	OnLeave        int64 `json:"on_leave"`
	Rest           int64 `json:"rest"`
}

type ShiftTypeStat struct {
	Type      shiftModel.Type `json:"type"`
	TypeName  string          `json:"type_name"`
	Count     int64           `json:"count"`
	CheckedIn int64           `json:"checked_in"`
}

type AttendanceToday struct {
	Date datamodel.Date `json:"date"`
	AttendanceCounts
	ByShiftType []ShiftTypeStat `json:"by_shift_type"`
}
