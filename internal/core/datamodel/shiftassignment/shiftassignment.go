package shiftassignment

import (
	"time"

	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
)

const (
	StatusWorked = "X"
	StatusRest   = "RO"
	StatusLeave  = "LE"
)

type ShiftAssignment struct {
	ID           int64              `gorm:"primaryKey"`
	WorkDate     datamodel.Date     `gorm:"column:work_date;type:date;not null;uniqueIndex:idx_assignment_unique"`
	StatusCode   string             `gorm:"column:status_code;size:10;not null"`
	Notes        string             `gorm:"column:notes"`
	EmployeeID   int64              `gorm:"column:employee_id;not null;uniqueIndex:idx_assignment_unique"`
	ShiftID      int64              `gorm:"column:shift_id;not null;uniqueIndex:idx_assignment_unique"`
	CheckInTime  *time.Time         `gorm:"column:check_in_time"`
	CheckOutTime *time.Time         `gorm:"column:check_out_time"`
	CreatedBy    *int64             `gorm:"column:created_by"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
	Employee     *employee.Employee `gorm:"foreignKey:EmployeeID"`
	Shift        *shift.Shift       `gorm:"foreignKey:ShiftID"`
}

func (ShiftAssignment) TableName() string { return "shift_assignments" }
