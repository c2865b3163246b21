package employee

import (
	"time"

	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
)

type Employee struct {
	ID             int64                      `gorm:"primaryKey"`
	Code           string                     `gorm:"column:code;uniqueIndex;size:20;not null"`
	FullName       string                     `gorm:"column:full_name;size:255;not null"`
	DateOfBirth    datamodel.Date             `gorm:"column:date_of_birth;type:date"`
	Email          string                     `gorm:"column:email;size:255;not null"`
	Phone          *string                    `gorm:"column:phone;size:20"`
	DepartmentID   int64                      `gorm:"column:department_id;not null;index"`
	WorkPositionID int64                      `gorm:"column:work_position_id;not null"`
	IsActive       bool                       `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
	Department     *department.Department     `gorm:"foreignKey:DepartmentID"`
	WorkPosition   *workposition.WorkPosition `gorm:"foreignKey:WorkPositionID"`
}

func (Employee) TableName() string { return "employees" }

// PositionLevel is the level of the preloaded work position, if any.
func (e *Employee) PositionLevel() (int, bool) {
	if e.WorkPosition == nil {
		return 0, false
	}
	return e.WorkPosition.Level, true
}
