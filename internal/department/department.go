package department

import (
	"time"

	departmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
)

type Department struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	LeaderID      *int64    `json:"leader_id,omitempty"`
	IsActive      bool      `json:"is_active"`
	EmployeeCount int64     `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromDataModel(d *departmentModel.Department) *Department {
	return &Department{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		LeaderID:    d.LeaderID,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func ToDataModel(d *Department) *departmentModel.Department {
	return &departmentModel.Department{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		LeaderID:    d.LeaderID,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
