package employee

import (
	"strings"

	"github.com/frahmantamala/staff-attendance/internal/core/common/validation"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
)

const (
	maxCodeLength  = 20
	maxPhoneLength = 20
)

type EmployeeDTO struct {
	Code           string          `json:"code"`
	FullName       string          `json:"full_name"`
	DateOfBirth    *datamodel.Date `json:"date_of_birth,omitempty"`
	Email          string          `json:"email"`
	Phone          *string         `json:"phone,omitempty"`
	DepartmentID   int64           `json:"department_id"`
	WorkPositionID int64           `json:"work_position_id"`
	IsActive       *bool           `json:"is_active,omitempty"`
}

func (d *EmployeeDTO) Normalize() {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Phone != nil {
		phone := strings.TrimSpace(*d.Phone)
		if phone == "" {
			d.Phone = nil
		} else {
			d.Phone = &phone
		}
	}
}

func (d EmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("code", d.Code).Required().MaxLength(maxCodeLength)
	v.Field("full_name", d.FullName).Required().MaxLength(255)
	v.Field("date_of_birth", d.DateOfBirth).Required().NotFuture()
	v.Field("email", d.Email).Required().MaxLength(255).Email()
	v.Field("phone", d.Phone).MaxLength(maxPhoneLength)
	v.Field("department_id", d.DepartmentID).Required().PositiveID()
	v.Field("work_position_id", d.WorkPositionID).Required().PositiveID()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ListFilter narrows an employee listing on top of the caller's scope.
type ListFilter struct {
	DepartmentID    *int64
	WorkPositionID  *int64
	Search          string
	IncludeInactive bool
}

type CodeCheckResponse struct {
	Code   string `json:"code"`
	Exists bool   `json:"exists"`
}

func (d EmployeeDTO) apply(e *employeeModel.Employee) {
	e.Code = d.Code
	e.FullName = d.FullName
	if d.DateOfBirth != nil {
		e.DateOfBirth = *d.DateOfBirth
	}
	e.Email = d.Email
	e.Phone = d.Phone
	e.DepartmentID = d.DepartmentID
	e.WorkPositionID = d.WorkPositionID
	if d.IsActive != nil {
		e.IsActive = *d.IsActive
	}
}
