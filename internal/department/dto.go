package department

import (
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
)

const (
	maxCodeLength        = 20
	maxNameLength        = 255
	maxDescriptionLength = 500
)

type CreateDepartmentDTO struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LeaderID    *int64 `json:"leader_id,omitempty"`
}

func (d *CreateDepartmentDTO) Normalize() {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

func (d CreateDepartmentDTO) Validate() error {
	return validateFields(d.Code, d.Name, d.Description, d.LeaderID)
}

type UpdateDepartmentDTO struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LeaderID    *int64 `json:"leader_id,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (d *UpdateDepartmentDTO) Normalize() {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

func (d UpdateDepartmentDTO) Validate() error {
	return validateFields(d.Code, d.Name, d.Description, d.LeaderID)
}

func validateFields(code, name, description string, leaderID *int64) error {
	switch {
	case code == "":
		return internal.NewValidationFieldError("code", "code is required", internal.ErrCodeInvalidCode)
	case len(code) > maxCodeLength:
		return internal.NewValidationFieldError("code", "code must not exceed 20 characters", internal.ErrCodeInvalidCode)
	case name == "":
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	case len(name) > maxNameLength:
		return internal.NewValidationFieldError("name", "name must not exceed 255 characters", internal.ErrCodeValidationFailed)
	case len(description) > maxDescriptionLength:
		return internal.NewValidationFieldError("description", "description must not exceed 500 characters", internal.ErrCodeValidationFailed)
	case leaderID != nil && *leaderID <= 0:
		return internal.NewValidationFieldError("leader_id", "leader_id must be positive", internal.ErrCodeInvalidID)
	}
	return nil
}

type CodeCheckResponse struct {
	Code   string `json:"code"`
	Exists bool   `json:"exists"`
}
