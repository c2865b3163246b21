package workposition

import (
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
	"github.com/shopspring/decimal"
)

const maxCodeLength = 15

type WorkPositionDTO struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Level       int              `json:"level,omitempty"`
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// Normalize trims input and applies the staff level when none was given.
func (d *WorkPositionDTO) Normalize() {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	if d.Level == 0 {
		d.Level = workpositionModel.LevelStaff
	}
}

func (d WorkPositionDTO) Validate() error {
	switch {
	case d.Code == "":
		return internal.NewValidationFieldError("code", "code is required", internal.ErrCodeInvalidCode)
	case len(d.Code) > maxCodeLength:
		return internal.NewValidationFieldError("code", "code must not exceed 15 characters", internal.ErrCodeInvalidCode)
	case d.Name == "":
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	case len(d.Name) > 255:
		return internal.NewValidationFieldError("name", "name must not exceed 255 characters", internal.ErrCodeValidationFailed)
	case len(d.Description) > 500:
		return internal.NewValidationFieldError("description", "description must not exceed 500 characters", internal.ErrCodeValidationFailed)
	case !ValidLevel(d.Level):
		return internal.NewValidationFieldError("level", "level must be between 1 and 4", internal.ErrCodeInvalidLevel)
	case d.BaseSalary != nil && d.BaseSalary.IsNegative():
		return internal.NewValidationFieldError("base_salary", "base_salary must not be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d WorkPositionDTO) apply(p *workpositionModel.WorkPosition) {
	p.Code = d.Code
	p.Name = d.Name
	p.Description = d.Description
	p.Level = d.Level
	if d.BaseSalary != nil {
		p.BaseSalary = decimal.NewNullDecimal(d.BaseSalary.Round(2))
	} else {
		p.BaseSalary = decimal.NullDecimal{}
	}
	if d.IsActive != nil {
		p.IsActive = *d.IsActive
	}
}
