package shift

import (
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/core/common/validation"
	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
)

type ShiftDTO struct {
	Name        string          `json:"name"`
	Type        shiftModel.Type `json:"type"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Description string          `json:"description,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func (d *ShiftDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.StartTime = strings.TrimSpace(d.StartTime)
	d.EndTime = strings.TrimSpace(d.EndTime)
	d.Description = strings.TrimSpace(d.Description)
}

func (d ShiftDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(50)
	v.Field("type", int(d.Type)).Between(int(shiftModel.TypeMorning), int(shiftModel.TypeOvertime), internal.ErrCodeValidationFailed)
	v.Field("start_time", d.StartTime).Required().Custom(clock("start_time"))
	v.Field("end_time", d.EndTime).Required().Custom(clock("end_time"))
	v.Field("description", d.Description).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}

	span, _ := Span(d.StartTime, d.EndTime)
	if !LongEnough(d.Type, span) {
		return internal.NewValidationFieldError("end_time", "a regular shift must span at least 8 hours", internal.ErrCodeShiftTooShort)
	}
	return nil
}

func clock(field string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		s, _ := value.(string)
		if _, err := ParseClock(s); err != nil {
			return internal.NewValidationFieldError(field, err.Error(), internal.ErrCodeInvalidShiftTime)
		}
		return nil
	}
}

func (d ShiftDTO) apply(s *shiftModel.Shift) {
	s.Name = d.Name
	s.Type = d.Type
	s.StartTime = d.StartTime
	s.EndTime = d.EndTime
	s.Description = d.Description
	if d.IsActive != nil {
		s.IsActive = *d.IsActive
	}
}
