package shiftassignment

import (
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/core/common/validation"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	assignmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shiftassignment"
)

const maxNotesLength = 500

type AssignmentDTO struct {
	EmployeeID int64          `json:"employee_id"`
	ShiftID    int64          `json:"shift_id"`
	WorkDate   datamodel.Date `json:"work_date"`
	StatusCode string         `json:"status_code,omitempty"`
	Notes      string         `json:"notes,omitempty"`
}

// Normalize defaults the status to worked.
func (d *AssignmentDTO) Normalize() {
	d.StatusCode = strings.ToUpper(strings.TrimSpace(d.StatusCode))
	if d.StatusCode == "" {
		d.StatusCode = assignmentModel.StatusWorked
	}
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d AssignmentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required().PositiveID()
	v.Field("shift_id", d.ShiftID).Required().PositiveID()
	v.Field("work_date", d.WorkDate).Required()
	v.Field("status_code", d.StatusCode).Custom(func(value interface{}) *internal.AppError {
		if code, _ := value.(string); !ValidStatus(code) {
			return internal.NewValidationFieldError("status_code", "status_code must be one of X, RO, LE", internal.ErrCodeInvalidStatus)
		}
		return nil
	})
	v.Field("notes", d.Notes).MaxLength(maxNotesLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d AssignmentDTO) apply(a *assignmentModel.ShiftAssignment) {
	a.EmployeeID = d.EmployeeID
	a.ShiftID = d.ShiftID
	a.WorkDate = d.WorkDate
	a.StatusCode = d.StatusCode
	a.Notes = d.Notes
}

// ListFilter narrows an assignment listing on top of the caller's scope. Dates are inclusive.
type ListFilter struct {
	EmployeeID *int64
	ShiftID    *int64
	StatusCode string
	From       *datamodel.Date
	To         *datamodel.Date
}

// ValidateRange rejects a range that ends before it starts.
func (f ListFilter) ValidateRange() error {
	if f.From != nil && f.To != nil && f.To.Before(f.From.Time) {
		return internal.NewValidationFieldError("to", "to must not be before from", internal.ErrCodeInvalidDate)
	}
	return nil
}
