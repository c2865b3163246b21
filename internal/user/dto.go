package user

import (
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/core/common/validation"
)

const minPasswordLength = 8

type CreateUserDTO struct {
	Email      string   `json:"email"`
	FullName   string   `json:"full_name"`
	Password   string   `json:"password"`
	EmployeeID *int64   `json:"employee_id,omitempty"`
	Roles      []string `json:"roles"`
}

func (d *CreateUserDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FullName = strings.TrimSpace(d.FullName)
	d.Roles = normalizeRoles(d.Roles)
}

func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(255).Email()
	v.Field("full_name", d.FullName).Required().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength).MaxLength(72)
	v.Field("employee_id", d.EmployeeID).PositiveID()
	if d.EmployeeID == nil {
		// linked accounts fall back to the employee's default role
		v.Field("roles", d.Roles).Custom(nonEmptyRoles)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateUserDTO struct {
	FullName string `json:"full_name"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (d UpdateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("full_name", strings.TrimSpace(d.FullName)).Required().MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AssignRolesDTO struct {
	Roles []string `json:"roles"`
}

func (d *AssignRolesDTO) Normalize() {
	d.Roles = normalizeRoles(d.Roles)
}

func (d AssignRolesDTO) Validate() error {
	if err := nonEmptyRoles(d.Roles); err != nil {
		return err
	}
	return nil
}

// LinkEmployeeDTO links a user to an employee record; a null id removes the link.
type LinkEmployeeDTO struct {
	EmployeeID *int64 `json:"employee_id"`
}

func (d LinkEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).PositiveID()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func nonEmptyRoles(value interface{}) *internal.AppError {
	if roles, _ := value.([]string); len(roles) == 0 {
		return internal.NewValidationFieldError("roles", "at least one role is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// normalizeRoles trims names and drops blanks and duplicates, keeping first-seen order.
func normalizeRoles(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
