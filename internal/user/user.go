package user

import (
	"sort"
	"time"

	userModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/user"
)

type User struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	EmployeeID  *int64     `json:"employee_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	Roles       []string   `json:"roles"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Role struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Rank        int      `json:"rank"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}

// FromDataModel converts a user; roles must be preloaded to be listed.
func FromDataModel(u *userModel.User) *User {
	out := &User{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		EmployeeID:  u.EmployeeID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		Roles:       make([]string, 0, len(u.Roles)),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	roles := append([]userModel.Role(nil), u.Roles...)
	sort.SliceStable(roles, func(i, j int) bool { return roles[i].Rank > roles[j].Rank })
	for _, r := range roles {
		out.Roles = append(out.Roles, r.Name)
	}
	return out
}

func RoleFromDataModel(r *userModel.Role) *Role {
	out := &Role{
		ID:          r.ID,
		Name:        r.Name,
		Rank:        r.Rank,
		Description: r.Description,
		Permissions: make([]string, 0, len(r.Permissions)),
	}
	for _, p := range r.Permissions {
		out.Permissions = append(out.Permissions, p.Code)
	}
	sort.Strings(out.Permissions)
	return out
}
