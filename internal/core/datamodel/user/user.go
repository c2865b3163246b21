package user

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	FullName     string     `gorm:"column:full_name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	EmployeeID   *int64     `gorm:"column:employee_id"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	Roles        []Role     `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
}

func (User) TableName() string { return "users" }

type Role struct {
	ID          int64        `gorm:"primaryKey"`
	Name        string       `gorm:"column:name;uniqueIndex;not null"`
	Rank        int          `gorm:"column:rank;not null"`
	Description string       `gorm:"column:description"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	Permissions []Permission `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`
}

func (Role) TableName() string { return "roles" }

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Code        string    `gorm:"column:code;uniqueIndex;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Category    string    `gorm:"column:category;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string { return "permissions" }

type UserRole struct {
	UserID     int64     `gorm:"primaryKey;column:user_id"`
	RoleID     int64     `gorm:"primaryKey;column:role_id"`
	AssignedBy *int64    `gorm:"column:assigned_by"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserRole) TableName() string { return "user_roles" }

type RolePermission struct {
	RoleID       int64 `gorm:"primaryKey;column:role_id"`
	PermissionID int64 `gorm:"primaryKey;column:permission_id"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// SetupJoinTables registers UserRole and RolePermission as the many2many join models,
// so migrations and preloads use their columns instead of a bare two-column table.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&User{}, "Roles", &UserRole{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&Role{}, "Permissions", &RolePermission{})
}
