package auth

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/staff-attendance/internal/auth"
	userModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	return r.credentials(ctx, "email = ?", email)
}

func (r *Repository) GetCredentialsByID(ctx context.Context, userID int64) (*auth.Credentials, error) {
	return r.credentials(ctx, "id = ?", userID)
}

func (r *Repository) credentials(ctx context.Context, query string, arg interface{}) (*auth.Credentials, error) {
	var u userModel.User
	err := r.db.WithContext(ctx).
		Select("id", "password_hash", "is_active").
		Where(query, arg).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Credentials{UserID: u.ID, PasswordHash: u.PasswordHash, IsActive: u.IsActive}, nil
}

type employeeAttrs struct {
	DepartmentID int64
	Level        *int
}

// GetProfile assembles roles, granted permissions and the linked employee's
// department and position level.
func (r *Repository) GetProfile(ctx context.Context, userID int64) (*auth.Profile, error) {
	db := r.db.WithContext(ctx)

	var u userModel.User
	if err := db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	profile := &auth.Profile{
		UserID:     u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		IsActive:   u.IsActive,
		EmployeeID: u.EmployeeID,
	}

	if err := db.Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.rank DESC, roles.name").
		Pluck("roles.name", &profile.Roles).Error; err != nil {
		return nil, err
	}

	if err := db.Table("permissions").
		Distinct("permissions.code").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("permissions.code").
		Pluck("permissions.code", &profile.Permissions).Error; err != nil {
		return nil, err
	}

	if u.EmployeeID != nil {
		var attrs employeeAttrs
		res := db.Table("employees").
			Select("employees.department_id AS department_id, work_positions.level AS level").
			Joins("LEFT JOIN work_positions ON work_positions.id = employees.work_position_id").
			Where("employees.id = ?", *u.EmployeeID).
			Limit(1).
			Scan(&attrs)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			profile.DepartmentID = &attrs.DepartmentID
			profile.PositionLevel = attrs.Level
		}
	}

	return profile, nil
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	return r.db.WithContext(ctx).Model(&userModel.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

func (r *Repository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&userModel.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login_at", at).Error
}
