package postgres

import (
	"context"
	"errors"

	departmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
	userModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/user"
	"github.com/frahmantamala/staff-attendance/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*userModel.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&userModel.User{})
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*userModel.User
	err := q.Preload("Roles").Order("full_name ASC").Order("id ASC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userModel.User, error) {
	var u userModel.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel.User{}).Where("LOWER(email) = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) Create(ctx context.Context, u *userModel.User, roleIDs []int64, assignedBy *int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(u).Error; err != nil {
			return err
		}
		return insertRoles(tx, u.ID, roleIDs, assignedBy)
	})
}

func (r *UserRepository) Update(ctx context.Context, u *userModel.User) error {
	return r.db.WithContext(ctx).Omit("Roles").Save(u).Error
}

func (r *UserRepository) ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64, assignedBy *int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&userModel.UserRole{}).Error; err != nil {
			return err
		}
		return insertRoles(tx, userID, roleIDs, assignedBy)
	})
}

func insertRoles(tx *gorm.DB, userID int64, roleIDs []int64, assignedBy *int64) error {
	if len(roleIDs) == 0 {
		return nil
	}
	rows := make([]userModel.UserRole, 0, len(roleIDs))
	for _, id := range roleIDs {
		rows = append(rows, userModel.UserRole{UserID: userID, RoleID: id, AssignedBy: assignedBy})
	}
	return tx.Create(&rows).Error
}

func (r *UserRepository) RolesByName(ctx context.Context, names []string) ([]userModel.Role, error) {
	var roles []userModel.Role
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&roles).Error
	return roles, err
}

func (r *UserRepository) ListRoles(ctx context.Context) ([]*userModel.Role, error) {
	var roles []*userModel.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Order("rank DESC").Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *UserRepository) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&employeeModel.Employee{}).Where("id = ?", employeeID).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) EmployeeLinkedTo(ctx context.Context, employeeID int64) (int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&userModel.User{}).
		Where("employee_id = ?", employeeID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	return ids[0], nil
}

func (r *UserRepository) EmployeeFacts(ctx context.Context, employeeID int64) (*user.EmployeeFacts, error) {
	var levels []int
	err := r.db.WithContext(ctx).Model(&employeeModel.Employee{}).
		Joins("JOIN work_positions ON work_positions.id = employees.work_position_id").
		Where("employees.id = ?", employeeID).
		Limit(1).
		Pluck("work_positions.level", &levels).Error
	if err != nil || len(levels) == 0 {
		return nil, err
	}

	var led int64
	err = r.db.WithContext(ctx).Model(&departmentModel.Department{}).
		Where("leader_id = ?", employeeID).
		Count(&led).Error
	if err != nil {
		return nil, err
	}
	return &user.EmployeeFacts{LeadsDepartment: led > 0, PositionLevel: levels[0]}, nil
}
