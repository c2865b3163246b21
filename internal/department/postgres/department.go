package postgres

import (
	"context"
	"errors"

	departmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
	"github.com/frahmantamala/staff-attendance/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*departmentModel.Department, int64, error) {
	q := r.db.WithContext(ctx).Model(&departmentModel.Department{})
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*departmentModel.Department
	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *DepartmentRepository) ListActive(ctx context.Context) ([]*departmentModel.Department, error) {
	var rows []*departmentModel.Department
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*departmentModel.Department, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *DepartmentRepository) GetByCode(ctx context.Context, code string) (*departmentModel.Department, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *DepartmentRepository) first(ctx context.Context, query string, arg interface{}) (*departmentModel.Department, error) {
	var d departmentModel.Department
	err := r.db.WithContext(ctx).Where(query, arg).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&departmentModel.Department{}).Where("code = ?", code)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *DepartmentRepository) Create(ctx context.Context, d *departmentModel.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DepartmentRepository) Update(ctx context.Context, d *departmentModel.Department) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DepartmentRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&departmentModel.Department{}).Where("id = ?", id).Update("is_active", false).Error
}

type departmentCount struct {
	DepartmentID int64
	Total        int64
}

// EmployeeCounts counts active employees per department.
func (r *DepartmentRepository) EmployeeCounts(ctx context.Context, departmentIDs []int64) (map[int64]int64, error) {
	var rows []departmentCount
	err := r.db.WithContext(ctx).Table("employees").
		Select("department_id, COUNT(*) AS total").
		Where("department_id IN ? AND is_active = ?", departmentIDs, true).
		Group("department_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.DepartmentID] = row.Total
	}
	return counts, nil
}
