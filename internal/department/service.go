package department

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
	departmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]*departmentModel.Department, int64, error)
	ListActive(ctx context.Context) ([]*departmentModel.Department, error)
	GetByID(ctx context.Context, id int64) (*departmentModel.Department, error)
	GetByCode(ctx context.Context, code string) (*departmentModel.Department, error)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, d *departmentModel.Department) error
	Update(ctx context.Context, d *departmentModel.Department) error
	Deactivate(ctx context.Context, id int64) error
	EmployeeCounts(ctx context.Context, departmentIDs []int64) (map[int64]int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*Department, int64, error) {
	rows, total, err := s.repo.List(ctx, includeInactive, limit, offset)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list departments", "error", err)
		return nil, 0, internal.NewInternalError("failed to list departments", err)
	}
	departments, err := s.withCounts(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return departments, total, nil
}

func (s *Service) ListActive(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list active departments", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	return s.withCounts(ctx, rows)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Department, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get department", err)
	}
	if row == nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return s.one(ctx, row)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Department, error) {
	row, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, internal.NewInternalError("failed to get department", err)
	}
	if row == nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return s.one(ctx, row)
}

func (s *Service) CodeExists(ctx context.Context, code string) (bool, error) {
	exists, err := s.repo.CodeExists(ctx, strings.ToUpper(strings.TrimSpace(code)), 0)
	if err != nil {
		return false, internal.NewInternalError("failed to check department code", err)
	}
	return exists, nil
}

func (s *Service) Create(ctx context.Context, dto CreateDepartmentDTO) (*Department, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureCodeFree(ctx, dto.Code, 0); err != nil {
		return nil, err
	}

	row := &departmentModel.Department{
		Code:        dto.Code,
		Name:        dto.Name,
		Description: dto.Description,
		LeaderID:    dto.LeaderID,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create department", "error", err, "code", dto.Code)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	s.logger.InfoContext(ctx, "department created", "department_id", row.ID, "code", row.Code)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateDepartmentDTO) (*Department, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get department", err)
	}
	if row == nil {
		return nil, internal.ErrDepartmentNotFound
	}

	if dto.Code != row.Code {
		if err := s.ensureCodeFree(ctx, dto.Code, id); err != nil {
			return nil, err
		}
	}

	row.Code = dto.Code
	row.Name = dto.Name
	row.Description = dto.Description
	row.LeaderID = dto.LeaderID
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to update department", "error", err, "department_id", id)
		return nil, internal.NewInternalError("failed to update department", err)
	}

	s.logger.InfoContext(ctx, "department updated", "department_id", id)
	return s.one(ctx, row)
}

// Delete deactivates the department. Departments that still have active employees are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to get department", err)
	}
	if row == nil {
		return internal.ErrDepartmentNotFound
	}

	counts, err := s.repo.EmployeeCounts(ctx, []int64{id})
	if err != nil {
		return internal.NewInternalError("failed to count department employees", err)
	}
	if counts[id] > 0 {
		return internal.NewConflictError("Department still has active employees", internal.ErrCodeDepartmentHasMembers).
			WithDetails(map[string]int64{"employee_count": counts[id]})
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete department", "error", err, "department_id", id)
		return internal.NewInternalError("failed to delete department", err)
	}

	s.logger.InfoContext(ctx, "department deactivated", "department_id", id)
	return nil
}

func (s *Service) ensureCodeFree(ctx context.Context, code string, excludeID int64) error {
	exists, err := s.repo.CodeExists(ctx, code, excludeID)
	if err != nil {
		return internal.NewInternalError("failed to check department code", err)
	}
	if exists {
		return internal.NewConflictError("Department code already exists", internal.ErrCodeDuplicateCode)
	}
	return nil
}

func (s *Service) one(ctx context.Context, row *departmentModel.Department) (*Department, error) {
	out, err := s.withCounts(ctx, []*departmentModel.Department{row})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *Service) withCounts(ctx context.Context, rows []*departmentModel.Department) ([]*Department, error) {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	counts := map[int64]int64{}
	if len(ids) > 0 {
		var err error
		counts, err = s.repo.EmployeeCounts(ctx, ids)
		if err != nil {
			return nil, internal.NewInternalError("failed to count department employees", err)
		}
	}

	out := make([]*Department, 0, len(rows))
	for _, r := range rows {
		d := FromDataModel(r)
		d.EmployeeCount = counts[r.ID]
		out = append(out, d)
	}
	return out, nil
}
