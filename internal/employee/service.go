package employee

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope access.ScopeDecision, filter ListFilter, limit, offset int) ([]*employeeModel.Employee, int64, error)
	GetByID(ctx context.Context, id int64) (*employeeModel.Employee, error)
	GetByCode(ctx context.Context, code string) (*employeeModel.Employee, error)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, e *employeeModel.Employee) error
	Update(ctx context.Context, e *employeeModel.Employee) error
	Deactivate(ctx context.Context, id int64) error
	DepartmentExists(ctx context.Context, id int64) (bool, error)
	// PositionLevel reports false when the work position does not exist.
	PositionLevel(ctx context.Context, workPositionID int64) (int, bool, error)
}

// Guard answers the caller's record-level access questions.
type Guard interface {
	ListingScope(ctx context.Context) (access.ScopeDecision, error)
	CheckScope(ctx context.Context, target access.Target, mode access.Mode, action string) error
}

type Service struct {
	repo   RepositoryAPI
	guard  Guard
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, guard Guard, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the employees inside the caller's listing scope. A denied scope yields an
// empty page rather than an error.
func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Employee, int64, error) {
	scope, err := s.guard.ListingScope(ctx)
	if err != nil {
		return nil, 0, err
	}
	if scope.Kind == access.ScopeDenied {
		s.logger.DebugContext(ctx, "employee listing denied by scope")
		return []*Employee{}, 0, nil
	}

	rows, total, err := s.repo.List(ctx, scope, filter, limit, offset)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list employees", "error", err, "scope", scope.String())
		return nil, 0, internal.NewInternalError("failed to list employees", err)
	}
	return s.toResponses(rows), total, nil
}

// ListByDepartment lists one department; the caller must be able to read that department.
func (s *Service) ListByDepartment(ctx context.Context, departmentID int64, limit, offset int) ([]*Employee, int64, error) {
	target := access.Target{}.WithDepartment(departmentID)
	if err := s.guard.CheckScope(ctx, target, access.Read, "employee.list_department"); err != nil {
		return nil, 0, err
	}
	return s.List(ctx, ListFilter{DepartmentID: &departmentID}, limit, offset)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	return s.readable(ctx, row, err)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Employee, error) {
	row, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	return s.readable(ctx, row, err)
}

func (s *Service) CodeExists(ctx context.Context, code string) (bool, error) {
	exists, err := s.repo.CodeExists(ctx, strings.ToUpper(strings.TrimSpace(code)), 0)
	if err != nil {
		return false, internal.NewInternalError("failed to check employee code", err)
	}
	return exists, nil
}

func (s *Service) Create(ctx context.Context, dto EmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.placement(ctx, dto.DepartmentID, dto.WorkPositionID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckScope(ctx, target, access.Write, "employee.create"); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, dto.Code, 0); err != nil {
		return nil, err
	}

	row := &employeeModel.Employee{IsActive: true}
	dto.apply(row)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create employee", "error", err, "code", dto.Code)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.InfoContext(ctx, "employee created", "employee_id", row.ID, "department_id", row.DepartmentID)
	return s.reload(ctx, row.ID)
}

// Update requires write access to the record both where it is and where it is moving to.
func (s *Service) Update(ctx context.Context, id int64, dto EmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.writable(ctx, id, "employee.update")
	if err != nil {
		return nil, err
	}

	if dto.DepartmentID != row.DepartmentID || dto.WorkPositionID != row.WorkPositionID {
		target, err := s.placement(ctx, dto.DepartmentID, dto.WorkPositionID)
		if err != nil {
			return nil, err
		}
		if err := s.guard.CheckScope(ctx, target.WithEmployee(id), access.Write, "employee.move"); err != nil {
			return nil, err
		}
	}
	if dto.Code != row.Code {
		if err := s.ensureCodeFree(ctx, dto.Code, id); err != nil {
			return nil, err
		}
	}

	dto.apply(row)
	// preloaded associations would otherwise be upserted with stale keys
	row.Department, row.WorkPosition = nil, nil
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to update employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.InfoContext(ctx, "employee updated", "employee_id", id)
	return s.reload(ctx, id)
}

// Delete deactivates the employee; rows are never removed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.writable(ctx, id, "employee.delete"); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete employee", "error", err, "employee_id", id)
		return internal.NewInternalError("failed to delete employee", err)
	}
	s.logger.InfoContext(ctx, "employee deactivated", "employee_id", id)
	return nil
}

func (s *Service) readable(ctx context.Context, row *employeeModel.Employee, err error) (*Employee, error) {
	if err != nil {
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	if err := s.guard.CheckScope(ctx, TargetOf(row), access.Read, "employee.view"); err != nil {
		return nil, err
	}
	return FromDataModel(row, s.now()), nil
}

func (s *Service) writable(ctx context.Context, id int64, action string) (*employeeModel.Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	if err := s.guard.CheckScope(ctx, TargetOf(row), access.Write, action); err != nil {
		return nil, err
	}
	return row, nil
}

// placement resolves the target an employee would have in the given department and position.
func (s *Service) placement(ctx context.Context, departmentID, workPositionID int64) (access.Target, error) {
	exists, err := s.repo.DepartmentExists(ctx, departmentID)
	if err != nil {
		return access.Target{}, internal.NewInternalError("failed to get department", err)
	}
	if !exists {
		return access.Target{}, internal.ErrDepartmentNotFound
	}

	level, ok, err := s.repo.PositionLevel(ctx, workPositionID)
	if err != nil {
		return access.Target{}, internal.NewInternalError("failed to get work position", err)
	}
	if !ok {
		return access.Target{}, internal.ErrPositionNotFound
	}
	return access.Target{}.WithDepartment(departmentID).WithPositionLevel(level), nil
}

func (s *Service) ensureCodeFree(ctx context.Context, code string, excludeID int64) error {
	exists, err := s.repo.CodeExists(ctx, code, excludeID)
	if err != nil {
		return internal.NewInternalError("failed to check employee code", err)
	}
	if exists {
		return internal.NewConflictError("Employee code already exists", internal.ErrCodeDuplicateCode)
	}
	return nil
}

func (s *Service) reload(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return FromDataModel(row, s.now()), nil
}

func (s *Service) toResponses(rows []*employeeModel.Employee) []*Employee {
	now := s.now()
	out := make([]*Employee, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r, now))
	}
	return out
}
