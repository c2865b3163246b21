package shiftassignment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
	assignmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shiftassignment"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope access.ScopeDecision, filter ListFilter, limit, offset int) ([]*assignmentModel.ShiftAssignment, int64, error)
	GetByID(ctx context.Context, id int64) (*assignmentModel.ShiftAssignment, error)
	Exists(ctx context.Context, employeeID, shiftID int64, date datamodel.Date, excludeID int64) (bool, error)
	GetShift(ctx context.Context, id int64) (*shiftModel.Shift, error)
	Create(ctx context.Context, a *assignmentModel.ShiftAssignment) error
	Update(ctx context.Context, a *assignmentModel.ShiftAssignment) error
	Delete(ctx context.Context, id int64) error
}

// TargetLookup resolves an employee into an access target; unknown employees yield
// access.ErrTargetNotFound.
type TargetLookup interface {
	EmployeeTarget(ctx context.Context, employeeID int64) (access.Target, error)
}

type Guard interface {
	AccessContext(ctx context.Context) (*access.AccessContext, error)
	ListingScope(ctx context.Context) (access.ScopeDecision, error)
	CheckScope(ctx context.Context, target access.Target, mode access.Mode, action string) error
	CheckSchedule(ctx context.Context, employee access.Target, action string) error
}

type Service struct {
	repo    RepositoryAPI
	targets TargetLookup
	guard   Guard
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, targets TargetLookup, guard Guard, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		targets: targets,
		guard:   guard,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*ShiftAssignment, int64, error) {
	if err := filter.ValidateRange(); err != nil {
		return nil, 0, err
	}
	scope, err := s.guard.ListingScope(ctx)
	if err != nil {
		return nil, 0, err
	}
	if scope.Kind == access.ScopeDenied {
		return []*ShiftAssignment{}, 0, nil
	}
	return s.list(ctx, scope, filter, limit, offset)
}

// ListForEmployee lists one employee's assignments; the caller must be able to read that employee.
func (s *Service) ListForEmployee(ctx context.Context, employeeID int64, from, to *datamodel.Date, limit, offset int) ([]*ShiftAssignment, int64, error) {
	filter := ListFilter{EmployeeID: &employeeID, From: from, To: to}
	if err := filter.ValidateRange(); err != nil {
		return nil, 0, err
	}
	target, err := s.target(ctx, employeeID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.guard.CheckScope(ctx, target, access.Read, "assignment.list_employee"); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, access.All(), filter, limit, offset)
}

// Today lists today's assignments within the caller's scope.
func (s *Service) Today(ctx context.Context, limit, offset int) ([]*ShiftAssignment, int64, error) {
	today := datamodel.NewDate(s.now())
	return s.List(ctx, ListFilter{From: &today, To: &today}, limit, offset)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*ShiftAssignment, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	target, err := s.target(ctx, row.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckScope(ctx, target, access.Read, "assignment.view"); err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto AssignmentDTO) (*ShiftAssignment, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.target(ctx, dto.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckSchedule(ctx, target, "assignment.create"); err != nil {
		return nil, err
	}
	if err := s.ensureShift(ctx, dto.ShiftID); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, dto, 0); err != nil {
		return nil, err
	}

	row := &assignmentModel.ShiftAssignment{}
	dto.apply(row)
	if userID, ok := internal.UserIDFromContext(ctx); ok {
		row.CreatedBy = &userID
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create shift assignment", "error", err, "employee_id", dto.EmployeeID)
		return nil, internal.NewInternalError("failed to create shift assignment", err)
	}

	s.logger.InfoContext(ctx, "shift assignment created",
		"assignment_id", row.ID,
		"employee_id", row.EmployeeID,
		"work_date", row.WorkDate.String())
	return s.reload(ctx, row.ID)
}

// Update may not move an assignment to another employee unless the caller may schedule both.
func (s *Service) Update(ctx context.Context, id int64, dto AssignmentDTO) (*ShiftAssignment, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.writable(ctx, id, "assignment.update")
	if err != nil {
		return nil, err
	}
	if dto.EmployeeID != row.EmployeeID {
		target, err := s.target(ctx, dto.EmployeeID)
		if err != nil {
			return nil, err
		}
		if err := s.guard.CheckSchedule(ctx, target, "assignment.reassign"); err != nil {
			return nil, err
		}
	}
	if dto.ShiftID != row.ShiftID {
		if err := s.ensureShift(ctx, dto.ShiftID); err != nil {
			return nil, err
		}
	}
	if err := s.ensureFree(ctx, dto, id); err != nil {
		return nil, err
	}

	dto.apply(row)
	row.Employee, row.Shift = nil, nil
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to update shift assignment", "error", err, "assignment_id", id)
		return nil, internal.NewInternalError("failed to update shift assignment", err)
	}

	s.logger.InfoContext(ctx, "shift assignment updated", "assignment_id", id)
	return s.reload(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.writable(ctx, id, "assignment.delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete shift assignment", "error", err, "assignment_id", id)
		return internal.NewInternalError("failed to delete shift assignment", err)
	}
	s.logger.InfoContext(ctx, "shift assignment deleted", "assignment_id", id)
	return nil
}

// CheckIn stamps the start of work. The employee may check themself in; anyone else needs
// write access to the employee.
func (s *Service) CheckIn(ctx context.Context, id int64) (*ShiftAssignment, error) {
	row, err := s.attendable(ctx, id, "assignment.check_in")
	if err != nil {
		return nil, err
	}
	if row.StatusCode != assignmentModel.StatusWorked {
		return nil, internal.NewValidationFieldError("status_code", "only working assignments can be checked in", internal.ErrCodeInvalidStatus)
	}
	if row.CheckInTime != nil {
		return nil, internal.NewConflictError("Assignment is already checked in", internal.ErrCodeAlreadyCheckedIn)
	}

	now := s.now().UTC()
	row.CheckInTime = &now
	return s.stamp(ctx, row, "checked in")
}

func (s *Service) CheckOut(ctx context.Context, id int64) (*ShiftAssignment, error) {
	row, err := s.attendable(ctx, id, "assignment.check_out")
	if err != nil {
		return nil, err
	}
	if row.CheckInTime == nil {
		return nil, internal.NewConflictError("Assignment has not been checked in", internal.ErrCodeNotCheckedIn)
	}
	if row.CheckOutTime != nil {
		return nil, internal.NewConflictError("Assignment is already checked out", internal.ErrCodeAlreadyCheckedOut)
	}

	now := s.now().UTC()
	row.CheckOutTime = &now
	return s.stamp(ctx, row, "checked out")
}

func (s *Service) stamp(ctx context.Context, row *assignmentModel.ShiftAssignment, what string) (*ShiftAssignment, error) {
	row.Employee, row.Shift = nil, nil
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to record attendance", "error", err, "assignment_id", row.ID)
		return nil, internal.NewInternalError("failed to record attendance", err)
	}
	s.logger.InfoContext(ctx, "assignment "+what, "assignment_id", row.ID, "employee_id", row.EmployeeID)
	return s.reload(ctx, row.ID)
}

func (s *Service) attendable(ctx context.Context, id int64, action string) (*assignmentModel.ShiftAssignment, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	ac, err := s.guard.AccessContext(ctx)
	if err != nil {
		return nil, err
	}
	if self, ok := ac.EmployeeID(); ok && self == row.EmployeeID {
		return row, nil
	}
	target, err := s.target(ctx, row.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckScope(ctx, target, access.Write, action); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) writable(ctx context.Context, id int64, action string) (*assignmentModel.ShiftAssignment, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	target, err := s.target(ctx, row.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckScope(ctx, target, access.Write, action); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) target(ctx context.Context, employeeID int64) (access.Target, error) {
	target, err := s.targets.EmployeeTarget(ctx, employeeID)
	if err != nil {
		if errors.Is(err, access.ErrTargetNotFound) {
			return access.Target{}, internal.ErrEmployeeNotFound
		}
		return access.Target{}, internal.NewInternalError("failed to resolve employee", err)
	}
	return target, nil
}

func (s *Service) ensureShift(ctx context.Context, shiftID int64) error {
	sh, err := s.repo.GetShift(ctx, shiftID)
	if err != nil {
		return internal.NewInternalError("failed to get shift", err)
	}
	if sh == nil || !sh.IsActive {
		return internal.ErrShiftNotFound
	}
	return nil
}

func (s *Service) ensureFree(ctx context.Context, dto AssignmentDTO, excludeID int64) error {
	exists, err := s.repo.Exists(ctx, dto.EmployeeID, dto.ShiftID, dto.WorkDate, excludeID)
	if err != nil {
		return internal.NewInternalError("failed to check shift assignment", err)
	}
	if exists {
		return internal.NewConflictError("Employee already has this shift on that date", internal.ErrCodeDuplicateAssignment)
	}
	return nil
}

func (s *Service) find(ctx context.Context, id int64) (*assignmentModel.ShiftAssignment, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get shift assignment", err)
	}
	if row == nil {
		return nil, internal.ErrAssignmentNotFound
	}
	return row, nil
}

func (s *Service) reload(ctx context.Context, id int64) (*ShiftAssignment, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) list(ctx context.Context, scope access.ScopeDecision, filter ListFilter, limit, offset int) ([]*ShiftAssignment, int64, error) {
	rows, total, err := s.repo.List(ctx, scope, filter, limit, offset)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list shift assignments", "error", err, "scope", scope.String())
		return nil, 0, internal.NewInternalError("failed to list shift assignments", err)
	}
	out := make([]*ShiftAssignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out, total, nil
}
