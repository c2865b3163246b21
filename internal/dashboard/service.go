package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
)

// RepositoryAPI aggregates over the rows a listing scope admits.
type RepositoryAPI interface {
	CountEmployees(ctx context.Context, scope access.ScopeDecision) (int64, error)
	CountDepartments(ctx context.Context, scope access.ScopeDecision) (int64, error)
	CountWorkPositions(ctx context.Context) (int64, error)
	CountAssignments(ctx context.Context, scope access.ScopeDecision, date datamodel.Date) (int64, error)
	RecentEmployees(ctx context.Context, scope access.ScopeDecision, limit int) ([]RecentEmployee, error)
	EmployeesByDepartment(ctx context.Context, scope access.ScopeDecision) ([]DepartmentStat, error)
	EmployeesByPosition(ctx context.Context, scope access.ScopeDecision) ([]PositionStat, error)
	Attendance(ctx context.Context, scope access.ScopeDecision, date datamodel.Date) (AttendanceCounts, error)
	AttendanceByShiftType(ctx context.Context, scope access.ScopeDecision, date datamodel.Date) ([]ShiftTypeStat, error)
}

type ScopeResolver interface {
	ListingScope(ctx context.Context) (access.ScopeDecision, error)
}

type Service struct {
	repo   RepositoryAPI
	scopes ScopeResolver
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, scopes ScopeResolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, scopes: scopes, logger: logger, now: time.Now}
}

func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	scope, err := s.scopes.ListingScope(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Statistics{Scope: scope.String(), RecentEmployees: []RecentEmployee{}}

	// catalog data is not owned by anyone
	if stats.TotalWorkPositions, err = s.repo.CountWorkPositions(ctx); err != nil {
		return nil, s.fail(ctx, "statistics", err)
	}
	if scope.Kind == access.ScopeDenied {
		return stats, nil
	}

	if stats.TotalEmployees, err = s.repo.CountEmployees(ctx, scope); err != nil {
		return nil, s.fail(ctx, "statistics", err)
	}
	if stats.TotalDepartments, err = s.repo.CountDepartments(ctx, scope); err != nil {
		return nil, s.fail(ctx, "statistics", err)
	}
	if stats.TodayAssignments, err = s.repo.CountAssignments(ctx, scope, s.today()); err != nil {
		return nil, s.fail(ctx, "statistics", err)
	}
	recent, err := s.repo.RecentEmployees(ctx, scope, recentEmployeeLimit)
	if err != nil {
		return nil, s.fail(ctx, "statistics", err)
	}
	if recent != nil {
		stats.RecentEmployees = recent
	}
	return stats, nil
}

func (s *Service) EmployeesByDepartment(ctx context.Context) ([]DepartmentStat, error) {
	scope, err := s.scopes.ListingScope(ctx)
	if err != nil {
		return nil, err
	}
	if scope.Kind == access.ScopeDenied {
		return []DepartmentStat{}, nil
	}
	out, err := s.repo.EmployeesByDepartment(ctx, scope)
	if err != nil {
		return nil, s.fail(ctx, "employees by department", err)
	}
	if out == nil {
		out = []DepartmentStat{}
	}
	return out, nil
}

func (s *Service) EmployeesByPosition(ctx context.Context) ([]PositionStat, error) {
	scope, err := s.scopes.ListingScope(ctx)
	if err != nil {
		return nil, err
	}
	if scope.Kind == access.ScopeDenied {
		return []PositionStat{}, nil
	}
	out, err := s.repo.EmployeesByPosition(ctx, scope)
	if err != nil {
		return nil, s.fail(ctx, "employees by position", err)
	}
	if out == nil {
		out = []PositionStat{}
	}
	return out, nil
}

func (s *Service) AttendanceToday(ctx context.Context) (*AttendanceToday, error) {
	scope, err := s.scopes.ListingScope(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()
	out := &AttendanceToday{Date: today, ByShiftType: []ShiftTypeStat{}}
	if scope.Kind == access.ScopeDenied {
		return out, nil
	}

	if out.AttendanceCounts, err = s.repo.Attendance(ctx, scope, today); err != nil {
		return nil, s.fail(ctx, "attendance today", err)
	}
	byType, err := s.repo.AttendanceByShiftType(ctx, scope, today)
	if err != nil {
		return nil, s.fail(ctx, "attendance today", err)
	}
	for _, st := range byType {
		st.TypeName = st.Type.String()
		out.ByShiftType = append(out.ByShiftType, st)
	}
	return out, nil
}

func (s *Service) today() datamodel.Date {
	return datamodel.NewDate(s.now())
}

func (s *Service) fail(ctx context.Context, what string, err error) error {
	s.logger.ErrorContext(ctx, "failed to load dashboard "+what, "error", err)
	return internal.NewInternalError("failed to load dashboard", err)
}
