package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	userModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/user"
	"github.com/frahmantamala/staff-attendance/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, includeInactive bool, limit, offset int) ([]*userModel.User, int64, error)
	GetByID(ctx context.Context, id int64) (*userModel.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *userModel.User, roleIDs []int64, assignedBy *int64) error
	Update(ctx context.Context, u *userModel.User) error
	ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64, assignedBy *int64) error
	RolesByName(ctx context.Context, names []string) ([]userModel.Role, error)
	ListRoles(ctx context.Context) ([]*userModel.Role, error)
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
	// EmployeeLinkedTo returns the user already linked to the employee, or 0.
	EmployeeLinkedTo(ctx context.Context, employeeID int64) (int64, error)
	// EmployeeFacts returns nil when the employee does not exist.
	EmployeeFacts(ctx context.Context, employeeID int64) (*EmployeeFacts, error)
}

// EmployeeFacts is what a default role is derived from.
type EmployeeFacts struct {
	LeadsDepartment bool
	PositionLevel   int
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Guard interface {
	AccessContext(ctx context.Context) (*access.AccessContext, error)
}

type Service struct {
	repo      RepositoryAPI
	hasher    PasswordHasher
	guard     Guard
	hierarchy *access.Hierarchy
	catalog   *access.Catalog
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, guard Guard, authorizer *access.Authorizer, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		guard:     guard,
		hierarchy: authorizer.Hierarchy(),
		catalog:   authorizer.Catalog(),
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*User, int64, error) {
	rows, total, err := s.repo.List(ctx, includeInactive, limit, offset)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, 0, internal.NewInternalError("failed to list users", err)
	}
	out := make([]*User, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out, total, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if len(dto.Roles) == 0 {
		role, err := s.derivedRole(ctx, *dto.EmployeeID)
		if err != nil {
			return nil, err
		}
		dto.Roles = []string{role}
	}
	roleIDs, err := s.grantable(ctx, dto.Roles)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if exists {
		return nil, internal.NewConflictError("Email is already registered", internal.ErrCodeDuplicateCode)
	}
	if dto.EmployeeID != nil {
		if err := s.ensureLinkable(ctx, *dto.EmployeeID, 0); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userModel.User{
		Email:        dto.Email,
		FullName:     dto.FullName,
		PasswordHash: hash,
		EmployeeID:   dto.EmployeeID,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, row, roleIDs, s.actor(ctx)); err != nil {
		s.logger.ErrorContext(ctx, "failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", row.ID, "roles", dto.Roles)
	return s.GetByID(ctx, row.ID)
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.manageable(ctx, id)
	if err != nil {
		return nil, err
	}

	wasActive := row.IsActive
	row.FullName = strings.TrimSpace(dto.FullName)
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	row.Roles = nil
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	if wasActive != row.IsActive {
		s.publish(ctx, events.NewProfileChangedEvent(id, fmt.Sprintf("is_active=%t", row.IsActive), s.actorID(ctx)))
	}
	s.logger.InfoContext(ctx, "user updated", "user_id", id)
	return s.GetByID(ctx, id)
}

// AssignRoles replaces the user's roles. Callers can neither grant a role ranked above their
// own nor change a user who outranks them.
func (s *Service) AssignRoles(ctx context.Context, id int64, dto AssignRolesDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.manageable(ctx, id); err != nil {
		return nil, err
	}
	roleIDs, err := s.grantable(ctx, dto.Roles)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceRoles(ctx, id, roleIDs, s.actor(ctx)); err != nil {
		s.logger.ErrorContext(ctx, "failed to assign roles", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to assign roles", err)
	}

	s.logger.InfoContext(ctx, "roles assigned", "user_id", id, "roles", dto.Roles)
	s.publish(ctx, events.NewRolesChangedEvent(id, dto.Roles, s.actorID(ctx)))
	return s.GetByID(ctx, id)
}

func (s *Service) LinkEmployee(ctx context.Context, id int64, dto LinkEmployeeDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.manageable(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.EmployeeID != nil {
		if err := s.ensureLinkable(ctx, *dto.EmployeeID, id); err != nil {
			return nil, err
		}
	}

	current := roleNames(row)
	row.EmployeeID = dto.EmployeeID
	row.Roles = nil
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to link employee", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to link employee", err)
	}
	s.publish(ctx, events.NewProfileChangedEvent(id, "employee_link", s.actorID(ctx)))

	if dto.EmployeeID != nil && s.onlyBaseRoles(current) {
		if err := s.grantDerivedRole(ctx, id, *dto.EmployeeID, current); err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}

// grantDerivedRole adds the employee's default role to an account that only holds base
// roles. A role the caller may not grant is skipped; the link itself stands.
func (s *Service) grantDerivedRole(ctx context.Context, userID, employeeID int64, current []string) error {
	role, err := s.derivedRole(ctx, employeeID)
	if err != nil {
		return err
	}
	names := append(append([]string(nil), current...), role)
	roleIDs, err := s.grantable(ctx, names)
	if errors.Is(err, internal.ErrAccessDenied) {
		s.logger.WarnContext(ctx, "default role not granted", "user_id", userID, "role", role)
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.repo.ReplaceRoles(ctx, userID, roleIDs, s.actor(ctx)); err != nil {
		s.logger.ErrorContext(ctx, "failed to assign default role", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to assign roles", err)
	}
	s.logger.InfoContext(ctx, "default role assigned", "user_id", userID, "role", role)
	s.publish(ctx, events.NewRolesChangedEvent(userID, names, s.actorID(ctx)))
	return nil
}

func (s *Service) derivedRole(ctx context.Context, employeeID int64) (string, error) {
	facts, err := s.repo.EmployeeFacts(ctx, employeeID)
	if err != nil {
		return "", internal.NewInternalError("failed to get employee", err)
	}
	if facts == nil {
		return "", internal.ErrEmployeeNotFound
	}
	return access.DefaultRoleFor(facts.LeadsDepartment, facts.PositionLevel), nil
}

// onlyBaseRoles reports whether roles grant nothing beyond the User rank.
func (s *Service) onlyBaseRoles(roles []string) bool {
	rank, ok := s.hierarchy.HighestRank(roles)
	return !ok || rank <= s.hierarchy.RankOf(access.RoleUser)
}

func roleNames(row *userModel.User) []string {
	names := make([]string, 0, len(row.Roles))
	for _, r := range row.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	rows, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	out := make([]*Role, 0, len(rows))
	for _, r := range rows {
		out = append(out, RoleFromDataModel(r))
	}
	return out, nil
}

func (s *Service) ListPermissions(_ context.Context, category string) []access.PermissionDef {
	if category == "" {
		return s.catalog.All()
	}
	defs := s.catalog.ByCategory(access.Category(category))
	if defs == nil {
		defs = []access.PermissionDef{}
	}
	return defs
}

// grantable resolves role names to ids after checking the caller may hand each of them out.
func (s *Service) grantable(ctx context.Context, names []string) ([]int64, error) {
	callerRank, err := s.callerRank(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if !s.hierarchy.Knows(name) {
			return nil, internal.NewValidationFieldError("roles", "unknown role "+name, internal.ErrCodeUnknownRole)
		}
		if s.hierarchy.RankOf(name) > callerRank {
			s.logger.WarnContext(ctx, "role grant above caller rank refused", "role", name, "caller_rank", callerRank)
			return nil, internal.ErrAccessDenied
		}
	}

	roles, err := s.repo.RolesByName(ctx, names)
	if err != nil {
		return nil, internal.NewInternalError("failed to load roles", err)
	}
	if len(roles) != len(names) {
		return nil, internal.NewValidationFieldError("roles", "role is not provisioned", internal.ErrCodeUnknownRole)
	}
	ids := make([]int64, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// manageable loads a user the caller is allowed to administer.
func (s *Service) manageable(ctx context.Context, id int64) (*userModel.User, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	callerRank, err := s.callerRank(ctx)
	if err != nil {
		return nil, err
	}
	if targetRank, ok := s.hierarchy.HighestRank(roleNames(row)); ok && targetRank > callerRank {
		s.logger.WarnContext(ctx, "change to higher ranked user refused", "user_id", id, "caller_rank", callerRank)
		return nil, internal.ErrAccessDenied
	}
	return row, nil
}

func (s *Service) callerRank(ctx context.Context) (int, error) {
	ac, err := s.guard.AccessContext(ctx)
	if err != nil {
		return 0, err
	}
	rank, _ := s.hierarchy.HighestRank(ac.Roles())
	return rank, nil
}

func (s *Service) ensureLinkable(ctx context.Context, employeeID, userID int64) error {
	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return internal.NewInternalError("failed to get employee", err)
	}
	if !exists {
		return internal.ErrEmployeeNotFound
	}
	linked, err := s.repo.EmployeeLinkedTo(ctx, employeeID)
	if err != nil {
		return internal.NewInternalError("failed to check employee link", err)
	}
	if linked != 0 && linked != userID {
		return internal.NewConflictError("Employee is already linked to another user", internal.ErrCodeDuplicateCode)
	}
	return nil
}

func (s *Service) find(ctx context.Context, id int64) (*userModel.User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return row, nil
}

func (s *Service) actor(ctx context.Context) *int64 {
	if id, ok := internal.UserIDFromContext(ctx); ok {
		return &id
	}
	return nil
}

func (s *Service) actorID(ctx context.Context) int64 {
	id, _ := internal.UserIDFromContext(ctx)
	return id
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user event", "event_type", event.EventType(), "error", err)
	}
}
