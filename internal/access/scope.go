package access

import "fmt"

type ScopeKind int

const (
	ScopeDenied ScopeKind = iota
	ScopeSelfOnly
	ScopeDepartmentOnly
	ScopeAll
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeSelfOnly:
		return "SelfOnly"
	case ScopeDepartmentOnly:
		return "DepartmentOnly"
	case ScopeAll:
		return "All"
	default:
		return "Denied"
	}
}

// ScopeDecision is the breadth of records a principal may list.
// EmployeeID is bound for SelfOnly, DepartmentID for DepartmentOnly.
type ScopeDecision struct {
	Kind         ScopeKind `json:"kind"`
	EmployeeID   int64     `json:"employee_id,omitempty"`
	DepartmentID int64     `json:"department_id,omitempty"`
}

func Denied() ScopeDecision { return ScopeDecision{Kind: ScopeDenied} }

func SelfOnly(employeeID int64) ScopeDecision {
	return ScopeDecision{Kind: ScopeSelfOnly, EmployeeID: employeeID}
}

func DepartmentOnly(departmentID int64) ScopeDecision {
	return ScopeDecision{Kind: ScopeDepartmentOnly, DepartmentID: departmentID}
}

func All() ScopeDecision { return ScopeDecision{Kind: ScopeAll} }

func (d ScopeDecision) String() string {
	switch d.Kind {
	case ScopeSelfOnly:
		return fmt.Sprintf("SelfOnly(%d)", d.EmployeeID)
	case ScopeDepartmentOnly:
		return fmt.Sprintf("DepartmentOnly(%d)", d.DepartmentID)
	default:
		return d.Kind.String()
	}
}

// Target describes the resource a scope check is made against. Callers fill it from their own
// lookups; absent fields are nil.
type Target struct {
	EmployeeID    *int64
	DepartmentID  *int64
	PositionLevel *int
}

func (t Target) WithEmployee(id int64) Target {
	t.EmployeeID = &id
	return t
}

func (t Target) WithDepartment(id int64) Target {
	t.DepartmentID = &id
	return t
}

func (t Target) WithPositionLevel(level int) Target {
	t.PositionLevel = &level
	return t
}

// DefaultPositionLevel is assumed when the target has no resolvable work position.
const DefaultPositionLevel = 1

// TeamLeaderMaxTargetLevel is the first level a team leader may not modify.
const TeamLeaderMaxTargetLevel = 3

func (t Target) level() int {
	if t.PositionLevel == nil {
		return DefaultPositionLevel
	}
	return *t.PositionLevel
}

func (t Target) inDepartment(id int64) bool {
	return t.DepartmentID != nil && *t.DepartmentID == id
}

// Decision is an allow/deny answer with the rule that produced it.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// Resolver holds the scope rules.
type Resolver struct {
	hierarchy *Hierarchy
}

func NewResolver(h *Hierarchy) *Resolver {
	return &Resolver{hierarchy: h}
}

// ListingScope resolves what ac may see. The department branch is checked before the self
// fallback, so a team leader without a department is denied rather than narrowed to self.
func (r *Resolver) ListingScope(ac *AccessContext) ScopeDecision {
	ac.mustBeBuilt()

	if r.hierarchy.atOrAbove(ac, RoleDirector) {
		return All()
	}
	if ac.HasRole(RoleHR) {
		return All()
	}
	if ac.HasRole(RoleTeamLeader) || ac.HasRole(RoleManager) {
		if dept, ok := ac.DepartmentID(); ok {
			return DepartmentOnly(dept)
		}
		return Denied()
	}
	if emp, ok := ac.EmployeeID(); ok {
		return SelfOnly(emp)
	}
	return Denied()
}

// CanAccess decides read access to a single target.
func (r *Resolver) CanAccess(ac *AccessContext, t Target) Decision {
	scope := r.ListingScope(ac)
	switch scope.Kind {
	case ScopeAll:
		return allow("scope All")
	case ScopeDepartmentOnly:
		if t.inDepartment(scope.DepartmentID) {
			return allow(fmt.Sprintf("target in department %d", scope.DepartmentID))
		}
		return deny(fmt.Sprintf("target outside department %d", scope.DepartmentID))
	case ScopeSelfOnly:
		if t.EmployeeID != nil && *t.EmployeeID == scope.EmployeeID {
			return allow("own record")
		}
		return deny("scope SelfOnly does not cover target")
	default:
		return deny("scope Denied")
	}
}

// CanModify decides write access to a single target.
func (r *Resolver) CanModify(ac *AccessContext, t Target) Decision {
	ac.mustBeBuilt()

	if r.hierarchy.atOrAbove(ac, RoleDirector) {
		return allow("role ranked Director or above")
	}
	if ac.HasRole(RoleHR) {
		return allow("role HR")
	}

	dept, hasDept := ac.DepartmentID()
	sameDept := hasDept && t.inDepartment(dept)

	if ac.HasRole(RoleManager) && sameDept {
		return allow(fmt.Sprintf("manager of department %d", dept))
	}
	if ac.HasRole(RoleTeamLeader) && sameDept {
		if level := t.level(); level < TeamLeaderMaxTargetLevel {
			return allow(fmt.Sprintf("team leader over level %d", level))
		}
		return deny(fmt.Sprintf("team leader cannot modify level %d", t.level()))
	}

	switch {
	case (ac.HasRole(RoleManager) || ac.HasRole(RoleTeamLeader)) && !hasDept:
		return deny("no department claim")
	case ac.HasRole(RoleManager) || ac.HasRole(RoleTeamLeader):
		return deny(fmt.Sprintf("target outside department %d", dept))
	}
	return deny("no role grants write access")
}

// CanCreateScheduleFor decides whether ac may create a shift assignment for the target employee.
func (r *Resolver) CanCreateScheduleFor(ac *AccessContext, employee Target) Decision {
	return r.CanModify(ac, employee)
}
