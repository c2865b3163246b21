package access

import "fmt"

type Mode int

const (
	Read Mode = iota
	Write
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Authorizer is the entry point request handlers consult. It is safe for concurrent use.
type Authorizer struct {
	hierarchy *Hierarchy
	catalog   *Catalog
	resolver  *Resolver
}

// NewAuthorizer wires the evaluators. Nil arguments fall back to the built-in tables.
func NewAuthorizer(h *Hierarchy, c *Catalog) *Authorizer {
	if h == nil {
		h = DefaultHierarchy()
	}
	if c == nil {
		c = DefaultCatalog()
	}
	return &Authorizer{
		hierarchy: h,
		catalog:   c,
		resolver:  NewResolver(h),
	}
}

func (a *Authorizer) Hierarchy() *Hierarchy { return a.hierarchy }
func (a *Authorizer) Catalog() *Catalog     { return a.catalog }

// Authorize checks a permission code.
func (a *Authorizer) Authorize(ac *AccessContext, permissionCode string) bool {
	return HasPermission(ac, permissionCode)
}

// AuthorizeRole checks a minimum role.
func (a *Authorizer) AuthorizeRole(ac *AccessContext, minimumRole string) bool {
	return a.hierarchy.MeetsMinimumRole(ac, minimumRole)
}

// AuthorizeScope checks read or write access to one target.
func (a *Authorizer) AuthorizeScope(ac *AccessContext, t Target, mode Mode) bool {
	return a.Explain(ac, t, mode).Allowed
}

// AuthorizeSchedule checks whether a shift assignment may be created for the target employee.
func (a *Authorizer) AuthorizeSchedule(ac *AccessContext, employee Target) bool {
	return a.resolver.CanCreateScheduleFor(ac, employee).Allowed
}

func (a *Authorizer) ResolveListingScope(ac *AccessContext) ScopeDecision {
	return a.resolver.ListingScope(ac)
}

// Explain is AuthorizeScope with the deciding rule attached.
func (a *Authorizer) Explain(ac *AccessContext, t Target, mode Mode) Decision {
	switch mode {
	case Read:
		return a.resolver.CanAccess(ac, t)
	case Write:
		return a.resolver.CanModify(ac, t)
	default:
		panic(fmt.Sprintf("access: unsupported mode %v", mode))
	}
}

func (a *Authorizer) ExplainSchedule(ac *AccessContext, employee Target) Decision {
	return a.resolver.CanCreateScheduleFor(ac, employee)
}

// MustKnowPermission panics when code is not in the catalog. Used when routes are registered.
func (a *Authorizer) MustKnowPermission(code string) {
	if !a.catalog.IsKnown(code) {
		panic(fmt.Sprintf("access: unknown permission code %q", code))
	}
}

// MustKnowRole panics when role is not in the hierarchy. Used when routes are registered.
func (a *Authorizer) MustKnowRole(role string) {
	if !a.hierarchy.Knows(role) {
		panic(fmt.Sprintf("access: unknown role %q", role))
	}
}
