package access

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Claim keys read by the extractor.
const (
	ClaimPermission    = "Permission"
	ClaimEmployeeID    = "EmployeeId"
	ClaimDepartmentID  = "DepartmentId"
	ClaimPositionLevel = "PositionLevel"
)

var (
	ErrContextNotBuilt = errors.New("access: context was not built from a principal")
	ErrNilPrincipal    = errors.New("access: principal is nil")
	ErrTargetNotFound  = errors.New("access: target not found")
)

// Principal is a verified identity as supplied by the identity layer.
type Principal interface {
	RoleNames() []string
	// ClaimValues returns every value stored under key, in issue order.
	ClaimValues(key string) []string
}

// ClaimSet is a claim multimap.
type ClaimSet map[string][]string

func (c ClaimSet) Add(key, value string) {
	c[key] = append(c[key], value)
}

// StaticPrincipal is a Principal assembled in memory, used by the CLI and tests.
type StaticPrincipal struct {
	Roles  []string
	Claims ClaimSet
}

func (p StaticPrincipal) RoleNames() []string { return p.Roles }

func (p StaticPrincipal) ClaimValues(key string) []string {
	if p.Claims == nil {
		return nil
	}
	return p.Claims[key]
}

type optionalInt struct {
	value int64
	set   bool
}

// AccessContext is the per-request snapshot of a principal used for every decision.
// Only BuildContext produces a usable value; it is never mutated afterwards.
type AccessContext struct {
	roles         []string
	permissions   map[string]struct{}
	employeeID    optionalInt
	departmentID  optionalInt
	positionLevel optionalInt
	built         bool
}

// BuildContext extracts an AccessContext from p. Malformed integer claims are left absent.
func BuildContext(p Principal) *AccessContext {
	if p == nil {
		panic(ErrNilPrincipal)
	}

	roles := p.RoleNames()
	ac := &AccessContext{
		roles:       append([]string(nil), roles...),
		permissions: make(map[string]struct{}),
		built:       true,
	}

	for _, code := range p.ClaimValues(ClaimPermission) {
		ac.permissions[code] = struct{}{}
	}

	ac.employeeID = parseClaimInt(p.ClaimValues(ClaimEmployeeID))
	ac.departmentID = parseClaimInt(p.ClaimValues(ClaimDepartmentID))
	ac.positionLevel = parseClaimInt(p.ClaimValues(ClaimPositionLevel))

	return ac
}

// first value wins, matching how single-valued claims are read elsewhere
func parseClaimInt(values []string) optionalInt {
	if len(values) == 0 {
		return optionalInt{}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(values[0]), 10, 32)
	if err != nil {
		return optionalInt{}
	}
	return optionalInt{value: n, set: true}
}

func (ac *AccessContext) mustBeBuilt() {
	if ac == nil || !ac.built {
		panic(ErrContextNotBuilt)
	}
}

func (ac *AccessContext) Roles() []string {
	ac.mustBeBuilt()
	return append([]string(nil), ac.roles...)
}

func (ac *AccessContext) HasRole(name string) bool {
	ac.mustBeBuilt()
	for _, r := range ac.roles {
		if r == name {
			return true
		}
	}
	return false
}

// Permissions returns the granted codes sorted.
func (ac *AccessContext) Permissions() []string {
	ac.mustBeBuilt()
	out := make([]string, 0, len(ac.permissions))
	for code := range ac.permissions {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func (ac *AccessContext) EmployeeID() (int64, bool) {
	ac.mustBeBuilt()
	return ac.employeeID.value, ac.employeeID.set
}

func (ac *AccessContext) DepartmentID() (int64, bool) {
	ac.mustBeBuilt()
	return ac.departmentID.value, ac.departmentID.set
}

func (ac *AccessContext) PositionLevel() (int, bool) {
	ac.mustBeBuilt()
	return int(ac.positionLevel.value), ac.positionLevel.set
}

type ctxKey string

const accessContextKey ctxKey = "access_context"

// NewContext stores ac in ctx.
func NewContext(ctx context.Context, ac *AccessContext) context.Context {
	return context.WithValue(ctx, accessContextKey, ac)
}

// FromContext returns the AccessContext stored by NewContext.
func FromContext(ctx context.Context) (*AccessContext, bool) {
	if ctx == nil {
		return nil, false
	}
	ac, ok := ctx.Value(accessContextKey).(*AccessContext)
	return ac, ok && ac != nil
}
