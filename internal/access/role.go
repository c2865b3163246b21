package access

import (
	"fmt"
	"sort"
)

const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleDirector   = "Director"
	RoleManager    = "Manager"
	RoleHR         = "HR"
	RoleTeamLeader = "TeamLeader"
	RoleEmployee   = "Employee"
	RoleUser       = "User"
)

// scopeRoles are referenced by the scope rules and must exist in every hierarchy.
var scopeRoles = []string{RoleDirector, RoleManager, RoleHR, RoleTeamLeader}

// Hierarchy maps role names to an integer rank. It is read-only after construction.
type Hierarchy struct {
	ranks map[string]int
}

// DefaultHierarchy returns the built-in role ranking.
func DefaultHierarchy() *Hierarchy {
	return &Hierarchy{ranks: map[string]int{
		RoleSuperAdmin: 10,
		RoleAdmin:      9,
		RoleDirector:   8,
		RoleManager:    7,
		RoleHR:         6,
		RoleTeamLeader: 5,
		RoleEmployee:   4,
		RoleUser:       1,
	}}
}

// NewHierarchy builds a hierarchy from a custom table, typically loaded from config.
func NewHierarchy(ranks map[string]int) (*Hierarchy, error) {
	if len(ranks) == 0 {
		return nil, fmt.Errorf("role hierarchy is empty")
	}

	copied := make(map[string]int, len(ranks))
	seen := make(map[int]string, len(ranks))
	for name, rank := range ranks {
		if name == "" {
			return nil, fmt.Errorf("role hierarchy contains an empty role name")
		}
		if rank <= 0 {
			return nil, fmt.Errorf("role %q must have a positive rank, got %d", name, rank)
		}
		if other, dup := seen[rank]; dup {
			return nil, fmt.Errorf("roles %q and %q share rank %d", other, name, rank)
		}
		seen[rank] = name
		copied[name] = rank
	}

	for _, required := range scopeRoles {
		if _, ok := copied[required]; !ok {
			return nil, fmt.Errorf("role hierarchy must define %q", required)
		}
	}

	return &Hierarchy{ranks: copied}, nil
}

// RankOf returns the rank of roleName, or 0 when the role is unknown.
func (h *Hierarchy) RankOf(roleName string) int {
	return h.ranks[roleName]
}

// Knows reports whether roleName is part of the hierarchy.
func (h *Hierarchy) Knows(roleName string) bool {
	_, ok := h.ranks[roleName]
	return ok
}

// HighestRank returns the best rank among roles. The bool is false for an empty set.
func (h *Hierarchy) HighestRank(roles []string) (int, bool) {
	if len(roles) == 0 {
		return 0, false
	}
	best := 0
	for _, r := range roles {
		if rank := h.RankOf(r); rank > best {
			best = rank
		}
	}
	return best, true
}

// Roles lists role names from highest to lowest rank.
func (h *Hierarchy) Roles() []string {
	names := make([]string, 0, len(h.ranks))
	for name := range h.ranks {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return h.ranks[names[i]] > h.ranks[names[j]]
	})
	return names
}
