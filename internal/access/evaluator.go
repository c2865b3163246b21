package access

// HasPermission reports whether code was granted to ac through a Permission claim.
func HasPermission(ac *AccessContext, code string) bool {
	ac.mustBeBuilt()
	_, ok := ac.permissions[code]
	return ok
}

// MeetsMinimumRole reports whether the best ranked role of ac is at least minimumRole.
// A context without roles never qualifies.
func (h *Hierarchy) MeetsMinimumRole(ac *AccessContext, minimumRole string) bool {
	ac.mustBeBuilt()
	best, ok := h.HighestRank(ac.roles)
	if !ok {
		return false
	}
	return best >= h.RankOf(minimumRole)
}

func (h *Hierarchy) atOrAbove(ac *AccessContext, role string) bool {
	threshold := h.RankOf(role)
	if threshold <= 0 {
		return false
	}
	for _, r := range ac.roles {
		if h.RankOf(r) >= threshold {
			return true
		}
	}
	return false
}
