package access_test

import (
	"github.com/frahmantamala/staff-attendance/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DefaultGrants", func() {
	It("should cover every built-in role with known codes only", func() {
		grants := access.DefaultGrants()
		catalog := access.DefaultCatalog()

		for _, role := range access.DefaultHierarchy().Roles() {
			Expect(grants).To(HaveKey(role))
			for _, code := range grants[role] {
				Expect(catalog.IsKnown(code)).To(BeTrue(), "%s grants unknown %s", role, code)
			}
		}
	})

	It("should give administrators the whole catalog", func() {
		Expect(access.DefaultGrants()[access.RoleAdmin]).To(HaveLen(len(access.DefaultCatalog().All())))
	})

	It("should keep management permissions away from staff", func() {
		grants := access.DefaultGrants()

		Expect(grants[access.RoleEmployee]).NotTo(ContainElement(access.PermUserManagement))
		Expect(grants[access.RoleTeamLeader]).NotTo(ContainElement(access.PermEmployeeDelete))
		Expect(grants[access.RoleHR]).NotTo(ContainElement(access.PermRoleManagement))
	})
})

var _ = DescribeTable("DefaultRoleFor",
	func(leads bool, level int, expected string) {
		Expect(access.DefaultRoleFor(leads, level)).To(Equal(expected))
	},
	Entry("department leader at any level", true, 1, access.RoleManager),
	Entry("staff", false, 1, access.RoleEmployee),
	Entry("senior staff", false, 2, access.RoleEmployee),
	Entry("level 3", false, 3, access.RoleTeamLeader),
	Entry("level 4", false, 4, access.RoleDirector),
	Entry("level 5", false, 5, access.RoleManager),
	Entry("unknown level", false, 0, access.RoleEmployee),
)
