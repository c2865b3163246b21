package cmd

import (
	"github.com/frahmantamala/staff-attendance/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("permissionDefs", func() {
	catalog := access.DefaultCatalog()

	It("should name each permission once in first-seen order", func() {
		defs, err := permissionDefs(catalog, []string{
			access.PermScheduleCreateTeam, access.PermUserManagement, access.PermScheduleCreateTeam,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(defs).To(HaveLen(2))
		Expect(defs[0].Code).To(Equal(access.PermScheduleCreateTeam))
		Expect(defs[0].Name).To(Equal("Create Team Schedules"))
		Expect(defs[0].Category).To(Equal(access.CategorySchedule))
		Expect(defs[1].Code).To(Equal(access.PermUserManagement))
	})

	It("should reject an unknown code", func() {
		_, err := permissionDefs(catalog, []string{"TIME_TRAVEL"})

		Expect(err).To(MatchError(ContainSubstring(`unknown permission code "TIME_TRAVEL"`)))
	})

	It("should return nothing for no codes", func() {
		defs, err := permissionDefs(catalog, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(defs).To(BeEmpty())
	})
})
