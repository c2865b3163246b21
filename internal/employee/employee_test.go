package employee_test

import (
	"time"

	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
	"github.com/frahmantamala/staff-attendance/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee", func() {
	Describe("AgeOn", func() {
		dob := datamodel.NewDate(time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC))

		It("should not count the year before the birthday", func() {
			Expect(employee.AgeOn(dob, time.Date(2024, time.June, 14, 12, 0, 0, 0, time.UTC))).To(Equal(33))
		})

		It("should count the year on the birthday", func() {
			Expect(employee.AgeOn(dob, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC))).To(Equal(34))
		})

		It("should return zero for an unknown birth date", func() {
			Expect(employee.AgeOn(datamodel.Date{}, time.Now())).To(BeZero())
		})
	})

	Describe("TargetOf", func() {
		It("should carry the preloaded position level", func() {
			e := &employeeModel.Employee{ID: 7, DepartmentID: 2, WorkPosition: &workpositionModel.WorkPosition{Level: 3}}

			t := employee.TargetOf(e)

			Expect(*t.EmployeeID).To(Equal(int64(7)))
			Expect(*t.DepartmentID).To(Equal(int64(2)))
			Expect(*t.PositionLevel).To(Equal(3))
		})

		It("should leave the level unset without a work position", func() {
			t := employee.TargetOf(&employeeModel.Employee{ID: 7, DepartmentID: 2})

			Expect(t.PositionLevel).To(BeNil())
		})
	})

	Describe("EmployeeDTO", func() {
		var dto employee.EmployeeDTO

		BeforeEach(func() {
			dob := datamodel.NewDate(time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC))
			dto = employee.EmployeeDTO{
				Code:           " e-100 ",
				FullName:       " Ada Lovelace ",
				DateOfBirth:    &dob,
				Email:          " Ada@Example.COM ",
				DepartmentID:   1,
				WorkPositionID: 1,
			}
		})

		It("should normalize code, name and email", func() {
			dto.Normalize()

			Expect(dto.Code).To(Equal("E-100"))
			Expect(dto.FullName).To(Equal("Ada Lovelace"))
			Expect(dto.Email).To(Equal("ada@example.com"))
			Expect(dto.Validate()).To(Succeed())
		})

		It("should drop a blank phone", func() {
			blank := "   "
			dto.Phone = &blank

			dto.Normalize()

			Expect(dto.Phone).To(BeNil())
		})

		It("should reject a malformed email", func() {
			dto.Normalize()
			dto.Email = "not-an-email"

			Expect(dto.Validate()).To(MatchError(ContainSubstring("valid email")))
		})

		It("should reject a birth date in the future", func() {
			dto.Normalize()
			future := datamodel.NewDate(time.Now().AddDate(1, 0, 0))
			dto.DateOfBirth = &future

			Expect(dto.Validate()).To(HaveOccurred())
		})

		It("should require department and work position", func() {
			dto.Normalize()
			dto.DepartmentID = 0

			Expect(dto.Validate()).To(HaveOccurred())
		})
	})
})
