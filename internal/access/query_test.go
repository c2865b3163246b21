package access_test

import (
	"github.com/frahmantamala/staff-attendance/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type scopedEmployee struct {
	ID           int64 `gorm:"primaryKey"`
	DepartmentID int64 `gorm:"column:department_id"`
	Name         string
}

func (scopedEmployee) TableName() string { return "employees" }

var _ = Describe("ScopeDecision.Scope", func() {
	var db *gorm.DB

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&scopedEmployee{})).To(Succeed())

		// Given three employees across two departments
		Expect(db.Create(&[]scopedEmployee{
			{ID: 1, DepartmentID: 5, Name: "ana"},
			{ID: 2, DepartmentID: 5, Name: "budi"},
			{ID: 3, DepartmentID: 7, Name: "citra"},
		}).Error).To(Succeed())
	})

	ids := func(scope access.ScopeDecision, cols access.Columns) []int64 {
		var rows []scopedEmployee
		Expect(db.Scopes(scope.Scope(cols)).Order("id").Find(&rows).Error).To(Succeed())
		out := make([]int64, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.ID)
		}
		return out
	}

	It("should not filter scope All", func() {
		Expect(ids(access.All(), access.EmployeeColumns)).To(Equal([]int64{1, 2, 3}))
	})

	It("should narrow to the department", func() {
		Expect(ids(access.DepartmentOnly(5), access.EmployeeColumns)).To(Equal([]int64{1, 2}))
	})

	It("should narrow to the employee", func() {
		Expect(ids(access.SelfOnly(3), access.EmployeeColumns)).To(Equal([]int64{3}))
	})

	It("should match nothing when denied", func() {
		Expect(ids(access.Denied(), access.EmployeeColumns)).To(BeEmpty())
	})

	It("should match nothing when the needed column is not configured", func() {
		Expect(ids(access.DepartmentOnly(5), access.Columns{Employee: "employees.id"})).To(BeEmpty())
	})
})
