package datamodel_test

import (
	userModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("User join tables", func() {
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
	})

	It("should migrate user_roles with the assignment columns whatever the model order", func() {
		// Given the join models registered before migrating
		Expect(userModel.SetupJoinTables(db)).To(Succeed())

		// When User is migrated ahead of UserRole
		Expect(db.AutoMigrate(
			&userModel.Permission{},
			&userModel.Role{},
			&userModel.User{},
			&userModel.UserRole{},
			&userModel.RolePermission{},
		)).To(Succeed())

		// Then the join table keeps assigned_by and created_at
		Expect(db.Migrator().HasColumn(&userModel.UserRole{}, "assigned_by")).To(BeTrue())
		Expect(db.Migrator().HasColumn(&userModel.UserRole{}, "created_at")).To(BeTrue())

		assigner := int64(7)
		Expect(db.Create(&userModel.Role{ID: 1, Name: "Admin", Rank: 9}).Error).To(Succeed())
		Expect(db.Create(&userModel.User{ID: 1, Email: "a@example.com", FullName: "A", PasswordHash: "x", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&userModel.UserRole{UserID: 1, RoleID: 1, AssignedBy: &assigner}).Error).To(Succeed())

		var loaded userModel.User
		Expect(db.Preload("Roles").First(&loaded, 1).Error).To(Succeed())
		Expect(loaded.Roles).To(HaveLen(1))
		Expect(loaded.Roles[0].Name).To(Equal("Admin"))
	})
})
