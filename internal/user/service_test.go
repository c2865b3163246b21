package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	departmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
	userModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/user"
	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
	"github.com/frahmantamala/staff-attendance/internal/core/events"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/frahmantamala/staff-attendance/internal/user"
	userPostgres "github.com/frahmantamala/staff-attendance/internal/user/postgres"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) { return "hashed:" + password, nil }

type contextGuard struct{}

func (contextGuard) AccessContext(ctx context.Context) (*access.AccessContext, error) {
	ac, ok := access.FromContext(ctx)
	if !ok {
		return nil, internal.ErrNoAccessContext
	}
	return ac, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func as(userID int64, roles ...string) context.Context {
	ac := access.BuildContext(access.StaticPrincipal{Roles: roles})
	return internal.ContextWithUserID(access.NewContext(context.Background(), ac), userID)
}

var _ = Describe("User Service", func() {
	var (
		db        *gorm.DB
		service   *user.Service
		publisher *recordingPublisher
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(userModel.SetupJoinTables(db)).To(Succeed())
		Expect(db.AutoMigrate(
			&departmentModel.Department{},
			&workpositionModel.WorkPosition{},
			&employeeModel.Employee{},
			&userModel.Permission{},
			&userModel.RolePermission{},
			&userModel.UserRole{},
			&userModel.Role{},
			&userModel.User{},
		)).To(Succeed())

		// Given the standard roles and an Admin account
		h := access.DefaultHierarchy()
		for i, name := range h.Roles() {
			Expect(db.Create(&userModel.Role{ID: int64(i + 1), Name: name, Rank: h.RankOf(name)}).Error).To(Succeed())
		}
		Expect(db.Create(&userModel.Permission{ID: 1, Code: access.PermUserManagement, Name: "User Management", Category: "System"}).Error).To(Succeed())
		Expect(db.Create(&userModel.RolePermission{RoleID: 2, PermissionID: 1}).Error).To(Succeed())
		Expect(db.Create(&userModel.User{ID: 1, Email: "admin@example.com", FullName: "Admin", PasswordHash: "x", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&userModel.UserRole{UserID: 1, RoleID: 2}).Error).To(Succeed())
		Expect(db.Create(&userModel.User{ID: 2, Email: "root@example.com", FullName: "Root", PasswordHash: "x", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&userModel.UserRole{UserID: 2, RoleID: 1}).Error).To(Succeed())

		Expect(db.Create(&departmentModel.Department{Code: "ENG", Name: "Engineering", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&workpositionModel.WorkPosition{Code: "STF", Name: "Staff", Level: 1, IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&employeeModel.Employee{Code: "E1", FullName: "Ada", Email: "ada@example.com", DateOfBirth: datamodel.NewDate(time.Date(1990, time.January, 2, 0, 0, 0, 0, time.UTC)), DepartmentID: 1, WorkPositionID: 1, IsActive: true}).Error).To(Succeed())

		publisher = &recordingPublisher{}
		service = user.NewService(
			userPostgres.NewUserRepository(db),
			plainHasher{},
			contextGuard{},
			access.NewAuthorizer(nil, nil),
			publisher,
			logger.Discard(),
		)
	})

	Describe("Create", func() {
		It("should create a user with roles and a hashed password", func() {
			created, err := service.Create(as(1, access.RoleAdmin), user.CreateUserDTO{
				Email:    " New@Example.com ",
				FullName: "New Hire",
				Password: "long-enough",
				Roles:    []string{access.RoleHR, access.RoleEmployee, access.RoleHR},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Email).To(Equal("new@example.com"))
			Expect(created.Roles).To(Equal([]string{access.RoleHR, access.RoleEmployee}))

			var stored userModel.User
			Expect(db.First(&stored, created.ID).Error).To(Succeed())
			Expect(stored.PasswordHash).To(Equal("hashed:long-enough"))

			var link userModel.UserRole
			Expect(db.Where("user_id = ?", created.ID).First(&link).Error).To(Succeed())
			Expect(link.AssignedBy).NotTo(BeNil())
			Expect(*link.AssignedBy).To(Equal(int64(1)))
		})

		It("should refuse to grant a role above the caller's rank", func() {
			_, err := service.Create(as(1, access.RoleAdmin), user.CreateUserDTO{
				Email: "x@example.com", FullName: "X", Password: "long-enough", Roles: []string{access.RoleSuperAdmin},
			})

			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})

		It("should reject unknown roles", func() {
			_, err := service.Create(as(1, access.RoleAdmin), user.CreateUserDTO{
				Email: "x@example.com", FullName: "X", Password: "long-enough", Roles: []string{"Janitor"},
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(appErr.Error()).To(ContainSubstring("unknown role"))
		})

		It("should reject duplicate emails", func() {
			_, err := service.Create(as(1, access.RoleAdmin), user.CreateUserDTO{
				Email: "ADMIN@example.com", FullName: "X", Password: "long-enough", Roles: []string{access.RoleUser},
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusConflict))
		})

		It("should validate the password length", func() {
			_, err := service.Create(as(1, access.RoleAdmin), user.CreateUserDTO{
				Email: "x@example.com", FullName: "X", Password: "short", Roles: []string{access.RoleUser},
			})

			Expect(err).To(MatchError(ContainSubstring("at least 8")))
		})
	})

	Describe("default roles", func() {
		addEmployee := func(code string, level int) int64 {
			pos := &workpositionModel.WorkPosition{Code: "P" + code, Name: "Position " + code, Level: level, IsActive: true}
			Expect(db.Create(pos).Error).To(Succeed())
			emp := &employeeModel.Employee{
				Code: code, FullName: "Employee " + code, Email: code + "@example.com",
				DateOfBirth:  datamodel.NewDate(time.Date(1988, time.May, 1, 0, 0, 0, 0, time.UTC)),
				DepartmentID: 1, WorkPositionID: pos.ID, IsActive: true,
			}
			Expect(db.Create(emp).Error).To(Succeed())
			return emp.ID
		}

		create := func(ctx context.Context, email string, employeeID *int64) (*user.User, error) {
			return service.Create(ctx, user.CreateUserDTO{
				Email: email, FullName: "Linked", Password: "long-enough", EmployeeID: employeeID,
			})
		}

		DescribeTable("should derive the role from the linked employee when none is given",
			func(level int, leads bool, expected string) {
				// Given an employee at the level, optionally leading the department
				employeeID := addEmployee("D1", level)
				if leads {
					Expect(db.Model(&departmentModel.Department{}).Where("id = ?", 1).Update("leader_id", employeeID).Error).To(Succeed())
				}

				// When an account is created without roles
				created, err := create(as(1, access.RoleAdmin), "derived@example.com", &employeeID)

				// Then it starts with the derived role
				Expect(err).NotTo(HaveOccurred())
				Expect(created.Roles).To(Equal([]string{expected}))
			},
			Entry("staff", 1, false, access.RoleEmployee),
			Entry("level 3", 3, false, access.RoleTeamLeader),
			Entry("level 4", 4, false, access.RoleDirector),
			Entry("department leader", 2, true, access.RoleManager),
		)

		It("should still require roles for an account without an employee", func() {
			_, err := create(as(1, access.RoleAdmin), "nobody@example.com", nil)

			Expect(err).To(MatchError(ContainSubstring("at least one role")))
		})

		It("should not derive a role the caller may not grant", func() {
			employeeID := addEmployee("D2", 4)

			_, err := create(as(1, access.RoleHR), "director@example.com", &employeeID)

			Expect(err).To(MatchError(internal.ErrAccessDenied))
		})

		It("should report a missing employee", func() {
			missing := int64(99)

			_, err := create(as(1, access.RoleAdmin), "ghost@example.com", &missing)

			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})

		It("should add the derived role when linking a base account", func() {
			// Given an account holding only the User role
			base, err := service.Create(as(1, access.RoleAdmin), user.CreateUserDTO{
				Email: "base@example.com", FullName: "Base", Password: "long-enough", Roles: []string{access.RoleUser},
			})
			Expect(err).NotTo(HaveOccurred())
			employeeID := addEmployee("D3", 3)

			// When it is linked to a level 3 employee
			linked, err := service.LinkEmployee(as(1, access.RoleAdmin), base.ID, user.LinkEmployeeDTO{EmployeeID: &employeeID})

			// Then it gains TeamLeader and both changes are announced
			Expect(err).NotTo(HaveOccurred())
			Expect(linked.Roles).To(ConsistOf(access.RoleTeamLeader, access.RoleUser))
			Expect(publisher.types()).To(ContainElements(events.EventTypeProfileChanged, events.EventTypeRolesChanged))
		})

		It("should leave ranked accounts alone when linking", func() {
			employeeID := addEmployee("D4", 4)

			linked, err := service.LinkEmployee(as(1, access.RoleAdmin), 1, user.LinkEmployeeDTO{EmployeeID: &employeeID})

			Expect(err).NotTo(HaveOccurred())
			Expect(linked.Roles).To(Equal([]string{access.RoleAdmin}))
			Expect(publisher.types()).NotTo(ContainElement(events.EventTypeRolesChanged))
		})
	})

	Describe("AssignRoles", func() {
		var target *user.User

		BeforeEach(func() {
			var err error
			target, err = service.Create(as(1, access.RoleAdmin), user.CreateUserDTO{
				Email: "lead@example.com", FullName: "Lead", Password: "long-enough", Roles: []string{access.RoleEmployee},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should replace roles and announce the change", func() {
			updated, err := service.AssignRoles(as(1, access.RoleAdmin), target.ID, user.AssignRolesDTO{Roles: []string{access.RoleTeamLeader}})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Roles).To(Equal([]string{access.RoleTeamLeader}))
			Expect(publisher.types()).To(ContainElement(events.EventTypeRolesChanged))
		})

		It("should not let an admin change a super admin", func() {
			_, err := service.AssignRoles(as(1, access.RoleAdmin), 2, user.AssignRolesDTO{Roles: []string{access.RoleUser}})

			Expect(err).To(MatchError(internal.ErrAccessDenied))
			Expect(publisher.types()).To(BeEmpty())
		})

		It("should require at least one role", func() {
			_, err := service.AssignRoles(as(1, access.RoleAdmin), target.ID, user.AssignRolesDTO{Roles: []string{" "}})

			Expect(err).To(HaveOccurred())
		})

		It("should return not found for unknown users", func() {
			_, err := service.AssignRoles(as(1, access.RoleAdmin), 404, user.AssignRolesDTO{Roles: []string{access.RoleUser}})

			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("LinkEmployee", func() {
		It("should link once and announce the profile change", func() {
			employeeID := int64(1)

			linked, err := service.LinkEmployee(as(1, access.RoleAdmin), 1, user.LinkEmployeeDTO{EmployeeID: &employeeID})

			Expect(err).NotTo(HaveOccurred())
			Expect(*linked.EmployeeID).To(Equal(employeeID))
			Expect(publisher.types()).To(ContainElement(events.EventTypeProfileChanged))

			_, err = service.LinkEmployee(as(2, access.RoleSuperAdmin), 2, user.LinkEmployeeDTO{EmployeeID: &employeeID})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusConflict))
		})

		It("should reject unknown employees", func() {
			missing := int64(99)

			_, err := service.LinkEmployee(as(1, access.RoleAdmin), 1, user.LinkEmployeeDTO{EmployeeID: &missing})

			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})

	Describe("Update", func() {
		It("should announce deactivation", func() {
			inactive := false

			updated, err := service.Update(as(1, access.RoleAdmin), 1, user.UpdateUserDTO{FullName: " Admin Two ", IsActive: &inactive})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.FullName).To(Equal("Admin Two"))
			Expect(updated.IsActive).To(BeFalse())
			Expect(publisher.types()).To(Equal([]string{events.EventTypeProfileChanged}))
		})
	})

	Describe("HTTP", func() {
		var router chi.Router

		BeforeEach(func() {
			handler := user.NewHandler(transport.NewBaseHandler(logger.Discard()), service)
			router = chi.NewRouter()
			router.Get("/users", handler.ListUsers)
			router.Get("/users/{id}", handler.GetUser)
			router.Get("/roles", handler.ListRoles)
			router.Get("/permissions", handler.ListPermissions)
		})

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		It("should page users with their roles", func() {
			w := get("/users?limit=1")

			Expect(w.Code).To(Equal(http.StatusOK))
			var page transport.Page[user.User]
			Expect(json.NewDecoder(w.Body).Decode(&page)).To(Succeed())
			Expect(page.Total).To(Equal(int64(2)))
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0].Roles).To(Equal([]string{access.RoleAdmin}))
		})

		It("should list roles by rank with their permissions", func() {
			var roles []user.Role
			Expect(json.NewDecoder(get("/roles").Body).Decode(&roles)).To(Succeed())

			Expect(roles).To(HaveLen(8))
			Expect(roles[0].Name).To(Equal(access.RoleSuperAdmin))
			Expect(roles[1].Permissions).To(Equal([]string{access.PermUserManagement}))
		})

		It("should filter the permission catalog by category", func() {
			var all, schedule []access.PermissionDef
			Expect(json.NewDecoder(get("/permissions").Body).Decode(&all)).To(Succeed())
			Expect(json.NewDecoder(get("/permissions?category=Schedule").Body).Decode(&schedule)).To(Succeed())

			Expect(len(all)).To(BeNumerically(">", len(schedule)))
			Expect(schedule).NotTo(BeEmpty())
			Expect(get("/permissions?category=Nope").Body.String()).To(ContainSubstring("[]"))
		})

		It("should return 404 for an unknown user", func() {
			Expect(get("/users/" + strconv.Itoa(404)).Code).To(Equal(http.StatusNotFound))
		})
	})
})
