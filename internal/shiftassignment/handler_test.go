package shiftassignment_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	accessPostgres "github.com/frahmantamala/staff-attendance/internal/access/postgres"
	"github.com/frahmantamala/staff-attendance/internal/auth"
	"github.com/frahmantamala/staff-attendance/internal/core/datamodel"
	departmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
	assignmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shiftassignment"
	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
	"github.com/frahmantamala/staff-attendance/internal/shiftassignment"
	assignmentPostgres "github.com/frahmantamala/staff-attendance/internal/shiftassignment/postgres"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func principal(role string, employeeID, departmentID int64) *access.AccessContext {
	claims := access.ClaimSet{}
	if employeeID > 0 {
		claims.Add(access.ClaimEmployeeID, strconv.FormatInt(employeeID, 10))
	}
	if departmentID > 0 {
		claims.Add(access.ClaimDepartmentID, strconv.FormatInt(departmentID, 10))
	}
	return access.BuildContext(access.StaticPrincipal{Roles: []string{role}, Claims: claims})
}

var _ = Describe("Shift Assignment Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
		caller *access.AccessContext
		today  datamodel.Date
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodePage := func(w *httptest.ResponseRecorder) transport.Page[shiftassignment.ShiftAssignment] {
		Expect(w.Code).To(Equal(http.StatusOK))
		var page transport.Page[shiftassignment.ShiftAssignment]
		Expect(json.NewDecoder(w.Body).Decode(&page)).To(Succeed())
		return page
	}

	create := func(employeeID, shiftID int64, date string) *httptest.ResponseRecorder {
		return do(http.MethodPost, "/shift-assignments",
			fmt.Sprintf(`{"employee_id":%d,"shift_id":%d,"work_date":%q}`, employeeID, shiftID, date))
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(
			&departmentModel.Department{},
			&workpositionModel.WorkPosition{},
			&employeeModel.Employee{},
			&shiftModel.Shift{},
			&assignmentModel.ShiftAssignment{},
		)).To(Succeed())

		// Given two departments, staff at levels 1 and 3 and two shifts
		Expect(db.Create(&departmentModel.Department{Code: "ENG", Name: "Engineering", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&departmentModel.Department{Code: "OPS", Name: "Operations", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&workpositionModel.WorkPosition{Code: "STF", Name: "Staff", Level: 1, IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&workpositionModel.WorkPosition{Code: "MGR", Name: "Manager", Level: 3, IsActive: true}).Error).To(Succeed())
		for _, e := range []*employeeModel.Employee{
			{Code: "E1", FullName: "Ada", Email: "ada@example.com", DepartmentID: 1, WorkPositionID: 1, IsActive: true},
			{Code: "E2", FullName: "Ben", Email: "ben@example.com", DepartmentID: 1, WorkPositionID: 2, IsActive: true},
			{Code: "E3", FullName: "Cy", Email: "cy@example.com", DepartmentID: 2, WorkPositionID: 1, IsActive: true},
		} {
			Expect(db.Create(e).Error).To(Succeed())
		}
		Expect(db.Create(&shiftModel.Shift{Name: "Morning", Type: shiftModel.TypeMorning, StartTime: "06:00", EndTime: "14:00", IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&shiftModel.Shift{Name: "Night", Type: shiftModel.TypeNight, StartTime: "22:00", EndTime: "06:00", IsActive: true}).Error).To(Succeed())

		today = datamodel.NewDate(time.Now())
		yesterday := datamodel.NewDate(time.Now().AddDate(0, 0, -1))
		for _, a := range []*assignmentModel.ShiftAssignment{
			{EmployeeID: 1, ShiftID: 1, WorkDate: today, StatusCode: assignmentModel.StatusWorked},
			{EmployeeID: 2, ShiftID: 1, WorkDate: today, StatusCode: assignmentModel.StatusWorked},
			{EmployeeID: 3, ShiftID: 2, WorkDate: today, StatusCode: assignmentModel.StatusWorked},
			{EmployeeID: 3, ShiftID: 1, WorkDate: yesterday, StatusCode: assignmentModel.StatusRest},
		} {
			Expect(db.Create(a).Error).To(Succeed())
		}

		targets := accessPostgres.NewTargetRepository(sqlx.NewDb(sqlDB, "sqlite3"))
		guard := auth.NewRBACAuthorization(access.NewAuthorizer(nil, nil), nil, logger.Discard())
		service := shiftassignment.NewService(assignmentPostgres.NewShiftAssignmentRepository(db), targets, guard, logger.Discard())
		handler := shiftassignment.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		caller = nil
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if caller != nil {
					ctx := access.NewContext(r.Context(), caller)
					r = r.WithContext(internal.ContextWithUserID(ctx, 77))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/shift-assignments", handler.ListAssignments)
		router.Get("/shift-assignments/today", handler.ListTodayAssignments)
		router.Get("/shift-assignments/employee/{employeeID}", handler.ListEmployeeAssignments)
		router.Get("/shift-assignments/{id}", handler.GetAssignment)
		router.Post("/shift-assignments", handler.CreateAssignment)
		router.Put("/shift-assignments/{id}", handler.UpdateAssignment)
		router.Delete("/shift-assignments/{id}", handler.DeleteAssignment)
		router.Post("/shift-assignments/{id}/check-in", handler.CheckIn)
		router.Post("/shift-assignments/{id}/check-out", handler.CheckOut)
	})

	Describe("listing", func() {
		It("should show HR every assignment", func() {
			caller = principal(access.RoleHR, 0, 0)

			page := decodePage(do(http.MethodGet, "/shift-assignments", ""))

			Expect(page.Total).To(Equal(int64(4)))
		})

		It("should narrow a manager to their department", func() {
			caller = principal(access.RoleManager, 2, 1)

			page := decodePage(do(http.MethodGet, "/shift-assignments", ""))

			Expect(page.Total).To(Equal(int64(2)))
			for _, a := range page.Items {
				Expect(a.DepartmentID).To(Equal(int64(1)))
			}
		})

		It("should narrow an employee to their own assignments", func() {
			caller = principal(access.RoleEmployee, 3, 2)

			page := decodePage(do(http.MethodGet, "/shift-assignments?status_code=RO", ""))

			Expect(page.Total).To(Equal(int64(1)))
			Expect(page.Items[0].StatusName).To(Equal("Rest"))
			Expect(page.Items[0].ShiftName).To(Equal("Morning"))
		})

		It("should list today's assignments only", func() {
			caller = principal(access.RoleDirector, 0, 0)

			page := decodePage(do(http.MethodGet, "/shift-assignments/today", ""))

			Expect(page.Total).To(Equal(int64(3)))
			for _, a := range page.Items {
				Expect(a.WorkDate.String()).To(Equal(today.String()))
			}
		})

		It("should return an empty page for a user with no employee record", func() {
			caller = principal(access.RoleUser, 0, 0)

			page := decodePage(do(http.MethodGet, "/shift-assignments", ""))

			Expect(page.Items).To(BeEmpty())
		})

		It("should check read scope on an employee's schedule", func() {
			caller = principal(access.RoleTeamLeader, 1, 1)

			Expect(do(http.MethodGet, "/shift-assignments/employee/3", "").Code).To(Equal(http.StatusForbidden))

			page := decodePage(do(http.MethodGet, "/shift-assignments/employee/2?from="+today.String()+"&to="+today.String(), ""))
			Expect(page.Total).To(Equal(int64(1)))
		})

		It("should reject an inverted date range", func() {
			caller = principal(access.RoleHR, 0, 0)

			Expect(do(http.MethodGet, "/shift-assignments?from=2024-02-02&to=2024-02-01", "").Code).To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodGet, "/shift-assignments?from=yesterday", "").Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("scheduling", func() {
		It("should let a team leader schedule staff below level 3 in their department", func() {
			caller = principal(access.RoleTeamLeader, 1, 1)

			w := create(1, 2, "2030-01-01")

			Expect(w.Code).To(Equal(http.StatusCreated))
			var created shiftassignment.ShiftAssignment
			Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
			Expect(created.StatusCode).To(Equal("X"))
			Expect(created.CreatedBy).NotTo(BeNil())
			Expect(*created.CreatedBy).To(Equal(int64(77)))
		})

		It("should stop a team leader from scheduling a level 3 employee or another department", func() {
			caller = principal(access.RoleTeamLeader, 1, 1)

			Expect(create(2, 1, "2030-01-01").Code).To(Equal(http.StatusForbidden))
			Expect(create(3, 1, "2030-01-01").Code).To(Equal(http.StatusForbidden))
		})

		It("should reject duplicates, unknown employees and unknown shifts", func() {
			caller = principal(access.RoleAdmin, 0, 0)

			w := create(1, 1, today.String())
			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_ASSIGNMENT"))

			Expect(create(99, 1, "2030-01-01").Code).To(Equal(http.StatusNotFound))
			Expect(create(1, 99, "2030-01-01").Code).To(Equal(http.StatusNotFound))
		})

		It("should validate the status code", func() {
			caller = principal(access.RoleAdmin, 0, 0)

			w := do(http.MethodPost, "/shift-assignments", `{"employee_id":1,"shift_id":1,"work_date":"2030-01-01","status_code":"ZZ"}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("INVALID_STATUS_CODE"))
		})

		It("should update and delete within write scope", func() {
			caller = principal(access.RoleManager, 2, 1)

			w := do(http.MethodPut, "/shift-assignments/1", fmt.Sprintf(`{"employee_id":1,"shift_id":2,"work_date":%q,"status_code":"LE"}`, today.String()))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"status_name":"Leave"`))

			Expect(do(http.MethodDelete, "/shift-assignments/3", "").Code).To(Equal(http.StatusForbidden))
			Expect(do(http.MethodDelete, "/shift-assignments/1", "").Code).To(Equal(http.StatusNoContent))
			Expect(do(http.MethodGet, "/shift-assignments/1", "").Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("attendance", func() {
		It("should let an employee check themself in and out once", func() {
			caller = principal(access.RoleEmployee, 3, 2)

			Expect(do(http.MethodPost, "/shift-assignments/3/check-out", "").Code).To(Equal(http.StatusConflict))

			w := do(http.MethodPost, "/shift-assignments/3/check-in", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			var checked shiftassignment.ShiftAssignment
			Expect(json.NewDecoder(w.Body).Decode(&checked)).To(Succeed())
			Expect(checked.CheckInTime).NotTo(BeNil())

			w = do(http.MethodPost, "/shift-assignments/3/check-in", "")
			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(w.Body.String()).To(ContainSubstring("ALREADY_CHECKED_IN"))

			Expect(do(http.MethodPost, "/shift-assignments/3/check-out", "").Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodPost, "/shift-assignments/3/check-out", "").Code).To(Equal(http.StatusConflict))
		})

		It("should refuse to check in a rest day", func() {
			caller = principal(access.RoleEmployee, 3, 2)

			Expect(do(http.MethodPost, "/shift-assignments/4/check-in", "").Code).To(Equal(http.StatusBadRequest))
		})

		It("should stop an employee from checking in a colleague", func() {
			caller = principal(access.RoleEmployee, 1, 1)

			Expect(do(http.MethodPost, "/shift-assignments/2/check-in", "").Code).To(Equal(http.StatusForbidden))
		})

		It("should let a team leader check in their staff", func() {
			caller = principal(access.RoleTeamLeader, 2, 1)

			Expect(do(http.MethodPost, "/shift-assignments/1/check-in", "").Code).To(Equal(http.StatusOK))
		})
	})
})
