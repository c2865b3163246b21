package department_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	departmentModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/department"
	employeeModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/employee"
	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
	"github.com/frahmantamala/staff-attendance/internal/department"
	departmentPostgres "github.com/frahmantamala/staff-attendance/internal/department/postgres"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var _ = Describe("Department Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var reader *bytes.Buffer
		if body == "" {
			reader = &bytes.Buffer{}
		} else {
			reader = bytes.NewBufferString(body)
		}
		req := httptest.NewRequest(method, path, reader)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
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
		Expect(db.AutoMigrate(&departmentModel.Department{}, &workpositionModel.WorkPosition{}, &employeeModel.Employee{})).To(Succeed())

		repo := departmentPostgres.NewDepartmentRepository(db)
		service := department.NewService(repo, logger.Discard())
		handler := department.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		router = chi.NewRouter()
		router.Get("/departments", handler.ListDepartments)
		router.Get("/departments/active", handler.ListActiveDepartments)
		router.Get("/departments/by-code/{code}", handler.GetDepartmentByCode)
		router.Get("/departments/check-code/{code}", handler.CheckCode)
		router.Get("/departments/{id}", handler.GetDepartment)
		router.Post("/departments", handler.CreateDepartment)
		router.Put("/departments/{id}", handler.UpdateDepartment)
		router.Delete("/departments/{id}", handler.DeleteDepartment)

		for _, d := range []*departmentModel.Department{
			{Code: "ENG", Name: "Engineering", IsActive: true},
			{Code: "OPS", Name: "Operations", IsActive: true},
		} {
			Expect(repo.Create(context.Background(), d)).To(Succeed())
		}
		Expect(db.Create(&workpositionModel.WorkPosition{Code: "STF", Name: "Staff", Level: 1, IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&employeeModel.Employee{Code: "E1", FullName: "Ada", Email: "ada@example.com", DepartmentID: 1, WorkPositionID: 1, IsActive: true}).Error).To(Succeed())
	})

	It("should list departments with employee counts", func() {
		w := do(http.MethodGet, "/departments?limit=10", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var page transport.Page[department.Department]
		Expect(json.NewDecoder(w.Body).Decode(&page)).To(Succeed())
		Expect(page.Total).To(Equal(int64(2)))
		Expect(page.Items[0].Code).To(Equal("ENG"))
		Expect(page.Items[0].EmployeeCount).To(Equal(int64(1)))
		Expect(page.Items[1].EmployeeCount).To(BeZero())
	})

	It("should create a department with a normalized code", func() {
		// When
		w := do(http.MethodPost, "/departments", `{"code":" hr ","name":"Human Resources"}`)

		// Then
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created department.Department
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.Code).To(Equal("HR"))
		Expect(created.IsActive).To(BeTrue())

		w = do(http.MethodGet, "/departments/check-code/hr", "")
		Expect(w.Body.String()).To(ContainSubstring(`"exists":true`))
	})

	It("should reject duplicate codes with 409", func() {
		w := do(http.MethodPost, "/departments", `{"code":"ENG","name":"Another"}`)

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_CODE"))
	})

	It("should validate input", func() {
		w := do(http.MethodPost, "/departments", `{"code":"","name":"Nameless"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = do(http.MethodPost, "/departments", `{"code":"THIS-CODE-IS-FAR-TOO-LONG","name":"x"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should get by id and by code", func() {
		w := do(http.MethodGet, "/departments/2", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"code":"OPS"`))

		w = do(http.MethodGet, "/departments/by-code/ops", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/departments/99", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))

		w = do(http.MethodGet, "/departments/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should update and allow keeping the same code", func() {
		w := do(http.MethodPut, "/departments/2", `{"code":"OPS","name":"Operations & Support","is_active":true}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Operations \\u0026 Support"))

		w = do(http.MethodPut, "/departments/2", `{"code":"ENG","name":"Clash"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should refuse to delete departments that still have employees", func() {
		w := do(http.MethodDelete, "/departments/1", "")
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("DEPARTMENT_HAS_EMPLOYEES"))
	})

	It("should soft delete empty departments", func() {
		w := do(http.MethodDelete, "/departments/2", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, "/departments/active", "")
		var active []department.Department
		Expect(json.NewDecoder(w.Body).Decode(&active)).To(Succeed())
		Expect(active).To(HaveLen(1))

		w = do(http.MethodGet, "/departments?include_inactive=true", "")
		Expect(w.Body.String()).To(ContainSubstring(`"total":2`))
	})
})
