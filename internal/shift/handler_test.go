package shift_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
	"github.com/frahmantamala/staff-attendance/internal/shift"
	shiftPostgres "github.com/frahmantamala/staff-attendance/internal/shift/postgres"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var _ = Describe("Shift Handler Integration", func() {
	var router chi.Router

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&shiftModel.Shift{})).To(Succeed())

		for _, s := range []*shiftModel.Shift{
			{Name: "Night", Type: shiftModel.TypeNight, StartTime: "22:00", EndTime: "06:00", IsActive: true},
			{Name: "Morning", Type: shiftModel.TypeMorning, StartTime: "06:00", EndTime: "14:00", IsActive: true},
			{Name: "Early", Type: shiftModel.TypeMorning, StartTime: "05:00", EndTime: "13:00", IsActive: true},
		} {
			Expect(db.Create(s).Error).To(Succeed())
		}
		Expect(db.Model(&shiftModel.Shift{}).Where("name = ?", "Early").Update("is_active", false).Error).To(Succeed())

		handler := shift.NewHandler(
			transport.NewBaseHandler(logger.Discard()),
			shift.NewService(shiftPostgres.NewShiftRepository(db), logger.Discard()),
		)
		router = chi.NewRouter()
		router.Get("/shifts", handler.ListShifts)
		router.Get("/shifts/active", handler.ListActiveShifts)
		router.Get("/shifts/by-type/{type}", handler.ListShiftsByType)
		router.Get("/shifts/{id}", handler.GetShift)
		router.Post("/shifts", handler.CreateShift)
		router.Put("/shifts/{id}", handler.UpdateShift)
	})

	It("should order active shifts by type then start time", func() {
		w := do(http.MethodGet, "/shifts", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var shifts []shift.Shift
		Expect(json.NewDecoder(w.Body).Decode(&shifts)).To(Succeed())
		Expect(shifts).To(HaveLen(2))
		Expect(shifts[0].Name).To(Equal("Morning"))
		Expect(shifts[1].Hours).To(Equal(8.0))
	})

	It("should include inactive shifts on request", func() {
		var shifts []shift.Shift
		Expect(json.NewDecoder(do(http.MethodGet, "/shifts?include_inactive=true", "").Body).Decode(&shifts)).To(Succeed())
		Expect(shifts).To(HaveLen(3))
		Expect(shifts[0].Name).To(Equal("Early"))
	})

	It("should filter by type", func() {
		var shifts []shift.Shift
		Expect(json.NewDecoder(do(http.MethodGet, "/shifts/by-type/3", "").Body).Decode(&shifts)).To(Succeed())
		Expect(shifts).To(HaveLen(1))
		Expect(shifts[0].TypeName).To(Equal("Night"))

		Expect(do(http.MethodGet, "/shifts/by-type/7", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("should create and update shifts", func() {
		w := do(http.MethodPost, "/shifts", `{"name":"Late","type":2,"start_time":"14:00","end_time":"22:00"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created shift.Shift
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.IsActive).To(BeTrue())

		w = do(http.MethodPut, "/shifts/4", `{"name":"Late","type":2,"start_time":"14:00","end_time":"20:00"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("SHIFT_TOO_SHORT"))

		w = do(http.MethodPut, "/shifts/4", `{"name":"Late OT","type":4,"start_time":"14:00","end_time":"20:00"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("should return 404 for an unknown shift", func() {
		Expect(do(http.MethodGet, "/shifts/42", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodPut, "/shifts/42", `{"name":"X","type":4,"start_time":"14:00","end_time":"20:00"}`).Code).To(Equal(http.StatusNotFound))
	})
})
