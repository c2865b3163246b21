package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/staff-attendance/internal/transport/rest"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

var _ = Describe("HealthHandler", func() {
	var (
		db  *sqlx.DB
		mr  *miniredis.Miniredis
		rdb *redis.Client
	)

	BeforeEach(func() {
		var err error
		db, err = sqlx.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		mr = miniredis.RunT(GinkgoT())
		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		DeferCleanup(func() {
			_ = rdb.Close()
			_ = db.Close()
		})
	})

	check := func(h *rest.HealthHandler) (int, rest.HealthResponse) {
		w := httptest.NewRecorder()
		h.Check(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		var resp rest.HealthResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return w.Code, resp
	}

	It("reports healthy when every dependency answers", func() {
		code, resp := check(rest.NewHealthHandler(db, rdb))
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components).To(HaveKey("postgres"))
		Expect(resp.Components["redis"].Status).To(Equal(rest.HealthHealthy))
	})

	It("skips redis when it is not configured", func() {
		_, resp := check(rest.NewHealthHandler(db, nil))
		Expect(resp.Components).NotTo(HaveKey("redis"))
	})

	It("returns 503 when redis is down", func() {
		mr.Close()
		code, resp := check(rest.NewHealthHandler(db, rdb))
		Expect(code).To(Equal(http.StatusServiceUnavailable))
		Expect(resp.Status).To(Equal(rest.HealthUnhealthy))
		Expect(resp.Components["redis"].Message).NotTo(BeEmpty())
		Expect(resp.Components["postgres"].Status).To(Equal(rest.HealthHealthy))
	})

	It("returns 503 when the database is closed", func() {
		Expect(db.Close()).To(Succeed())
		code, resp := check(rest.NewHealthHandler(db, nil))
		Expect(code).To(Equal(http.StatusServiceUnavailable))
		Expect(resp.Components["postgres"].Status).To(Equal(rest.HealthUnhealthy))
	})
})
