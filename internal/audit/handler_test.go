package audit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/staff-attendance/internal/audit"
	auditModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/audit"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubRepository struct {
	memoryWriter
	lastFilter audit.ListFilter
}

func (r *stubRepository) List(_ context.Context, filter audit.ListFilter, limit, offset int) ([]*auditModel.AccessAuditLog, int64, error) {
	r.lastFilter = filter
	uid := int64(4)
	return []*auditModel.AccessAuditLog{{ID: 1, EventID: "evt-1", UserID: &uid, Decision: auditModel.DecisionDenied, Action: "employee.view"}}, 1, nil
}

var _ = Describe("Audit Handler", func() {
	var (
		repo    *stubRepository
		handler *audit.Handler
	)

	BeforeEach(func() {
		repo = &stubRepository{}
		handler = audit.NewHandler(transport.NewBaseHandler(logger.Discard()), audit.NewService(repo, logger.Discard()))
	})

	list := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ListAccessLogs(w, httptest.NewRequest(http.MethodGet, "/audit/access-logs"+query, nil))
		return w
	}

	It("should page logs with the parsed filter", func() {
		w := list("?decision=DENIED&user_id=4&from=2026-03-01T00:00:00Z&to=2026-03-02T00:00:00Z")

		Expect(w.Code).To(Equal(http.StatusOK))
		var page transport.Page[audit.Log]
		Expect(json.NewDecoder(w.Body).Decode(&page)).To(Succeed())
		Expect(page.Total).To(Equal(int64(1)))
		Expect(page.Items[0].EventID).To(Equal("evt-1"))

		Expect(repo.lastFilter.Decision).To(Equal(auditModel.DecisionDenied))
		Expect(*repo.lastFilter.UserID).To(Equal(int64(4)))
		Expect(repo.lastFilter.From).NotTo(BeNil())
	})

	DescribeTable("should reject bad filters",
		func(query string) {
			Expect(list(query).Code).To(Equal(http.StatusBadRequest))
		},
		Entry("unknown decision", "?decision=maybe"),
		Entry("bad user id", "?user_id=abc"),
		Entry("bad timestamp", "?from=yesterday"),
		Entry("inverted range", "?from=2026-03-02T00:00:00Z&to=2026-03-01T00:00:00Z"),
	)
})
