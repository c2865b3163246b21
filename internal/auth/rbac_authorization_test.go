package auth

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/events"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var (
		rbac      *RBACAuthorization
		publisher *recordingPublisher
	)

	withAccess := func(ctx context.Context, roles []string, claims access.ClaimSet) context.Context {
		ctx = internal.ContextWithUserID(ctx, 11)
		ctx = internal.ContextWithTraceID(ctx, "trace-1")
		return access.NewContext(ctx, access.BuildContext(access.StaticPrincipal{Roles: roles, Claims: claims}))
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ginkgo.BeforeEach(func() {
		publisher = &recordingPublisher{}
		rbac = NewRBACAuthorization(access.NewAuthorizer(nil, nil), publisher, logger.Discard())
	})

	ginkgo.Describe("RequirePermission", func() {
		ginkgo.It("should pass principals holding the permission", func() {
			req := httptest.NewRequest(http.MethodGet, "/departments", nil)
			req = req.WithContext(withAccess(req.Context(), nil, access.ClaimSet{access.ClaimPermission: {access.PermDepartmentView}}))
			rec := httptest.NewRecorder()

			rbac.RequirePermission(access.PermDepartmentView)(ok).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(publisher.published()).To(gomega.BeEmpty())
		})

		ginkgo.It("should answer 403 and publish the denial", func() {
			// Given
			req := httptest.NewRequest(http.MethodDelete, "/departments/3", nil)
			req = req.WithContext(withAccess(req.Context(), []string{access.RoleDirector}, nil))
			rec := httptest.NewRecorder()

			// When
			rbac.RequirePermission(access.PermDepartmentDelete)(ok).ServeHTTP(rec, req)

			// Then roles never imply permissions
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			published := publisher.published()
			gomega.Expect(published).To(gomega.HaveLen(1))
			denied, isDecision := published[0].(*events.AccessDecisionEvent)
			gomega.Expect(isDecision).To(gomega.BeTrue())
			gomega.Expect(denied.Allowed).To(gomega.BeFalse())
			gomega.Expect(denied.Decision.UserID).To(gomega.Equal(int64(11)))
			gomega.Expect(denied.Decision.TraceID).To(gomega.Equal("trace-1"))
			gomega.Expect(denied.Decision.Requirement).To(gomega.Equal(access.PermDepartmentDelete))
			gomega.Expect(denied.Decision.Path).To(gomega.Equal("/departments/3"))
		})

		ginkgo.It("should answer 401 without an access context", func() {
			rec := httptest.NewRecorder()
			rbac.RequirePermission(access.PermDepartmentView)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/departments", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should panic on unknown permission codes at registration", func() {
			gomega.Expect(func() { rbac.RequirePermission("PAYROLL_APPROVE") }).To(gomega.Panic())
		})

		ginkgo.It("should publish grants when asked to", func() {
			rbac.RecordGranted = true
			req := httptest.NewRequest(http.MethodGet, "/departments", nil)
			req = req.WithContext(withAccess(req.Context(), nil, access.ClaimSet{access.ClaimPermission: {access.PermDepartmentView}}))

			rbac.RequirePermission(access.PermDepartmentView)(ok).ServeHTTP(httptest.NewRecorder(), req)

			published := publisher.published()
			gomega.Expect(published).To(gomega.HaveLen(1))
			gomega.Expect(published[0].EventType()).To(gomega.Equal(events.EventTypeAccessGranted))
		})
	})

	ginkgo.Describe("RequireAnyPermission", func() {
		ginkgo.It("should accept any one of the codes", func() {
			req := httptest.NewRequest(http.MethodGet, "/attendance", nil)
			req = req.WithContext(withAccess(req.Context(), nil, access.ClaimSet{access.ClaimPermission: {access.PermAttendanceViewTeam}}))
			rec := httptest.NewRecorder()

			rbac.RequireAnyPermission(access.PermAttendanceView, access.PermAttendanceViewTeam)(ok).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Describe("RequireMinimumRole", func() {
		ginkgo.DescribeTable("admin-only routes",
			func(roles []string, expected int) {
				req := httptest.NewRequest(http.MethodPost, "/work-positions", nil)
				req = req.WithContext(withAccess(req.Context(), roles, nil))
				rec := httptest.NewRecorder()

				rbac.RequireMinimumRole(access.RoleAdmin)(ok).ServeHTTP(rec, req)

				gomega.Expect(rec.Code).To(gomega.Equal(expected))
			},
			ginkgo.Entry("super admin", []string{access.RoleSuperAdmin}, http.StatusOK),
			ginkgo.Entry("admin", []string{access.RoleAdmin}, http.StatusOK),
			ginkgo.Entry("director", []string{access.RoleDirector}, http.StatusForbidden),
			ginkgo.Entry("no roles", []string{}, http.StatusForbidden),
		)

		ginkgo.It("should panic on unknown roles at registration", func() {
			gomega.Expect(func() { rbac.RequireMinimumRole("Owner") }).To(gomega.Panic())
		})
	})

	ginkgo.Describe("service checks", func() {
		var ctx context.Context

		ginkgo.BeforeEach(func() {
			ctx = withAccess(context.Background(), []string{access.RoleTeamLeader}, access.ClaimSet{access.ClaimDepartmentID: {"5"}})
		})

		ginkgo.It("should allow team leaders to write junior staff in their department", func() {
			target := access.Target{}.WithDepartment(5).WithPositionLevel(1)
			gomega.Expect(rbac.CheckScope(ctx, target, access.Write, "employee.update")).To(gomega.Succeed())
		})

		ginkgo.It("should deny and explain writes on level 3 targets", func() {
			target := access.Target{}.WithDepartment(5).WithPositionLevel(3)

			err := rbac.CheckScope(ctx, target, access.Write, "employee.update")

			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
			denied := publisher.published()[0].(*events.AccessDecisionEvent)
			gomega.Expect(denied.Decision.Action).To(gomega.Equal("employee.update"))
			gomega.Expect(denied.Decision.Requirement).To(gomega.Equal("scope:write"))
			gomega.Expect(denied.Decision.Reason).To(gomega.ContainSubstring("level 3"))
		})

		ginkgo.It("should check schedule creation like modification", func() {
			gomega.Expect(rbac.CheckSchedule(ctx, access.Target{}.WithDepartment(5), "schedule.create")).To(gomega.Succeed())
			gomega.Expect(rbac.CheckSchedule(ctx, access.Target{}.WithDepartment(6), "schedule.create")).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("should resolve the listing scope", func() {
			scope, err := rbac.ListingScope(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scope).To(gomega.Equal(access.DepartmentOnly(5)))
		})

		ginkgo.It("should check permissions from the context", func() {
			gomega.Expect(rbac.CheckPermission(ctx, access.PermScheduleCreate)).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("should require an access context", func() {
			_, err := rbac.ListingScope(context.Background())
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNoAccessContext))
			err = rbac.CheckScope(context.Background(), access.Target{}, access.Read, "employee.get")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrNoAccessContext))
		})
	})
})
