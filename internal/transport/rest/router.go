package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/audit"
	"github.com/frahmantamala/staff-attendance/internal/auth"
	"github.com/frahmantamala/staff-attendance/internal/dashboard"
	"github.com/frahmantamala/staff-attendance/internal/department"
	"github.com/frahmantamala/staff-attendance/internal/employee"
	"github.com/frahmantamala/staff-attendance/internal/shift"
	"github.com/frahmantamala/staff-attendance/internal/shiftassignment"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/frahmantamala/staff-attendance/internal/transport/middleware"
	"github.com/frahmantamala/staff-attendance/internal/transport/swagger"
	"github.com/frahmantamala/staff-attendance/internal/user"
	"github.com/frahmantamala/staff-attendance/internal/workposition"
	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Auth            *auth.Handler
	User            *user.Handler
	Department      *department.Handler
	WorkPosition    *workposition.Handler
	Employee        *employee.Handler
	Shift           *shift.Handler
	ShiftAssignment *shiftassignment.Handler
	Dashboard       *dashboard.Handler
	Audit           *audit.Handler
}

type Dependencies struct {
	Handlers Handlers
	RBAC     *auth.RBACAuthorization
	Health   *HealthHandler
	Redis    redis.Cmdable
	Server   internal.ServerConfig
	Login    internal.RateLimitConfig
	Logger   *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	h := deps.Handlers
	rbac := deps.RBAC
	base := transport.NewBaseHandler(deps.Logger)

	proxies, err := deps.Server.Proxies()
	if err != nil {
		deps.Logger.Warn("ignoring trusted proxies", "error", err)
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.ClientAddr(proxies))
	router.Use(middleware.CORS(deps.Server.Origins()))
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger, "/api/v1/health", "/api/v1/ping", "/swagger/"))

	openAPIPath := deps.Server.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}
	const docURL = "/openapi.yml"
	router.Get(docURL, func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler(docURL))

	loginLimiter := middleware.RateLimiter(deps.Redis,
		deps.Login.Limit, orDefault(deps.Login.Window, time.Minute), orDefault(deps.Login.BlockDuration, 10*time.Minute),
		"login", base)
	resetLimiter := middleware.RateLimiter(deps.Redis,
		deps.Login.Limit, orDefault(deps.Login.Window, time.Minute), orDefault(deps.Login.BlockDuration, 10*time.Minute),
		"password_reset", base)

	router.Route("/api/v1", func(r chi.Router) {
		if deps.Health != nil {
			r.Get("/health", deps.Health.Check)
			r.Get("/ping", deps.Health.Ping)
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.With(loginLimiter).Post("/login", h.Auth.Login)
			ar.Post("/refresh-token", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
			ar.With(resetLimiter).Post("/forgot-password", h.Auth.ForgotPassword)
			ar.With(resetLimiter).Post("/reset-password", h.Auth.ResetPassword)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", h.Auth.Me)
			pr.Post("/auth/change-password", h.Auth.ChangePassword)

			pr.Route("/departments", func(dr chi.Router) {
				dr.Group(func(rr chi.Router) {
					rr.Use(rbac.RequirePermission(access.PermDepartmentView))
					rr.Get("/", h.Department.ListDepartments)
					rr.Get("/active", h.Department.ListActiveDepartments)
					rr.Get("/by-code/{code}", h.Department.GetDepartmentByCode)
					rr.Get("/check-code/{code}", h.Department.CheckCode)
					rr.Get("/{id}", h.Department.GetDepartment)
				})
				dr.With(rbac.RequireAnyPermission(access.PermDepartmentCreate, access.PermDepartmentManageAll)).Post("/", h.Department.CreateDepartment)
				dr.With(rbac.RequireAnyPermission(access.PermDepartmentUpdate, access.PermDepartmentManageAll)).Put("/{id}", h.Department.UpdateDepartment)
				dr.With(rbac.RequireAnyPermission(access.PermDepartmentDelete, access.PermDepartmentManageAll)).Delete("/{id}", h.Department.DeleteDepartment)
			})

			// the position and shift catalogs are readable by every signed-in user
			pr.Route("/work-positions", func(wr chi.Router) {
				wr.Get("/", h.WorkPosition.ListWorkPositions)
				wr.Get("/active", h.WorkPosition.ListActiveWorkPositions)
				wr.Get("/by-code/{code}", h.WorkPosition.GetWorkPositionByCode)
				wr.Get("/by-level/{level}", h.WorkPosition.ListByLevel)
				wr.Get("/{id}", h.WorkPosition.GetWorkPosition)
				wr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireMinimumRole(access.RoleAdmin))
					mr.Post("/", h.WorkPosition.CreateWorkPosition)
					mr.Put("/{id}", h.WorkPosition.UpdateWorkPosition)
				})
			})

			pr.Route("/shifts", func(sr chi.Router) {
				sr.Get("/", h.Shift.ListShifts)
				sr.Get("/active", h.Shift.ListActiveShifts)
				sr.Get("/by-type/{type}", h.Shift.ListShiftsByType)
				sr.Get("/{id}", h.Shift.GetShift)
				sr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireMinimumRole(access.RoleAdmin))
					mr.Post("/", h.Shift.CreateShift)
					mr.Put("/{id}", h.Shift.UpdateShift)
				})
			})

			pr.Route("/employees", func(er chi.Router) {
				er.Group(func(rr chi.Router) {
					rr.Use(rbac.RequireAnyPermission(access.PermEmployeeView, access.PermEmployeeViewTeam))
					rr.Get("/", h.Employee.ListEmployees)
					rr.Get("/by-code/{code}", h.Employee.GetEmployeeByCode)
					rr.Get("/check-code/{code}", h.Employee.CheckCode)
					rr.Get("/{id}", h.Employee.GetEmployee)
				})
				er.With(rbac.RequirePermission(access.PermEmployeeViewTeam)).Get("/department/{departmentID}", h.Employee.ListDepartmentEmployees)
				er.With(rbac.RequirePermission(access.PermEmployeeCreate)).Post("/", h.Employee.CreateEmployee)
				er.With(rbac.RequirePermission(access.PermEmployeeUpdate)).Put("/{id}", h.Employee.UpdateEmployee)
				er.With(rbac.RequirePermission(access.PermEmployeeDelete)).Delete("/{id}", h.Employee.DeleteEmployee)
			})

			pr.Route("/shift-assignments", func(sr chi.Router) {
				sr.Group(func(rr chi.Router) {
					rr.Use(rbac.RequirePermission(access.PermScheduleView))
					rr.Get("/", h.ShiftAssignment.ListAssignments)
					rr.Get("/today", h.ShiftAssignment.ListTodayAssignments)
					rr.Get("/employee/{employeeID}", h.ShiftAssignment.ListEmployeeAssignments)
					rr.Get("/{id}", h.ShiftAssignment.GetAssignment)
				})
				sr.With(rbac.RequirePermission(access.PermScheduleCreate)).Post("/", h.ShiftAssignment.CreateAssignment)
				sr.With(rbac.RequirePermission(access.PermScheduleUpdate)).Put("/{id}", h.ShiftAssignment.UpdateAssignment)
				sr.With(rbac.RequirePermission(access.PermScheduleDelete)).Delete("/{id}", h.ShiftAssignment.DeleteAssignment)
				sr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAnyPermission(access.PermAttendanceCreate, access.PermAttendanceUpdate))
					ar.Post("/{id}/check-in", h.ShiftAssignment.CheckIn)
					ar.Post("/{id}/check-out", h.ShiftAssignment.CheckOut)
				})
			})

			pr.Route("/dashboard", func(dr chi.Router) {
				dr.Use(rbac.RequireAnyPermission(access.PermReportView, access.PermReportViewTeam, access.PermReportViewAll))
				dr.Get("/statistics", h.Dashboard.GetStatistics)
				dr.Get("/employee-by-department", h.Dashboard.GetEmployeesByDepartment)
				dr.Get("/employee-by-position", h.Dashboard.GetEmployeesByPosition)
				dr.Get("/attendance-today", h.Dashboard.GetAttendanceToday)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Use(rbac.RequirePermission(access.PermUserManagement))
				ur.Get("/", h.User.ListUsers)
				ur.Post("/", h.User.CreateUser)
				ur.Get("/{id}", h.User.GetUser)
				ur.Put("/{id}", h.User.UpdateUser)
				ur.Put("/{id}/employee", h.User.LinkEmployee)
				ur.With(rbac.RequirePermission(access.PermRoleManagement)).Put("/{id}/roles", h.User.AssignRoles)
			})

			pr.Group(func(rr chi.Router) {
				rr.Use(rbac.RequirePermission(access.PermRoleManagement))
				rr.Get("/roles", h.User.ListRoles)
				rr.Get("/permissions", h.User.ListPermissions)
			})

			pr.With(rbac.RequireMinimumRole(access.RoleAdmin)).Get("/audit/access-logs", h.Audit.ListAccessLogs)
		})
	})
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
