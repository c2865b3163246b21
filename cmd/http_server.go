package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	accessPostgres "github.com/frahmantamala/staff-attendance/internal/access/postgres"
	"github.com/frahmantamala/staff-attendance/internal/audit"
	auditPostgres "github.com/frahmantamala/staff-attendance/internal/audit/postgres"
	"github.com/frahmantamala/staff-attendance/internal/auth"
	authCache "github.com/frahmantamala/staff-attendance/internal/auth/cache"
	authPostgres "github.com/frahmantamala/staff-attendance/internal/auth/postgres"
	"github.com/frahmantamala/staff-attendance/internal/core/events"
	"github.com/frahmantamala/staff-attendance/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/staff-attendance/internal/dashboard/postgres"
	"github.com/frahmantamala/staff-attendance/internal/department"
	departmentPostgres "github.com/frahmantamala/staff-attendance/internal/department/postgres"
	"github.com/frahmantamala/staff-attendance/internal/employee"
	employeePostgres "github.com/frahmantamala/staff-attendance/internal/employee/postgres"
	"github.com/frahmantamala/staff-attendance/internal/shift"
	shiftPostgres "github.com/frahmantamala/staff-attendance/internal/shift/postgres"
	"github.com/frahmantamala/staff-attendance/internal/shiftassignment"
	shiftAssignmentPostgres "github.com/frahmantamala/staff-attendance/internal/shiftassignment/postgres"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/frahmantamala/staff-attendance/internal/transport/rest"
	"github.com/frahmantamala/staff-attendance/internal/user"
	userPostgres "github.com/frahmantamala/staff-attendance/internal/user/postgres"
	"github.com/frahmantamala/staff-attendance/internal/workposition"
	workpositionPostgres "github.com/frahmantamala/staff-attendance/internal/workposition/postgres"
	"github.com/frahmantamala/staff-attendance/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Redis    *redis.Client
	EventBus *events.EventBus
	Recorder *audit.Recorder
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "audit_transport", deps.Config.Audit.Transport)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.close(ctx)
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close(ctx context.Context) {
	// audit handlers still running hand their entries to the recorder
	if err := d.EventBus.Drain(ctx); err != nil {
		d.Logger.Error("Event bus drain error", "error", err)
	}
	if d.Recorder != nil {
		if err := d.Recorder.Shutdown(ctx); err != nil {
			d.Logger.Error("Audit recorder shutdown error", "error", err)
		}
	}
	if err := d.Redis.Close(); err != nil {
		d.Logger.Error("Redis close error", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	openAPIPath := cfg.Server.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
		cfg.Server.OpenAPIPath = openAPIPath
	}
	if _, err := rest.LoadOpenAPI(context.Background(), openAPIPath); err != nil {
		return err
	}

	hierarchy, err := cfg.Authorization.Hierarchy()
	if err != nil {
		return err
	}
	authorizer := access.NewAuthorizer(hierarchy, access.DefaultCatalog())

	rbac := auth.NewRBACAuthorization(authorizer, deps.EventBus, lg)
	rbac.RecordGranted = cfg.Audit.RecordGranted

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret, cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration, cfg.Security.RefreshTokenDuration)
	authSvc := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, lg,
		auth.WithProfileCache(authCache.NewProfileCache(deps.Redis, cfg.Security.ProfileCacheTTL)),
		auth.WithRevocationStore(authCache.NewRevocationStore(deps.Redis)),
		auth.WithPasswordReset(authCache.NewResetTokenStore(deps.Redis), cfg.Security.PasswordResetTTL),
		auth.WithBCryptCost(cfg.Security.BCryptCost))

	// cached profiles are dropped as soon as roles or the employee link change
	deps.EventBus.Subscribe(events.EventTypeRolesChanged, authSvc.HandleRolesChanged)
	deps.EventBus.Subscribe(events.EventTypeProfileChanged, authSvc.HandleProfileChanged)

	auditRepo := auditPostgres.NewAuditRepository(deps.Gorm)
	var sink audit.Sink
	if cfg.Audit.UsesRedis() {
		sink = audit.NewRedisQueue(deps.Redis, 0, lg)
	} else {
		deps.Recorder = audit.NewRecorder(auditRepo, audit.RecorderConfig{
			Workers:   cfg.Audit.Workers,
			QueueSize: cfg.Audit.QueueSize,
		}, lg)
		sink = deps.Recorder
	}
	audit.NewSubscriber(sink, lg).RegisterEventHandlers(deps.EventBus)

	targets := accessPostgres.NewTargetRepository(deps.DB)
	base := transport.NewBaseHandler(lg)

	handlers := rest.Handlers{
		Auth: auth.NewHandler(authSvc),
		User: user.NewHandler(base, user.NewService(
			userPostgres.NewUserRepository(deps.Gorm), authSvc, rbac, authorizer, deps.EventBus, lg)),
		Department: department.NewHandler(base, department.NewService(
			departmentPostgres.NewDepartmentRepository(deps.Gorm), lg)),
		WorkPosition: workposition.NewHandler(base, workposition.NewService(
			workpositionPostgres.NewWorkPositionRepository(deps.Gorm), lg)),
		Employee: employee.NewHandler(base, employee.NewService(
			employeePostgres.NewEmployeeRepository(deps.Gorm), rbac, lg)),
		Shift: shift.NewHandler(base, shift.NewService(
			shiftPostgres.NewShiftRepository(deps.Gorm), lg)),
		ShiftAssignment: shiftassignment.NewHandler(base, shiftassignment.NewService(
			shiftAssignmentPostgres.NewShiftAssignmentRepository(deps.Gorm), targets, rbac, lg)),
		Dashboard: dashboard.NewHandler(base, dashboard.NewService(
			dashboardPostgres.NewDashboardRepository(deps.Gorm), rbac, lg)),
		Audit: audit.NewHandler(base, audit.NewService(auditRepo, lg)),
	}

	rest.RegisterAllRoutes(deps.Router, rest.Dependencies{
		Handlers: handlers,
		RBAC:     rbac,
		Health:   rest.NewHealthHandler(deps.DB, deps.Redis),
		Redis:    deps.Redis,
		Server:   cfg.Server,
		Login:    cfg.Security.LoginRateLimit,
		Logger:   lg,
	})
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := openGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	rdb, err := initRedis(config.Redis)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Gorm:     gdb,
		Redis:    rdb,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
	}, nil
}
