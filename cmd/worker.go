package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/staff-attendance/internal/audit"
	auditPostgres "github.com/frahmantamala/staff-attendance/internal/audit/postgres"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that run outside the HTTP server`,
}

var auditWorkerCmd = &cobra.Command{
	Use:   "audit",
	Short: "Persist access decisions queued in redis",
	Long:  `Drain the redis audit queue into access_audit_logs. Used when audit.transport is redis.`,
	Run: func(cmd *cobra.Command, args []string) {
		startAuditWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
	drainBlock   time.Duration
)

func startAuditWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()
	if !config.Audit.UsesRedis() {
		logger.Warn("audit.transport is not redis; the server writes audit rows itself and nothing will be queued")
	}

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gdb, err := openGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	rdb, err := initRedis(config.Redis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer rdb.Close()

	recorderConfig := audit.RecorderConfig{
		Workers:   getIntFlag(maxWorkers, config.Audit.Workers),
		QueueSize: getIntFlag(jobQueueSize, config.Audit.QueueSize),
	}
	logger.Info("starting audit worker",
		"workers", recorderConfig.Workers,
		"queue_size", recorderConfig.QueueSize,
		"redis", config.Redis.Addr)

	recorder := audit.NewRecorder(auditPostgres.NewAuditRepository(gdb), recorderConfig, logger)
	queue := audit.NewRedisQueue(rdb, 0, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	drained := make(chan error, 1)
	go func() {
		drained <- queue.Drain(ctx, recorder, drainBlock)
	}()

	logger.Info("audit worker is running. Press Ctrl+C to stop.")

	select {
	case <-ctx.Done():
		logger.Info("received signal, shutting down audit worker")
		<-drained
	case err := <-drained:
		if err != nil {
			logger.Error("audit queue drain stopped", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := recorder.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown timeout reached, forcing exit", "error", err)
		return
	}
	logger.Info("audit worker shutdown complete")
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	auditWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of writers (overrides config)")
	auditWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "In-process buffer size (overrides config)")
	auditWorkerCmd.Flags().DurationVar(&drainBlock, "block", time.Second, "How long each BRPOP waits for an entry")

	workerCmd.AddCommand(auditWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
