package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	auditModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/audit"
)

var (
	ErrQueueFull      = errors.New("audit: queue full")
	ErrRecorderClosed = errors.New("audit: recorder closed")
)

// Sink accepts entries for persistence. Enqueue never blocks on storage.
type Sink interface {
	Enqueue(ctx context.Context, entry Entry) error
}

type Writer interface {
	Insert(ctx context.Context, row *auditModel.AccessAuditLog) error
}

type worker struct {
	id     int
	pool   chan chan Entry
	jobs   chan Entry
	logger *slog.Logger
}

func newWorker(id int, pool chan chan Entry, logger *slog.Logger) *worker {
	return &worker{
		id:     id,
		pool:   pool,
		jobs:   make(chan Entry),
		logger: logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, process func(Entry)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.pool <- w.jobs:
			case <-ctx.Done():
				return
			}

			select {
			case entry := <-w.jobs:
				process(entry)
			case <-ctx.Done():
				w.logger.Debug("audit worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

type RecorderConfig struct {
	Workers      int
	QueueSize    int
	WriteTimeout time.Duration
}

// Recorder persists entries through a fixed pool of workers fed by a bounded queue.
// When the queue is full new entries are dropped.
type Recorder struct {
	writer       Writer
	logger       *slog.Logger
	writeTimeout time.Duration

	queue      chan Entry
	pool       chan chan Entry
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewRecorder(writer Writer, cfg RecorderConfig, logger *slog.Logger) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())

	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	r := &Recorder{
		writer:       writer,
		logger:       logger,
		writeTimeout: timeout,
		queue:        make(chan Entry, queueSize),
		pool:         make(chan chan Entry, workers),
		maxWorkers:   workers,
		ctx:          ctx,
		cancel:       cancel,
	}

	for i := 0; i < workers; i++ {
		newWorker(i, r.pool, logger).start(ctx, &r.wg, r.write)
	}
	r.wg.Add(1)
	go r.dispatch()

	logger.Info("audit recorder started", "workers", workers, "queue_size", queueSize)
	return r
}

func (r *Recorder) Enqueue(ctx context.Context, entry Entry) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrRecorderClosed
	}

	select {
	case r.queue <- entry:
		return nil
	default:
		r.logger.WarnContext(ctx, "audit queue full, dropping entry",
			"event_id", entry.EventID,
			"action", entry.Action,
			"queue_capacity", cap(r.queue))
		return ErrQueueFull
	}
}

// dispatch hands queued entries to idle workers until the queue is closed and drained.
func (r *Recorder) dispatch() {
	defer r.wg.Done()
	defer r.cancel()

	for entry := range r.queue {
		select {
		case jobs := <-r.pool:
			select {
			case jobs <- entry:
			case <-r.ctx.Done():
				return
			}
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Recorder) write(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.writer.Insert(ctx, entry.DataModel()); err != nil {
		r.logger.Error("failed to write audit entry",
			"error", err,
			"event_id", entry.EventID,
			"action", entry.Action)
		return
	}
	r.logger.Debug("audit entry written", "event_id", entry.EventID, "decision", entry.Decision)
}

// Shutdown stops intake and waits for queued entries to be written. If ctx ends first
// the workers are stopped and the remaining entries are lost.
func (r *Recorder) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("audit recorder stopped")
		return nil
	case <-ctx.Done():
		r.cancel()
		r.logger.Warn("audit recorder stopped before draining", "pending", len(r.queue))
		return ctx.Err()
	}
}
