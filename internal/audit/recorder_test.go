package audit_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/frahmantamala/staff-attendance/internal/audit"
	auditModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/audit"
	"github.com/frahmantamala/staff-attendance/internal/core/events"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type memoryWriter struct {
	mu   sync.Mutex
	rows []*auditModel.AccessAuditLog
	gate chan struct{}
	err  error
}

func (w *memoryWriter) Insert(_ context.Context, row *auditModel.AccessAuditLog) error {
	if w.gate != nil {
		<-w.gate
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.rows = append(w.rows, row)
	return nil
}

func (w *memoryWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rows)
}

type captureSink struct {
	mu      sync.Mutex
	entries []audit.Entry
	err     error
}

func (s *captureSink) Enqueue(_ context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *captureSink) snapshot() []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Entry(nil), s.entries...)
}

func entry(n int) audit.Entry {
	return audit.Entry{
		EventID:    fmt.Sprintf("evt-%d", n),
		UserID:     int64(n),
		Decision:   auditModel.DecisionDenied,
		Action:     "employee.view",
		OccurredAt: time.Now(),
	}
}

var _ = Describe("Recorder", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should write every queued entry and drain on shutdown", func() {
		writer := &memoryWriter{}
		rec := audit.NewRecorder(writer, audit.RecorderConfig{Workers: 3, QueueSize: 20}, logger.Discard())

		for i := 1; i <= 10; i++ {
			Expect(rec.Enqueue(ctx, entry(i))).To(Succeed())
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		Expect(rec.Shutdown(shutdownCtx)).To(Succeed())
		Expect(writer.count()).To(Equal(10))
	})

	It("should refuse entries after shutdown", func() {
		rec := audit.NewRecorder(&memoryWriter{}, audit.RecorderConfig{}, logger.Discard())
		Expect(rec.Shutdown(ctx)).To(Succeed())

		Expect(rec.Enqueue(ctx, entry(1))).To(MatchError(audit.ErrRecorderClosed))
		Expect(rec.Shutdown(ctx)).To(Succeed())
	})

	It("should drop entries when the queue is full", func() {
		// Given a single worker stuck on a slow write
		writer := &memoryWriter{gate: make(chan struct{})}
		rec := audit.NewRecorder(writer, audit.RecorderConfig{Workers: 1, QueueSize: 1}, logger.Discard())

		// When entries keep arriving
		accepted := 0
		Eventually(func() error {
			err := rec.Enqueue(ctx, entry(accepted+1))
			if err == nil {
				accepted++
			}
			return err
		}).Should(MatchError(audit.ErrQueueFull))

		// Then only the accepted ones are written once the writer recovers
		close(writer.gate)
		Expect(rec.Shutdown(ctx)).To(Succeed())
		Expect(writer.count()).To(Equal(accepted))
	})

	It("should keep going after a failed write", func() {
		writer := &memoryWriter{err: errors.New("db down")}
		rec := audit.NewRecorder(writer, audit.RecorderConfig{Workers: 1}, logger.Discard())

		Expect(rec.Enqueue(ctx, entry(1))).To(Succeed())
		Expect(rec.Enqueue(ctx, entry(2))).To(Succeed())

		Expect(rec.Shutdown(ctx)).To(Succeed())
		Expect(writer.count()).To(BeZero())
	})
})

var _ = Describe("Entry", func() {
	It("should carry the decision of an access event", func() {
		event := events.NewAccessGrantedEvent(events.AccessDecision{
			UserID:      7,
			Action:      "schedule.create",
			Requirement: "SCHEDULE_CREATE",
			Reason:      "permission held",
			Method:      "POST",
			Path:        "/api/v1/shift-assignments",
		})

		e := audit.EntryFromEvent(event)
		row := e.DataModel()

		Expect(e.EventID).To(Equal(event.EventID()))
		Expect(row.Decision).To(Equal(auditModel.DecisionGranted))
		Expect(*row.UserID).To(Equal(int64(7)))
		Expect(row.Method).To(Equal("POST"))
		Expect(row.OccurredAt).To(Equal(event.OccurredAt()))
	})

	It("should leave the user empty for anonymous decisions", func() {
		e := audit.EntryFromEvent(events.NewAccessDeniedEvent(events.AccessDecision{Action: "employee.view"}))

		Expect(e.Decision).To(Equal(auditModel.DecisionDenied))
		Expect(e.DataModel().UserID).To(BeNil())
	})
})
