package events_test

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/frahmantamala/staff-attendance/internal/core/events"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("should deliver synchronously and stop at the first failing handler", func() {
		var calls int32
		bus.Subscribe(events.EventTypeAccessDenied, func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&calls, 1)
			return errors.New("boom")
		})
		bus.Subscribe(events.EventTypeAccessDenied, func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewAccessDeniedEvent(events.AccessDecision{Action: "employee.read"}))

		Expect(err).To(MatchError(ContainSubstring("access.denied")))
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("should deliver asynchronously even after the publishing context is cancelled", func() {
		received := make(chan *events.AccessDecisionEvent, 1)
		bus.Subscribe(events.EventTypeAccessDenied, func(ctx context.Context, e events.Event) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			received <- e.(*events.AccessDecisionEvent)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewAccessDeniedEvent(events.AccessDecision{UserID: 3, Reason: "scope Denied"}))).To(Succeed())

		var got *events.AccessDecisionEvent
		Eventually(received).Should(Receive(&got))
		Expect(got.Allowed).To(BeFalse())
		Expect(got.Decision.UserID).To(Equal(int64(3)))
	})

	It("should ignore events without subscribers", func() {
		Expect(bus.HandlerCount(events.EventTypeRolesChanged)).To(BeZero())
		Expect(bus.Publish(context.Background(), events.NewRolesChangedEvent(1, []string{"HR"}, 2))).To(Succeed())
	})

	It("should give every event a distinct id", func() {
		a := events.NewAccessGrantedEvent(events.AccessDecision{})
		b := events.NewAccessGrantedEvent(events.AccessDecision{})
		Expect(a.EventID()).NotTo(Equal(b.EventID()))
		Expect(a.EventType()).To(Equal(events.EventTypeAccessGranted))
	})
})

var _ = Describe("EventBus shutdown", func() {
	It("should wait for running handlers and refuse new events", func() {
		bus := events.NewEventBus(logger.Discard())
		release := make(chan struct{})
		var done int32
		bus.Subscribe(events.EventTypeProfileChanged, func(ctx context.Context, e events.Event) error {
			<-release
			atomic.StoreInt32(&done, 1)
			return nil
		})

		Expect(bus.Publish(context.Background(), events.NewProfileChangedEvent(1, "employee_link", 2))).To(Succeed())

		drained := make(chan error, 1)
		go func() { drained <- bus.Drain(context.Background()) }()
		Consistently(drained).ShouldNot(Receive())

		close(release)
		Eventually(drained).Should(Receive(BeNil()))
		Expect(atomic.LoadInt32(&done)).To(Equal(int32(1)))

		err := bus.Publish(context.Background(), events.NewProfileChangedEvent(1, "employee_link", 2))
		Expect(err).To(MatchError(events.ErrBusDraining))
	})

	It("should turn a handler panic into an error", func() {
		bus := events.NewEventBus(logger.Discard())
		bus.Subscribe(events.EventTypeRolesChanged, func(ctx context.Context, e events.Event) error {
			panic("nil profile")
		})

		err := bus.PublishSync(context.Background(), events.NewRolesChangedEvent(1, []string{"HR"}, 2))
		Expect(err).To(MatchError(ContainSubstring("panicked")))
	})
})
