package audit_test

import (
	"context"

	"github.com/frahmantamala/staff-attendance/internal/audit"
	"github.com/frahmantamala/staff-attendance/internal/core/events"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Subscriber", func() {
	var (
		sink       *captureSink
		subscriber *audit.Subscriber
		ctx        context.Context
	)

	BeforeEach(func() {
		sink = &captureSink{}
		subscriber = audit.NewSubscriber(sink, logger.Discard())
		ctx = context.Background()
	})

	It("should queue access decisions", func() {
		Expect(subscriber.HandleAccessDecision(ctx, events.NewAccessDeniedEvent(events.AccessDecision{UserID: 3, Action: "employee.update"}))).To(Succeed())

		Expect(sink.snapshot()).To(HaveLen(1))
		Expect(sink.snapshot()[0].Action).To(Equal("employee.update"))
	})

	It("should reject other events", func() {
		err := subscriber.HandleAccessDecision(ctx, events.NewRolesChangedEvent(1, []string{"HR"}, 2))

		Expect(err).To(HaveOccurred())
		Expect(sink.snapshot()).To(BeEmpty())
	})

	It("should swallow drops from a full queue", func() {
		sink.err = audit.ErrQueueFull

		Expect(subscriber.HandleAccessDecision(ctx, events.NewAccessDeniedEvent(events.AccessDecision{Action: "x"}))).To(Succeed())
	})

	It("should receive both decision types from the bus", func() {
		bus := events.NewEventBus(logger.Discard())
		subscriber.RegisterEventHandlers(bus)

		Expect(bus.HandlerCount(events.EventTypeAccessDenied)).To(Equal(1))
		Expect(bus.HandlerCount(events.EventTypeAccessGranted)).To(Equal(1))

		Expect(bus.PublishSync(ctx, events.NewAccessGrantedEvent(events.AccessDecision{Action: "y"}))).To(Succeed())
		Expect(sink.snapshot()).To(HaveLen(1))
	})
})
