package audit_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/staff-attendance/internal/audit"
	"github.com/frahmantamala/staff-attendance/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

var _ = Describe("RedisQueue", func() {
	var (
		mr     *miniredis.Miniredis
		client *redis.Client
		queue  *audit.RedisQueue
		ctx    context.Context
	)

	BeforeEach(func() {
		mr = miniredis.RunT(GinkgoT())
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		queue = audit.NewRedisQueue(client, 3, logger.Discard())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(client.Close()).To(Succeed())
	})

	It("should keep only the newest entries up to its length", func() {
		for i := 1; i <= 5; i++ {
			Expect(queue.Enqueue(ctx, entry(i))).To(Succeed())
		}

		Expect(queue.Len(ctx)).To(Equal(int64(3)))
	})

	It("should drain entries in arrival order into the sink", func() {
		// Given
		for i := 1; i <= 3; i++ {
			Expect(queue.Enqueue(ctx, entry(i))).To(Succeed())
		}
		sink := &captureSink{}

		// When
		drainCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- queue.Drain(drainCtx, sink, 50*time.Millisecond) }()

		// Then
		Eventually(func() int { return len(sink.snapshot()) }).Should(Equal(3))
		cancel()
		Eventually(done).Should(Receive(BeNil()))

		got := sink.snapshot()
		Expect(got[0].EventID).To(Equal("evt-1"))
		Expect(got[2].EventID).To(Equal("evt-3"))
		Expect(queue.Len(ctx)).To(BeZero())
	})

	It("should skip malformed payloads", func() {
		Expect(client.LPush(ctx, audit.QueueKey, "not-json").Err()).To(Succeed())
		Expect(queue.Enqueue(ctx, entry(9))).To(Succeed())
		sink := &captureSink{}

		drainCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- queue.Drain(drainCtx, sink, 50*time.Millisecond) }()

		Eventually(func() int { return len(sink.snapshot()) }).Should(Equal(1))
		cancel()
		Eventually(done).Should(Receive(BeNil()))
		Expect(sink.snapshot()[0].EventID).To(Equal("evt-9"))
	})
})
