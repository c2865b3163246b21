package cache_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/staff-attendance/internal/auth"
	"github.com/frahmantamala/staff-attendance/internal/auth/cache"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

var _ = Describe("Redis stores", func() {
	var (
		mr     *miniredis.Miniredis
		client *redis.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		mr = miniredis.RunT(GinkgoT())
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(client.Close()).To(Succeed())
	})

	Describe("ProfileCache", func() {
		var profiles *cache.ProfileCache

		BeforeEach(func() {
			profiles = cache.NewProfileCache(client, time.Minute)
		})

		It("should miss without error when nothing is cached", func() {
			p, err := profiles.Get(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNil())
		})

		It("should round trip a profile with optional attributes", func() {
			// Given
			dept := int64(5)
			level := 2
			in := &auth.Profile{
				UserID:        7,
				Email:         "lead@example.com",
				Roles:         []string{"TeamLeader"},
				Permissions:   []string{"EMPLOYEE_VIEW_TEAM"},
				DepartmentID:  &dept,
				PositionLevel: &level,
			}

			// When
			Expect(profiles.Set(ctx, in)).To(Succeed())
			out, err := profiles.Get(ctx, 7)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(in))
			Expect(mr.TTL(cache.ProfileKey(7))).To(Equal(time.Minute))
		})

		It("should expire and delete entries", func() {
			Expect(profiles.Set(ctx, &auth.Profile{UserID: 3})).To(Succeed())
			Expect(profiles.Delete(ctx, 3)).To(Succeed())

			p, err := profiles.Get(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNil())

			Expect(profiles.Set(ctx, &auth.Profile{UserID: 4})).To(Succeed())
			mr.FastForward(2 * time.Minute)
			p, err = profiles.Get(ctx, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNil())
		})

		It("should surface corrupt entries as errors", func() {
			Expect(mr.Set(cache.ProfileKey(9), "{not json")).To(Succeed())
			_, err := profiles.Get(ctx, 9)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RevocationStore", func() {
		It("should remember revoked ids until the ttl passes", func() {
			store := cache.NewRevocationStore(client)

			revoked, err := store.IsRevoked(ctx, "jti-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(revoked).To(BeFalse())

			Expect(store.Revoke(ctx, "jti-1", 30*time.Second)).To(Succeed())
			revoked, err = store.IsRevoked(ctx, "jti-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(revoked).To(BeTrue())

			mr.FastForward(31 * time.Second)
			revoked, err = store.IsRevoked(ctx, "jti-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(revoked).To(BeFalse())
		})

		It("should report redis failures", func() {
			store := cache.NewRevocationStore(client)
			mr.Close()

			_, err := store.IsRevoked(ctx, "jti-2")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ResetTokenStore", func() {
		var store *cache.ResetTokenStore

		BeforeEach(func() {
			store = cache.NewResetTokenStore(client)
		})

		It("should hand a token back exactly once", func() {
			Expect(store.Save(ctx, "tok-1", 42, time.Minute)).To(Succeed())

			userID, err := store.Consume(ctx, "tok-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(userID).To(Equal(int64(42)))

			userID, err = store.Consume(ctx, "tok-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(userID).To(BeZero())
		})

		It("should not keep the raw token as a key", func() {
			Expect(store.Save(ctx, "tok-2", 7, time.Minute)).To(Succeed())

			Expect(mr.Exists(cache.ResetKey("tok-2"))).To(BeTrue())
			Expect(mr.Keys()).NotTo(ContainElement(ContainSubstring("tok-2")))
		})

		It("should expire unused tokens", func() {
			Expect(store.Save(ctx, "tok-3", 7, time.Minute)).To(Succeed())
			mr.FastForward(2 * time.Minute)

			userID, err := store.Consume(ctx, "tok-3")
			Expect(err).NotTo(HaveOccurred())
			Expect(userID).To(BeZero())
		})
	})
})
