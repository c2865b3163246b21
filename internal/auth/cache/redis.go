package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/staff-attendance/internal/auth"
	"github.com/redis/go-redis/v9"
)

const (
	profilePrefix    = "staff:auth:profile:"
	revocationPrefix = "staff:auth:revoked:"
	resetPrefix      = "staff:auth:reset:"
)

func ProfileKey(userID int64) string {
	return fmt.Sprintf("%s%d", profilePrefix, userID)
}

func RevocationKey(tokenID string) string {
	return revocationPrefix + tokenID
}

// ResetKey stores a digest of the token so a redis dump cannot be replayed.
func ResetKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return resetPrefix + hex.EncodeToString(sum[:])
}

// ProfileCache keeps serialized profiles in redis.
type ProfileCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewProfileCache(client redis.Cmdable, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileCache{client: client, ttl: ttl}
}

func (c *ProfileCache) Get(ctx context.Context, userID int64) (*auth.Profile, error) {
	data, err := c.client.Get(ctx, ProfileKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var p auth.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode cached profile %d: %w", userID, err)
	}
	return &p, nil
}

func (c *ProfileCache) Set(ctx context.Context, p *auth.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ProfileKey(p.UserID), data, c.ttl).Err()
}

func (c *ProfileCache) Delete(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, ProfileKey(userID)).Err()
}

// RevocationStore is a token id deny list whose entries expire with the token.
type RevocationStore struct {
	client redis.Cmdable
}

func NewRevocationStore(client redis.Cmdable) *RevocationStore {
	return &RevocationStore{client: client}
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, RevocationKey(tokenID), "1", ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, RevocationKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ResetTokenStore holds password reset tokens until they are used or expire.
type ResetTokenStore struct {
	client redis.Cmdable
}

func NewResetTokenStore(client redis.Cmdable) *ResetTokenStore {
	return &ResetTokenStore{client: client}
}

func (s *ResetTokenStore) Save(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, ResetKey(token), userID, ttl).Err()
}

// Consume reads and deletes the token in one step, so it works once.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (int64, error) {
	userID, err := s.client.GetDel(ctx, ResetKey(token)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return userID, nil
}
