package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const QueueKey = "staff:audit:queue"

// RedisQueue moves entries from API processes to the audit worker. Producers push on
// the head and the worker pops from the tail. The list is trimmed to maxLen, so the
// oldest entries go first when the worker falls behind.
type RedisQueue struct {
	client redis.Cmdable
	maxLen int64
	logger *slog.Logger
}

func NewRedisQueue(client redis.Cmdable, maxLen int, logger *slog.Logger) *RedisQueue {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &RedisQueue{client: client, maxLen: int64(maxLen), logger: logger}
}

func (q *RedisQueue) Enqueue(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	var length *redis.IntCmd
	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		length = pipe.LPush(ctx, QueueKey, data)
		pipe.LTrim(ctx, QueueKey, 0, q.maxLen-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push audit entry: %w", err)
	}
	if length.Val() > q.maxLen {
		q.logger.WarnContext(ctx, "audit queue full, oldest entry dropped", "max_len", q.maxLen)
	}
	return nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, QueueKey).Result()
}

// Drain pops entries and hands them to sink until ctx is done. An entry the sink
// refuses because it is full goes back to the tail and is retried after a pause.
func (q *RedisQueue) Drain(ctx context.Context, sink Sink, block time.Duration) error {
	if block <= 0 {
		block = time.Second
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := q.client.BRPop(ctx, block, QueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			q.logger.Error("failed to pop audit entry", "error", err)
			if !pause(ctx, block) {
				return nil
			}
			continue
		}

		// BRPOP answers [key, value].
		raw := res[1]
		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			q.logger.Error("discarding malformed audit entry", "error", err)
			continue
		}

		if err := sink.Enqueue(ctx, entry); err != nil {
			if errors.Is(err, ErrQueueFull) {
				if perr := q.client.RPush(context.WithoutCancel(ctx), QueueKey, raw).Err(); perr != nil {
					q.logger.Error("failed to requeue audit entry", "error", perr, "event_id", entry.EventID)
				}
				if !pause(ctx, block) {
					return nil
				}
				continue
			}
			return err
		}
	}
}

func pause(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
