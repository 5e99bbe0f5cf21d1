package clarify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists clarification state in Redis with a TTL, so abandoned
// conversations expire without any sweeper of our own.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisStore creates a RedisStore. ttl <= 0 defaults to 30 minutes.
func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) key(conversationID string) string {
	return "clarification:" + conversationID
}

func (s *RedisStore) Put(ctx context.Context, conversationID string, st State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal clarification state: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(conversationID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("store clarification state: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, conversationID string) (*State, error) {
	raw, err := s.rdb.Get(ctx, s.key(conversationID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load clarification state: %w", err)
	}

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("unmarshal clarification state: %w", err)
	}
	return &st, nil
}

func (s *RedisStore) Clear(ctx context.Context, conversationID string) error {
	if err := s.rdb.Del(ctx, s.key(conversationID)).Err(); err != nil {
		return fmt.Errorf("clear clarification state: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
