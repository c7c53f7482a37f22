package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mentor:session:"

// RedisStore shares Conversations between replicas. Every Save refreshes the
// idle TTL, so an abandoned session disappears after idleTTL. A zero idleTTL
// keeps sessions until they are deleted.
type RedisStore struct {
	client  *redis.Client
	idleTTL time.Duration
}

func NewRedisStore(client *redis.Client, idleTTL time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("session: redis client must not be nil")
	}
	return &RedisStore{client: client, idleTTL: idleTTL}, nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (*Conversation, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", key, err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", key, err)
	}
	if len(conv.Turns) == 0 {
		return nil, ErrNotFound
	}
	return &conv, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, conv *Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", key, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, s.idleTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", key, err)
	}
	return nil
}
