// File: services/memory/context_store.go
package memory

import (
	"context"
	"encoding/json"
	"time"

	"swiftmotors/models"

	"github.com/go-redis/redis/v8"
)

const memContextPrefix = "mem:ctx:"

// RedisContextStore caches recently retrieved memory context per customer,
// so back-to-back turns of the same call don't hit the external service.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, customerID string) (*models.MemoryContext, error) {
	key := memContextPrefix + customerID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var memCtx models.MemoryContext
	if err := json.Unmarshal([]byte(data), &memCtx); err != nil {
		return nil, err
	}
	return &memCtx, nil
}

func (s *RedisContextStore) Set(ctx context.Context, customerID string, memCtx *models.MemoryContext) error {
	key := memContextPrefix + customerID
	b, err := json.Marshal(memCtx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, customerID string) error {
	key := memContextPrefix + customerID
	return s.client.Del(ctx, key).Err()
}
