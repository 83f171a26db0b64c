package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "favorites:session:"

var _ Store = (*RedisStore)(nil)

// RedisStore shares sessions between service instances through Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Data, error) {
	raw, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return decodeData(raw)
}

func (s *RedisStore) Save(ctx context.Context, id string, data *Data) error {
	raw, err := encodeData(data)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func encodeData(data *Data) ([]byte, error) {
	raw, err := sonic.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	return raw, nil
}

func decodeData(raw []byte) (*Data, error) {
	var data Data
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &data, nil
}
