package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "dedupe:"

var _ DedupeStore = (*RedisDedupeStore)(nil)

type RedisDedupeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDedupeStore stores markers as plain keys. A zero ttl keeps them forever.
func NewRedisDedupeStore(cfg RedisConfig, ttl time.Duration) *RedisDedupeStore {
	return &RedisDedupeStore{
		client: cfg.Client,
		ttl:    ttl,
	}
}

func (s *RedisDedupeStore) key(k DedupeKey) string {
	return dedupeKeyPrefix + k.Provider + ":" + k.EventType + ":" + k.EventID
}

func (s *RedisDedupeStore) Get(ctx context.Context, key DedupeKey) (DedupeRecord, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return DedupeRecord{}, ErrNotFound
	}
	if err != nil {
		return DedupeRecord{}, fmt.Errorf("failed to get dedupe record: %w", err)
	}

	processedAt, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return DedupeRecord{}, fmt.Errorf("failed to parse dedupe record timestamp: %w", err)
	}

	return DedupeRecord{DedupeKey: key, ProcessedAt: processedAt}, nil
}

func (s *RedisDedupeStore) Create(ctx context.Context, record DedupeRecord) error {
	value := record.ProcessedAt.UTC().Format(time.RFC3339Nano)

	created, err := s.client.SetNX(ctx, s.key(record.DedupeKey), value, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create dedupe record: %w", err)
	}
	if !created {
		return ErrAlreadyExists
	}
	return nil
}
