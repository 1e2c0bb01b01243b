package storage

import (
	"context"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
)

const queueKeyPrefix = "queue:"

var (
	_ Queue          = (*RedisQueue)(nil)
	_ QueueInspector = (*RedisQueue)(nil)
)

// RedisQueue is a list-backed queue: producers LPUSH, consumers BRPOP.
type RedisQueue struct {
	client *redis.Client
	name   string
}

func NewRedisQueue(cfg RedisConfig, name string) *RedisQueue {
	return &RedisQueue{
		client: cfg.Client,
		name:   name,
	}
}

func (q *RedisQueue) Name() string { return q.name }

func (q *RedisQueue) key() string {
	return queueKeyPrefix + q.name
}

func (q *RedisQueue) Push(ctx context.Context, message []byte) error {
	if err := q.client.LPush(ctx, q.key(), message).Err(); err != nil {
		return fmt.Errorf("failed to push to queue %s: %w", q.name, err)
	}
	return nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get length of queue %s: %w", q.name, err)
	}
	return n, nil
}

func (q *RedisQueue) Peek(ctx context.Context, count int64) ([][]byte, error) {
	if count <= 0 {
		return nil, nil
	}

	// the oldest message sits at the tail of the list
	results, err := q.client.LRange(ctx, q.key(), -count, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to peek queue %s: %w", q.name, err)
	}

	messages := make([][]byte, 0, len(results))
	for _, r := range results {
		messages = append(messages, []byte(r))
	}
	slices.Reverse(messages)
	return messages, nil
}
