package storage

import (
	"context"
	"sync"
)

var (
	_ Queue          = (*MemoryQueue)(nil)
	_ QueueInspector = (*MemoryQueue)(nil)
)

type MemoryQueue struct {
	name     string
	mu       sync.Mutex
	messages [][]byte
}

func NewMemoryQueue(name string) *MemoryQueue {
	return &MemoryQueue{name: name}
}

func (q *MemoryQueue) Name() string { return q.name }

func (q *MemoryQueue) Push(_ context.Context, message []byte) error {
	buf := make([]byte, len(message))
	copy(buf, message)

	q.mu.Lock()
	q.messages = append(q.messages, buf)
	q.mu.Unlock()
	return nil
}

func (q *MemoryQueue) Len(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.messages)), nil
}

func (q *MemoryQueue) Peek(_ context.Context, count int64) ([][]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := min(count, int64(len(q.messages)))
	if n <= 0 {
		return nil, nil
	}
	out := make([][]byte, n)
	copy(out, q.messages[:n])
	return out, nil
}
