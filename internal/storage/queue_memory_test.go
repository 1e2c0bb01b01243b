package storage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryQueue(t *testing.T) {
	t.Parallel()

	q := NewMemoryQueue("order-notifications")
	ctx := t.Context()

	if got := q.Name(); got != "order-notifications" {
		t.Errorf("Name() = %q, want %q", got, "order-notifications")
	}

	msg := []byte(`{"OrderNumber":"GOBX"}`)
	if err := q.Push(ctx, msg); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	msg[0] = 'X'
	if err := q.Push(ctx, []byte(`{"OrderNumber":"PWBH"}`)); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	n, err := q.Len(ctx)
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}

	got, err := q.Peek(ctx, 5)
	if err != nil {
		t.Fatalf("Peek() error = %v", err)
	}
	want := [][]byte{
		[]byte(`{"OrderNumber":"GOBX"}`),
		[]byte(`{"OrderNumber":"PWBH"}`),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Peek() mismatch (-want +got):\n%s", diff)
	}

	if got, _ := q.Peek(ctx, 0); got != nil {
		t.Errorf("Peek(0) = %v, want nil", got)
	}
}

func TestMemoryRateLimiter(t *testing.T) {
	t.Parallel()

	limiter := NewMemoryRateLimiter(1, 2)
	t.Cleanup(func() { _ = limiter.Close() })

	ctx := t.Context()
	for i := range 2 {
		res, err := limiter.Allow(ctx, "203.0.113.7")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !res.Allowed {
			t.Fatalf("Allow() call %d denied within burst", i)
		}
	}

	res, err := limiter.Allow(ctx, "203.0.113.7")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if res.Allowed {
		t.Errorf("Allow() beyond burst was allowed")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("Allow() RetryAfter = %v, want > 0", res.RetryAfter)
	}

	res, err = limiter.Allow(ctx, "198.51.100.1")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !res.Allowed {
		t.Errorf("Allow() for a different key was denied")
	}
}
