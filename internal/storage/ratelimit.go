package storage

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed ratelimit.lua
var slidingWindowLua string

var slidingWindowScript = redis.NewScript(slidingWindowLua)

// slidingWindow is one evaluation of the shared limit for a single key.
type slidingWindow struct {
	window time.Duration
	limit  int
}

// minWindow stops a very high rate from rounding the window down to nothing.
const minWindow = time.Millisecond

func newSlidingWindow(ratePerSec float64, burst int) slidingWindow {
	limit := max(burst, 1)
	window := time.Second
	if ratePerSec > 0 {
		window = time.Duration(float64(limit) * float64(time.Second) / ratePerSec)
	}
	return slidingWindow{window: max(window, minWindow), limit: limit}
}

func (s slidingWindow) args() []any {
	ttl := s.window + time.Second
	return []any{
		s.window.Milliseconds(),
		s.limit,
		int(ttl.Seconds()),
	}
}

func (s slidingWindow) run(ctx context.Context, client *redis.Client, key string) (RateLimitResult, error) {
	reply, err := slidingWindowScript.Run(ctx, client, []string{key}, s.args()...).Int64Slice()
	if err != nil {
		return RateLimitResult{}, err
	}
	if len(reply) != 2 {
		return RateLimitResult{}, fmt.Errorf("unexpected rate limit reply %v", reply)
	}
	if reply[0] == 1 {
		return RateLimitResult{Allowed: true}, nil
	}
	return RateLimitResult{RetryAfter: time.Duration(reply[1]) * time.Millisecond}, nil
}
