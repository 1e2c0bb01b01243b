package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"

	"github.com/garrettladley/titohook/internal/xslog"
)

const (
	pingTimeout    = 5 * time.Second
	connectTimeout = 30 * time.Second
	writeTimeout   = 3 * time.Second
)

type Config struct {
	URL string
}

// New connects to the server at cfg.URL, retrying the initial ping with exponential
// backoff so a server that starts alongside Redis does not crash-loop.
func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if opt.WriteTimeout == 0 {
		opt.WriteTimeout = writeTimeout
	}

	client := redis.NewClient(opt)

	logger := xslog.FromContext(ctx)
	ping := func() (struct{}, error) {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return struct{}{}, client.Ping(pingCtx).Err()
	}

	_, err = backoff.Retry(ctx, ping,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(connectTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.WarnContext(ctx, "redis not reachable yet, retrying",
				xslog.Error(err),
				xslog.RetryIn(next),
			)
		}),
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
