package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/titohook/internal/config"
	xredis "github.com/garrettladley/titohook/internal/redis"
	"github.com/garrettladley/titohook/internal/storage"
	"github.com/garrettladley/titohook/internal/version"
)

type queueConfig struct {
	RedisURL string             `env:"REDIS_URL,required"`
	Queue    config.QueueConfig `envPrefix:"QUEUE_"`
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "queue",
		Short:   "Inspect notification queues and replay Tito deliveries",
		Version: version.Get(),
	}
	rootCmd.AddCommand(lenCmd())
	rootCmd.AddCommand(peekCmd())
	rootCmd.AddCommand(signCmd())

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}

type queues struct {
	order  *storage.RedisQueue
	ticket *storage.RedisQueue
	close  func() error
}

func openQueues(ctx context.Context) (queues, error) {
	cfg, err := env.ParseAs[queueConfig]()
	if err != nil {
		return queues{}, fmt.Errorf("failed to read config: %w", err)
	}

	client, err := xredis.New(ctx, xredis.Config{URL: cfg.RedisURL})
	if err != nil {
		return queues{}, err
	}

	rc := storage.RedisConfig{Client: client}
	return queues{
		order:  storage.NewRedisQueue(rc, cfg.Queue.Order),
		ticket: storage.NewRedisQueue(rc, cfg.Queue.Ticket),
		close:  client.Close,
	}, nil
}

func (q queues) byName(name string) (*storage.RedisQueue, error) {
	switch name {
	case "order":
		return q.order, nil
	case "ticket":
		return q.ticket, nil
	default:
		return nil, fmt.Errorf("unknown queue %q (want order or ticket)", name)
	}
}
