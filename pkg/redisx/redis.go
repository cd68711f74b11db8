package redisx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type Config struct {
	Addr          string
	SentinelAddrs []string
	MasterName    string
	DB            int
}

// New builds a failover client when sentinels are configured, a single-node client otherwise.
func New(cfg Config, log *slog.Logger) *redis.Client {
	if len(cfg.SentinelAddrs) > 0 {
		log.Info("redis sentinel mode",
			slog.String("master", cfg.MasterName),
			slog.Int("db", cfg.DB))
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.MasterName,
			SentinelAddrs: cfg.SentinelAddrs,
			DB:            cfg.DB,
		})
	}

	log.Info("redis single mode", slog.String("addr", cfg.Addr), slog.Int("db", cfg.DB))
	return redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
}

// Ping retries with exponential backoff capped at 30s until the server answers,
// maxRetries is exhausted or ctx is done.
func Ping(ctx context.Context, rdb redis.UniversalClient, maxRetries int, log *slog.Logger) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			log.Info("connected to redis")
			return nil
		}

		if i == maxRetries-1 {
			break
		}

		backoff := time.Duration(1<<i) * time.Second
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
		log.Warn("redis not ready",
			slog.Duration("retry_in", backoff),
			slog.Int("attempt", i+1),
			slog.Any("err", err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("failed to connect to redis after %d retries: %w", maxRetries, err)
}
