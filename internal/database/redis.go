package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/config"
)

// NewRedisClient connects to the Redis instance backing the snapshot store and
// the monitor channels. Connecting gives up after cfg.StoreConnectTimeout.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.StoreConnectTimeout > 0 {
		opt.DialTimeout = cfg.StoreConnectTimeout
	}
	// One writer plus a pub/sub connection per monitor tab.
	opt.MinIdleConns = 1

	rdb := redis.NewClient(opt)

	pingCtx, cancel := connectContext(ctx, cfg)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	key := config.CacheKey.SnapshotKey(cfg.SnapshotKey)
	n, err := rdb.Exists(pingCtx, key).Result()
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("check snapshot key: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Str("snapshot_key", key).
		Bool("snapshot_present", n > 0).
		Msg("Redis connected")

	return rdb, nil
}

func connectContext(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.StoreConnectTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.StoreConnectTimeout)
}
