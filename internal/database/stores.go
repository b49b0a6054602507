package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/config"
	"github.com/stemsi/interview-assistant/internal/repository"
)

// Stores holds the snapshot store picked at startup and the connections
// behind it.
type Stores struct {
	Snapshot repository.SnapshotStore
	// Driver is the driver actually serving snapshots. It differs from
	// cfg.StoreDriver after a fallback.
	Driver string
	// Redis is nil when Redis is unreachable. It also powers the live
	// monitor, so it is dialled whatever the driver.
	Redis    *redis.Client
	Postgres *pgxpool.Pool
}

// OpenStores connects the configured snapshot store. When Redis or
// PostgreSQL cannot be reached the file store in cfg.DataDir takes over with
// a warning, so the server still starts. Only an unknown driver is an error.
func OpenStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverFile, config.StoreDriverRedis, config.StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	s := &Stores{Driver: cfg.StoreDriver}

	rdb, err := NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, live monitor disabled")
	} else {
		s.Redis = rdb
	}

	switch cfg.StoreDriver {
	case config.StoreDriverRedis:
		if s.Redis != nil {
			s.Snapshot = repository.NewRedisSnapshotStore(s.Redis, cfg.SnapshotKey)
		}
	case config.StoreDriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Warn().Err(err).Msg("PostgreSQL unavailable")
		} else {
			s.Postgres = pool
			s.Snapshot = repository.NewPostgresSnapshotStore(pool, cfg.SnapshotKey)
		}
	}

	if s.Snapshot == nil {
		if cfg.StoreDriver != config.StoreDriverFile {
			log.Warn().
				Str("driver", cfg.StoreDriver).
				Str("data_dir", cfg.DataDir).
				Msg("Snapshot store unreachable, falling back to file store")
		}
		s.Driver = config.StoreDriverFile
		s.Snapshot = repository.NewFileSnapshotStore(cfg.DataDir, cfg.SnapshotKey)
	}
	return s, nil
}

// Close releases whatever OpenStores connected.
func (s *Stores) Close() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.Postgres != nil {
		s.Postgres.Close()
	}
}
