package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/interview-assistant/internal/config"
	"github.com/stemsi/interview-assistant/internal/model"
)

// RedisSnapshotStore keeps the snapshot under a single Redis key.
type RedisSnapshotStore struct {
	rdb *redis.Client
	key string
}

// NewRedisSnapshotStore creates a RedisSnapshotStore.
func NewRedisSnapshotStore(rdb *redis.Client, name string) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		rdb: rdb,
		key: config.CacheKey.SnapshotKey(name),
	}
}

func (s *RedisSnapshotStore) Load(ctx context.Context) (*model.AppState, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

func (s *RedisSnapshotStore) Save(ctx context.Context, state *model.AppState) error {
	data, err := EncodeSnapshot(state, time.Now())
	if err != nil {
		return err
	}
	// No expiry: the snapshot is the durable copy.
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}
