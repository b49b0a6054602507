package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/interview-assistant/internal/model"
)

// PostgresSnapshotStore keeps the snapshot as one row of app_snapshots.
type PostgresSnapshotStore struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresSnapshotStore creates a PostgresSnapshotStore.
func NewPostgresSnapshotStore(pool *pgxpool.Pool, name string) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{pool: pool, name: name}
}

func (s *PostgresSnapshotStore) Load(ctx context.Context) (*model.AppState, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM app_snapshots WHERE name = $1`, s.name,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	return DecodeSnapshot(payload)
}

func (s *PostgresSnapshotStore) Save(ctx context.Context, state *model.AppState) error {
	now := time.Now()
	payload, err := EncodeSnapshot(state, now)
	if err != nil {
		return err
	}

	// UPSERT the single row for this snapshot name.
	_, err = s.pool.Exec(ctx,
		`INSERT INTO app_snapshots (name, version, payload, saved_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE
		 SET version = EXCLUDED.version, payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at`,
		s.name, SnapshotVersion, payload, now,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Version reports the layout version and save time of the stored row without
// decoding the payload.
func (s *PostgresSnapshotStore) Version(ctx context.Context) (int, time.Time, error) {
	var (
		version int
		savedAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT version, saved_at FROM app_snapshots WHERE name = $1`, s.name,
	).Scan(&version, &savedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, time.Time{}, ErrSnapshotNotFound
	}
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("select snapshot version: %w", err)
	}
	return version, savedAt, nil
}
