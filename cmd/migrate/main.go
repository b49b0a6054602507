package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/config"
	"github.com/stemsi/interview-assistant/internal/database"
	"github.com/stemsi/interview-assistant/internal/logger"
	"github.com/stemsi/interview-assistant/internal/repository"
)

func main() {
	migrationDir := flag.String("path", "migrations", "Path to migration files")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	m, err := migrate.New("file://"+*migrationDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed to initialize")
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Up failed")
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("Down failed")
		}
	case "steps":
		n := intArg(log, args, "steps")
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Int("steps", n).Msg("Steps failed")
		}
	case "force":
		v := intArg(log, args, "force")
		if err := m.Force(v); err != nil {
			log.Fatal().Err(err).Int("version", v).Msg("Force failed")
		}
	case "version":
	default:
		printUsage()
		return
	}

	logSchema(log, m)
	logSnapshot(log, cfg)
}

func intArg(log zerolog.Logger, args []string, command string) int {
	if len(args) < 2 {
		log.Fatal().Str("command", command).Msg("Missing numeric argument")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Invalid numeric argument")
	}
	return n
}

func logSchema(log zerolog.Logger, m *migrate.Migrate) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Msg("Schema has no migrations applied")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Version failed")
	}
	log.Info().Uint("schema_version", version).Bool("dirty", dirty).Msg("Schema version")
}

// logSnapshot reports the layout version of the stored app_snapshots row so a
// schema change that strands an old snapshot is visible before the server
// starts and discards it.
func logSnapshot(log zerolog.Logger, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot inspect app_snapshots")
		return
	}
	defer pool.Close()

	store := repository.NewPostgresSnapshotStore(pool, cfg.SnapshotKey)
	version, savedAt, err := store.Version(ctx)
	switch {
	case errors.Is(err, repository.ErrSnapshotNotFound):
		log.Info().Str("snapshot", cfg.SnapshotKey).Msg("No snapshot stored yet")
	case err != nil:
		// The table is gone after a full down migration.
		log.Warn().Err(err).Msg("Cannot inspect app_snapshots")
	case version != repository.SnapshotVersion:
		log.Warn().
			Str("snapshot", cfg.SnapshotKey).
			Int("stored_version", version).
			Int("supported_version", repository.SnapshotVersion).
			Time("saved_at", savedAt).
			Msg("Stored snapshot will be discarded on next start")
	default:
		log.Info().
			Str("snapshot", cfg.SnapshotKey).
			Int("version", version).
			Time("saved_at", savedAt).
			Msg("Snapshot is current")
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, steps <n>, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
