package quota

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tclens/tclens-server/internal/common"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS usage_counters (
    identity   TEXT PRIMARY KEY,
    used_words BIGINT NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresStore keeps usage counters in Postgres via a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates the pool, applies the schema, and pings.
func OpenPostgres(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "backend", "postgres")

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}
	pc.MaxConns = cfg.MaxConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "tclens-server"

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		logger.Error("failed to apply schema", "error", err)
		return nil, err
	}

	logger.Info("successfully connected to database")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Usage(ctx context.Context, identity string) (int, error) {
	var used int64
	err := s.pool.QueryRow(ctx,
		`SELECT used_words FROM usage_counters WHERE identity = $1`, identity).Scan(&used)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		s.logger.Error("quota.usage_query_failed", "identity", identity, "error", err)
		return 0, err
	}
	return int(used), nil
}

// AddUsage is a single upsert so concurrent requests for the same identity
// serialize on the row, not in application code.
func (s *PostgresStore) AddUsage(ctx context.Context, identity string, words int) (int, error) {
	var used int64
	err := s.pool.QueryRow(ctx, `
INSERT INTO usage_counters (identity, used_words) VALUES ($1, $2)
ON CONFLICT (identity) DO UPDATE
    SET used_words = usage_counters.used_words + EXCLUDED.used_words,
        updated_at = now()
RETURNING used_words`, identity, int64(words)).Scan(&used)
	if err != nil {
		s.logger.Error("quota.add_usage_failed", "identity", identity, "words", words, "error", err)
		return 0, err
	}
	return int(used), nil
}

func (s *PostgresStore) Reset(ctx context.Context, identity string) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO usage_counters (identity, used_words) VALUES ($1, 0)
ON CONFLICT (identity) DO UPDATE SET used_words = 0, updated_at = now()`, identity)
	if err != nil {
		s.logger.Error("quota.reset_failed", "identity", identity, "error", err)
	}
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
