package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS usage_counters (
    identity   TEXT PRIMARY KEY,
    used_words INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteStore keeps usage counters in a local SQLite file. Single-node
// deployments that don't run Postgres use this backend.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info("connected to database", "backend", "sqlite", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Usage(ctx context.Context, identity string) (int, error) {
	var used int64
	err := s.db.QueryRowContext(ctx,
		`SELECT used_words FROM usage_counters WHERE identity = ?`, identity).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		s.logger.Error("quota.usage_query_failed", "identity", identity, "error", err)
		return 0, err
	}
	return int(used), nil
}

func (s *SQLiteStore) AddUsage(ctx context.Context, identity string, words int) (int, error) {
	var used int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO usage_counters (identity, used_words) VALUES (?, ?)
ON CONFLICT (identity) DO UPDATE
    SET used_words = used_words + excluded.used_words,
        updated_at = CURRENT_TIMESTAMP
RETURNING used_words`, identity, int64(words)).Scan(&used)
	if err != nil {
		s.logger.Error("quota.add_usage_failed", "identity", identity, "words", words, "error", err)
		return 0, err
	}
	return int(used), nil
}

func (s *SQLiteStore) Reset(ctx context.Context, identity string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO usage_counters (identity, used_words) VALUES (?, 0)
ON CONFLICT (identity) DO UPDATE SET used_words = 0, updated_at = CURRENT_TIMESTAMP`, identity)
	if err != nil {
		s.logger.Error("quota.reset_failed", "identity", identity, "error", err)
	}
	return err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
