package repository

import (
	"context"
	"fmt"
)

// Schema versions applied in order. Each entry runs once; the applied
// version is tracked with PRAGMA user_version.
var migrations = [][]string{ //nolint:gochecknoglobals // append-only schema history
	{`CREATE TABLE IF NOT EXISTS matches (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id    TEXT    NOT NULL,
		player_id   TEXT    NOT NULL,
		queue       TEXT    NOT NULL,
		champion    TEXT    NOT NULL,
		win         INTEGER NOT NULL,
		kills       INTEGER NOT NULL,
		deaths      INTEGER NOT NULL,
		assists     INTEGER NOT NULL,
		cs          INTEGER NOT NULL,
		damage      INTEGER,
		duration_s  INTEGER NOT NULL DEFAULT 0,
		played_at   TEXT    NOT NULL,
		UNIQUE (player_id, match_id)
	)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_player_queue ON matches(player_id, queue)`},
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	for i := version; i < len(migrations); i++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}
		for _, stmt := range migrations[i] {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("applying migration %d: %w", i+1, err)
			}
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}
	return nil
}
