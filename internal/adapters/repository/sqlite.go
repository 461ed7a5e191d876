package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/stylemap/internal/domain/model"
	"github.com/okian/stylemap/pkg/metrics"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const defaultBusyTimeout = 5 * time.Second

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db           *sql.DB
	busyTimeout  time.Duration
	maxOpenConns int
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path and applies migrations.
// Pass MemoryPath for an in-memory database.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(s)
	}

	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	} else if s.maxOpenConns > 0 {
		db.SetMaxOpenConns(s.maxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", s.busyTimeout.Milliseconds()),
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s.db = db
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	metrics.UpdateRepositoryMatches(s.Count(ctx))
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func validateMatch(m model.Match) error {
	switch {
	case m.MatchID == "":
		return fmt.Errorf("%w: match id is required", ErrInvalidMatch)
	case m.PlayerID == "":
		return fmt.Errorf("%w: %s: player id is required", ErrInvalidMatch, m.MatchID)
	case m.Queue == "":
		return fmt.Errorf("%w: %s: queue is required", ErrInvalidMatch, m.MatchID)
	case m.Champion == "":
		return fmt.Errorf("%w: %s: champion is required", ErrInvalidMatch, m.MatchID)
	case m.Kills < 0 || m.Deaths < 0 || m.Assists < 0 || m.CS < 0 || m.Damage < 0:
		return fmt.Errorf("%w: %s: negative stat", ErrInvalidMatch, m.MatchID)
	}
	return nil
}

// SaveMatches inserts matches in one transaction. Already stored matches are skipped.
func (s *SQLiteStore) SaveMatches(ctx context.Context, matches []model.Match) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}
	for _, m := range matches {
		if err := validateMatch(m); err != nil {
			return 0, err
		}
	}

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryWriteLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO matches
		(match_id, player_id, queue, champion, win, kills, deaths, assists, cs, damage, duration_s, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, m := range matches {
		var damage sql.NullInt64
		if m.Damage > 0 {
			damage = sql.NullInt64{Int64: int64(m.Damage), Valid: true}
		}
		win := 0
		if m.Win {
			win = 1
		}
		res, err := stmt.ExecContext(ctx,
			m.MatchID, m.PlayerID, m.Queue, m.Champion, win,
			m.Kills, m.Deaths, m.Assists, m.CS, damage,
			int64(m.Duration/time.Second), m.PlayedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return 0, fmt.Errorf("insert match %s: %w", m.MatchID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	metrics.RecordMatchesIngested(inserted)
	metrics.UpdateRepositoryMatches(s.Count(ctx))
	return inserted, nil
}

// PerformanceRecords aggregates per-champion averages for a player's queue.
// Win rate is a percentage. AvgDamage is nil when no match carried damage.
func (s *SQLiteStore) PerformanceRecords(ctx context.Context, playerID, queue string) ([]model.PerformanceRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	rows, err := s.db.QueryContext(ctx, `SELECT champion,
			COUNT(*), AVG(win) * 100.0, AVG(kills), AVG(deaths), AVG(assists), AVG(cs), AVG(damage)
		FROM matches
		WHERE player_id = ? AND queue = ?
		GROUP BY champion
		ORDER BY COUNT(*) DESC, champion ASC`, playerID, queue)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.PerformanceRecord
	for rows.Next() {
		var (
			r      model.PerformanceRecord
			damage sql.NullFloat64
		)
		if err := rows.Scan(&r.Champion, &r.Games, &r.WinRate, &r.AvgKills, &r.AvgDeaths,
			&r.AvgAssists, &r.AvgCS, &damage); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if damage.Valid {
			d := damage.Float64
			r.AvgDamage = &d
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, playerID, queue)
	}
	return out, nil
}

// Queues lists the distinct queues a player has history in.
func (s *SQLiteStore) Queues(ctx context.Context, playerID string) ([]string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT queue FROM matches WHERE player_id = ? ORDER BY queue`, playerID)
	if err != nil {
		return nil, fmt.Errorf("query queues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var queues []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan queue: %w", err)
		}
		queues = append(queues, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queues: %w", err)
	}
	if len(queues) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return queues, nil
}

// Count returns the number of stored matches, or 0 if the query fails.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM matches").Scan(&n); err != nil {
		return 0
	}
	return n
}
