// Package repository persists match history and aggregates it into
// per-champion performance records.
package repository

import (
	"context"

	"github.com/okian/stylemap/internal/domain/model"
)

// Store provides read/write access to a player's match history.
type Store interface {
	// SaveMatches stores matches, skipping any match id already stored for the
	// same player. Returns the number of newly inserted rows.
	SaveMatches(ctx context.Context, matches []model.Match) (int, error)

	// PerformanceRecords aggregates a player's matches in one queue per champion,
	// ordered by games desc then champion asc.
	// Returns ErrNotFound if the player has no matches in the queue.
	PerformanceRecords(ctx context.Context, playerID, queue string) ([]model.PerformanceRecord, error)

	// Queues lists the queues a player has matches in, sorted by name.
	// Returns ErrNotFound if the player is unknown.
	Queues(ctx context.Context, playerID string) ([]string, error)

	// Count returns the number of stored matches.
	Count(ctx context.Context) int

	Close() error
}
