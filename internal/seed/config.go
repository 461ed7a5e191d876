// Package seed generates synthetic match histories, loads them into a running
// style map service and checks the maps it builds from them.
package seed

import (
	"errors"
	"fmt"
	"time"
)

// Error constants.
var (
	ErrInvalidConfig = errors.New("invalid seed config")
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrVerify        = errors.New("style map verification failed")
)

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL          string        // Base URL of the service
	Players          int           // Number of synthetic players
	MatchesPerPlayer int           // Matches generated per player
	Queues           []string      // Queues matches are spread across
	PoolSize         int           // Distinct champions per player
	Workers          int           // Concurrent players in flight
	BatchSize        int           // Matches per ingest request
	Timeout          time.Duration // HTTP request timeout
	JobTimeout       time.Duration // How long to poll a build job
	MinGames         int           // Minimum games the service requires per champion
	Seed             uint64        // Generator seed; equal seeds give equal histories
	OutputFile       string        // Optional JSON dump of generated histories
	Verbose          bool          // Log every player
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url must not be empty", ErrInvalidConfig)
	case c.Players <= 0:
		return fmt.Errorf("%w: players must be positive", ErrInvalidConfig)
	case c.MatchesPerPlayer <= 0:
		return fmt.Errorf("%w: matches per player must be positive", ErrInvalidConfig)
	case len(c.Queues) == 0:
		return fmt.Errorf("%w: at least one queue is required", ErrInvalidConfig)
	case c.PoolSize <= 0 || c.PoolSize > len(championNames):
		return fmt.Errorf("%w: pool size out of range", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch size must be positive", ErrInvalidConfig)
	case c.MinGames < 0:
		return fmt.Errorf("%w: min games must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Match is one generated game in the ingest wire format.
type Match struct {
	MatchID         string    `json:"matchId"`
	Queue           string    `json:"queue"`
	Champion        string    `json:"champion"`
	Win             bool      `json:"win"`
	Kills           int       `json:"kills"`
	Deaths          int       `json:"deaths"`
	Assists         int       `json:"assists"`
	CS              int       `json:"cs"`
	Damage          int       `json:"damage"`
	DurationSeconds int       `json:"durationSeconds"`
	PlayedAt        time.Time `json:"playedAt"`
}

// History is the generated match history of one player.
type History struct {
	PlayerID string  `json:"playerId"`
	Matches  []Match `json:"matches"`
}

// Stats holds run statistics.
type Stats struct {
	Players         int
	MatchesSent     int
	MatchesInserted int
	MapsBuilt       int
	JobsDone        int
	Failures        int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
