// Package model contains domain models passed between layers.
package model

import "time"

// PerformanceRecord is one champion's aggregated performance in a queue.
// Averages are per game.
type PerformanceRecord struct {
	Champion   string   `json:"champion" validate:"required"`
	Games      int      `json:"games" validate:"gte=0"`
	WinRate    float64  `json:"winRate" validate:"gte=0,lte=100"` // percent, 0-100
	AvgKills   float64  `json:"avgKills" validate:"gte=0"`
	AvgDeaths  float64  `json:"avgDeaths" validate:"gte=0"`
	AvgAssists float64  `json:"avgAssists" validate:"gte=0"`
	AvgCS      float64  `json:"avgCs" validate:"gte=0"`
	AvgDamage  *float64 `json:"avgDamage,omitempty" validate:"omitempty,gte=0"`
}

// Match is a single persisted game from a player's history.
type Match struct {
	MatchID  string        `json:"matchId" validate:"required"`
	PlayerID string        `json:"playerId"`
	Queue    string        `json:"queue" validate:"required"`
	Champion string        `json:"champion" validate:"required"`
	Win      bool          `json:"win"`
	Kills    int           `json:"kills" validate:"gte=0"`
	Deaths   int           `json:"deaths" validate:"gte=0"`
	Assists  int           `json:"assists" validate:"gte=0"`
	CS       int           `json:"cs" validate:"gte=0"`
	Damage   int           `json:"damage" validate:"gte=0"`
	Duration time.Duration `json:"duration"`
	PlayedAt time.Time     `json:"playedAt"`
}

// BuildJob requests an asynchronous style map build for a player's queue.
type BuildJob struct {
	ID       string
	PlayerID string
	Queue    string
	Enqueued time.Time
}
