package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/okian/stylemap/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
	jobPollInterval     = 50 * time.Millisecond
)

type counters struct {
	sent, inserted, maps, jobs, failures atomic.Int64
}

// Run generates histories, loads them into the service and verifies the maps
// built from them. Per-player failures are counted; the run fails if any occur.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Get().Named("seed")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting seed run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("players", cfg.Players),
		logger.Int("matchesPerPlayer", cfg.MatchesPerPlayer),
		logger.Int("workers", cfg.Workers),
		logger.Any("queues", cfg.Queues),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	gen := NewGenerator(cfg.Seed)
	histories := make([]History, cfg.Players)
	for i := range histories {
		histories[i] = gen.Player(cfg.MatchesPerPlayer, cfg.PoolSize, cfg.Queues)
	}
	stats.Players = len(histories)

	var c counters
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, h := range histories {
		g.Go(func() error {
			if err := seedPlayer(gctx, client, cfg, h, &c); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.failures.Add(1)
				log.Warn(gctx, "player failed", logger.String("player", h.PlayerID), logger.Error(err))
			} else if cfg.Verbose {
				log.Info(gctx, "player seeded", logger.String("player", h.PlayerID))
			}
			return nil
		})
	}
	runErr := g.Wait()

	stats.MatchesSent = int(c.sent.Load())
	stats.MatchesInserted = int(c.inserted.Load())
	stats.MapsBuilt = int(c.maps.Load())
	stats.JobsDone = int(c.jobs.Load())
	stats.Failures = int(c.failures.Load())

	if cfg.OutputFile != "" {
		if err := saveHistories(cfg.OutputFile, histories); err != nil {
			log.Warn(ctx, "failed to save histories", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logStats(ctx, log, stats)

	if runErr != nil {
		return stats, runErr
	}
	if stats.Failures > 0 {
		return stats, fmt.Errorf("%w: %d of %d players failed", ErrVerify, stats.Failures, stats.Players)
	}
	return stats, nil
}

func seedPlayer(ctx context.Context, client *Client, cfg *Config, h History, c *counters) error {
	for start := 0; start < len(h.Matches); start += cfg.BatchSize {
		end := min(start+cfg.BatchSize, len(h.Matches))
		n, err := client.Ingest(ctx, h.PlayerID, h.Matches[start:end])
		if err != nil {
			return fmt.Errorf("ingest: %w", err)
		}
		c.sent.Add(int64(end - start))
		c.inserted.Add(int64(n))
	}

	maps, err := client.PlayerMaps(ctx, h.PlayerID)
	if err != nil {
		return fmt.Errorf("player maps: %w", err)
	}
	if err := VerifyMaps(h, maps, cfg.MinGames); err != nil {
		return err
	}
	c.maps.Add(int64(len(maps)))

	job, err := client.SubmitJob(ctx, h.PlayerID, h.Matches[0].Queue)
	if err != nil {
		return fmt.Errorf("submit job: %w", err)
	}
	if err := awaitJob(ctx, client, job.ID, cfg.JobTimeout); err != nil {
		return err
	}
	c.jobs.Add(1)
	return nil
}

func awaitJob(ctx context.Context, client *Client, id string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(jobPollInterval)
	defer ticker.Stop()

	for {
		st, err := client.Job(ctx, id)
		if err != nil {
			return fmt.Errorf("poll job %s: %w", id, err)
		}
		switch st.State {
		case "done":
			return nil
		case "failed":
			return fmt.Errorf("job %s failed: %s", id, st.Error)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("job %s still %s: %w", id, st.State, ctx.Err())
		case <-ticker.C:
		}
	}
}

func saveHistories(path string, histories []History) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(histories, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal histories: %w", err)
	}
	return os.WriteFile(path, data, filePermission)
}

func logStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var matchesPerSecond float64
	if stats.Duration > 0 {
		matchesPerSecond = float64(stats.MatchesSent) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("players", stats.Players),
		logger.Int("matchesSent", stats.MatchesSent),
		logger.Int("matchesInserted", stats.MatchesInserted),
		logger.Int("mapsBuilt", stats.MapsBuilt),
		logger.Int("jobsDone", stats.JobsDone),
		logger.Int("failures", stats.Failures),
		logger.Duration("duration", stats.Duration),
		logger.Float64("matchesPerSecond", matchesPerSecond),
	)
}
