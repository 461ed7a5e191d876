package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/okian/stylemap/internal/domain/stylemap"
	"github.com/okian/stylemap/internal/seed"
	"github.com/okian/stylemap/pkg/logger"
)

// Default configuration constants.
const (
	defaultPlayers    = 50
	defaultMatches    = 120
	defaultPool       = 14
	defaultBatch      = 50
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultJobTimeout = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players  = flag.Int("players", defaultPlayers, "Number of synthetic players")
		matches  = flag.Int("matches", defaultMatches, "Matches generated per player")
		queues   = flag.String("queues", "ranked,normal,aram", "Comma-separated queues")
		pool     = flag.Int("pool", defaultPool, "Distinct champions per player")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Concurrent players in flight")
		batch    = flag.Int("batch", defaultBatch, "Matches per ingest request")
		minGames = flag.Int("min-games", stylemap.DefaultMinGames, "Minimum games the service requires per champion")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seedFlag = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Generator seed")
		output   = flag.String("output", "", "Write generated histories to this JSON file")
		verbose  = flag.Bool("verbose", false, "Log every player")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:          strings.TrimRight(*baseURL, "/"),
		Players:          *players,
		MatchesPerPlayer: *matches,
		Queues:           splitQueues(*queues),
		PoolSize:         *pool,
		Workers:          *workers,
		BatchSize:        *batch,
		Timeout:          *timeout,
		JobTimeout:       defaultJobTimeout,
		MinGames:         *minGames,
		Seed:             *seedFlag,
		OutputFile:       *output,
		Verbose:          *verbose,
	}

	if _, err := seed.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "seed run failed", logger.Error(err))
		os.Exit(1)
	}
}

func splitQueues(s string) []string {
	var out []string
	for _, q := range strings.Split(s, ",") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
