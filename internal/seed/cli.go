package seed

import (
	"os"
)

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Style Map Seed Tool
===================

Generates synthetic match histories, loads them into a running style map
service and verifies the maps it builds.

Usage:
  go run ./cmd/seed [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of synthetic players (default 50)
  -matches int
        Matches generated per player (default 120)
  -queues string
        Comma-separated queues (default "ranked,normal,aram")
  -pool int
        Distinct champions per player (default 14)
  -workers int
        Concurrent players in flight (default CPU cores * 2)
  -batch int
        Matches per ingest request (default 50)
  -min-games int
        Minimum games the service requires per champion (default 4)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed uint
        Generator seed (default current time)
  -output string
        Write generated histories to this JSON file
  -verbose
        Log every player
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run ./cmd/seed

  # Reproducible run against another address
  go run ./cmd/seed -seed 42 -players 200 -url http://localhost:8080
`)
}
