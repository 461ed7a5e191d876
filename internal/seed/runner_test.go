package seed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/stylemap/internal/adapters/http/api"
	service "github.com/okian/stylemap/internal/app"
	"github.com/okian/stylemap/internal/domain/stylemap"
	"github.com/okian/stylemap/internal/seed"
	"github.com/okian/stylemap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running style map service", t, func() {
		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(64))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := &seed.Config{
			BaseURL:          srv.URL,
			Players:          4,
			MatchesPerPlayer: 40,
			Queues:           []string{"ranked", "aram"},
			PoolSize:         6,
			Workers:          2,
			BatchSize:        15,
			Timeout:          5 * time.Second,
			JobTimeout:       5 * time.Second,
			MinGames:         stylemap.DefaultMinGames,
			Seed:             7,
			OutputFile:       filepath.Join(t.TempDir(), "out", "histories.json"),
		}

		Convey("When seeding", func() {
			stats, err := seed.Run(context.Background(), cfg)

			Convey("Then every player is stored, mapped and verified", func() {
				So(err, ShouldBeNil)
				So(stats.Players, ShouldEqual, 4)
				So(stats.MatchesSent, ShouldEqual, 160)
				So(stats.MatchesInserted, ShouldEqual, 160)
				So(stats.JobsDone, ShouldEqual, 4)
				So(stats.Failures, ShouldEqual, 0)
				_, statErr := os.Stat(cfg.OutputFile)
				So(statErr, ShouldBeNil)
			})
		})
	})

	Convey("Given no service", t, func() {
		cfg := &seed.Config{
			BaseURL: "http://127.0.0.1:1", Players: 1, MatchesPerPlayer: 1,
			Queues: []string{"ranked"}, PoolSize: 1, Workers: 1, BatchSize: 1,
			Timeout: time.Second,
		}

		Convey("Then the health check fails", func() {
			_, err := seed.Run(context.Background(), cfg)
			So(errors.Is(err, seed.ErrUnhealthy), ShouldBeTrue)
		})
	})
}
