package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/stylemap/internal/app"
	"github.com/okian/stylemap/internal/domain/model"
	"github.com/okian/stylemap/internal/domain/stylemap"
	"github.com/okian/stylemap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func rec(name string, games int, wr float64) model.PerformanceRecord {
	return model.PerformanceRecord{
		Champion: name, Games: games, WinRate: wr,
		AvgKills: 6, AvgDeaths: 4, AvgAssists: 7, AvgCS: 180,
	}
}

func pool() []model.PerformanceRecord {
	return []model.PerformanceRecord{
		rec("Ahri", 20, 58), rec("Syndra", 12, 52), rec("Lee Sin", 9, 47),
		rec("Jinx", 8, 55), rec("Leona", 6, 60), rec("Teemo", 2, 40),
	}
}

func startService(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(10),
			service.WithCacheSize(8),
			service.WithEngineSettings(stylemap.Settings{AverageGameMinutes: 25, MinGames: 2, CanvasWidth: 800, CanvasHeight: 600}),
		)

		Convey("Then it reports its configuration before start", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["workerCount"], ShouldEqual, 2)
			So(svc.Settings().MinGames, ShouldEqual, 2)
		})

		Convey("Then operations fail until started", func() {
			_, err := svc.BuildMap(context.Background(), pool())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService()

		Convey("Then it is marked as started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["storedMatches"], ShouldEqual, 0)
			svc.Stop()
		})

		Convey("When stopping the service twice", func() {
			svc.Stop()
			svc.Stop()

			Convey("Then it is marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_BuildMap(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(service.WithCacheSize(4))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When building the same records twice", func() {
			first, err := svc.BuildMap(ctx, pool())
			So(err, ShouldBeNil)
			second, err := svc.BuildMap(ctx, pool())
			So(err, ShouldBeNil)

			Convey("Then the cached result is returned", func() {
				So(second, ShouldEqual, first)
				So(len(first.Nodes), ShouldEqual, 5)
				So(svc.GetStats()["cacheEntries"], ShouldEqual, 1)
			})
		})

		Convey("When overriding the minimum games", func() {
			res, err := svc.BuildMap(ctx, pool(), stylemap.WithMinGames(10))
			So(err, ShouldBeNil)

			Convey("Then only the override applies to that build", func() {
				So(len(res.Nodes), ShouldEqual, 2)
				def, err := svc.BuildMap(ctx, pool())
				So(err, ShouldBeNil)
				So(len(def.Nodes), ShouldEqual, 5)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.BuildMap(cctx, pool())

			Convey("Then the build error wraps the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When building from empty input", func() {
			res, err := svc.BuildMap(ctx, nil)

			Convey("Then the placeholder result is returned", func() {
				So(err, ShouldBeNil)
				So(res.Nodes, ShouldBeEmpty)
				So(res.Summary, ShouldNotBeEmpty)
			})
		})
	})
}
