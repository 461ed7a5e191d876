package model_test

import (
	"testing"
	"time"

	"github.com/okian/stylemap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPerformanceRecord(t *testing.T) {
	Convey("Given a performance record", t, func() {
		dmg := 18_500.0
		rec := model.PerformanceRecord{
			Champion:   "Ahri",
			Games:      12,
			WinRate:    58.3,
			AvgKills:   7.1,
			AvgDeaths:  4.2,
			AvgAssists: 8.0,
			AvgCS:      198,
			AvgDamage:  &dmg,
		}

		Convey("Then records are plain values", func() {
			cp := rec
			cp.Games = 1
			So(rec.Games, ShouldEqual, 12)
			So(*cp.AvgDamage, ShouldEqual, dmg)
		})

		Convey("When damage is absent", func() {
			rec.AvgDamage = nil

			Convey("Then the pointer is nil", func() {
				So(rec.AvgDamage, ShouldBeNil)
			})
		})
	})
}

func TestMatch(t *testing.T) {
	Convey("Given a match", t, func() {
		m := model.Match{
			MatchID:  "EUW1_1",
			PlayerID: "p1",
			Queue:    "ranked_solo",
			Champion: "Jinx",
			Win:      true,
			Kills:    10,
			Deaths:   2,
			Assists:  6,
			CS:       240,
			Damage:   30_000,
			Duration: 31 * time.Minute,
			PlayedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}

		Convey("Then the duration is preserved", func() {
			So(m.Duration.Minutes(), ShouldEqual, 31)
			So(m.Win, ShouldBeTrue)
		})
	})
}
