package stylemap_test

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/okian/stylemap/internal/domain/champion"
	"github.com/okian/stylemap/internal/domain/stylemap"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild_EmptyInput(t *testing.T) {
	Convey("Given an engine with default settings", t, func() {
		engine := stylemap.NewEngine()

		Convey("When building from no records", func() {
			res, err := engine.Build(ctx(), nil)

			Convey("Then a well-defined empty result is returned", func() {
				So(err, ShouldBeNil)
				So(res, ShouldNotBeNil)
				So(res.Nodes, ShouldBeEmpty)
				So(res.Edges, ShouldBeEmpty)
				So(res.Clusters, ShouldBeEmpty)
				So(res.Outliers, ShouldBeEmpty)
				So(res.Insights.DiversityIndex, ShouldEqual, 0)
				So(res.Centroid, ShouldResemble, stylemap.Point{X: 480, Y: 280})
				So(strings.HasPrefix(res.Summary, "Need more data"), ShouldBeTrue)
			})
		})

		Convey("When every record is below the minimum games", func() {
			res, err := engine.Build(ctx(), []stylemap.Record{record("Ahri", 3, 50), record("Zed", 1, 100)})

			Convey("Then the result is empty too", func() {
				So(err, ShouldBeNil)
				So(res.Nodes, ShouldBeEmpty)
				So(res.Payload.Clusters, ShouldBeEmpty)
				So(res.Summary, ShouldContainSubstring, "at least 4 games")
			})
		})
	})
}

func TestBuild_IdenticalTriplet(t *testing.T) {
	Convey("Given three champions with identical profiles and stats", t, func() {
		records := []stylemap.Record{
			record("Unknown One", 10, 50),
			record("Unknown Two", 10, 50),
			record("Unknown Three", 10, 50),
		}

		res, err := stylemap.NewEngine().Build(ctx(), records)
		So(err, ShouldBeNil)

		Convey("Then every pair is fully similar", func() {
			So(len(res.Edges), ShouldEqual, 3)
			for _, e := range res.Edges {
				So(e.Similarity, ShouldAlmostEqual, 1.0, 1e-9)
			}
		})

		Convey("Then all three land in one cluster", func() {
			So(len(res.Clusters), ShouldEqual, 1)
			So(res.Clusters[0].Members, ShouldResemble, []string{"Unknown One", "Unknown Two", "Unknown Three"})
			So(res.Insights.DominantClusterShare, ShouldEqual, 1.0)
		})

		Convey("Then the spread is perfectly even", func() {
			So(res.Insights.DiversityIndex, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("Then nobody is off-meta", func() {
			So(res.Outliers, ShouldBeEmpty)
			So(res.Insights.OutlierCount, ShouldEqual, 0)
			So(res.Insights.ExperimentationRate, ShouldEqual, 0)
			So(res.Summary, ShouldNotContainSubstring, "off-meta")
			for _, n := range res.Nodes {
				So(n.OffMeta, ShouldBeFalse)
			}
		})
	})
}

func TestBuild_ZeroGamePool(t *testing.T) {
	Convey("Given a pool where no champion has games and no minimum applies", t, func() {
		records := samplePool()
		for i := range records {
			records[i].Games = 0
		}

		res, err := stylemap.NewEngine(stylemap.WithMinGames(0)).Build(ctx(), records)
		So(err, ShouldBeNil)

		Convey("Then clusters are ordered by their member share", func() {
			So(len(res.Clusters), ShouldBeGreaterThan, 1)
			for i := 1; i < len(res.Clusters); i++ {
				prev, cur := res.Clusters[i-1], res.Clusters[i]
				So(prev.GameShare, ShouldBeGreaterThanOrEqualTo, cur.GameShare)
				So(len(prev.Members), ShouldBeGreaterThanOrEqualTo, len(cur.Members))
				So(cur.ID, ShouldEqual, i)
			}
			So(res.Insights.DominantClusterShare, ShouldEqual, res.Clusters[0].GameShare)
		})
	})
}

func TestBuild_SingleSurvivor(t *testing.T) {
	Convey("Given one champion at the minimum and others below it", t, func() {
		records := []stylemap.Record{
			record("Ahri", 3, 50),
			record("Lux", 4, 50),
			record("Zed", 3, 50),
		}

		res, err := stylemap.NewEngine().Build(ctx(), records)
		So(err, ShouldBeNil)

		Convey("Then only the survivor is mapped", func() {
			So(nodeIDs(res.Nodes), ShouldResemble, []string{"Lux"})
			So(res.Edges, ShouldBeEmpty)
			So(len(res.Clusters), ShouldEqual, 1)
			So(res.Clusters[0].Members, ShouldResemble, []string{"Lux"})
			So(res.Clusters[0].GameShare, ShouldEqual, 1.0)
			So(res.Insights.DiversityIndex, ShouldEqual, 0)
			So(res.Outliers, ShouldBeEmpty)
			So(res.Insights.OutlierCount, ShouldEqual, 0)
			So(res.Insights.CentroidRole, ShouldEqual, champion.RoleMid)
		})
	})
}

func TestBuild_SharedTraitCap(t *testing.T) {
	Convey("Given two champions sharing every trait but two sigma apart in win rate", t, func() {
		records := []stylemap.Record{
			record("Mystery A", 10, 40),
			record("Mystery B", 10, 60),
		}

		res, err := stylemap.NewEngine().Build(ctx(), records)
		So(err, ShouldBeNil)

		Convey("Then their edge carries exactly the first three traits", func() {
			So(len(res.Edges), ShouldEqual, 1)
			So(res.Edges[0].SharedTraits, ShouldResemble, []string{"Mid lane", "Magic damage", "Mana resource"})
			So(res.Edges[0].Similarity, ShouldBeLessThan, 1.0)
		})
	})
}

func TestBuild_Properties(t *testing.T) {
	Convey("Given a mixed champion pool", t, func() {
		engine := stylemap.NewEngine()
		records := samplePool()

		res, err := engine.Build(ctx(), records)
		So(err, ShouldBeNil)

		Convey("Then champions below the minimum never appear", func() {
			for _, n := range res.Nodes {
				So(n.Metrics.Games, ShouldBeGreaterThanOrEqualTo, stylemap.DefaultMinGames)
				So(n.ID, ShouldNotBeIn, []string{"Teemo", "Yasuo"})
			}
			for _, e := range res.Edges {
				So([]string{e.Source, e.Target}, ShouldNotContain, "Teemo")
			}
			for _, c := range res.Clusters {
				So(c.Members, ShouldNotContain, "Yasuo")
			}
			So(len(res.Nodes), ShouldEqual, 10)
		})

		Convey("Then cluster memberships partition the node set", func() {
			seen := map[string]int{}
			for _, c := range res.Clusters {
				for _, m := range c.Members {
					seen[m]++
				}
			}
			So(len(seen), ShouldEqual, len(res.Nodes))
			for _, n := range res.Nodes {
				So(seen[n.ID], ShouldEqual, 1)
				So(n.Cluster, ShouldNotBeNil)
				So(res.Clusters[*n.Cluster].Members, ShouldContain, n.ID)
			}
		})

		Convey("Then cluster game shares sum to one and are sorted by games", func() {
			var sum float64
			for i, c := range res.Clusters {
				sum += c.GameShare
				So(c.ID, ShouldEqual, i)
				So(c.Color, ShouldStartWith, "#")
				if i > 0 {
					So(c.Games, ShouldBeLessThanOrEqualTo, res.Clusters[i-1].Games)
				}
			}
			So(math.Abs(sum-1.0), ShouldBeLessThan, 1e-6)
			So(len(res.Clusters), ShouldBeBetweenOrEqual, 1, 4)
		})

		Convey("Then positions stay inside the canvas margins", func() {
			for _, n := range res.Nodes {
				So(n.Position.X, ShouldBeBetweenOrEqual, 40, 920)
				So(n.Position.Y, ShouldBeBetweenOrEqual, 40, 520)
			}
		})

		Convey("Then insight statistics are bounded", func() {
			So(res.Insights.DiversityIndex, ShouldBeBetweenOrEqual, 0, 1)
			So(res.Insights.ExperimentationRate, ShouldBeBetweenOrEqual, 0, 1)
			So(res.Insights.DominantClusterShare, ShouldEqual, res.Clusters[0].GameShare)
			So(res.Insights.CentroidRole, ShouldNotBeEmpty)
		})

		Convey("Then outliers are a flagged subset of the nodes", func() {
			ids := nodeIDs(res.Nodes)
			So(res.Insights.OutlierCount, ShouldEqual, len(res.Outliers))
			for _, o := range res.Outliers {
				So(ids, ShouldContain, o.ID)
				So(o.OffMeta, ShouldBeTrue)
			}
			So(res.Payload.Outliers, ShouldResemble, nodeIDs(res.Outliers))
		})

		Convey("Then damage shares are relative to the kept pool", func() {
			var sum float64
			for _, n := range res.Nodes {
				sum += n.Metrics.DamageShare
			}
			So(sum, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("Then the payload holds at most four clusters", func() {
			So(len(res.Payload.Clusters), ShouldBeLessThanOrEqualTo, 4)
			So(res.Payload.Clusters[0].Theme, ShouldEqual, res.Clusters[0].Theme)
		})

		Convey("Then the summary names the dominant theme", func() {
			So(res.Summary, ShouldStartWith, res.Clusters[0].Theme)
			So(res.Summary, ShouldContainSubstring, "diversity")
		})
	})
}

func TestBuild_Determinism(t *testing.T) {
	Convey("Given the same ordered input twice", t, func() {
		engine := stylemap.NewEngine()

		first, err := engine.Build(ctx(), samplePool())
		So(err, ShouldBeNil)
		second, err := engine.Build(ctx(), samplePool())
		So(err, ShouldBeNil)

		Convey("Then the results are identical", func() {
			So(second, ShouldResemble, first)
		})
	})

	Convey("Given concurrent builds", t, func() {
		engine := stylemap.NewEngine()
		want, err := engine.Build(ctx(), samplePool())
		So(err, ShouldBeNil)

		results := make([]*stylemap.MapResult, 8)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = engine.Build(ctx(), samplePool())
			}(i)
		}
		wg.Wait()

		Convey("Then every build matches the sequential one", func() {
			for _, r := range results {
				So(r, ShouldResemble, want)
			}
		})
	})
}

func TestBuild_Options(t *testing.T) {
	Convey("Given custom settings", t, func() {
		engine := stylemap.NewEngine(
			stylemap.WithMinGames(10),
			stylemap.WithAverageGameMinutes(25),
			stylemap.WithCanvas(400, 300),
		)

		Convey("Then they are applied", func() {
			s := engine.Settings()
			So(s.MinGames, ShouldEqual, 10)
			So(s.AverageGameMinutes, ShouldEqual, 25)
			So(s.CanvasWidth, ShouldEqual, 400)
			So(s.CanvasHeight, ShouldEqual, 300)
		})

		Convey("When building", func() {
			res, err := engine.Build(ctx(), samplePool())

			Convey("Then the higher minimum filters more champions", func() {
				So(err, ShouldBeNil)
				So(nodeIDs(res.Nodes), ShouldResemble, []string{"Ahri", "Syndra", "Orianna", "Lee Sin", "Jinx"})
				for _, n := range res.Nodes {
					So(n.Position.X, ShouldBeBetweenOrEqual, 40, 360)
					So(n.Position.Y, ShouldBeBetweenOrEqual, 40, 260)
				}
			})

			Convey("Then CS per minute uses the configured game length", func() {
				So(res.Nodes[0].Metrics.CSPerMin, ShouldAlmostEqual, 180.0/25.0)
			})
		})

		Convey("When invalid values are given", func() {
			e := stylemap.NewEngine(stylemap.WithCanvas(50, 50), stylemap.WithAverageGameMinutes(-1), stylemap.WithMinGames(-3))

			Convey("Then defaults are kept", func() {
				So(e.Settings(), ShouldResemble, stylemap.DefaultSettings())
			})
		})
	})

	Convey("Given a custom resolver", t, func() {
		reg, err := champion.LoadRegistry(strings.NewReader(`
champions:
  Ahri: {role: Support, range: Melee, resource: Rage, damage: Physical, complexity: 1, tags: [Tank], pattern: Engage}
`))
		So(err, ShouldBeNil)
		res, err := stylemap.NewEngine(stylemap.WithResolver(reg)).Build(ctx(), []stylemap.Record{record("Ahri", 10, 50)})

		Convey("Then nodes carry the injected profile", func() {
			So(err, ShouldBeNil)
			So(res.Nodes[0].Profile.Role, ShouldEqual, champion.RoleSupport)
			So(res.Clusters[0].Theme, ShouldEqual, "Engage Tanks")
		})
	})
}

func TestBuild_DuplicateNames(t *testing.T) {
	Convey("Given the same champion twice", t, func() {
		res, err := stylemap.NewEngine().Build(ctx(), []stylemap.Record{
			record("Ahri", 10, 50),
			record("Ahri", 20, 70),
			record("Zed", 8, 45),
		})

		Convey("Then the first record wins and ids stay unique", func() {
			So(err, ShouldBeNil)
			So(nodeIDs(res.Nodes), ShouldResemble, []string{"Ahri", "Zed"})
			So(res.Nodes[0].Metrics.Games, ShouldEqual, 10)
		})
	})
}

func TestBuild_Cancellation(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		c, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then the build reports cancellation", func() {
			res, err := stylemap.NewEngine().Build(c, samplePool())
			So(err, ShouldEqual, context.Canceled)
			So(res, ShouldBeNil)
		})
	})
}

func TestDiversityIndex(t *testing.T) {
	Convey("Given game distributions", t, func() {
		So(stylemap.DiversityIndex(nil), ShouldEqual, 0)
		So(stylemap.DiversityIndex([]int{12}), ShouldEqual, 0)
		So(stylemap.DiversityIndex([]int{5, 5, 5, 5}), ShouldAlmostEqual, 1.0, 1e-9)
		So(stylemap.DiversityIndex([]int{10, 0}), ShouldEqual, 0)
		So(stylemap.DiversityIndex([]int{0, 0}), ShouldEqual, 0)

		skewed := stylemap.DiversityIndex([]int{90, 5, 5})
		So(skewed, ShouldBeGreaterThan, 0)
		So(skewed, ShouldBeLessThan, 0.55)
	})
}
