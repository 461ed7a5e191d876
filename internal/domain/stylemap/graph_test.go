package stylemap_test

import (
	"math"
	"testing"

	"github.com/okian/stylemap/internal/domain/champion"
	"github.com/okian/stylemap/internal/domain/stylemap"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCosineSimilarity(t *testing.T) {
	Convey("Given feature vectors", t, func() {
		a := stylemap.Vector{1, 0, 1, 0.5}
		b := stylemap.Vector{0.5, 1, 0, 0.25}

		Convey("Then similarity is symmetric", func() {
			So(stylemap.CosineSimilarity(a, b), ShouldEqual, stylemap.CosineSimilarity(b, a))
		})

		Convey("Then identical vectors are fully similar", func() {
			So(stylemap.CosineSimilarity(a, a), ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("Then opposite vectors are fully dissimilar", func() {
			neg := stylemap.Vector{-1, 0, -1, -0.5}
			So(stylemap.CosineSimilarity(a, neg), ShouldAlmostEqual, -1.0, 1e-12)
		})

		Convey("When either vector has zero magnitude", func() {
			zero := stylemap.Vector{0, 0, 0, 0}

			Convey("Then similarity is exactly zero", func() {
				So(stylemap.CosineSimilarity(a, zero), ShouldEqual, 0)
				So(stylemap.CosineSimilarity(zero, zero), ShouldEqual, 0)
			})
		})

		Convey("When vector lengths differ", func() {
			So(stylemap.CosineSimilarity(a, stylemap.Vector{1}), ShouldEqual, 0)
		})
	})
}

func TestSharedTraits(t *testing.T) {
	Convey("Given two profiles", t, func() {
		Convey("When they share everything", func() {
			p := champion.Default()
			p.Tags = []string{"Mage", "Support"}
			traits := stylemap.SharedTraits(p, p)

			Convey("Then only the first three labels by priority are kept", func() {
				So(traits, ShouldResemble, []string{"Mid lane", "Magic damage", "Mana resource"})
			})
		})

		Convey("When they share only range and tags", func() {
			a := champion.Resolve("Caitlyn")
			b := champion.Resolve("Teemo")
			traits := stylemap.SharedTraits(a, b)

			Convey("Then range is labeled artillery and the pattern fills the last slot", func() {
				So(traits, ShouldResemble, []string{"Mana resource", "Artillery", "Poke"})
			})
		})

		Convey("When two melee champions differ in resource", func() {
			a := champion.Resolve("Fiora")
			b := champion.Resolve("Shen")
			traits := stylemap.SharedTraits(a, b)

			Convey("Then melee core takes the resource slot", func() {
				So(traits, ShouldResemble, []string{"Top lane", "Physical damage", "Melee core"})
			})
		})

		Convey("When nothing is shared", func() {
			a := champion.Resolve("Garen")
			b := champion.Resolve("Janna")

			Convey("Then the label list is empty", func() {
				So(stylemap.SharedTraits(a, b), ShouldBeEmpty)
			})
		})
	})
}

func TestEdgeThreshold(t *testing.T) {
	Convey("Given a built map", t, func() {
		res, err := stylemap.NewEngine().Build(ctx(), samplePool())
		So(err, ShouldBeNil)

		Convey("Then every edge exceeds the threshold and stays within [-1, 1]", func() {
			So(len(res.Edges), ShouldBeGreaterThan, 0)
			for _, e := range res.Edges {
				So(e.Similarity, ShouldBeGreaterThan, stylemap.EdgeThreshold)
				So(e.Similarity, ShouldBeLessThanOrEqualTo, 1)
				So(math.IsNaN(e.Similarity), ShouldBeFalse)
				So(len(e.SharedTraits), ShouldBeLessThanOrEqualTo, 3)
			}
		})

		Convey("Then edges only reference kept nodes and never self-loop", func() {
			ids := map[string]bool{}
			for _, n := range res.Nodes {
				ids[n.ID] = true
			}
			for _, e := range res.Edges {
				So(ids[e.Source], ShouldBeTrue)
				So(ids[e.Target], ShouldBeTrue)
				So(e.Source, ShouldNotEqual, e.Target)
			}
		})
	})
}
