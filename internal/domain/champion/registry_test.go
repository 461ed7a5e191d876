package champion_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/stylemap/internal/domain/champion"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given the builtin registry", t, func() {
		reg := champion.Builtin()

		Convey("Then it should contain the embedded champions", func() {
			So(reg.Len(), ShouldBeGreaterThan, 50)
		})

		Convey("When resolving a known champion", func() {
			p := champion.Resolve("Lee Sin")

			Convey("Then the stored profile is returned", func() {
				So(p.Role, ShouldEqual, champion.RoleJungle)
				So(p.Range, ShouldEqual, champion.RangeMelee)
				So(p.Resource, ShouldEqual, champion.ResourceEnergy)
				So(p.DamageType, ShouldEqual, champion.DamagePhysical)
				So(p.PlayPattern, ShouldEqual, champion.PatternDive)
			})

			Convey("And lookups ignore case and spacing", func() {
				So(champion.Resolve("leesin"), ShouldResemble, p)
				So(champion.Resolve("LEE-SIN"), ShouldResemble, p)
				So(reg.Known("lee sin"), ShouldBeTrue)
			})
		})

		Convey("When resolving an unknown champion", func() {
			p := champion.Resolve("Definitely Not A Champion")

			Convey("Then the documented default is returned", func() {
				So(p, ShouldResemble, champion.Default())
				So(p.Role, ShouldEqual, champion.RoleMid)
				So(p.Ranged(), ShouldBeTrue)
				So(p.Resource, ShouldEqual, champion.ResourceMana)
				So(p.DamageType, ShouldEqual, champion.DamageMagic)
				So(p.Complexity, ShouldEqual, 5)
				So(p.Tags, ShouldResemble, []string{"Mage"})
				So(p.PlayPattern, ShouldEqual, champion.PatternControl)
			})
		})

		Convey("When a caller mutates a resolved profile", func() {
			p := champion.Resolve("Ahri")
			p.Tags[0] = "Tank"

			Convey("Then the registry is unaffected", func() {
				So(champion.Resolve("Ahri").Tags[0], ShouldEqual, "Mage")
			})
		})

		Convey("When resolving against a nil registry", func() {
			var nilReg *champion.Registry

			Convey("Then the default is returned", func() {
				So(nilReg.Resolve("Ahri"), ShouldResemble, champion.Default())
				So(nilReg.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestLoadRegistry(t *testing.T) {
	Convey("Given a custom registry document", t, func() {
		Convey("When the document is valid", func() {
			doc := `
champions:
  Testo: {role: Support, range: Melee, resource: Rage, damage: Mixed, complexity: 9, tags: [Tank], pattern: Engage}
`
			reg, err := champion.LoadRegistry(strings.NewReader(doc))

			Convey("Then it resolves the custom entry", func() {
				So(err, ShouldBeNil)
				So(reg.Len(), ShouldEqual, 1)
				So(reg.Resolve("testo").Resource, ShouldEqual, champion.ResourceRage)
				So(reg.Resolve("Ahri"), ShouldResemble, champion.Default())
			})
		})

		Convey("When a role is unknown", func() {
			doc := `
champions:
  Testo: {role: Roamer, range: Melee, resource: Mana, damage: Magic, complexity: 3, tags: [], pattern: Engage}
`
			_, err := champion.LoadRegistry(strings.NewReader(doc))

			Convey("Then loading fails with ErrInvalidRegistry", func() {
				So(errors.Is(err, champion.ErrInvalidRegistry), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Roamer")
			})
		})

		Convey("When complexity is out of range", func() {
			doc := `
champions:
  Testo: {role: Mid, range: Ranged, resource: Mana, damage: Magic, complexity: 11, tags: [], pattern: Burst}
`
			_, err := champion.LoadRegistry(strings.NewReader(doc))

			Convey("Then loading fails", func() {
				So(errors.Is(err, champion.ErrInvalidRegistry), ShouldBeTrue)
			})
		})

		Convey("When the YAML is malformed", func() {
			_, err := champion.LoadRegistry(strings.NewReader("champions: [oops"))

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := champion.LoadRegistryFile("/non/existent/registry.yaml")

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
