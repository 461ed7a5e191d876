// Package champion resolves champion names to their static gameplay profile.
//
// The registry is immutable after construction and is safe to share across
// goroutines. Unknown names never fail; they resolve to Default().
package champion

import "slices"

// Role is the lane a champion is usually played in.
type Role string

// Roles in one-hot encoding order.
const (
	RoleTop     Role = "Top"
	RoleJungle  Role = "Jungle"
	RoleMid     Role = "Mid"
	RoleADC     Role = "ADC"
	RoleSupport Role = "Support"
)

// Range is the attack range class.
type Range string

const (
	RangeMelee  Range = "Melee"
	RangeRanged Range = "Ranged"
)

// Resource is the ability resource bar.
type Resource string

// Resources in one-hot encoding order.
const (
	ResourceMana   Resource = "Mana"
	ResourceEnergy Resource = "Energy"
	ResourceRage   Resource = "Rage"
	ResourceFury   Resource = "Fury"
	ResourceHealth Resource = "Health"
	ResourceNone   Resource = "None"
)

// DamageType is the primary damage profile.
type DamageType string

// Damage types in one-hot encoding order.
const (
	DamagePhysical DamageType = "Physical"
	DamageMagic    DamageType = "Magic"
	DamageMixed    DamageType = "Mixed"
)

// PlayPattern describes how a champion wins fights.
type PlayPattern string

const (
	PatternControl   PlayPattern = "Control"
	PatternBurst     PlayPattern = "Burst"
	PatternDive      PlayPattern = "Dive"
	PatternPoke      PlayPattern = "Poke"
	PatternSustain   PlayPattern = "Sustain"
	PatternEngage    PlayPattern = "Engage"
	PatternSplit     PlayPattern = "Split"
	PatternEnchanter PlayPattern = "Enchanter"
)

// Enumerations in encoding order. Callers must not modify them.
var (
	Roles        = []Role{RoleTop, RoleJungle, RoleMid, RoleADC, RoleSupport}
	Resources    = []Resource{ResourceMana, ResourceEnergy, ResourceRage, ResourceFury, ResourceHealth, ResourceNone}
	DamageTypes  = []DamageType{DamagePhysical, DamageMagic, DamageMixed}
	PlayPatterns = []PlayPattern{PatternControl, PatternBurst, PatternDive, PatternPoke, PatternSustain, PatternEngage, PatternSplit, PatternEnchanter}
)

// Complexity bounds.
const (
	MinComplexity = 1
	MaxComplexity = 10
)

// Profile is the static descriptive profile of a champion.
type Profile struct {
	Role        Role        `json:"role"`
	Range       Range       `json:"range"`
	Resource    Resource    `json:"resource"`
	DamageType  DamageType  `json:"damageType"`
	Complexity  int         `json:"complexity"`
	Tags        []string    `json:"tags"`
	PlayPattern PlayPattern `json:"playPattern"`
}

// Ranged reports whether the profile attacks at range.
func (p Profile) Ranged() bool { return p.Range == RangeRanged }

// HasTag reports whether tag is one of the profile's tags.
func (p Profile) HasTag(tag string) bool { return slices.Contains(p.Tags, tag) }

func (p Profile) clone() Profile {
	p.Tags = slices.Clone(p.Tags)
	return p
}

// Default returns the profile used for unknown champions: a mid lane
// ranged mana mage of average complexity.
func Default() Profile {
	return Profile{
		Role:        RoleMid,
		Range:       RangeRanged,
		Resource:    ResourceMana,
		DamageType:  DamageMagic,
		Complexity:  5,
		Tags:        []string{"Mage"},
		PlayPattern: PatternControl,
	}
}
