package stylemap

import (
	"math"
	"slices"

	"github.com/okian/stylemap/internal/domain/champion"
)

// Feature layout:
//   - [0-4]   role one-hot (Top, Jungle, Mid, ADC, Support)
//   - [5]     ranged flag
//   - [6-11]  resource one-hot (Mana, Energy, Rage, Fury, Health, None)
//   - [12-14] damage type one-hot (Physical, Magic, Mixed)
//   - [15]    complexity / 10
//   - [16]    aggression / 10
//   - [17]    average game length / 40, clamped to [0, 1]
//   - [18]    win-rate z-score / 3
const (
	roleOffset       = 0
	rangedOffset     = 5
	resourceOffset   = 6
	damageOffset     = 12
	complexityOffset = 15
	aggressionOffset = 16
	gameLengthOffset = 17
	winRateOffset    = 18
)

const (
	maxAggression       = 10.0
	aggressionScale     = 1.25
	gameLengthScaleMins = 40.0
	zScoreScale         = 3.0
)

// populationStats are the win-rate mean and population standard deviation
// of the filtered node set.
type populationStats struct {
	mean   float64
	stddev float64
}

func winRateStats(records []Record) populationStats {
	if len(records) == 0 {
		return populationStats{}
	}
	var sum float64
	for _, r := range records {
		sum += r.WinRate
	}
	mean := sum / float64(len(records))
	var sq float64
	for _, r := range records {
		d := r.WinRate - mean
		sq += d * d
	}
	return populationStats{mean: mean, stddev: math.Sqrt(sq / float64(len(records)))}
}

// AggressionScore rates kill participation per death on a 0-10 scale.
func AggressionScore(r Record) float64 {
	raw := (r.AvgKills*2 + r.AvgAssists) / math.Max(1, r.AvgDeaths)
	return clamp(raw*aggressionScale, 0, maxAggression)
}

// vectorize encodes a record and its profile as a feature vector.
func vectorize(r Record, p champion.Profile, stats populationStats, avgGameMinutes float64) Vector {
	v := make(Vector, FeatureDimensions)

	if i := slices.Index(champion.Roles, p.Role); i >= 0 {
		v[roleOffset+i] = 1
	}
	if p.Ranged() {
		v[rangedOffset] = 1
	}
	if i := slices.Index(champion.Resources, p.Resource); i >= 0 {
		v[resourceOffset+i] = 1
	}
	if i := slices.Index(champion.DamageTypes, p.DamageType); i >= 0 {
		v[damageOffset+i] = 1
	}

	v[complexityOffset] = float64(p.Complexity) / champion.MaxComplexity
	v[aggressionOffset] = AggressionScore(r) / maxAggression
	v[gameLengthOffset] = clamp(avgGameMinutes/gameLengthScaleMins, 0, 1)

	var z float64
	if stats.stddev > 0 {
		z = (r.WinRate - stats.mean) / stats.stddev
	}
	v[winRateOffset] = z / zScoreScale

	return v
}

// KDA returns (kills + assists) / max(1, deaths).
func KDA(r Record) float64 {
	return (r.AvgKills + r.AvgAssists) / math.Max(1, r.AvgDeaths)
}

// CSPerMinute spreads the average creep score over the average game length.
func CSPerMinute(r Record, avgGameMinutes float64) float64 {
	return r.AvgCS / math.Max(1, avgGameMinutes)
}

func magnitude(v Vector) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func euclidean(a, b Vector) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
