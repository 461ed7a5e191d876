package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Champions the generator draws pools from. All are in the built-in registry.
var championNames = []string{
	"Aatrox", "Ahri", "Akali", "Alistar", "Amumu", "Annie", "Ashe", "Azir",
	"Bard", "Blitzcrank", "Caitlyn", "Camille", "Darius", "Diana", "Draven",
	"Ekko", "Ezreal", "Fiora", "Garen", "Graves", "Irelia", "Janna", "Jax",
	"Jhin", "Jinx", "Karma", "Katarina", "Leona", "Lulu", "Lux", "Malphite",
	"Morgana", "Nami", "Nautilus", "Orianna", "Pyke", "Riven", "Sett", "Shen",
	"Sylas", "Syndra", "Teemo", "Thresh", "Vayne", "Vi", "Yasuo", "Zed", "Zyra",
}

// Per-champion stat baselines are drawn from these ranges.
const (
	minKills, spanKills     = 1.0, 9.0
	minDeaths, spanDeaths   = 2.0, 5.0
	minAssists, spanAssists = 3.0, 12.0
	minCS, spanCS           = 20.0, 210.0
	minDamage, spanDamage   = 8000.0, 22000.0
	minDuration, spanDur    = 22 * 60, 18 * 60
	skillSpread             = 0.15
	noiseSpread             = 0.35
	zipfExponent            = 1.1
	baseWinChance           = 0.5
)

type archetype struct {
	kills, deaths, assists, cs, damage float64
	skill                              float64
}

// Generator produces deterministic synthetic histories.
type Generator struct {
	rng   *rand.Rand
	start time.Time
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Player generates one player's history. Champion frequency follows a Zipf
// curve over a random pool so every history has mains and one-off picks.
func (g *Generator) Player(matches, poolSize int, queues []string) History {
	pool := g.pool(poolSize)
	arch := make([]archetype, len(pool))
	for i := range pool {
		arch[i] = g.archetype()
	}
	weights := zipfWeights(len(pool))
	playerID := uuid.NewString()

	h := History{PlayerID: playerID, Matches: make([]Match, matches)}
	for i := range h.Matches {
		c := g.pick(weights)
		a := arch[c]
		h.Matches[i] = Match{
			MatchID:         fmt.Sprintf("%s-%d", playerID[:8], i),
			Queue:           queues[g.rng.IntN(len(queues))],
			Champion:        pool[c],
			Win:             g.rng.Float64() < baseWinChance+a.skill,
			Kills:           g.noisy(a.kills),
			Deaths:          g.noisy(a.deaths),
			Assists:         g.noisy(a.assists),
			CS:              g.noisy(a.cs),
			Damage:          g.noisy(a.damage),
			DurationSeconds: minDuration + g.rng.IntN(spanDur),
			PlayedAt:        g.start.Add(time.Duration(i) * 40 * time.Minute),
		}
	}
	return h
}

func (g *Generator) pool(n int) []string {
	idx := g.rng.Perm(len(championNames))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = championNames[j]
	}
	return out
}

func (g *Generator) archetype() archetype {
	return archetype{
		kills:   minKills + g.rng.Float64()*spanKills,
		deaths:  minDeaths + g.rng.Float64()*spanDeaths,
		assists: minAssists + g.rng.Float64()*spanAssists,
		cs:      minCS + g.rng.Float64()*spanCS,
		damage:  minDamage + g.rng.Float64()*spanDamage,
		skill:   (g.rng.Float64()*2 - 1) * skillSpread,
	}
}

func (g *Generator) noisy(mean float64) int {
	v := mean * (1 + (g.rng.Float64()*2-1)*noiseSpread)
	return int(math.Max(0, math.Round(v)))
}

func (g *Generator) pick(weights []float64) int {
	r := g.rng.Float64()
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

// zipfWeights returns normalized weights 1/k^s for k = 1..n.
func zipfWeights(n int) []float64 {
	w := make([]float64, n)
	var total float64
	for k := range w {
		w[k] = 1 / math.Pow(float64(k+1), zipfExponent)
		total += w[k]
	}
	for k := range w {
		w[k] /= total
	}
	return w
}
