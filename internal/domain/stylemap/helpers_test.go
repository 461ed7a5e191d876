package stylemap_test

import (
	"context"

	"github.com/okian/stylemap/internal/domain/stylemap"
)

func record(name string, games int, winRate float64) stylemap.Record {
	return stylemap.Record{
		Champion:   name,
		Games:      games,
		WinRate:    winRate,
		AvgKills:   6,
		AvgDeaths:  4,
		AvgAssists: 7,
		AvgCS:      180,
	}
}

func withDamage(r stylemap.Record, dmg float64) stylemap.Record {
	r.AvgDamage = &dmg
	return r
}

// samplePool is a mixed champion pool spanning every role.
func samplePool() []stylemap.Record {
	return []stylemap.Record{
		withDamage(record("Ahri", 40, 55), 21_000),
		withDamage(record("Syndra", 22, 51), 24_000),
		withDamage(record("Orianna", 15, 48), 19_000),
		withDamage(record("Lee Sin", 18, 47), 16_000),
		withDamage(record("Vi", 9, 61), 14_000),
		withDamage(record("Jinx", 12, 50), 26_000),
		withDamage(record("Caitlyn", 6, 42), 22_000),
		withDamage(record("Leona", 7, 57), 8_000),
		withDamage(record("Thresh", 5, 60), 7_000),
		withDamage(record("Garen", 4, 75), 17_000),
		withDamage(record("Teemo", 3, 33), 15_000),
		withDamage(record("Yasuo", 2, 0), 20_000),
	}
}

func nodeIDs(nodes []stylemap.Node) []string {
	ids := make([]string, len(nodes))
	for i := range nodes {
		ids[i] = nodes[i].ID
	}
	return ids
}

func ctx() context.Context { return context.Background() }
