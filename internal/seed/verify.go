package seed

import (
	"fmt"

	"github.com/okian/stylemap/internal/domain/stylemap"
)

// gamesByQueue counts games per champion per queue.
func gamesByQueue(h History) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, m := range h.Matches {
		if out[m.Queue] == nil {
			out[m.Queue] = make(map[string]int)
		}
		out[m.Queue][m.Champion]++
	}
	return out
}

// VerifyMaps checks maps built by the service against the history they were
// built from. Exactly the champions with at least minGames games in a queue
// must appear on that queue's map.
func VerifyMaps(h History, maps map[string]StyleMap, minGames int) error {
	played := gamesByQueue(h)
	if len(maps) != len(played) {
		return fmt.Errorf("%w: %d maps for %d queues", ErrVerify, len(maps), len(played))
	}
	for queue, m := range maps {
		games, ok := played[queue]
		if !ok {
			return fmt.Errorf("%w: map for unplayed queue %q", ErrVerify, queue)
		}
		if err := verifyMap(m, games, minGames); err != nil {
			return fmt.Errorf("queue %s: %w", queue, err)
		}
	}
	return nil
}

func verifyMap(m StyleMap, games map[string]int, minGames int) error {
	if m.Summary == "" {
		return fmt.Errorf("%w: empty summary", ErrVerify)
	}
	nodes := make(map[string]bool, len(m.Nodes))
	for _, n := range m.Nodes {
		want, ok := games[n.ID]
		if !ok {
			return fmt.Errorf("%w: node %s was never played", ErrVerify, n.ID)
		}
		if n.Metrics.Games != want {
			return fmt.Errorf("%w: node %s has %d games, history has %d", ErrVerify, n.ID, n.Metrics.Games, want)
		}
		if want < minGames {
			return fmt.Errorf("%w: node %s has %d games, below the minimum %d", ErrVerify, n.ID, want, minGames)
		}
		nodes[n.ID] = true
	}
	for champ, n := range games {
		if n >= minGames && !nodes[champ] {
			return fmt.Errorf("%w: %s has %d games but is missing from the map", ErrVerify, champ, n)
		}
	}
	for _, e := range m.Edges {
		if !nodes[e.Source] || !nodes[e.Target] {
			return fmt.Errorf("%w: edge %s-%s leaves the map", ErrVerify, e.Source, e.Target)
		}
		if e.Similarity <= stylemap.EdgeThreshold || e.Similarity > 1 {
			return fmt.Errorf("%w: edge %s-%s similarity %.3f", ErrVerify, e.Source, e.Target, e.Similarity)
		}
	}
	seen := make(map[string]bool, len(nodes))
	for _, c := range m.Clusters {
		for _, member := range c.Members {
			if !nodes[member] || seen[member] {
				return fmt.Errorf("%w: bad cluster member %s", ErrVerify, member)
			}
			seen[member] = true
		}
	}
	return nil
}
