package stylemap

import (
	"context"

	"github.com/okian/stylemap/internal/domain/champion"
)

// Engine builds style maps. It holds only immutable configuration and is
// safe for concurrent use.
type Engine struct {
	settings Settings
	resolver champion.Resolver
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		settings: DefaultSettings(),
		resolver: champion.Builtin(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns the engine configuration.
func (e *Engine) Settings() Settings { return e.settings }

// Build runs records -> vectors -> graph -> layout -> clusters -> insights.
// It never fails on its documented input domain; the only error is the
// context's when it is cancelled mid-build.
func (e *Engine) Build(ctx context.Context, records []Record) (*MapResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := e.settings

	kept := make([]Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Games < s.MinGames {
			continue
		}
		// Node ids are champion names; the first record for a name wins.
		if _, dup := seen[r.Champion]; dup {
			continue
		}
		seen[r.Champion] = struct{}{}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return emptyResult(s), nil
	}

	nodes := e.nodes(kept)
	edges := buildEdges(nodes)
	if err := layout(ctx, nodes, edges, s); err != nil {
		return nil, err
	}
	clusters, err := extractClusters(ctx, nodes)
	if err != nil {
		return nil, err
	}

	res := &MapResult{
		Nodes:    nodes,
		Edges:    edges,
		Clusters: clusters,
	}
	aggregate(res)
	return res, nil
}

func (e *Engine) nodes(records []Record) []Node {
	stats := winRateStats(records)
	var totalDamage float64
	for _, r := range records {
		if r.AvgDamage != nil {
			totalDamage += *r.AvgDamage
		}
	}

	nodes := make([]Node, len(records))
	for i, r := range records {
		p := e.resolver.Resolve(r.Champion)
		var share float64
		if r.AvgDamage != nil && totalDamage > 0 {
			share = *r.AvgDamage / totalDamage
		}
		nodes[i] = Node{
			ID: r.Champion,
			Metrics: Metrics{
				Games:       r.Games,
				WinRate:     r.WinRate,
				KDA:         KDA(r),
				CSPerMin:    CSPerMinute(r, e.settings.AverageGameMinutes),
				DamageShare: share,
			},
			Profile:    p,
			Aggression: AggressionScore(r),
			Vector:     vectorize(r, p, stats, e.settings.AverageGameMinutes),
		}
	}
	return nodes
}
