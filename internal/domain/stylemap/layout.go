package stylemap

import (
	"context"
	"math"
)

// Force simulation constants.
const (
	layoutIterations = 220
	repulsionK       = 3600.0
	springRestLength = 120.0
	springK          = 0.05
	velocityDamping  = 0.9
	layoutMargin     = 40.0
	minDistance      = 0.001
)

type velocity struct{ x, y float64 }

// layout positions nodes in place with a fixed-iteration force simulation.
// Forces accumulate in pair order, so coordinates are reproducible for a
// given input order but not invariant under reordering.
func layout(ctx context.Context, nodes []Node, edges []Edge, s Settings) error {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	cx, cy := s.CanvasWidth/2, s.CanvasHeight/2
	radius := s.CanvasWidth / 4
	for i := range nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		nodes[i].Position = Point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		}
	}

	index := make(map[string]int, n)
	for i := range nodes {
		index[nodes[i].ID] = i
	}
	weights := make([]float64, n)
	for i := range nodes {
		weights[i] = math.Max(1, float64(nodes[i].Metrics.Games))
	}
	vel := make([]velocity, n)

	for iter := 0; iter < layoutIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx, dy, dist := separation(nodes[i].Position, nodes[j].Position)
				force := repulsionK * (weights[i] + weights[j]) / (dist * dist)
				fx, fy := dx/dist*force, dy/dist*force
				vel[i].x -= fx / weights[i]
				vel[i].y -= fy / weights[i]
				vel[j].x += fx / weights[j]
				vel[j].y += fy / weights[j]
			}
		}

		for _, e := range edges {
			a, b := index[e.Source], index[e.Target]
			dx, dy, dist := separation(nodes[a].Position, nodes[b].Position)
			force := (dist - springRestLength) * springK * e.Similarity
			fx, fy := dx/dist*force, dy/dist*force
			vel[a].x += fx / weights[a]
			vel[a].y += fy / weights[a]
			vel[b].x -= fx / weights[b]
			vel[b].y -= fy / weights[b]
		}

		for i := range nodes {
			p := &nodes[i].Position
			p.X = clamp(p.X+vel[i].x, layoutMargin, s.CanvasWidth-layoutMargin)
			p.Y = clamp(p.Y+vel[i].y, layoutMargin, s.CanvasHeight-layoutMargin)
			vel[i].x *= velocityDamping
			vel[i].y *= velocityDamping
		}
	}
	return nil
}

// separation returns the vector from a to b and its length floored at minDistance.
func separation(a, b Point) (dx, dy, dist float64) {
	dx, dy = b.X-a.X, b.Y-a.Y
	dist = math.Max(math.Sqrt(dx*dx+dy*dy), minDistance)
	return dx, dy, dist
}
