package stylemap

import (
	"context"
	"math"
	"slices"
	"sort"

	"github.com/okian/stylemap/internal/domain/champion"
)

const (
	kmeansIterations = 30
	minClusters      = 2
	maxClusters      = 4
	nodesPerCluster  = 3
)

// clusterPalette colours clusters by their position after sorting.
var clusterPalette = [maxClusters]string{"#f4c95d", "#5dade2", "#e8747c", "#7bd389"} //nolint:gochecknoglobals // fixed palette

// clusterCount returns clamp(round(n/3), 2, 4), never more than n.
func clusterCount(n int) int {
	k := int(math.Round(float64(n) / nodesPerCluster))
	k = max(minClusters, min(maxClusters, k))
	return min(k, n)
}

// kmeans assigns each vector to one of k clusters. Seeds are the first k
// vectors; the loop always runs kmeansIterations rounds. An empty cluster
// keeps its previous centroid.
func kmeans(ctx context.Context, vectors []Vector, k int) ([]int, error) {
	if len(vectors) == 0 || k <= 0 {
		return nil, nil
	}
	centroids := make([]Vector, k)
	for c := range centroids {
		centroids[c] = slices.Clone(vectors[c])
	}
	assign := make([]int, len(vectors))
	dims := len(vectors[0])

	for iter := 0; iter < kmeansIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i, v := range vectors {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := euclidean(v, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			assign[i] = best
		}

		sums := make([]Vector, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make(Vector, dims)
		}
		for i, v := range vectors {
			c := assign[i]
			counts[c]++
			for d := range v {
				sums[c][d] += v[d]
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for d := range sums[c] {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}
	return assign, nil
}

// extractClusters groups nodes by k-means, writes each node's cluster id and
// returns the clusters sorted by total games, heaviest first.
func extractClusters(ctx context.Context, nodes []Node) ([]Cluster, error) {
	if len(nodes) == 0 {
		return []Cluster{}, nil
	}
	vectors := make([]Vector, len(nodes))
	for i := range nodes {
		vectors[i] = nodes[i].Vector
	}
	k := clusterCount(len(nodes))
	assign, err := kmeans(ctx, vectors, k)
	if err != nil {
		return nil, err
	}

	groups := make([][]int, k)
	for i, c := range assign {
		groups[c] = append(groups[c], i)
	}

	var grandTotal int
	for i := range nodes {
		grandTotal += nodes[i].Metrics.Games
	}

	type group struct {
		cluster Cluster
		members []int
	}
	built := make([]group, 0, k)
	for _, members := range groups {
		if len(members) == 0 {
			continue
		}
		built = append(built, group{cluster: describeCluster(nodes, members, grandTotal, len(nodes)), members: members})
	}

	sort.SliceStable(built, func(a, b int) bool {
		ca, cb := built[a].cluster, built[b].cluster
		if ca.GameShare != cb.GameShare {
			return ca.GameShare > cb.GameShare
		}
		return len(ca.Members) > len(cb.Members)
	})

	clusters := make([]Cluster, len(built))
	for id, g := range built {
		c := g.cluster
		c.ID = id
		c.Color = clusterPalette[id%len(clusterPalette)]
		for _, m := range g.members {
			cid := id
			nodes[m].Cluster = &cid
		}
		clusters[id] = c
	}
	return clusters, nil
}

func describeCluster(nodes []Node, members []int, grandTotal, nodeCount int) Cluster {
	patterns := newTally[champion.PlayPattern]()
	tags := newTally[string]()
	roles := newTally[champion.Role]()

	var games int
	var winSum float64
	ids := make([]string, 0, len(members))
	for _, m := range members {
		n := &nodes[m]
		g := float64(n.Metrics.Games)
		ids = append(ids, n.ID)
		games += n.Metrics.Games
		winSum += n.Metrics.WinRate * g
		patterns.add(n.Profile.PlayPattern, g)
		roles.add(n.Profile.Role, g)
		for _, t := range n.Profile.Tags {
			tags.add(t, g)
		}
	}

	var winRate float64
	if games > 0 {
		winRate = winSum / float64(games)
	} else {
		for _, m := range members {
			winRate += nodes[m].Metrics.WinRate
		}
		winRate /= float64(len(members))
	}

	// Fall back to member share when no node carries any games.
	share := float64(len(members)) / float64(nodeCount)
	if grandTotal > 0 {
		share = float64(games) / float64(grandTotal)
	}

	role, _ := roles.top()
	return Cluster{
		Theme:     clusterTheme(patterns, tags, role),
		Members:   ids,
		Role:      role,
		WinRate:   winRate,
		GameShare: share,
		Games:     games,
	}
}

func clusterTheme(patterns *tally[champion.PlayPattern], tags *tally[string], role champion.Role) string {
	pattern, hasPattern := patterns.top()
	tag, hasTag := tags.top()
	switch {
	case hasPattern && hasTag:
		return string(pattern) + " " + tag + "s"
	case hasTag:
		return tag + " Specialists"
	default:
		return string(role) + " Cohort"
	}
}

// tally accumulates weights per key and remembers first-seen order so that
// ties resolve deterministically.
type tally[K comparable] struct {
	order   []K
	weights map[K]float64
}

func newTally[K comparable]() *tally[K] {
	return &tally[K]{weights: make(map[K]float64)}
}

func (t *tally[K]) add(k K, w float64) {
	if _, ok := t.weights[k]; !ok {
		t.order = append(t.order, k)
	}
	t.weights[k] += w
}

func (t *tally[K]) top() (K, bool) {
	var best K
	if len(t.order) == 0 {
		return best, false
	}
	best = t.order[0]
	for _, k := range t.order[1:] {
		if t.weights[k] > t.weights[best] {
			best = k
		}
	}
	return best, true
}
