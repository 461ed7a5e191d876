package stylemap

import (
	"fmt"
	"math"
	"strings"
)

const (
	outlierSigma        = 0.9
	outlierEpsilon      = 1e-9
	broadDiversity      = 0.55
	maxPayloadClusters  = 4
	maxSummaryOutliers  = 3
	percent             = 100
	needMoreDataSummary = "Need more data: play at least %d games on a champion to unlock your style map."
)

// weightedCentroid returns the games-weighted mean position. Unplayed sets
// fall back to the plain mean.
func weightedCentroid(nodes []Node) Point {
	var sx, sy, total float64
	for i := range nodes {
		w := float64(nodes[i].Metrics.Games)
		sx += nodes[i].Position.X * w
		sy += nodes[i].Position.Y * w
		total += w
	}
	if total == 0 {
		for i := range nodes {
			sx += nodes[i].Position.X
			sy += nodes[i].Position.Y
		}
		total = float64(len(nodes))
	}
	return Point{X: sx / total, Y: sy / total}
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// markOutliers flags nodes farther from the centroid than mean + 0.9 sigma
// of all centroid distances and returns their indexes in node order.
// Spreads within floating-point noise of the mean distance flag nothing.
func markOutliers(nodes []Node, centroid Point) []int {
	if len(nodes) == 0 {
		return nil
	}
	dists := make([]float64, len(nodes))
	var sum float64
	for i := range nodes {
		dists[i] = distance(nodes[i].Position, centroid)
		sum += dists[i]
	}
	mean := sum / float64(len(nodes))
	var sq float64
	for _, d := range dists {
		sq += (d - mean) * (d - mean)
	}
	sigma := math.Sqrt(sq / float64(len(nodes)))
	if sigma <= outlierEpsilon*math.Max(1, mean) {
		return nil
	}
	threshold := mean + outlierSigma*sigma

	var out []int
	for i, d := range dists {
		if d > threshold {
			nodes[i].OffMeta = true
			out = append(out, i)
		}
	}
	return out
}

// DiversityIndex is the Shannon entropy of the per-champion game shares
// normalised by log2(n): 1 is a perfectly even spread, 0 a one-trick.
func DiversityIndex(games []int) float64 {
	if len(games) < 2 {
		return 0
	}
	var total float64
	for _, g := range games {
		total += float64(g)
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, g := range games {
		if g <= 0 {
			continue
		}
		p := float64(g) / total
		h -= p * math.Log2(p)
	}
	return clamp(h/math.Log2(float64(len(games))), 0, 1)
}

func nearestNode(nodes []Node, centroid Point) Node {
	best, bestDist := 0, math.Inf(1)
	for i := range nodes {
		if d := distance(nodes[i].Position, centroid); d < bestDist {
			best, bestDist = i, d
		}
	}
	return nodes[best]
}

// aggregate fills in the centroid, outliers, insights, payload and summary.
func aggregate(res *MapResult) {
	nodes := res.Nodes
	res.Centroid = weightedCentroid(nodes)
	outlierIdx := markOutliers(nodes, res.Centroid)

	games := make([]int, len(nodes))
	var total, outlierGames int
	for i := range nodes {
		games[i] = nodes[i].Metrics.Games
		total += games[i]
	}
	res.Outliers = make([]Node, 0, len(outlierIdx))
	for _, i := range outlierIdx {
		res.Outliers = append(res.Outliers, nodes[i])
		outlierGames += games[i]
	}

	in := Insights{
		DiversityIndex: DiversityIndex(games),
		OutlierCount:   len(res.Outliers),
		CentroidRole:   nearestNode(nodes, res.Centroid).Profile.Role,
	}
	if total > 0 {
		in.ExperimentationRate = float64(outlierGames) / float64(total)
	}
	if len(res.Clusters) > 0 {
		in.DominantClusterShare = res.Clusters[0].GameShare
	}
	res.Insights = in
	res.Payload = buildPayload(res.Clusters, res.Outliers)
	res.Summary = coachSummary(res.Clusters, in, res.Outliers)
}

func buildPayload(clusters []Cluster, outliers []Node) ClusterPayload {
	p := ClusterPayload{
		Clusters: make([]PayloadCluster, 0, min(len(clusters), maxPayloadClusters)),
		Outliers: make([]string, 0, len(outliers)),
	}
	for i, c := range clusters {
		if i == maxPayloadClusters {
			break
		}
		p.Clusters = append(p.Clusters, PayloadCluster{Theme: c.Theme, Members: c.Members, WinRate: c.WinRate})
	}
	for i := range outliers {
		p.Outliers = append(p.Outliers, outliers[i].ID)
	}
	return p
}

func pct(v float64) int { return int(math.Round(v * percent)) }

func coachSummary(clusters []Cluster, in Insights, outliers []Node) string {
	if len(clusters) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s defined %d%% of your games", clusters[0].Theme, pct(clusters[0].GameShare))
	if len(clusters) > 1 {
		fmt.Fprintf(&b, ", with %s close behind at %d%%", clusters[1].Theme, pct(clusters[1].GameShare))
	}
	b.WriteString(". ")

	label := "honed comfort zone"
	if in.DiversityIndex > broadDiversity {
		label = "broad curiosity"
	}
	fmt.Fprintf(&b, "Your pool shows %s (%d%% diversity)", label, pct(in.DiversityIndex))

	if in.ExperimentationRate > 0 {
		fmt.Fprintf(&b, ", and %d%% of your games went to off-meta experiments", pct(in.ExperimentationRate))
		if len(outliers) > 0 {
			names := make([]string, 0, maxSummaryOutliers)
			for i := range outliers {
				if i == maxSummaryOutliers {
					break
				}
				names = append(names, outliers[i].ID)
			}
			fmt.Fprintf(&b, " like %s", joinNames(names))
		}
	}
	b.WriteString(".")
	return b.String()
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

// emptyResult is the well-defined result for a build with no qualifying champions.
func emptyResult(s Settings) *MapResult {
	return &MapResult{
		Nodes:    []Node{},
		Edges:    []Edge{},
		Centroid: Point{X: s.CanvasWidth / 2, Y: s.CanvasHeight / 2},
		Outliers: []Node{},
		Clusters: []Cluster{},
		Payload:  ClusterPayload{Clusters: []PayloadCluster{}, Outliers: []string{}},
		Summary:  fmt.Sprintf(needMoreDataSummary, s.MinGames),
	}
}
