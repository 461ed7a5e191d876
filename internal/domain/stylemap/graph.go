package stylemap

import (
	"github.com/okian/stylemap/internal/domain/champion"
)

const (
	// EdgeThreshold is the similarity an edge must exceed. It is independent
	// of any display-side filtering.
	EdgeThreshold = 0.4

	maxSharedTraits = 3
	maxSharedTags   = 2
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Zero-magnitude or mismatched vectors have similarity 0.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) {
		return 0
	}
	ma, mb := magnitude(a), magnitude(b)
	if ma == 0 || mb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return clamp(dot/(ma*mb), -1, 1)
}

// buildEdges connects every unordered pair whose similarity exceeds EdgeThreshold.
// Pairs are visited in input order (i < j).
func buildEdges(nodes []Node) []Edge {
	edges := make([]Edge, 0)
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			sim := CosineSimilarity(nodes[i].Vector, nodes[j].Vector)
			if sim <= EdgeThreshold {
				continue
			}
			edges = append(edges, Edge{
				Source:       nodes[i].ID,
				Target:       nodes[j].ID,
				Similarity:   sim,
				SharedTraits: SharedTraits(nodes[i].Profile, nodes[j].Profile),
			})
		}
	}
	return edges
}

// SharedTraits lists up to three labels describing what a and b have in
// common, in priority order: role, damage type, resource, range, play
// pattern, then up to two shared tags.
func SharedTraits(a, b champion.Profile) []string {
	traits := make([]string, 0, maxSharedTraits)
	add := func(label string) {
		if len(traits) < maxSharedTraits {
			traits = append(traits, label)
		}
	}

	if a.Role == b.Role {
		add(string(a.Role) + " lane")
	}
	if a.DamageType == b.DamageType {
		add(string(a.DamageType) + " damage")
	}
	if a.Resource == b.Resource {
		add(string(a.Resource) + " resource")
	}
	if a.Range == b.Range {
		if a.Ranged() {
			add("Artillery")
		} else {
			add("Melee core")
		}
	}
	if a.PlayPattern == b.PlayPattern {
		add(string(a.PlayPattern))
	}
	tags := 0
	for _, t := range a.Tags {
		if tags == maxSharedTags {
			break
		}
		if b.HasTag(t) {
			add(t)
			tags++
		}
	}
	return traits
}
