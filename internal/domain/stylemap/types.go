// Package stylemap builds a player's champion style map: a similarity graph
// over per-champion feature vectors, laid out in 2D by a force simulation,
// partitioned into thematic clusters and summarised into insights.
//
// A build is a pure in-memory computation. Independent builds may run
// concurrently; nothing is cached or shared between them except the
// read-only champion registry.
package stylemap

import (
	"github.com/okian/stylemap/internal/domain/champion"
	"github.com/okian/stylemap/internal/domain/model"
)

// FeatureDimensions is the length of every feature vector.
const FeatureDimensions = 19

// Vector is a champion feature vector of FeatureDimensions components.
type Vector []float64

// Point is a 2D canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metrics are the display metrics of a node.
type Metrics struct {
	Games       int     `json:"games"`
	WinRate     float64 `json:"winRate"`
	KDA         float64 `json:"kda"`
	CSPerMin    float64 `json:"csPerMin"`
	DamageShare float64 `json:"damageShare"`
}

// Node is one champion on the map. Position and Cluster are the only fields
// written after construction.
type Node struct {
	ID         string           `json:"id"`
	Metrics    Metrics          `json:"metrics"`
	Profile    champion.Profile `json:"profile"`
	Aggression float64          `json:"aggression"`
	Vector     Vector           `json:"-"`
	Position   Point            `json:"position"`
	Cluster    *int             `json:"cluster,omitempty"`
	OffMeta    bool             `json:"offMeta"`
}

// Edge connects two similar nodes by id.
type Edge struct {
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	Similarity   float64  `json:"similarity"`
	SharedTraits []string `json:"sharedTraits"`
}

// Cluster is a thematic group of nodes.
type Cluster struct {
	ID        int           `json:"id"`
	Theme     string        `json:"theme"`
	Members   []string      `json:"members"`
	Role      champion.Role `json:"role"`
	WinRate   float64       `json:"winRate"`
	GameShare float64       `json:"gameShare"`
	Color     string        `json:"color"`
	Games     int           `json:"games"`
}

// Insights are the aggregate statistics of a map.
type Insights struct {
	DominantClusterShare float64       `json:"dominantClusterShare"`
	DiversityIndex       float64       `json:"diversityIndex"`
	ExperimentationRate  float64       `json:"experimentationRate"`
	OutlierCount         int           `json:"outlierCount"`
	CentroidRole         champion.Role `json:"centroidRole,omitempty"`
}

// PayloadCluster is the narrative-facing view of a cluster.
type PayloadCluster struct {
	Theme   string   `json:"theme"`
	Members []string `json:"members"`
	WinRate float64  `json:"winRate"`
}

// ClusterPayload is the compact hand-off for an external narrative generator.
type ClusterPayload struct {
	Clusters []PayloadCluster `json:"clusters"`
	Outliers []string         `json:"outliers"`
}

// MapResult is the complete output of one build.
type MapResult struct {
	Nodes    []Node         `json:"nodes"`
	Edges    []Edge         `json:"edges"`
	Centroid Point          `json:"centroid"`
	Outliers []Node         `json:"outliers"`
	Clusters []Cluster      `json:"clusters"`
	Insights Insights       `json:"insights"`
	Payload  ClusterPayload `json:"payload"`
	Summary  string         `json:"summary"`
}

// Record is the engine input.
type Record = model.PerformanceRecord
