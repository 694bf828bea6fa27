package graph

import "github.com/everse/unified-api/pkg/model"

// Export is the read-only projection of the full graph: every entity keyed by
// ID, every edge in build order, and aggregate counts. This is the contract
// the endpoint generator consumes.
type Export struct {
	Type       string     `json:"type"`
	Nodes      Nodes      `json:"nodes"`
	Edges      []model.RelationshipEdge `json:"edges"`
	Statistics Statistics `json:"statistics"`
}

// Nodes groups the serialized entities by collection.
type Nodes struct {
	Indicators map[string]*model.Indicator `json:"indicators"`
	Tools      map[string]*model.Tool      `json:"tools"`
	Dimensions map[string]*model.Dimension `json:"dimensions"`
}

// Statistics are the aggregate counts at export time.
type Statistics struct {
	TotalIndicators    int `json:"total_indicators"`
	TotalTools         int `json:"total_tools"`
	TotalDimensions    int `json:"total_dimensions"`
	TotalRelationships int `json:"total_relationships"`
}

// Snapshot is the lightweight persistence form: edges and counts only, no
// node bodies. It is what goes into the cache between runs.
type Snapshot struct {
	Type       string                   `json:"type"`
	Edges      []model.RelationshipEdge `json:"edges"`
	NodeCounts NodeCounts               `json:"node_counts"`
	EdgeCount  int                      `json:"edge_count"`
}

// NodeCounts holds per-collection sizes for the snapshot form.
type NodeCounts struct {
	Indicators int `json:"indicators"`
	Tools      int `json:"tools"`
	Dimensions int `json:"dimensions"`
}

const graphType = "RelationshipGraph"

// Export builds the full projection. It reads builder state without touching
// it and is safe to call repeatedly.
func (b *Builder) Export() *Export {
	nodes := Nodes{
		Indicators: make(map[string]*model.Indicator, len(b.indicators)),
		Tools:      make(map[string]*model.Tool, len(b.tools)),
		Dimensions: make(map[string]*model.Dimension, len(b.dimensions)),
	}
	for id, ind := range b.indicators {
		nodes.Indicators[id] = ind
	}
	for id, t := range b.tools {
		nodes.Tools[id] = t
	}
	for id, d := range b.dimensions {
		nodes.Dimensions[id] = d
	}

	edges := make([]model.RelationshipEdge, len(b.edges))
	copy(edges, b.edges)

	return &Export{
		Type:  graphType,
		Nodes: nodes,
		Edges: edges,
		Statistics: Statistics{
			TotalIndicators:    len(b.indicators),
			TotalTools:         len(b.tools),
			TotalDimensions:    len(b.dimensions),
			TotalRelationships: len(b.edges),
		},
	}
}

// Snapshot builds the cache form of the graph.
func (b *Builder) Snapshot() *Snapshot {
	edges := make([]model.RelationshipEdge, len(b.edges))
	copy(edges, b.edges)

	return &Snapshot{
		Type:  graphType,
		Edges: edges,
		NodeCounts: NodeCounts{
			Indicators: len(b.indicators),
			Tools:      len(b.tools),
			Dimensions: len(b.dimensions),
		},
		EdgeCount: len(b.edges),
	}
}
