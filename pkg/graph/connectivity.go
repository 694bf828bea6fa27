package graph

import (
	"sort"

	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/everse/unified-api/pkg/model"
)

// ConnectivityReport summarizes the structural shape of the built graph.
// It feeds the dashboard and the live connectivity endpoint; it has no
// bearing on edge derivation or validation.
type ConnectivityReport struct {
	Nodes      int      `json:"nodes"`
	Edges      int      `json:"edges"` // distinct directed pairs, duplicates collapsed
	Components int      `json:"components"`
	Isolated   []string `json:"isolated"` // "Type:id" keys with no edges at all
	MaxDegree  int      `json:"max_degree"`
}

// Connectivity projects the entities and edges onto a directed graph and
// reports component and degree structure. Dangling edge endpoints cannot
// occur here because derivation already skipped them.
func (b *Builder) Connectivity() *ConnectivityReport {
	dg := simple.NewDirectedGraph()
	ids := make(map[string]int64)
	next := int64(0)

	add := func(kind model.EntityType, id string) int64 {
		key := string(kind) + ":" + id
		if nodeID, ok := ids[key]; ok {
			return nodeID
		}
		ids[key] = next
		dg.AddNode(simple.Node(next))
		next++
		return ids[key]
	}

	for id := range b.indicators {
		add(model.EntityIndicator, id)
	}
	for id := range b.tools {
		add(model.EntityTool, id)
	}
	for id := range b.dimensions {
		add(model.EntityDimension, id)
	}

	for _, e := range b.edges {
		from := add(e.SourceType, e.SourceID)
		to := add(e.TargetType, e.TargetID)
		if from == to {
			continue // self loops are invalid in simple graphs
		}
		if !dg.HasEdgeFromTo(from, to) {
			dg.SetEdge(dg.NewEdge(dg.Node(from), dg.Node(to)))
		}
	}

	report := &ConnectivityReport{
		Nodes:      dg.Nodes().Len(),
		Edges:      dg.Edges().Len(),
		Components: len(topo.ConnectedComponents(gograph.Undirect{G: dg})),
	}

	for key, nodeID := range ids {
		degree := dg.From(nodeID).Len() + dg.To(nodeID).Len()
		if degree == 0 {
			report.Isolated = append(report.Isolated, key)
		}
		if degree > report.MaxDegree {
			report.MaxDegree = degree
		}
	}
	sort.Strings(report.Isolated)

	return report
}
