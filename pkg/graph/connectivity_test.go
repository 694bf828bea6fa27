package graph

import (
	"testing"

	"github.com/everse/unified-api/pkg/model"
)

func TestConnectivity_Report(t *testing.T) {
	b := NewBuilder()
	b.AddIndicators([]*model.Indicator{
		{ID: "license", Name: "License", Dimension: "legal"},
	})
	b.AddTools([]*model.Tool{
		{ID: "howfairis", Name: "howfairis", RelatedIndicators: []string{"license"}},
	})
	b.AddDimensions([]*model.Dimension{
		{ID: "legal", Name: "Legal", Indicators: []string{"license"}},
	})
	b.BuildAll()

	report := b.Connectivity()
	if report.Nodes != 3 {
		t.Errorf("Expected 3 nodes, got %d", report.Nodes)
	}
	if report.Components != 1 {
		t.Errorf("Expected 1 component, got %d", report.Components)
	}
	if len(report.Isolated) != 0 {
		t.Errorf("Expected no isolated entities, got %v", report.Isolated)
	}
}

func TestConnectivity_IsolatedNodes(t *testing.T) {
	b := NewBuilder()
	b.AddIndicators([]*model.Indicator{{ID: "license", Name: "License"}})
	b.AddTools([]*model.Tool{{ID: "orphan", Name: "Orphan"}})
	b.BuildAll()

	report := b.Connectivity()
	if report.Components != 2 {
		t.Errorf("Expected 2 components, got %d", report.Components)
	}
	if len(report.Isolated) != 2 {
		t.Fatalf("Expected 2 isolated entities, got %v", report.Isolated)
	}
	// Sorted "Type:id" keys.
	if report.Isolated[0] != "Indicator:license" {
		t.Errorf("Expected Indicator:license first, got %s", report.Isolated[0])
	}
	if report.Isolated[1] != "Tool:orphan" {
		t.Errorf("Expected Tool:orphan second, got %s", report.Isolated[1])
	}
}

func TestConnectivity_DuplicateEdgesCollapse(t *testing.T) {
	b := NewBuilder()
	b.AddIndicators([]*model.Indicator{{ID: "license", Name: "License"}})
	b.AddTools([]*model.Tool{
		{ID: "howfairis", Name: "howfairis", RelatedIndicators: []string{"license", "license"}},
	})
	b.BuildAll()

	if len(b.Edges()) != 2 {
		t.Fatalf("Expected 2 raw edges, got %d", len(b.Edges()))
	}

	report := b.Connectivity()
	if report.Edges != 1 {
		t.Errorf("Expected 1 deduplicated edge, got %d", report.Edges)
	}
	if report.MaxDegree != 1 {
		t.Errorf("Expected max degree 1, got %d", report.MaxDegree)
	}
}
