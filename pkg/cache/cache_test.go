package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/everse/unified-api/pkg/graph"
	"github.com/everse/unified-api/pkg/model"
)

func TestStore_IndicatorRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	indicators := []*model.Indicator{
		{ID: "license", Name: "Software Has License", Dimension: "legal"},
		{ID: "citation", Name: "Software Has Citation"},
	}
	if err := store.SaveIndicators(indicators); err != nil {
		t.Fatalf("SaveIndicators() unexpected error: %v", err)
	}

	loaded, err := store.LoadIndicators()
	if err != nil {
		t.Fatalf("LoadIndicators() unexpected error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 indicators, got %d", len(loaded))
	}
	if loaded[0].ID != "license" || loaded[0].Dimension != "legal" {
		t.Errorf("Unexpected first indicator: %+v", loaded[0])
	}
}

func TestStore_Envelope(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := store.SaveTools([]*model.Tool{{ID: "howfairis", Name: "howfairis"}}); err != nil {
		t.Fatalf("SaveTools() unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "tools.json"))
	if err != nil {
		t.Fatalf("Reading cache file: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Parsing cache file: %v", err)
	}
	if doc["type"] != "ToolCollection" {
		t.Errorf("Expected type ToolCollection, got %v", doc["type"])
	}
	if doc["count"] != float64(1) {
		t.Errorf("Expected count 1, got %v", doc["count"])
	}
}

func TestStore_MissIsError(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.LoadDimensions(); err == nil {
		t.Error("Expected error for missing cache file")
	}
}

func TestStore_RelationshipsRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	snap := &graph.Snapshot{
		Type: "RelationshipGraph",
		Edges: []model.RelationshipEdge{
			{
				SourceID:         "howfairis",
				SourceType:       model.EntityTool,
				TargetID:         "license",
				TargetType:       model.EntityIndicator,
				RelationshipType: model.RelationMeasures,
			},
		},
		NodeCounts: graph.NodeCounts{Indicators: 1, Tools: 1},
		EdgeCount:  1,
	}
	if err := store.SaveRelationships(snap); err != nil {
		t.Fatalf("SaveRelationships() unexpected error: %v", err)
	}

	loaded, err := store.LoadRelationships()
	if err != nil {
		t.Fatalf("LoadRelationships() unexpected error: %v", err)
	}
	if loaded.EdgeCount != 1 || len(loaded.Edges) != 1 {
		t.Fatalf("Unexpected snapshot: %+v", loaded)
	}
	if loaded.Edges[0].RelationshipType != model.RelationMeasures {
		t.Errorf("Unexpected edge type: %s", loaded.Edges[0].RelationshipType)
	}
}
