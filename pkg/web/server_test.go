package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/everse/unified-api/pkg/graph"
	"github.com/everse/unified-api/pkg/model"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	apiDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(apiDir, "index.json"), []byte(`{"@type":"APIRoot"}`), 0o644); err != nil {
		t.Fatalf("Writing static file: %v", err)
	}

	s := NewServer(apiDir)
	t.Cleanup(func() { s.Close() })

	b := graph.NewBuilder()
	b.AddIndicators([]*model.Indicator{
		{ID: "license", Name: "Software Has License", Dimension: "legal"},
	})
	b.AddTools([]*model.Tool{
		{ID: "howfairis", Name: "howfairis", RelatedIndicators: []string{"license"}},
	})
	b.AddDimensions([]*model.Dimension{
		{ID: "legal", Name: "Legal Compliance", Indicators: []string{"license"}},
	})
	b.BuildAll()
	s.SetBuilder(b)

	return s
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var doc map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
			t.Fatalf("Response is not valid JSON: %v", err)
		}
	}
	return rec, doc
}

func TestServer_ToolsForIndicator(t *testing.T) {
	s := testServer(t)

	rec, doc := get(t, s, "/api/v1/live/indicators/license/tools")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if doc["count"] != float64(1) {
		t.Errorf("Expected 1 tool, got %v", doc["count"])
	}
	tools := doc["tools"].([]any)
	if tools[0].(map[string]any)["id"] != "howfairis" {
		t.Errorf("Unexpected tool: %v", tools[0])
	}
}

func TestServer_IndicatorsForTool(t *testing.T) {
	s := testServer(t)

	rec, doc := get(t, s, "/api/v1/live/tools/howfairis/indicators")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if doc["count"] != float64(1) {
		t.Errorf("Expected 1 indicator, got %v", doc["count"])
	}
}

func TestServer_IndicatorsForDimension(t *testing.T) {
	s := testServer(t)

	rec, doc := get(t, s, "/api/v1/live/dimensions/legal/indicators")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if doc["dimension"] != "legal" {
		t.Errorf("Unexpected dimension: %v", doc["dimension"])
	}
}

func TestServer_UnknownEntityReturns404(t *testing.T) {
	s := testServer(t)

	rec, doc := get(t, s, "/api/v1/live/indicators/missing/tools")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if doc["error"] == nil {
		t.Error("Expected error message in response")
	}
}

func TestServer_GraphExport(t *testing.T) {
	s := testServer(t)

	rec, doc := get(t, s, "/api/v1/live/graph")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if doc["type"] != "RelationshipGraph" {
		t.Errorf("Expected RelationshipGraph, got %v", doc["type"])
	}
	edges := doc["edges"].([]any)
	if len(edges) != 3 {
		t.Errorf("Expected 3 edges, got %d", len(edges))
	}
}

func TestServer_Connectivity(t *testing.T) {
	s := testServer(t)

	rec, doc := get(t, s, "/api/v1/live/connectivity")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if doc["nodes"] != float64(3) {
		t.Errorf("Expected 3 nodes, got %v", doc["nodes"])
	}
	if doc["components"] != float64(1) {
		t.Errorf("Expected 1 component, got %v", doc["components"])
	}
}

func TestServer_NoBuilderReturns503(t *testing.T) {
	s := NewServer(t.TempDir())
	t.Cleanup(func() { s.Close() })

	rec, _ := get(t, s, "/api/v1/live/graph")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 before first build, got %d", rec.Code)
	}
}

func TestServer_StaticFiles(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/index.json", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for static file, got %d", rec.Code)
	}

	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Static response is not valid JSON: %v", err)
	}
	if doc["@type"] != "APIRoot" {
		t.Errorf("Unexpected static document: %v", doc)
	}
}

func TestServer_RequestIDHeader(t *testing.T) {
	s := testServer(t)

	rec, _ := get(t, s, "/api/v1/live/graph")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header on response")
	}
}
