package apigen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/everse/unified-api/pkg/config"
	"github.com/everse/unified-api/pkg/graph"
	"github.com/everse/unified-api/pkg/model"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	cfg := &config.Config{
		APIDir:     t.TempDir(),
		BaseURL:    "https://example.org/api/v1",
		Context:    "https://example.org/context.jsonld",
		APIVersion: "v1",
	}
	g := New(cfg)
	g.now = func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }
	return g
}

func testData() ([]*model.Indicator, []*model.Tool, []*model.Dimension, *graph.Builder) {
	indicators := []*model.Indicator{
		{ID: "license", Name: "Software Has License", Dimension: "legal"},
		{ID: "citation", Name: "Software Has Citation"},
	}
	tools := []*model.Tool{
		{ID: "howfairis", Name: "howfairis", Ring: "Adopt", RelatedIndicators: []string{"license", "citation"}},
		{ID: "cffconvert", Name: "cffconvert", Ring: "trial", RelatedIndicators: []string{"citation"}},
	}
	dimensions := []*model.Dimension{
		{ID: "legal", Name: "Legal Compliance", Indicators: []string{"license"}},
	}

	b := graph.NewBuilder()
	b.AddIndicators(indicators)
	b.AddTools(tools)
	b.AddDimensions(dimensions)
	b.BuildAll()

	return indicators, tools, dimensions, b
}

func readDoc(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading %s: %v", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Parsing %s: %v", path, err)
	}
	return doc
}

func TestGenerator_Generate(t *testing.T) {
	g := testGenerator(t)
	indicators, tools, dimensions, b := testData()

	if err := g.Generate(indicators, tools, dimensions, b); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	if errs := g.Verify(); len(errs) != 0 {
		t.Fatalf("Verify() reported missing files: %v", errs)
	}

	root := readDoc(t, filepath.Join(g.apiDir, "index.json"))
	if root["@type"] != "APIRoot" {
		t.Errorf("Expected APIRoot, got %v", root["@type"])
	}
	if root["generated"] != "2026-01-15T12:00:00Z" {
		t.Errorf("Unexpected timestamp: %v", root["generated"])
	}
}

func TestGenerator_CollectionDocument(t *testing.T) {
	g := testGenerator(t)
	indicators, tools, dimensions, b := testData()

	if err := g.Generate(indicators, tools, dimensions, b); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	doc := readDoc(t, filepath.Join(g.apiDir, "indicators", "index.json"))
	if doc["@type"] != "IndicatorCollection" {
		t.Errorf("Expected IndicatorCollection, got %v", doc["@type"])
	}
	if doc["totalItems"] != float64(2) {
		t.Errorf("Expected 2 total items, got %v", doc["totalItems"])
	}
	if doc["totalPages"] != float64(1) {
		t.Errorf("Expected 1 total page, got %v", doc["totalPages"])
	}

	items, ok := doc["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("Expected 2 items, got %v", doc["items"])
	}
	first := items[0].(map[string]any)
	if _, ok := first["_links"]; !ok {
		t.Error("Expected _links on collection item")
	}
}

func TestGenerator_IndividualDocuments(t *testing.T) {
	g := testGenerator(t)
	indicators, tools, dimensions, b := testData()

	if err := g.Generate(indicators, tools, dimensions, b); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	doc := readDoc(t, filepath.Join(g.apiDir, "indicators", "license.json"))
	if doc["@type"] != "Indicator" {
		t.Errorf("Expected Indicator, got %v", doc["@type"])
	}
	if doc["name"] != "Software Has License" {
		t.Errorf("Unexpected name: %v", doc["name"])
	}

	links := doc["_links"].(map[string]any)
	if links["collection"] != "https://example.org/api/v1/indicators" {
		t.Errorf("Unexpected collection link: %v", links["collection"])
	}
}

func TestGenerator_ToolViews(t *testing.T) {
	g := testGenerator(t)
	indicators, tools, dimensions, b := testData()

	if err := g.Generate(indicators, tools, dimensions, b); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	// Both tools declare citation, so the by-indicator view holds two items.
	doc := readDoc(t, filepath.Join(g.apiDir, "tools", "by-indicator", "citation.json"))
	if doc["totalItems"] != float64(2) {
		t.Errorf("Expected 2 tools for citation, got %v", doc["totalItems"])
	}

	// Ring names are lowercased for the view file.
	doc = readDoc(t, filepath.Join(g.apiDir, "tools", "by-ring", "adopt.json"))
	if doc["totalItems"] != float64(1) {
		t.Errorf("Expected 1 tool in adopt ring, got %v", doc["totalItems"])
	}
	if doc["ring"] != "adopt" {
		t.Errorf("Expected lowercased ring, got %v", doc["ring"])
	}
}

func TestGenerator_GraphDocument(t *testing.T) {
	g := testGenerator(t)
	indicators, tools, dimensions, b := testData()

	if err := g.Generate(indicators, tools, dimensions, b); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	doc := readDoc(t, filepath.Join(g.apiDir, "relationships", "graph.json"))
	if doc["type"] != "RelationshipGraph" {
		t.Errorf("Expected RelationshipGraph, got %v", doc["type"])
	}

	stats := doc["statistics"].(map[string]any)
	edges := doc["edges"].([]any)
	if stats["total_relationships"] != float64(len(edges)) {
		t.Errorf("Statistics (%v) disagree with edges (%d)", stats["total_relationships"], len(edges))
	}
}

func TestGenerator_HealthDocument(t *testing.T) {
	g := testGenerator(t)
	indicators, tools, dimensions, b := testData()

	if err := g.Generate(indicators, tools, dimensions, b); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	doc := readDoc(t, filepath.Join(g.apiDir, "health.json"))
	if doc["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", doc["status"])
	}
}

func TestGenerator_VerifyReportsMissingFiles(t *testing.T) {
	g := testGenerator(t)

	errs := g.Verify()
	if len(errs) == 0 {
		t.Fatal("Expected missing file errors for empty directory")
	}
}

func TestGenerator_OpenAPIDocument(t *testing.T) {
	g := testGenerator(t)
	indicators, tools, dimensions, b := testData()

	if err := g.Generate(indicators, tools, dimensions, b); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	doc := readDoc(t, filepath.Join(g.apiDir, "openapi.json"))
	if doc["openapi"] != "3.0.0" {
		t.Errorf("Unexpected OpenAPI version: %v", doc["openapi"])
	}

	paths := doc["paths"].(map[string]any)
	for _, p := range []string{"/indicators", "/tools", "/dimensions", "/relationships/graph"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("Expected path %s in OpenAPI document", p)
		}
	}
}

func TestGenerator_HTMLPages(t *testing.T) {
	g := testGenerator(t)
	indicators, tools, dimensions, b := testData()

	if err := g.Generate(indicators, tools, dimensions, b); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	for _, name := range []string{"index.html", "dashboard.html"} {
		if _, err := os.Stat(filepath.Join(g.apiDir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}
