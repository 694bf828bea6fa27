package apigen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/everse/unified-api/pkg/config"
	"github.com/everse/unified-api/pkg/graph"
	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/model"
)

// itemsPerPage is the collection pagination size.
const itemsPerPage = 50

// Generator writes the static API tree: root document, paginated
// collections, individual entity documents, filtered views, the graph
// export, the OpenAPI description, health endpoints, and HTML pages.
type Generator struct {
	apiDir  string
	baseURL string
	context string
	version string
	now     func() time.Time
}

// New creates a generator for the configured output directory.
func New(cfg *config.Config) *Generator {
	return &Generator{
		apiDir:  cfg.APIDir,
		baseURL: cfg.BaseURL,
		context: cfg.Context,
		version: cfg.APIVersion,
		now:     time.Now,
	}
}

// Generate writes the whole API tree and verifies the required files exist
// afterwards.
func (g *Generator) Generate(indicators []*model.Indicator, tools []*model.Tool, dimensions []*model.Dimension, b *graph.Builder) error {
	if err := g.ensureStructure(); err != nil {
		return err
	}

	if err := g.generateRoot(); err != nil {
		return err
	}
	if err := g.generateIndicators(indicators); err != nil {
		return err
	}
	if err := g.generateTools(tools); err != nil {
		return err
	}
	if err := g.generateDimensions(dimensions); err != nil {
		return err
	}
	if err := g.generateGraph(b); err != nil {
		return err
	}
	if err := g.generateOpenAPI(); err != nil {
		return err
	}
	if err := g.generateHealth(b); err != nil {
		return err
	}
	if err := g.generatePages(b); err != nil {
		return err
	}

	if errs := g.Verify(); len(errs) > 0 {
		return fmt.Errorf("generated API is incomplete: %v", errs)
	}

	logging.Info("API generation complete", "dir", g.apiDir)
	return nil
}

func (g *Generator) ensureStructure() error {
	subdirs := []string{
		"indicators",
		"tools",
		"tools/by-indicator",
		"tools/by-ring",
		"dimensions",
		"relationships",
	}
	for _, sub := range subdirs {
		if err := os.MkdirAll(filepath.Join(g.apiDir, sub), 0o755); err != nil {
			return fmt.Errorf("creating API dir %s: %w", sub, err)
		}
	}
	return nil
}

func (g *Generator) generateRoot() error {
	doc := map[string]any{
		"@context":    g.context,
		"@type":       "APIRoot",
		"version":     g.version,
		"title":       "EVERSE Unified API",
		"description": "Unified API for EVERSE research software quality services",
		"endpoints": map[string]any{
			"indicators":    g.baseURL + "/indicators/",
			"tools":         g.baseURL + "/tools/",
			"dimensions":    g.baseURL + "/dimensions/",
			"relationships": g.baseURL + "/relationships/",
			"openapi":       g.baseURL + "/openapi.json",
			"health":        g.baseURL + "/health.json",
		},
		"generated": g.timestamp(),
	}
	return g.writeJSON("index.json", doc)
}

func (g *Generator) generateGraph(b *graph.Builder) error {
	export, err := toMap(b.Export())
	if err != nil {
		return err
	}

	doc := map[string]any{
		"@context":    g.context,
		"@type":       "Graph",
		"name":        "Entity Relationships",
		"description": "Knowledge graph of relationships between indicators, tools, and dimensions",
		"generated":   g.timestamp(),
	}
	for k, v := range export {
		doc[k] = v
	}

	return g.writeJSON(filepath.Join("relationships", "graph.json"), doc)
}

// timestamp is the RFC3339 UTC generation marker stamped on every document.
func (g *Generator) timestamp() string {
	return g.now().UTC().Format(time.RFC3339)
}

func (g *Generator) writeJSON(rel string, v any) error {
	path := filepath.Join(g.apiDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dir for %s: %w", rel, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// toMap flattens a typed value into a generic document so endpoint-specific
// keys (@context, _links, generated) can be spliced in alongside its fields.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
