package apigen

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/everse/unified-api/pkg/graph"
)

// apiStats counts what the generated tree actually contains. Derived by
// scanning the output directory rather than trusting the inputs, so the
// health document reflects what was really written.
type apiStats struct {
	Indicators       int
	Tools            int
	Dimensions       int
	HasOpenAPI       bool
	HasRelationships bool
}

func (g *Generator) stats() apiStats {
	count := func(sub string) int {
		entries, err := os.ReadDir(filepath.Join(g.apiDir, sub))
		if err != nil {
			return 0
		}
		n := 0
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "index") {
				continue
			}
			n++
		}
		return n
	}

	exists := func(rel string) bool {
		_, err := os.Stat(filepath.Join(g.apiDir, rel))
		return err == nil
	}

	return apiStats{
		Indicators:       count("indicators"),
		Tools:            count("tools"),
		Dimensions:       count("dimensions"),
		HasOpenAPI:       exists("openapi.json"),
		HasRelationships: exists(filepath.Join("relationships", "graph.json")),
	}
}

func boolStatus(ok bool, missing string) string {
	if ok {
		return "healthy"
	}
	return missing
}

func (g *Generator) generateHealth(b *graph.Builder) error {
	stats := g.stats()
	connectivity := b.Connectivity()

	health := map[string]any{
		"@context":    "https://www.w3.org/2019/wot/td/v1",
		"@type":       "HealthCheck",
		"name":        "EVERSE Unified API Health",
		"description": "Health status and metrics for the EVERSE Unified API",
		"version":     g.version,
		"timestamp":   g.timestamp(),
		"status":      "healthy",
		"components": map[string]any{
			"api": map[string]any{
				"status": "healthy",
				"endpoints": map[string]any{
					"root":          "/api/" + g.version + "/index.json",
					"indicators":    "/api/" + g.version + "/indicators/index.json",
					"tools":         "/api/" + g.version + "/tools/index.json",
					"dimensions":    "/api/" + g.version + "/dimensions/index.json",
					"openapi":       "/api/" + g.version + "/openapi.json",
					"relationships": "/api/" + g.version + "/relationships/graph.json",
				},
			},
			"data": map[string]any{
				"status":     "healthy",
				"indicators": stats.Indicators,
				"tools":      stats.Tools,
				"dimensions": stats.Dimensions,
			},
			"openapi": map[string]any{
				"status":    boolStatus(stats.HasOpenAPI, "missing"),
				"available": stats.HasOpenAPI,
			},
			"relationships": map[string]any{
				"status":    boolStatus(stats.HasRelationships, "empty"),
				"available": stats.HasRelationships,
			},
		},
		"metrics": map[string]any{
			"total_endpoints":  3 + stats.Indicators + stats.Tools + stats.Dimensions,
			"graph_components": connectivity.Components,
			"isolated_nodes":   len(connectivity.Isolated),
			"pagination":       true,
			"hateoas":          true,
			"json_ld":          true,
			"openapi_3_0":      stats.HasOpenAPI,
		},
		"_links": map[string]any{
			"self": "/api/" + g.version + "/health.json",
			"api":  "/api/" + g.version + "/index.json",
			"docs": "/api/" + g.version + "/openapi.json",
		},
	}
	if err := g.writeJSON("health.json", health); err != nil {
		return err
	}

	status := map[string]any{
		"@context":    "https://www.w3.org/2019/wot/td/v1",
		"@type":       "Status",
		"name":        "EVERSE Unified API Status",
		"description": "Current deployment status and information",
		"version":     g.version,
		"timestamp":   g.timestamp(),
		"deployment": map[string]any{
			"status":           "active",
			"last_update":      g.timestamp(),
			"update_frequency": "every 6 hours",
			"update_trigger":   "scheduled + manual + push",
		},
		"_links": map[string]any{
			"self":   "/api/" + g.version + "/status.json",
			"health": "/api/" + g.version + "/health.json",
			"api":    "/api/" + g.version + "/index.json",
		},
	}
	return g.writeJSON("status.json", status)
}
