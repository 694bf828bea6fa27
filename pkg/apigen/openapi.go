package apigen

// generateOpenAPI writes the OpenAPI 3.0 description of the generated
// routes. The document is assembled as generic maps because it is written
// once and never read back by this codebase.
func (g *Generator) generateOpenAPI() error {
	pathItem := func(opID, summary, desc, tag string, params []map[string]any) map[string]any {
		op := map[string]any{
			"operationId": opID,
			"summary":     summary,
			"description": desc,
			"tags":        []string{tag},
			"responses": map[string]any{
				"200": map[string]any{"description": summary},
			},
		}
		if len(params) > 0 {
			op["parameters"] = params
		}
		return map[string]any{"get": op}
	}

	pathParam := func(name, desc string) map[string]any {
		return map[string]any{
			"name":        name,
			"in":          "path",
			"required":    true,
			"description": desc,
			"schema":      map[string]any{"type": "string"},
		}
	}
	pageParam := map[string]any{
		"name":        "page",
		"in":          "query",
		"description": "Page number (default: 1)",
		"schema":      map[string]any{"type": "integer", "default": 1},
	}

	entitySchema := func(props map[string]any) map[string]any {
		return map[string]any{
			"type":       "object",
			"properties": props,
			"required":   []string{"id", "name"},
		}
	}
	str := map[string]any{"type": "string"}
	obj := map[string]any{"type": "object"}

	spec := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":       "EVERSE Unified API",
			"description": "Unified API for EVERSE research software quality services",
			"version":     g.version,
			"contact":     map[string]any{"name": "EVERSE Team"},
			"license":     map[string]any{"name": "Apache 2.0"},
		},
		"servers": []map[string]any{
			{"url": g.baseURL, "description": "EVERSE Unified API"},
		},
		"paths": map[string]any{
			"/": pathItem("getApiRoot", "API Root",
				"Get the API root with links to all endpoints", "Root", nil),
			"/indicators": pathItem("listIndicators", "List Indicators",
				"Get paginated list of all quality indicators", "Indicators",
				[]map[string]any{pageParam}),
			"/indicators/{id}": pathItem("getIndicator", "Get Indicator",
				"Get a specific indicator by ID", "Indicators",
				[]map[string]any{pathParam("id", "Indicator ID")}),
			"/tools": pathItem("listTools", "List Tools",
				"Get paginated list of all quality assessment tools", "Tools",
				[]map[string]any{pageParam}),
			"/tools/{id}": pathItem("getTool", "Get Tool",
				"Get a specific tool by ID", "Tools",
				[]map[string]any{pathParam("id", "Tool ID")}),
			"/tools/by-indicator/{indicator_id}": pathItem("getToolsByIndicator", "Get Tools by Indicator",
				"Get all tools that measure a specific indicator", "Tools",
				[]map[string]any{pathParam("indicator_id", "Indicator ID")}),
			"/tools/by-ring/{ring}": pathItem("getToolsByRing", "Get Tools by Ring",
				"Get all tools in a specific ring", "Tools",
				[]map[string]any{pathParam("ring", "Ring value (adopt, trial, assess, hold)")}),
			"/dimensions": pathItem("listDimensions", "List Dimensions",
				"Get paginated list of all quality dimensions", "Dimensions",
				[]map[string]any{pageParam}),
			"/dimensions/{id}": pathItem("getDimension", "Get Dimension",
				"Get a specific dimension by ID", "Dimensions",
				[]map[string]any{pathParam("id", "Dimension ID")}),
			"/dimensions/{id}/indicators": pathItem("getDimensionIndicators", "Get Dimension Indicators",
				"Get all indicators for a specific dimension", "Dimensions",
				[]map[string]any{pathParam("id", "Dimension ID")}),
			"/relationships/graph": pathItem("getRelationshipsGraph", "Get Relationships Graph",
				"Get the complete knowledge graph of relationships", "Relationships", nil),
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Indicator": entitySchema(map[string]any{
					"id": str, "name": str, "description": str,
					"dimension": str, "category": str, "rationale": str,
					"url": str, "_links": obj,
				}),
				"Tool": entitySchema(map[string]any{
					"id": str, "name": str, "description": str,
					"url": str, "ring": str, "quadrant": str, "_links": obj,
				}),
				"Dimension": entitySchema(map[string]any{
					"id": str, "name": str, "description": str,
					"indicators": map[string]any{"type": "array", "items": str},
					"_links":     obj,
				}),
			},
		},
		"tags": []map[string]any{
			{"name": "Root", "description": "API root endpoint"},
			{"name": "Indicators", "description": "Quality indicators"},
			{"name": "Tools", "description": "Quality assessment tools"},
			{"name": "Dimensions", "description": "Quality dimensions"},
			{"name": "Relationships", "description": "Entity relationships graph"},
		},
	}

	return g.writeJSON("openapi.json", spec)
}
