package apigen

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/model"
)

// generateToolViews writes the by-indicator and by-ring filtered views. Both
// are derived from the tools' own declared fields, not from the graph: the
// views reflect what the TechRadar source asserts.
func (g *Generator) generateToolViews(tools []*model.Tool) error {
	byIndicator := make(map[string][]*model.Tool)
	for _, t := range tools {
		for _, indicatorID := range t.RelatedIndicators {
			byIndicator[indicatorID] = append(byIndicator[indicatorID], t)
		}
	}

	for _, indicatorID := range sortedViewKeys(byIndicator) {
		group := byIndicator[indicatorID]
		items, err := g.toolItems(group)
		if err != nil {
			return err
		}

		doc := map[string]any{
			"@context":    g.context,
			"@type":       "ToolCollection",
			"indicator":   indicatorID,
			"description": "Tools that measure indicator " + indicatorID,
			"totalItems":  len(group),
			"items":       items,
			"_links": map[string]any{
				"self":       g.baseURL + "/tools/by-indicator/" + indicatorID,
				"collection": g.baseURL + "/tools",
				"indicator":  g.baseURL + "/indicators/" + indicatorID,
			},
			"generated": g.timestamp(),
		}

		name := model.SafeFileName(indicatorID) + ".json"
		if err := g.writeJSON(filepath.Join("tools", "by-indicator", name), doc); err != nil {
			return err
		}
	}
	logging.Info("generated by-indicator views", "count", len(byIndicator))

	byRing := make(map[string][]*model.Tool)
	for _, t := range tools {
		if t.Ring == "" {
			continue
		}
		ring := strings.ToLower(t.Ring)
		byRing[ring] = append(byRing[ring], t)
	}

	for _, ring := range sortedViewKeys(byRing) {
		group := byRing[ring]
		items, err := g.toolItems(group)
		if err != nil {
			return err
		}

		doc := map[string]any{
			"@context":    g.context,
			"@type":       "ToolCollection",
			"ring":        ring,
			"description": "Tools in " + ring + " ring",
			"totalItems":  len(group),
			"items":       items,
			"_links": map[string]any{
				"self":       g.baseURL + "/tools/by-ring/" + ring,
				"collection": g.baseURL + "/tools",
			},
			"generated": g.timestamp(),
		}

		if err := g.writeJSON(filepath.Join("tools", "by-ring", ring+".json"), doc); err != nil {
			return err
		}
	}
	logging.Info("generated by-ring views", "count", len(byRing))

	return nil
}

func (g *Generator) toolItems(tools []*model.Tool) ([]map[string]any, error) {
	items := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		item, err := toMap(t)
		if err != nil {
			return nil, err
		}
		item["_links"] = map[string]any{
			"self": g.baseURL + "/tools/" + t.ID,
		}
		items = append(items, item)
	}
	return items, nil
}

func sortedViewKeys(m map[string][]*model.Tool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
