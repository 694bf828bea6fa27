package apigen

import (
	"fmt"
	"path/filepath"

	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/model"
)

// pageRange is one slice of a paginated collection.
type pageRange struct {
	Number int
	Total  int
	Start  int
	End    int
}

// paginate splits total items into 50-per-page ranges. An empty collection
// still yields one empty page so the index document exists.
func paginate(total int) []pageRange {
	totalPages := (total + itemsPerPage - 1) / itemsPerPage
	if totalPages == 0 {
		totalPages = 1
	}

	pages := make([]pageRange, 0, totalPages)
	for n := 1; n <= totalPages; n++ {
		start := (n - 1) * itemsPerPage
		end := n * itemsPerPage
		if end > total {
			end = total
		}
		pages = append(pages, pageRange{Number: n, Total: totalPages, Start: start, End: end})
	}
	return pages
}

// pageFileName maps page 1 to index.json and page N to index_pN.json.
func pageFileName(page int) string {
	if page == 1 {
		return "index.json"
	}
	return fmt.Sprintf("index_p%d.json", page)
}

// pageLinks builds the self/first/prev/next/last navigation links.
func (g *Generator) pageLinks(collection string, p pageRange) map[string]any {
	links := map[string]any{
		"self": fmt.Sprintf("%s/%s?page=%d", g.baseURL, collection, p.Number),
	}
	if p.Number > 1 {
		links["first"] = fmt.Sprintf("%s/%s?page=1", g.baseURL, collection)
		links["prev"] = fmt.Sprintf("%s/%s?page=%d", g.baseURL, collection, p.Number-1)
	}
	if p.Number < p.Total {
		links["next"] = fmt.Sprintf("%s/%s?page=%d", g.baseURL, collection, p.Number+1)
		links["last"] = fmt.Sprintf("%s/%s?page=%d", g.baseURL, collection, p.Total)
	}
	return links
}

func (g *Generator) generateIndicators(indicators []*model.Indicator) error {
	logging.Info("generating indicators collection", "count", len(indicators))

	for _, p := range paginate(len(indicators)) {
		items := make([]map[string]any, 0, p.End-p.Start)
		for _, ind := range indicators[p.Start:p.End] {
			item, err := toMap(ind)
			if err != nil {
				return err
			}
			item["_links"] = map[string]any{
				"self":  g.baseURL + "/indicators/" + ind.ID,
				"tools": g.baseURL + "/tools?indicator=" + ind.ID,
			}
			items = append(items, item)
		}

		doc := map[string]any{
			"@context":    g.context,
			"@type":       "IndicatorCollection",
			"name":        "Indicators",
			"description": "Collection of all quality indicators",
			"totalItems":  len(indicators),
			"page":        p.Number,
			"perPage":     itemsPerPage,
			"totalPages":  p.Total,
			"items":       items,
			"_links":      g.pageLinks("indicators", p),
			"generated":   g.timestamp(),
		}
		if err := g.writeJSON(filepath.Join("indicators", pageFileName(p.Number)), doc); err != nil {
			return err
		}
	}

	for _, ind := range indicators {
		safe := model.SafeFileName(ind.ID)
		doc, err := toMap(ind)
		if err != nil {
			return err
		}
		doc["@context"] = g.context
		doc["@type"] = "Indicator"
		doc["_links"] = map[string]any{
			"self":          g.baseURL + "/indicators/" + safe,
			"collection":    g.baseURL + "/indicators",
			"tools":         g.baseURL + "/tools?indicator=" + ind.ID,
			"in-dimensions": g.baseURL + "/dimensions?indicator=" + ind.ID,
		}
		doc["generated"] = g.timestamp()

		if err := g.writeJSON(filepath.Join("indicators", safe+".json"), doc); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) generateTools(tools []*model.Tool) error {
	logging.Info("generating tools collection", "count", len(tools))

	for _, p := range paginate(len(tools)) {
		items := make([]map[string]any, 0, p.End-p.Start)
		for _, t := range tools[p.Start:p.End] {
			item, err := toMap(t)
			if err != nil {
				return err
			}
			item["_links"] = map[string]any{
				"self":       g.baseURL + "/tools/" + t.ID,
				"indicators": g.baseURL + "/indicators?tool=" + t.ID,
			}
			items = append(items, item)
		}

		links := g.pageLinks("tools", p)
		links["by-ring"] = g.baseURL + "/tools/by-ring"

		doc := map[string]any{
			"@context":    g.context,
			"@type":       "ToolCollection",
			"name":        "Tools",
			"description": "Collection of all quality assessment tools",
			"totalItems":  len(tools),
			"page":        p.Number,
			"perPage":     itemsPerPage,
			"totalPages":  p.Total,
			"items":       items,
			"_links":      links,
			"generated":   g.timestamp(),
		}
		if err := g.writeJSON(filepath.Join("tools", pageFileName(p.Number)), doc); err != nil {
			return err
		}
	}

	for _, t := range tools {
		safe := model.SafeFileName(t.ID)
		doc, err := toMap(t)
		if err != nil {
			return err
		}
		doc["@context"] = g.context
		doc["@type"] = "Tool"
		doc["_links"] = map[string]any{
			"self":       g.baseURL + "/tools/" + safe,
			"collection": g.baseURL + "/tools",
			"indicators": g.baseURL + "/indicators?tool=" + t.ID,
		}
		doc["generated"] = g.timestamp()

		if err := g.writeJSON(filepath.Join("tools", safe+".json"), doc); err != nil {
			return err
		}
	}

	return g.generateToolViews(tools)
}

func (g *Generator) generateDimensions(dimensions []*model.Dimension) error {
	logging.Info("generating dimensions collection", "count", len(dimensions))

	for _, p := range paginate(len(dimensions)) {
		items := make([]map[string]any, 0, p.End-p.Start)
		for _, d := range dimensions[p.Start:p.End] {
			item, err := toMap(d)
			if err != nil {
				return err
			}
			item["_links"] = map[string]any{
				"self":       g.baseURL + "/dimensions/" + d.ID,
				"indicators": g.baseURL + "/dimensions/" + d.ID + "/indicators",
			}
			items = append(items, item)
		}

		doc := map[string]any{
			"@context":    g.context,
			"@type":       "DimensionCollection",
			"name":        "Dimensions",
			"description": "Collection of all quality dimensions",
			"totalItems":  len(dimensions),
			"page":        p.Number,
			"perPage":     itemsPerPage,
			"totalPages":  p.Total,
			"items":       items,
			"_links":      g.pageLinks("dimensions", p),
			"generated":   g.timestamp(),
		}
		if err := g.writeJSON(filepath.Join("dimensions", pageFileName(p.Number)), doc); err != nil {
			return err
		}
	}

	for _, d := range dimensions {
		safe := model.SafeFileName(d.ID)
		doc, err := toMap(d)
		if err != nil {
			return err
		}
		doc["@context"] = g.context
		doc["@type"] = "Dimension"
		doc["_links"] = map[string]any{
			"self":       g.baseURL + "/dimensions/" + safe,
			"collection": g.baseURL + "/dimensions",
			"indicators": g.baseURL + "/dimensions/" + d.ID + "/indicators",
		}
		doc["generated"] = g.timestamp()

		if err := g.writeJSON(filepath.Join("dimensions", safe+".json"), doc); err != nil {
			return err
		}
	}

	return nil
}
