package apigen

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/everse/unified-api/pkg/graph"
)

//go:embed templates/*.html.tmpl
var templateFiles embed.FS

// pageData feeds the landing and dashboard templates.
type pageData struct {
	Title        string
	Version      string
	BaseURL      string
	Generated    string
	Statistics   graph.Statistics
	Connectivity *graph.ConnectivityReport
}

// generatePages renders the HTML landing page and the status dashboard.
func (g *Generator) generatePages(b *graph.Builder) error {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html.tmpl")
	if err != nil {
		return fmt.Errorf("parsing page templates: %w", err)
	}

	export := b.Export()
	data := pageData{
		Title:        "EVERSE Unified API",
		Version:      g.version,
		BaseURL:      g.baseURL,
		Generated:    g.timestamp(),
		Statistics:   export.Statistics,
		Connectivity: b.Connectivity(),
	}

	pages := map[string]string{
		"landing.html.tmpl":   "index.html",
		"dashboard.html.tmpl": "dashboard.html",
	}
	for src, dst := range pages {
		path := filepath.Join(g.apiDir, dst)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := tmpl.ExecuteTemplate(f, src, data); err != nil {
			f.Close()
			return fmt.Errorf("rendering %s: %w", dst, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}
