package apigen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/source"
)

// requiredFiles must exist for the generated tree (or a deployment) to count
// as a working API.
var requiredFiles = []string{
	"index.json",
	"indicators/index.json",
	"tools/index.json",
	"dimensions/index.json",
	"relationships/graph.json",
	"openapi.json",
	"health.json",
}

// Verify checks the generated tree for the required files and returns one
// error string per missing file.
func (g *Generator) Verify() []string {
	var errors []string
	for _, rel := range requiredFiles {
		path := filepath.Join(g.apiDir, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err != nil {
			errors = append(errors, fmt.Sprintf("missing required API file: %s", rel))
			continue
		}
		logging.Debug("verified API file", "file", rel)
	}
	return errors
}

// CheckDeployment fetches the required endpoints of a deployed API and
// reports every one that is unreachable or not valid JSON.
func CheckDeployment(ctx context.Context, client *source.Client, baseURL string) []string {
	var errors []string
	for _, rel := range requiredFiles {
		url := baseURL + "/" + rel
		body, err := client.Get(ctx, url)
		if err != nil {
			errors = append(errors, fmt.Sprintf("endpoint unreachable: %s (%v)", rel, err))
			continue
		}
		var doc any
		if err := json.Unmarshal(body, &doc); err != nil {
			errors = append(errors, fmt.Sprintf("endpoint is not valid JSON: %s", rel))
			continue
		}
		logging.Info("deployment endpoint ok", "endpoint", rel)
	}
	return errors
}
