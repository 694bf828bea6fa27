package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	githubAPIBase = "https://api.github.com"
	rawGitHubBase = "https://raw.githubusercontent.com"
)

// RepoFile is one entry from the GitHub contents API listing.
type RepoFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// ListRepoFiles lists the files in a repository directory via the GitHub
// contents API.
func (c *Client) ListRepoFiles(ctx context.Context, owner, repo, path string) ([]RepoFile, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", githubAPIBase, owner, repo, path)

	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("listing %s/%s/%s: %w", owner, repo, path, err)
	}

	var files []RepoFile
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("parsing listing for %s/%s/%s: %w", owner, repo, path, err)
	}
	return files, nil
}

// RawURL builds the raw content URL for a file in a repository.
func RawURL(owner, repo, branch, path string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", rawGitHubBase, owner, repo, branch, path)
}

// jsonFiles filters a listing down to regular .json files.
func jsonFiles(files []RepoFile) []RepoFile {
	var out []RepoFile
	for _, f := range files {
		if f.Type != "" && f.Type != "file" {
			continue
		}
		if strings.HasSuffix(f.Name, ".json") {
			out = append(out, f)
		}
	}
	return out
}
