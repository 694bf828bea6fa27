package source

import (
	"context"
	"fmt"

	"github.com/everse/unified-api/pkg/cache"
	"github.com/everse/unified-api/pkg/config"
	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/model"
)

// Adapter fetches and validates entities from the configured GitHub sources,
// with a cache short-circuit in front of the network.
type Adapter struct {
	client *Client
	store  *cache.Store
	cfg    *config.Config
}

// NewAdapter wires a source adapter.
func NewAdapter(client *Client, store *cache.Store, cfg *config.Config) *Adapter {
	return &Adapter{client: client, store: store, cfg: cfg}
}

// Indicators returns the validated indicator collection. With useCache set, a
// readable cache file short-circuits the fetch; otherwise the result is
// fetched, validated, and written back to the cache.
func (a *Adapter) Indicators(ctx context.Context, useCache bool) ([]*model.Indicator, error) {
	if useCache {
		if cached, err := a.store.LoadIndicators(); err == nil && len(cached) > 0 {
			logging.Info("loaded indicators from cache", "count", len(cached))
			return cached, nil
		}
	}

	raw, err := a.fetchRaw(ctx, "indicator", a.cfg.Sources.Indicators)
	if err != nil {
		return nil, err
	}

	validated := ValidateIndicators(raw)
	if len(validated) > 0 {
		if err := a.store.SaveIndicators(validated); err != nil {
			logging.Warn("failed to save indicators cache", "error", err)
		}
	}
	return validated, nil
}

// Tools returns the validated tool collection.
func (a *Adapter) Tools(ctx context.Context, useCache bool) ([]*model.Tool, error) {
	if useCache {
		if cached, err := a.store.LoadTools(); err == nil && len(cached) > 0 {
			logging.Info("loaded tools from cache", "count", len(cached))
			return cached, nil
		}
	}

	raw, err := a.fetchRaw(ctx, "tool", a.cfg.Sources.Tools)
	if err != nil {
		return nil, err
	}

	validated := ValidateTools(raw)
	if len(validated) > 0 {
		if err := a.store.SaveTools(validated); err != nil {
			logging.Warn("failed to save tools cache", "error", err)
		}
	}
	return validated, nil
}

// Dimensions returns the validated dimension collection.
func (a *Adapter) Dimensions(ctx context.Context, useCache bool) ([]*model.Dimension, error) {
	if useCache {
		if cached, err := a.store.LoadDimensions(); err == nil && len(cached) > 0 {
			logging.Info("loaded dimensions from cache", "count", len(cached))
			return cached, nil
		}
	}

	raw, err := a.fetchRaw(ctx, "dimension", a.cfg.Sources.Dimensions)
	if err != nil {
		return nil, err
	}

	validated := ValidateDimensions(raw)
	if len(validated) > 0 {
		if err := a.store.SaveDimensions(validated); err != nil {
			logging.Warn("failed to save dimensions cache", "error", err)
		}
	}
	return validated, nil
}

// fetchRaw lists a source directory and fetches every JSON file in it. A
// failed individual fetch downgrades to a warning; an empty listing is an
// error because it means the whole source is unreachable.
func (a *Adapter) fetchRaw(ctx context.Context, kind string, src config.Source) ([]map[string]any, error) {
	logging.Info("fetching from GitHub", "kind", kind, "repo", src.Owner+"/"+src.Repo, "path", src.Path)

	files, err := a.client.ListRepoFiles(ctx, src.Owner, src.Repo, src.Path)
	if err != nil {
		return nil, fmt.Errorf("listing %s files: %w", kind, err)
	}

	var records []map[string]any
	for _, f := range jsonFiles(files) {
		url := RawURL(src.Owner, src.Repo, src.Branch, f.Path)
		logging.Debug("fetching file", "kind", kind, "name", f.Name)

		record, err := a.client.GetJSON(ctx, url)
		if err != nil {
			logging.Warn("failed to fetch file", "kind", kind, "name", f.Name, "error", err)
			continue
		}
		records = append(records, record)
	}

	logging.Info("fetched records", "kind", kind, "count", len(records))
	return records, nil
}
