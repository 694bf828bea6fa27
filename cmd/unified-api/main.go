package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/everse/unified-api/pkg/apigen"
	"github.com/everse/unified-api/pkg/cache"
	"github.com/everse/unified-api/pkg/config"
	"github.com/everse/unified-api/pkg/graph"
	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/model"
	"github.com/everse/unified-api/pkg/output"
	"github.com/everse/unified-api/pkg/source"
	"github.com/everse/unified-api/pkg/watcher"
	"github.com/everse/unified-api/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("unified-api", pflag.ExitOnError)
	flags.Bool("serve", false, "Serve the generated API and live endpoints over HTTP")
	flags.Int("port", 8080, "Port for the HTTP server (only used with --serve)")
	flags.Bool("watch", false, "Watch the cache directory and regenerate on change")
	flags.Bool("skip-cache", false, "Bypass the cache and fetch everything from the sources")
	flags.String("check", "", "Check a deployed API at the given base URL and exit")
	flags.String("api-dir", "", "Output directory for the generated API tree")
	flags.Bool("verbose", false, "Enable debug logging")
	flags.Bool("json-logs", false, "Emit logs as JSON")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Verbose, cfg.JSONLogs)

	ctx := context.Background()

	client := source.NewClient(
		time.Duration(cfg.HTTPTimeout)*time.Second,
		cfg.MaxRetries,
		time.Duration(cfg.RetryBackoff)*time.Second,
		cfg.GitHubToken,
	)

	if cfg.Check != "" {
		errors := apigen.CheckDeployment(ctx, client, cfg.Check)
		output.PrintCheckReport(cfg.Check, errors)
		if len(errors) > 0 {
			os.Exit(1)
		}
		return
	}

	if cfg.Serve {
		runServeMode(ctx, cfg, client)
		return
	}

	summary, builder, err := runPipeline(ctx, cfg, client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	output.PrintRunSummary(*summary)
	if cfg.Verbose {
		fmt.Println()
		output.PrintConnectivity(builder.Connectivity())
	}
}

// runPipeline executes one full fetch-build-generate cycle and returns the
// console summary alongside the built graph.
func runPipeline(ctx context.Context, cfg *config.Config, client *source.Client) (*output.RunSummary, *graph.Builder, error) {
	start := time.Now()

	store := cache.NewStore(cfg.CacheDir)
	adapter := source.NewAdapter(client, store, cfg)
	useCache := !cfg.SkipCache

	indicators, err := adapter.Indicators(ctx, useCache)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching indicators: %w", err)
	}
	tools, err := adapter.Tools(ctx, useCache)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching tools: %w", err)
	}
	dimensions, err := adapter.Dimensions(ctx, useCache)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching dimensions: %w", err)
	}

	if len(indicators) == 0 || len(tools) == 0 || len(dimensions) == 0 {
		return nil, nil, fmt.Errorf("empty collection: indicators=%d tools=%d dimensions=%d",
			len(indicators), len(tools), len(dimensions))
	}

	if ok, errs := model.NewValidator().ValidateCollections(indicators, tools, dimensions); !ok {
		for _, msg := range errs {
			logging.Error("schema validation failed", "error", msg)
		}
		return nil, nil, fmt.Errorf("schema validation failed with %d error(s)", len(errs))
	}

	builder := graph.NewBuilder()
	builder.AddIndicators(indicators)
	builder.AddTools(tools)
	builder.AddDimensions(dimensions)
	builder.BuildAll()

	validEdges, validationErrors := builder.Validate()

	if err := store.SaveRelationships(builder.Snapshot()); err != nil {
		logging.Warn("failed to save relationships cache", "error", err)
	}

	if err := apigen.New(cfg).Generate(indicators, tools, dimensions, builder); err != nil {
		return nil, nil, fmt.Errorf("generating API: %w", err)
	}

	summary := &output.RunSummary{
		Indicators:       len(indicators),
		Tools:            len(tools),
		Dimensions:       len(dimensions),
		Edges:            len(builder.Edges()),
		ValidEdges:       validEdges,
		ValidationErrors: validationErrors,
		APIDir:           cfg.APIDir,
		Duration:         time.Since(start),
	}
	return summary, builder, nil
}

// runServeMode starts the HTTP server immediately, then runs the pipeline in
// the background so the first page load shows progress instead of waiting.
func runServeMode(ctx context.Context, cfg *config.Config, client *source.Client) {
	if err := web.EnsureDir(cfg.APIDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	server := web.NewServer(cfg.APIDir)
	defer server.Close()

	fmt.Printf("Starting server on http://localhost:%d\n", cfg.Port)

	go func() {
		runAndPublish(ctx, cfg, client, server)

		if cfg.Watch {
			watchAndRegenerate(ctx, cfg, client, server)
		}
	}()

	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("server failed", "error", err)
	}
}

// runAndPublish is one pipeline run with progress events for SSE subscribers.
func runAndPublish(ctx context.Context, cfg *config.Config, client *source.Client, server *web.Server) {
	server.PublishGenerationStatus("fetching", "Fetching source collections", 1, 3)

	summary, builder, err := runPipeline(ctx, cfg, client)
	if err != nil {
		logging.Error("pipeline failed", "error", err)
		server.PublishGenerationStatus("failed", err.Error(), 0, 3)
		return
	}

	server.PublishGenerationStatus("generating", "Writing API tree", 2, 3)
	server.SetBuilder(builder)
	server.PublishGenerationStatus("ready",
		fmt.Sprintf("API ready: %d relationships", summary.Edges), 3, 3)

	logging.Info("pipeline complete",
		"indicators", summary.Indicators,
		"tools", summary.Tools,
		"dimensions", summary.Dimensions,
		"edges", summary.Edges,
		"duration", summary.Duration.Round(time.Millisecond).String(),
	)
}

// watchAndRegenerate reruns the pipeline whenever a source cache file
// changes. Changes are debounced so a multi-file refresh triggers one run.
func watchAndRegenerate(ctx context.Context, cfg *config.Config, client *source.Client, server *web.Server) {
	cw, err := watcher.NewCacheWatcher(cfg.CacheDir)
	if err != nil {
		logging.Error("failed to create watcher", "error", err)
		return
	}
	if err := cw.Start(ctx); err != nil {
		logging.Error("failed to start watcher", "error", err)
		return
	}

	debouncer := watcher.NewDebouncer(cw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	for event := range debouncer.Output() {
		logging.Info("cache changed, regenerating", "files", len(event.Paths))
		runAndPublish(ctx, cfg, client, server)
	}
}
