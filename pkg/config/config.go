package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Source identifies one GitHub directory of entity JSON files.
type Source struct {
	Owner  string `koanf:"owner"`
	Repo   string `koanf:"repo"`
	Path   string `koanf:"path"`
	Branch string `koanf:"branch"`
}

// Sources holds the per-entity-type source locations.
type Sources struct {
	Indicators Source `koanf:"indicators"`
	Tools      Source `koanf:"tools"`
	Dimensions Source `koanf:"dimensions"`
}

// Config holds all configuration for a run. It is constructed once at process
// start and passed by parameter; the graph builder itself needs none of it.
type Config struct {
	APIDir     string `koanf:"api_dir"`
	CacheDir   string `koanf:"cache_dir"`
	APIVersion string `koanf:"api_version"`
	BaseURL    string `koanf:"base_url"`
	Context    string `koanf:"context"`

	GitHubToken  string `koanf:"github_token"`
	HTTPTimeout  int    `koanf:"http_timeout"`  // seconds
	MaxRetries   int    `koanf:"max_retries"`
	RetryBackoff int    `koanf:"retry_backoff"` // exponential backoff multiplier, seconds

	SkipCache bool   `koanf:"skip_cache"`
	Serve     bool   `koanf:"serve"`
	Port      int    `koanf:"port"`
	Watch     bool   `koanf:"watch"`
	Check     string `koanf:"check"`
	Verbose   bool   `koanf:"verbose"`
	JSONLogs  bool   `koanf:"json_logs"`

	Sources Sources `koanf:"sources"`
}

// Load layers configuration from defaults, unified-api.toml, environment
// variables, and flags. Priority: flags > env > config file > defaults.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"api_dir":       "api/v1",
		"cache_dir":     ".cache",
		"api_version":   "v1",
		"base_url":      "https://everse-researchsoftware.github.io/unified-api/api/v1",
		"context":       "https://w3id.org/everse/api/v1/context.jsonld",
		"github_token":  "",
		"http_timeout":  30,
		"max_retries":   3,
		"retry_backoff": 2,
		"skip_cache":    false,
		"serve":         false,
		"port":          8080,
		"watch":         false,
		"check":         "",
		"verbose":       false,
		"json_logs":     false,

		"sources.indicators.owner":  "EVERSE-ResearchSoftware",
		"sources.indicators.repo":   "indicators",
		"sources.indicators.path":   "indicators",
		"sources.indicators.branch": "main",

		"sources.tools.owner":  "EVERSE-ResearchSoftware",
		"sources.tools.repo":   "TechRadar",
		"sources.tools.path":   "data/software-tools",
		"sources.tools.branch": "main",

		"sources.dimensions.owner":  "EVERSE-ResearchSoftware",
		"sources.dimensions.repo":   "indicators",
		"sources.dimensions.path":   "dimensions",
		"sources.dimensions.branch": "main",
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Config file is optional.
	_ = k.Load(file.Provider("unified-api.toml"), toml.Parser())

	// Environment variables, e.g. UNIFIED_API_GITHUB_TOKEN, UNIFIED_API_PORT.
	if err := k.Load(env.Provider("UNIFIED_API_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "UNIFIED_API_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Flag names use dashes on the command line, config keys use underscores.
	if f != nil {
		p := posflag.ProviderWithFlag(f, ".", k, func(pf *pflag.Flag) (string, interface{}) {
			key := strings.ReplaceAll(pf.Name, "-", "_")
			return key, posflag.FlagVal(f, pf)
		})
		if err := k.Load(p, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// mapProvider serves a plain map as a koanf provider for defaults.
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
