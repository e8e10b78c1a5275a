// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/pipeline and cmd/api.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Search is one (query, region) pair issued against the maps-search API.
type Search struct {
	Query  string
	Region string
}

// Searches is the fixed, ordered list of queries the collector runs,
// localized per region.
var Searches = []Search{
	{Query: "roundnet club", Region: "Europe"},
	{Query: "spikeball club", Region: "Europe"},
	{Query: "roundnet verein", Region: "Germany"},
	{Query: "spikeball verein", Region: "Germany"},
	{Query: "roundnet verein", Region: "Austria"},
	{Query: "roundnet verein", Region: "Switzerland"},
	{Query: "club roundnet", Region: "France"},
	{Query: "club spikeball", Region: "France"},
	{Query: "roundnet", Region: "Italy"},
	{Query: "roundnet", Region: "Spain"},
	{Query: "roundnet", Region: "Netherlands"},
	{Query: "roundnet", Region: "Belgium"},
	{Query: "roundnet", Region: "Poland"},
	{Query: "roundnet", Region: "Czech Republic"},
	{Query: "roundnet", Region: "United Kingdom"},
	{Query: "roundnet", Region: "Ireland"},
	{Query: "roundnet", Region: "Sweden"},
	{Query: "roundnet", Region: "Denmark"},
	{Query: "roundnet", Region: "Norway"},
	{Query: "roundnet", Region: "Finland"},
	{Query: "roundnet", Region: "Portugal"},
	{Query: "roundnet", Region: "Hungary"},
	{Query: "roundnet", Region: "Croatia"},
	{Query: "roundnet", Region: "Slovenia"},
}

// Config is populated from environment variables. Stages validate the keys
// they need at invocation time; nothing is required to merely load.
type Config struct {
	// Checkpoint root and export target
	DataDir    string
	ExportPath string

	// Maps-search collaborator
	OutscraperAPIKey  string
	OutscraperBaseURL string
	SearchLimit       int
	SearchPause       time.Duration

	// Language-model collaborator
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string

	// Website crawling
	CrawlTimeout time.Duration

	// Publish target (optional)
	DatabaseURL string

	// Preview API server
	APIHost          string
	APIPort          int
	CORSAllowOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	return &Config{
		DataDir:    envOr("ATLAS_DATA_DIR", "data"),
		ExportPath: envOr("ATLAS_EXPORT_PATH", filepath.Join("lib", "data", "scraped-data.ts")),

		OutscraperAPIKey:  envOr("OUTSCRAPER_API_KEY", ""),
		OutscraperBaseURL: envOr("OUTSCRAPER_BASE_URL", "https://api.app.outscraper.com/maps/search-v3"),
		SearchLimit:       envInt("SEARCH_LIMIT", 50),
		SearchPause:       time.Duration(envInt("SEARCH_PAUSE_MS", 1500)) * time.Millisecond,

		AnthropicAPIKey:  envOr("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL: envOr("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		AnthropicModel:   envOr("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),

		CrawlTimeout: time.Duration(envInt("CRAWL_TIMEOUT_SECONDS", 10)) * time.Second,

		DatabaseURL: envOr("DATABASE_URL", ""),

		APIHost: envOr("API_HOST", "0.0.0.0"),
		APIPort: envInt("API_PORT", envInt("PORT", 8000)),
		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),
	}, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
