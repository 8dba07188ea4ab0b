// Package config loads the CLI's environment-based configuration, matching
// the teacher's internal/config/config.go: a flat struct plus a LoadConfig
// that reads env vars with documented defaults. No .env file is loaded;
// values come from the process environment only.
package config

import (
	"os"
	"strconv"
)

// Config holds the batch compiler's tunables: where the persistent
// compilation cache lives, the default strictness and resource bounds
// applied when a CLI invocation doesn't override them, and libSQL
// credentials for a remote cache DSN.
type Config struct {
	CacheDSN        string
	LibSQLAuthToken string
	Strict          bool
	MaxNodes        int
	MaxDepth        int
	Workers         int
}

// LoadConfig loads configuration from environment variables, falling back
// to the documented defaults for anything unset or unparsable.
func LoadConfig() *Config {
	cfg := &Config{
		CacheDSN:        os.Getenv("LUASCRIPT_CACHE_DSN"),
		LibSQLAuthToken: os.Getenv("LUASCRIPT_LIBSQL_AUTH_TOKEN"),
		Strict:          false,
		MaxNodes:        100_000,
		MaxDepth:        256,
		Workers:         8,
	}

	if cfg.CacheDSN == "" {
		cfg.CacheDSN = ".luascript/cache.db"
	}

	if strictStr := os.Getenv("LUASCRIPT_STRICT"); strictStr != "" {
		if strict, err := strconv.ParseBool(strictStr); err == nil {
			cfg.Strict = strict
		}
	}

	if maxNodesStr := os.Getenv("LUASCRIPT_MAX_NODES"); maxNodesStr != "" {
		if maxNodes, err := strconv.Atoi(maxNodesStr); err == nil && maxNodes > 0 {
			cfg.MaxNodes = maxNodes
		}
	}

	if maxDepthStr := os.Getenv("LUASCRIPT_MAX_DEPTH"); maxDepthStr != "" {
		if maxDepth, err := strconv.Atoi(maxDepthStr); err == nil && maxDepth > 0 {
			cfg.MaxDepth = maxDepth
		}
	}

	if workersStr := os.Getenv("LUASCRIPT_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers > 0 {
			cfg.Workers = workers
		}
	}

	return cfg
}
