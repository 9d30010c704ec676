// Package config loads ambient configuration for tools built on pkg/icl
// (cmd/icl reads it for the verify command's Redis URL): environment
// variables with fallback defaults, optionally overlaid by a YAML file,
// in the style of the teacher's env-var-with-fallback-defaults loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds ambient runtime configuration. Nothing here reaches the pure
// pipeline in pkg/icl; it only configures the optional wrappers around it.
type Config struct {
	LogLevel         string `yaml:"log_level"`
	DatabaseURL      string `yaml:"database_url"`
	RedisURL         string `yaml:"redis_url"`
	OTLPEndpoint     string `yaml:"otlp_endpoint"`
	ObservabilityOn  bool   `yaml:"observability_enabled"`
	ProvenanceDBPath string `yaml:"provenance_db_path"`
}

// Load builds a Config from environment variables, then overlays any field
// set in the YAML file at path (path == "" skips the overlay).
func Load(path string) (*Config, error) {
	c := &Config{
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		DatabaseURL:      envOr("DATABASE_URL", ""),
		RedisURL:         envOr("REDIS_URL", ""),
		OTLPEndpoint:     envOr("OTLP_ENDPOINT", "localhost:4317"),
		ObservabilityOn:  os.Getenv("OBSERVABILITY_ENABLED") == "true",
		ProvenanceDBPath: envOr("PROVENANCE_DB_PATH", "icl-provenance.db"),
	}
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
