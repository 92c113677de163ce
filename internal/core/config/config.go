package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Analysis AnalysisConfig `koanf:"analysis"`
	RRV      RRVConfig      `koanf:"rrv"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

// DatabaseConfig controls optional feature persistence. With Enabled false
// the service analyzes and returns results without storing them.
type DatabaseConfig struct {
	Enabled      bool   `koanf:"enabled"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type AnalysisConfig struct {
	SamplingRate int `koanf:"sampling_rate"` // samples per second, passed to the rrv collaborator
	BatchWorkers int `koanf:"batch_workers"` // concurrent recordings in batch mode
}

// RRVConfig selects the variability collaborator. "static" reads a fixed
// metric map from MetricsFile (for deployments whose collaborator runs
// out-of-process); "zero" returns all-zero metrics and exists for smoke
// tests and pipeline dry runs.
type RRVConfig struct {
	Source      string `koanf:"source"` // static | zero
	MetricsFile string `koanf:"metrics_file"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if c.Database.Enabled {
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required when database.enabled is true")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	}

	if c.Analysis.SamplingRate <= 0 {
		return fmt.Errorf("analysis.sampling_rate must be > 0")
	}
	if c.Analysis.BatchWorkers <= 0 {
		return fmt.Errorf("analysis.batch_workers must be > 0")
	}

	switch c.RRV.Source {
	case "static":
		if strings.TrimSpace(c.RRV.MetricsFile) == "" {
			return fmt.Errorf("rrv.metrics_file is required when rrv.source is static")
		}
	case "zero":
	default:
		return fmt.Errorf("unsupported rrv.source %q (must be static or zero)", c.RRV.Source)
	}

	return nil
}

// Load parses config from defaults + file + env and validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 8,
		"server.mode":             "release",
		"database.enabled":        false,
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"analysis.sampling_rate":  1000,
		"analysis.batch_workers":  4,
		"rrv.source":              "static",
		"rrv.metrics_file":        "./config/rrv_metrics.yaml",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("RESPIRA_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "RESPIRA_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
