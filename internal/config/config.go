// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Library  LibraryConfig  `toml:"library"`
	Import   ImportConfig   `toml:"import"`
	Log      LogConfig      `toml:"log"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LibraryConfig struct {
	// Root is the default scan root when the scan command gets no path.
	Root string `toml:"root"`
}

type ImportConfig struct {
	Extensions      []string `toml:"extensions"`
	ComputeHashes   *bool    `toml:"compute_hashes"`
	RefreshMetadata bool     `toml:"refresh_metadata"`
	CandidateLimit  int      `toml:"candidate_limit"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads and parses the configuration file. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		// Substitute environment variables
		content := substituteEnvVars(string(data))
		if _, err := toml.Decode(content, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Apply defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/vjockey.db"
	}
	if cfg.Import.CandidateLimit == 0 {
		cfg.Import.CandidateLimit = 5
	}
	if cfg.Import.ComputeHashes == nil {
		t := true
		cfg.Import.ComputeHashes = &t
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
