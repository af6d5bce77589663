/*
Package config defines server configuration and its loading rules.

Settings layer in order of precedence (low to high):
 1. built-in defaults (New)
 2. YAML file named by GOALS_CONFIG
 3. environment variables with the GOALS_ prefix (GOALS_ADDR, GOALS_DB_PATH, ...)

Command-line flags in cmd/server sit on top of all three.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables read by Load.
const EnvPrefix = "GOALS_"

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database file. ":memory:" keeps everything
	// in process, which is what the tests and the demo use.
	DBPath string `koanf:"db_path"`

	// CORSOrigins lists allowed browser origins for the REST API.
	CORSOrigins []string `koanf:"cors_origins"`

	// SnapshotInterval sets how often the progress sweep runs.
	// Zero disables the sweep.
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`

	// SeedDemo loads the demo family on startup when the store is empty.
	SeedDemo bool `koanf:"seed_demo"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Addr:             ":8080",
		DBPath:           "goals.db",
		CORSOrigins:      []string{"http://localhost:5173", "http://localhost:3000"},
		SnapshotInterval: 15 * time.Minute,
		SeedDemo:         false,
	}
}

// Load builds a Config by layering defaults, an optional file, and env vars.
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// GOALS_DB_PATH -> db_path. Underscores are preserved so env keys line
	// up with the koanf tags on the struct.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if c.SnapshotInterval < 0 {
		return errors.New("snapshot_interval must not be negative")
	}
	return nil
}
