package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/nstehr/vimy/assault-core/assault"
	"github.com/nstehr/vimy/assault-core/store"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Environment overrides, applied after the config file.
const (
	EnvSocket      = "ASSAULT_SOCKET"
	EnvMetricsAddr = "ASSAULT_METRICS_ADDR"
	EnvLogLevel    = "ASSAULT_LOG_LEVEL"
	EnvNamespace   = "ASSAULT_NAMESPACE"
	EnvStateDir    = "ASSAULT_STATE_DIR"
)

const (
	DefaultSocket         = "/tmp/assault.sock"
	DefaultMaxSnapshotAge = 10
)

// Tuning is the [tuning] table: the decision knobs plus the snapshot
// staleness window the agent enforces.
type Tuning struct {
	assault.Tuning
	MaxSnapshotAge int `toml:"max_snapshot_age"`
}

type Config struct {
	Socket      string `toml:"socket"`
	MetricsAddr string `toml:"metrics_addr"` // empty disables /metrics
	LogLevel    string `toml:"log_level"`
	Namespace   string `toml:"namespace"`
	StateDir    string `toml:"state_dir"` // empty keeps runtime state in memory only
	Tuning      Tuning `toml:"tuning"`
}

func Default() Config {
	return Config{
		Socket:    DefaultSocket,
		LogLevel:  "info",
		Namespace: store.DefaultNamespace,
		Tuning: Tuning{
			Tuning:         assault.DefaultTuning(),
			MaxSnapshotAge: DefaultMaxSnapshotAge,
		},
	}
}

// LoadEnv loads .env files into the process environment. A missing file is
// not an error; with no arguments ./.env is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the TOML file at path (optional when empty), applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		for _, key := range meta.Undecoded() {
			slog.Warn("unknown config key", "key", key.String(), "file", path)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvSocket, &c.Socket},
		{EnvMetricsAddr, &c.MetricsAddr},
		{EnvLogLevel, &c.LogLevel},
		{EnvNamespace, &c.Namespace},
		{EnvStateDir, &c.StateDir},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok {
			*o.dst = strings.TrimSpace(v)
		}
	}
}

// Validate rejects unusable settings and clamps the tuning knobs into range.
func (c *Config) Validate() error {
	c.Socket = strings.TrimSpace(c.Socket)
	if c.Socket == "" {
		return fmt.Errorf("%w: socket is required", ErrInvalidConfig)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Namespace == "" {
		c.Namespace = store.DefaultNamespace
	}
	if c.Tuning.MaxSnapshotAge < 0 {
		return fmt.Errorf("%w: max_snapshot_age must not be negative, got %d", ErrInvalidConfig, c.Tuning.MaxSnapshotAge)
	}
	c.Tuning.Validate()
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return lvl, nil
}
