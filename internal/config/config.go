// Package config loads aioctx settings and carries them through the
// cobra command context.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/demoforge/aioctx/internal/auth"
	"github.com/demoforge/aioctx/internal/console"
)

type contextKey string

const configKey contextKey = "aioctx-config"

// FileConfig is the on-disk shape of ~/.config/aioctx/config.toml.
// Every field is optional; env vars override file values.
type FileConfig struct {
	AioBinary     string `toml:"aio_binary"`
	Verbose       bool   `toml:"verbose"`
	AuthStatusTTL string `toml:"auth_status_ttl"` // Go duration string
	WatchDebounce string `toml:"watch_debounce"`
}

// Settings is the resolved runtime configuration.
type Settings struct {
	AioBinary     string
	Verbose       bool
	AuthStatusTTL time.Duration
	WatchDebounce time.Duration
}

// Defaults for unset values.
const (
	DefaultAuthStatusTTL = 30 * time.Second
	DefaultWatchDebounce = 300 * time.Millisecond
)

// Path returns the config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "aioctx", "config.toml"), nil
}

// Load reads the config file (missing file is not an error) and applies
// AIOCTX_* env overrides on top.
func Load() (*Settings, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Settings, error) {
	var fc FileConfig
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	s := &Settings{
		AioBinary:     fc.AioBinary,
		Verbose:       fc.Verbose,
		AuthStatusTTL: parseDuration(fc.AuthStatusTTL, DefaultAuthStatusTTL),
		WatchDebounce: parseDuration(fc.WatchDebounce, DefaultWatchDebounce),
	}

	if v := os.Getenv("AIOCTX_AIO_BINARY"); v != "" {
		s.AioBinary = v
	}
	if os.Getenv("AIOCTX_VERBOSE") == "1" {
		s.Verbose = true
	}
	if v := os.Getenv("AIOCTX_AUTH_STATUS_TTL"); v != "" {
		s.AuthStatusTTL = parseDuration(v, s.AuthStatusTTL)
	}
	return s, nil
}

func parseDuration(v string, fallback time.Duration) time.Duration {
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GlobalConfig holds the wired collaborators shared by all aioctx
// commands. It is injected into the cobra command context by the root
// command's PersistentPreRun hook and consumed by subcommands.
type GlobalConfig struct {
	Settings  *Settings
	Logger    *zap.Logger
	Console   *console.Service
	Auth      *auth.Orchestrator
	Validator *console.Validator
}

// Inject adds cfg to the command context.
func Inject(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves cfg from the command context.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves cfg or panics; only for RunE bodies that run
// under the root command's injection hook.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("aioctx: config not found in context - this is a bug in aioctx")
	}
	return cfg
}
