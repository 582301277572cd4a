// Package config loads and saves flowrank configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvConfigPath = "FLOWRANK_CONFIG"
	EnvOutput     = "FLOWRANK_OUTPUT"
)

// Config holds all flowrank configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Scoring    ScoringConfig    `toml:"scoring"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Output        string `toml:"output"`         // "text" or "json"
	OrderProvider string `toml:"order_provider"` // provider listed in recommended_order
	InputFormat   string `toml:"input_format,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Output:        "text",
			OrderProvider: "anthropic",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "flowrank")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "flowrank")
}

// Path returns the config file path, honoring FLOWRANK_CONFIG.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// LoadEnv loads the first .env file found in the working directory or the
// config directory. Variables already set in the environment win.
func LoadEnv() {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	paths = append(paths, filepath.Join(Dir(), ".env"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads the config at Path, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-chosen config path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if out := os.Getenv(EnvOutput); out != "" {
		c.General.Output = out
	}
}

// Validate checks the config for values the scorer cannot use.
func (c Config) Validate() error {
	switch c.General.Output {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: general.output: want text or json, got %q", c.General.Output)
	}
	return c.Scoring.validate()
}

// Save writes the config to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
