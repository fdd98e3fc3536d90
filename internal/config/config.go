package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the backend endpoint used when nothing is configured.
const DefaultBaseURL = "http://localhost:8000"

// Config represents the top-level config.yaml configuration.
type Config struct {
	// BaseURL is the backend endpoint, e.g. "http://localhost:8000".
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each API request.
	Timeout Duration `yaml:"timeout"`
	// RedirectDelay is the pause before an expired session is torn down,
	// so the error message is visible first.
	RedirectDelay Duration `yaml:"redirect_delay"`
}

// Duration is a time.Duration that round-trips through YAML as a string
// like "30s".
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       Duration(30 * time.Second),
		RedirectDelay: Duration(2 * time.Second),
	}
}

// Load reads a config.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault reads config.yaml, falling back to defaults when the file
// does not exist. Environment overrides are applied either way.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL scheme %q: must be http or https", u.Scheme)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %v: must not be negative", time.Duration(c.Timeout))
	}
	if c.RedirectDelay < 0 {
		return fmt.Errorf("invalid redirect delay %v: must not be negative", time.Duration(c.RedirectDelay))
	}
	return nil
}

// applyEnv overrides fields from SPENDWISE_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("SPENDWISE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("SPENDWISE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("SPENDWISE_REDIRECT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RedirectDelay = Duration(d)
		}
	}
}

// Dir returns the spendwise config directory, honoring SPENDWISE_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv("SPENDWISE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, "spendwise"), nil
}

// DefaultPath returns the path of config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// TokenPath returns the path of the persisted session token.
func TokenPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "token"), nil
}
