package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// NewConfig returns a config object with defaults initialized.  The
// config can be loaded from other sources to override the defaults.
func NewConfig() *Config {
	return &Config{
		BaseDir: filepath.Join(xdg.DataHome, "hookmirror", "mirrors"),
		Timeout: 5 * time.Minute,
		Bind:    ":8080",
		Storage: "memory",
		Credentials: Credentials{
			Provider:       "none",
			KeyringService: "hookmirror",
		},
	}
}

// LoadFromFile does as the name suggests, and loads the config from a
// file.  Keys missing from the file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv overrides values that should not have to live in a
// config file.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("HOOKMIRROR_BASE_DIR"); v != "" {
		c.BaseDir = v
	}
	if v := os.Getenv("HOOKMIRROR_TOKEN"); v != "" {
		c.Credentials.Token = v
	}
	if v := os.Getenv("HOOKMIRROR_WEBHOOK_SECRET"); v != "" {
		c.WebhookSecret = v
	}
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.BaseDir == "" || !filepath.IsAbs(c.BaseDir) {
		result = multierror.Append(result, fmt.Errorf("base_dir must be an absolute path, got %q", c.BaseDir))
	}
	if c.Timeout <= 0 {
		result = multierror.Append(result, errors.New("timeout must be positive"))
	}
	if c.Bind == "" {
		result = multierror.Append(result, errors.New("bind must not be empty"))
	}
	seen := make(map[string]struct{}, len(c.Repos))
	for _, r := range c.Repos {
		if _, dup := seen[r]; dup {
			result = multierror.Append(result, fmt.Errorf("repository %q listed twice", r))
		}
		seen[r] = struct{}{}
	}
	if c.Notifier.Provider != "" && c.Notifier.Job == "" {
		result = multierror.Append(result, errors.New("notifier.job is required when a notifier is configured"))
	}

	return result.ErrorOrNil()
}
