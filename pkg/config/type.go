package config

import (
	"time"
)

// Config represents the complete application configuration that
// hookmirror supports.
type Config struct {
	// BaseDir is the absolute directory mirrors are kept under.
	BaseDir string `yaml:"base_dir"`

	// Repos is the allow-list of repository full names.  Empty
	// means every repository that notifies us gets mirrored.
	Repos []string `yaml:"repos"`

	// Branch is the branch each mirror tracks.  Empty tracks the
	// branch the remote HEAD named when the mirror was cloned.
	Branch string `yaml:"branch"`

	// Timeout bounds a single clone or fetch.
	Timeout time.Duration `yaml:"timeout"`

	Bind    string `yaml:"bind"`
	Storage string `yaml:"storage"`

	Credentials   Credentials `yaml:"credentials"`
	WebhookSecret string      `yaml:"webhook_secret"`
	Notifier      Notifier    `yaml:"notifier"`
}

// Credentials selects and configures the credential provider.
type Credentials struct {
	Provider       string `yaml:"provider"`
	Username       string `yaml:"username"`
	Token          string `yaml:"token"`
	KeyringService string `yaml:"keyring_service"`
}

// Notifier selects what, if anything, is told about successful
// syncs.
type Notifier struct {
	Provider string `yaml:"provider"`
	Job      string `yaml:"job"`
}
