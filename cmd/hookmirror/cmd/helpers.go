package cmd

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/hookmirror/pkg/config"
	"github.com/the-maldridge/hookmirror/pkg/credentials"
	"github.com/the-maldridge/hookmirror/pkg/mirror"
	"github.com/the-maldridge/hookmirror/pkg/notify"
	"github.com/the-maldridge/hookmirror/pkg/report"
	"github.com/the-maldridge/hookmirror/pkg/storage"
	"github.com/the-maldridge/hookmirror/pkg/target"

	_ "github.com/the-maldridge/hookmirror/pkg/notify/nomad"
	_ "github.com/the-maldridge/hookmirror/pkg/storage/bc"
	_ "github.com/the-maldridge/hookmirror/pkg/storage/mem"
)

func newLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "hookmirror",
		Level: hclog.LevelFromString(logLevel),
	})
}

// loadConfig layers the config file and the environment over the
// defaults, then validates the result.
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", configPath, err)
		}
	}
	cfg.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStorage(l hclog.Logger, cfg *config.Config) (storage.Storage, error) {
	storage.SetLogger(l)
	storage.DoCallbacks()
	s, err := storage.Initialize(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return s, nil
}

// newReporter returns a reporter backed by s with whatever earlier
// runs left behind already loaded.
func newReporter(l hclog.Logger, s storage.Storage) (*report.Reporter, error) {
	r := report.New(l)
	r.EnablePersistence(s)
	if err := r.Restore(); err != nil {
		return nil, fmt.Errorf("restoring outcomes: %w", err)
	}
	return r, nil
}

func newEngine(l hclog.Logger, cfg *config.Config, r *report.Reporter) (*mirror.Engine, error) {
	creds, err := credentials.FromConfig(cfg.Credentials)
	if err != nil {
		return nil, err
	}

	opts := []mirror.Option{
		mirror.WithLogger(l),
		mirror.WithCredentials(creds),
		mirror.WithReporter(r),
		mirror.WithBranch(cfg.Branch),
		mirror.WithTimeout(cfg.Timeout),
	}

	if cfg.Notifier.Provider != "" {
		notify.SetLogger(l)
		notify.DoCallbacks()
		n, err := notify.Construct(cfg.Notifier.Provider, cfg.Notifier.Job)
		if err != nil {
			return nil, fmt.Errorf("initializing notifier: %w", err)
		}
		opts = append(opts, mirror.WithNotifier(n))
	}

	return mirror.New(target.NewResolver(cfg.BaseDir, cfg.Repos), opts...)
}
