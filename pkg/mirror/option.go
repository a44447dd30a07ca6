package mirror

import (
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/hookmirror/pkg/credentials"
	"github.com/the-maldridge/hookmirror/pkg/notify"
	"github.com/the-maldridge/hookmirror/pkg/report"
)

// WithLogger sets the parent logger.
func WithLogger(l hclog.Logger) Option {
	return func(e *Engine) error {
		e.l = l.Named("mirror")
		return nil
	}
}

// WithTransport replaces the go-git transport.
func WithTransport(t Transport) Option {
	return func(e *Engine) error {
		e.transport = t
		return nil
	}
}

// WithCredentials sets the provider consulted before every clone and
// fetch.
func WithCredentials(p credentials.Provider) Option {
	return func(e *Engine) error {
		e.creds = p
		return nil
	}
}

// WithReporter shares a reporter with other components, such as the
// status API.
func WithReporter(r *report.Reporter) Option {
	return func(e *Engine) error {
		e.reporter = r
		return nil
	}
}

// WithBranch tracks a fixed branch instead of the remote default.
func WithBranch(b string) Option {
	return func(e *Engine) error {
		e.branch = b
		return nil
	}
}

// WithTimeout bounds each sync attempt.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		e.timeout = d
		return nil
	}
}

// WithNotifier adds a notifier that hears about every recorded
// outcome.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) error {
		e.notifiers = append(e.notifiers, n)
		return nil
	}
}
