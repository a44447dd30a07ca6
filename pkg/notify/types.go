package notify

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/hookmirror/pkg/types"
)

// A Notifier tells something downstream that a sync attempt
// finished.  Implementations decide for themselves which outcomes are
// interesting.
type Notifier interface {
	Notify(context.Context, types.SyncOutcome) error
}

// A Factory is a constructor of a notifier.  It takes a logger to
// report early init problems with and the destination from the
// configuration, whose meaning depends on the driver.
type Factory func(l hclog.Logger, dest string) (Notifier, error)
