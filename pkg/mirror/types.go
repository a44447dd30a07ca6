package mirror

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/hookmirror/pkg/credentials"
	"github.com/the-maldridge/hookmirror/pkg/lock"
	"github.com/the-maldridge/hookmirror/pkg/notify"
	"github.com/the-maldridge/hookmirror/pkg/report"
	"github.com/the-maldridge/hookmirror/pkg/source"
	"github.com/the-maldridge/hookmirror/pkg/target"
	"github.com/the-maldridge/hookmirror/pkg/types"
)

// A Transport moves repository data between a remote and a mirror
// directory.  source.Git is the production implementation.
type Transport interface {
	Inspect(path string) (types.DiskState, error)
	Clone(context.Context, source.Request) (string, error)
	Update(context.Context, source.Request) (string, error)
}

// Engine keeps mirrors in sync with their remotes.  It is safe for
// concurrent use; work on any one mirror is serialized through the
// lock registry.
type Engine struct {
	l hclog.Logger

	resolver  *target.Resolver
	base      string
	locks     *lock.Registry
	transport Transport
	creds     credentials.Provider
	reporter  *report.Reporter
	notifiers []notify.Notifier

	branch  string
	timeout time.Duration

	stateMutex sync.Mutex
	states     map[string]types.SyncState

	// claims holds the paths of clones in progress.
	claimMutex sync.Mutex
	claims     map[string]struct{}
}

// Option configures an Engine.
type Option func(*Engine) error
