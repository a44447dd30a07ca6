// Package mirror contains the sync state machine.  Each attempt
// inspects the mirror directory, then clones, updates, or gives up,
// and always produces exactly one outcome.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/the-maldridge/hookmirror/pkg/credentials"
	"github.com/the-maldridge/hookmirror/pkg/lock"
	"github.com/the-maldridge/hookmirror/pkg/report"
	"github.com/the-maldridge/hookmirror/pkg/source"
	"github.com/the-maldridge/hookmirror/pkg/target"
	"github.com/the-maldridge/hookmirror/pkg/types"
)

// DefaultTimeout bounds an attempt when no timeout is configured.
const DefaultTimeout = 5 * time.Minute

// New returns an engine that mirrors whatever r admits.
func New(r *target.Resolver, opts ...Option) (*Engine, error) {
	if r == nil {
		return nil, errors.New("a resolver is required")
	}
	e := Engine{
		l:        hclog.NewNullLogger(),
		resolver: r,
		locks:    lock.New(),
		creds:    credentials.None{},
		timeout:  DefaultTimeout,
		states:   make(map[string]types.SyncState),
		base:     filepath.Clean(r.BaseDir),
		claims:   make(map[string]struct{}),
	}
	for _, o := range opts {
		if err := o(&e); err != nil {
			return nil, err
		}
	}
	if e.transport == nil {
		e.transport = source.New(e.l)
	}
	if e.reporter == nil {
		e.reporter = report.New(e.l)
	}
	return &e, nil
}

// Handle runs one notification through to completion: resolve the
// target, wait for its lock, synchronize, release, then record and
// notify.  Requests that fail to resolve are returned but not
// recorded, since they do not name a mirror.
func (e *Engine) Handle(ctx context.Context, fullName, remoteURL string) types.SyncOutcome {
	start := time.Now()

	t, err := e.resolver.Resolve(fullName, remoteURL)
	if err != nil {
		e.l.Warn("Rejected sync request", "repo", fullName, "error", err)
		return types.SyncOutcome{
			Repo:       fullName,
			StartedAt:  start,
			FinishedAt: time.Now(),
			Result:     types.ConfigurationError,
			Operation:  types.OpResolve,
			Detail:     err.Error(),
		}
	}

	h, err := e.locks.Acquire(ctx, t.LocalPath())
	if err != nil {
		o := types.SyncOutcome{
			Repo:       t.FullName(),
			StartedAt:  start,
			FinishedAt: time.Now(),
			Result:     types.TransportFailure,
			Operation:  types.OpInspect,
			Detail:     fmt.Sprintf("gave up waiting for mirror lock: %v", err),
		}
		e.l.Warn("Gave up waiting for mirror", "repo", t, "error", err)
		e.reporter.Record(o)
		return o
	}
	defer h.Release()

	o := e.Synchronize(ctx, t)
	h.Release()

	e.reporter.Record(o)
	e.notify(ctx, o)
	return o
}

// Synchronize brings the mirror for t up to date.  The caller must
// hold the lock for t.LocalPath().
func (e *Engine) Synchronize(ctx context.Context, t target.RepoTarget) types.SyncOutcome {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	a := attempt{
		e: e,
		t: t,
		o: types.SyncOutcome{Repo: t.FullName(), StartedAt: time.Now()},
	}

	ds, err := e.transport.Inspect(t.LocalPath())
	if err != nil {
		return a.finish(types.InternalError, types.OpInspect, fmt.Sprintf("inspecting mirror: %v", err))
	}

	switch ds {
	case types.DiskAbsent:
		return a.clone(ctx)
	case types.DiskValid:
		if err := e.checkNesting(t.LocalPath(), false); err != nil {
			return a.nested(err)
		}
		return a.update(ctx)
	default:
		if err := e.checkNesting(t.LocalPath(), true); err != nil {
			return a.nested(err)
		}
		e.setState(t.FullName(), types.Failed)
		e.l.Error("Mirror directory is not a usable repository", "repo", t, "path", t.LocalPath())
		return a.finish(types.LocalCorruption, types.OpInspect,
			fmt.Sprintf("%s exists but is not a usable repository", t.LocalPath()))
	}
}

// State returns what the engine last observed for fullName.  Mirrors
// that have never been synchronized by this process are Absent.
func (e *Engine) State(fullName string) types.SyncState {
	e.stateMutex.Lock()
	defer e.stateMutex.Unlock()
	return e.states[fullName]
}

func (e *Engine) setState(fullName string, s types.SyncState) {
	e.stateMutex.Lock()
	e.states[fullName] = s
	e.stateMutex.Unlock()
}

func (e *Engine) notify(ctx context.Context, o types.SyncOutcome) {
	for _, n := range e.notifiers {
		if err := n.Notify(ctx, o); err != nil {
			e.l.Warn("Notifier failed", "repo", o.Repo, "error", err)
		}
	}
}

// attempt carries one run of the state machine.
type attempt struct {
	e *Engine
	t target.RepoTarget
	o types.SyncOutcome
}

func (a *attempt) request() (source.Request, error) {
	auth, err := a.e.creds.CredentialsFor(a.t.RemoteURL())
	if err != nil {
		return source.Request{}, err
	}
	return source.Request{
		Path:   a.t.LocalPath(),
		URL:    a.t.RemoteURL(),
		Branch: a.e.branch,
		Auth:   auth,
	}, nil
}

// nested ends an attempt whose target collides with another mirror.
// Nothing on disk is touched and the recorded state is kept.
func (a *attempt) nested(err error) types.SyncOutcome {
	var ne *errNested
	if !errors.As(err, &ne) {
		return a.finish(types.InternalError, types.OpInspect, fmt.Sprintf("checking for nested mirrors: %v", err))
	}
	a.e.l.Warn("Refusing nested mirror", "repo", a.t, "error", err)
	return a.finish(types.ConfigurationError, types.OpInspect, err.Error())
}

func (a *attempt) clone(ctx context.Context) types.SyncOutcome {
	release, err := a.e.claim(a.t.LocalPath())
	if err != nil {
		return a.nested(err)
	}
	defer release()

	req, err := a.request()
	if err != nil {
		a.e.setState(a.t.FullName(), types.Absent)
		return a.finish(types.TransportFailure, types.OpClone, fmt.Sprintf("obtaining credentials: %v", err))
	}

	a.e.l.Info("Cloning new mirror", "repo", a.t, "path", req.Path)
	rev, err := a.e.transport.Clone(ctx, req)
	if err == nil {
		a.e.setState(a.t.FullName(), types.Present)
		a.o.Revision = rev
		a.e.l.Info("Mirror cloned", "repo", a.t, "rev", rev)
		return a.finish(types.Success, types.OpClone, "")
	}

	a.e.l.Warn("Clone failed, removing partial mirror", "repo", a.t, "error", err)
	if rmErr := os.RemoveAll(req.Path); rmErr != nil {
		a.e.setState(a.t.FullName(), types.Failed)
		merr := multierror.Append(err, fmt.Errorf("removing partial clone: %w", rmErr))
		a.e.l.Error("Could not remove partial mirror", "repo", a.t, "path", req.Path, "error", rmErr)
		return a.finish(types.InternalError, types.OpClone, merr.Error())
	}
	a.e.pruneParents(req.Path)
	a.e.setState(a.t.FullName(), types.Absent)
	return a.finish(classify(ctx, err), types.OpClone, err.Error())
}

func (a *attempt) update(ctx context.Context) types.SyncOutcome {
	a.e.setState(a.t.FullName(), types.Present)

	req, err := a.request()
	if err != nil {
		return a.finish(types.TransportFailure, types.OpFetch, fmt.Sprintf("obtaining credentials: %v", err))
	}

	rev, err := a.e.transport.Update(ctx, req)
	if err != nil {
		a.e.l.Warn("Update failed", "repo", a.t, "error", err)
		return a.finish(classify(ctx, err), types.OpFetch, err.Error())
	}
	a.o.Revision = rev
	a.e.l.Debug("Mirror updated", "repo", a.t, "rev", rev)
	return a.finish(types.Success, types.OpFetch, "")
}

func (a *attempt) finish(r types.Result, op types.Operation, detail string) types.SyncOutcome {
	a.o.FinishedAt = time.Now()
	a.o.Result = r
	a.o.Operation = op
	a.o.Detail = detail
	return a.o
}

// classify maps a failed clone or update to a result.  Anything the
// transport attributes to the remote side, and anything that ran out
// of time, is worth retrying; everything else is local.
func classify(ctx context.Context, err error) types.Result {
	var terr *source.ErrTransport
	switch {
	case errors.As(err, &terr):
		return types.TransportFailure
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return types.TransportFailure
	case ctx.Err() != nil:
		return types.TransportFailure
	default:
		return types.InternalError
	}
}
