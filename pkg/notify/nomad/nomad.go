// Package nomad dispatches a parameterized Nomad job whenever a
// mirror has been updated, so that builds can start from fresh
// sources.
package nomad

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/nomad/api"

	"github.com/the-maldridge/hookmirror/pkg/notify"
	"github.com/the-maldridge/hookmirror/pkg/types"
)

// Dispatcher is the subset of the Nomad jobs API that is used.
type Dispatcher interface {
	Dispatch(jobID string, meta map[string]string, payload []byte, q *api.WriteOptions) (*api.JobDispatchResponse, *api.WriteMeta, error)
}

type nomadNotifier struct {
	l   hclog.Logger
	d   Dispatcher
	job string
}

func init() {
	notify.RegisterInitCallback(cb)
}

func cb() {
	notify.RegisterFactory("nomad", New)
}

// New returns a notifier that dispatches job through a client built
// from the standard NOMAD_* environment variables.
func New(l hclog.Logger, job string) (notify.Notifier, error) {
	if job == "" {
		return nil, errors.New("nomad notifier requires a job")
	}
	c, err := api.NewClient(api.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return NewWithDispatcher(l, c.Jobs(), job), nil
}

// NewWithDispatcher wraps an existing dispatcher.
func NewWithDispatcher(l hclog.Logger, d Dispatcher, job string) notify.Notifier {
	return &nomadNotifier{
		l:   l.Named("nomad"),
		d:   d,
		job: job,
	}
}

// Notify dispatches the job for successful outcomes and ignores all
// others.
func (n *nomadNotifier) Notify(ctx context.Context, o types.SyncOutcome) error {
	if !o.OK() {
		n.l.Trace("Not dispatching for failed sync", "repo", o.Repo, "result", o.Result)
		return nil
	}

	meta := map[string]string{
		"repo":      o.Repo,
		"revision":  o.Revision,
		"operation": string(o.Operation),
	}
	wopts := (&api.WriteOptions{}).WithContext(ctx)
	res, _, err := n.d.Dispatch(n.job, meta, nil, wopts)
	if err != nil {
		n.l.Warn("Nomad error", "error", err)
		return err
	}
	n.l.Debug("Dispatched job", "repo", o.Repo, "rev", o.Revision, "eval", res.EvalID, "jid", res.DispatchedJobID)
	return nil
}
