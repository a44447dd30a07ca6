package nomad

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/nomad/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/hookmirror/pkg/types"
)

type fakeJobs struct {
	job  string
	meta map[string]string
	err  error

	calls int
}

func (f *fakeJobs) Dispatch(job string, meta map[string]string, _ []byte, _ *api.WriteOptions) (*api.JobDispatchResponse, *api.WriteMeta, error) {
	f.calls++
	f.job = job
	f.meta = meta
	if f.err != nil {
		return nil, nil, f.err
	}
	return &api.JobDispatchResponse{EvalID: "eval", DispatchedJobID: job + "/dispatch-1"}, nil, nil
}

func TestDispatchOnSuccess(t *testing.T) {
	f := new(fakeJobs)
	n := NewWithDispatcher(hclog.NewNullLogger(), f, "mirror-updated")

	err := n.Notify(context.Background(), types.SyncOutcome{
		Repo:      "org/repo",
		Result:    types.Success,
		Operation: types.OpFetch,
		Revision:  "0123abcd",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, "mirror-updated", f.job)
	assert.Equal(t, map[string]string{
		"repo":      "org/repo",
		"revision":  "0123abcd",
		"operation": "fetch",
	}, f.meta)
}

func TestSkipsFailures(t *testing.T) {
	f := new(fakeJobs)
	n := NewWithDispatcher(hclog.NewNullLogger(), f, "mirror-updated")

	for _, r := range []types.Result{types.TransportFailure, types.LocalCorruption, types.InternalError} {
		require.NoError(t, n.Notify(context.Background(), types.SyncOutcome{Repo: "org/repo", Result: r}))
	}
	assert.Zero(t, f.calls)
}

func TestDispatchError(t *testing.T) {
	f := &fakeJobs{err: errors.New("no such job")}
	n := NewWithDispatcher(hclog.NewNullLogger(), f, "missing")

	err := n.Notify(context.Background(), types.SyncOutcome{Repo: "org/repo", Result: types.Success})
	assert.Error(t, err)
}

func TestNewRequiresJob(t *testing.T) {
	_, err := New(hclog.NewNullLogger(), "")
	assert.Error(t, err)
}
