// Package report keeps the latest sync outcome for every repository.
package report

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/hookmirror/pkg/storage"
	"github.com/the-maldridge/hookmirror/pkg/types"
)

const keyPrefix = "outcome/"

// Reporter holds one outcome per repository.  Each Record replaces
// what was there; no history is kept.
type Reporter struct {
	l hclog.Logger

	mu       sync.RWMutex
	outcomes map[string]types.SyncOutcome

	storage storage.Storage
}

// New returns an empty reporter.
func New(l hclog.Logger) *Reporter {
	x := Reporter{
		l:        l.Named("report"),
		outcomes: make(map[string]types.SyncOutcome),
	}
	return &x
}

// EnablePersistence writes every recorded outcome through to s.  If
// not enabled, outcomes live only as long as the process.
func (r *Reporter) EnablePersistence(s storage.Storage) {
	r.storage = s
}

// Record stores o as the latest outcome for its repository.
func (r *Reporter) Record(o types.SyncOutcome) {
	r.mu.Lock()
	r.outcomes[o.Repo] = o
	r.mu.Unlock()

	r.l.Debug("Recorded outcome", "repo", o.Repo, "result", o.Result, "operation", o.Operation)
	r.persist(o)
}

// Latest returns the most recent outcome for fullName, if any.
func (r *Reporter) Latest(fullName string) (types.SyncOutcome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.outcomes[fullName]
	return o, ok
}

// All returns every known outcome ordered by repository name.
func (r *Reporter) All() []types.SyncOutcome {
	r.mu.RLock()
	out := make([]types.SyncOutcome, 0, len(r.outcomes))
	for _, o := range r.outcomes {
		out = append(out, o)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Repo < out[j].Repo })
	return out
}

// Restore loads previously persisted outcomes.  Outcomes already in
// memory are newer than anything on disk and are kept.
func (r *Reporter) Restore() error {
	if r.storage == nil {
		r.l.Warn("Storage is unavailable, outcomes will not be restored")
		return nil
	}

	keys, err := r.storage.Keys([]byte(keyPrefix))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		b, err := r.storage.Get(k)
		if err != nil || b == nil {
			r.l.Warn("Error loading outcome", "key", string(k), "error", err)
			continue
		}
		var o types.SyncOutcome
		if err := json.Unmarshal(b, &o); err != nil {
			r.l.Warn("Error decoding outcome", "key", string(k), "error", err)
			continue
		}
		if _, ok := r.outcomes[o.Repo]; ok {
			continue
		}
		r.outcomes[o.Repo] = o
	}
	r.l.Debug("Restored outcomes", "count", len(keys))
	return nil
}

func (r *Reporter) persist(o types.SyncOutcome) {
	if r.storage == nil {
		return
	}

	b, err := json.Marshal(o)
	if err != nil {
		r.l.Warn("Error serializing outcome", "repo", o.Repo, "error", err)
		return
	}
	if err := r.storage.Put(key(o.Repo), b); err != nil {
		r.l.Warn("Error writing outcome", "repo", o.Repo, "error", err)
	}
}

func key(fullName string) []byte {
	return []byte(keyPrefix + fullName)
}
