// Package lock provides a keyed mutex: at most one holder per key,
// waiters served in arrival order, and no state kept for keys nobody
// is using.
package lock

import (
	"context"
	"sync"
)

// Registry hands out exclusive handles keyed by an arbitrary string,
// in practice the canonical local path of a mirror.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// entry exists exactly as long as the key is held or waited on.
type entry struct {
	held    bool
	waiters []chan struct{}
}

// Handle is proof of ownership of a key.  Release must be called
// exactly once when the work is done; further calls do nothing.
type Handle struct {
	r    *Registry
	key  string
	once sync.Once
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Acquire blocks until the key is free and every earlier waiter for
// the same key has had its turn.  If ctx ends first the caller leaves
// the queue and the context error is returned.
func (r *Registry) Acquire(ctx context.Context, key string) (*Handle, error) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = new(entry)
		r.entries[key] = e
	}
	if !e.held {
		e.held = true
		r.mu.Unlock()
		return r.handle(key), nil
	}
	ch := make(chan struct{})
	e.waiters = append(e.waiters, ch)
	r.mu.Unlock()

	select {
	case <-ch:
		return r.handle(key), nil
	case <-ctx.Done():
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range e.waiters {
		if w == ch {
			e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
			return nil, ctx.Err()
		}
	}
	// Not in the queue any more, so the key was handed to us while
	// we were giving up.  Pass it along.
	r.releaseLocked(key)
	return nil, ctx.Err()
}

// Len is the number of keys currently held or waited on.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) handle(key string) *Handle {
	return &Handle{r: r, key: key}
}

// releaseLocked hands the key to the oldest waiter, or forgets it if
// there is none.  r.mu must be held.
func (r *Registry) releaseLocked(key string) {
	e, ok := r.entries[key]
	if !ok {
		return
	}
	if len(e.waiters) == 0 {
		delete(r.entries, key)
		return
	}
	next := e.waiters[0]
	e.waiters = e.waiters[1:]
	close(next)
}

// Key returns the key this handle owns.
func (h *Handle) Key() string {
	return h.key
}

// Release gives up ownership of the key.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.r.mu.Lock()
		h.r.releaseLocked(h.key)
		h.r.mu.Unlock()
	})
}
