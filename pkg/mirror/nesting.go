package mirror

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Mirrors may not nest.  A name whose path lies inside another
// mirror, or whose path already holds other mirrors, is refused:
// each mirror tree belongs to exactly one lock.

// errNested describes a target that collides with another mirror.
type errNested struct {
	path  string
	other string
}

func (e *errNested) Error() string {
	if isBelow(e.path, e.other) {
		return fmt.Sprintf("%s holds other mirrors, e.g. %s", e.path, e.other)
	}
	return fmt.Sprintf("%s lies inside the mirror at %s", e.path, e.other)
}

// parents lists the directories strictly between base and path,
// outermost first.
func parents(base, path string) []string {
	var out []string
	for dir := filepath.Dir(path); dir != base && isBelow(base, dir); dir = filepath.Dir(dir) {
		out = append([]string{dir}, out...)
	}
	return out
}

func isBelow(base, path string) bool {
	return strings.HasPrefix(path, base+string(filepath.Separator))
}

func isRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// checkAncestors reports a mirror, on disk or being cloned, that
// contains path.  e.claimMutex must be held.
func (e *Engine) checkAncestors(path string) error {
	for _, dir := range parents(e.base, path) {
		if _, ok := e.claims[dir]; ok || isRepo(dir) {
			return &errNested{path: path, other: dir}
		}
	}
	return nil
}

// checkDescendants reports a mirror being cloned below path and, if
// walk is set, one already on disk.  e.claimMutex must be held.
func (e *Engine) checkDescendants(path string, walk bool) error {
	for c := range e.claims {
		if isBelow(path, c) {
			return &errNested{path: path, other: c}
		}
	}
	if !walk {
		return nil
	}

	var found string
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case p == path || !d.IsDir():
			return nil
		case d.Name() != ".git":
			return nil
		case filepath.Dir(p) == path:
			// path's own metadata, however broken.
			return fs.SkipDir
		}
		found = filepath.Dir(p)
		return fs.SkipAll
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if found != "" {
		return &errNested{path: path, other: found}
	}
	return nil
}

// checkNesting runs both checks without claiming anything.  Walking
// the tree is only worthwhile for a directory that is not a mirror
// itself, since nothing can be cloned below a mirror.
func (e *Engine) checkNesting(path string, walk bool) error {
	e.claimMutex.Lock()
	defer e.claimMutex.Unlock()
	if err := e.checkAncestors(path); err != nil {
		return err
	}
	return e.checkDescendants(path, walk)
}

// claim reserves path for a clone.  Until the returned release is
// called no nested clone can start.
func (e *Engine) claim(path string) (func(), error) {
	e.claimMutex.Lock()
	defer e.claimMutex.Unlock()
	if err := e.checkAncestors(path); err != nil {
		return nil, err
	}
	if err := e.checkDescendants(path, false); err != nil {
		return nil, err
	}
	e.claims[path] = struct{}{}
	return func() {
		e.claimMutex.Lock()
		delete(e.claims, path)
		e.claimMutex.Unlock()
	}, nil
}

// pruneParents removes the directories a failed clone of path left
// empty below the base.  It stops at the first one that is not empty
// or that another clone in progress needs.
func (e *Engine) pruneParents(path string) {
	e.claimMutex.Lock()
	defer e.claimMutex.Unlock()
	p := parents(e.base, path)
	for i := len(p) - 1; i >= 0; i-- {
		for c := range e.claims {
			if c != path && isBelow(p[i], c) {
				return
			}
		}
		if err := os.Remove(p[i]); err != nil {
			return
		}
	}
}
