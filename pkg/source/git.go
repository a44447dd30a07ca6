package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	gitPlumbing "github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/hookmirror/pkg/types"
)

// New creates a new instance of the git transport.
func New(l hclog.Logger) *Git {
	x := Git{
		l: l.Named("git"),
	}
	return &x
}

// Inspect reports what is on disk at path.  See the package level
// Inspect for details.
func (g *Git) Inspect(path string) (types.DiskState, error) {
	st, err := Inspect(path)
	g.l.Trace("Inspected mirror", "path", path, "state", st, "error", err)
	return st, err
}

// Inspect decides whether path is missing, holds a usable mirror, or
// holds something else.  A usable mirror is a non-bare repository
// that go-git can open and that has an origin remote to fetch from.
// The returned error is only set for I/O problems that prevent an
// answer.
func Inspect(path string) (types.DiskState, error) {
	fi, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return types.DiskAbsent, nil
	case err != nil:
		return types.DiskAbsent, err
	case !fi.IsDir():
		return types.DiskCorrupt, nil
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		return types.DiskCorrupt, nil
	}
	if _, err := repo.Remote(git.DefaultRemoteName); err != nil {
		return types.DiskCorrupt, nil
	}
	return types.DiskValid, nil
}

// Clone creates the mirror at r.Path and returns the hash it checked
// out.  The caller owns cleanup if this fails.
func (g *Git) Clone(ctx context.Context, r Request) (string, error) {
	if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return "", fmt.Errorf("creating parent directory: %w", err)
	}

	opts := &git.CloneOptions{
		URL:  r.URL,
		Auth: r.Auth,
	}
	if r.Branch != "" {
		opts.ReferenceName = gitPlumbing.NewBranchReferenceName(r.Branch)
		opts.SingleBranch = true
	}

	g.l.Debug("Cloning repository", "path", r.Path, "url", r.URL, "branch", r.Branch)
	repo, err := git.PlainCloneContext(ctx, r.Path, false, opts)
	if err != nil {
		g.l.Trace("Error running PlainClone", "error", err)
		return "", &ErrTransport{Op: "clone", Err: err}
	}

	head, err := repo.Head()
	if err != nil {
		g.l.Trace("Error getting HEAD")
		return "", fmt.Errorf("reading HEAD after clone: %w", err)
	}
	return head.Hash().String(), nil
}

// Update fetches origin and moves the tracked branch and the working
// tree to whatever the remote has.  Local divergence is discarded,
// this is a mirror.  A failed fetch leaves the mirror untouched.
func (g *Git) Update(ctx context.Context, r Request) (string, error) {
	repo, err := git.PlainOpen(r.Path)
	if err != nil {
		return "", fmt.Errorf("opening mirror: %w", err)
	}

	g.l.Debug("Fetching origin for git repository", "path", r.Path)
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		Auth:       r.Auth,
		Force:      true,
	})
	switch {
	case err == nil:
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		g.l.Trace("Mirror already up to date", "path", r.Path)
	default:
		g.l.Trace("Error fetching", "error", err)
		return "", &ErrTransport{Op: "fetch", Err: err}
	}

	branch := r.Branch
	if branch == "" {
		branch, err = currentBranch(repo)
		if err != nil {
			return "", err
		}
	}

	remoteRef, err := repo.Reference(gitPlumbing.NewRemoteReferenceName(git.DefaultRemoteName, branch), true)
	if err != nil {
		return "", fmt.Errorf("remote has no branch %q: %w", branch, err)
	}
	hash := remoteRef.Hash()

	local := gitPlumbing.NewBranchReferenceName(branch)
	if err := repo.Storer.SetReference(gitPlumbing.NewHashReference(local, hash)); err != nil {
		return "", fmt.Errorf("updating %s: %w", local, err)
	}
	if err := repo.Storer.SetReference(gitPlumbing.NewSymbolicReference(gitPlumbing.HEAD, local)); err != nil {
		return "", fmt.Errorf("pointing HEAD at %s: %w", local, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		g.l.Trace("Error getting worktree")
		return "", err
	}
	if err := worktree.Reset(&git.ResetOptions{Commit: hash, Mode: git.HardReset}); err != nil {
		return "", fmt.Errorf("resetting worktree to %s: %w", hash, err)
	}

	g.l.Debug("Mirror updated", "path", r.Path, "branch", branch, "rev", hash.String())
	return hash.String(), nil
}

// At returns the current HEAD hash of the mirror at path.
func (g *Git) At(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		g.l.Trace("Error getting HEAD")
		return "", err
	}
	return head.Hash().String(), nil
}

func currentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Reference(gitPlumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if head.Type() != gitPlumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", errors.New("HEAD is detached and no branch is configured")
	}
	return head.Target().Short(), nil
}
