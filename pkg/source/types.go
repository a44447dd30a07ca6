package source

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/hashicorp/go-hclog"
)

// Git performs the clone, fetch, and inspection work for mirrors
// using go-git.  It holds no per-repository state; callers serialize
// access to a given path.
type Git struct {
	l hclog.Logger
}

// A Request describes one transport operation against one mirror.
type Request struct {
	// Path is the local mirror directory.
	Path string

	// URL is the remote to clone from.  Updates use the origin
	// remote recorded in the mirror.
	URL string

	// Branch is the branch to track.  Empty means whatever the
	// remote HEAD pointed at when the mirror was cloned.
	Branch string

	// Auth is passed through to go-git untouched, nil for
	// anonymous access.
	Auth transport.AuthMethod
}
