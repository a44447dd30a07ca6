package webhook

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/hookmirror/pkg/types"
)

// A Syncer runs a notification through the sync engine.
type Syncer interface {
	Handle(ctx context.Context, fullName, remoteURL string) types.SyncOutcome
}

// A Reporter answers status queries.
type Reporter interface {
	Latest(fullName string) (types.SyncOutcome, bool)
	All() []types.SyncOutcome
}

// Handler accepts change notifications from a hosting provider and
// serves the resulting sync status.
type Handler struct {
	l hclog.Logger

	syncer   Syncer
	reporter Reporter
	secret   []byte
}

// Payload is the subset of a GitHub push (or ping) event that is
// needed to locate a repository.  Other providers that send the same
// fields work too.
type Payload struct {
	Zen        string `json:"zen"`
	Repository struct {
		FullName string `json:"full_name"`
		HTMLURL  string `json:"html_url"`
		CloneURL string `json:"clone_url"`
	} `json:"repository"`
}

// RemoteURL returns the URL to clone from, preferring the explicit
// clone URL.
func (p Payload) RemoteURL() string {
	if p.Repository.CloneURL != "" {
		return p.Repository.CloneURL
	}
	return p.Repository.HTMLURL
}
