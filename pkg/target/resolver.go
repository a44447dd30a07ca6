package target

import "strings"

// Resolver applies the configured base directory and, if one is set,
// the allow-list of repositories before resolving a target.
type Resolver struct {
	BaseDir string
	allowed map[string]struct{}
}

// NewResolver returns a resolver rooted at baseDir.  An empty allow
// list admits every repository.
func NewResolver(baseDir string, allowed []string) *Resolver {
	x := Resolver{BaseDir: baseDir}
	if len(allowed) > 0 {
		x.allowed = make(map[string]struct{}, len(allowed))
		for _, a := range allowed {
			x.allowed[a] = struct{}{}
		}
	}
	return &x
}

// Allowed reports whether fullName passes the allow-list.
func (r *Resolver) Allowed(fullName string) bool {
	if r.allowed == nil {
		return true
	}
	_, ok := r.allowed[fullName]
	return ok
}

// Resolve rejects repositories that are not on the allow-list and
// otherwise behaves like the package level Resolve.
func (r *Resolver) Resolve(fullName, remoteURL string) (RepoTarget, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName != "" && !r.Allowed(fullName) {
		return RepoTarget{}, configErr("full name", "repository "+fullName+" is not configured for mirroring")
	}
	return Resolve(fullName, remoteURL, r.BaseDir)
}
