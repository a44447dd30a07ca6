package target

import (
	"path/filepath"
	"strings"
)

// A RepoTarget identifies one mirrored repository.  The local path is
// derived from the base directory and the full name and cannot be set
// independently, which is why the fields are only reachable through
// Resolve.
type RepoTarget struct {
	fullName  string
	remoteURL string
	localPath string
}

// FullName is the unique key of the repository, e.g. "org/name".
func (t RepoTarget) FullName() string { return t.fullName }

// RemoteURL is the clone and fetch source.
func (t RepoTarget) RemoteURL() string { return t.remoteURL }

// LocalPath is where the mirror lives on disk.
func (t RepoTarget) LocalPath() string { return t.localPath }

func (t RepoTarget) String() string { return t.fullName }

// Resolve maps a repository name and remote to a location under
// baseDir.  It touches nothing on disk.
func Resolve(fullName, remoteURL, baseDir string) (RepoTarget, error) {
	fullName = strings.TrimSpace(fullName)
	remoteURL = strings.TrimSpace(remoteURL)

	if fullName == "" {
		return RepoTarget{}, configErr("full name", "must not be empty")
	}
	if remoteURL == "" {
		return RepoTarget{}, configErr("remote url", "must not be empty")
	}
	if baseDir == "" || !filepath.IsAbs(baseDir) {
		return RepoTarget{}, configErr("base dir", "must be an absolute path")
	}
	if err := checkName(fullName); err != nil {
		return RepoTarget{}, err
	}

	base := filepath.Clean(baseDir)
	local := filepath.Join(base, filepath.FromSlash(fullName))

	// The joined path must land strictly below the base.
	rel, err := filepath.Rel(base, local)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return RepoTarget{}, configErr("full name", "resolves outside the base directory")
	}

	return RepoTarget{
		fullName:  fullName,
		remoteURL: remoteURL,
		localPath: local,
	}, nil
}

func checkName(name string) error {
	if strings.ContainsAny(name, "\\\x00") {
		return configErr("full name", "contains a forbidden character")
	}
	if strings.HasPrefix(name, "/") {
		return configErr("full name", "must be relative")
	}
	for _, seg := range strings.Split(name, "/") {
		switch seg {
		case "":
			return configErr("full name", "contains an empty path segment")
		case ".", "..":
			return configErr("full name", "contains a path traversal segment")
		}
		// A mirror's metadata directory is part of that mirror and
		// cannot be a mirror of its own.
		if strings.EqualFold(seg, ".git") {
			return configErr("full name", "contains a .git segment")
		}
	}
	return nil
}
