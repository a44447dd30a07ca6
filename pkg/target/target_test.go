package target

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDerivesLocalPath(t *testing.T) {
	base := t.TempDir()

	tgt, err := Resolve("org/repo", "https://example.com/org/repo", base)
	require.NoError(t, err)
	assert.Equal(t, "org/repo", tgt.FullName())
	assert.Equal(t, "https://example.com/org/repo", tgt.RemoteURL())
	assert.Equal(t, filepath.Join(base, "org", "repo"), tgt.LocalPath())

	again, err := Resolve("org/repo", "https://mirror.example.com/org/repo.git", base)
	require.NoError(t, err)
	assert.Equal(t, tgt.LocalPath(), again.LocalPath())
}

func TestResolveTrimsInput(t *testing.T) {
	base := t.TempDir()
	tgt, err := Resolve("  org/repo ", " https://example.com/org/repo\n", base)
	require.NoError(t, err)
	assert.Equal(t, "org/repo", tgt.FullName())
	assert.Equal(t, "https://example.com/org/repo", tgt.RemoteURL())
}

func TestResolveRejects(t *testing.T) {
	base := t.TempDir()

	cases := []struct {
		name     string
		fullName string
		remote   string
		base     string
	}{
		{"empty name", "", "https://example.com/x", base},
		{"empty remote", "org/repo", "", base},
		{"relative base", "org/repo", "https://example.com/x", "mirrors"},
		{"escape", "../../etc", "https://example.com/x", base},
		{"inner escape", "org/../../etc", "https://example.com/x", base},
		{"dot segment", "org/./repo", "https://example.com/x", base},
		{"bare dotdot", "..", "https://example.com/x", base},
		{"absolute", "/etc/passwd", "https://example.com/x", base},
		{"empty segment", "org//repo", "https://example.com/x", base},
		{"trailing slash", "org/repo/", "https://example.com/x", base},
		{"backslash", `org\..\..\etc`, "https://example.com/x", base},
		{"nul", "org/re\x00po", "https://example.com/x", base},
		{"git dir", "org/repo/.git", "https://example.com/x", base},
		{"git dir upper case", "org/repo/.GIT", "https://example.com/x", base},
		{"git dir in the middle", "org/.git/objects", "https://example.com/x", base},
		{"git dir alone", ".git", "https://example.com/x", base},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Resolve(c.fullName, c.remote, c.base)
			require.Error(t, err)
			var ce *ConfigurationError
			assert.True(t, errors.As(err, &ce), "expected ConfigurationError, got %T", err)
		})
	}
}

func TestResolvedPathStaysUnderBase(t *testing.T) {
	base := t.TempDir()
	names := []string{"a", "a/b", "org/repo.git", "org/..repo", "org/repo..", "x/y/z"}
	for _, n := range names {
		tgt, err := Resolve(n, "https://example.com", base)
		require.NoError(t, err, n)
		assert.True(t, strings.HasPrefix(tgt.LocalPath(), base+string(filepath.Separator)), n)
	}
}

func TestResolverAllowList(t *testing.T) {
	base := t.TempDir()
	r := NewResolver(base, []string{"org/allowed"})

	_, err := r.Resolve("org/allowed", "https://example.com/org/allowed")
	assert.NoError(t, err)

	_, err = r.Resolve("org/other", "https://example.com/org/other")
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Error(), "not configured")
}

func TestResolverWithoutAllowListAdmitsAll(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)
	assert.True(t, r.Allowed("anything/at-all"))

	_, err := r.Resolve("../../etc", "https://example.com")
	assert.Error(t, err)
}
