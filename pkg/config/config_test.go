package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	c := NewConfig()
	assert.True(t, filepath.IsAbs(c.BaseDir))
	assert.Equal(t, 5*time.Minute, c.Timeout)
	assert.Equal(t, "memory", c.Storage)
	assert.NoError(t, c.Validate())
}

func TestLoadFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "hookmirror.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
base_dir: /srv/mirrors
repos:
  - org/one
  - org/two
branch: dev
timeout: 90s
storage: bitcask
credentials:
  provider: static
  username: buildbot
notifier:
  provider: nomad
  job: rebuild
`), 0644))

	c := NewConfig()
	require.NoError(t, c.LoadFromFile(p))

	assert.Equal(t, "/srv/mirrors", c.BaseDir)
	assert.Equal(t, []string{"org/one", "org/two"}, c.Repos)
	assert.Equal(t, "dev", c.Branch)
	assert.Equal(t, 90*time.Second, c.Timeout)
	assert.Equal(t, "bitcask", c.Storage)
	assert.Equal(t, "static", c.Credentials.Provider)
	assert.Equal(t, "buildbot", c.Credentials.Username)
	assert.Equal(t, "hookmirror", c.Credentials.KeyringService, "untouched keys keep defaults")
	assert.Equal(t, ":8080", c.Bind)
	assert.Equal(t, "rebuild", c.Notifier.Job)
	assert.NoError(t, c.Validate())
}

func TestLoadFromFileRejectsUnknownKeys(t *testing.T) {
	p := filepath.Join(t.TempDir(), "hookmirror.yaml")
	require.NoError(t, os.WriteFile(p, []byte("base_dri: /typo\n"), 0644))
	assert.Error(t, NewConfig().LoadFromFile(p))
}

func TestLoadFromFileMissing(t *testing.T) {
	assert.Error(t, NewConfig().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HOOKMIRROR_BASE_DIR", "/env/mirrors")
	t.Setenv("HOOKMIRROR_TOKEN", "tok")
	t.Setenv("HOOKMIRROR_WEBHOOK_SECRET", "shh")

	c := NewConfig()
	c.LoadFromEnv()
	assert.Equal(t, "/env/mirrors", c.BaseDir)
	assert.Equal(t, "tok", c.Credentials.Token)
	assert.Equal(t, "shh", c.WebhookSecret)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	c := NewConfig()
	c.BaseDir = "relative"
	c.Timeout = 0
	c.Repos = []string{"a/b", "a/b"}
	c.Notifier.Provider = "nomad"

	err := c.Validate()
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 4)
}
