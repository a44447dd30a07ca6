package bc

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitcaskRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "db")
	s, err := Open(hclog.NewNullLogger(), p)
	require.NoError(t, err)

	detail := bytes.Repeat([]byte("fatal: could not read Username for 'https://github.com'\n"), 50)
	require.NoError(t, s.Put([]byte("outcome/org/repo"), detail))

	v, err := s.Get([]byte("outcome/org/repo"))
	require.NoError(t, err)
	assert.Equal(t, detail, v)

	missing, err := s.Get([]byte("outcome/none"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	keys, err := s.Keys([]byte("outcome/"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("outcome/org/repo")}, keys)

	require.NoError(t, s.Close())

	// Reopen to make sure values were written compressed and
	// come back intact.
	s, err = Open(hclog.NewNullLogger(), p)
	require.NoError(t, err)
	defer s.Close()

	v, err = s.Get([]byte("outcome/org/repo"))
	require.NoError(t, err)
	assert.Equal(t, detail, v)

	raw := s.(*bcStore)
	stored, err := raw.s.Get([]byte("outcome/org/repo"))
	require.NoError(t, err)
	assert.Less(t, len(stored), len(detail))

	require.NoError(t, s.Del([]byte("outcome/org/repo")))
	v, err = s.Get([]byte("outcome/org/repo"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFactoryRequiresPath(t *testing.T) {
	t.Setenv("HOOKMIRROR_BITCASK_PATH", "")
	_, err := newBCStore(hclog.NewNullLogger())
	assert.Error(t, err)
}
