package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore(t *testing.T) {
	s := New()

	v, err := s.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Put([]byte("outcome/org/b"), []byte("b")))
	require.NoError(t, s.Put([]byte("outcome/org/a"), []byte("a")))
	require.NoError(t, s.Put([]byte("other"), []byte("x")))

	keys, err := s.Keys([]byte("outcome/"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("outcome/org/a"), []byte("outcome/org/b")}, keys)

	require.NoError(t, s.Del([]byte("outcome/org/a")))
	v, err = s.Get([]byte("outcome/org/a"))
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.NoError(t, s.Close())
}

func TestMemStoreCopiesValues(t *testing.T) {
	s := New()
	buf := []byte("abc")
	require.NoError(t, s.Put([]byte("k"), buf))
	buf[0] = 'z'

	v, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}
