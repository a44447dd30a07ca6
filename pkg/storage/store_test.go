package storage_test

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/hookmirror/pkg/storage"
	_ "github.com/the-maldridge/hookmirror/pkg/storage/mem"
)

func TestInitializeRegisteredStore(t *testing.T) {
	storage.SetLogger(hclog.NewNullLogger())
	storage.DoCallbacks()
	assert.Contains(t, storage.Names(), "memory")

	s, err := storage.Initialize("memory")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put([]byte("outcome/a"), []byte("1")))
	v, err := s.Get([]byte("outcome/a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
}

func TestInitializeUnknownStore(t *testing.T) {
	_, err := storage.Initialize("floppy")
	require.Error(t, err)
	assert.IsType(t, storage.ErrUnknownStore{}, err)
	assert.Contains(t, err.Error(), "floppy")
}
