package storage

// Storage is an interface for a generic blobstore.  Get returns nil,
// nil for keys that do not exist.
type Storage interface {
	Get([]byte) ([]byte, error)
	Put([]byte, []byte) error
	Del([]byte) error

	// Keys lists every key starting with prefix.
	Keys(prefix []byte) ([][]byte, error)

	Close() error
}
