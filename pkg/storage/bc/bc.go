package bc

import (
	"errors"
	"os"

	"git.mills.io/prologic/bitcask"
	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"

	"github.com/the-maldridge/hookmirror/pkg/storage"
)

// bcStore is a bitcask database with zstd compressed values.  Sync
// outcomes carry raw transport error text, which compresses well.
type bcStore struct {
	s *bitcask.Bitcask

	enc *zstd.Encoder
	dec *zstd.Decoder

	l hclog.Logger
}

func init() {
	storage.RegisterCallback(newFactory)
}

func newFactory() {
	storage.RegisterFactory("bitcask", newBCStore)
}

func newBCStore(l hclog.Logger) (storage.Storage, error) {
	p := os.Getenv("HOOKMIRROR_BITCASK_PATH")
	if p == "" {
		l.Error("HOOKMIRROR_BITCASK_PATH must be set")
		return nil, errors.New("required variable unset")
	}
	return Open(l, p)
}

// Open opens or creates a bitcask store at path.
func Open(l hclog.Logger, path string) (storage.Storage, error) {
	x := new(bcStore)
	x.l = l.Named("bitcask")

	opts := []bitcask.Option{
		bitcask.WithMaxKeySize(1024),
		bitcask.WithMaxValueSize(1024 * 1024), // 1MiB
		bitcask.WithSync(true),
	}
	b, err := bitcask.Open(path, opts...)
	if err != nil {
		x.l.Error("Error initializing bitcask", "error", err)
		return nil, err
	}
	x.s = b

	// Nil writers: only EncodeAll and DecodeAll are used.
	if x.enc, err = zstd.NewWriter(nil); err != nil {
		b.Close()
		return nil, err
	}
	if x.dec, err = zstd.NewReader(nil); err != nil {
		b.Close()
		return nil, err
	}

	return x, nil
}

func (b *bcStore) Get(k []byte) ([]byte, error) {
	v, err := b.s.Get(k)
	switch err {
	case nil:
	case bitcask.ErrKeyNotFound:
		return nil, nil
	default:
		return nil, err
	}

	out, err := b.dec.DecodeAll(v, nil)
	if err != nil {
		b.l.Warn("Stored value is not valid zstd", "key", string(k), "error", err)
		return nil, err
	}
	return out, nil
}

func (b *bcStore) Put(k, v []byte) error {
	return b.s.Put(k, b.enc.EncodeAll(v, nil))
}

func (b *bcStore) Del(k []byte) error {
	return b.s.Delete(k)
}

func (b *bcStore) Keys(prefix []byte) ([][]byte, error) {
	var out [][]byte
	err := b.s.Scan(prefix, func(key []byte) error {
		out = append(out, append([]byte(nil), key...))
		return nil
	})
	return out, err
}

func (b *bcStore) Close() error {
	b.enc.Close()
	b.dec.Close()
	return b.s.Close()
}
