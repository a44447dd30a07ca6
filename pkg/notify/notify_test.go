package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/hookmirror/pkg/types"
)

type recorder struct {
	dest string
	seen []types.SyncOutcome
}

func (r *recorder) Notify(_ context.Context, o types.SyncOutcome) error {
	r.seen = append(r.seen, o)
	return nil
}

func TestRegisterAndConstruct(t *testing.T) {
	SetLogger(hclog.NewNullLogger())
	RegisterInitCallback(func() {
		RegisterFactory("recorder", func(_ hclog.Logger, dest string) (Notifier, error) {
			return &recorder{dest: dest}, nil
		})
	})
	DoCallbacks()

	n, err := Construct("recorder", "somewhere")
	require.NoError(t, err)
	assert.Equal(t, "somewhere", n.(*recorder).dest)

	require.NoError(t, n.Notify(context.Background(), types.SyncOutcome{Repo: "a/b"}))
	assert.Len(t, n.(*recorder).seen, 1)
}

func TestFirstRegistrationWins(t *testing.T) {
	SetLogger(hclog.NewNullLogger())
	RegisterFactory("dup", func(hclog.Logger, string) (Notifier, error) { return &recorder{dest: "first"}, nil })
	RegisterFactory("dup", func(hclog.Logger, string) (Notifier, error) { return &recorder{dest: "second"}, nil })

	n, err := Construct("dup", "")
	require.NoError(t, err)
	assert.Equal(t, "first", n.(*recorder).dest)
}

func TestUnknownNotifier(t *testing.T) {
	_, err := Construct("carrier-pigeon", "")
	var unknown ErrUnknownNotifier
	require.True(t, errors.As(err, &unknown))
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
