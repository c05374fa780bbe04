package ignite

import (
	"testing"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func newTestInstance(t *testing.T) *Instance {
	t.Helper()
	db, err := NewInstance("ignite-test",
		options.WithDefaultOptions(),
		options.WithDataDir(t.TempDir()),
		options.WithSegmentSize(options.MinSegmentSize),
	)
	require.NoError(t, err)
	return db
}

func TestInstanceSetGetDelete(t *testing.T) {
	db := newTestInstance(t)
	defer db.Close()

	require.NoError(t, db.Set("foo", "bar"))

	value, found, err := db.Get("foo")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "bar", value)

	require.NoError(t, db.Delete("foo"))

	_, found, err = db.Get("foo")
	require.NoError(t, err)
	require.False(t, found)
}

func TestInstanceEmptyKeyRejected(t *testing.T) {
	db := newTestInstance(t)
	defer db.Close()

	require.ErrorIs(t, db.Set("", "v"), ErrEmptyKey)

	_, _, err := db.Get("")
	require.ErrorIs(t, err, ErrEmptyKey)

	require.ErrorIs(t, db.Delete(""), ErrEmptyKey)
}

func TestInstanceDeleteMissingKeyReturnsKeyNotFound(t *testing.T) {
	db := newTestInstance(t)
	defer db.Close()

	err := db.Delete("missing")
	require.Error(t, err)
	require.True(t, errors.IsKeyNotFoundError(err))
}
