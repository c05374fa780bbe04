package index

import (
	"testing"

	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(&Config{Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return idx
}

func TestUpdateThenLookup(t *testing.T) {
	idx := newTestIndex(t)

	seq := storage.NewSequencer()
	cmd := storage.NewSetCommand("foo", "bar", seq)
	pointer := storage.LogPointer{FileID: 1, StartOffset: 0, Length: 10}

	require.NoError(t, idx.Update(cmd, pointer))

	got, ok := idx.Lookup("foo")
	require.True(t, ok)
	require.Equal(t, pointer, got)
}

func TestUpdateRejectsStaleSequencer(t *testing.T) {
	idx := newTestIndex(t)

	newer := storage.NewSequencer()
	older := storage.Sequencer{Timestamp: newer.Timestamp - 1}

	require.NoError(t, idx.Update(storage.NewSetCommand("foo", "v2", newer), storage.LogPointer{FileID: 2}))

	err := idx.Update(storage.NewSetCommand("foo", "v1", older), storage.LogPointer{FileID: 1})
	require.Error(t, err)
	require.True(t, errors.IsConflictError(err))

	// The newer value must still be in place.
	got, ok := idx.Lookup("foo")
	require.True(t, ok)
	require.Equal(t, uint64(2), got.FileID)
}

func TestUpdateRemoveDeletesEntry(t *testing.T) {
	idx := newTestIndex(t)

	seq1 := storage.NewSequencer()
	require.NoError(t, idx.Update(storage.NewSetCommand("foo", "bar", seq1), storage.LogPointer{FileID: 1}))
	require.True(t, idx.Contains("foo"))

	seq2 := storage.NewSequencer()
	require.NoError(t, idx.Update(storage.NewRemoveCommand("foo", seq2), storage.LogPointer{FileID: 2}))
	require.False(t, idx.Contains("foo"))

	_, ok := idx.Lookup("foo")
	require.False(t, ok)
}

func TestSnapshotAndReplace(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Update(
		storage.NewSetCommand("foo", "bar", storage.NewSequencer()), storage.LogPointer{FileID: 1, StartOffset: 0},
	))

	snap := idx.Snapshot()
	require.Contains(t, snap, "foo")

	newPointer := storage.LogPointer{FileID: 5, StartOffset: 100}
	idx.Replace("foo", newPointer)

	got, ok := idx.Lookup("foo")
	require.True(t, ok)
	require.Equal(t, newPointer, got)
}

func TestReplaceNoopWhenKeyGone(t *testing.T) {
	idx := newTestIndex(t)
	idx.Replace("missing", storage.LogPointer{FileID: 1})
	_, ok := idx.Lookup("missing")
	require.False(t, ok)
}

func TestLen(t *testing.T) {
	idx := newTestIndex(t)
	require.Equal(t, 0, idx.Len())

	require.NoError(t, idx.Update(storage.NewSetCommand("a", "1", storage.NewSequencer()), storage.LogPointer{}))
	require.NoError(t, idx.Update(storage.NewSetCommand("b", "2", storage.NewSequencer()), storage.LogPointer{}))
	require.Equal(t, 2, idx.Len())
}

func TestCloseThenOperationsFail(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Close())

	err := idx.Update(storage.NewSetCommand("a", "1", storage.NewSequencer()), storage.LogPointer{})
	require.ErrorIs(t, err, ErrIndexClosed)

	_, ok := idx.Lookup("a")
	require.False(t, ok)

	err = idx.Close()
	require.ErrorIs(t, err, ErrIndexClosed)
}
