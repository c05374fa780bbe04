package compaction

import (
	"testing"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSystem(t *testing.T, segmentSize uint64) (*storage.Storage, *index.Index) {
	t.Helper()

	opts := options.NewDefaultOptions()
	options.WithDataDir(t.TempDir())(&opts)
	options.WithSegmentSize(segmentSize)(&opts)

	log := zap.NewNop().Sugar()

	s, err := storage.New(&storage.Config{Options: &opts, Logger: log})
	require.NoError(t, err)

	idx, err := index.New(&index.Config{Logger: log})
	require.NoError(t, err)

	return s, idx
}

func TestCompactionRunRescuesLiveRecordsAndDeletesOldSegments(t *testing.T) {
	s, idx := newTestSystem(t, options.MinSegmentSize)
	defer s.Close()

	value := make([]byte, options.MinSegmentSize/2+1)

	set := func(key, val string) {
		cmd := storage.NewSetCommand(key, val, storage.NewSequencer())
		pointer, err := s.Mutate(cmd)
		require.NoError(t, err)
		require.NoError(t, idx.Update(cmd, pointer))
	}

	set("k1", string(value)) // NUL bytes JSON-encode to six bytes each, so this record alone fills segment 1 and rolls to 2
	set("k2", string(value)) // lands in segment 2 and rolls to segment 3
	set("k1", "updated")     // overwrite k1 with a tiny value in segment 3; its old bytes in segment 1 are now dead weight

	segmentsBefore := s.SegmentIDs()
	require.Greater(t, len(segmentsBefore), 1)

	comp, err := New(&Config{Storage: s, Index: idx, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	require.NoError(t, comp.Run())

	v1, ok := idx.Lookup("k1")
	require.True(t, ok)
	v2, ok := idx.Lookup("k2")
	require.True(t, ok)

	got1, err := s.Get(v1)
	require.NoError(t, err)
	require.Equal(t, "updated", got1.Value)

	got2, err := s.Get(v2)
	require.NoError(t, err)
	require.Equal(t, string(value), got2.Value)

	segmentsAfter := s.SegmentIDs()
	for _, id := range segmentsBefore {
		require.NotContains(t, segmentsAfter, id, "segments present before the compaction pass must be gone afterward")
	}
}

func TestCompactionRunIsSafeWithOnlyActiveSegment(t *testing.T) {
	s, idx := newTestSystem(t, options.MinSegmentSize)
	defer s.Close()

	cmd := storage.NewSetCommand("solo", "value", storage.NewSequencer())
	pointer, err := s.Mutate(cmd)
	require.NoError(t, err)
	require.NoError(t, idx.Update(cmd, pointer))

	comp, err := New(&Config{Storage: s, Index: idx, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	require.NoError(t, comp.Run())

	newPointer, ok := idx.Lookup("solo")
	require.True(t, ok)

	got, err := s.Get(newPointer)
	require.NoError(t, err)
	require.Equal(t, "value", got.Value)
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	_, err := New(&Config{})
	require.Error(t, err)
}
