package seginfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateNameAndParseFileIDRoundTrip(t *testing.T) {
	for _, id := range []uint64{0, 1, 42, 99999999, 123456789} {
		name := GenerateName(id)
		require.True(t, len(name) >= MinFileIDWidth+len(Extension))

		parsed, err := ParseFileID(name)
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	}
}

func TestGenerateNameIsZeroPadded(t *testing.T) {
	require.Equal(t, "00000001.dat", GenerateName(1))
	require.Equal(t, "00000042.dat", GenerateName(42))
}

func TestParseFileIDRejectsWrongExtension(t *testing.T) {
	_, err := ParseFileID("00000001.log")
	require.Error(t, err)
}

func TestGetLatestSegmentInfoEmptyDir(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "data"), 0755))

	id, info, err := GetLatestSegmentInfo(dataDir, "data")
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)
	require.Nil(t, info)
}

func TestGetLatestSegmentInfoPicksHighestID(t *testing.T) {
	dataDir := t.TempDir()
	segDir := filepath.Join(dataDir, "data")
	require.NoError(t, os.MkdirAll(segDir, 0755))

	for _, id := range []uint64{1, 2, 10} {
		require.NoError(t, os.WriteFile(filepath.Join(segDir, GenerateName(id)), []byte("x"), 0644))
	}

	latestID, info, err := GetLatestSegmentInfo(dataDir, "data")
	require.NoError(t, err)
	require.Equal(t, uint64(10), latestID)
	require.NotNil(t, info)
}

func TestListSegmentPathsAscendingOrder(t *testing.T) {
	dataDir := t.TempDir()
	segDir := filepath.Join(dataDir, "data")
	require.NoError(t, os.MkdirAll(segDir, 0755))

	for _, id := range []uint64{3, 1, 2} {
		require.NoError(t, os.WriteFile(filepath.Join(segDir, GenerateName(id)), []byte("x"), 0644))
	}

	paths, err := ListSegmentPaths(dataDir, "data")
	require.NoError(t, err)
	require.Len(t, paths, 3)

	var ids []uint64
	for _, p := range paths {
		id, err := ParseFileID(p)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.Equal(t, []uint64{1, 2, 3}, ids)
}
