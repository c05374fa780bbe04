package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionedReaderReadAdvancesOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "00000001.dat")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	r, err := newPositionedReader(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, int64(0), r.Offset())

	buf := make([]byte, 5)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(buf))
	require.Equal(t, int64(5), r.Offset())

	n, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, " worl", string(buf))
	require.Equal(t, int64(10), r.Offset())
}

func TestPositionedReaderReadReachesEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "00000001.dat")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0644))

	r, err := newPositionedReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 2)
	_, err = r.Read(buf)
	require.NoError(t, err)

	_, err = r.Read(buf)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, int64(2), r.Offset())
}

func TestPositionedReaderResetRewindsOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "00000001.dat")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	r, err := newPositionedReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 3)
	_, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, int64(3), r.Offset())

	require.NoError(t, r.Reset())
	require.Equal(t, int64(0), r.Offset())

	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hel", string(buf[:n]))
}

func TestPositionedReaderReadAtIsIndependentOfCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "00000001.dat")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	r, err := newPositionedReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 5)
	_, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, int64(5), r.Offset())

	at := make([]byte, 5)
	n, err := r.ReadAt(at, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(at))

	// ReadAt must not have disturbed the sequential cursor.
	require.Equal(t, int64(5), r.Offset())
}
