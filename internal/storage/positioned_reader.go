package storage

import (
	"bufio"
	"io"
	"os"

	"github.com/ignitedb/ignite/pkg/errors"
)

// positionedReader wraps an owning *os.File opened read-only and exposes
// both sequential streaming (via Read, tracking its own cursor explicitly
// so a caller never has to re-derive it) and random bounded reads (via
// io.ReaderAt, used for point lookups through a LogPointer). The two modes
// don't interfere: ReadAt never moves the file's cursor or this reader's
// tracked offset.
type positionedReader struct {
	file   *os.File
	path   string
	buf    *bufio.Reader
	offset int64
}

// newPositionedReader opens path read-only.
func newPositionedReader(path string) (*positionedReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open segment for reading").
			WithPath(path)
	}
	return &positionedReader{file: file, path: path, buf: bufio.NewReader(file)}, nil
}

// Offset returns the current sequential-read cursor: the number of bytes
// consumed through Read since the last Reset.
func (r *positionedReader) Offset() int64 {
	return r.offset
}

// Read advances the sequential cursor from wherever Reset last placed it,
// satisfying io.Reader so a positionedReader can back a StreamDecoder
// directly. Offset is advanced by exactly the number of bytes returned,
// including on a partial read paired with a non-nil error.
func (r *positionedReader) Read(p []byte) (int, error) {
	n, err := r.buf.Read(p)
	r.offset += int64(n)
	if err != nil && err != io.EOF {
		return n, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read segment").WithPath(r.path)
	}
	return n, err
}

// Reset seeks the underlying file back to the start and zeroes Offset,
// readying the reader for a fresh full-segment replay.
func (r *positionedReader) Reset() error {
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek segment to start").
			WithPath(r.path)
	}
	r.buf.Reset(r.file)
	r.offset = 0
	return nil
}

// ReadAt implements io.ReaderAt so DecodeAt can pull an exact record span
// without disturbing any in-progress sequential read.
func (r *positionedReader) ReadAt(p []byte, off int64) (int, error) {
	return r.file.ReadAt(p, off)
}

// Close closes the underlying file handle.
func (r *positionedReader) Close() error {
	if err := r.file.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close segment reader").
			WithPath(r.path)
	}
	return nil
}
