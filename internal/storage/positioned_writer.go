package storage

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/ignitedb/ignite/pkg/errors"
)

// positionedWriter wraps an owning *os.File opened for append and tracks
// the current write offset explicitly, so callers can form a LogPointer
// from the offsets straddling a write without calling Stat (which would be
// racy against buffered, unflushed data).
type positionedWriter struct {
	file   *os.File
	path   string
	buf    *bufio.Writer
	offset int64
}

// newPositionedWriter opens path for append (creating it if necessary) and
// takes the file's current size as the starting offset.
func newPositionedWriter(path string) (*positionedWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat newly opened segment").
			WithPath(path)
	}

	return &positionedWriter{file: file, path: path, buf: bufio.NewWriter(file), offset: stat.Size()}, nil
}

// Offset returns the current write offset — the byte length of everything
// written (and flushed or buffered) through this writer so far.
func (w *positionedWriter) Offset() int64 {
	return w.offset
}

// Write appends p to the segment, advancing Offset by len(p). Data may sit
// in the internal buffer until Flush is called.
func (w *positionedWriter) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	w.offset += int64(n)
	if err != nil {
		return n, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write to segment")
	}
	return n, nil
}

// Flush pushes any buffered bytes to the underlying file. The core's
// durability contract is satisfied once Flush returns: fsync is
// deliberately not called (see the write-visibility rule in the facade's
// durability contract).
func (w *positionedWriter) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return errors.ClassifySyncError(err, filepath.Base(w.path), w.path, int(w.offset))
	}
	return nil
}

// Close flushes and closes the underlying file handle.
func (w *positionedWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if err := w.file.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close segment writer")
	}
	return nil
}

// Truncate cuts the underlying file down to size bytes and resets Offset
// to match. Used during replay to discard a trailing partial record left
// behind by a writer that crashed mid-append.
func (w *positionedWriter) Truncate(size int64) error {
	if err := w.buf.Flush(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to flush before truncate")
	}
	if err := w.file.Truncate(size); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to truncate segment")
	}
	w.offset = size
	return nil
}
