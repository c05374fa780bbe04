package storage

import (
	"sync/atomic"

	"github.com/ignitedb/ignite/pkg/options"
	"go.uber.org/zap"
)

// Storage represents the core file-based storage component responsible for
// managing segment files and handling data persistence operations. It
// maintains the currently active segment writer plus a reader for every
// segment — active or sealed — so that point reads can reach any live
// record without re-opening files on the hot path.
//
// The Storage struct encapsulates all the state needed to manage segment
// files effectively: the active writer, a reader per FileId, configuration
// options that control behavior, and a logger for observability.
type Storage struct {
	activeFileID uint64                       // FileId currently accepting writes.
	activeWriter *positionedWriter            // Writer for the active segment.
	readers      map[uint64]*positionedReader // Reader for every known segment, keyed by FileId.
	options      *options.Options             // Configuration parameters controlling storage behavior.
	log          *zap.SugaredLogger           // Structured logger for operational visibility and debugging.
	closed       atomic.Bool                  // Flag indicating whether the storage has been closed.
}

// Config encapsulates all the configuration parameters required to
// initialize a Storage instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// LogPointer identifies the byte span holding a single serialized command:
// which segment it lives in, where it starts, and how many bytes it spans.
type LogPointer struct {
	FileID      uint64
	StartOffset int64
	Length      int64
}
