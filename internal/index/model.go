package index

import (
	"sync"
	"sync/atomic"

	"github.com/ignitedb/ignite/internal/storage"
	"go.uber.org/zap"
)

// entry is what the index keeps per live key: where the record lives on
// disk, and the sequencer that produced it, used to resolve the
// conflict-free update rule.
type entry struct {
	Pointer   storage.LogPointer
	Sequencer storage.Sequencer
}

// Index is the in-memory hash table mapping each live key to the location
// of its most recent write. It is the sole arbiter of "is this key live,
// and if so where": storage never decides liveness on its own, since a
// segment may hold several superseded versions of the same key.
//
// A single Index is not safe for concurrent use from multiple goroutines
// without external synchronization beyond what its own mutex provides for
// its own methods — callers sharing one Index across goroutines still
// need to serialize any read-modify-write sequence spanning more than one
// call (e.g. Lookup then Update).
type Index struct {
	log     *zap.SugaredLogger
	entries map[string]entry
	mu      sync.RWMutex
	closed  atomic.Bool
}

// Config encapsulates the configuration parameters required to initialize
// an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
