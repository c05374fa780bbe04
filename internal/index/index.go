// Package index provides the in-memory hash table mapping live keys to
// their on-disk location. This is the core Bitcask architectural idea:
// keep every key (and just enough metadata to find its value) resident in
// memory, while the value itself stays on disk until read.
//
// The index is also where the conflict-free update rule lives: since
// storage never edits a record in place, two updates to the same key can
// race to be applied (e.g. during a crash-recovery replay racing a
// concurrent compaction rewrite). Update rejects any write whose
// sequencer does not strictly exceed what is already recorded, so the
// index can never regress a key to an older value.
package index

import (
	stdErrors "errors"

	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/errors"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates and initializes a new Index.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		entries: make(map[string]entry, 2048),
	}, nil
}

// Update applies cmd's effect (set or remove) at the given pointer,
// enforcing the conflict-free update rule (I4): the write is rejected if
// the index already holds an entry for cmd.Key with a sequencer greater
// than or equal to cmd.Sequencer.
func (idx *Index) Update(cmd storage.Command, pointer storage.LogPointer) error {
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if existing, ok := idx.entries[cmd.Key]; ok {
		if !existing.Sequencer.Less(cmd.Sequencer) {
			return errors.NewConflictError(cmd.Key)
		}
	}

	switch cmd.Kind {
	case storage.CommandSet:
		idx.entries[cmd.Key] = entry{Pointer: pointer, Sequencer: cmd.Sequencer}
	case storage.CommandRemove:
		delete(idx.entries, cmd.Key)
	default:
		return errors.NewValidationError(nil, errors.ErrorCodeInvalidInput, "unknown command kind").
			WithField("kind").WithProvided(cmd.Kind)
	}

	return nil
}

// Lookup returns the LogPointer for key's current value, and whether key
// has a live entry at all.
func (idx *Index) Lookup(key string) (storage.LogPointer, bool) {
	if idx.closed.Load() {
		return storage.LogPointer{}, false
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	e, ok := idx.entries[key]
	if !ok {
		return storage.LogPointer{}, false
	}
	return e.Pointer, true
}

// Contains reports whether key currently has a live entry, without paying
// for copying out its pointer.
func (idx *Index) Contains(key string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.entries[key]
	return ok
}

// Len returns the number of live keys currently tracked.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Snapshot returns every live key and its current LogPointer. Used by
// compaction to decide what needs rewriting without holding the index
// lock for the duration of the rewrite itself.
func (idx *Index) Snapshot() map[string]storage.LogPointer {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make(map[string]storage.LogPointer, len(idx.entries))
	for key, e := range idx.entries {
		out[key] = e.Pointer
	}
	return out
}

// Replace atomically swaps key's pointer for a newly-written one, without
// touching its sequencer or running the conflict check — used once
// compaction has rewritten a live record and needs the index to point at
// its new location. If key is no longer live (a concurrent Remove beat
// the rewrite), Replace is a no-op.
func (idx *Index) Replace(key string, pointer storage.LogPointer) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e, ok := idx.entries[key]
	if !ok {
		return
	}
	e.Pointer = pointer
	idx.entries[key] = e
}

// Close releases the index's memory and marks it unusable for further
// operations.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("closing index")

	idx.mu.Lock()
	defer idx.mu.Unlock()
	clear(idx.entries)
	idx.entries = nil

	idx.log.Infow("index closed successfully")
	return nil
}
