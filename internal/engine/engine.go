// Package engine provides the core database engine implementation for the
// Ignite storage system.
//
// The engine serves as the central coordinator and entry point for all
// database operations. It orchestrates the interaction between three main
// subsystems:
//   - Index: the in-memory hash table mapping live keys to disk locations.
//   - Storage: the append-only segmented log holding every record.
//   - Compaction: reclaims space by rewriting live records forward and
//     dropping the segments left behind.
//
// Storage and compaction do not synchronize internally, and the index's
// own lock covers only one method call at a time, so a sequence of calls
// across them expects a single caller. Engine is the one place that
// enforces that:
// every operation holds its mutex for its full duration, so the facade
// above it can be used freely from multiple goroutines.
package engine

import (
	stdErrors "errors"
	"sync"
	"sync/atomic"

	"github.com/ignitedb/ignite/internal/compaction"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

// Engine represents the main database engine that coordinates all
// subsystems. It acts as the primary interface for database operations
// and manages the lifecycle of all internal components.
type Engine struct {
	options    *options.Options
	log        *zap.SugaredLogger
	closed     atomic.Bool
	mu         sync.Mutex
	index      *index.Index
	storage    *storage.Storage
	compaction *compaction.Compaction
}

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New creates and initializes a new Engine instance with the provided
// configuration: it brings up storage, replays every existing segment
// into a fresh index, and wires a compaction pass bound to both.
func New(config *Config) (*Engine, error) {
	if config == nil {
		return nil, errors.NewRequiredFieldError("config")
	}
	if config.Logger == nil {
		return nil, errors.NewRequiredFieldError("config.logger")
	}
	if config.Options == nil {
		return nil, errors.NewRequiredFieldError("config.options")
	}
	if err := config.Options.Validate(); err != nil {
		return nil, errors.NewConfigurationValidationError("options", err.Error())
	}

	idx, err := index.New(&index.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	store, err := storage.New(&storage.Config{Logger: config.Logger, Options: config.Options})
	if err != nil {
		return nil, err
	}

	config.Logger.Infow("replaying segments to rebuild index")
	if err := store.BuildIndex(idx); err != nil {
		return nil, err
	}
	config.Logger.Infow("index rebuilt from segment replay", "liveKeys", idx.Len())

	comp, err := compaction.New(&compaction.Config{Storage: store, Index: idx, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	return &Engine{
		options:    config.Options,
		log:        config.Logger,
		index:      idx,
		storage:    store,
		compaction: comp,
	}, nil
}

// Set writes key=value durably and makes it immediately visible to Get.
func (e *Engine) Set(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return ErrEngineClosed
	}

	cmd := storage.NewSetCommand(key, value, storage.NewSequencer())
	pointer, err := e.storage.Mutate(cmd)
	if err != nil {
		return err
	}
	if err := e.index.Update(cmd, pointer); err != nil {
		return err
	}

	return e.maybeCompact()
}

// Get returns the current value for key, or reports it is not present.
func (e *Engine) Get(key string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	pointer, ok := e.index.Lookup(key)
	if !ok {
		return "", false, nil
	}

	cmd, err := e.storage.Get(pointer)
	if err != nil {
		return "", false, err
	}
	if cmd.Kind == storage.CommandRemove {
		return "", false, errors.NewIndexCorruptionError("Get", e.index.Len(), nil).
			WithKey(key).
			WithSegmentID(uint16(pointer.FileID))
	}
	return cmd.Value, true, nil
}

// Remove records a tombstone for key. It returns a KeyNotFound IndexError
// if key has no live entry.
func (e *Engine) Remove(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return ErrEngineClosed
	}

	if !e.index.Contains(key) {
		return errors.NewKeyNotFoundError(key)
	}

	cmd := storage.NewRemoveCommand(key, storage.NewSequencer())
	pointer, err := e.storage.Mutate(cmd)
	if err != nil {
		return err
	}
	if err := e.index.Update(cmd, pointer); err != nil {
		return err
	}

	return e.maybeCompact()
}

// maybeCompact runs a compaction pass when storage reports it has
// accumulated enough sealed segments to warrant one. Called with e.mu
// already held.
func (e *Engine) maybeCompact() error {
	if !e.storage.ShouldCompact() {
		return nil
	}

	e.log.Infow("compaction threshold reached, starting pass")
	if err := e.compaction.Run(); err != nil {
		return err
	}
	e.log.Infow("compaction pass finished")
	return nil
}

// Close gracefully shuts down the engine and releases all associated resources.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.index.Close(); err != nil {
		e.log.Errorw("failed to close index", "error", err)
	}
	return e.storage.Close()
}
