// Package ignite provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines an in-memory hash table (Index) with an append-only log
// structure on disk to achieve high throughput. It is designed for
// applications requiring fast read and write operations, such as caching,
// session management, and embedded configuration storage, aiming to
// provide a simple, efficient, and reliable solution for local key-value
// storage in Go applications.
package ignite

import (
	"errors"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

// ErrEmptyKey is returned when Set, Get, or Delete is called with an empty key.
var ErrEmptyKey = errors.New("key must not be empty")

// Instance represents an instance of the Ignite key/value data store. It
// encapsulates the core engine responsible for data handling and the
// configuration options for this specific database instance.
//
// Instance is the primary entry point for interacting with the Ignite
// store, providing methods for setting, getting, and deleting key-value
// pairs. It is safe for concurrent use by multiple goroutines.
type Instance struct {
	engine  *engine.Engine
	options *options.Options
}

// NewInstance creates and initializes a new Ignite DB instance, recovering
// any existing data directory before returning.
func NewInstance(service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	eng, err := engine.New(&engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Set stores a key-value pair in the database. If the key already exists,
// its value is updated. The write is flushed to the append-only log
// before Set returns.
func (i *Instance) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return i.engine.Set(key, value)
}

// Get retrieves the value associated with the given key. The second
// return value reports whether the key was found.
func (i *Instance) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	return i.engine.Get(key)
}

// Delete removes a key-value pair from the database. The operation
// records a tombstone and the space it frees is reclaimed by a later
// compaction pass. Deleting a key that has no live entry returns a
// KeyNotFound error (check with errors.IsKeyNotFoundError).
func (i *Instance) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return i.engine.Remove(key)
}

// Close gracefully shuts down the Ignite DB instance, flushing any
// pending writes and releasing all open file handles.
func (i *Instance) Close() error {
	return i.engine.Close()
}
