// Package options provides data structures and functions for configuring
// the Ignite database. It defines various parameters that control Ignite's
// storage behavior, performance, and maintenance operations, such as
// directory paths, segment characteristics, and compaction thresholds.
package options

import (
	"strings"

	"github.com/ignitedb/ignite/pkg/errors"
)

// Defines configurable parameters for each segment.
// It provides fine-grained control over segment behavior, performance, and resource utilization.
type segmentOptions struct {
	// Defines the maximum size a segment can grow to before rotation.
	// When a segment reaches this size, a new segment will be created.
	// Larger segments mean fewer files but slower compaction and recovery.
	//
	//  - Default: 1MiB
	//  - Maximum: 1GiB
	//  - Minimum: 32KiB
	Size uint64 `json:"maxSegmentSize"`

	// Specifies where segment files are stored, relative to DataDir.
	//
	// Default: "data"
	Directory string `json:"directory"`

	// Defines how many sealed (non-active) segments may accumulate before
	// the engine triggers a compaction pass. A lower threshold compacts
	// more eagerly, trading write throughput for reclaimed disk space.
	//
	// Default: 4
	CompactSegmentThreshold int `json:"compactSegmentThreshold"`
}

// Defines the configuration parameters for Ignite DB.
// It provides control over storage, performance and maintenance aspects.
type Options struct {
	// Specifies the base path where files will be stored.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// Configures segment management including size limits and the
	// compaction trigger.
	SegmentOptions *segmentOptions `json:"segmentOptions"`
}

// OptionFunc is a function type that modifies the Ignite system's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.SegmentOptions = opts.SegmentOptions
	}
}

// Sets the primary data directory for Ignite.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Sets the directory specifically for storing segment files, relative to DataDir.
func WithSegmentDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.SegmentOptions.Directory = directory
		}
	}
}

// Sets the maximum size of individual segment files.
func WithSegmentSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinSegmentSize && size <= MaxSegmentSize {
			o.SegmentOptions.Size = size
		}
	}
}

// Sets the number of sealed segments that accumulate before compaction runs.
func WithCompactSegmentThreshold(threshold int) OptionFunc {
	return func(o *Options) {
		if threshold > 0 {
			o.SegmentOptions.CompactSegmentThreshold = threshold
		}
	}
}

// Validate reports the first misconfigured field it finds in o. The
// functional options above silently ignore out-of-range input so that
// WithX(bad) calls can be chained without checking each one; Validate is
// the single place that turns a still-bad Options into an error, for
// callers (like Options built directly, outside the OptionFunc chain) that
// need to know before storage ever opens a file.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.DataDir) == "" {
		return errors.NewRequiredFieldError("dataDir")
	}
	if o.SegmentOptions == nil {
		return errors.NewRequiredFieldError("segmentOptions")
	}
	if o.SegmentOptions.Size < MinSegmentSize || o.SegmentOptions.Size > MaxSegmentSize {
		return errors.NewFieldRangeError(
			"segmentOptions.maxSegmentSize", o.SegmentOptions.Size, MinSegmentSize, MaxSegmentSize,
		)
	}
	if strings.TrimSpace(o.SegmentOptions.Directory) == "" {
		return errors.NewRequiredFieldError("segmentOptions.directory")
	}
	if o.SegmentOptions.CompactSegmentThreshold <= 0 {
		return errors.NewFieldRangeError(
			"segmentOptions.compactSegmentThreshold", o.SegmentOptions.CompactSegmentThreshold, 1, nil,
		)
	}
	return nil
}
