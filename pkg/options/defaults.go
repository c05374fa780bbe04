package options

const (
	// Specifies the default base directory where IgniteDB will store its data files.
	// If no other directory is specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/ignitedb"

	// Represents the minimum allowed size for a segment file in bytes (32KiB).
	MinSegmentSize uint64 = 32 * 1024

	// Represents the maximum allowed size for a segment file in bytes (1GiB).
	MaxSegmentSize uint64 = 1 * 1024 * 1024 * 1024

	// Specifies the default target size for a new segment file in bytes (1MiB).
	DefaultSegmentSize uint64 = 1 * 1024 * 1024

	// Specifies the default subdirectory within the main data directory
	// where segment files will be stored.
	DefaultSegmentDirectory = "data"

	// Defines the default number of sealed segments that may accumulate
	// before compaction is triggered.
	DefaultCompactSegmentThreshold = 4
)

// Holds the default configuration settings for an IgniteDB instance.
var defaultOptions = Options{
	DataDir: DefaultDataDir,
	SegmentOptions: &segmentOptions{
		Size:                    DefaultSegmentSize,
		Directory:               DefaultSegmentDirectory,
		CompactSegmentThreshold: DefaultCompactSegmentThreshold,
	},
}

// NewDefaultOptions returns a fresh copy of the default configuration.
// A new segmentOptions is allocated each call so that callers mutating the
// returned value (e.g. via OptionFunc) never alias the package-level default.
func NewDefaultOptions() Options {
	opts := defaultOptions
	segOpts := *defaultOptions.SegmentOptions
	opts.SegmentOptions = &segOpts
	return opts
}
