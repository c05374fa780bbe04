package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithDefaultOptions(t *testing.T) {
	var o Options
	WithDefaultOptions()(&o)

	require.Equal(t, DefaultDataDir, o.DataDir)
	require.Equal(t, DefaultSegmentSize, o.SegmentOptions.Size)
	require.Equal(t, DefaultSegmentDirectory, o.SegmentOptions.Directory)
	require.Equal(t, DefaultCompactSegmentThreshold, o.SegmentOptions.CompactSegmentThreshold)
}

func TestNewDefaultOptionsIsIndependentPerCall(t *testing.T) {
	a := NewDefaultOptions()
	b := NewDefaultOptions()

	a.SegmentOptions.Size = 99
	require.NotEqual(t, a.SegmentOptions.Size, b.SegmentOptions.Size)
}

func TestWithSegmentDirIgnoresBlank(t *testing.T) {
	o := NewDefaultOptions()
	WithSegmentDir("   ")(&o)
	require.Equal(t, DefaultSegmentDirectory, o.SegmentOptions.Directory)

	WithSegmentDir("segments")(&o)
	require.Equal(t, "segments", o.SegmentOptions.Directory)
}

func TestWithDataDirIgnoresBlank(t *testing.T) {
	o := NewDefaultOptions()
	WithDataDir("   ")(&o)
	require.Equal(t, DefaultDataDir, o.DataDir)

	WithDataDir("/tmp/ignite-test")(&o)
	require.Equal(t, "/tmp/ignite-test", o.DataDir)
}

func TestWithSegmentSizeBounds(t *testing.T) {
	cases := []struct {
		name     string
		size     uint64
		expected uint64
	}{
		{"below minimum is rejected", MinSegmentSize - 1, DefaultSegmentSize},
		{"above maximum is rejected", MaxSegmentSize + 1, DefaultSegmentSize},
		{"minimum is accepted", MinSegmentSize, MinSegmentSize},
		{"maximum is accepted", MaxSegmentSize, MaxSegmentSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := NewDefaultOptions()
			WithSegmentSize(tc.size)(&o)
			require.Equal(t, tc.expected, o.SegmentOptions.Size)
		})
	}
}

func TestWithCompactSegmentThresholdIgnoresNonPositive(t *testing.T) {
	o := NewDefaultOptions()
	WithCompactSegmentThreshold(0)(&o)
	require.Equal(t, DefaultCompactSegmentThreshold, o.SegmentOptions.CompactSegmentThreshold)

	WithCompactSegmentThreshold(10)(&o)
	require.Equal(t, 10, o.SegmentOptions.CompactSegmentThreshold)
}

func TestValidateAcceptsDefaults(t *testing.T) {
	o := NewDefaultOptions()
	require.NoError(t, o.Validate())
}

func TestValidateRejectsEmptyDataDir(t *testing.T) {
	o := NewDefaultOptions()
	o.DataDir = "   "
	require.Error(t, o.Validate())
}

func TestValidateRejectsNilSegmentOptions(t *testing.T) {
	o := NewDefaultOptions()
	o.SegmentOptions = nil
	require.Error(t, o.Validate())
}

func TestValidateRejectsOutOfRangeSegmentSize(t *testing.T) {
	o := NewDefaultOptions()
	o.SegmentOptions.Size = MinSegmentSize - 1
	require.Error(t, o.Validate())
}
