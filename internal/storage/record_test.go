package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeCommandAndStreamDecoderRoundTrip(t *testing.T) {
	cmds := []Command{
		NewSetCommand("foo", "bar", NewSequencer()),
		NewSetCommand("baz", "qux", NewSequencer()),
		NewRemoveCommand("foo", NewSequencer()),
	}

	var buf bytes.Buffer
	for _, cmd := range cmds {
		encoded, err := EncodeCommand(cmd)
		require.NoError(t, err)
		_, err = buf.Write(encoded)
		require.NoError(t, err)
	}

	decoder := NewStreamDecoder(&buf)
	for _, want := range cmds {
		got, _, err := decoder.Next()
		require.NoError(t, err)
		require.Equal(t, want.Kind, got.Kind)
		require.Equal(t, want.Key, got.Key)
		require.Equal(t, want.Value, got.Value)
		require.Equal(t, want.Sequencer, got.Sequencer)
	}

	_, _, err := decoder.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestStreamDecoderTruncatedRecord(t *testing.T) {
	cmd := NewSetCommand("foo", "bar", NewSequencer())
	encoded, err := EncodeCommand(cmd)
	require.NoError(t, err)

	truncated := encoded[:len(encoded)-2]
	decoder := NewStreamDecoder(bytes.NewReader(truncated))

	_, _, err = decoder.Next()
	require.ErrorIs(t, err, ErrTruncatedRecord)
}

func TestDecodeAtExactSpan(t *testing.T) {
	cmd := NewSetCommand("foo", "bar", NewSequencer())
	encoded, err := EncodeCommand(cmd)
	require.NoError(t, err)

	got, err := DecodeAt(bytes.NewReader(encoded), 0, int64(len(encoded)))
	require.NoError(t, err)
	require.Equal(t, cmd.Key, got.Key)
	require.Equal(t, cmd.Value, got.Value)
}

func TestSequencerStrictlyIncreasing(t *testing.T) {
	var last Sequencer
	for i := 0; i < 1000; i++ {
		next := NewSequencer()
		require.True(t, last.Less(next))
		last = next
	}
}
