package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ignitedb/ignite/pkg/errors"
)

// CommandKind distinguishes the two mutation shapes a log record can carry.
type CommandKind uint8

const (
	// CommandSet records a key/value write.
	CommandSet CommandKind = iota
	// CommandRemove records a tombstone for a key.
	CommandRemove
)

func (k CommandKind) String() string {
	switch k {
	case CommandSet:
		return "Set"
	case CommandRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// Command is a single log record: either a Set{key,value,sequencer} or a
// Remove{key,sequencer}, matching the two command variants the core's wire
// format defines.
type Command struct {
	Kind      CommandKind `json:"kind"`
	Key       string      `json:"key"`
	Value     string      `json:"value,omitempty"`
	Sequencer Sequencer   `json:"sequencer"`
}

// NewSetCommand builds a Set command for key/value at the given sequencer.
func NewSetCommand(key, value string, seq Sequencer) Command {
	return Command{Kind: CommandSet, Key: key, Value: value, Sequencer: seq}
}

// NewRemoveCommand builds a Remove command for key at the given sequencer.
func NewRemoveCommand(key string, seq Sequencer) Command {
	return Command{Kind: CommandRemove, Key: key, Sequencer: seq}
}

// lengthPrefixSize is the width, in bytes, of the big-endian record length
// that precedes every encoded command on disk.
const lengthPrefixSize = 4

// EncodeCommand serializes cmd as a self-delimiting record: a 4-byte
// big-endian length prefix followed by the JSON-encoded command. The
// length prefix lets a decoder skip exactly one record without parsing its
// body, and lets the bounded decoder (DecodeAt) validate a span before
// attempting to unmarshal it.
func EncodeCommand(cmd Command) ([]byte, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, errors.NewCodecError(err, "failed to encode command").WithDetail("key", cmd.Key)
	}

	if len(body) > (1<<32)-1 {
		return nil, errors.NewCodecError(nil, "command body too large to encode").WithDetail("key", cmd.Key)
	}

	buf := make([]byte, lengthPrefixSize+len(body))
	binary.BigEndian.PutUint32(buf[:lengthPrefixSize], uint32(len(body)))
	copy(buf[lengthPrefixSize:], body)
	return buf, nil
}

// ErrTruncatedRecord is returned by StreamDecoder.Next when the remaining
// bytes in the segment don't form a complete record — either the length
// prefix or the body was cut short, which is the expected shape of a
// segment whose writer crashed mid-append.
var ErrTruncatedRecord = fmt.Errorf("truncated record at end of segment")

// StreamDecoder yields (Command, bytesConsumed) pairs from a segment
// starting at its current read position, with no hidden state carried
// across calls beyond the underlying reader's position.
type StreamDecoder struct {
	r io.Reader
}

// NewStreamDecoder wraps r for streaming decode, starting from whatever
// position r is currently at (callers seek to 0 for a full replay).
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	return &StreamDecoder{r: r}
}

// Next decodes the next command in the stream. It returns io.EOF when the
// stream is exhausted cleanly (zero bytes available where a new record
// would start), and ErrTruncatedRecord when a partial record is found.
func (d *StreamDecoder) Next() (Command, int64, error) {
	var lenBuf [lengthPrefixSize]byte
	n, err := io.ReadFull(d.r, lenBuf[:])
	if err != nil {
		if n == 0 && err == io.EOF {
			return Command{}, 0, io.EOF
		}
		return Command{}, 0, ErrTruncatedRecord
	}

	bodyLen := binary.BigEndian.Uint32(lenBuf[:])
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(d.r, body); err != nil {
		return Command{}, 0, ErrTruncatedRecord
	}

	var cmd Command
	if err := json.Unmarshal(body, &cmd); err != nil {
		return Command{}, 0, errors.NewCodecError(err, "failed to decode command body")
	}

	return cmd, int64(lengthPrefixSize) + int64(bodyLen), nil
}

// DecodeAt decodes exactly one command from the byte span [start, start+length)
// of r, as identified by a LogPointer.
func DecodeAt(r io.ReaderAt, start, length int64) (Command, error) {
	buf := make([]byte, length)
	if _, err := r.ReadAt(buf, start); err != nil {
		return Command{}, errors.NewCodecError(err, "failed to read record span").
			WithOffset(int(start))
	}

	if len(buf) < lengthPrefixSize {
		return Command{}, errors.NewCodecError(nil, "record span shorter than length prefix").
			WithOffset(int(start))
	}

	bodyLen := binary.BigEndian.Uint32(buf[:lengthPrefixSize])
	body := buf[lengthPrefixSize:]
	if uint32(len(body)) != bodyLen {
		return Command{}, errors.NewCodecError(nil, "record span does not match encoded length").
			WithOffset(int(start))
	}

	var cmd Command
	if err := json.Unmarshal(body, &cmd); err != nil {
		return Command{}, errors.NewCodecError(err, "failed to decode command body").
			WithOffset(int(start))
	}

	return cmd, nil
}
