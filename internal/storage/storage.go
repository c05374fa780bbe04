// Package storage provides the segmented, append-only log that backs the
// ignite key-value core: an active writer segment, a reader per segment
// (active or sealed), and the bootstrap/replay logic that lets the engine
// recover cleanly across restarts.
//
// Core Architecture:
//
// The storage system operates on the concept of "segments" — individual
// files that contain a concatenation of encoded commands. When the active
// segment's size reaches its configured threshold, the system rolls to a
// new segment and continues writing there. Segments are never edited in
// place; the only way bytes leave a segment is compaction deleting the
// whole file once every live record in it has been rewritten elsewhere.
//
// Initialization and Recovery:
//
// On open, Storage discovers every existing segment file, opens a reader
// for each, and either continues appending to the most recent one (if it
// still has room) or rolls straight to a new one (if the last segment is
// full or none exist yet). BuildIndex then replays every segment in FileId
// order through the record codec to repopulate the in-memory index. Replay
// of a segment stops at its first undecodable record; if that segment is
// the active one, it is truncated there, while a sealed segment is left on
// disk as it is.
package storage

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/seginfo"
)

// ErrStorageClosed is returned when attempting to perform operations on a
// closed Storage.
var ErrStorageClosed = fmt.Errorf("operation failed: cannot access closed storage")

// IndexUpdater is the narrow interface BuildIndex needs from the index
// package. Storage depends on this interface rather than the index package
// directly, since the index package needs storage.Command and
// storage.LogPointer and importing index back here would cycle.
type IndexUpdater interface {
	Update(cmd Command, pointer LogPointer) error
}

// New creates and initializes a new Storage instance, discovering any
// existing segments and preparing the active segment for writes.
func New(config *Config) (*Storage, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, fmt.Errorf("invalid configuration")
	}

	config.Logger.Infow(
		"initializing storage system",
		"dataDir", config.Options.DataDir,
		"maxSegmentSize", config.Options.SegmentOptions.Size,
		"segmentDir", config.Options.SegmentOptions.Directory,
	)

	segmentDirPath := filepath.Join(config.Options.DataDir, config.Options.SegmentOptions.Directory)
	if err := filesys.CreateDir(segmentDirPath, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, segmentDirPath)
	}

	s := &Storage{
		log:     config.Logger,
		options: config.Options,
		readers: make(map[uint64]*positionedReader),
	}

	segmentPaths, err := seginfo.ListSegmentPaths(config.Options.DataDir, config.Options.SegmentOptions.Directory)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to list existing segments")
	}

	for _, path := range segmentPaths {
		fileID, err := seginfo.ParseFileID(path)
		if err != nil {
			return nil, errors.NewStorageError(err, errors.ErrorCodeSegmentCorrupted, "failed to parse segment filename").
				WithPath(path)
		}
		reader, err := newPositionedReader(path)
		if err != nil {
			return nil, err
		}
		s.readers[fileID] = reader
	}

	latestFileID, latestInfo, err := seginfo.GetLatestSegmentInfo(
		config.Options.DataDir, config.Options.SegmentOptions.Directory,
	)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to get latest segment info")
	}

	targetFileID := uint64(1)
	if latestInfo != nil {
		if uint64(latestInfo.Size()) >= config.Options.SegmentOptions.Size {
			targetFileID = latestFileID + 1
			config.Logger.Infow("current segment is full, rolling to a new one",
				"currentFileID", latestFileID, "newFileID", targetFileID)
		} else {
			targetFileID = latestFileID
			config.Logger.Infow("continuing with existing segment",
				"fileID", targetFileID, "currentSize", latestInfo.Size())
		}
	}

	if err := s.openActiveSegment(targetFileID); err != nil {
		return nil, err
	}

	config.Logger.Infow("storage system initialized successfully", "activeFileID", s.activeFileID)
	return s, nil
}

// openActiveSegment opens (and creates, if necessary) fileID as the active
// segment, readying both a writer and — if one doesn't already exist from
// discovery — a reader for it.
func (s *Storage) openActiveSegment(fileID uint64) error {
	path := s.segmentPath(fileID)

	writer, err := newPositionedWriter(path)
	if err != nil {
		return err
	}

	if _, ok := s.readers[fileID]; !ok {
		reader, err := newPositionedReader(path)
		if err != nil {
			writer.Close()
			return err
		}
		s.readers[fileID] = reader
	}

	s.activeFileID = fileID
	s.activeWriter = writer
	return nil
}

func (s *Storage) segmentPath(fileID uint64) string {
	return filepath.Join(s.options.DataDir, s.options.SegmentOptions.Directory, seginfo.GenerateName(fileID))
}

// BuildIndex replays every known segment, in FileId order (I1), feeding
// each decoded command and its derived LogPointer to idx.Update. A
// truncated or undecodable record ends the replay of its segment rather
// than being treated as an error; in the active segment it is also
// truncated away.
func (s *Storage) BuildIndex(idx IndexUpdater) error {
	fileIDs := make([]uint64, 0, len(s.readers))
	for id := range s.readers {
		fileIDs = append(fileIDs, id)
	}
	sortUint64s(fileIDs)

	for _, fileID := range fileIDs {
		if err := s.replaySegment(fileID, idx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) replaySegment(fileID uint64, idx IndexUpdater) error {
	reader, ok := s.readers[fileID]
	if !ok {
		return errors.NewStorageError(nil, errors.ErrorCodeIO, "no reader for segment").WithSegmentID(int(fileID))
	}

	if err := reader.Reset(); err != nil {
		return err
	}

	decoder := NewStreamDecoder(reader)

	for {
		offset := reader.Offset()
		cmd, n, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err == ErrTruncatedRecord || errors.GetErrorCode(err) == errors.ErrorCodeCodec {
			if fileID == s.activeFileID {
				if truncErr := s.activeWriter.Truncate(offset); truncErr != nil {
					return truncErr
				}
			}
			s.log.Infow("stopped replay at first undecodable record",
				"fileID", fileID, "validOffset", offset, "truncated", fileID == s.activeFileID)
			break
		}
		if err != nil {
			return err
		}

		pointer := LogPointer{FileID: fileID, StartOffset: offset, Length: n}
		if err := idx.Update(cmd, pointer); err != nil {
			if errors.IsConflictError(err) {
				return errors.NewIndexCorruptionError("BuildIndex", 0, err).
					WithKey(cmd.Key).
					WithSegmentID(uint16(fileID))
			}
			return err
		}
	}

	return nil
}

// Mutate encodes cmd, appends it to the active segment, and returns the
// LogPointer locating the newly written bytes. If the active segment's
// size now meets or exceeds the configured threshold, it is sealed and a
// fresh segment is rolled in before Mutate returns.
func (s *Storage) Mutate(cmd Command) (LogPointer, error) {
	if s.closed.Load() {
		return LogPointer{}, ErrStorageClosed
	}

	encoded, err := EncodeCommand(cmd)
	if err != nil {
		return LogPointer{}, err
	}

	start := s.activeWriter.Offset()
	if _, err := s.activeWriter.Write(encoded); err != nil {
		return LogPointer{}, err
	}
	if err := s.activeWriter.Flush(); err != nil {
		return LogPointer{}, err
	}

	end := s.activeWriter.Offset()
	pointer := LogPointer{FileID: s.activeFileID, StartOffset: start, Length: end - start}

	if uint64(end) >= s.options.SegmentOptions.Size {
		if err := s.rollSegment(); err != nil {
			return LogPointer{}, err
		}
	}

	return pointer, nil
}

// rollSegment seals the current active segment (its reader stays open so
// it can still be read) and opens a brand-new segment with the next FileId
// as the new active writer.
func (s *Storage) rollSegment() error {
	nextFileID := s.activeFileID + 1
	s.log.Infow("rolling to new segment", "sealedFileID", s.activeFileID, "newFileID", nextFileID)
	return s.openActiveSegment(nextFileID)
}

// Get decodes and returns the command located by pointer.
func (s *Storage) Get(pointer LogPointer) (Command, error) {
	if s.closed.Load() {
		return Command{}, ErrStorageClosed
	}

	reader, ok := s.readers[pointer.FileID]
	if !ok {
		return Command{}, errors.NewSegmentIDError(uint16(pointer.FileID), "")
	}

	return DecodeAt(reader, pointer.StartOffset, pointer.Length)
}

// ShouldCompact reports whether the number of sealed (non-active) segments
// has exceeded the configured threshold, per the segment-count compaction
// trigger this implementation uses.
func (s *Storage) ShouldCompact() bool {
	sealed := len(s.readers) - 1 // every reader except the active segment's.
	return sealed > s.options.SegmentOptions.CompactSegmentThreshold
}

// ActiveFileID returns the FileId currently accepting writes.
func (s *Storage) ActiveFileID() uint64 {
	return s.activeFileID
}

// SegmentIDs returns every FileId this Storage currently has a reader for,
// sorted ascending.
func (s *Storage) SegmentIDs() []uint64 {
	ids := make([]uint64, 0, len(s.readers))
	for id := range s.readers {
		ids = append(ids, id)
	}
	sortUint64s(ids)
	return ids
}

// RollForCompaction seals the active segment and opens a new one, exactly
// like the rollover a full segment triggers. Used by the compaction pass
// so subsequent writes — including the rewritten live records — never
// land in a segment about to be deleted.
func (s *Storage) RollForCompaction() error {
	return s.rollSegment()
}

// DeleteSegment closes and removes the reader and underlying file for
// fileID. fileID must not be the active segment.
func (s *Storage) DeleteSegment(fileID uint64) error {
	if fileID == s.activeFileID {
		return errors.NewStorageError(nil, errors.ErrorCodeIO, "refusing to delete the active segment").
			WithSegmentID(int(fileID))
	}

	reader, ok := s.readers[fileID]
	if !ok {
		return nil
	}

	delete(s.readers, fileID)
	if err := reader.Close(); err != nil {
		return err
	}

	path := s.segmentPath(fileID)
	if err := filesys.DeleteFile(path); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to delete segment file").WithPath(path)
	}
	return nil
}

// Close flushes and closes the active writer and every open reader.
func (s *Storage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrStorageClosed
	}

	var firstErr error
	if s.activeWriter != nil {
		if err := s.activeWriter.Close(); err != nil {
			firstErr = err
		}
	}
	for _, reader := range s.readers {
		if err := reader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// sortUint64s sorts ids ascending (I1: FileId replay/iteration order).
func sortUint64s(ids []uint64) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
