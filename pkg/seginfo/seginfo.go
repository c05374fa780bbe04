// Package seginfo provides utilities for discovering and naming the segment
// files that make up an ignite data directory.
//
// Filename format: NNNNNNNN.dat
//
// Where NNNNNNNN is the segment's FileId, zero-padded to 8 decimal digits,
// and .dat is a fixed extension. Zero-padding guarantees that lexicographic
// ordering of filenames agrees with numeric ordering of FileIds, which is
// what lets the storage engine discover the latest segment with a plain
// sort instead of parsing every candidate first.
//
// Example filenames:
//
//	00000001.dat
//	00000002.dat
//	00000042.dat
package seginfo

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ignitedb/ignite/pkg/filesys"
)

// Extension is the fixed suffix every segment file carries.
const Extension = ".dat"

// MinFileIDWidth is the zero-padded width of a FileId in its textual form.
const MinFileIDWidth = 8

// GetLatestSegmentInfo discovers the most recent segment file in the given
// segment directory and returns its FileId and os.FileInfo.
//
// Returns:
//   - uint64: the FileId of the latest segment (0 if none exist).
//   - os.FileInfo: metadata for the latest segment (nil if none exist).
//   - error: any error encountered while reading the directory or parsing names.
func GetLatestSegmentInfo(dataDir, segmentDir string) (uint64, os.FileInfo, error) {
	if dataDir == "" || segmentDir == "" {
		return 0, nil, fmt.Errorf("dataDir and segmentDir must be non-empty")
	}

	latestPath, err := GetLatestSegmentPath(dataDir, segmentDir)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to discover latest segment: %w", err)
	}

	if latestPath == "" {
		return 0, nil, nil
	}

	fileID, err := ParseFileID(latestPath)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to parse FileId from %s: %w", latestPath, err)
	}

	fileInfo, err := GetFileInfo(latestPath)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to retrieve file info for %s: %w", latestPath, err)
	}

	return fileID, fileInfo, nil
}

// GetLatestSegmentPath searches the segment directory and returns the full
// path to the file with the highest FileId, relying on the fact that
// zero-padded filenames sort lexicographically in FileId order (I1).
//
// Returns an empty string, nil error if no segment files exist yet.
func GetLatestSegmentPath(dataDir, segmentDir string) (string, error) {
	if dataDir == "" || segmentDir == "" {
		return "", fmt.Errorf("dataDir and segmentDir must be non-empty")
	}

	searchPattern := filepath.Join(dataDir, segmentDir, "*"+Extension)

	matchingFiles, err := filesys.ReadDir(searchPattern)
	if err != nil {
		return "", fmt.Errorf("failed to read segment directory with pattern %s: %w", searchPattern, err)
	}

	if len(matchingFiles) == 0 {
		return "", nil
	}

	slices.Sort(matchingFiles)
	return matchingFiles[len(matchingFiles)-1], nil
}

// ListSegmentPaths returns every segment file path in the segment
// directory, sorted ascending by FileId (I1: this is the replay order).
func ListSegmentPaths(dataDir, segmentDir string) ([]string, error) {
	searchPattern := filepath.Join(dataDir, segmentDir, "*"+Extension)

	matchingFiles, err := filesys.ReadDir(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment directory with pattern %s: %w", searchPattern, err)
	}

	slices.Sort(matchingFiles)
	return matchingFiles, nil
}

// GenerateName creates the zero-padded filename for the given FileId.
func GenerateName(id uint64) string {
	return fmt.Sprintf("%0*d%s", MinFileIDWidth, id, Extension)
}

// ParseFileID extracts the FileId from a segment filename or full path.
func ParseFileID(fullPath string) (uint64, error) {
	_, filename := filepath.Split(fullPath)

	if !strings.HasSuffix(filename, Extension) {
		return 0, fmt.Errorf("filename %s does not have the expected %s extension", filename, Extension)
	}

	idStr := strings.TrimSuffix(filename, Extension)
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse FileId %q as integer: %w", idStr, err)
	}

	return id, nil
}

// GetFileInfo safely retrieves file system metadata for a given path.
func GetFileInfo(filePath string) (os.FileInfo, error) {
	file, err := os.OpenFile(filePath, os.O_RDONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for %s: %w", filePath, err)
	}

	return stat, nil
}
