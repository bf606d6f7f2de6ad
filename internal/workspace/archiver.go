// Package workspace maintains a group workspace on disk: rotating an
// oversized MEMORY.md into a timestamped history copy and cleaning out
// aged log files.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MemoryFileName is the per-workspace memory file the archiver rotates.
const MemoryFileName = "MEMORY.md"

// Archiver rotates an oversized memory file into the archive directory.
type Archiver struct {
	ThresholdLines int
	ArchiveDir     string
}

// ArchiveRecord describes one completed rotation.
type ArchiveRecord struct {
	OriginalPath string `json:"original_path"`
	ArchivePath  string `json:"archive_path"`
	LineCount    int    `json:"line_count"`
}

// NewArchiver creates an archiver writing into archiveDir with the
// given line threshold.
func NewArchiver(archiveDir string, thresholdLines int) *Archiver {
	return &Archiver{ThresholdLines: thresholdLines, ArchiveDir: archiveDir}
}

// ShouldArchive reports whether path is a memory file exceeding the
// line threshold.
func (a *Archiver) ShouldArchive(path string) bool {
	if filepath.Base(path) != MemoryFileName {
		return false
	}
	n, err := countLines(path)
	if err != nil {
		return false
	}
	return n > a.ThresholdLines
}

// Archive copies the file into the archive directory under a
// timestamped name. The original is left in place for the caller to
// truncate or keep.
func (a *Archiver) Archive(path string) (ArchiveRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ArchiveRecord{}, fmt.Errorf("read memory file: %w", err)
	}

	name := fmt.Sprintf("MEMORY_%s.md", time.Now().UTC().Format("20060102_150405"))
	archivePath := filepath.Join(a.ArchiveDir, name)

	if err := os.MkdirAll(a.ArchiveDir, 0o755); err != nil {
		return ArchiveRecord{}, fmt.Errorf("create archive dir: %w", err)
	}
	if err := os.WriteFile(archivePath, content, 0o644); err != nil {
		return ArchiveRecord{}, fmt.Errorf("write archive: %w", err)
	}

	return ArchiveRecord{
		OriginalPath: path,
		ArchivePath:  archivePath,
		LineCount:    lineCount(string(content)),
	}, nil
}

func countLines(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return lineCount(string(content)), nil
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Split(strings.TrimSuffix(s, "\n"), "\n"))
}
