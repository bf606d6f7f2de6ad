package workspace

import (
	"os"
	"path/filepath"
	"time"
)

// Cleaner deletes log files older than MaxAge from LogDir.
type Cleaner struct {
	MaxAge time.Duration
	LogDir string
}

// NewCleaner creates a cleaner for logDir keeping files newer than
// maxAgeDays.
func NewCleaner(logDir string, maxAgeDays int) *Cleaner {
	return &Cleaner{
		MaxAge: time.Duration(maxAgeDays) * 24 * time.Hour,
		LogDir: logDir,
	}
}

// ShouldDelete reports whether path is a regular file older than the
// maximum age, judged by its modification time.
func (c *Cleaner) ShouldDelete(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return time.Since(info.ModTime()) > c.MaxAge
}

// OldLogs lists the files that a Clean call would remove.
func (c *Cleaner) OldLogs() ([]string, error) {
	entries, err := os.ReadDir(c.LogDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var old []string
	for _, e := range entries {
		path := filepath.Join(c.LogDir, e.Name())
		if c.ShouldDelete(path) {
			old = append(old, path)
		}
	}
	return old, nil
}

// Clean removes aged log files, returning how many were deleted. A
// missing log directory cleans nothing.
func (c *Cleaner) Clean() (int, error) {
	old, err := c.OldLogs()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, path := range old {
		if os.Remove(path) == nil {
			deleted++
		}
	}
	return deleted, nil
}
