package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, path string, n int) {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Line %d\n", i)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func TestShouldArchiveIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	writeLines(t, path, 500)

	a := NewArchiver(filepath.Join(dir, ".history"), 200)
	assert.False(t, a.ShouldArchive(path))
}

func TestShouldArchiveByThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, MemoryFileName)

	a := NewArchiver(filepath.Join(dir, ".history"), 200)

	writeLines(t, path, 100)
	assert.False(t, a.ShouldArchive(path), "small file stays in place")

	writeLines(t, path, 250)
	assert.True(t, a.ShouldArchive(path))
}

func TestArchiveWritesTimestampedCopy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, MemoryFileName)
	writeLines(t, path, 250)

	a := NewArchiver(filepath.Join(dir, ".history"), 200)
	record, err := a.Archive(path)
	require.NoError(t, err)

	assert.Equal(t, 250, record.LineCount)
	assert.Contains(t, filepath.Base(record.ArchivePath), "MEMORY_")

	copied, err := os.ReadFile(record.ArchivePath)
	require.NoError(t, err)
	original, _ := os.ReadFile(path)
	assert.Equal(t, original, copied)
}

func TestArchiveMissingFile(t *testing.T) {
	a := NewArchiver(filepath.Join(t.TempDir(), ".history"), 200)
	_, err := a.Archive(filepath.Join(t.TempDir(), MemoryFileName))
	assert.Error(t, err)
}

func TestCleanerSkipsRecentFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recent.log"), []byte("log"), 0o644))

	c := NewCleaner(dir, 90)
	deleted, err := c.Clean()
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestCleanerDeletesAgedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.log"), []byte("log"), 0o644))

	// Max age zero treats every file as aged.
	c := NewCleaner(dir, 0)

	old, err := c.OldLogs()
	require.NoError(t, err)
	assert.Len(t, old, 1)

	deleted, err := c.Clean()
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = os.Stat(filepath.Join(dir, "old.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanerMissingDir(t *testing.T) {
	c := NewCleaner(filepath.Join(t.TempDir(), "nonexistent"), 0)
	deleted, err := c.Clean()
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestMaintainerRun(t *testing.T) {
	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, MemoryFileName), 250)

	logsDir := filepath.Join(dir, "logs")
	require.NoError(t, os.MkdirAll(logsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(logsDir, "run.log"), []byte("log"), 0o644))

	m := NewMaintainer(
		NewArchiver(filepath.Join(dir, ".history"), 200),
		NewCleaner(logsDir, 0),
		nil,
	)

	report := m.Run(dir)
	assert.Len(t, report.Archives, 1)
	assert.Equal(t, 1, report.Cleaned)
	assert.Empty(t, report.Errors)
	assert.False(t, report.ExecutedAt.IsZero())
}

func TestMaintainerRunNothingToDo(t *testing.T) {
	dir := t.TempDir()

	m := NewMaintainer(
		NewArchiver(filepath.Join(dir, ".history"), 200),
		NewCleaner(filepath.Join(dir, "logs"), 90),
		nil,
	)

	report := m.Run(dir)
	assert.Empty(t, report.Archives)
	assert.Zero(t, report.Cleaned)
	assert.Empty(t, report.Errors)
}
