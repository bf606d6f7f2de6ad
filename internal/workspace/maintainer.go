package workspace

import (
	"log/slog"
	"path/filepath"
	"time"
)

// Maintainer runs one workspace maintenance pass: memory-file rotation
// plus log cleanup. Individual step failures are collected rather than
// aborting the pass.
type Maintainer struct {
	Archiver *Archiver
	Cleaner  *Cleaner
	Log      *slog.Logger
}

// Report summarizes one workspace maintenance run.
type Report struct {
	Archives   []ArchiveRecord `json:"archives"`
	Cleaned    int             `json:"cleaned"`
	Errors     []string        `json:"errors,omitempty"`
	ExecutedAt time.Time       `json:"executed_at"`
}

// NewMaintainer wires an archiver and cleaner together.
func NewMaintainer(archiver *Archiver, cleaner *Cleaner, log *slog.Logger) *Maintainer {
	if log == nil {
		log = slog.Default()
	}
	return &Maintainer{Archiver: archiver, Cleaner: cleaner, Log: log}
}

// Run maintains the workspace rooted at dir.
func (m *Maintainer) Run(dir string) Report {
	report := Report{ExecutedAt: time.Now().UTC()}

	memoryPath := filepath.Join(dir, MemoryFileName)
	if m.Archiver.ShouldArchive(memoryPath) {
		record, err := m.Archiver.Archive(memoryPath)
		if err != nil {
			report.Errors = append(report.Errors, "archive: "+err.Error())
		} else {
			report.Archives = append(report.Archives, record)
			m.Log.Info("archived memory file",
				"path", record.ArchivePath, "lines", record.LineCount)
		}
	}

	cleaned, err := m.Cleaner.Clean()
	if err != nil {
		report.Errors = append(report.Errors, "clean: "+err.Error())
	}
	report.Cleaned = cleaned
	if cleaned > 0 {
		m.Log.Info("cleaned old logs", "count", cleaned, "dir", m.Cleaner.LogDir)
	}

	return report
}
