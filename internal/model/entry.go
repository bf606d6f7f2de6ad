// Package model defines the core tiered-memory data types.
package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Tier identifies one level of the storage hierarchy.
type Tier string

const (
	// TierHot is the in-process cache, fastest access.
	TierHot Tier = "hot"
	// TierWarm is the durable mid-term store.
	TierWarm Tier = "warm"
	// TierCold is the durable long-term archive.
	TierCold Tier = "cold"
)

// Priority controls how an entry resists aging.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// ParsePriority maps a string to a Priority, defaulting to normal.
func ParsePriority(s string) Priority {
	switch s {
	case "critical":
		return PriorityCritical
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// Entry is a stored unit of knowledge.
//
// Timestamp is set once at creation and never mutated; AccessedAt,
// AccessCount and Content are the only fields updated in place. Tier is
// advisory — it reflects whichever tier last touched the entry.
type Entry struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Content     string    `json:"content"`
	Tier        Tier      `json:"tier"`
	Priority    Priority  `json:"priority"`
	Timestamp   time.Time `json:"timestamp"`
	AccessedAt  time.Time `json:"accessed_at"`
	AccessCount int       `json:"access_count"`
	SessionID   string    `json:"session_id,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// NewEntry creates a fresh hot-tier entry with a generated ID.
func NewEntry(key, content string, priority Priority) Entry {
	now := time.Now().UTC()
	return Entry{
		ID:          "mem_" + ulid.Make().String(),
		Key:         key,
		Content:     content,
		Tier:        TierHot,
		Priority:    priority,
		Timestamp:   now,
		AccessedAt:  now,
		AccessCount: 1,
	}
}

// Age returns time elapsed since the entry was created.
func (e Entry) Age() time.Duration {
	return time.Since(e.Timestamp)
}

// MigrationPolicy controls age thresholds and hot-tier capacity.
type MigrationPolicy struct {
	HotToWarmDays  int `json:"hot_to_warm_days" yaml:"hot_to_warm_days"`
	WarmToColdDays int `json:"warm_to_cold_days" yaml:"warm_to_cold_days"`
	MaxHotEntries  int `json:"max_hot_entries" yaml:"max_hot_entries"`
}

// DefaultMigrationPolicy returns the standard 7/30-day, 1000-entry policy.
func DefaultMigrationPolicy() MigrationPolicy {
	return MigrationPolicy{
		HotToWarmDays:  7,
		WarmToColdDays: 30,
		MaxHotEntries:  1000,
	}
}

// MaintenanceReport summarizes one migration pass.
//
// ColdToWarmPromoted is reserved: the current maintenance pass never
// promotes out of cold, only Recall does.
type MaintenanceReport struct {
	RunID              string `json:"run_id"`
	HotToWarmMigrated  int    `json:"hot_to_warm_migrated"`
	WarmToColdMigrated int    `json:"warm_to_cold_migrated"`
	ColdToWarmPromoted int    `json:"cold_to_warm_promoted"`
	HotEvicted         int    `json:"hot_evicted"`
	TotalHot           int    `json:"total_hot"`
	TotalWarm          int    `json:"total_warm"`
	TotalCold          int    `json:"total_cold"`
}
