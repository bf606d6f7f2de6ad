// Package memory implements the three-tier memory engine: a bounded
// in-process hot cache, a durable SQLite warm store, a durable SQLite
// cold archive, and the TieredMemory facade that orchestrates them.
package memory

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/tiermem/tiermem/internal/model"
)

// HotTier is a bounded in-process cache with least-recently-used
// eviction. The entry map and the recency list are guarded by a single
// mutex so no operation can observe them in disagreement.
type HotTier struct {
	mu           sync.Mutex
	entries      map[string]*list.Element
	order        *list.List // front = least recently used
	capacity     int
	promoteAfter time.Duration
}

// NewHotTier creates a hot tier bounded at capacity entries. Entries
// older than promoteAfter become candidates for warm migration.
func NewHotTier(capacity int, promoteAfter time.Duration) *HotTier {
	return &HotTier{
		entries:      make(map[string]*list.Element),
		order:        list.New(),
		capacity:     capacity,
		promoteAfter: promoteAfter,
	}
}

// Get returns a copy of the entry for key, refreshing its recency.
// A Get is an access even though nothing in the entry changes.
func (h *HotTier) Get(key string) (model.Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	el, ok := h.entries[key]
	if !ok {
		return model.Entry{}, false
	}
	h.order.MoveToBack(el)
	return el.Value.(model.Entry), true
}

// Store inserts or replaces the entry under its key, evicting the
// least-recently-used entries while the tier is at capacity. Returns
// how many entries were evicted to make room.
func (h *HotTier) Store(entry model.Entry) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if el, ok := h.entries[entry.Key]; ok {
		el.Value = entry
		h.order.MoveToBack(el)
		return 0
	}

	evicted := 0
	for len(h.entries) >= h.capacity {
		front := h.order.Front()
		if front == nil {
			break
		}
		oldest := front.Value.(model.Entry)
		h.order.Remove(front)
		delete(h.entries, oldest.Key)
		evicted++
	}

	h.entries[entry.Key] = h.order.PushBack(entry)
	return evicted
}

// Remove deletes the entry and its recency record. Returns whether
// anything was deleted.
func (h *HotTier) Remove(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	el, ok := h.entries[key]
	if !ok {
		return false
	}
	h.order.Remove(el)
	delete(h.entries, key)
	return true
}

// All returns an unordered snapshot of every entry.
func (h *HotTier) All() []model.Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]model.Entry, 0, len(h.entries))
	for _, el := range h.entries {
		out = append(out, el.Value.(model.Entry))
	}
	return out
}

// EntriesForPromotion returns entries old enough for warm migration.
// Critical-priority entries never age out of hot.
func (h *HotTier) EntriesForPromotion() []model.Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []model.Entry
	for _, el := range h.entries {
		e := el.Value.(model.Entry)
		if e.Priority != model.PriorityCritical && e.Age() > h.promoteAfter {
			out = append(out, e)
		}
	}
	return out
}

// Search returns up to limit entries whose content contains query,
// case-insensitively. Order is unspecified.
func (h *HotTier) Search(query string, limit int) []model.Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := strings.ToLower(query)
	var out []model.Entry
	for _, el := range h.entries {
		if len(out) >= limit {
			break
		}
		e := el.Value.(model.Entry)
		if strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of entries held.
func (h *HotTier) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// HealthCheck reports whether the map and the recency list agree.
func (h *HotTier) HealthCheck() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries) == h.order.Len()
}
