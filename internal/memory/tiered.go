package memory

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tiermem/tiermem/internal/model"
)

// TieredMemory is the single API surface over the three tiers. Writes
// land in hot; reads fall through hot → warm → cold, promoting a found
// entry back into hot. Promotion copies rather than moves: the colder
// copy stays behind as a backing record, and Forget is the only
// operation that deletes across tiers.
type TieredMemory struct {
	hot    *HotTier
	warm   *WarmTier
	cold   *ColdTier
	policy model.MigrationPolicy
	log    *slog.Logger
}

// New creates the engine rooted at dir. Two database files are created
// inside it, one per durable tier.
func New(dir string, policy model.MigrationPolicy, log *slog.Logger) (*TieredMemory, error) {
	if log == nil {
		log = slog.Default()
	}

	hot := NewHotTier(policy.MaxHotEntries,
		time.Duration(policy.HotToWarmDays)*24*time.Hour)

	warm, err := NewWarmTier(filepath.Join(dir, "warm_memories.db"))
	if err != nil {
		return nil, err
	}

	cold, err := NewColdTier(filepath.Join(dir, "cold_memories.db"))
	if err != nil {
		warm.Close()
		return nil, err
	}

	return &TieredMemory{hot: hot, warm: warm, cold: cold, policy: policy, log: log}, nil
}

// Close releases the durable stores.
func (t *TieredMemory) Close() error {
	werr := t.warm.Close()
	cerr := t.cold.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// Remember stores content under key. An existing hot entry is updated
// in place (content, last access, counter); otherwise a new hot entry
// is created. Warm and cold are never written directly.
func (t *TieredMemory) Remember(ctx context.Context, key, content string, priority model.Priority) error {
	if entry, ok := t.hot.Get(key); ok {
		entry.Content = content
		entry.AccessedAt = time.Now().UTC()
		entry.AccessCount++
		t.hot.Store(entry)
		return nil
	}

	entry := model.NewEntry(key, content, priority)
	if evicted := t.hot.Store(entry); evicted > 0 {
		t.log.Debug("hot tier evicted entries", "count", evicted, "stored_key", key)
	}
	return nil
}

// Recall retrieves the entry for key, checking hot, then warm, then
// cold. A warm or cold hit is copied into hot (relabeled) and the
// promoted copy returned; the source copy is not deleted.
func (t *TieredMemory) Recall(ctx context.Context, key string) (model.Entry, bool, error) {
	if entry, ok := t.hot.Get(key); ok {
		return entry, true, nil
	}

	if entry, ok, err := t.warm.Get(ctx, key); err != nil {
		return model.Entry{}, false, err
	} else if ok {
		return t.promote(entry), true, nil
	}

	if entry, ok, err := t.cold.Get(ctx, key); err != nil {
		return model.Entry{}, false, err
	} else if ok {
		return t.promote(entry), true, nil
	}

	return model.Entry{}, false, nil
}

func (t *TieredMemory) promote(entry model.Entry) model.Entry {
	from := entry.Tier
	entry.Tier = model.TierHot
	if evicted := t.hot.Store(entry); evicted > 0 {
		t.log.Debug("hot tier evicted entries", "count", evicted, "promoted_key", entry.Key)
	}
	t.log.Debug("promoted entry to hot", "key", entry.Key, "from", string(from))
	return entry
}

// Search fans out hot → warm → cold, passing the remaining budget down
// each step. Results are not deduplicated across tiers.
func (t *TieredMemory) Search(ctx context.Context, query string, limit int) ([]model.Entry, error) {
	results := t.hot.Search(query, limit)

	if len(results) < limit {
		warm, err := t.warm.Search(ctx, query, limit-len(results))
		if err != nil {
			return nil, err
		}
		results = append(results, warm...)
	}

	if len(results) < limit {
		cold, err := t.cold.Search(ctx, query, limit-len(results))
		if err != nil {
			return nil, err
		}
		results = append(results, cold...)
	}

	return results, nil
}

// Forget deletes key from every tier independently. Returns true if any
// tier held it.
func (t *TieredMemory) Forget(ctx context.Context, key string) (bool, error) {
	deleted := t.hot.Remove(key)

	warmDeleted, err := t.warm.Delete(ctx, key)
	if err != nil {
		return deleted, err
	}
	coldDeleted, err := t.cold.Delete(ctx, key)
	if err != nil {
		return deleted || warmDeleted, err
	}

	return deleted || warmDeleted || coldDeleted, nil
}

// Count sums the per-tier counts. A promoted-but-not-deleted entry is
// counted once per tier that holds a copy.
func (t *TieredMemory) Count(ctx context.Context) (int, error) {
	warm, err := t.warm.Count(ctx)
	if err != nil {
		return 0, err
	}
	cold, err := t.cold.Count(ctx)
	if err != nil {
		return 0, err
	}
	return t.hot.Count() + warm + cold, nil
}

// Maintain runs one synchronous migration pass: age-eligible hot
// entries move to warm, age-eligible warm entries move to cold. It
// stops at the first store error; counts already earned stand in the
// returned report.
func (t *TieredMemory) Maintain(ctx context.Context) (model.MaintenanceReport, error) {
	report := model.MaintenanceReport{RunID: uuid.NewString()}
	t.log.Info("maintenance pass started", "run_id", report.RunID)

	for _, entry := range t.hot.EntriesForPromotion() {
		entry.Tier = model.TierWarm
		if err := t.warm.Store(ctx, entry); err != nil {
			return report, err
		}
		t.hot.Remove(entry.Key)
		report.HotToWarmMigrated++
	}

	archival, err := t.warm.EntriesForArchival(ctx, t.policy.WarmToColdDays)
	if err != nil {
		return report, err
	}
	for _, entry := range archival {
		entry.Tier = model.TierCold
		if err := t.cold.Archive(ctx, entry); err != nil {
			return report, err
		}
		if _, err := t.warm.Delete(ctx, entry.Key); err != nil {
			return report, err
		}
		report.WarmToColdMigrated++
	}

	report.TotalHot = t.hot.Count()
	if report.TotalWarm, err = t.warm.Count(ctx); err != nil {
		return report, err
	}
	if report.TotalCold, err = t.cold.Count(ctx); err != nil {
		return report, err
	}

	t.log.Info("maintenance pass finished",
		"run_id", report.RunID,
		"hot_to_warm", report.HotToWarmMigrated,
		"warm_to_cold", report.WarmToColdMigrated,
		"total_hot", report.TotalHot,
		"total_warm", report.TotalWarm,
		"total_cold", report.TotalCold)
	return report, nil
}

// HealthCheck reports whether all three tiers are healthy. Degrades to
// false instead of failing.
func (t *TieredMemory) HealthCheck(ctx context.Context) bool {
	return t.hot.HealthCheck() && t.warm.HealthCheck(ctx) && t.cold.HealthCheck(ctx)
}

// Hot exposes the hot tier for direct inspection.
func (t *TieredMemory) Hot() *HotTier { return t.hot }

// Warm exposes the warm tier for direct inspection.
func (t *TieredMemory) Warm() *WarmTier { return t.warm }

// Cold exposes the cold tier for direct inspection.
func (t *TieredMemory) Cold() *ColdTier { return t.cold }

// Policy returns the engine's migration policy.
func (t *TieredMemory) Policy() model.MigrationPolicy { return t.policy }
