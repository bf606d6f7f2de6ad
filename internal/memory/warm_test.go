package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tiermem/tiermem/internal/model"
)

func newTestWarm(t *testing.T) *WarmTier {
	t.Helper()
	w, err := NewWarmTier(filepath.Join(t.TempDir(), "warm.db"))
	if err != nil {
		t.Fatalf("create warm tier: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWarmStoreAndGet(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	e := model.NewEntry("k1", "warm content", model.PriorityHigh)
	e.Tags = []string{"deploy", "infra"}
	e.SessionID = "sess-1"
	if err := w.Store(ctx, e); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, ok, err := w.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Content != "warm content" {
		t.Errorf("expected 'warm content', got %q", got.Content)
	}
	if got.Tier != model.TierWarm {
		t.Errorf("expected warm tier label, got %q", got.Tier)
	}
	if got.Priority != model.PriorityHigh {
		t.Errorf("expected high priority, got %q", got.Priority)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "deploy" {
		t.Errorf("tags not round-tripped: %v", got.Tags)
	}
	if got.SessionID != "sess-1" {
		t.Errorf("session id not round-tripped: %q", got.SessionID)
	}
}

func TestWarmGetMissing(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	_, ok, err := w.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if ok {
		t.Error("expected miss")
	}
}

func TestWarmUpsertByKey(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	e := model.NewEntry("k1", "v1", model.PriorityNormal)
	w.Store(ctx, e)
	e.Content = "v2"
	if err := w.Store(ctx, e); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	n, _ := w.Count(ctx)
	if n != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", n)
	}
	got, _, _ := w.Get(ctx, "k1")
	if got.Content != "v2" {
		t.Errorf("expected 'v2', got %q", got.Content)
	}
}

func TestWarmDelete(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	w.Store(ctx, model.NewEntry("k1", "c", model.PriorityNormal))

	deleted, err := w.Delete(ctx, "k1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("expected deletion reported")
	}

	deleted, _ = w.Delete(ctx, "k1")
	if deleted {
		t.Error("expected second delete to report false")
	}
}

func TestWarmEntriesForArchival(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	old := model.NewEntry("old", "aged", model.PriorityNormal)
	old.Timestamp = time.Now().UTC().Add(-31 * 24 * time.Hour)
	w.Store(ctx, old)
	w.Store(ctx, model.NewEntry("fresh", "new", model.PriorityNormal))

	eligible, err := w.EntriesForArchival(ctx, 30)
	if err != nil {
		t.Fatalf("archival query: %v", err)
	}
	if len(eligible) != 1 {
		t.Fatalf("expected 1 eligible, got %d", len(eligible))
	}
	if eligible[0].Key != "old" {
		t.Errorf("expected 'old', got %q", eligible[0].Key)
	}
}

func TestWarmSearch(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	w.Store(ctx, model.NewEntry("k1", "hello world", model.PriorityNormal))
	w.Store(ctx, model.NewEntry("k2", "goodbye world", model.PriorityNormal))

	results, err := w.Search(ctx, "hello", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	results, _ = w.Search(ctx, "world", 1)
	if len(results) != 1 {
		t.Errorf("expected limit to cap results at 1, got %d", len(results))
	}
}

func TestWarmMalformedTagsDegradeToEmpty(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	_, err := w.db.ExecContext(ctx,
		`INSERT INTO warm_memories (id, key, content, priority, timestamp, accessed_at, access_count, tags)
		 VALUES ('mem_x', 'bad-tags', 'c', 'normal', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z', 1, 'not json')`)
	if err != nil {
		t.Fatalf("raw insert: %v", err)
	}

	got, ok, err := w.Get(ctx, "bad-tags")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("expected empty tags for malformed blob, got %v", got.Tags)
	}
}

func TestWarmHealthCheck(t *testing.T) {
	w := newTestWarm(t)
	if !w.HealthCheck(context.Background()) {
		t.Error("expected healthy store")
	}

	w.Close()
	if w.HealthCheck(context.Background()) {
		t.Error("expected closed store to report unhealthy")
	}
}
