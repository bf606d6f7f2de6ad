package memory

import (
	"context"

	"github.com/tiermem/tiermem/internal/model"
)

// Export returns every entry across all tiers, hot first. Entries keep
// their tier labels so an export shows where each copy lived.
func (t *TieredMemory) Export(ctx context.Context) ([]model.Entry, error) {
	out := t.hot.All()

	warm, err := t.warm.All(ctx)
	if err != nil {
		return nil, err
	}
	out = append(out, warm...)

	cold, err := t.cold.All(ctx)
	if err != nil {
		return nil, err
	}
	return append(out, cold...), nil
}

// Import replays entries through Remember, landing them all in the hot
// tier under the current policy. Returns how many were imported.
func (t *TieredMemory) Import(ctx context.Context, entries []model.Entry) (int, error) {
	imported := 0
	for _, e := range entries {
		if err := t.Remember(ctx, e.Key, e.Content, e.Priority); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
