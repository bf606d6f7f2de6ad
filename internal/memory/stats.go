package memory

import (
	"context"
	"os"
)

// Stats holds engine statistics.
type Stats struct {
	HotEntries    int        `json:"hot_entries"`
	HotCapacity   int        `json:"hot_capacity"`
	WarmEntries   int        `json:"warm_entries"`
	ColdEntries   int        `json:"cold_entries"`
	TotalEntries  int        `json:"total_entries"`
	WarmDBPath    string     `json:"warm_db_path"`
	WarmSizeBytes int64      `json:"warm_db_size_bytes"`
	ColdDBPath    string     `json:"cold_db_path"`
	ColdSizeBytes int64      `json:"cold_db_size_bytes"`
	Healthy       bool       `json:"healthy"`
	Priorities    []TierLoad `json:"warm_priorities,omitempty"`
}

// TierLoad is a per-priority count in the warm store.
type TierLoad struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// Stats reports per-tier counts, database sizes, and warm-store
// priority distribution.
func (t *TieredMemory) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{
		HotEntries:  t.hot.Count(),
		HotCapacity: t.policy.MaxHotEntries,
		WarmDBPath:  t.warm.Path(),
		ColdDBPath:  t.cold.Path(),
		Healthy:     t.HealthCheck(ctx),
	}

	var err error
	if st.WarmEntries, err = t.warm.Count(ctx); err != nil {
		return nil, err
	}
	if st.ColdEntries, err = t.cold.Count(ctx); err != nil {
		return nil, err
	}
	st.TotalEntries = st.HotEntries + st.WarmEntries + st.ColdEntries

	if info, err := os.Stat(st.WarmDBPath); err == nil {
		st.WarmSizeBytes = info.Size()
	}
	if info, err := os.Stat(st.ColdDBPath); err == nil {
		st.ColdSizeBytes = info.Size()
	}

	rows, err := t.warm.db.QueryContext(ctx, `
		SELECT priority, COUNT(*) AS cnt
		FROM warm_memories GROUP BY priority ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var tl TierLoad
		if err := rows.Scan(&tl.Priority, &tl.Count); err != nil {
			return st, err
		}
		st.Priorities = append(st.Priorities, tl)
	}
	return st, rows.Err()
}
