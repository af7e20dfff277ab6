package audit

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore keeps records in process memory. Used by tests and by
// the server when no database is configured.
type InMemoryStore struct {
	mu   sync.RWMutex
	recs []Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, cloneRecord(rec))
	return nil
}

// List returns matching records newest first.
func (s *InMemoryStore) List(ctx context.Context, f Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.recs))
	for _, rec := range s.recs {
		if f.Matches(rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	limit := ClampLimit(f.Limit)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneRecord(rec Record) Record {
	out := rec
	out.Before = cloneSnapshot(rec.Before)
	out.After = cloneSnapshot(rec.After)
	return out
}

func cloneSnapshot(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
