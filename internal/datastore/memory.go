package datastore

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend keeps collections in process memory behind a mutex. It backs
// unit tests and local development without a MongoDB instance.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string]map[string]Record)}
}

func (m *MemoryBackend) Run(ctx context.Context, collection string, q Query) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, rec := range m.collections[collection] {
		if !matches(rec, q) {
			continue
		}
		out = append(out, rec.Clone())
	}

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := out[i].TimeField(q.OrderBy), out[j].TimeField(q.OrderBy)
			if q.Descending {
				return ti.After(tj)
			}
			return ti.Before(tj)
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *MemoryBackend) Put(ctx context.Context, collection, id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.collections[collection]
	if !ok {
		col = make(map[string]Record)
		m.collections[collection] = col
	}
	col[id] = rec.Clone()
	return nil
}

// Increment supports dotted paths ("moods.HAPPY") like the mongo backend's
// $inc does, creating missing intermediate maps along the way.
func (m *MemoryBackend) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	parts := strings.Split(field, ".")
	target := map[string]any(rec)
	for _, part := range parts[:len(parts)-1] {
		next, ok := target[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			target[part] = next
		}
		target = next
	}
	leaf := parts[len(parts)-1]
	target[leaf] = Record(target).IntField(leaf) + delta
	return nil
}

func matches(rec Record, q Query) bool {
	for k, v := range q.Filters {
		if !reflect.DeepEqual(rec[k], v) {
			return false
		}
	}
	if !q.UpdatedAfter.IsZero() && !rec.UpdatedAt().After(q.UpdatedAfter) {
		return false
	}
	if !q.CreatedAfter.IsZero() && !rec.CreatedAt().After(q.CreatedAfter) {
		return false
	}
	if !q.CreatedBefore.IsZero() && !rec.CreatedAt().Before(q.CreatedBefore) {
		return false
	}
	return true
}
