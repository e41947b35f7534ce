package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/roach88/metakit/value"
)

// Memory is an in-memory Adapter for tests and throwaway stores.
// Thread-safe for concurrent reads and writes. Values are deep-copied on
// the way in and out so callers can never mutate stored state through an
// aliased container.
type Memory struct {
	mu sync.RWMutex
	// entityType -> id -> key -> value
	// A nil value is the stored absence sentinel: the row exists but the
	// attribute reads as absent, matching the SQL adapters' empty-string rows.
	data map[string]map[int64]map[string]value.Value
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]map[int64]map[string]value.Value),
	}
}

// Get returns the stored value for one triple.
func (m *Memory) Get(_ context.Context, entityType string, id int64, key string) (value.Value, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[entityType][id][key]
	if !ok || v == nil {
		return nil, false, nil
	}
	return value.Copy(v), true, nil
}

// GetAll returns every present attribute for an entity.
func (m *Memory) GetAll(_ context.Context, entityType string, id int64) (map[string][]value.Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]value.Value)
	for key, v := range m.data[entityType][id] {
		if v == nil {
			continue // sentinel row, reads as absent
		}
		out[key] = []value.Value{value.Copy(v)}
	}
	return out, nil
}

// Set upserts the value for one triple. A nil v stores the absence sentinel.
func (m *Memory) Set(_ context.Context, entityType string, id int64, key string, v value.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byID, ok := m.data[entityType]
	if !ok {
		byID = make(map[int64]map[string]value.Value)
		m.data[entityType] = byID
	}
	byKey, ok := byID[id]
	if !ok {
		byKey = make(map[string]value.Value)
		byID[id] = byKey
	}

	if v == nil {
		byKey[key] = nil
		return nil
	}
	byKey[key] = value.Copy(v)
	return nil
}

// Delete removes one triple, reporting whether a row existed.
func (m *Memory) Delete(_ context.Context, entityType string, id int64, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byKey := m.data[entityType][id]
	if _, ok := byKey[key]; !ok {
		return false, nil
	}
	delete(byKey, key)
	return true, nil
}

// DistinctKeysByPrefix returns the distinct keys with the given prefix
// across all entities of the type, ascending. Sentinel rows count: their
// key still exists even though the attribute reads as absent.
func (m *Memory) DistinctKeysByPrefix(_ context.Context, entityType, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, byKey := range m.data[entityType] {
		for key := range byKey {
			if strings.HasPrefix(key, prefix) {
				seen[key] = struct{}{}
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteRowsByKey removes every row holding key across the entity type.
func (m *Memory) DeleteRowsByKey(_ context.Context, entityType, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, byKey := range m.data[entityType] {
		if _, ok := byKey[key]; ok {
			delete(byKey, key)
			count++
		}
	}
	return count, nil
}

// FindIDs returns the ids whose stored value for key satisfies the
// comparator, ascending. Ordering comparators compare numerically when the
// probe is a number and on serialized text otherwise, matching the SQL
// adapters' CAST semantics.
func (m *Memory) FindIDs(_ context.Context, entityType, key string, v value.Value, cmp Comparator) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []int64
	for id, byKey := range m.data[entityType] {
		stored, ok := byKey[key]
		if !ok || stored == nil {
			continue
		}
		if compareValues(stored, v, cmp) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func compareValues(stored, probe value.Value, cmp Comparator) bool {
	switch cmp {
	case Equal:
		return value.Equal(stored, probe)
	case NotEqual:
		return !value.Equal(stored, probe)
	case Like:
		return strings.Contains(value.AsString(stored), value.AsString(probe))
	}

	// Ordering comparators. When the probe is a number the comparison is
	// numeric, with non-numeric stored kinds ranking as 0 - the same result
	// the SQL adapters get from CAST(col AS REAL). Otherwise both sides
	// compare on their serialized text.
	var ord int
	if pf, ok := numericValue(probe); ok {
		sf, _ := numericValue(stored)
		switch {
		case sf < pf:
			ord = -1
		case sf > pf:
			ord = 1
		}
	} else {
		ord = strings.Compare(encodedText(stored), encodedText(probe))
	}

	switch cmp {
	case Greater:
		return ord > 0
	case Less:
		return ord < 0
	case GreaterOrEqual:
		return ord >= 0
	case LessOrEqual:
		return ord <= 0
	default:
		return false
	}
}

// numericValue returns the float form of an Int or Float, with ok=false for
// every other kind.
func numericValue(v value.Value) (float64, bool) {
	switch val := v.(type) {
	case value.Int:
		return float64(val), true
	case value.Float:
		return float64(val), true
	default:
		return 0, false
	}
}

// encodedText is the serialized form used for text ordering, mirroring what
// the SQL adapters store in the value column.
func encodedText(v value.Value) string {
	data, err := value.Encode(v)
	if err != nil {
		return ""
	}
	return string(data)
}
