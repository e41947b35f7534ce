package meta

import (
	"context"

	"github.com/roach88/metakit/value"
)

// GetNested walks a dot-path through the stored tree and returns the leaf,
// or def the moment a segment is missing or an intermediate is not a Map.
func (a *Accessor) GetNested(ctx context.Context, entityType string, id int64, key, path string, def value.Value) value.Value {
	return value.GetPath(a.Get(ctx, entityType, id, key, true), path, def)
}

// SetNested sets the leaf at a dot-path, creating intermediate Maps as
// needed (existing non-Map intermediates are overwritten), and rewrites the
// whole value.
func (a *Accessor) SetNested(ctx context.Context, entityType string, id int64, key, path string, leaf value.Value) bool {
	cur := a.Get(ctx, entityType, id, key, true)
	return a.write(ctx, entityType, id, key, value.SetPath(cur, path, leaf))
}

// RemoveNested removes the leaf at a dot-path and rewrites the whole value.
// Returns false when the path does not fully resolve.
func (a *Accessor) RemoveNested(ctx context.Context, entityType string, id int64, key, path string) bool {
	cur := a.Get(ctx, entityType, id, key, true)
	next, ok := value.RemovePath(cur, path)
	if !ok {
		return false
	}
	return a.write(ctx, entityType, id, key, next)
}

// GetJSON returns the stored value as a container. A stored Array or Map
// passes through; a stored string is parsed as JSON. Malformed JSON and
// non-container results fall back to def.
func (a *Accessor) GetJSON(ctx context.Context, entityType string, id int64, key string, def value.Value) value.Value {
	v, ok, _ := a.read(ctx, entityType, id, key)
	if !ok {
		return def
	}

	switch val := v.(type) {
	case value.Array, value.Map:
		return val
	case value.String:
		parsed, err := value.Decode([]byte(val))
		if err != nil {
			return def
		}
		switch parsed.(type) {
		case value.Array, value.Map:
			return parsed
		default:
			return def
		}
	default:
		return def
	}
}

// SetJSON is a plain structured upsert of a container value.
func (a *Accessor) SetJSON(ctx context.Context, entityType string, id int64, key string, v value.Value) bool {
	return a.Update(ctx, entityType, id, key, v)
}
