package meta

import (
	"context"

	"github.com/roach88/metakit/value"
)

// Array operations require the stored value to be an Array. Reads against
// an absent or non-Array value report false/0; ArrayAppend alone treats
// absence as the empty Array.
//
// Equality discipline: membership and removal use strict equality
// (value.Equal - "1" never matches 1); ArrayUnique alone uses structural
// equality, since its job is collapsing structurally identical composites.

// readArray fetches the stored value when it is an Array.
func (a *Accessor) readArray(ctx context.Context, entityType string, id int64, key string) (value.Array, bool) {
	v, ok, _ := a.read(ctx, entityType, id, key)
	if !ok {
		return nil, false
	}
	arr, isArr := v.(value.Array)
	return arr, isArr
}

// ArrayContains reports whether the stored Array holds an element strictly
// equal to elem.
func (a *Accessor) ArrayContains(ctx context.Context, entityType string, id int64, key string, elem value.Value) bool {
	arr, ok := a.readArray(ctx, entityType, id, key)
	if !ok {
		return false
	}
	for _, e := range arr {
		if value.Equal(e, elem) {
			return true
		}
	}
	return false
}

// ArrayAppend pushes one element onto the stored Array and rewrites the
// whole sequence. An absent value starts as the empty Array; a present
// non-Array value fails.
func (a *Accessor) ArrayAppend(ctx context.Context, entityType string, id int64, key string, elem value.Value) bool {
	v, present, err := a.read(ctx, entityType, id, key)
	if err != nil {
		return false
	}
	arr := value.Array{}
	if present {
		var isArr bool
		arr, isArr = v.(value.Array)
		if !isArr {
			return false
		}
	}

	next := make(value.Array, 0, len(arr)+1)
	next = append(next, arr...)
	next = append(next, elem)
	return a.write(ctx, entityType, id, key, next)
}

// ArrayRemove removes the first element strictly equal to elem, re-indexing
// the remainder. Returns false when elem was not found or the stored value
// is not an Array.
func (a *Accessor) ArrayRemove(ctx context.Context, entityType string, id int64, key string, elem value.Value) bool {
	arr, ok := a.readArray(ctx, entityType, id, key)
	if !ok {
		return false
	}

	for i, e := range arr {
		if value.Equal(e, elem) {
			next := make(value.Array, 0, len(arr)-1)
			next = append(next, arr[:i]...)
			next = append(next, arr[i+1:]...)
			return a.write(ctx, entityType, id, key, next)
		}
	}
	return false
}

// ArrayRemoveAll removes every element strictly equal to elem. Returns
// false when nothing was removed.
func (a *Accessor) ArrayRemoveAll(ctx context.Context, entityType string, id int64, key string, elem value.Value) bool {
	arr, ok := a.readArray(ctx, entityType, id, key)
	if !ok {
		return false
	}

	next := make(value.Array, 0, len(arr))
	for _, e := range arr {
		if !value.Equal(e, elem) {
			next = append(next, e)
		}
	}
	if len(next) == len(arr) {
		return false
	}
	return a.write(ctx, entityType, id, key, next)
}

// ArrayUnique de-duplicates the stored Array preserving first occurrence,
// comparing structurally so nested composites with the same shape collapse.
// Returns false when no duplicates existed.
func (a *Accessor) ArrayUnique(ctx context.Context, entityType string, id int64, key string) bool {
	arr, ok := a.readArray(ctx, entityType, id, key)
	if !ok {
		return false
	}

	seen := make(map[string]struct{}, len(arr))
	next := make(value.Array, 0, len(arr))
	for _, e := range arr {
		k := value.CanonicalKey(e)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		next = append(next, e)
	}
	if len(next) == len(arr) {
		return false
	}
	return a.write(ctx, entityType, id, key, next)
}

// ArrayCount returns the stored Array's length, 0 when absent or not an
// Array.
func (a *Accessor) ArrayCount(ctx context.Context, entityType string, id int64, key string) int {
	arr, ok := a.readArray(ctx, entityType, id, key)
	if !ok {
		return 0
	}
	return len(arr)
}
