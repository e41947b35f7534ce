package meta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/metakit/value"
)

func TestArrayAppend_StartsFromEmpty(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor()

	assert.True(t, a.ArrayAppend(ctx, "post", 1, "tags", value.String("go")))
	assert.True(t, a.ArrayAppend(ctx, "post", 1, "tags", value.String("sql")))

	got := a.Get(ctx, "post", 1, "tags", true)
	assert.Equal(t, value.Array{value.String("go"), value.String("sql")}, got)
	assert.Equal(t, 2, a.ArrayCount(ctx, "post", 1, "tags"))
}

func TestArrayAppend_RejectsNonArray(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor()

	require.True(t, a.Update(ctx, "post", 1, "scalar", value.Int(5)))
	assert.False(t, a.ArrayAppend(ctx, "post", 1, "scalar", value.Int(6)))
}

func TestArrayAppendThenRemoveRestores(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor()

	orig := value.Array{value.Int(1), value.Int(2)}
	require.True(t, a.Update(ctx, "post", 1, "list", orig))

	require.True(t, a.ArrayAppend(ctx, "post", 1, "list", value.Int(3)))
	require.True(t, a.ArrayRemove(ctx, "post", 1, "list", value.Int(3)))

	got := a.Get(ctx, "post", 1, "list", true)
	assert.True(t, value.Equal(orig, got), "append then remove should restore: %v", got)
}

func TestArrayContains_Strict(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor()

	require.True(t, a.Update(ctx, "post", 1, "list", value.Array{value.Int(1), value.String("2")}))

	assert.True(t, a.ArrayContains(ctx, "post", 1, "list", value.Int(1)))
	assert.True(t, a.ArrayContains(ctx, "post", 1, "list", value.String("2")))
	// Strict: the int 2 is not the string "2"
	assert.False(t, a.ArrayContains(ctx, "post", 1, "list", value.Int(2)))
	assert.False(t, a.ArrayContains(ctx, "post", 1, "list", value.String("1")))

	// Absent and non-array both report false
	assert.False(t, a.ArrayContains(ctx, "post", 1, "missing", value.Int(1)))
	require.True(t, a.Update(ctx, "post", 1, "scalar", value.Int(1)))
	assert.False(t, a.ArrayContains(ctx, "post", 1, "scalar", value.Int(1)))
}

func TestArrayRemove_FirstOccurrenceOnly(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor()

	require.True(t, a.Update(ctx, "post", 1, "list",
		value.Array{value.Int(1), value.Int(2), value.Int(1)}))

	assert.True(t, a.ArrayRemove(ctx, "post", 1, "list", value.Int(1)))
	got := a.Get(ctx, "post", 1, "list", true)
	assert.Equal(t, value.Array{value.Int(2), value.Int(1)}, got)

	assert.False(t, a.ArrayRemove(ctx, "post", 1, "list", value.Int(99)), "not found")
}

func TestArrayRemoveAll(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor()

	require.True(t, a.Update(ctx, "post", 1, "list",
		value.Array{value.Int(1), value.Int(2), value.Int(1), value.Int(1)}))

	assert.True(t, a.ArrayRemoveAll(ctx, "post", 1, "list", value.Int(1)))
	got := a.Get(ctx, "post", 1, "list", true)
	assert.Equal(t, value.Array{value.Int(2)}, got)

	assert.False(t, a.ArrayRemoveAll(ctx, "post", 1, "list", value.Int(1)), "nothing left to remove")
}

func TestArrayUnique_StructuralAndIdempotent(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor()

	require.True(t, a.Update(ctx, "post", 1, "list", value.Array{
		value.Map{"a": value.Int(1), "b": value.Int(2)},
		value.Int(7),
		value.Map{"b": value.Int(2), "a": value.Int(1)}, // structurally equal to the first
		value.Int(7),
	}))

	assert.True(t, a.ArrayUnique(ctx, "post", 1, "list"))
	got := a.Get(ctx, "post", 1, "list", true)
	want := value.Array{value.Map{"a": value.Int(1), "b": value.Int(2)}, value.Int(7)}
	assert.True(t, value.Equal(want, got), "first occurrences preserved: %v", got)

	// Idempotent: a second pass finds no duplicates and reports false
	assert.False(t, a.ArrayUnique(ctx, "post", 1, "list"))
	again := a.Get(ctx, "post", 1, "list", true)
	assert.True(t, value.Equal(got, again))
}

func TestArrayCount(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor()

	assert.Equal(t, 0, a.ArrayCount(ctx, "post", 1, "missing"))

	require.True(t, a.Update(ctx, "post", 1, "scalar", value.String("x")))
	assert.Equal(t, 0, a.ArrayCount(ctx, "post", 1, "scalar"))

	require.True(t, a.Update(ctx, "post", 1, "list", value.Array{value.Int(1), value.Int(2)}))
	assert.Equal(t, 2, a.ArrayCount(ctx, "post", 1, "list"))
}
