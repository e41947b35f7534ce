package meta

import (
	"context"
	"log/slog"

	"github.com/roach88/metakit/store"
	"github.com/roach88/metakit/value"
)

// Accessor performs single-key operations against one (type, id, key)
// triple. Each call is a direct pass-through to the injected adapter;
// Accessor keeps no state between calls.
type Accessor struct {
	store store.Adapter
}

// NewAccessor creates an Accessor over the given backing store.
func NewAccessor(s store.Adapter) *Accessor {
	return &Accessor{store: s}
}

// read fetches a value, logging storage errors. Plain reads treat an error
// like absence; read-modify-write paths must check it so a failed read never
// seeds a rewrite.
func (a *Accessor) read(ctx context.Context, entityType string, id int64, key string) (value.Value, bool, error) {
	v, ok, err := a.store.Get(ctx, entityType, id, key)
	if err != nil {
		slog.Warn("metadata read failed",
			"entity_type", entityType, "id", id, "key", key, "err", err)
		return nil, false, err
	}
	return v, ok, nil
}

// write stores a value, logging and absorbing storage errors.
func (a *Accessor) write(ctx context.Context, entityType string, id int64, key string, v value.Value) bool {
	if err := a.store.Set(ctx, entityType, id, key, v); err != nil {
		slog.Warn("metadata write failed",
			"entity_type", entityType, "id", id, "key", key, "err", err)
		return false
	}
	return true
}

// Exists reports whether a non-absent value is stored for the key.
func (a *Accessor) Exists(ctx context.Context, entityType string, id int64, key string) bool {
	_, ok, _ := a.read(ctx, entityType, id, key)
	return ok
}

// Get returns the stored value, or nil when absent. With single=false the
// value comes back in the store's multi-value shape: an Array holding every
// stored value for the key, nil when there are none. Either way a single
// nil check covers absence.
func (a *Accessor) Get(ctx context.Context, entityType string, id int64, key string, single bool) value.Value {
	v, ok, _ := a.read(ctx, entityType, id, key)
	if !ok {
		return nil
	}
	if single {
		return v
	}
	return value.Array{v}
}

// GetDefault returns the stored value, substituting def when absent.
func (a *Accessor) GetDefault(ctx context.Context, entityType string, id int64, key string, def value.Value) value.Value {
	v, ok, _ := a.read(ctx, entityType, id, key)
	if !ok {
		return def
	}
	return v
}

// GetCast reads the value (substituting def when absent) and coerces it to
// the requested kind with the permissive rules of value.Cast.
func (a *Accessor) GetCast(ctx context.Context, entityType string, id int64, key string, kind value.CastKind, def value.Value) value.Value {
	return value.Cast(a.GetDefault(ctx, entityType, id, key, def), kind)
}

// Update unconditionally upserts the value, reporting whether the backing
// store accepted the write.
func (a *Accessor) Update(ctx context.Context, entityType string, id int64, key string, v value.Value) bool {
	return a.write(ctx, entityType, id, key, v)
}

// UpdateIfChanged writes only when v differs from the stored value under
// strict equality ("1" and 1 are different), returning true only when a
// write occurred. The read and the write are separate calls: a concurrent
// writer in between is silently overwritten.
func (a *Accessor) UpdateIfChanged(ctx context.Context, entityType string, id int64, key string, v value.Value) bool {
	cur, ok, _ := a.read(ctx, entityType, id, key)
	if ok && value.Equal(cur, v) {
		return false
	}
	return a.write(ctx, entityType, id, key, v)
}

// Delete removes the key's value. A non-positive id is a no-op returning
// false.
func (a *Accessor) Delete(ctx context.Context, entityType string, id int64, key string) bool {
	if id <= 0 {
		slog.Debug("metadata delete skipped for non-positive id",
			"entity_type", entityType, "id", id, "key", key)
		return false
	}

	ok, err := a.store.Delete(ctx, entityType, id, key)
	if err != nil {
		slog.Warn("metadata delete failed",
			"entity_type", entityType, "id", id, "key", key, "err", err)
		return false
	}
	return ok
}

// Increment adds amount to the integer coercion of the stored value (absent
// counts as 0) and writes the result. Returns the new value; ok is false
// when the read or the write failed. A failed read aborts the whole
// operation so a live counter is never rewritten from a phantom zero.
func (a *Accessor) Increment(ctx context.Context, entityType string, id int64, key string, amount int64) (int64, bool) {
	cur, _, err := a.read(ctx, entityType, id, key)
	if err != nil {
		return 0, false
	}
	next := value.AsInt(cur) + amount
	if !a.write(ctx, entityType, id, key, value.Int(next)) {
		return 0, false
	}
	return next, true
}

// Decrement subtracts the absolute value of amount, so a negative amount
// cannot turn a decrement into an increment. Otherwise mirrors Increment.
func (a *Accessor) Decrement(ctx context.Context, entityType string, id int64, key string, amount int64) (int64, bool) {
	if amount < 0 {
		amount = -amount
	}
	return a.Increment(ctx, entityType, id, key, -amount)
}

// IsTruthy reports the boolean coercion of the stored value, substituting
// def when absent.
func (a *Accessor) IsTruthy(ctx context.Context, entityType string, id int64, key string, def bool) bool {
	v, ok, _ := a.read(ctx, entityType, id, key)
	if !ok {
		return def
	}
	return value.Truthy(v)
}

// Toggle writes the negation of the stored value's boolean coercion.
// Returns the new value; ok is false when the read or the write failed. As
// with Increment, a failed read aborts rather than flipping from a phantom
// false.
func (a *Accessor) Toggle(ctx context.Context, entityType string, id int64, key string) (bool, bool) {
	cur, _, err := a.read(ctx, entityType, id, key)
	if err != nil {
		return false, false
	}
	next := !value.Truthy(cur)
	if !a.write(ctx, entityType, id, key, value.Bool(next)) {
		return false, false
	}
	return next, true
}

// TypeOf returns the runtime kind of the stored value. The bool reports
// presence; an absent attribute has no kind.
func (a *Accessor) TypeOf(ctx context.Context, entityType string, id int64, key string) (value.Kind, bool) {
	v, ok, _ := a.read(ctx, entityType, id, key)
	if !ok {
		return value.KindInvalid, false
	}
	return value.KindOf(v), true
}

// IsType reports whether the stored value is present with the given kind.
func (a *Accessor) IsType(ctx context.Context, entityType string, id int64, key string, kind value.Kind) bool {
	k, ok := a.TypeOf(ctx, entityType, id, key)
	return ok && k == kind
}

// Size returns the serialized byte length of the stored value, 0 when
// absent.
func (a *Accessor) Size(ctx context.Context, entityType string, id int64, key string) int {
	v, ok, _ := a.read(ctx, entityType, id, key)
	if !ok {
		return 0
	}
	return value.SerializedSize(v)
}

// IsLarge reports whether the stored value's serialized size exceeds limit.
func (a *Accessor) IsLarge(ctx context.Context, entityType string, id int64, key string, limit int) bool {
	return a.Size(ctx, entityType, id, key) > limit
}

// MigrateKey copies the value from oldKey to newKey and, when deleteOld is
// set, removes oldKey afterwards. Returns false when any required step
// failed.
//
// Quirk, preserved deliberately: when oldKey is absent the copy writes the
// absence sentinel to newKey, leaving a row that reads as absent. Callers
// that want skip-if-missing semantics must check Exists first.
func (a *Accessor) MigrateKey(ctx context.Context, entityType string, id int64, oldKey, newKey string, deleteOld bool) bool {
	v := a.Get(ctx, entityType, id, oldKey, true)
	if !a.write(ctx, entityType, id, newKey, v) {
		return false
	}
	if deleteOld {
		return a.Delete(ctx, entityType, id, oldKey)
	}
	return true
}
