package meta

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/metakit/store"
	"github.com/roach88/metakit/value"
)

// defaultWorkers bounds the fan-out of DeleteByPrefix's per-key deletions.
const defaultWorkers = 4

// Coordinator composes Accessor calls across many keys and many entities.
// It owns no storage: everything decomposes into single-key operations plus
// the adapter's native bulk queries.
type Coordinator struct {
	acc     *Accessor
	store   store.Adapter
	workers int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWorkers sets the parallelism of key-wise fan-out operations.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// NewCoordinator creates a Coordinator over the given backing store.
func NewCoordinator(s store.Adapter, opts ...Option) *Coordinator {
	c := &Coordinator{
		acc:     NewAccessor(s),
		store:   s,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Accessor returns the single-key layer the Coordinator is built on.
func (c *Coordinator) Accessor() *Accessor {
	return c.acc
}

// GetMany fetches the listed keys for one entity, omitting absent keys from
// the result.
func (c *Coordinator) GetMany(ctx context.Context, entityType string, id int64, keys []string, single bool) map[string]value.Value {
	out := make(map[string]value.Value, len(keys))
	for _, key := range keys {
		if v := c.acc.Get(ctx, entityType, id, key, single); v != nil {
			out[key] = v
		}
	}
	return out
}

// GetAll returns every attribute stored for the entity, straight from the
// adapter's native full-dump query.
func (c *Coordinator) GetAll(ctx context.Context, entityType string, id int64) map[string][]value.Value {
	all, err := c.store.GetAll(ctx, entityType, id)
	if err != nil {
		slog.Warn("metadata full dump failed",
			"entity_type", entityType, "id", id, "err", err)
		return map[string][]value.Value{}
	}
	return all
}

// UpdateMany writes each entry of values, conditionally (UpdateIfChanged)
// when skipUnchanged is set and unconditionally otherwise. Returns the keys
// actually written, in sorted key order. A failed write just leaves its key
// out of the result; the rest of the batch proceeds.
func (c *Coordinator) UpdateMany(ctx context.Context, entityType string, id int64, values map[string]value.Value, skipUnchanged bool) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	written := make([]string, 0, len(keys))
	for _, key := range keys {
		var ok bool
		if skipUnchanged {
			ok = c.acc.UpdateIfChanged(ctx, entityType, id, key, values[key])
		} else {
			ok = c.acc.Update(ctx, entityType, id, key, values[key])
		}
		if ok {
			written = append(written, key)
		}
	}
	return written
}

// DeleteMany deletes each listed key, returning the number of successful
// deletions.
func (c *Coordinator) DeleteMany(ctx context.Context, entityType string, id int64, keys []string) int {
	count := 0
	for _, key := range keys {
		if c.acc.Delete(ctx, entityType, id, key) {
			count++
		}
	}
	return count
}

// Backup snapshots the listed keys as single values, omitting absent keys.
func (c *Coordinator) Backup(ctx context.Context, entityType string, id int64, keys []string) map[string]value.Value {
	return c.GetMany(ctx, entityType, id, keys, true)
}

// Restore writes a backup map unconditionally, returning the keys written.
func (c *Coordinator) Restore(ctx context.Context, entityType string, id int64, backup map[string]value.Value) []string {
	return c.UpdateMany(ctx, entityType, id, backup, false)
}

// GetByPrefix returns the entity's attributes whose key starts with prefix,
// with their values.
func (c *Coordinator) GetByPrefix(ctx context.Context, entityType string, id int64, prefix string) map[string]value.Value {
	out := make(map[string]value.Value)
	for key, vals := range c.GetAll(ctx, entityType, id) {
		if strings.HasPrefix(key, prefix) && len(vals) > 0 {
			out[key] = vals[0]
		}
	}
	return out
}

// KeysByPrefix returns just the matching keys of GetByPrefix, sorted.
func (c *Coordinator) KeysByPrefix(ctx context.Context, entityType string, id int64, prefix string) []string {
	var keys []string
	for key := range c.GetAll(ctx, entityType, id) {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// DeleteByPrefix removes every key starting with prefix across ALL entities
// of the type and returns the total rows removed. This is the one operation
// with store-wide blast radius: destructive and irreversible.
//
// Per-key deletions fan out across a bounded worker group; the total is
// order-independent, and failed keys are logged and skipped.
func (c *Coordinator) DeleteByPrefix(ctx context.Context, entityType, prefix string) int64 {
	keys, err := c.store.DistinctKeysByPrefix(ctx, entityType, prefix)
	if err != nil {
		slog.Warn("prefix key scan failed",
			"entity_type", entityType, "prefix", prefix, "err", err)
		return 0
	}

	var total atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			n, err := c.store.DeleteRowsByKey(gctx, entityType, key)
			if err != nil {
				slog.Warn("prefix delete failed for key",
					"entity_type", entityType, "key", key, "err", err)
				return nil // keep deleting the remaining keys
			}
			total.Add(n)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return total.Load()
}

// BulkGet fetches the same key for a cohort of entities. Every id appears
// in the result; absent attributes map to nil.
func (c *Coordinator) BulkGet(ctx context.Context, entityType string, ids []int64, key string) map[int64]value.Value {
	out := make(map[int64]value.Value, len(ids))
	for _, id := range ids {
		out[id] = c.acc.Get(ctx, entityType, id, key, true)
	}
	return out
}

// BulkUpdate writes the same key/value for a cohort of entities, reporting
// per-id success. One failure does not stop the rest.
func (c *Coordinator) BulkUpdate(ctx context.Context, entityType string, ids []int64, key string, v value.Value) map[int64]bool {
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = c.acc.Update(ctx, entityType, id, key, v)
	}
	return out
}

// BulkDelete deletes the same key for a cohort of entities, reporting
// per-id success.
func (c *Coordinator) BulkDelete(ctx context.Context, entityType string, ids []int64, key string) map[int64]bool {
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = c.acc.Delete(ctx, entityType, id, key)
	}
	return out
}

// FindObjectsByValue returns the distinct ids of entities whose value for
// key satisfies the comparator, via the adapter's query capability.
func (c *Coordinator) FindObjectsByValue(ctx context.Context, entityType, key string, v value.Value, cmp store.Comparator) []int64 {
	ids, err := c.store.FindIDs(ctx, entityType, key, v, cmp)
	if err != nil {
		slog.Warn("find by value failed",
			"entity_type", entityType, "key", key, "err", err)
		return nil
	}
	return ids
}

// FindLarge returns the entity's attributes whose serialized size exceeds
// limit, mapped to their sizes in bytes.
func (c *Coordinator) FindLarge(ctx context.Context, entityType string, id int64, limit int) map[string]int {
	out := make(map[string]int)
	for key, vals := range c.GetAll(ctx, entityType, id) {
		for _, v := range vals {
			if size := value.SerializedSize(v); size > limit {
				out[key] = size
			}
		}
	}
	return out
}
