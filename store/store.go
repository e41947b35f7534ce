package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/metakit/value"
)

// Adapter is the contract a backing store must satisfy. Entity types are
// opaque namespace strings, entity ids are positive integers, and keys are
// arbitrary non-empty strings unique per (type, id) pair.
//
// Absence is not an error: Get returns (nil, false, nil) for a missing
// attribute. Errors are reserved for storage failures (I/O, query errors).
//
// Setting a nil value stores the absence sentinel: the row may exist, but
// subsequent Gets report the attribute as absent.
type Adapter interface {
	// Get returns the stored value for one (type, id, key) triple.
	// The bool reports presence.
	Get(ctx context.Context, entityType string, id int64, key string) (value.Value, bool, error)

	// GetAll returns every attribute stored for an entity, in the store's
	// native multi-value representation (one slice per key).
	GetAll(ctx context.Context, entityType string, id int64) (map[string][]value.Value, error)

	// Set upserts the value for one triple. Last write wins.
	Set(ctx context.Context, entityType string, id int64, key string, v value.Value) error

	// Delete removes one triple. The bool reports whether a row was removed.
	Delete(ctx context.Context, entityType string, id int64, key string) (bool, error)

	// DistinctKeysByPrefix returns the distinct keys of an entity type that
	// start with prefix, across all entities, in ascending order.
	DistinctKeysByPrefix(ctx context.Context, entityType, prefix string) ([]string, error)

	// DeleteRowsByKey removes every row holding key across all entities of
	// the type and returns the number of rows removed.
	DeleteRowsByKey(ctx context.Context, entityType, key string) (int64, error)

	// FindIDs returns the distinct ids of entities whose stored value for
	// key satisfies the comparator against v, in ascending order.
	FindIDs(ctx context.Context, entityType, key string, v value.Value, cmp Comparator) ([]int64, error)
}

// Comparator is the closed set of comparison operators FindIDs supports.
// Modeling this as an enum (instead of passing operator strings into query
// text) keeps adapter queries fully parameterized.
type Comparator uint8

const (
	// Equal matches values strictly equal to the probe.
	Equal Comparator = iota + 1
	// NotEqual matches values not strictly equal to the probe.
	NotEqual
	// Greater matches values ordered after the probe.
	Greater
	// Less matches values ordered before the probe.
	Less
	// GreaterOrEqual matches values ordered at or after the probe.
	GreaterOrEqual
	// LessOrEqual matches values ordered at or before the probe.
	LessOrEqual
	// Like performs a substring match on the string form of the value.
	Like
)

// ParseComparator maps an operator spelling to a Comparator. Both "!=" and
// "<>" spell NotEqual; "LIKE" is case-insensitive.
func ParseComparator(s string) (Comparator, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "=":
		return Equal, nil
	case "!=", "<>":
		return NotEqual, nil
	case ">":
		return Greater, nil
	case "<":
		return Less, nil
	case ">=":
		return GreaterOrEqual, nil
	case "<=":
		return LessOrEqual, nil
	case "LIKE":
		return Like, nil
	default:
		return 0, fmt.Errorf("unknown comparator %q", s)
	}
}

// String returns the SQL spelling of the comparator.
func (c Comparator) String() string {
	switch c {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case Greater:
		return ">"
	case Less:
		return "<"
	case GreaterOrEqual:
		return ">="
	case LessOrEqual:
		return "<="
	case Like:
		return "LIKE"
	default:
		return "invalid"
	}
}
