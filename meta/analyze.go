package meta

import (
	"context"

	"github.com/roach88/metakit/value"
)

// Report is the result of CompareValues over a cohort of entities.
type Report struct {
	// ObjectsWithMeta counts cohort members holding a value for the key.
	ObjectsWithMeta int `json:"objects_with_meta"`

	// ObjectsWithoutMeta counts cohort members with the key absent.
	ObjectsWithoutMeta int `json:"objects_without_meta"`

	// ValueCounts maps each distinct value's canonical key to its
	// occurrence count. Structurally equal composites share one bucket;
	// kind tags keep "1" and 1 apart.
	ValueCounts map[string]int `json:"value_counts"`

	// Values maps every cohort id to its value (nil when absent).
	Values map[int64]value.Value `json:"values"`

	// UniqueValues lists the structurally distinct values in first-seen
	// order over the cohort.
	UniqueValues []value.Value `json:"unique_values"`
}

// CompareValues fetches the key's value for each cohort member and builds a
// distribution report. Cohort iteration follows input order, so
// UniqueValues is deterministic for a given id list.
func (c *Coordinator) CompareValues(ctx context.Context, entityType string, ids []int64, key string) *Report {
	report := &Report{
		ValueCounts: make(map[string]int),
		Values:      make(map[int64]value.Value, len(ids)),
	}

	for _, id := range ids {
		v := c.acc.Get(ctx, entityType, id, key, true)
		report.Values[id] = v

		if v == nil {
			report.ObjectsWithoutMeta++
			continue
		}
		report.ObjectsWithMeta++

		bucket := value.CanonicalKey(v)
		if report.ValueCounts[bucket] == 0 {
			report.UniqueValues = append(report.UniqueValues, v)
		}
		report.ValueCounts[bucket]++
	}

	return report
}

// Stats holds numeric aggregates over a cohort. Count is the full cohort
// size; NumericValues is the size of the numeric subset the aggregates are
// computed over. When no values are numeric, the aggregate pointers are nil.
type Stats struct {
	Count         int      `json:"count"`
	NumericValues int      `json:"numeric_values"`
	Min           *float64 `json:"min"`
	Max           *float64 `json:"max"`
	Average       *float64 `json:"average"`
	Sum           *float64 `json:"sum"`
}

// GetStats fetches the key's value for each cohort member, keeps the ones
// that coerce cleanly to a number (ints, floats, fully-numeric strings),
// and aggregates over that subset. Absent and non-numeric values only
// affect Count.
func (c *Coordinator) GetStats(ctx context.Context, entityType string, ids []int64, key string) *Stats {
	stats := &Stats{Count: len(ids)}

	var min, max, sum float64
	for _, id := range ids {
		v := c.acc.Get(ctx, entityType, id, key, true)
		f, ok := value.AsNumeric(v)
		if !ok {
			continue
		}

		if stats.NumericValues == 0 {
			min, max = f, f
		} else {
			if f < min {
				min = f
			}
			if f > max {
				max = f
			}
		}
		sum += f
		stats.NumericValues++
	}

	if stats.NumericValues > 0 {
		avg := sum / float64(stats.NumericValues)
		stats.Min = &min
		stats.Max = &max
		stats.Average = &avg
		stats.Sum = &sum
	}

	return stats
}
