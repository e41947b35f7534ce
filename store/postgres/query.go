package postgres

import (
	"fmt"
	"strings"

	"github.com/roach88/metakit/store"
	"github.com/roach88/metakit/value"
)

// numericPattern matches value-column text holding a bare JSON number.
// Postgres casts of non-numeric text raise errors instead of yielding 0 the
// way SQLite does, so numeric comparisons must filter on shape first.
const numericPattern = `^-?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`

// compileComparator builds the value condition of a FindIDs query starting
// at placeholder $argIndex. Only the (validated) column name is spliced into
// the fragment; probe values always bind as parameters.
//
// Semantics match the sqlite adapter: Equal/NotEqual are strict on the
// serialized form; ordering comparators compare numerically when the probe
// is a number (rows holding non-numeric text simply do not match) and on
// raw text otherwise; Like matches the probe's string form as a substring.
func compileComparator(col string, cmp store.Comparator, v value.Value, argIndex int) (string, []any, error) {
	switch cmp {
	case store.Equal, store.NotEqual:
		data, err := value.Encode(v)
		if err != nil {
			return "", nil, fmt.Errorf("encode probe: %w", err)
		}
		return fmt.Sprintf("%s %s $%d", col, sqlOp(cmp), argIndex), []any{string(data)}, nil

	case store.Greater, store.Less, store.GreaterOrEqual, store.LessOrEqual:
		if numericKind(v) {
			cond := fmt.Sprintf("(%[1]s ~ '%[2]s' AND (%[1]s)::double precision %[3]s $%[4]d)",
				col, numericPattern, sqlOp(cmp), argIndex)
			return cond, []any{value.AsFloat(v)}, nil
		}
		data, err := value.Encode(v)
		if err != nil {
			return "", nil, fmt.Errorf("encode probe: %w", err)
		}
		return fmt.Sprintf("%s %s $%d", col, sqlOp(cmp), argIndex), []any{string(data)}, nil

	case store.Like:
		probe := "%" + escapeLike(value.AsString(v)) + "%"
		return fmt.Sprintf(`%s LIKE $%d ESCAPE '\'`, col, argIndex), []any{probe}, nil

	default:
		return "", nil, fmt.Errorf("unsupported comparator %v", cmp)
	}
}

// sqlOp spells the comparator for Postgres, which prefers <> over !=.
func sqlOp(cmp store.Comparator) string {
	if cmp == store.NotEqual {
		return "<>"
	}
	return cmp.String()
}

// numericKind reports whether the probe itself is a number.
func numericKind(v value.Value) bool {
	switch v.(type) {
	case value.Int, value.Float:
		return true
	default:
		return false
	}
}

// escapeLike escapes LIKE metacharacters so a probe matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
