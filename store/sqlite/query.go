package sqlite

import (
	"fmt"
	"strings"

	"github.com/roach88/metakit/store"
	"github.com/roach88/metakit/value"
)

// compileComparator builds the value condition of a FindIDs query as a SQL
// fragment plus its parameters. Only the (validated) column name is spliced
// into the fragment; probe values always bind as parameters.
//
// Semantics per comparator:
//   - Equal/NotEqual compare the serialized form, so they are strict: a
//     stored "1" (string) never equals a probed 1 (int).
//   - Ordering comparators compare numerically (via CAST ... AS REAL) when
//     the probe is a number, and on the raw text otherwise.
//   - Like matches the probe's string form as a substring, with LIKE
//     metacharacters escaped.
func compileComparator(col string, cmp store.Comparator, v value.Value) (string, []any, error) {
	switch cmp {
	case store.Equal, store.NotEqual:
		data, err := value.Encode(v)
		if err != nil {
			return "", nil, fmt.Errorf("encode probe: %w", err)
		}
		return fmt.Sprintf("%s %s ?", col, cmp), []any{string(data)}, nil

	case store.Greater, store.Less, store.GreaterOrEqual, store.LessOrEqual:
		if numericKind(v) {
			return fmt.Sprintf("CAST(%s AS REAL) %s ?", col, cmp), []any{value.AsFloat(v)}, nil
		}
		data, err := value.Encode(v)
		if err != nil {
			return "", nil, fmt.Errorf("encode probe: %w", err)
		}
		return fmt.Sprintf("%s %s ?", col, cmp), []any{string(data)}, nil

	case store.Like:
		probe := "%" + escapeLike(value.AsString(v)) + "%"
		return fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, col), []any{probe}, nil

	default:
		return "", nil, fmt.Errorf("unsupported comparator %v", cmp)
	}
}

// numericKind reports whether the probe itself is a number. Numeric-looking
// strings stay in the text comparison path so equality discipline matches
// the Memory adapter.
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
