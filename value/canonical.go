package value

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalKey returns a stable string form of v for use as a map key when
// bucketing values by structural identity. Two values share a canonical key
// iff they are structurally equal; kind tags keep String("1") and Int(1) in
// separate buckets. Strings are NFC normalized so composed and decomposed
// spellings of the same text collapse to one bucket.
//
// The form must remain stable across versions: reports built on it may be
// persisted by callers.
func CanonicalKey(v Value) string {
	var b strings.Builder
	canonicalKey(&b, v)
	return b.String()
}

func canonicalKey(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case nil:
		// Absent - callers bucket present values only, but keep it total.
		b.WriteString("absent")
	case Null:
		b.WriteString("null")
	case Int:
		b.WriteString("i:")
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		b.WriteString("f:")
		b.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 64))
	case Bool:
		if val {
			b.WriteString("b:1")
		} else {
			b.WriteString("b:0")
		}
	case String:
		b.WriteString("s:")
		b.WriteString(norm.NFC.String(string(val)))
	case Array:
		b.WriteString("a:[")
		for i, elem := range val {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			canonicalKey(b, elem)
		}
		b.WriteByte(']')
	case Map:
		b.WriteString("m:{")
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(norm.NFC.String(k))
			b.WriteByte('=')
			canonicalKey(b, val[k])
		}
		b.WriteByte('}')
	}
}

// StructurallyEqual reports whether a and b share a canonical key. Unlike
// Equal it normalizes string spellings, and it is the equality used for
// de-duplication of possibly nested values.
func StructurallyEqual(a, b Value) bool {
	return CanonicalKey(a) == CanonicalKey(b)
}
