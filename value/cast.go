package value

import (
	"fmt"
	"strconv"
	"strings"
)

// CastKind identifies the target type of a read-time coercion.
type CastKind uint8

const (
	// CastInt coerces to Int.
	CastInt CastKind = iota + 1
	// CastFloat coerces to Float.
	CastFloat
	// CastBool coerces to Bool.
	CastBool
	// CastArray coerces to Array.
	CastArray
	// CastString coerces to String.
	CastString
)

// ParseCastKind maps a caller-supplied name to a CastKind. Accepted names
// (case-insensitive): int/integer, float/double, bool/boolean, array, string.
func ParseCastKind(s string) (CastKind, error) {
	switch strings.ToLower(s) {
	case "int", "integer":
		return CastInt, nil
	case "float", "double":
		return CastFloat, nil
	case "bool", "boolean":
		return CastBool, nil
	case "array":
		return CastArray, nil
	case "string":
		return CastString, nil
	default:
		return 0, fmt.Errorf("unknown cast kind %q", s)
	}
}

// Cast coerces v to the requested kind using permissive rules. Casting never
// fails: non-numeric strings coerce to zero, any non-empty value is truthy,
// a scalar wraps into a one-element Array, and containers render as JSON
// when cast to String. A nil v is treated as Null.
func Cast(v Value, kind CastKind) Value {
	switch kind {
	case CastInt:
		return Int(AsInt(v))
	case CastFloat:
		return Float(AsFloat(v))
	case CastBool:
		return Bool(Truthy(v))
	case CastArray:
		return AsArray(v)
	case CastString:
		return String(AsString(v))
	default:
		return v
	}
}

// AsInt coerces v to an integer. Strings parse their leading numeric prefix
// ("12abc" is 12, "abc" is 0); floats truncate toward zero; containers are
// 0 when empty and 1 otherwise.
func AsInt(v Value) int64 {
	switch val := v.(type) {
	case nil, Null:
		return 0
	case Int:
		return int64(val)
	case Float:
		return int64(val)
	case Bool:
		if val {
			return 1
		}
		return 0
	case String:
		return leadingInt(string(val))
	case Array:
		if len(val) == 0 {
			return 0
		}
		return 1
	case Map:
		if len(val) == 0 {
			return 0
		}
		return 1
	default:
		return 0
	}
}

// AsFloat coerces v to a float with the same permissive rules as AsInt.
func AsFloat(v Value) float64 {
	switch val := v.(type) {
	case nil, Null:
		return 0
	case Int:
		return float64(val)
	case Float:
		return float64(val)
	case Bool:
		if val {
			return 1
		}
		return 0
	case String:
		return leadingFloat(string(val))
	case Array:
		if len(val) == 0 {
			return 0
		}
		return 1
	case Map:
		if len(val) == 0 {
			return 0
		}
		return 1
	default:
		return 0
	}
}

// Truthy reports the boolean coercion of v. Absent, Null, zero numbers,
// the empty string, the string "0", and empty containers are false;
// everything else is true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, Null:
		return false
	case Int:
		return val != 0
	case Float:
		return val != 0
	case Bool:
		return bool(val)
	case String:
		return val != "" && val != "0"
	case Array:
		return len(val) > 0
	case Map:
		return len(val) > 0
	default:
		return false
	}
}

// AsString coerces v to its string form. Ints and floats format naturally,
// true is "1" and false is "", Null and absent are "", and containers
// render as their JSON encoding.
func AsString(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return ""
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Bool:
		if val {
			return "1"
		}
		return ""
	case String:
		return string(val)
	case Array, Map:
		data, err := Encode(val)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// AsArray coerces v to an Array. Arrays pass through, Maps flatten to their
// values in sorted-key order, absent and Null become the empty Array, and
// any scalar wraps into a one-element Array.
func AsArray(v Value) Array {
	switch val := v.(type) {
	case nil, Null:
		return Array{}
	case Array:
		return val
	case Map:
		out := make(Array, 0, len(val))
		for _, k := range val.SortedKeys() {
			out = append(out, val[k])
		}
		return out
	default:
		return Array{v}
	}
}

// AsNumeric reports whether v is usable as a number for statistics, and its
// float form if so. Ints and floats qualify directly; strings qualify only
// when the entire trimmed string parses as a number. Booleans, nulls, and
// containers never qualify.
func AsNumeric(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		return float64(val), true
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// leadingInt parses the leading integer prefix of s, PHP intval style.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// leadingFloat parses the leading numeric prefix of s, including a
// fractional part and exponent when present.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := func() bool {
		start := end
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		return end > start
	}
	hasInt := digits()
	if end < len(s) && s[end] == '.' {
		end++
		if !digits() && !hasInt {
			return 0
		}
	} else if !hasInt {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		mark := end
		end++
		if end < len(s) && (s[end] == '+' || s[end] == '-') {
			end++
		}
		if !digits() {
			end = mark // dangling exponent, back off
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
