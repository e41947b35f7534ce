package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is a sealed interface representing a dynamically-typed attribute
// value. Only Null, Int, Float, Bool, String, Array, and Map implement it.
//
// A nil Value means "absent" - no attribute stored. That is different from
// Null, which is a stored JSON null.
type Value interface {
	attrValue() // Sealed - only these types implement it
}

// Null represents a stored JSON null.
type Null struct{}

func (Null) attrValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Int represents an integer value. Always int64.
type Int int64

func (Int) attrValue() {}

// Float represents a floating-point value.
type Float float64

func (Float) attrValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) attrValue() {}

// String represents a string value.
type String string

func (String) attrValue() {}

// Array represents an ordered sequence of values.
type Array []Value

func (Array) attrValue() {}

// Map represents a mapping of string keys to values.
// Use SortedKeys for deterministic iteration.
type Map map[string]Value

func (Map) attrValue() {}

// Kind identifies the concrete variant held by a Value.
type Kind uint8

const (
	// KindInvalid is the zero Kind; KindOf returns it for a nil Value.
	KindInvalid Kind = iota
	// KindNull identifies a stored null.
	KindNull
	// KindInt identifies an integer.
	KindInt
	// KindFloat identifies a float.
	KindFloat
	// KindBool identifies a boolean.
	KindBool
	// KindString identifies a string.
	KindString
	// KindArray identifies an ordered sequence.
	KindArray
	// KindMap identifies a string-keyed mapping.
	KindMap
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// KindOf returns the variant tag of v, or KindInvalid when v is nil (absent).
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil:
		return KindInvalid
	case Null:
		return KindNull
	case Int:
		return KindInt
	case Float:
		return KindFloat
	case Bool:
		return KindBool
	case String:
		return KindString
	case Array:
		return KindArray
	case Map:
		return KindMap
	default:
		return KindInvalid
	}
}

// Of converts a Go native value into a Value. Supported inputs: nil (Null),
// bool, all int/uint widths, float32/float64, string, json.Number, []any,
// map[string]any, and anything that is already a Value.
func Of(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		return numberValue(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			av, err := Of(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = av
		}
		return arr, nil
	case map[string]any:
		m := make(Map, len(val))
		for k, elem := range val {
			mv, err := Of(elem)
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", k, err)
			}
			m[k] = mv
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// numberValue converts a json.Number, preferring Int when the literal
// carries no fractional or exponent part.
func numberValue(n json.Number) (Value, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		i, err := n.Int64()
		if err == nil {
			return Int(i), nil
		}
		// Out of int64 range - fall through to float
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}

// Decode parses JSON bytes into a Value. Integers and floats are kept
// distinct via json.Number. Empty input decodes to nil (absent).
func Decode(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return Of(raw)
}

// Encode serializes a Value to JSON bytes. Map keys are written in sorted
// order so the output is deterministic. A nil Value encodes to empty bytes,
// the absence sentinel used by the store adapters.
func Encode(v Value) ([]byte, error) {
	if v == nil {
		return []byte{}, nil
	}

	switch val := v.(type) {
	case Null:
		return []byte("null"), nil
	case Int:
		return strconv.AppendInt(nil, int64(val), 10), nil
	case Float:
		return json.Marshal(float64(val))
	case Bool:
		return json.Marshal(bool(val))
	case String:
		return json.Marshal(string(val))
	case Array:
		return val.MarshalJSON()
	case Map:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown value type: %T", v)
	}
}

// MarshalJSON implements json.Marshaler for Array.
func (a Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := Encode(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for Map with sorted keys.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	keys := m.SortedKeys()
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := Encode(m[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SortedKeys returns the map keys in ascending byte order.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SerializedSize returns the byte length of the JSON encoding of v,
// or 0 when v is nil (absent) or not encodable.
func SerializedSize(v Value) int {
	data, err := Encode(v)
	if err != nil {
		return 0
	}
	return len(data)
}

// Equal reports strict equality: same kind and equal payload, element-wise
// for containers. String("1") is NOT equal to Int(1).
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, ae := range av {
			be, present := bv[k]
			if !present || !Equal(ae, be) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Copy returns a deep copy of v. Scalars are value types and copied as-is;
// containers are rebuilt recursively.
func Copy(v Value) Value {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = Copy(elem)
		}
		return out
	case Map:
		out := make(Map, len(val))
		for k, elem := range val {
			out[k] = Copy(elem)
		}
		return out
	default:
		return v
	}
}
