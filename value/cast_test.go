package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCastKind(t *testing.T) {
	for name, want := range map[string]CastKind{
		"int": CastInt, "integer": CastInt,
		"float": CastFloat, "double": CastFloat,
		"bool": CastBool, "BOOLEAN": CastBool,
		"array": CastArray, "string": CastString,
	} {
		got, err := ParseCastKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseCastKind("object")
	assert.Error(t, err)
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want int64
	}{
		{"absent", nil, 0},
		{"null", Null{}, 0},
		{"int passthrough", Int(42), 42},
		{"float truncates", Float(3.9), 3},
		{"negative float truncates toward zero", Float(-3.9), -3},
		{"true", Bool(true), 1},
		{"false", Bool(false), 0},
		{"numeric string", String("17"), 17},
		{"leading numeric string", String("12abc"), 12},
		{"non-numeric string", String("abc"), 0},
		{"signed string", String("-5"), -5},
		{"empty string", String(""), 0},
		{"empty array", Array{}, 0},
		{"non-empty array", Array{Int(9)}, 1},
		{"empty map", Map{}, 0},
		{"non-empty map", Map{"k": Int(1)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AsInt(tt.v))
		})
	}
}

func TestAsFloat(t *testing.T) {
	assert.Equal(t, 0.0, AsFloat(nil))
	assert.Equal(t, 2.5, AsFloat(Float(2.5)))
	assert.Equal(t, 7.0, AsFloat(Int(7)))
	assert.Equal(t, 3.25, AsFloat(String("3.25")))
	assert.Equal(t, 1.5, AsFloat(String("1.5kg")))
	assert.Equal(t, 0.0, AsFloat(String("abc")))
	assert.Equal(t, 150.0, AsFloat(String("1.5e2")))
	// Dangling exponent stops at the mantissa
	assert.Equal(t, 1.5, AsFloat(String("1.5e")))
}

func TestTruthy(t *testing.T) {
	falsy := []Value{nil, Null{}, Int(0), Float(0), Bool(false), String(""), String("0"), Array{}, Map{}}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%v should be falsy", v)
	}

	truthy := []Value{Int(1), Int(-1), Float(0.1), Bool(true), String("0.0"), String("false"), Array{Int(0)}, Map{"k": nil}}
	for _, v := range truthy {
		assert.True(t, Truthy(v), "%v should be truthy", v)
	}
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "", AsString(nil))
	assert.Equal(t, "", AsString(Null{}))
	assert.Equal(t, "42", AsString(Int(42)))
	assert.Equal(t, "2.5", AsString(Float(2.5)))
	assert.Equal(t, "1", AsString(Bool(true)))
	assert.Equal(t, "", AsString(Bool(false)))
	assert.Equal(t, "hi", AsString(String("hi")))
	assert.Equal(t, `[1,"a"]`, AsString(Array{Int(1), String("a")}))
	assert.Equal(t, `{"k":1}`, AsString(Map{"k": Int(1)}))
}

func TestAsArray(t *testing.T) {
	assert.Equal(t, Array{}, AsArray(nil))
	assert.Equal(t, Array{}, AsArray(Null{}))
	assert.Equal(t, Array{Int(5)}, AsArray(Int(5)))

	arr := Array{Int(1), Int(2)}
	assert.Equal(t, arr, AsArray(arr))

	// Map values come out in sorted-key order
	got := AsArray(Map{"b": Int(2), "a": Int(1)})
	assert.Equal(t, Array{Int(1), Int(2)}, got)
}

func TestCast(t *testing.T) {
	assert.Equal(t, Int(0), Cast(String("abc"), CastInt))
	assert.Equal(t, Float(1.5), Cast(String("1.5"), CastFloat))
	assert.Equal(t, Bool(true), Cast(String("yes"), CastBool))
	assert.Equal(t, Array{String("x")}, Cast(String("x"), CastArray))
	assert.Equal(t, String("10"), Cast(Int(10), CastString))
}

func TestAsNumeric(t *testing.T) {
	f, ok := AsNumeric(Int(10))
	require.True(t, ok)
	assert.Equal(t, 10.0, f)

	f, ok = AsNumeric(String("20"))
	require.True(t, ok)
	assert.Equal(t, 20.0, f)

	f, ok = AsNumeric(String(" 2.5 "))
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	// Unlike AsFloat, a trailing suffix disqualifies the whole string
	_, ok = AsNumeric(String("1.5kg"))
	assert.False(t, ok)

	for _, v := range []Value{nil, Null{}, Bool(true), Array{Int(1)}, Map{}, String("abc")} {
		_, ok := AsNumeric(v)
		assert.False(t, ok, "%v should not be numeric", v)
	}
}
