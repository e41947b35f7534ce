package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = Null{}
	var _ Value = Int(42)
	var _ Value = Float(3.5)
	var _ Value = Bool(true)
	var _ Value = String("test")
	var _ Value = Array{Int(1), String("a")}
	var _ Value = Map{"key": Int(1)}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want Kind
	}{
		{"nil is invalid", nil, KindInvalid},
		{"null", Null{}, KindNull},
		{"int", Int(1), KindInt},
		{"float", Float(1.5), KindFloat},
		{"bool", Bool(true), KindBool},
		{"string", String("x"), KindString},
		{"array", Array{}, KindArray},
		{"map", Map{}, KindMap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.v))
		})
	}
}

func TestOf_Scalars(t *testing.T) {
	v, err := Of(42)
	require.NoError(t, err)
	assert.Equal(t, Int(42), v)

	v, err = Of(3.25)
	require.NoError(t, err)
	assert.Equal(t, Float(3.25), v)

	v, err = Of("hello")
	require.NoError(t, err)
	assert.Equal(t, String("hello"), v)

	v, err = Of(true)
	require.NoError(t, err)
	assert.Equal(t, Bool(true), v)

	v, err = Of(nil)
	require.NoError(t, err)
	assert.Equal(t, Null{}, v)
}

func TestOf_Containers(t *testing.T) {
	v, err := Of([]any{1, "two", map[string]any{"three": 3}})
	require.NoError(t, err)

	arr, ok := v.(Array)
	require.True(t, ok)
	require.Len(t, arr, 3)
	assert.Equal(t, Int(1), arr[0])
	assert.Equal(t, String("two"), arr[1])
	assert.Equal(t, Map{"three": Int(3)}, arr[2])
}

func TestOf_Unsupported(t *testing.T) {
	_, err := Of(struct{}{})
	assert.Error(t, err)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"int", Int(42)},
		{"negative int", Int(-7)},
		{"float", Float(3.5)},
		{"bool", Bool(true)},
		{"string", String("hello")},
		{"empty string", String("")},
		{"null", Null{}},
		{"array", Array{Int(1), String("a"), Bool(false)}},
		{"nested map", Map{"a": Map{"b": Int(5)}, "c": Array{Int(1)}}},
		{"empty array", Array{}},
		{"empty map", Map{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.v)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.True(t, Equal(tt.v, got), "round trip changed value: %v -> %v", tt.v, got)
		})
	}
}

func TestEncode_NilIsAbsenceSentinel(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, data)

	// And the sentinel decodes back to absent
	v, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestEncode_IntFloatDistinct(t *testing.T) {
	intData, err := Encode(Int(1))
	require.NoError(t, err)
	assert.Equal(t, "1", string(intData))

	// Decoding "1" yields Int, "1.0" yields Float
	v, err := Decode([]byte("1"))
	require.NoError(t, err)
	assert.Equal(t, Int(1), v)

	v, err = Decode([]byte("1.0"))
	require.NoError(t, err)
	assert.Equal(t, Float(1), v)
}

func TestEncode_MapKeysSorted(t *testing.T) {
	data, err := Encode(Map{"zebra": Int(1), "apple": Int(2), "mango": Int(3)})
	require.NoError(t, err)
	assert.Equal(t, `{"apple":2,"mango":3,"zebra":1}`, string(data))
}

func TestEqual_Strict(t *testing.T) {
	assert.True(t, Equal(Int(1), Int(1)))
	assert.True(t, Equal(String("a"), String("a")))
	assert.True(t, Equal(nil, nil))
	assert.True(t, Equal(Null{}, Null{}))

	// Strict: no cross-kind coercion
	assert.False(t, Equal(String("1"), Int(1)))
	assert.False(t, Equal(Int(1), Float(1)))
	assert.False(t, Equal(Bool(true), Int(1)))
	assert.False(t, Equal(nil, Null{}))
}

func TestEqual_Containers(t *testing.T) {
	a := Array{Int(1), Map{"k": String("v")}}
	b := Array{Int(1), Map{"k": String("v")}}
	assert.True(t, Equal(a, b))

	assert.False(t, Equal(a, Array{Int(1)}))
	assert.False(t, Equal(Map{"k": Int(1)}, Map{"k": Int(2)}))
	assert.False(t, Equal(Map{"k": Int(1)}, Map{"j": Int(1)}))
}

func TestCopy_Deep(t *testing.T) {
	orig := Map{"list": Array{Int(1), Int(2)}}
	dup := Copy(orig).(Map)

	dup["list"].(Array)[0] = Int(99)
	assert.Equal(t, Int(1), orig["list"].(Array)[0], "copy must not alias the original")
}

func TestSerializedSize(t *testing.T) {
	assert.Equal(t, 0, SerializedSize(nil))
	assert.Equal(t, 2, SerializedSize(String("")))    // `""`
	assert.Equal(t, 3, SerializedSize(Int(123)))      // `123`
	assert.Equal(t, 7, SerializedSize(Map{"a": Int(1)})) // `{"a":1}`
}
