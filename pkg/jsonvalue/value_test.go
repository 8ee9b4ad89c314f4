package jsonvalue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual_Reflexive(t *testing.T) {
	t.Parallel()

	values := []Value{
		Null(),
		Bool(true),
		Int(42),
		Float(3.14),
		String("hello"),
		Array([]Value{Int(1), String("a")}),
		Object([]string{"k"}, map[string]Value{"k": Int(1)}),
	}

	for _, v := range values {
		assert.True(t, v.Equal(v))
	}
}

func TestEqual_Symmetric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Value
	}{
		{"equal strings", String("x"), String("x")},
		{"different strings", String("x"), String("y")},
		{"int vs float, different kinds", Int(1), Float(1)},
		{"equal arrays", Array([]Value{Int(1)}), Array([]Value{Int(1)})},
		{"different array order", Array([]Value{Int(1), Int(2)}), Array([]Value{Int(2), Int(1)})},
		{"equal objects, different construction order",
			Object([]string{"a", "b"}, map[string]Value{"a": Int(1), "b": Int(2)}),
			Object([]string{"b", "a"}, map[string]Value{"b": Int(2), "a": Int(1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.a.Equal(tt.b), tt.b.Equal(tt.a))
		})
	}
}

func TestEqual_ArrayPositionSensitive(t *testing.T) {
	t.Parallel()

	a := Array([]Value{String("x"), String("y")})
	b := Array([]Value{String("y"), String("x")})
	assert.False(t, a.Equal(b))
}

func TestEqual_ObjectKeySetAndRecursive(t *testing.T) {
	t.Parallel()

	a := Object([]string{"k"}, map[string]Value{"k": Array([]Value{Int(1), Int(2)})})
	b := Object([]string{"k"}, map[string]Value{"k": Array([]Value{Int(1), Int(2)})})
	c := Object([]string{"k"}, map[string]Value{"k": Array([]Value{Int(2), Int(1)})})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	// Different key sets never compare equal.
	d := Object([]string{"other"}, map[string]Value{"other": Int(1)})
	assert.False(t, a.Equal(d))
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    Value
	}{
		{"null", Null()},
		{"bool", Bool(true)},
		{"int", Int(-17)},
		{"float", Float(2.5)},
		{"string", String("héllo")},
		{"array", Array([]Value{Int(1), String("two"), Bool(false)})},
		{"object", Object([]string{"name"}, map[string]Value{"name": String("Work")})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := json.Marshal(tt.v)
			require.NoError(t, err)

			var got Value
			require.NoError(t, json.Unmarshal(b, &got))
			assert.True(t, tt.v.Equal(got), "round trip: %v -> %v", tt.v, got)
		})
	}
}

func TestUnmarshal_IntegralNumberDecodesAsInt(t *testing.T) {
	t.Parallel()

	var v Value
	require.NoError(t, json.Unmarshal([]byte("42"), &v))
	assert.Equal(t, KindInt, v.Kind())

	i, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(42), i)
}

func TestUnmarshal_FractionalNumberDecodesAsFloat(t *testing.T) {
	t.Parallel()

	var v Value
	require.NoError(t, json.Unmarshal([]byte("3.5"), &v))
	assert.Equal(t, KindFloat, v.Kind())
}

func TestMarshal_CompactNoWhitespace(t *testing.T) {
	t.Parallel()

	v := Array([]Value{Int(1), Int(2)})
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(b))
}
