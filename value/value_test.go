package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{name: "equal strings", a: String("x"), b: String("x"), expected: true},
		{name: "different strings", a: String("x"), b: String("y"), expected: false},
		{name: "different kinds", a: String("1"), b: Integer(1), expected: false},
		{name: "equal integers", a: Integer(42), b: Integer(42), expected: true},
		{name: "equal lists", a: List([]Value{Integer(1), String("a")}), b: List([]Value{Integer(1), String("a")}), expected: true},
		{name: "lists of different length", a: List([]Value{Integer(1)}), b: List([]Value{Integer(1), Integer(2)}), expected: false},
		{name: "nil equals nil", a: Nil(), b: Nil(), expected: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Equal(tc.a, tc.b))
		})
	}
}

func TestIsNumber(t *testing.T) {
	assert.True(t, Integer(1).IsNumber())
	assert.True(t, Float(1.5).IsNumber())
	assert.True(t, Binary(0b101).IsNumber())
	assert.True(t, Hex(0xFF).IsNumber())
	assert.False(t, String("1").IsNumber())
}

func TestIsInert(t *testing.T) {
	assert.True(t, String("x").IsInert())
	assert.True(t, Integer(1).IsInert())
	assert.False(t, Intrinsic("std_add").IsInert())
	assert.False(t, List([]Value{Intrinsic("std_add"), Integer(1)}).IsInert())
}

func TestIsCallHead(t *testing.T) {
	assert.True(t, Intrinsic("std_add").IsCallHead())
	assert.False(t, String("std_add").IsCallHead())
}

func TestReferenceString(t *testing.T) {
	ref := Reference{
		RefKind:   RefLocal,
		Namespace: "ns",
		Variable:  "v",
		Accessors: []Accessor{IndexAccessor(0), RangeAccessor(1, 3)},
	}
	assert.Equal(t, "%ns.v->(0)->(1..3)", ref.String())
}
