package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpyte/vtc/environment"
	"github.com/dpyte/vtc/grammar"
	"github.com/dpyte/vtc/value"
)

func TestRoundTrip(t *testing.T) {
	src := `
@a:
    $x := 7
    $s := "hi"
    $list := [1, 2, [3, "nested"]]
`
	env := environment.New()
	require.NoError(t, env.Load(src))

	text := WriteString(env, DefaultFormat)

	reparsed := environment.New()
	require.NoError(t, reparsed.Load(text))

	for _, name := range []string{"x", "s", "list"} {
		orig, ok := mustVar(t, env, "a", name)
		require.True(t, ok)
		again, ok := mustVar(t, reparsed, "a", name)
		require.True(t, ok)
		assert.True(t, value.Equal(orig, again), "round trip mismatch for %s", name)
	}
}

func mustVar(t *testing.T, env *environment.Environment, ns, name string) (value.Value, bool) {
	t.Helper()
	n, ok := env.Namespace(ns)
	if !ok {
		return value.Value{}, false
	}
	return n.Variable(name)
}

func TestRenderValueKinds(t *testing.T) {
	testCases := []struct {
		name     string
		v        value.Value
		expected string
	}{
		{name: "string", v: value.String("hi"), expected: `"hi"`},
		{name: "integer", v: value.Integer(7), expected: "7"},
		{name: "binary", v: value.Binary(5), expected: "0b101"},
		{name: "hex", v: value.Hex(255), expected: "0xFF"},
		{name: "negative binary", v: value.Binary(-5), expected: "-0b101"},
		{name: "negative hex", v: value.Hex(-255), expected: "-0xFF"},
		{name: "true", v: value.Bool(true), expected: "True"},
		{name: "false", v: value.Bool(false), expected: "False"},
		{name: "nil", v: value.Nil(), expected: "Nil"},
		{name: "list", v: value.List([]value.Value{value.Integer(1), value.Integer(2)}), expected: "[1, 2]"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RenderValue(tc.v, DefaultFormat))
		})
	}
}

func TestSelectiveDumpIncludesTransitiveClosure(t *testing.T) {
	env := environment.New()
	require.NoError(t, env.Load(`
@a:
    $x := &b.y
@b:
    $y := &c.z
@c:
    $z := 1
@unrelated:
    $w := 2
`))
	text, err := WriteSelectiveString(env, []string{"a"}, Format{SortNamespaces: true})
	require.NoError(t, err)
	assert.Contains(t, text, "@a:")
	assert.Contains(t, text, "@b:")
	assert.Contains(t, text, "@c:")
	assert.NotContains(t, text, "@unrelated:")
}

func TestSelectiveDumpMissingRootFails(t *testing.T) {
	env := environment.New()
	_, err := WriteSelectiveString(env, []string{"missing"}, DefaultFormat)
	assert.Error(t, err)
}

func TestWriteStringReparsesWithGrammar(t *testing.T) {
	env := environment.New()
	require.NoError(t, env.Load(`@a: $x := 1`))
	text := WriteString(env, DefaultFormat)
	_, err := grammar.Parse(text)
	assert.NoError(t, err)
}

func TestRoundTripNegativeBinaryAndHex(t *testing.T) {
	env := environment.New()
	require.NoError(t, env.Load(`
@a:
    $b := -0b101
    $h := -0xFF
`))
	text := WriteString(env, DefaultFormat)

	reparsed := environment.New()
	require.NoError(t, reparsed.Load(text))

	for _, name := range []string{"b", "h"} {
		orig, ok := mustVar(t, env, "a", name)
		require.True(t, ok)
		again, ok := mustVar(t, reparsed, "a", name)
		require.True(t, ok)
		assert.True(t, value.Equal(orig, again), "round trip mismatch for %s", name)
	}
}
