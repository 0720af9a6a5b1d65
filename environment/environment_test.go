package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

func TestLoadAccumulatesNewNamespacesAcrossCalls(t *testing.T) {
	e := New()
	require.NoError(t, e.Load(`@a: $x := 1`))
	require.NoError(t, e.Load(`@b: $y := 2`))

	ns, ok := e.Namespace("a")
	require.True(t, ok)
	x, ok := ns.Variable("x")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Integer(1), x))

	ns, ok = e.Namespace("b")
	require.True(t, ok)
	y, ok := ns.Variable("y")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Integer(2), y))
}

func TestLoadReplacesSameNamedNamespaceAcrossCalls(t *testing.T) {
	e := New()
	require.NoError(t, e.Load(`
@a:
    $x := 1
    $y := 2
`))
	require.NoError(t, e.Load(`@a: $x := 9`))

	ns, ok := e.Namespace("a")
	require.True(t, ok)
	x, ok := ns.Variable("x")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Integer(9), x))
	_, ok = ns.Variable("y")
	assert.False(t, ok, "earlier namespace's variables must not linger after a same-named Load replaces it")
}

func TestLoadLaterVariableWinsWithinOneCall(t *testing.T) {
	e := New()
	require.NoError(t, e.Load(`
@a:
    $x := 1
    $x := 2
`))
	ns, _ := e.Namespace("a")
	v, _ := ns.Variable("x")
	assert.True(t, value.Equal(value.Integer(2), v))
}

func TestLoadLaterNamespaceBlockReplacesEarlierWithinOneCall(t *testing.T) {
	e := New()
	require.NoError(t, e.Load(`
@a:
    $x := 1
@a:
    $y := 2
`))
	ns, _ := e.Namespace("a")
	_, ok := ns.Variable("x")
	assert.False(t, ok, "an earlier same-named block within one Load must not survive")
	y, ok := ns.Variable("y")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Integer(2), y))
}

func TestAddNamespaceRejectsDuplicate(t *testing.T) {
	e := New()
	require.NoError(t, e.AddNamespace("a"))
	err := e.AddNamespace("a")
	assert.Equal(t, vtcerr.NamespaceAlreadyExists, vtcerr.KindOf(err))
}

func TestDeleteNamespaceMissingFails(t *testing.T) {
	e := New()
	err := e.DeleteNamespace("missing")
	assert.Equal(t, vtcerr.NamespaceNotFound, vtcerr.KindOf(err))
}

func TestUpdateValueRequiresExisting(t *testing.T) {
	e := New()
	require.NoError(t, e.AddNamespace("a"))
	err := e.UpdateValue("a", "x", value.Integer(1))
	assert.Equal(t, vtcerr.VariableNotFound, vtcerr.KindOf(err))

	require.NoError(t, e.AddValue("a", "x", value.Integer(1)))
	require.NoError(t, e.UpdateValue("a", "x", value.Integer(2)))
	ns, _ := e.Namespace("a")
	v, _ := ns.Variable("x")
	assert.True(t, value.Equal(value.Integer(2), v))
}

func TestDeleteValue(t *testing.T) {
	e := New()
	require.NoError(t, e.AddValue("a", "x", value.Integer(1)))
	require.NoError(t, e.DeleteValue("a", "x"))
	err := e.DeleteValue("a", "x")
	assert.Equal(t, vtcerr.VariableNotFound, vtcerr.KindOf(err))
}

func TestListNamespacesAndVariablesAreSorted(t *testing.T) {
	e := New()
	require.NoError(t, e.AddValue("b", "z", value.Integer(1)))
	require.NoError(t, e.AddValue("a", "y", value.Integer(1)))
	require.NoError(t, e.AddValue("a", "x", value.Integer(1)))

	assert.Equal(t, []string{"a", "b"}, e.ListNamespaces())
	vars, err := e.ListVariables("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, vars)
}

func TestCloneIsIndependent(t *testing.T) {
	e := New()
	require.NoError(t, e.AddValue("a", "x", value.Integer(1)))
	clone := e.Clone()
	require.NoError(t, clone.AddValue("a", "x", value.Integer(2)))

	ns, _ := e.Namespace("a")
	v, _ := ns.Variable("x")
	assert.True(t, value.Equal(value.Integer(1), v))

	cns, _ := clone.Namespace("a")
	cv, _ := cns.Variable("x")
	assert.True(t, value.Equal(value.Integer(2), cv))
}

func TestMergeOverlaysVariableByVariable(t *testing.T) {
	e := New()
	require.NoError(t, e.AddValue("a", "x", value.Integer(1)))

	other := New()
	require.NoError(t, other.AddValue("a", "y", value.Integer(2)))

	e.Merge(other)
	ns, _ := e.Namespace("a")
	x, ok := ns.Variable("x")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Integer(1), x))
	y, ok := ns.Variable("y")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Integer(2), y))
}
