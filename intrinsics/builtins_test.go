package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

func call(t *testing.T, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	r := NewRegistry()
	fn, err := r.Lookup(name)
	require.NoError(t, err)
	return fn(args)
}

func TestArithmeticIntrinsics(t *testing.T) {
	v, err := call(t, "std_add_int", value.Integer(5), value.Integer(5))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Integer(10), v))

	_, err = call(t, "std_div_int", value.Integer(1), value.Integer(0))
	assert.Equal(t, vtcerr.InvalidIntrinsicArgs, vtcerr.KindOf(err))

	v, err = call(t, "std_add_float", value.Float(1.5), value.Float(2.5))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Float(4.0), v))
}

func TestComparisonIntrinsics(t *testing.T) {
	v, err := call(t, "std_eq", value.Integer(1), value.Integer(1))
	require.NoError(t, err)
	assert.True(t, v.BoolVal())

	// eq of different numeric kinds is false, not an error.
	v, err = call(t, "std_eq", value.Integer(1), value.Float(1.0))
	require.NoError(t, err)
	assert.False(t, v.BoolVal())

	// lt/gt of different numeric kinds fails.
	_, err = call(t, "std_lt", value.Integer(1), value.Float(2.0))
	assert.Equal(t, vtcerr.IntrinsicTypeMismatch, vtcerr.KindOf(err))

	v, err = call(t, "std_lt", value.Integer(1), value.Integer(2))
	require.NoError(t, err)
	assert.True(t, v.BoolVal())
}

func TestBitwiseIntrinsics(t *testing.T) {
	v, err := call(t, "std_bitwise_and", value.Integer(0b110), value.Integer(0b011))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Integer(0b010), v))

	v, err = call(t, "std_bitwise_not", value.Integer(0))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Integer(-1), v))
}

func TestStringIntrinsics(t *testing.T) {
	v, err := call(t, "std_to_uppercase", value.String("hi"))
	require.NoError(t, err)
	assert.Equal(t, "HI", v.StringVal())

	v, err = call(t, "std_substring", value.String("hello world"), value.Integer(6), value.Integer(11))
	require.NoError(t, err)
	assert.Equal(t, "world", v.StringVal())

	v, err = call(t, "std_concat", value.String("a"), value.String("b"), value.String("c"))
	require.NoError(t, err)
	assert.Equal(t, "abc", v.StringVal())

	v, err = call(t, "std_replace", value.String("aaa"), value.String("a"), value.String("b"))
	require.NoError(t, err)
	assert.Equal(t, "bbb", v.StringVal())
}

func TestCodecAndHashIntrinsics(t *testing.T) {
	encoded, err := call(t, "std_base64_encode", value.String("hello"))
	require.NoError(t, err)
	decoded, err := call(t, "std_base64_decode", encoded)
	require.NoError(t, err)
	assert.Equal(t, "hello", decoded.StringVal())

	h, err := call(t, "std_hash", value.String("hello"), value.String("sha256"))
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", h.StringVal())

	_, err = call(t, "std_hash", value.String("hello"), value.String("md5"))
	assert.Equal(t, vtcerr.InvalidIntrinsicArgs, vtcerr.KindOf(err))
}

func TestControlFlowIntrinsics(t *testing.T) {
	v, err := call(t, "std_if", value.Bool(true), value.Integer(1), value.Integer(2))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Integer(1), v))

	v, err = call(t, "std_try", value.Integer(1), value.Integer(2))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Integer(1), v), "std_try currently always returns its first argument")
}

func TestLenIndexOfTypeOf(t *testing.T) {
	v, err := call(t, "std_len", value.String("hello"))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Integer(5), v))

	v, err = call(t, "std_index_of", value.List([]value.Value{value.Integer(1), value.Integer(2)}), value.Integer(2))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Integer(1), v))

	v, err = call(t, "std_type_of", value.Integer(1))
	require.NoError(t, err)
	assert.Equal(t, "integer", v.StringVal())
}

func TestRegisterRejectsReservedPrefix(t *testing.T) {
	r := NewRegistry()
	err := r.Register("std_custom", func(args []value.Value) (value.Value, error) { return value.Nil(), nil })
	assert.Error(t, err)
}

func TestRegisterAndLookupUserIntrinsic(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("double", func(args []value.Value) (value.Value, error) {
		return value.Integer(args[0].IntVal() * 2), nil
	}))
	fn, err := r.Lookup("double")
	require.NoError(t, err)
	v, err := fn([]value.Value{value.Integer(21)})
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Integer(42), v))
}

func TestLookupUnknownIntrinsicFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("std_nonexistent")
	assert.Equal(t, vtcerr.UnknownIntrinsic, vtcerr.KindOf(err))
	_, err = r.Lookup("nonexistent")
	assert.Equal(t, vtcerr.UnknownIntrinsic, vtcerr.KindOf(err))
}
