package intrinsics

import (
	"fmt"

	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

func checkArity(name string, args []value.Value, n int) error {
	if len(args) != n {
		return ArityError(name, n, len(args))
	}
	return nil
}

// ArityError reports that name was called with got arguments where want
// were expected. Exported so callers outside this package (the resolver,
// checking a built-in's declared arity before resolving its arguments) can
// report the same error an intrinsic would have raised itself.
func ArityError(name string, want, got int) error {
	return vtcerr.New(vtcerr.InvalidIntrinsicArgs,
		fmt.Sprintf("%s expects %d argument(s), got %d", name, want, got))
}

func typeMismatch(name string, pos int, want string, got value.Value) error {
	return vtcerr.New(vtcerr.IntrinsicTypeMismatch,
		fmt.Sprintf("%s: argument %d: expected %s, got %s", name, pos, want, got.Kind()))
}

// isIntLike reports whether v is one of the three integer-identity kinds.
// Binary and Hexadecimal differ from Integer only in their textual
// re-serialization; their arithmetic identity is the signed 64-bit value,
// so every intrinsic documented as taking "Integer" accepts any of the
// three interchangeably.
func isIntLike(v value.Value) bool {
	switch v.Kind() {
	case value.KindInteger, value.KindBinary, value.KindHexadecimal:
		return true
	default:
		return false
	}
}

func asInt(name string, args []value.Value, pos int) (int64, error) {
	v := args[pos]
	if !isIntLike(v) {
		return 0, typeMismatch(name, pos, "integer", v)
	}
	return v.IntVal(), nil
}

func asFloat(name string, args []value.Value, pos int) (float64, error) {
	v := args[pos]
	if v.Kind() != value.KindFloat {
		return 0, typeMismatch(name, pos, "float", v)
	}
	return v.FloatVal(), nil
}

func asString(name string, args []value.Value, pos int) (string, error) {
	v := args[pos]
	if v.Kind() != value.KindString {
		return "", typeMismatch(name, pos, "string", v)
	}
	return v.StringVal(), nil
}

func asBool(name string, args []value.Value, pos int) (bool, error) {
	v := args[pos]
	if v.Kind() != value.KindBoolean {
		return false, typeMismatch(name, pos, "boolean", v)
	}
	return v.BoolVal(), nil
}
