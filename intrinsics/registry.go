// Package intrinsics implements the VTC built-in function library
// plus user registration. A call is a List whose head is an
// Intrinsic; the Resolver looks the head's name up here, resolves the
// remaining list elements as arguments (eagerly, left to right), and
// invokes the function.
package intrinsics

import (
	"strings"

	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

// Func is the calling contract for every intrinsic, built-in or
// user-registered: a list of already-resolved argument values in, a
// single value.Value out.
type Func func(args []value.Value) (value.Value, error)

// reservedPrefix is reserved for the built-in set; user registration must
// reject names that start with it.
const reservedPrefix = "std"

// Registry holds user-registered intrinsics. The built-in set is fixed and
// looked up separately (builtins, in builtins.go) so that "std*" names can never be
// shadowed.
type Registry struct {
	user map[string]Func
}

// NewRegistry returns an empty user registry.
func NewRegistry() *Registry {
	return &Registry{user: make(map[string]Func)}
}

// Register adds a user-defined intrinsic. Fails if name starts with the
// reserved "std" prefix.
func (r *Registry) Register(name string, fn Func) error {
	if strings.HasPrefix(name, reservedPrefix) {
		return vtcerr.New(vtcerr.InvalidIntrinsicArgs, "cannot register intrinsic with reserved prefix \"std\": "+name)
	}
	r.user[name] = fn
	return nil
}

// Lookup resolves an intrinsic name to its Func, consulting the built-in
// table for "std*" names and the user registry otherwise. Fails
// UnknownIntrinsic if neither has it.
func (r *Registry) Lookup(name string) (Func, error) {
	if strings.HasPrefix(name, reservedPrefix) {
		b, ok := builtins[name]
		if !ok {
			return nil, vtcerr.New(vtcerr.UnknownIntrinsic, name)
		}
		return b, nil
	}
	if r != nil {
		if fn, ok := r.user[name]; ok {
			return fn, nil
		}
	}
	return nil, vtcerr.New(vtcerr.UnknownIntrinsic, name)
}

// Arity returns a built-in's fixed argument count and true, so a caller can
// validate a call's argument count before resolving any of them. It answers
// false for anything not in the built-in table, including every
// user-registered name — those have no declared arity and validate it
// themselves, from inside their own Func, after resolution.
func Arity(name string) (int, bool) {
	n, ok := builtinArity[name]
	return n, ok
}
