// Package vtc is the public Query API for the VTC configuration language
// and engine: load text or files into an Environment, resolve
// queries against it, mutate it, and serialize it back out. It composes
// the lexer/grammar, environment, resolver, intrinsics, serializer, and
// vtcfile packages into the single facade most callers use.
package vtc

import (
	"strconv"

	"github.com/dpyte/vtc/environment"
	"github.com/dpyte/vtc/intrinsics"
	"github.com/dpyte/vtc/resolver"
	"github.com/dpyte/vtc/serializer"
	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
	"github.com/dpyte/vtc/vtcfile"
)

// Env bundles an Environment with its own intrinsic registry. Mutators
// require exclusive access from the caller; queries are independent and
// side-effect-free.
type Env struct {
	env      *environment.Environment
	registry *intrinsics.Registry
}

// New returns an empty Env with no registered user intrinsics.
func New() *Env {
	return &Env{env: environment.New(), registry: intrinsics.NewRegistry()}
}

// LoadText parses source and adds its namespaces, each replacing any
// same-named namespace already present.
func (e *Env) LoadText(src string) error {
	return e.env.Load(src)
}

// LoadFile reads path and adds its namespaces, each replacing any
// same-named namespace already present.
func (e *Env) LoadFile(path string) error {
	return vtcfile.LoadFile(e.env, path)
}

// Get is the core Query API operation: resolve (ns, var) plus an accessor
// path to a fully materialized value.
func (e *Env) Get(ns, varName string, accessors []value.Accessor) (value.Value, error) {
	return resolver.New(e.env, e.registry).Get(ns, varName, accessors)
}

// GetString resolves a query and requires the result to be a String.
func (e *Env) GetString(ns, varName string, accessors []value.Accessor) (string, error) {
	v, err := e.Get(ns, varName, accessors)
	if err != nil {
		return "", err
	}
	if v.Kind() != value.KindString {
		return "", vtcerr.New(vtcerr.TypeError, "expected string, got "+v.Kind().String())
	}
	return v.StringVal(), nil
}

// GetInteger resolves a query and requires the result to be an integer-
// identity kind (Integer, Binary, or Hexadecimal).
func (e *Env) GetInteger(ns, varName string, accessors []value.Accessor) (int64, error) {
	v, err := e.Get(ns, varName, accessors)
	if err != nil {
		return 0, err
	}
	switch v.Kind() {
	case value.KindInteger, value.KindBinary, value.KindHexadecimal:
		return v.IntVal(), nil
	default:
		return 0, vtcerr.New(vtcerr.TypeError, "expected integer, got "+v.Kind().String())
	}
}

// GetFloat resolves a query and requires the result to be a Float.
func (e *Env) GetFloat(ns, varName string, accessors []value.Accessor) (float64, error) {
	v, err := e.Get(ns, varName, accessors)
	if err != nil {
		return 0, err
	}
	if v.Kind() != value.KindFloat {
		return 0, vtcerr.New(vtcerr.TypeError, "expected float, got "+v.Kind().String())
	}
	return v.FloatVal(), nil
}

// GetBoolean resolves a query and requires the result to be a Boolean.
func (e *Env) GetBoolean(ns, varName string, accessors []value.Accessor) (bool, error) {
	v, err := e.Get(ns, varName, accessors)
	if err != nil {
		return false, err
	}
	if v.Kind() != value.KindBoolean {
		return false, vtcerr.New(vtcerr.TypeError, "expected boolean, got "+v.Kind().String())
	}
	return v.BoolVal(), nil
}

// GetList resolves a query and requires the result to be a List.
func (e *Env) GetList(ns, varName string, accessors []value.Accessor) ([]value.Value, error) {
	v, err := e.Get(ns, varName, accessors)
	if err != nil {
		return nil, err
	}
	if v.Kind() != value.KindList {
		return nil, vtcerr.New(vtcerr.TypeError, "expected list, got "+v.Kind().String())
	}
	return v.ListVal(), nil
}

// AsDict treats the resolved variable's value as a list of [key, value]
// pairs and returns a map. Fails ConversionError if the shape does not
// match: every element must be a 2-element list whose first element is a
// String.
func (e *Env) AsDict(ns, varName string) (map[string]value.Value, error) {
	v, err := e.Get(ns, varName, nil)
	if err != nil {
		return nil, err
	}
	if v.Kind() != value.KindList {
		return nil, vtcerr.New(vtcerr.ConversionError, "value is not a list of pairs")
	}
	out := make(map[string]value.Value, len(v.ListVal()))
	for i, pair := range v.ListVal() {
		if pair.Kind() != value.KindList || len(pair.ListVal()) != 2 {
			return nil, vtcerr.New(vtcerr.ConversionError, "element is not a [key, value] pair at index "+strconv.Itoa(i))
		}
		kv := pair.ListVal()[0]
		if kv.Kind() != value.KindString {
			return nil, vtcerr.New(vtcerr.ConversionError, "pair key is not a string at index "+strconv.Itoa(i))
		}
		out[kv.StringVal()] = pair.ListVal()[1]
	}
	return out, nil
}

// FlattenList resolves the variable and recursively flattens nested lists
// into a single in-order sequence of non-list leaf values.
func (e *Env) FlattenList(ns, varName string) ([]value.Value, error) {
	v, err := e.Get(ns, varName, nil)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	var walk func(value.Value)
	walk = func(v value.Value) {
		if v.Kind() == value.KindList {
			for _, item := range v.ListVal() {
				walk(item)
			}
			return
		}
		out = append(out, v)
	}
	walk(v)
	return out, nil
}

// AddNamespace creates a new, empty namespace.
func (e *Env) AddNamespace(name string) error { return e.env.AddNamespace(name) }

// DeleteNamespace removes a namespace.
func (e *Env) DeleteNamespace(name string) error { return e.env.DeleteNamespace(name) }

// AddValue creates ns if missing, then inserts or replaces var.
func (e *Env) AddValue(ns, varName string, v value.Value) error {
	return e.env.AddValue(ns, varName, v)
}

// UpdateValue replaces an existing variable's value.
func (e *Env) UpdateValue(ns, varName string, v value.Value) error {
	return e.env.UpdateValue(ns, varName, v)
}

// DeleteValue removes a variable.
func (e *Env) DeleteValue(ns, varName string) error {
	return e.env.DeleteValue(ns, varName)
}

// ListNamespaces returns every namespace name.
func (e *Env) ListNamespaces() []string { return e.env.ListNamespaces() }

// ListVariables returns every variable name in ns.
func (e *Env) ListVariables(ns string) ([]string, error) { return e.env.ListVariables(ns) }

// RegisterIntrinsic adds a user-defined intrinsic. Fails if name starts
// with the reserved "std" prefix.
func (e *Env) RegisterIntrinsic(name string, fn intrinsics.Func) error {
	return e.registry.Register(name, fn)
}

// Dump writes the full environment to path as canonical VTC text.
func (e *Env) Dump(path string, format serializer.Format) error {
	text := serializer.WriteString(e.env, format)
	return vtcfile.Save(path, text)
}

// DumpSelective writes the given root namespaces plus the transitive
// closure of namespaces they reference to path.
func (e *Env) DumpSelective(path string, namespaces []string, format serializer.Format) error {
	text, err := serializer.WriteSelectiveString(e.env, namespaces, format)
	if err != nil {
		return err
	}
	return vtcfile.Save(path, text)
}

// Clone returns an Env with an independent copy of the environment and a
// fresh, empty intrinsic registry; user-registered intrinsics are not
// carried over to the clone.
func (e *Env) Clone() *Env {
	clonedRegistry := intrinsics.NewRegistry()
	// Registry has no enumeration API by design; callers who need registrations preserved across a
	// Clone should re-register onto the returned Env.
	return &Env{env: e.env.Clone(), registry: clonedRegistry}
}

// Merge applies other's namespaces onto e variable by variable, other's
// value winning for a variable both define. Unlike LoadText, it does not
// replace a same-named namespace wholesale.
func (e *Env) Merge(other *Env) {
	e.env.Merge(other.env)
}
