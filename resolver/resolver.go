// Package resolver implements the VTC resolution engine: the on-demand
// evaluator that turns a (namespace, variable, accessor-path) query into a
// fully-materialized value.Value by interleaving reference chasing, list
// descent, and intrinsic evaluation under cycle-safe bookkeeping.
package resolver

import (
	"strconv"

	"github.com/dpyte/vtc/environment"
	"github.com/dpyte/vtc/intrinsics"
	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

// Resolver answers queries against an Environment using a Registry of
// user-registered intrinsics (the built-in "std_*" set is always
// available regardless of Registry).
type Resolver struct {
	env      *environment.Environment
	registry *intrinsics.Registry
}

// New constructs a Resolver over env. registry may be nil, in which case
// only built-in intrinsics are available.
func New(env *environment.Environment, registry *intrinsics.Registry) *Resolver {
	return &Resolver{env: env, registry: registry}
}

// frameKey identifies a (namespace, variable) pair currently on the
// resolution stack, the unit the visit set tracks for cycle detection.
type frameKey struct {
	namespace string
	variable  string
}

// Get resolves (ns, var) plus a query-supplied accessor path to a fully
// materialized value.Value. This is the core Query API operation.
func (r *Resolver) Get(ns, varName string, accessors []value.Accessor) (value.Value, error) {
	if ns == "" {
		if len(r.env.ListNamespaces()) == 0 {
			return value.Value{}, vtcerr.New(vtcerr.NoNamespaces, "environment has no namespaces")
		}
		return value.Value{}, vtcerr.New(vtcerr.MissingNamespace, "query did not specify a namespace")
	}
	anchor := value.Reference{
		RefKind:   value.RefLocal,
		Namespace: ns,
		Variable:  varName,
		Accessors: accessors,
	}
	visited := make(map[frameKey]struct{})
	return r.resolveReference(anchor, "", visited)
}

// resolveReference determines the target namespace, guards against
// cycles, looks the variable up, fully resolves its bound value, then
// applies the reference's own accessors.
func (r *Resolver) resolveReference(ref value.Reference, callerNamespace string, visited map[frameKey]struct{}) (value.Value, error) {
	namespace := ref.Namespace
	if namespace == "" {
		namespace = callerNamespace
	}
	if namespace == "" {
		return value.Value{}, vtcerr.New(vtcerr.MissingNamespace,
			"reference to %"+ref.Variable+" has no namespace and no enclosing context")
	}

	key := frameKey{namespace, ref.Variable}
	if _, onStack := visited[key]; onStack {
		return value.Value{}, vtcerr.New(vtcerr.CircularReference,
			namespace+"."+ref.Variable+" is already on the resolution chain")
	}
	visited[key] = struct{}{}
	defer delete(visited, key)

	ns, ok := r.env.Namespace(namespace)
	if !ok {
		return value.Value{}, vtcerr.New(vtcerr.NamespaceNotFound, namespace)
	}
	bound, ok := ns.Variable(ref.Variable)
	if !ok {
		return value.Value{}, vtcerr.New(vtcerr.VariableNotFound, ref.Variable)
	}

	resolved, err := r.resolveValue(bound, namespace, visited)
	if err != nil {
		return value.Value{}, err
	}

	return applyAccessors(resolved, ref.Accessors)
}

// resolveValue fully unwinds nested References and nested Lists that
// contain intrinsic calls.
func (r *Resolver) resolveValue(v value.Value, enclosingNamespace string, visited map[frameKey]struct{}) (value.Value, error) {
	switch v.Kind() {
	case value.KindString, value.KindInteger, value.KindFloat, value.KindBinary,
		value.KindHexadecimal, value.KindBoolean, value.KindNil:
		return v, nil

	case value.KindReference:
		return r.resolveReference(v.RefVal(), enclosingNamespace, visited)

	case value.KindList:
		items := v.ListVal()
		if len(items) > 0 && items[0].IsCallHead() {
			return r.evaluateIntrinsic(items[0].IntrinsicName(), items[1:], enclosingNamespace, visited)
		}
		resolved := make([]value.Value, len(items))
		for i, item := range items {
			rv, err := r.resolveValue(item, enclosingNamespace, visited)
			if err != nil {
				return value.Value{}, err
			}
			resolved[i] = rv
		}
		return value.List(resolved), nil

	case value.KindIntrinsic:
		return value.Value{}, vtcerr.New(vtcerr.InvalidIntrinsicArgs,
			"bare intrinsic \""+v.IntrinsicName()+"\" used outside of a call")

	default:
		return value.Value{}, vtcerr.New(vtcerr.TypeError, "unrecognized value kind")
	}
}

// evaluateIntrinsic checks a built-in's declared arity against the raw call
// before touching any argument, then resolves every argument eagerly (left
// to right), then invokes the named intrinsic. A wrong-arity call is
// reported even when one of its arguments would itself have failed to
// resolve: arity is a property of the call site, independent of whether its
// arguments are valid. User-registered intrinsics have no declared arity
// and validate it themselves, from inside their own Func, after resolution.
func (r *Resolver) evaluateIntrinsic(name string, argExprs []value.Value, enclosingNamespace string, visited map[frameKey]struct{}) (value.Value, error) {
	fn, err := r.registry.Lookup(name)
	if err != nil {
		return value.Value{}, err
	}
	if want, ok := intrinsics.Arity(name); ok && len(argExprs) != want {
		return value.Value{}, intrinsics.ArityError(name, want, len(argExprs))
	}

	args := make([]value.Value, len(argExprs))
	for i, expr := range argExprs {
		rv, err := r.resolveValue(expr, enclosingNamespace, visited)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = rv
	}

	return fn(args)
}

// applyAccessors applies accessors in declaration order.
func applyAccessors(v value.Value, accessors []value.Accessor) (value.Value, error) {
	cur := v
	for _, a := range accessors {
		next, err := applyOne(cur, a)
		if err != nil {
			return value.Value{}, err
		}
		cur = next
	}
	return cur, nil
}

func applyOne(v value.Value, a value.Accessor) (value.Value, error) {
	switch a.Kind {
	case value.AccessorIndex:
		switch v.Kind() {
		case value.KindList:
			items := v.ListVal()
			if a.Index < 0 || a.Index >= len(items) {
				return value.Value{}, vtcerr.New(vtcerr.IndexOutOfBounds, indexDetail(a.Index))
			}
			return items[a.Index], nil
		case value.KindString:
			runes := []rune(v.StringVal())
			if a.Index < 0 || a.Index >= len(runes) {
				return value.Value{}, vtcerr.New(vtcerr.IndexOutOfBounds, indexDetail(a.Index))
			}
			return value.String(string(runes[a.Index])), nil
		default:
			return value.Value{}, vtcerr.New(vtcerr.InvalidAccessor, "Index accessor applied to "+v.Kind().String())
		}

	case value.AccessorRange:
		if a.Lo > a.Hi {
			return value.Value{}, vtcerr.New(vtcerr.InvalidRange, rangeDetail(a.Lo, a.Hi))
		}
		switch v.Kind() {
		case value.KindList:
			items := v.ListVal()
			if a.Lo < 0 || a.Hi > len(items) {
				return value.Value{}, vtcerr.New(vtcerr.InvalidRange, rangeDetail(a.Lo, a.Hi))
			}
			sliced := make([]value.Value, a.Hi-a.Lo)
			copy(sliced, items[a.Lo:a.Hi])
			return value.List(sliced), nil
		case value.KindString:
			runes := []rune(v.StringVal())
			if a.Lo < 0 || a.Hi > len(runes) {
				return value.Value{}, vtcerr.New(vtcerr.InvalidRange, rangeDetail(a.Lo, a.Hi))
			}
			return value.String(string(runes[a.Lo:a.Hi])), nil
		default:
			return value.Value{}, vtcerr.New(vtcerr.InvalidAccessor, "Range accessor applied to "+v.Kind().String())
		}

	case value.AccessorKey:
		// Reserved for a future map-typed value; no current variant
		// satisfies it.
		return value.Value{}, vtcerr.New(vtcerr.InvalidAccessor, "Key accessor is not satisfiable by any current value type")

	default:
		return value.Value{}, vtcerr.New(vtcerr.InvalidAccessor, "unrecognized accessor")
	}
}

func indexDetail(i int) string {
	return "index " + strconv.Itoa(i) + " out of bounds"
}

func rangeDetail(lo, hi int) string {
	return "range [" + strconv.Itoa(lo) + ", " + strconv.Itoa(hi) + ")"
}
