// Package environment implements the VTC Environment: a mapping from
// namespace name to Namespace, each holding a mapping from variable name
// to an owned value.Value.
//
// Mutators are confined to the Environment's own bookkeeping and never
// trigger resolution: adding, updating, or deleting a variable never
// evaluates references or intrinsics, only resolution queries do.
package environment

import (
	"sort"

	"github.com/dpyte/vtc/grammar"
	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

// Namespace is a named bag of variable bindings.
type Namespace struct {
	Name string
	vars map[string]value.Value
}

func newNamespace(name string) *Namespace {
	return &Namespace{Name: name, vars: make(map[string]value.Value)}
}

// Environment is the in-memory store of namespaces that the resolver reads
// from and the loader/mutators write to.
type Environment struct {
	namespaces map[string]*Namespace
}

// New returns an empty Environment.
func New() *Environment {
	return &Environment{namespaces: make(map[string]*Namespace)}
}

// Load parses source text and installs its namespaces into the
// environment.
//
// A namespace with the same name as one already present — whether from an
// earlier Load call or from an earlier block within this same source text
// — is replaced wholesale by the later definition: the later block's
// variables become the namespace's entire contents, and any variables the
// earlier definition held that the later one does not repeat are dropped.
// Within one namespace block, later variable definitions overwrite
// earlier ones (tie-break: textual order). Repeated Load calls still
// accumulate in the sense that *new* namespace names add to the
// environment; same-named ones replace, they do not merge — that merging
// behavior belongs to Merge, not Load.
func (e *Environment) Load(src string) error {
	file, err := grammar.Parse(src)
	if err != nil {
		return err
	}

	// Collapse same-named namespace blocks *within this load* into one:
	// a later block entirely replaces an earlier one of the same name,
	// it does not append to it.
	merged := make(map[string]*grammar.NamespaceDef)
	var order []string
	for i := range file.Namespaces {
		ns := file.Namespaces[i]
		if _, ok := merged[ns.Name]; !ok {
			order = append(order, ns.Name)
		}
		nsCopy := ns
		merged[ns.Name] = &nsCopy
	}

	for _, name := range order {
		def := merged[name]
		target := newNamespace(name)
		for _, v := range def.Variables {
			target.vars[v.Name] = v.Value
		}
		e.namespaces[name] = target
	}
	return nil
}

// AddNamespace creates a new, empty namespace. Fails NamespaceAlreadyExists
// if one by that name is already present.
func (e *Environment) AddNamespace(name string) error {
	if _, ok := e.namespaces[name]; ok {
		return vtcerr.New(vtcerr.NamespaceAlreadyExists, name)
	}
	e.namespaces[name] = newNamespace(name)
	return nil
}

// DeleteNamespace removes a namespace. Fails NamespaceNotFound if absent.
// Future references to the deleted namespace fail at their next
// resolution.
func (e *Environment) DeleteNamespace(name string) error {
	if _, ok := e.namespaces[name]; !ok {
		return vtcerr.New(vtcerr.NamespaceNotFound, name)
	}
	delete(e.namespaces, name)
	return nil
}

// AddValue creates ns if missing, then inserts or replaces var.
func (e *Environment) AddValue(ns, varName string, v value.Value) error {
	target, ok := e.namespaces[ns]
	if !ok {
		target = newNamespace(ns)
		e.namespaces[ns] = target
	}
	target.vars[varName] = v
	return nil
}

// UpdateValue replaces an existing variable's value. Fails NamespaceNotFound
// or VariableNotFound if either is absent.
func (e *Environment) UpdateValue(ns, varName string, v value.Value) error {
	target, ok := e.namespaces[ns]
	if !ok {
		return vtcerr.New(vtcerr.NamespaceNotFound, ns)
	}
	if _, ok := target.vars[varName]; !ok {
		return vtcerr.New(vtcerr.VariableNotFound, varName)
	}
	target.vars[varName] = v
	return nil
}

// DeleteValue removes a variable. Fails NamespaceNotFound or
// VariableNotFound if either is absent.
func (e *Environment) DeleteValue(ns, varName string) error {
	target, ok := e.namespaces[ns]
	if !ok {
		return vtcerr.New(vtcerr.NamespaceNotFound, ns)
	}
	if _, ok := target.vars[varName]; !ok {
		return vtcerr.New(vtcerr.VariableNotFound, varName)
	}
	delete(target.vars, varName)
	return nil
}

// ListNamespaces returns every namespace name. Order is unspecified by the
// spec; this implementation returns a sorted list for reproducible output.
func (e *Environment) ListNamespaces() []string {
	names := make([]string, 0, len(e.namespaces))
	for name := range e.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListVariables returns every variable name in ns. Fails NamespaceNotFound
// if absent. Order is unspecified by the spec; sorted here.
func (e *Environment) ListVariables(ns string) ([]string, error) {
	target, ok := e.namespaces[ns]
	if !ok {
		return nil, vtcerr.New(vtcerr.NamespaceNotFound, ns)
	}
	names := make([]string, 0, len(target.vars))
	for name := range target.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Namespace returns the namespace by name, and whether it exists. Used by
// the resolver; callers must not mutate the returned value's bindings
// except through the Environment's own mutators.
func (e *Environment) Namespace(name string) (*Namespace, bool) {
	ns, ok := e.namespaces[name]
	return ns, ok
}

// Variable returns the bound value.Value for (ns, varName), and whether it
// exists.
func (ns *Namespace) Variable(varName string) (value.Value, bool) {
	v, ok := ns.vars[varName]
	return v, ok
}

// Clone returns a deep, independent copy of the environment. Values are
// immutable once constructed, so cloning is a shallow copy of each
// Namespace's map.
func (e *Environment) Clone() *Environment {
	out := New()
	for name, ns := range e.namespaces {
		cloned := newNamespace(name)
		for k, v := range ns.vars {
			cloned.vars[k] = v
		}
		out.namespaces[name] = cloned
	}
	return out
}

// Merge applies other's namespaces onto the receiver with a later-wins
// overlay: unlike Load, same-named namespaces are merged variable by
// variable rather than replaced wholesale, and other's value wins for a
// variable both define.
func (e *Environment) Merge(other *Environment) {
	for name, ns := range other.namespaces {
		target, ok := e.namespaces[name]
		if !ok {
			target = newNamespace(name)
			e.namespaces[name] = target
		}
		for k, v := range ns.vars {
			target.vars[k] = v
		}
	}
}
