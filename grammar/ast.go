// Package grammar turns a lexer.Token stream into the VTC value tree
//. There is no separate AST layer: a parsed Variable's
// value *is* the runtime value.Value the resolver later operates on.
package grammar

import "github.com/dpyte/vtc/value"

// VarDef is one `$ident := Value` definition, in source (textual) order.
type VarDef struct {
	Name  string
	Value value.Value
}

// NamespaceDef is one `@ident : Variable*` block, in source order.
type NamespaceDef struct {
	Name      string
	Variables []VarDef
}

// File is the parsed result of a whole VTC document: `Namespace+`.
type File struct {
	Namespaces []NamespaceDef
}
