// Package serializer re-serializes an Environment to canonical VTC text.
// It never evaluates References or intrinsics — it emits them verbatim,
// so re-parsing a dump must reproduce a structurally equal Environment.
package serializer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dpyte/vtc/environment"
	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

// Format controls cosmetic choices: namespace ordering and float
// rendering. The round-trip law holds for any namespace order and for the
// default float rendering; a FloatFormat override that drops digits or
// omits the decimal point does not preserve it. The zero Format emits a
// full dump in Environment's (sorted) ListNamespaces order, a selective
// dump in worklist discovery order, and floats in the shortest
// round-trippable decimal form.
type Format struct {
	// SortNamespaces, when true, emits namespaces in sorted order instead
	// of Environment's own (also-sorted) ListNamespaces order. Kept as an
	// explicit option because a future Environment implementation might
	// return unordered names.
	SortNamespaces bool
	// FloatFormat overrides float rendering; nil uses strconv.FormatFloat
	// with 'f' and -1 precision (shortest round-trippable decimal), adding
	// ".0" when that has no decimal point so the lexer reads a Float back.
	FloatFormat func(float64) string
}

// DefaultFormat sorts namespaces and uses the default float rendering. The
// CLI's get output and the ffi Dump use it; Env.Dump/DumpSelective take
// whatever Format their caller passes.
var DefaultFormat = Format{SortNamespaces: true}

// WriteString returns the full environment rendered as VTC text: every
// namespace and variable, namespaces separated by a blank line.
func WriteString(env *environment.Environment, format Format) string {
	var sb strings.Builder
	names := env.ListNamespaces() // already sorted by Environment
	if format.SortNamespaces {
		sort.Strings(names)
	}
	writeNamespaces(&sb, env, names, format)
	return sb.String()
}

// WriteSelectiveString renders roots plus the transitive closure of
// namespaces named by References inside their values, implemented as a worklist over namespace names.
func WriteSelectiveString(env *environment.Environment, roots []string, format Format) (string, error) {
	emitted := make(map[string]bool)
	var order []string
	worklist := append([]string(nil), roots...)

	for len(worklist) > 0 {
		name := worklist[0]
		worklist = worklist[1:]
		if emitted[name] {
			continue
		}
		ns, ok := env.Namespace(name)
		if !ok {
			return "", vtcerr.New(vtcerr.NamespaceNotFound, name)
		}
		emitted[name] = true
		order = append(order, name)

		varNames, _ := env.ListVariables(name)
		for _, vn := range varNames {
			v, _ := ns.Variable(vn)
			for _, refNS := range referencedNamespaces(v) {
				if !emitted[refNS] {
					worklist = append(worklist, refNS)
				}
			}
		}
	}

	if format.SortNamespaces {
		sort.Strings(order)
	}

	var sb strings.Builder
	writeNamespaces(&sb, env, order, format)
	return sb.String(), nil
}

func referencedNamespaces(v value.Value) []string {
	var out []string
	var walk func(value.Value)
	walk = func(v value.Value) {
		switch v.Kind() {
		case value.KindReference:
			if ns := v.RefVal().Namespace; ns != "" {
				out = append(out, ns)
			}
		case value.KindList:
			for _, item := range v.ListVal() {
				walk(item)
			}
		}
	}
	walk(v)
	return out
}

func writeNamespaces(sb *strings.Builder, env *environment.Environment, names []string, format Format) {
	for i, name := range names {
		if i > 0 {
			sb.WriteString("\n")
		}
		ns, ok := env.Namespace(name)
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "@%s:\n", name)
		varNames, _ := env.ListVariables(name)
		for _, vn := range varNames {
			v, _ := ns.Variable(vn)
			fmt.Fprintf(sb, "    $%s := %s\n", vn, renderValue(v, format))
		}
	}
}

// RenderValue formats a single resolved value the same way the full dump
// would render it in source position — useful for callers (such as the
// CLI's get subcommand) that print one resolved value rather than a whole
// environment.
func RenderValue(v value.Value, format Format) string {
	return renderValue(v, format)
}

func renderValue(v value.Value, format Format) string {
	switch v.Kind() {
	case value.KindString:
		// The lexer accepts no escape sequences, so quoting is simple wrapping rather than Go-style
		// escaping: a value built purely from parsed input can never
		// contain the delimiter or a backslash.
		return `"` + v.StringVal() + `"`
	case value.KindInteger:
		return strconv.FormatInt(v.IntVal(), 10)
	case value.KindFloat:
		if format.FloatFormat != nil {
			return format.FloatFormat(v.FloatVal())
		}
		f := v.FloatVal()
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case value.KindBinary:
		return signedRadixLiteral(v.IntVal(), 2, "0b", false)
	case value.KindHexadecimal:
		return signedRadixLiteral(v.IntVal(), 16, "0x", true)
	case value.KindBoolean:
		if v.BoolVal() {
			return "True"
		}
		return "False"
	case value.KindNil:
		return "Nil"
	case value.KindList:
		parts := make([]string, len(v.ListVal()))
		for i, item := range v.ListVal() {
			parts[i] = renderValue(item, format)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case value.KindReference:
		return v.RefVal().String()
	case value.KindIntrinsic:
		return v.IntrinsicName() + "!!"
	default:
		return "Nil"
	}
}

// signedRadixLiteral renders i in the given base with prefix, putting a
// minus sign before the prefix rather than before the digits (e.g. "-0b101",
// not "0b-101") so the lexer's own leading-sign handling for Binary/
// Hexadecimal literals can parse it back. uint64(-i) is exact even when
// i is math.MinInt64, since negation and the conversion both wrap modulo
// 2^64.
func signedRadixLiteral(i int64, base int, prefix string, upper bool) string {
	sign := ""
	mag := uint64(i)
	if i < 0 {
		sign = "-"
		mag = uint64(-i)
	}
	digits := strconv.FormatUint(mag, base)
	if upper {
		digits = strings.ToUpper(digits)
	}
	return sign + prefix + digits
}
