package grammar

import (
	"strconv"
	"strings"

	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

// parseReference splits a reference token's raw text:
//
//  1. the first character determines RefKind (& => External, % => Local).
//  2. the head — everything before the first "->" accessor segment — is
//     split on its first '.' into an optional namespace and the variable
//     name. Bounding the dot search to the head (rather than the whole
//     remainder) avoids confusing a namespace separator with the ".."
//     inside a Range accessor such as "->(0..3)".
//  3. the remaining "->(...)" / "->[...]" segments are parsed in order
//     into Accessors.
func parseReference(raw string, line, col int) (value.Reference, error) {
	if len(raw) == 0 {
		return value.Reference{}, vtcerr.New(vtcerr.ParseError, "empty reference")
	}

	var kind value.RefKind
	switch raw[0] {
	case '&':
		kind = value.RefExternal
	case '%':
		kind = value.RefLocal
	default:
		return value.Reference{}, errAt(line, col, "reference must start with '&' or '%%'")
	}
	remainder := raw[1:]

	headEnd := strings.Index(remainder, "->")
	var head, accessorsStr string
	if headEnd < 0 {
		head = remainder
		accessorsStr = ""
	} else {
		head = remainder[:headEnd]
		accessorsStr = remainder[headEnd:]
	}

	var namespace, variable string
	if dot := strings.IndexByte(head, '.'); dot >= 0 {
		namespace = head[:dot]
		variable = head[dot+1:]
	} else {
		variable = head
	}

	if variable == "" {
		return value.Reference{}, errAt(line, col, "reference is missing a variable name: %q", raw)
	}

	accessors, err := parseAccessors(accessorsStr, line, col)
	if err != nil {
		return value.Reference{}, err
	}

	return value.Reference{
		RefKind:   kind,
		Namespace: namespace,
		Variable:  variable,
		Accessors: accessors,
	}, nil
}

// ParseAccessorPath parses a standalone accessor path such as
// "->(0)->(1..3)" outside of any surrounding reference token — the form
// the CLI accepts on its -accessors flag.
func ParseAccessorPath(s string) ([]value.Accessor, error) {
	return parseAccessors(s, 0, 0)
}

func parseAccessors(s string, line, col int) ([]value.Accessor, error) {
	var out []value.Accessor
	for len(s) > 0 {
		if !strings.HasPrefix(s, "->") {
			return nil, errAt(line, col, "malformed accessor near %q", s)
		}
		s = s[2:]
		if len(s) == 0 {
			return nil, errAt(line, col, "accessor truncated after '->'")
		}
		switch s[0] {
		case '(':
			end := strings.IndexByte(s, ')')
			if end < 0 {
				return nil, errAt(line, col, "unterminated accessor: missing ')'")
			}
			body := s[1:end]
			s = s[end+1:]
			if dd := strings.Index(body, ".."); dd >= 0 {
				lo, err := strconv.Atoi(strings.TrimSpace(body[:dd]))
				if err != nil {
					return nil, errAt(line, col, "invalid range lower bound %q", body)
				}
				hi, err := strconv.Atoi(strings.TrimSpace(body[dd+2:]))
				if err != nil {
					return nil, errAt(line, col, "invalid range upper bound %q", body)
				}
				out = append(out, value.RangeAccessor(lo, hi))
			} else {
				n, err := strconv.Atoi(strings.TrimSpace(body))
				if err != nil {
					return nil, errAt(line, col, "invalid index %q", body)
				}
				out = append(out, value.IndexAccessor(n))
			}
		case '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return nil, errAt(line, col, "unterminated accessor: missing ']'")
			}
			key := strings.TrimSpace(s[1:end])
			s = s[end+1:]
			out = append(out, value.KeyAccessor(key))
		default:
			return nil, errAt(line, col, "accessor must start with '(' or '[' after '->'")
		}
	}
	return out, nil
}
