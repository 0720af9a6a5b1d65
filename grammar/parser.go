package grammar

import (
	"fmt"

	"github.com/dpyte/vtc/lexer"
	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

func errAt(line, col int, format string, args ...interface{}) error {
	detail := fmt.Sprintf("line %d, col %d: %s", line, col, fmt.Sprintf(format, args...))
	return vtcerr.New(vtcerr.ParseError, detail)
}

// Parse lexes and parses a complete VTC document. The grammar is LL(1) over the token stream once comments
// are skipped.
func Parse(src string) (File, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return File{}, err
	}
	p := &parser{toks: filterComments(toks)}
	return p.parseFile()
}

func filterComments(toks []lexer.Token) []lexer.Token {
	out := toks[:0:0]
	for _, t := range toks {
		if t.Kind != lexer.Comment {
			out = append(out, t)
		}
	}
	return out
}

type parser struct {
	toks []lexer.Token
	pos  int
}

func (p *parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *parser) atEnd() bool       { return p.cur().Kind == lexer.EOF }
func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k lexer.Kind) (lexer.Token, error) {
	t := p.cur()
	if t.Kind != k {
		return lexer.Token{}, errAt(t.Line, t.Col, "expected %s, got %s %q", k, t.Kind, t.Text)
	}
	return p.advance(), nil
}

func (p *parser) parseFile() (File, error) {
	var f File
	if p.atEnd() {
		return f, errAt(1, 1, "empty document: expected at least one namespace")
	}
	for !p.atEnd() {
		ns, err := p.parseNamespace()
		if err != nil {
			return File{}, err
		}
		f.Namespaces = append(f.Namespaces, ns)
	}
	return f, nil
}

func (p *parser) parseNamespace() (NamespaceDef, error) {
	nameTok, err := p.expect(lexer.Namespace)
	if err != nil {
		return NamespaceDef{}, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return NamespaceDef{}, err
	}

	ns := NamespaceDef{Name: nameTok.Text}
	for p.cur().Kind == lexer.Variable {
		v, err := p.parseVariable()
		if err != nil {
			return NamespaceDef{}, err
		}
		ns.Variables = append(ns.Variables, v)
	}
	return ns, nil
}

func (p *parser) parseVariable() (VarDef, error) {
	nameTok, err := p.expect(lexer.Variable)
	if err != nil {
		return VarDef{}, err
	}
	if _, err := p.expect(lexer.ColonEqual); err != nil {
		return VarDef{}, err
	}
	val, err := p.parseValue()
	if err != nil {
		return VarDef{}, err
	}
	return VarDef{Name: nameTok.Text, Value: val}, nil
}

func (p *parser) parseValue() (value.Value, error) {
	t := p.cur()
	switch t.Kind {
	case lexer.String:
		p.advance()
		return value.String(t.Text), nil
	case lexer.Integer:
		p.advance()
		return value.Integer(t.IntVal), nil
	case lexer.Float:
		p.advance()
		return value.Float(t.FloatVal), nil
	case lexer.Binary:
		p.advance()
		return value.Binary(t.IntVal), nil
	case lexer.Hexadecimal:
		p.advance()
		return value.Hex(t.IntVal), nil
	case lexer.Boolean:
		p.advance()
		return value.Bool(t.BoolVal), nil
	case lexer.Nil:
		p.advance()
		return value.Nil(), nil
	case lexer.Intrinsic:
		p.advance()
		return value.Intrinsic(t.Text), nil
	case lexer.Reference:
		p.advance()
		ref, err := parseReference(t.Text, t.Line, t.Col)
		if err != nil {
			return value.Value{}, err
		}
		return value.Ref(ref), nil
	case lexer.LBracket:
		return p.parseList()
	default:
		return value.Value{}, errAt(t.Line, t.Col, "unexpected token %s %q in value position", t.Kind, t.Text)
	}
}

func (p *parser) parseList() (value.Value, error) {
	if _, err := p.expect(lexer.LBracket); err != nil {
		return value.Value{}, err
	}
	var items []value.Value
	if p.cur().Kind != lexer.RBracket {
		for {
			v, err := p.parseValue()
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
			if p.cur().Kind == lexer.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RBracket); err != nil {
		return value.Value{}, err
	}
	return value.List(items), nil
}
