/*
Package value implements the property-value grammar: lengths, colors,
functions, var() references with fallbacks, and calc() expression trees
built with operator precedence. Recursion depth is bounded by an explicit
counter so adversarial nesting fails with a typed error instead of
exhausting the call stack.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package value

import (
	"errors"

	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/token"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.value'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.value")
}

// ErrDepthExceeded is returned when function/calc nesting exceeds the
// configured depth. The error is local to one declaration value.
var ErrDepthExceeded = errors.New("value nesting depth exceeded")

// ErrInvalidValue is returned for token runs that violate the value
// grammar of a modelled property.
var ErrInvalidValue = errors.New("invalid declaration value")

// DefaultMaxDepth bounds function and calc() nesting.
const DefaultMaxDepth = 64

type parser struct {
	toks     []token.Token
	pos      int
	depth    int
	maxDepth int
	colorCtx bool // idents matching color keywords become Color values
}

// ParseDeclaration parses the value of the given (lowercased) property
// from a bounded token span. Properties outside the modelled set are not
// handled here; the rule parser keeps them raw.
func ParseDeclaration(property string, toks []token.Token, maxDepth int) (ast.Value, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{toks: trimWS(toks), maxDepth: maxDepth, colorCtx: IsColorProperty(property)}
	v, err := p.parseCommaList()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, ErrInvalidValue
	}
	return v, nil
}

// Parse parses a property-independent value (used for media feature
// values and test fixtures).
func Parse(toks []token.Token, maxDepth int) (ast.Value, error) {
	return ParseDeclaration("", toks, maxDepth)
}

func trimWS(toks []token.Token) []token.Token {
	for len(toks) > 0 && toks[0].Type == token.Whitespace {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].Type == token.Whitespace {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.EOFToken(0)
	}
	return p.toks[p.pos]
}

func (p *parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) skipWS() {
	for p.peek().Type == token.Whitespace {
		p.pos++
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		tracer().Debugf("depth limit %d exceeded", p.maxDepth)
		return ErrDepthExceeded
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseCommaList parses "a, b, c"; a single member is returned unwrapped.
func (p *parser) parseCommaList() (ast.Value, error) {
	var list ast.CommaList
	for {
		v, err := p.parseSpaceList()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
		p.skipWS()
		if p.peek().Type != token.Comma {
			break
		}
		p.next()
		p.skipWS()
	}
	if len(list) == 1 {
		return list[0], nil
	}
	return list, nil
}

// parseSpaceList parses "a b c"; a single member is returned unwrapped.
func (p *parser) parseSpaceList() (ast.Value, error) {
	var list ast.SpaceList
	for {
		p.skipWS()
		t := p.peek()
		if t.Type == token.EOF || t.Type == token.Comma || t.Type == token.RParen {
			break
		}
		v, err := p.parseComponent()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	if len(list) == 0 {
		return nil, ErrInvalidValue
	}
	if len(list) == 1 {
		return list[0], nil
	}
	return list, nil
}

// parseComponent parses one component value.
func (p *parser) parseComponent() (ast.Value, error) {
	t := p.next()
	switch t.Type {
	case token.Number:
		return ast.Number{Value: t.Num, Int: t.Int}, nil
	case token.Percentage:
		return ast.Percentage{Value: t.Num}, nil
	case token.Dimension:
		return ast.Dimension{Value: t.Num, Unit: t.Unit, Int: t.Int}, nil
	case token.String:
		return ast.String{Value: t.Value}, nil
	case token.URL:
		return ast.URL{Value: t.Value}, nil
	case token.Ident:
		if p.colorCtx {
			if c, ok := NamedColor(t.Value); ok {
				return c, nil
			}
		}
		return ast.Ident{Name: t.Value}, nil
	case token.Hash:
		if c, ok := HexColor(t.Value); ok {
			return c, nil
		}
		if p.colorCtx {
			return nil, ErrInvalidValue
		}
		return ast.RawValue{Tokens: []token.Token{t}}, nil
	case token.Function:
		return p.parseFunction(token.ASCIILower(t.Value))
	case token.Delim:
		// slashes appear in shorthand grammars (font, border-radius)
		if t.Lexeme == "/" {
			return ast.Ident{Name: "/"}, nil
		}
		return nil, ErrInvalidValue
	}
	return nil, ErrInvalidValue
}

// parseFunction dispatches on the function name; the opening paren has
// been consumed as part of the function token.
func (p *parser) parseFunction(name string) (ast.Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	switch name {
	case "calc", "min", "max", "clamp":
		return p.parseCalc(name)
	case "var":
		return p.parseVar()
	case "url":
		// quoted form: url("…")
		p.skipWS()
		t := p.next()
		if t.Type != token.String {
			return nil, ErrInvalidValue
		}
		p.skipWS()
		if p.next().Type != token.RParen {
			return nil, ErrInvalidValue
		}
		return ast.URL{Value: t.Value}, nil
	case "rgb", "rgba", "hsl", "hsla", "hwb", "lab", "lch", "oklab", "oklch":
		return p.parseColorFunction(name)
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name, Args: args}, nil
}

// parseArgs parses generic function arguments up to the closing paren.
func (p *parser) parseArgs() ([]ast.Value, error) {
	var args []ast.Value
	p.skipWS()
	if p.peek().Type == token.RParen {
		p.next()
		return args, nil
	}
	for {
		v, err := p.parseSpaceList()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		p.skipWS()
		switch p.next().Type {
		case token.RParen:
			return args, nil
		case token.Comma:
			p.skipWS()
		default:
			return nil, ErrInvalidValue
		}
	}
}

// parseVar parses "var(--name, fallback?)"; the fallback is an arbitrary
// value, kept opaque if it fails the grammar.
func (p *parser) parseVar() (ast.Value, error) {
	p.skipWS()
	t := p.next()
	if t.Type != token.Ident || len(t.Value) < 3 || t.Value[:2] != "--" {
		return nil, ErrInvalidValue
	}
	ref := &ast.VarRef{Name: t.Value}
	p.skipWS()
	switch p.next().Type {
	case token.RParen:
		return ref, nil
	case token.Comma:
		fb, err := p.parseCommaList()
		if err != nil {
			return nil, err
		}
		if p.next().Type != token.RParen {
			return nil, ErrInvalidValue
		}
		ref.Fallback = fb
		return ref, nil
	}
	return nil, ErrInvalidValue
}
