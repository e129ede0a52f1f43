/*
Package selector implements the selector grammar: it parses a bounded
token span (a rule prelude) into a selector list, validating combinator
placement and bounding recursion on the logical pseudo-classes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package selector

import (
	"errors"

	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/diag"
	"github.com/npillmayer/csskit/token"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.selector'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.selector")
}

// ErrInvalidSelector is returned when a prelude violates the selector
// grammar; the enclosing rule is dropped, siblings are unaffected.
var ErrInvalidSelector = errors.New("invalid selector")

// ErrDepthExceeded is returned when logical pseudo-classes nest beyond
// the configured depth limit.
var ErrDepthExceeded = errors.New("selector nesting depth exceeded")

// DefaultMaxDepth bounds :not/:is/:where/:has nesting.
const DefaultMaxDepth = 64

type parser struct {
	toks     []token.Token
	pos      int
	depth    int
	maxDepth int
}

// ParseList parses a complete selector list from the given token span.
// maxDepth <= 0 selects DefaultMaxDepth.
func ParseList(toks []token.Token, maxDepth int) (ast.SelectorList, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{toks: trimWS(toks), maxDepth: maxDepth}
	list, err := p.parseList()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		tracer().Debugf("selector has trailing tokens at %d", p.pos)
		return nil, ErrInvalidSelector
	}
	return list, nil
}

// Span returns the overall source span of a token run.
func Span(toks []token.Token) diag.Span {
	if len(toks) == 0 {
		return diag.Span{}
	}
	return toks[0].Span.Extend(toks[len(toks)-1].Span)
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

func (p *parser) skipWS() bool {
	seen := false
	for p.peek().Type == token.Whitespace {
		p.pos++
		seen = true
	}
	return seen
}

func (p *parser) parseList() (ast.SelectorList, error) {
	var list ast.SelectorList
	for {
		sel, err := p.parseComplex()
		if err != nil {
			return nil, err
		}
		list = append(list, sel)
		p.skipWS()
		if p.peek().Type != token.Comma {
			return list, nil
		}
		p.next()
		p.skipWS()
	}
}

// parseComplex parses one complex selector: compounds joined by
// combinators. Leading/trailing/adjacent combinators are grammar
// violations.
func (p *parser) parseComplex() (ast.ComplexSelector, error) {
	var sel ast.ComplexSelector
	compound, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	sel = append(sel, compound...)
	for {
		comb, ok, err := p.parseCombinator()
		if err != nil {
			return nil, err
		}
		if !ok {
			return sel, nil
		}
		compound, err := p.parseCompound()
		if err != nil {
			return nil, err
		}
		if len(compound) == 0 {
			// trailing combinator
			return nil, ErrInvalidSelector
		}
		sel = append(sel, comb)
		sel = append(sel, compound...)
	}
}

// parseCombinator recognizes ">", "+", "~" or significant whitespace.
// ok is false at the end of the complex selector (comma, EOF).
func (p *parser) parseCombinator() (ast.Combinator, bool, error) {
	ws := p.skipWS()
	t := p.peek()
	switch {
	case t.Type == token.EOF || t.Type == token.Comma || t.Type == token.RParen:
		return ast.Combinator{}, false, nil
	case t.IsDelim('>'):
		p.next()
		p.skipWS()
		return ast.Combinator{Kind: ast.Child}, true, nil
	case t.IsDelim('+'):
		p.next()
		p.skipWS()
		return ast.Combinator{Kind: ast.NextSibling}, true, nil
	case t.IsDelim('~'):
		p.next()
		p.skipWS()
		return ast.Combinator{Kind: ast.SubsequentSibling}, true, nil
	case ws:
		return ast.Combinator{Kind: ast.Descendant}, true, nil
	}
	return ast.Combinator{}, false, ErrInvalidSelector
}

// parseCompound parses a compound selector: an optional type/universal/
// nesting head followed by subclass selectors.
func (p *parser) parseCompound() ([]ast.SelComponent, error) {
	var comps []ast.SelComponent
	switch t := p.peek(); {
	case t.Type == token.Ident:
		p.next()
		comps = append(comps, ast.TypeSelector{Name: t.Value})
	case t.IsDelim('*'):
		p.next()
		comps = append(comps, ast.UniversalSelector{})
	case t.IsDelim('&'):
		p.next()
		comps = append(comps, ast.NestingSelector{})
	}
	for {
		switch t := p.peek(); {
		case t.Type == token.Hash:
			if !t.IsID {
				return nil, ErrInvalidSelector
			}
			p.next()
			comps = append(comps, ast.IDSelector{Name: t.Value})
		case t.IsDelim('.'):
			p.next()
			name := p.next()
			if name.Type != token.Ident {
				return nil, ErrInvalidSelector
			}
			comps = append(comps, ast.ClassSelector{Name: name.Value})
		case t.Type == token.LBracket:
			p.next()
			attr, err := p.parseAttribute()
			if err != nil {
				return nil, err
			}
			comps = append(comps, attr)
		case t.Type == token.Colon:
			p.next()
			comp, err := p.parsePseudo()
			if err != nil {
				return nil, err
			}
			comps = append(comps, comp)
		default:
			if len(comps) == 0 {
				return nil, ErrInvalidSelector
			}
			return comps, nil
		}
	}
}

func (p *parser) parseAttribute() (ast.AttributeSelector, error) {
	var attr ast.AttributeSelector
	p.skipWS()
	name := p.next()
	if name.Type != token.Ident {
		return attr, ErrInvalidSelector
	}
	attr.Name = name.Value
	p.skipWS()
	t := p.next()
	switch {
	case t.Type == token.RBracket:
		return attr, nil
	case t.IsDelim('='):
		attr.Op = "="
	case t.IsDelim('~'), t.IsDelim('|'), t.IsDelim('^'), t.IsDelim('$'), t.IsDelim('*'):
		if !p.next().IsDelim('=') {
			return attr, ErrInvalidSelector
		}
		attr.Op = t.Lexeme + "="
	default:
		return attr, ErrInvalidSelector
	}
	p.skipWS()
	val := p.next()
	switch val.Type {
	case token.Ident:
		attr.Value = val.Value
	case token.String:
		attr.Value = val.Value
		attr.Quoted = true
	default:
		return attr, ErrInvalidSelector
	}
	p.skipWS()
	if t := p.peek(); t.Type == token.Ident && len(t.Value) == 1 {
		switch t.Value[0] {
		case 'i', 'I':
			attr.CaseFlag = 'i'
			p.next()
			p.skipWS()
		case 's', 'S':
			attr.CaseFlag = 's'
			p.next()
			p.skipWS()
		}
	}
	if p.next().Type != token.RBracket {
		return attr, ErrInvalidSelector
	}
	return attr, nil
}

// logicalPseudoClasses take a selector list as their argument and count
// against the recursion depth limit.
var logicalPseudoClasses = map[string]bool{
	"not": true, "is": true, "where": true, "has": true,
}

func (p *parser) parsePseudo() (ast.SelComponent, error) {
	if p.peek().Type == token.Colon {
		p.next()
		t := p.next()
		switch t.Type {
		case token.Ident:
			return ast.PseudoElementSelector{Name: token.ASCIILower(t.Value)}, nil
		case token.Function:
			// functional pseudo-element, e.g. ::part(name)
			args, err := p.collectArgs()
			if err != nil {
				return nil, err
			}
			return ast.PseudoElementSelector{Name: token.ASCIILower(t.Value), Args: args, HasArgs: true}, nil
		}
		return nil, ErrInvalidSelector
	}
	t := p.next()
	switch t.Type {
	case token.Ident:
		name := token.ASCIILower(t.Value)
		if isLegacyPseudoElement(name) {
			return ast.PseudoElementSelector{Name: name, Legacy: true}, nil
		}
		return ast.PseudoClassSelector{Name: name}, nil
	case token.Function:
		name := token.ASCIILower(t.Value)
		if logicalPseudoClasses[name] {
			p.depth++
			if p.depth > p.maxDepth {
				return nil, ErrDepthExceeded
			}
			defer func() { p.depth-- }()
			list, err := p.parseList()
			if err != nil {
				return nil, err
			}
			p.skipWS()
			if p.next().Type != token.RParen {
				return nil, ErrInvalidSelector
			}
			return ast.PseudoClassSelector{Name: name, Selectors: list, HasArgs: true}, nil
		}
		args, err := p.collectArgs()
		if err != nil {
			return nil, err
		}
		return ast.PseudoClassSelector{Name: name, Args: args, HasArgs: true}, nil
	}
	return nil, ErrInvalidSelector
}

// collectArgs consumes raw tokens up to the matching closing paren.
func (p *parser) collectArgs() ([]token.Token, error) {
	var args []token.Token
	level := 1
	for {
		t := p.next()
		switch t.Type {
		case token.EOF:
			return nil, ErrInvalidSelector
		case token.LParen, token.Function:
			level++
		case token.RParen:
			level--
			if level == 0 {
				return trimWS(args), nil
			}
		}
		args = append(args, t)
	}
}

// The CSS2 pseudo-elements may be written with a single colon.
func isLegacyPseudoElement(name string) bool {
	switch name {
	case "before", "after", "first-line", "first-letter":
		return true
	}
	return false
}
