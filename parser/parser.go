/*
Package parser builds the stylesheet AST from the token stream: style
rules, at-rules (table-driven by at-keyword) and declarations. Errors
local to one rule, declaration or selector discard only that construct
and are reported as diagnostics; the rest of the document compiles.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/diag"
	"github.com/npillmayer/csskit/scanner"
	"github.com/npillmayer/csskit/selector"
	"github.com/npillmayer/csskit/token"
	"github.com/npillmayer/csskit/value"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.parser'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.parser")
}

// ErrFatalParse is returned when error recovery is disabled and the
// input contains an error the parser would otherwise have recovered
// from.
var ErrFatalParse = errors.New("unrecoverable parse error")

// Options configure a parse run.
type Options struct {
	// Nesting enables parsing of nested style rules (a draft feature).
	Nesting bool
	// CustomMedia enables the @custom-media at-rule.
	CustomMedia bool
	// MaxDepth bounds grammar recursion; 0 selects the default.
	MaxDepth int
	// ErrorRecovery keeps compiling past recoverable errors. When
	// false, the first error-severity diagnostic aborts the parse.
	ErrorRecovery bool
}

// Parser consumes tokens and produces the AST. It holds a small
// pushback buffer over the lazy scanner — never a full token list.
type Parser struct {
	sc    *scanner.Scanner
	opts  Options
	buf   []token.Token // pushback stack, bounded by lookahead needs
	diags []diag.Diagnostic
}

// Parse parses one stylesheet. The returned diagnostics include the
// scanner's tokenization errors.
func Parse(src string, opts Options) (*ast.StyleSheet, []diag.Diagnostic, error) {
	p := &Parser{sc: scanner.New(src), opts: opts}
	rules, err := p.parseRuleList(true)
	if err != nil {
		return nil, p.allDiags(), err
	}
	if opts.CustomMedia {
		rules = p.resolveCustomMedia(rules)
	}
	sheet := &ast.StyleSheet{Rules: rules}
	tracer().Debugf("parsed %d top-level rules", len(rules))
	return sheet, p.allDiags(), nil
}

func (p *Parser) allDiags() []diag.Diagnostic {
	out := append([]diag.Diagnostic{}, p.sc.Diagnostics()...)
	return append(out, p.diags...)
}

func (p *Parser) report(d diag.Diagnostic) error {
	p.diags = append(p.diags, d)
	tracer().Debugf("parser: %v", d)
	if !p.opts.ErrorRecovery && d.Severity == diag.Error {
		return ErrFatalParse
	}
	return nil
}

// --- Token cursor -------------------------------------------------------

func (p *Parser) next() token.Token {
	if n := len(p.buf); n > 0 {
		t := p.buf[n-1]
		p.buf = p.buf[:n-1]
		return t
	}
	return p.sc.Next()
}

func (p *Parser) unread(t token.Token) {
	p.buf = append(p.buf, t)
}

func (p *Parser) peek() token.Token {
	t := p.next()
	p.unread(t)
	return t
}

func (p *Parser) skipWS() {
	for {
		t := p.next()
		if t.Type != token.Whitespace {
			p.unread(t)
			return
		}
	}
}

// --- Rule lists -----------------------------------------------------------

// parseRuleList consumes rules until EOF (top level) or the closing
// brace of the enclosing block. Per the CSS syntax rules, EOF closes all
// open blocks.
func (p *Parser) parseRuleList(topLevel bool) ([]ast.Rule, error) {
	var rules []ast.Rule
	for {
		p.skipWS()
		t := p.next()
		switch t.Type {
		case token.EOF:
			return rules, nil
		case token.RBrace:
			if topLevel {
				if err := p.report(diag.Errorf(diag.InvalidSelector, t.Span, "unexpected '}'")); err != nil {
					return nil, err
				}
				continue
			}
			return rules, nil
		case token.CDO, token.CDC:
			continue // HTML comment guards are legal at top level
		case token.AtKeyword:
			r, err := p.parseAtRule(t)
			if err != nil {
				return nil, err
			}
			if r != nil {
				rules = append(rules, r)
			}
		default:
			p.unread(t)
			r, err := p.parseStyleRule()
			if err != nil {
				return nil, err
			}
			if r != nil {
				rules = append(rules, r)
			}
		}
	}
}

// collectRun gathers tokens up to a level-0 '{', ';', '}' or EOF. The
// terminating token is not consumed.
func (p *Parser) collectRun() []token.Token {
	var toks []token.Token
	level := 0
	for {
		t := p.next()
		switch t.Type {
		case token.EOF:
			p.unread(t)
			return toks
		case token.LBrace, token.Semicolon, token.RBrace:
			if level == 0 {
				p.unread(t)
				return toks
			}
			if t.Type == token.RBrace {
				level--
			} else if t.Type == token.LBrace {
				level++
			}
		case token.LParen, token.LBracket, token.Function:
			level++
		case token.RParen, token.RBracket:
			if level > 0 {
				level--
			}
		}
		toks = append(toks, t)
	}
}

// skipBlock consumes a brace-balanced block including its opening brace.
func (p *Parser) skipBlock() {
	level := 0
	for {
		t := p.next()
		switch t.Type {
		case token.EOF:
			return
		case token.LBrace:
			level++
		case token.RBrace:
			level--
			if level <= 0 {
				return
			}
		}
	}
}

// --- Style rules -----------------------------------------------------------

func (p *Parser) parseStyleRule() (ast.Rule, error) {
	prelude := p.collectRun()
	t := p.next()
	if t.Type != token.LBrace {
		span := selector.Span(prelude)
		if t.Type != token.Semicolon {
			p.unread(t)
		}
		if err := p.report(diag.Errorf(diag.InvalidSelector, span,
			"expected '{' after selector")); err != nil {
			return nil, err
		}
		return nil, nil
	}
	sels, err := selector.ParseList(prelude, p.opts.MaxDepth)
	if err != nil {
		span := selector.Span(prelude)
		kind := diag.InvalidSelector
		if err == selector.ErrDepthExceeded {
			kind = diag.GrammarDepthExceeded
		}
		if rerr := p.report(diag.Errorf(kind, span, "%v", err)); rerr != nil {
			return nil, rerr
		}
		p.unread(t)
		p.skipBlock()
		return nil, nil
	}
	body, err := p.parseDeclarationBlock()
	if err != nil {
		return nil, err
	}
	return &ast.StyleRule{Selectors: sels, Body: body, Loc: selector.Span(prelude)}, nil
}

// parseDeclarationBlock consumes a '{…}' body of declarations and —
// when nesting is enabled — nested style rules and conditional at-rules.
// The opening brace has been consumed; the closing brace is.
func (p *Parser) parseDeclarationBlock() ([]ast.Rule, error) {
	var body []ast.Rule
	for {
		p.skipWS()
		t := p.next()
		switch t.Type {
		case token.EOF, token.RBrace:
			return body, nil
		case token.Semicolon:
			continue
		case token.AtKeyword:
			r, err := p.parseAtRule(t)
			if err != nil {
				return nil, err
			}
			if r != nil {
				body = append(body, r)
			}
		default:
			diagsBefore := len(p.sc.Diagnostics())
			run := p.collectRun()
			run = append([]token.Token{t}, run...)
			term := p.peek()
			if term.Type == token.LBrace {
				// a nested rule, e.g. "&:hover { … }" or "a b { … }"
				r, err := p.parseNestedRule(run)
				if err != nil {
					return nil, err
				}
				if r != nil {
					body = append(body, r)
				}
				continue
			}
			if term.Type == token.Semicolon {
				p.next()
			}
			d, err := p.parseDeclarationRun(run, diagsBefore)
			if err != nil {
				return nil, err
			}
			if d != nil {
				body = append(body, d)
			}
		}
	}
}

func (p *Parser) parseNestedRule(prelude []token.Token) (ast.Rule, error) {
	if !p.opts.Nesting {
		if err := p.report(diag.Errorf(diag.InvalidDeclarationValue, selector.Span(prelude),
			"nested rules require the nesting draft")); err != nil {
			return nil, err
		}
		p.skipBlock()
		return nil, nil
	}
	p.next() // '{'
	sels, err := selector.ParseList(prelude, p.opts.MaxDepth)
	if err != nil {
		if rerr := p.report(diag.Errorf(diag.InvalidSelector, selector.Span(prelude),
			"%v", err)); rerr != nil {
			return nil, rerr
		}
		p.unread(token.Token{Type: token.LBrace})
		p.skipBlock()
		return nil, nil
	}
	body, err := p.parseDeclarationBlock()
	if err != nil {
		return nil, err
	}
	return &ast.StyleRule{Selectors: sels, Body: body, Loc: selector.Span(prelude)}, nil
}

// parseDeclarationRun parses "property : value !important?" from a
// collected token run. A declaration whose value triggered a
// tokenization error or that fails its grammar is discarded with a
// diagnostic; (nil, nil) is returned in that case.
func (p *Parser) parseDeclarationRun(run []token.Token, diagsBefore int) (*ast.Declaration, error) {
	span := selector.Span(run)
	prop := run[0]
	if prop.Type != token.Ident {
		return nil, p.report(diag.Errorf(diag.InvalidDeclarationValue, span,
			"expected declaration"))
	}
	rest := run[1:]
	for len(rest) > 0 && rest[0].Type == token.Whitespace {
		rest = rest[1:]
	}
	if len(rest) == 0 || rest[0].Type != token.Colon {
		return nil, p.report(diag.Errorf(diag.InvalidDeclarationValue, span,
			"expected ':' in declaration"))
	}
	toks := rest[1:]
	if len(p.sc.Diagnostics()) > diagsBefore {
		// the value contained a malformed literal; the scanner already
		// recorded the diagnostic — drop just this declaration
		return nil, nil
	}
	toks, important := splitImportant(toks)
	toks = trimRaw(toks)
	if hasBadToken(toks) || len(toks) == 0 {
		return nil, p.report(diag.Errorf(diag.InvalidDeclarationValue, span,
			"malformed value for %q", prop.Value))
	}
	custom := strings.HasPrefix(prop.Value, "--")
	name := prop.Value
	if !custom {
		name = token.ASCIILower(name)
	}
	d := &ast.Declaration{Property: name, Important: important, Custom: custom, Loc: span}
	if custom || !value.IsKnownProperty(name) {
		d.Value = ast.RawValue{Tokens: toks}
		return d, nil
	}
	v, err := value.ParseDeclaration(name, toks, p.opts.MaxDepth)
	if err != nil {
		kind := diag.InvalidDeclarationValue
		if err == value.ErrDepthExceeded {
			kind = diag.GrammarDepthExceeded
		}
		return nil, p.report(diag.Errorf(kind, span, "%s: %v", name, err))
	}
	d.Value = v
	return d, nil
}

// splitImportant strips a trailing "! important" from the token run.
func splitImportant(toks []token.Token) ([]token.Token, bool) {
	i := len(toks) - 1
	for i >= 0 && toks[i].Type == token.Whitespace {
		i--
	}
	if i < 1 || !toks[i].Is("important") {
		return toks, false
	}
	j := i - 1
	for j >= 0 && toks[j].Type == token.Whitespace {
		j--
	}
	if j < 0 || !toks[j].IsDelim('!') {
		return toks, false
	}
	return toks[:j], true
}

func hasBadToken(toks []token.Token) bool {
	for _, t := range toks {
		if t.Type == token.BadString || t.Type == token.BadURL {
			return true
		}
	}
	return false
}

func trimRaw(toks []token.Token) []token.Token {
	for len(toks) > 0 && toks[0].Type == token.Whitespace {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].Type == token.Whitespace {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func parseKeyframeSelector(t token.Token) (string, bool) {
	switch {
	case t.Type == token.Percentage:
		return strconv.FormatFloat(t.Num, 'f', -1, 64) + "%", true
	case t.Is("from"):
		return "from", true
	case t.Is("to"):
		return "to", true
	}
	return "", false
}
