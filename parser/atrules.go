/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package parser

import (
	"strings"

	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/diag"
	"github.com/npillmayer/csskit/selector"
	"github.com/npillmayer/csskit/token"
	"github.com/npillmayer/csskit/value"
)

// atRulePolicies drives the generic at-rule path: rules the engine knows
// the block shape of, but does not model beyond prelude + body.
var atRulePolicies = map[string]ast.BlockPolicy{
	"charset":       ast.NoBlock,
	"namespace":     ast.NoBlock,
	"supports":      ast.RuleListBlock,
	"font-face":     ast.DeclarationBlock,
	"page":          ast.DeclarationBlock,
	"property":      ast.DeclarationBlock,
	"counter-style": ast.DeclarationBlock,
}

// vendorPrefixes of at-keywords, longest first is not needed since none
// is a prefix of another.
var vendorPrefixes = []string{"-webkit-", "-moz-", "-o-", "-ms-"}

func (p *Parser) parseAtRule(at token.Token) (ast.Rule, error) {
	name := token.ASCIILower(at.Value)
	if kfPrefix, ok := keyframesName(name); ok {
		return p.parseKeyframesRule(at, kfPrefix)
	}
	switch name {
	case "media":
		return p.parseMediaRule(at)
	case "import":
		return p.parseImportRule(at)
	case "layer":
		return p.parseLayerRule(at)
	case "custom-media":
		if !p.opts.CustomMedia {
			return p.parseUnknownAtRule(at)
		}
		prelude := p.collectRun()
		p.eatTerminator()
		return &ast.KnownAtRule{Name: name, Prelude: trimRaw(prelude),
			Policy: ast.NoBlock, Loc: at.Span}, nil
	}
	policy, ok := atRulePolicies[name]
	if !ok {
		return p.parseUnknownAtRule(at)
	}
	prelude := trimRaw(p.collectRun())
	if name == "charset" {
		if len(prelude) == 0 || prelude[0].Type != token.String ||
			!token.EqualFold(prelude[0].Value, "utf-8") {
			p.diags = append(p.diags, diag.Warnf(diag.UnknownAtRuleViolation, at.Span,
				"only the utf-8 charset is supported"))
		}
	}
	rule := &ast.KnownAtRule{Name: name, Prelude: prelude, Policy: policy, Loc: at.Span}
	t := p.next()
	switch {
	case policy == ast.NoBlock:
		if t.Type != token.Semicolon {
			p.unread(t)
		}
	case t.Type == token.LBrace:
		var err error
		if policy == ast.RuleListBlock {
			rule.Body, err = p.parseRuleList(false)
		} else {
			rule.Body, err = p.parseDeclarationBlock()
		}
		if err != nil {
			return nil, err
		}
	default:
		p.unread(t)
		return nil, p.report(diag.Errorf(diag.UnknownAtRuleViolation, at.Span,
			"@%s requires a block", name))
	}
	return rule, nil
}

// keyframesName recognizes @keyframes and its vendor-prefixed forms,
// returning the prefix (possibly empty).
func keyframesName(name string) (string, bool) {
	if name == "keyframes" {
		return "", true
	}
	for _, pre := range vendorPrefixes {
		if strings.HasPrefix(name, pre) && name[len(pre):] == "keyframes" {
			return pre, true
		}
	}
	return "", false
}

// eatTerminator consumes a trailing ';' if present.
func (p *Parser) eatTerminator() {
	t := p.next()
	if t.Type != token.Semicolon {
		p.unread(t)
	}
}

// --- @media -----------------------------------------------------------------

func (p *Parser) parseMediaRule(at token.Token) (ast.Rule, error) {
	prelude := trimRaw(p.collectRun())
	t := p.next()
	if t.Type != token.LBrace {
		p.unread(t)
		return nil, p.report(diag.Errorf(diag.UnknownAtRuleViolation, at.Span,
			"@media requires a block"))
	}
	queries := parseMediaQueries(prelude, p.opts.MaxDepth)
	body, err := p.parseRuleList(false)
	if err != nil {
		return nil, err
	}
	return &ast.MediaRule{Queries: queries, Body: body, Loc: at.Span}, nil
}

// parseMediaQueries splits the prelude on top-level commas and parses
// each query. A query the grammar does not cover keeps its raw tokens,
// so it still prints verbatim.
func parseMediaQueries(toks []token.Token, maxDepth int) []*ast.MediaQuery {
	var queries []*ast.MediaQuery
	for _, qtoks := range splitTopLevel(toks) {
		q, ok := parseMediaQuery(qtoks, maxDepth)
		if !ok {
			q = &ast.MediaQuery{Raw: qtoks}
		}
		queries = append(queries, q)
	}
	return queries
}

func splitTopLevel(toks []token.Token) [][]token.Token {
	var groups [][]token.Token
	var cur []token.Token
	level := 0
	for _, t := range toks {
		switch t.Type {
		case token.LParen, token.LBracket, token.Function:
			level++
		case token.RParen, token.RBracket:
			level--
		case token.Comma:
			if level == 0 {
				groups = append(groups, trimRaw(cur))
				cur = nil
				continue
			}
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		groups = append(groups, trimRaw(cur))
	}
	return groups
}

func parseMediaQuery(toks []token.Token, maxDepth int) (*ast.MediaQuery, bool) {
	q := &ast.MediaQuery{}
	i := 0
	skip := func() {
		for i < len(toks) && toks[i].Type == token.Whitespace {
			i++
		}
	}
	skip()
	if i < len(toks) && toks[i].Type == token.Ident {
		low := token.ASCIILower(toks[i].Value)
		if low == "not" || low == "only" {
			q.Modifier = low
			i++
			skip()
		}
	}
	if i < len(toks) && toks[i].Type == token.Ident {
		q.MediaType = token.ASCIILower(toks[i].Value)
		i++
		skip()
	}
	for i < len(toks) {
		if toks[i].Is("and") {
			i++
			skip()
		} else if len(q.Features) > 0 || q.MediaType != "" {
			return nil, false // features must be joined by 'and'
		}
		if i >= len(toks) || toks[i].Type != token.LParen {
			return nil, false
		}
		depth := 1
		j := i + 1
		for j < len(toks) && depth > 0 {
			switch toks[j].Type {
			case token.LParen, token.Function:
				depth++
			case token.RParen:
				depth--
			}
			j++
		}
		if depth != 0 {
			return nil, false
		}
		feat, ok := parseMediaFeature(trimRaw(toks[i+1:j-1]), maxDepth)
		if !ok {
			return nil, false
		}
		q.Features = append(q.Features, feat)
		i = j
		skip()
	}
	if q.MediaType == "" && len(q.Features) == 0 {
		return nil, false
	}
	return q, true
}

// parseMediaFeature parses the inside of a media feature's parentheses:
// plain "name: value", boolean "name", or range "name <= value".
func parseMediaFeature(toks []token.Token, maxDepth int) (*ast.MediaFeature, bool) {
	if len(toks) == 0 || toks[0].Type != token.Ident {
		return nil, false
	}
	name := token.ASCIILower(toks[0].Value)
	rest := trimRaw(toks[1:])
	if len(rest) == 0 {
		return &ast.MediaFeature{Kind: ast.MFBoolean, Name: name}, true
	}
	if rest[0].Type == token.Colon {
		v, err := value.Parse(trimRaw(rest[1:]), maxDepth)
		if err != nil {
			return nil, false
		}
		return &ast.MediaFeature{Kind: ast.MFPlain, Name: name, Value: v}, true
	}
	op, n := rangeOp(rest)
	if n == 0 {
		return nil, false
	}
	v, err := value.Parse(trimRaw(rest[n:]), maxDepth)
	if err != nil {
		return nil, false
	}
	return &ast.MediaFeature{Kind: ast.MFRange, Name: name, Op: op, Value: v}, true
}

// rangeOp recognizes <, <=, >, >= and = at the start of a token run,
// returning the operator and the number of tokens it spans.
func rangeOp(toks []token.Token) (string, int) {
	if len(toks) == 0 || toks[0].Type != token.Delim {
		return "", 0
	}
	switch toks[0].Lexeme {
	case "<", ">":
		if len(toks) > 1 && toks[1].IsDelim('=') {
			return toks[0].Lexeme + "=", 2
		}
		return toks[0].Lexeme, 1
	case "=":
		return "=", 1
	}
	return "", 0
}

// --- @import ----------------------------------------------------------------

func (p *Parser) parseImportRule(at token.Token) (ast.Rule, error) {
	prelude := trimRaw(p.collectRun())
	p.eatTerminator()
	if len(prelude) == 0 {
		return nil, p.report(diag.Errorf(diag.ImportResolutionFailure, at.Span,
			"@import without a target"))
	}
	var url string
	switch prelude[0].Type {
	case token.String, token.URL:
		url = prelude[0].Value
	case token.Function:
		// url("…") — quoted urls tokenize as a function
		if !prelude[0].Is("url") || len(prelude) < 3 || prelude[1].Type != token.String {
			return nil, p.report(diag.Errorf(diag.ImportResolutionFailure, at.Span,
				"@import target must be a string or url()"))
		}
		url = prelude[1].Value
		rparen := 2
		for rparen < len(prelude) && prelude[rparen].Type != token.RParen {
			rparen++
		}
		return &ast.ImportRule{URL: url, Media: trimRaw(prelude[rparen+1:]), Loc: at.Span}, nil
	default:
		return nil, p.report(diag.Errorf(diag.ImportResolutionFailure, at.Span,
			"@import target must be a string or url()"))
	}
	return &ast.ImportRule{URL: url, Media: trimRaw(prelude[1:]), Loc: at.Span}, nil
}

// --- @keyframes -------------------------------------------------------------

func (p *Parser) parseKeyframesRule(at token.Token, prefix string) (ast.Rule, error) {
	p.skipWS()
	nameTok := p.next()
	if nameTok.Type != token.Ident && nameTok.Type != token.String {
		p.unread(nameTok)
		if err := p.report(diag.Errorf(diag.UnknownAtRuleViolation, at.Span,
			"@keyframes requires a name")); err != nil {
			return nil, err
		}
		p.skipBlock()
		return nil, nil
	}
	p.skipWS()
	t := p.next()
	if t.Type != token.LBrace {
		p.unread(t)
		return nil, p.report(diag.Errorf(diag.UnknownAtRuleViolation, at.Span,
			"@keyframes requires a block"))
	}
	rule := &ast.KeyframesRule{VendorPrefix: prefix, Name: nameTok.Value, Loc: at.Span}
	for {
		p.skipWS()
		t = p.next()
		if t.Type == token.RBrace || t.Type == token.EOF {
			return rule, nil
		}
		p.unread(t)
		block, err := p.parseKeyframeBlock()
		if err != nil {
			return nil, err
		}
		if block != nil {
			rule.Blocks = append(rule.Blocks, block)
		}
	}
}

func (p *Parser) parseKeyframeBlock() (*ast.KeyframeBlock, error) {
	prelude := trimRaw(p.collectRun())
	t := p.next()
	if t.Type != token.LBrace {
		p.unread(t)
		if err := p.report(diag.Errorf(diag.InvalidSelector, selector.Span(prelude),
			"expected keyframe selector block")); err != nil {
			return nil, err
		}
		p.eatTerminator()
		return nil, nil
	}
	block := &ast.KeyframeBlock{Loc: selector.Span(prelude)}
	for _, group := range splitTopLevel(prelude) {
		group = trimRaw(group)
		if len(group) != 1 {
			block.Selectors = nil
			break
		}
		sel, ok := parseKeyframeSelector(group[0])
		if !ok {
			block.Selectors = nil
			break
		}
		block.Selectors = append(block.Selectors, sel)
	}
	if len(block.Selectors) == 0 {
		if err := p.report(diag.Errorf(diag.InvalidSelector, selector.Span(prelude),
			"keyframe selectors must be percentages, 'from' or 'to'")); err != nil {
			return nil, err
		}
		p.unread(t)
		p.skipBlock()
		return nil, nil
	}
	body, err := p.parseDeclarationBlock()
	if err != nil {
		return nil, err
	}
	block.Body = body
	return block, nil
}

// --- @layer -----------------------------------------------------------------

// parseLayerRule handles both forms of @layer: the statement form
// "@layer a, b;" and the block form "@layer name { … }".
func (p *Parser) parseLayerRule(at token.Token) (ast.Rule, error) {
	prelude := trimRaw(p.collectRun())
	t := p.next()
	rule := &ast.KnownAtRule{Name: "layer", Prelude: prelude, Loc: at.Span}
	if t.Type == token.LBrace {
		rule.Policy = ast.RuleListBlock
		body, err := p.parseRuleList(false)
		if err != nil {
			return nil, err
		}
		rule.Body = body
		return rule, nil
	}
	if t.Type != token.Semicolon {
		p.unread(t)
	}
	rule.Policy = ast.NoBlock
	return rule, nil
}

// --- Unknown at-rules ---------------------------------------------------------

// parseUnknownAtRule captures an at-rule the engine does not model as
// the verbatim slice of source text, so the printer reproduces it byte
// for byte.
func (p *Parser) parseUnknownAtRule(at token.Token) (ast.Rule, error) {
	end := at.Span.End
	level := 0
	for {
		t := p.next()
		switch t.Type {
		case token.EOF:
			return &ast.UnknownAtRule{Name: token.ASCIILower(at.Value),
				Raw: p.sc.Source()[at.Span.Start:end], Loc: at.Span}, nil
		case token.Semicolon:
			if level == 0 {
				end = t.Span.End
				return &ast.UnknownAtRule{Name: token.ASCIILower(at.Value),
					Raw: p.sc.Source()[at.Span.Start:end], Loc: at.Span}, nil
			}
		case token.LBrace:
			level++
		case token.RBrace:
			if level == 0 {
				// the brace closes an enclosing block, not ours
				p.unread(t)
				return &ast.UnknownAtRule{Name: token.ASCIILower(at.Value),
					Raw: p.sc.Source()[at.Span.Start:end], Loc: at.Span}, nil
			}
			level--
			if level == 0 {
				end = t.Span.End
				return &ast.UnknownAtRule{Name: token.ASCIILower(at.Value),
					Raw: p.sc.Source()[at.Span.Start:end], Loc: at.Span}, nil
			}
		}
		end = t.Span.End
	}
}
