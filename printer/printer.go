/*
Package printer serializes the AST back to CSS text. Output is a pure
function of the AST and the options: printing the same tree twice yields
identical bytes. Two modes are supported, a pretty layout and a minimal
one with all inter-token whitespace elided.

The printer records a source mapping entry at the start of every rule
and declaration that carries a source span.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package printer

import (
	"strings"

	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/token"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.printer'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.printer")
}

// Options configure serialization.
type Options struct {
	// Minify elides all optional whitespace and the final semicolon of
	// each block.
	Minify bool
	// Indent is the per-level indentation in pretty mode; empty selects
	// two spaces.
	Indent string
}

// Mapping links an offset in the generated text to an offset in the
// source text. Entries are emitted in generated order.
type Mapping struct {
	Generated int
	Source    int
}

// Print serializes a stylesheet.
func Print(sheet *ast.StyleSheet, opts Options) (string, []Mapping) {
	p := &printer{opts: opts}
	if p.opts.Indent == "" {
		p.opts.Indent = "  "
	}
	p.rules(sheet.Rules, 0)
	tracer().Debugf("printed %d bytes", p.buf.Len())
	return p.buf.String(), p.mappings
}

type printer struct {
	buf      strings.Builder
	opts     Options
	mappings []Mapping
}

func (p *printer) record(srcOffset int) {
	if srcOffset > 0 || len(p.mappings) == 0 {
		p.mappings = append(p.mappings, Mapping{Generated: p.buf.Len(), Source: srcOffset})
	}
}

func (p *printer) indent(depth int) {
	if p.opts.Minify {
		return
	}
	for i := 0; i < depth; i++ {
		p.buf.WriteString(p.opts.Indent)
	}
}

func (p *printer) newline() {
	if !p.opts.Minify {
		p.buf.WriteByte('\n')
	}
}

func (p *printer) rules(rules []ast.Rule, depth int) {
	for _, r := range rules {
		p.rule(r, depth)
	}
}

func (p *printer) rule(r ast.Rule, depth int) {
	switch r := r.(type) {
	case *ast.StyleRule:
		p.indent(depth)
		p.record(r.Loc.Start)
		p.buf.WriteString(Selectors(r.Selectors, p.opts.Minify))
		p.openBlock()
		p.body(r.Body, depth+1)
		p.closeBlock(depth)
	case *ast.Declaration:
		p.declaration(r, depth)
	case *ast.MediaRule:
		p.indent(depth)
		p.record(r.Loc.Start)
		p.buf.WriteString("@media")
		p.buf.WriteByte(' ')
		for i, q := range r.Queries {
			if i > 0 {
				p.comma()
			}
			p.buf.WriteString(MediaQuery(q, p.opts.Minify))
		}
		p.openBlock()
		p.rules(r.Body, depth+1)
		p.closeBlock(depth)
	case *ast.ImportRule:
		p.indent(depth)
		p.record(r.Loc.Start)
		p.buf.WriteString("@import ")
		p.buf.WriteString(QuoteString(r.URL))
		if len(r.Media) > 0 {
			p.buf.WriteByte(' ')
			p.buf.WriteString(Tokens(r.Media))
		}
		p.buf.WriteByte(';')
		p.newline()
	case *ast.KeyframesRule:
		p.indent(depth)
		p.record(r.Loc.Start)
		p.buf.WriteByte('@')
		p.buf.WriteString(r.VendorPrefix)
		p.buf.WriteString("keyframes ")
		p.buf.WriteString(EscapeIdent(r.Name))
		p.openBlock()
		for _, block := range r.Blocks {
			p.indent(depth + 1)
			p.record(block.Loc.Start)
			for i, sel := range block.Selectors {
				if i > 0 {
					p.comma()
				}
				p.buf.WriteString(sel)
			}
			p.openBlock()
			p.body(block.Body, depth+2)
			p.closeBlock(depth + 1)
		}
		p.closeBlock(depth)
	case *ast.KnownAtRule:
		p.indent(depth)
		p.record(r.Loc.Start)
		p.buf.WriteByte('@')
		p.buf.WriteString(r.Name)
		if len(r.Prelude) > 0 {
			p.buf.WriteByte(' ')
			p.buf.WriteString(Tokens(r.Prelude))
		}
		switch r.Policy {
		case ast.NoBlock:
			p.buf.WriteByte(';')
			p.newline()
		case ast.RuleListBlock:
			p.openBlock()
			p.rules(r.Body, depth+1)
			p.closeBlock(depth)
		case ast.DeclarationBlock:
			p.openBlock()
			p.body(r.Body, depth+1)
			p.closeBlock(depth)
		}
	case *ast.UnknownAtRule:
		p.indent(depth)
		p.record(r.Loc.Start)
		p.buf.WriteString(r.Raw)
		p.newline()
	}
}

// body prints a declaration block's contents: declarations and, with
// nesting, embedded rules.
func (p *printer) body(body []ast.Rule, depth int) {
	for i, r := range body {
		if d, ok := r.(*ast.Declaration); ok {
			p.declaration(d, depth)
			if p.opts.Minify && i < len(body)-1 {
				p.buf.WriteByte(';')
			}
			continue
		}
		p.rule(r, depth)
	}
}

func (p *printer) declaration(d *ast.Declaration, depth int) {
	p.indent(depth)
	p.record(d.Loc.Start)
	p.buf.WriteString(d.Property)
	p.buf.WriteByte(':')
	if !p.opts.Minify {
		p.buf.WriteByte(' ')
	}
	p.buf.WriteString(Value(d.Value, p.opts.Minify))
	if d.Important {
		if !p.opts.Minify {
			p.buf.WriteByte(' ')
		}
		p.buf.WriteString("!important")
	}
	if !p.opts.Minify {
		p.buf.WriteByte(';')
		p.newline()
	}
}

func (p *printer) openBlock() {
	if p.opts.Minify {
		p.buf.WriteByte('{')
		return
	}
	p.buf.WriteString(" {\n")
}

func (p *printer) closeBlock(depth int) {
	if p.opts.Minify {
		p.buf.WriteByte('}')
		return
	}
	p.indent(depth)
	p.buf.WriteString("}\n")
}

func (p *printer) comma() {
	p.buf.WriteByte(',')
	if !p.opts.Minify {
		p.buf.WriteByte(' ')
	}
}

// MediaQuery serializes one media query.
func MediaQuery(q *ast.MediaQuery, minify bool) string {
	if len(q.Raw) > 0 {
		return Tokens(q.Raw)
	}
	var sb strings.Builder
	needAnd := false
	if q.Modifier != "" {
		sb.WriteString(q.Modifier)
		sb.WriteByte(' ')
	}
	if q.MediaType != "" {
		sb.WriteString(q.MediaType)
		needAnd = true
	}
	for _, f := range q.Features {
		if needAnd {
			sb.WriteString(" and ")
		}
		needAnd = true
		sb.WriteByte('(')
		sb.WriteString(f.Name)
		switch f.Kind {
		case ast.MFPlain:
			sb.WriteByte(':')
			if !minify {
				sb.WriteByte(' ')
			}
			sb.WriteString(Value(f.Value, minify))
		case ast.MFRange:
			if minify {
				sb.WriteString(f.Op)
			} else {
				sb.WriteByte(' ')
				sb.WriteString(f.Op)
				sb.WriteByte(' ')
			}
			sb.WriteString(Value(f.Value, minify))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// Tokens serializes a raw token run, collapsing whitespace runs to a
// single space.
func Tokens(toks []token.Token) string {
	var sb strings.Builder
	prevWS := false
	for i, t := range toks {
		if t.Type == token.Whitespace {
			prevWS = true
			continue
		}
		if prevWS && i > 0 {
			sb.WriteByte(' ')
		}
		prevWS = false
		sb.WriteString(t.Lexeme)
	}
	return sb.String()
}
