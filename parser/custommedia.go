/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package parser

import (
	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/diag"
	"github.com/npillmayer/csskit/token"
)

// resolveCustomMedia substitutes @custom-media definitions into the
// @media rules of the sheet. Definitions are collected in document order,
// so a definition may reference earlier ones but never itself; the
// definitions are removed from the output. References without a matching
// definition produce a warning and stay unresolved.
func (p *Parser) resolveCustomMedia(rules []ast.Rule) []ast.Rule {
	defs := map[string][]*ast.MediaQuery{}
	var out []ast.Rule
	for _, r := range rules {
		if ar, ok := r.(*ast.KnownAtRule); ok && ar.Name == "custom-media" {
			name, queries, ok := p.customMediaDef(ar)
			if ok {
				substituteCustomQueries(queries, defs, p)
				defs[name] = expandCustomQueries(queries, defs)
			}
			continue
		}
		out = append(out, r)
	}
	if len(defs) == 0 {
		return out
	}
	for _, r := range out {
		p.substituteInRule(r, defs)
	}
	return out
}

// customMediaDef splits a definition prelude into its extension name and
// the media query list it stands for.
func (p *Parser) customMediaDef(ar *ast.KnownAtRule) (string, []*ast.MediaQuery, bool) {
	prelude := trimRaw(ar.Prelude)
	if len(prelude) == 0 || prelude[0].Type != token.Ident ||
		len(prelude[0].Value) < 3 || prelude[0].Value[:2] != "--" {
		p.diags = append(p.diags, diag.Warnf(diag.UnknownAtRuleViolation, ar.Loc,
			"@custom-media requires a --dashed name"))
		return "", nil, false
	}
	name := token.ASCIILower(prelude[0].Value)
	queries := parseMediaQueries(trimRaw(prelude[1:]), p.opts.MaxDepth)
	if len(queries) == 0 {
		p.diags = append(p.diags, diag.Warnf(diag.UnknownAtRuleViolation, ar.Loc,
			"@custom-media %s defines no query", name))
		return "", nil, false
	}
	return name, queries, true
}

func (p *Parser) substituteInRule(r ast.Rule, defs map[string][]*ast.MediaQuery) {
	switch r := r.(type) {
	case *ast.MediaRule:
		substituteCustomQueries(r.Queries, defs, p)
		r.Queries = expandCustomQueries(r.Queries, defs)
		for _, inner := range r.Body {
			p.substituteInRule(inner, defs)
		}
	case *ast.StyleRule:
		for _, inner := range r.Body {
			p.substituteInRule(inner, defs)
		}
	case *ast.KnownAtRule:
		for _, inner := range r.Body {
			p.substituteInRule(inner, defs)
		}
	case *ast.KeyframesRule:
		// keyframe blocks hold no media conditions
	}
}

// expandCustomQueries replaces queries that consist of a single boolean
// extension reference with the referenced query list. A reference that is
// combined with other conditions is handled feature-wise by
// substituteCustomQueries and never reaches this expansion.
func expandCustomQueries(queries []*ast.MediaQuery, defs map[string][]*ast.MediaQuery) []*ast.MediaQuery {
	var out []*ast.MediaQuery
	for _, q := range queries {
		if name, ok := soleExtensionRef(q); ok {
			if def, defined := defs[name]; defined {
				for _, dq := range def {
					out = append(out, cloneQuery(dq))
				}
				continue
			}
		}
		out = append(out, q)
	}
	return out
}

// cloneQuery copies a query deeply enough that later in-place feature
// rewrites (range downleveling) cannot alias across rules.
func cloneQuery(q *ast.MediaQuery) *ast.MediaQuery {
	c := &ast.MediaQuery{Modifier: q.Modifier, MediaType: q.MediaType, Raw: q.Raw}
	for _, f := range q.Features {
		c.Features = append(c.Features, cloneFeature(f))
	}
	return c
}

func cloneFeature(f *ast.MediaFeature) *ast.MediaFeature {
	c := *f
	return &c
}

// substituteCustomQueries inlines extension references that appear among
// other 'and'-joined conditions. Inlining is only possible when the
// definition is itself a single conjunction of features; anything else
// stays in place and warns.
func substituteCustomQueries(queries []*ast.MediaQuery, defs map[string][]*ast.MediaQuery, p *Parser) {
	for _, q := range queries {
		if q.Raw != nil {
			continue
		}
		if _, sole := soleExtensionRef(q); sole {
			continue // expanded wholesale by expandCustomQueries
		}
		var feats []*ast.MediaFeature
		for _, f := range q.Features {
			if !isExtensionName(f.Name) {
				feats = append(feats, f)
				continue
			}
			def, defined := defs[f.Name]
			if !defined || f.Kind != ast.MFBoolean {
				p.diags = append(p.diags, diag.Warnf(diag.UnknownAtRuleViolation, diag.Span{},
					"unresolved media extension (%s)", f.Name))
				feats = append(feats, f)
				continue
			}
			if len(def) != 1 || def[0].Modifier != "" || def[0].MediaType != "" || def[0].Raw != nil {
				p.diags = append(p.diags, diag.Warnf(diag.UnknownAtRuleViolation, diag.Span{},
					"media extension (%s) cannot be combined with other conditions", f.Name))
				feats = append(feats, f)
				continue
			}
			for _, df := range def[0].Features {
				feats = append(feats, cloneFeature(df))
			}
		}
		q.Features = feats
	}
}

// soleExtensionRef reports whether the query is exactly one boolean
// extension reference, like "@media (--narrow)".
func soleExtensionRef(q *ast.MediaQuery) (string, bool) {
	if q.Raw != nil || q.Modifier != "" || q.MediaType != "" || len(q.Features) != 1 {
		return "", false
	}
	f := q.Features[0]
	if f.Kind != ast.MFBoolean || !isExtensionName(f.Name) {
		return "", false
	}
	return f.Name, true
}

func isExtensionName(name string) bool {
	return len(name) > 2 && name[:2] == "--"
}
