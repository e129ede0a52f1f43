/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package transform

import (
	"github.com/npillmayer/csskit/ast"
)

// deadCodePass removes rules that cannot affect rendering: style rules
// with empty bodies, conditional at-rules left without rules, keyframes
// no animation references, and rules whose selectors only use names the
// caller declared unused.
type deadCodePass struct{}

func (deadCodePass) Name() string { return "deadcode" }

func (deadCodePass) Run(sheet *ast.StyleSheet, ctx *Context) {
	animations := referencedAnimations(sheet.Rules)
	sheet.Rules = ast.RewriteRules(sheet.Rules, func(rules []ast.Rule) []ast.Rule {
		var out []ast.Rule
		for _, r := range rules {
			switch r := r.(type) {
			case *ast.StyleRule:
				if len(r.Body) == 0 {
					continue
				}
				if len(ctx.unused) > 0 && allSelectorsUnused(r.Selectors, ctx.unused) {
					tracer().Debugf("dropping rule with unused symbols")
					continue
				}
			case *ast.MediaRule:
				if len(r.Body) == 0 {
					continue
				}
			case *ast.KnownAtRule:
				if r.Policy != ast.NoBlock && len(r.Body) == 0 {
					continue
				}
				// @charset carries no information for a UTF-8 printer
				if ctx.minify && r.Name == "charset" {
					continue
				}
			case *ast.KeyframesRule:
				if (ctx.minify && !animations[r.Name]) || ctx.unused[r.Name] {
					tracer().Debugf("dropping unreferenced @keyframes %q", r.Name)
					continue
				}
			}
			out = append(out, r)
		}
		return out
	})
}

// referencedAnimations collects every identifier used in an animation or
// animation-name value.
func referencedAnimations(rules []ast.Rule) map[string]bool {
	refs := map[string]bool{}
	eachDeclaration(rules, func(d *ast.Declaration) {
		if d.Property != "animation" && d.Property != "animation-name" {
			return
		}
		ast.RewriteValue(d.Value, func(v ast.Value) ast.Value {
			if id, ok := v.(ast.Ident); ok {
				refs[id.Name] = true
			}
			return v
		})
	})
	return refs
}

// allSelectorsUnused reports whether every complex selector in the list
// mentions at least one unused class or id name.
func allSelectorsUnused(list ast.SelectorList, unused map[string]bool) bool {
	for _, sel := range list {
		if !selectorUsesUnused(sel, unused) {
			return false
		}
	}
	return true
}

func selectorUsesUnused(sel ast.ComplexSelector, unused map[string]bool) bool {
	for _, comp := range sel {
		switch c := comp.(type) {
		case ast.ClassSelector:
			if unused[c.Name] {
				return true
			}
		case ast.IDSelector:
			if unused[c.Name] {
				return true
			}
		}
	}
	return false
}
