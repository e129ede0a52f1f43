/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package transform

import (
	"fmt"
	"hash/fnv"

	"github.com/npillmayer/csskit/ast"
)

// modulesPass scopes class names, id names and keyframes names to the
// module: every name becomes "name_<hash>", with the hash derived from
// the module name so the same source always scopes identically. The
// original-to-scoped mapping is published in ctx.Exports. Animation
// references follow their keyframes rule.
type modulesPass struct {
	moduleName string
}

func (modulesPass) Name() string { return "cssmodules" }

func (p modulesPass) Run(sheet *ast.StyleSheet, ctx *Context) {
	suffix := moduleHash(p.moduleName)
	scope := func(name string) string {
		scoped := name + "_" + suffix
		ctx.Exports[name] = scoped
		return scoped
	}

	// keyframes names first, so animation references can follow
	scopedAnimations := map[string]string{}
	ast.WalkRules(sheet.Rules, func(r ast.Rule) {
		if kf, ok := r.(*ast.KeyframesRule); ok {
			scoped := scope(kf.Name)
			scopedAnimations[kf.Name] = scoped
			kf.Name = scoped
		}
	})

	ast.WalkRules(sheet.Rules, func(r ast.Rule) {
		switch r := r.(type) {
		case *ast.StyleRule:
			for i, sel := range r.Selectors {
				r.Selectors[i] = scopeSelector(sel, scope)
			}
		case *ast.Declaration:
			if r.Property == "animation" || r.Property == "animation-name" {
				r.Value = ast.RewriteValue(r.Value, func(v ast.Value) ast.Value {
					if id, ok := v.(ast.Ident); ok {
						if scoped, ref := scopedAnimations[id.Name]; ref {
							return ast.Ident{Name: scoped}
						}
					}
					return v
				})
			}
		}
	})
	tracer().Debugf("scoped %d names", len(ctx.Exports))
}

func scopeSelector(sel ast.ComplexSelector, scope func(string) string) ast.ComplexSelector {
	out := make(ast.ComplexSelector, len(sel))
	for i, comp := range sel {
		switch c := comp.(type) {
		case ast.ClassSelector:
			out[i] = ast.ClassSelector{Name: scope(c.Name)}
		case ast.IDSelector:
			out[i] = ast.IDSelector{Name: scope(c.Name)}
		case ast.PseudoClassSelector:
			if len(c.Selectors) > 0 {
				inner := make(ast.SelectorList, len(c.Selectors))
				for j, s := range c.Selectors {
					inner[j] = scopeSelector(s, scope)
				}
				out[i] = ast.PseudoClassSelector{
					Name: c.Name, Selectors: inner, HasArgs: c.HasArgs}
				continue
			}
			out[i] = comp
		default:
			out[i] = comp
		}
	}
	return out
}

// moduleHash derives the scoping suffix from the module name.
func moduleHash(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("%08x", h.Sum32())
}
