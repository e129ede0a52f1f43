/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package transform

import (
	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/token"
)

// minifySelectorsPass normalizes selectors: type selector names are
// lowercased (element names match case-insensitively in HTML) and a
// universal selector directly followed by a subclass selector is elided,
// since *.x and .x match identically. Attribute quote removal is a
// serialization concern and lives in the printer.
type minifySelectorsPass struct{}

func (minifySelectorsPass) Name() string { return "minify-selectors" }

func (minifySelectorsPass) Run(sheet *ast.StyleSheet, ctx *Context) {
	ast.WalkRules(sheet.Rules, func(r ast.Rule) {
		sr, ok := r.(*ast.StyleRule)
		if !ok {
			return
		}
		for i, sel := range sr.Selectors {
			sr.Selectors[i] = minifySelector(sel)
		}
	})
}

func minifySelector(sel ast.ComplexSelector) ast.ComplexSelector {
	var out ast.ComplexSelector
	for i, comp := range sel {
		switch c := comp.(type) {
		case ast.TypeSelector:
			out = append(out, ast.TypeSelector{Name: token.ASCIILower(c.Name)})
			continue
		case ast.UniversalSelector:
			if i+1 < len(sel) && isSubclass(sel[i+1]) {
				continue
			}
		case ast.PseudoClassSelector:
			if len(c.Selectors) > 0 {
				inner := make(ast.SelectorList, len(c.Selectors))
				for j, s := range c.Selectors {
					inner[j] = minifySelector(s)
				}
				out = append(out, ast.PseudoClassSelector{
					Name: c.Name, Selectors: inner, HasArgs: c.HasArgs})
				continue
			}
		}
		out = append(out, comp)
	}
	return out
}

// isSubclass reports whether the component narrows a compound on its
// own, making a preceding '*' redundant.
func isSubclass(comp ast.SelComponent) bool {
	switch comp.(type) {
	case ast.ClassSelector, ast.IDSelector, ast.AttributeSelector,
		ast.PseudoClassSelector:
		return true
	}
	return false
}
