/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package transform

import (
	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/compat"
	"github.com/npillmayer/csskit/printer"
)

// shorthandGroup is one foldable four-sided property family in
// top/right/bottom/left order.
type shorthandGroup struct {
	shorthand string
	longhands [4]string
	feature   compat.Feature // zero when universally available
}

var shorthandGroups = []shorthandGroup{
	{"margin", [4]string{"margin-top", "margin-right", "margin-bottom", "margin-left"}, ""},
	{"padding", [4]string{"padding-top", "padding-right", "padding-bottom", "padding-left"}, ""},
	{"inset", [4]string{"top", "right", "bottom", "left"}, compat.InsetProperty},
	{"border-width", [4]string{"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"}, ""},
	{"border-style", [4]string{"border-top-style", "border-right-style", "border-bottom-style", "border-left-style"}, ""},
	{"border-color", [4]string{"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"}, ""},
}

// shorthandPass folds complete sets of four-sided longhands into their
// shorthand with the usual 4/3/2/1-value reduction. Folding is skipped
// when a longhand repeats, when importance differs across the set, or
// when the shorthand itself already appears in the block, since any of
// those would change the cascade.
type shorthandPass struct{}

func (shorthandPass) Name() string { return "shorthand-fold" }

func (shorthandPass) Run(sheet *ast.StyleSheet, ctx *Context) {
	sheet.Rules = ast.RewriteRules(sheet.Rules, func(rules []ast.Rule) []ast.Rule {
		for _, g := range shorthandGroups {
			if g.feature != "" && !ctx.supports(g.feature) {
				continue
			}
			rules = foldGroup(rules, g)
		}
		return foldGap(rules)
	})
}

// foldGap folds row-gap + column-gap into gap, under the same guards as
// the four-sided groups.
func foldGap(rules []ast.Rule) []ast.Rule {
	rowPos, colPos := -1, -1
	for i, r := range rules {
		d, ok := r.(*ast.Declaration)
		if !ok {
			continue
		}
		switch d.Property {
		case "gap":
			return rules
		case "row-gap":
			if rowPos >= 0 {
				return rules
			}
			rowPos = i
		case "column-gap":
			if colPos >= 0 {
				return rules
			}
			colPos = i
		}
	}
	if rowPos < 0 || colPos < 0 {
		return rules
	}
	row := rules[rowPos].(*ast.Declaration)
	col := rules[colPos].(*ast.Declaration)
	if row.Important != col.Important || !foldableValue(row.Value) || !foldableValue(col.Value) {
		return rules
	}
	folded := &ast.Declaration{Property: "gap", Important: row.Important, Loc: row.Loc}
	if printer.Value(row.Value, true) == printer.Value(col.Value, true) {
		folded.Value = row.Value
	} else {
		folded.Value = ast.SpaceList{row.Value, col.Value}
	}
	first := rowPos
	if colPos < first {
		first = colPos
	}
	var out []ast.Rule
	for i, r := range rules {
		if i == first {
			out = append(out, folded)
		}
		if i == rowPos || i == colPos {
			continue
		}
		out = append(out, r)
	}
	return out
}

func foldGroup(rules []ast.Rule, g shorthandGroup) []ast.Rule {
	pos := map[string]int{}
	for i, r := range rules {
		d, ok := r.(*ast.Declaration)
		if !ok {
			continue
		}
		if d.Property == g.shorthand {
			return rules // shorthand present, leave the block alone
		}
		for _, lh := range g.longhands {
			if d.Property == lh {
				if _, dup := pos[lh]; dup {
					return rules // redeclared longhand
				}
				pos[lh] = i
			}
		}
	}
	if len(pos) != 4 {
		return rules
	}
	var sides [4]*ast.Declaration
	for i, lh := range g.longhands {
		sides[i] = rules[pos[lh]].(*ast.Declaration)
	}
	important := sides[0].Important
	for _, d := range sides[1:] {
		if d.Important != important {
			return rules
		}
	}
	for _, d := range sides {
		if !foldableValue(d.Value) {
			return rules
		}
	}
	folded := &ast.Declaration{
		Property:  g.shorthand,
		Value:     reduceSides(sides),
		Important: important,
		Loc:       sides[0].Loc,
	}
	tracer().Debugf("folded %s", g.shorthand)
	first := pos[g.longhands[0]]
	for _, p := range pos {
		if p < first {
			first = p
		}
	}
	var out []ast.Rule
	for i, r := range rules {
		if i == first {
			out = append(out, folded)
		}
		if d, ok := r.(*ast.Declaration); ok {
			if _, isSide := pos[d.Property]; isSide && pos[d.Property] == i {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// foldableValue rejects values that cannot be a single member of a
// four-sided shorthand.
func foldableValue(v ast.Value) bool {
	switch v.(type) {
	case ast.SpaceList, ast.CommaList, ast.RawValue, nil:
		return false
	}
	return true
}

// reduceSides applies the standard shorthand reduction: drop left when
// it equals right, then bottom when it equals top, then right when it
// equals top.
func reduceSides(sides [4]*ast.Declaration) ast.Value {
	key := func(i int) string { return printer.Value(sides[i].Value, true) }
	vals := []ast.Value{sides[0].Value, sides[1].Value, sides[2].Value, sides[3].Value}
	if key(3) == key(1) {
		vals = vals[:3]
		if key(2) == key(0) {
			vals = vals[:2]
			if key(1) == key(0) {
				vals = vals[:1]
			}
		}
	}
	if len(vals) == 1 {
		return vals[0]
	}
	return ast.SpaceList(vals)
}
