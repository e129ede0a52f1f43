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

// nestingPass hoists nested style rules to the top level, resolving the
// '&' selector against the parent. A child selector without '&' is an
// implicit descendant of the parent.
type nestingPass struct{}

func (nestingPass) Name() string { return "nesting-flatten" }

func (nestingPass) Run(sheet *ast.StyleSheet, ctx *Context) {
	sheet.Rules = flattenList(sheet.Rules)
}

func flattenList(rules []ast.Rule) []ast.Rule {
	var out []ast.Rule
	for _, r := range rules {
		switch r := r.(type) {
		case *ast.StyleRule:
			out = append(out, flattenStyleRule(r)...)
		case *ast.MediaRule:
			r.Body = flattenList(r.Body)
			out = append(out, r)
		case *ast.KnownAtRule:
			if r.Policy == ast.RuleListBlock {
				r.Body = flattenList(r.Body)
			}
			out = append(out, r)
		default:
			out = append(out, r)
		}
	}
	return out
}

// flattenStyleRule splits a style rule into its own declarations plus
// the hoisted forms of its nested rules, in source order.
func flattenStyleRule(r *ast.StyleRule) []ast.Rule {
	var decls []ast.Rule
	var hoisted []ast.Rule
	for _, item := range r.Body {
		switch item := item.(type) {
		case *ast.Declaration:
			decls = append(decls, item)
		case *ast.StyleRule:
			child := &ast.StyleRule{
				Selectors: resolveNesting(r.Selectors, item.Selectors),
				Body:      item.Body,
				Loc:       item.Loc,
			}
			hoisted = append(hoisted, flattenStyleRule(child)...)
		case *ast.MediaRule:
			// a conditional nested in a style rule: hoist the at-rule,
			// re-wrapping its style rules onto the parent selector
			item.Body = rebaseRules(r.Selectors, flattenList(item.Body))
			hoisted = append(hoisted, item)
		case *ast.KnownAtRule:
			if item.Policy == ast.RuleListBlock {
				item.Body = rebaseRules(r.Selectors, flattenList(item.Body))
			}
			hoisted = append(hoisted, item)
		default:
			hoisted = append(hoisted, item)
		}
	}
	out := make([]ast.Rule, 0, 1+len(hoisted))
	if len(decls) > 0 || len(hoisted) == 0 {
		out = append(out, &ast.StyleRule{Selectors: r.Selectors, Body: decls, Loc: r.Loc})
	}
	return append(out, hoisted...)
}

// rebaseRules resolves '&' against parent in the style rules of a hoisted
// conditional block.
func rebaseRules(parent ast.SelectorList, rules []ast.Rule) []ast.Rule {
	for _, r := range rules {
		if sr, ok := r.(*ast.StyleRule); ok {
			sr.Selectors = resolveNesting(parent, sr.Selectors)
		}
	}
	return rules
}

// resolveNesting combines a parent selector list with a nested one:
// every '&' is replaced by each parent selector in turn, and a child
// without '&' becomes a descendant of each parent.
func resolveNesting(parents, children ast.SelectorList) ast.SelectorList {
	var out ast.SelectorList
	for _, child := range children {
		for _, parent := range parents {
			out = append(out, substituteNesting(parent, child))
		}
	}
	return out
}

func substituteNesting(parent, child ast.ComplexSelector) ast.ComplexSelector {
	if !child.HasNesting() {
		merged := make(ast.ComplexSelector, 0, len(parent)+1+len(child))
		merged = append(merged, parent...)
		merged = append(merged, ast.Combinator{Kind: ast.Descendant})
		return append(merged, child...)
	}
	var merged ast.ComplexSelector
	for _, comp := range child {
		if _, ok := comp.(ast.NestingSelector); ok {
			merged = append(merged, parent...)
			continue
		}
		merged = append(merged, comp)
	}
	return merged
}
