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

// prefixEntry lists the vendor prefixes a property needs when a target
// lacks unprefixed support.
type prefixEntry struct {
	feature  compat.Feature
	prefixes []string
}

var prefixTable = map[string]prefixEntry{
	"user-select":      {compat.UserSelect, []string{"-webkit-", "-moz-"}},
	"appearance":       {compat.Appearance, []string{"-webkit-", "-moz-"}},
	"backdrop-filter":  {compat.BackdropFilter, []string{"-webkit-"}},
	"mask":             {compat.MaskProperty, []string{"-webkit-"}},
	"mask-image":       {compat.MaskProperty, []string{"-webkit-"}},
	"text-size-adjust": {compat.TextSizeAdjust, []string{"-webkit-", "-ms-"}},
}

// prefixedToBase resolves "-webkit-user-select" back to "user-select",
// for every combination the table can produce.
var prefixedToBase = func() map[string]string {
	m := map[string]string{}
	for base, entry := range prefixTable {
		for _, pre := range entry.prefixes {
			m[pre+base] = base
		}
	}
	return m
}()

// prefixPass inserts vendor-prefixed copies before declarations whose
// property needs them for the targeted browsers, and strips prefixed
// duplicates once every target supports the unprefixed form. The pass is
// idempotent: a prefixed form already present in the block is never
// duplicated, and stripping only touches declarations whose unprefixed
// twin carries the identical value.
type prefixPass struct{}

func (prefixPass) Name() string { return "prefix" }

func (prefixPass) Run(sheet *ast.StyleSheet, ctx *Context) {
	sheet.Rules = ast.RewriteRules(sheet.Rules, func(rules []ast.Rule) []ast.Rule {
		present := map[string]bool{}
		for _, r := range rules {
			if d, ok := r.(*ast.Declaration); ok {
				present[d.Property] = true
			}
		}
		values := map[string]string{}
		for _, r := range rules {
			if d, ok := r.(*ast.Declaration); ok {
				values[d.Property] = printer.Value(d.Value, true)
			}
		}
		var out []ast.Rule
		for _, r := range rules {
			d, ok := r.(*ast.Declaration)
			if !ok {
				out = append(out, r)
				continue
			}
			if base, isPrefixed := prefixedToBase[d.Property]; isPrefixed &&
				ctx.supports(prefixTable[base].feature) {
				if v, twin := values[base]; twin && v == printer.Value(d.Value, true) {
					tracer().Debugf("stripping obsolete %q", d.Property)
					continue
				}
			}
			if entry, needs := prefixTable[d.Property]; needs && !ctx.supports(entry.feature) {
				for _, pre := range entry.prefixes {
					prefixed := pre + d.Property
					if present[prefixed] {
						continue
					}
					present[prefixed] = true
					clone := d.Clone()
					clone.Property = prefixed
					out = append(out, clone)
				}
			}
			out = append(out, d)
		}
		return out
	})
}
