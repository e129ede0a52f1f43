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
	"github.com/npillmayer/csskit/value"
)

// downlevelPass rewrites constructs the targeted browsers do not support
// into equivalent older forms. Colors the old form cannot represent
// exactly (lab, lch) keep the modern declaration and gain an sRGB
// fallback declaration before it, so capable browsers win the cascade.
type downlevelPass struct{}

func (downlevelPass) Name() string { return "downlevel" }

func (downlevelPass) Run(sheet *ast.StyleSheet, ctx *Context) {
	sheet.Rules = ast.RewriteRules(sheet.Rules, func(rules []ast.Rule) []ast.Rule {
		var out []ast.Rule
		for _, r := range rules {
			d, ok := r.(*ast.Declaration)
			if !ok {
				if mr, isMedia := r.(*ast.MediaRule); isMedia {
					downlevelMedia(mr, ctx)
				}
				out = append(out, r)
				continue
			}
			if fb := wideGamutFallback(d, ctx); fb != nil {
				out = append(out, fb)
			}
			d.Value = ast.RewriteValue(d.Value, func(v ast.Value) ast.Value {
				if c, isColor := v.(*ast.Color); isColor {
					return downlevelColor(c, ctx)
				}
				return v
			})
			out = append(out, d)
		}
		return out
	})
}

// wideGamutFallback builds an sRGB fallback declaration when the value
// uses lab()/lch()/oklab()/oklch() and a target lacks them. The modern
// declaration itself is kept unchanged.
func wideGamutFallback(d *ast.Declaration, ctx *Context) *ast.Declaration {
	needs := false
	ast.RewriteValue(d.Value, func(v ast.Value) ast.Value {
		if c, ok := v.(*ast.Color); ok && isWideGamut(c, ctx) {
			needs = true
		}
		return v
	})
	if !needs {
		return nil
	}
	fb := d.Clone()
	fb.Value = ast.RewriteValue(d.Value, func(v ast.Value) ast.Value {
		if c, ok := v.(*ast.Color); ok && isWideGamut(c, ctx) {
			return toLegacyRGB(c)
		}
		return v
	})
	tracer().Debugf("inserted sRGB fallback for %q", d.Property)
	return fb
}

func isWideGamut(c *ast.Color, ctx *Context) bool {
	if c.Model != ast.ColorLab && c.Model != ast.ColorLCH {
		return false
	}
	feature := compat.LabColors
	if c.OK {
		feature = compat.OKLabColors
	}
	return !ctx.supports(feature)
}

// downlevelColor rewrites a single color in place-equivalent form.
func downlevelColor(c *ast.Color, ctx *Context) ast.Value {
	switch c.Model {
	case ast.ColorHex:
		if !c.OpaqueAlpha() && !ctx.supports(compat.HexAlpha) {
			return &ast.Color{Model: ast.ColorRGB, Legacy: true,
				C1: c.C1, C2: c.C2, C3: c.C3, Alpha: c.Alpha}
		}
	case ast.ColorRGB, ast.ColorHSL:
		if !c.Legacy && !ctx.supports(compat.ModernColorSyntax) {
			legacy := *c
			legacy.Legacy = true
			return &legacy
		}
	case ast.ColorHWB:
		if !ctx.supports(compat.HWBColors) {
			return toLegacyRGB(c)
		}
	}
	return c
}

func toLegacyRGB(c *ast.Color) *ast.Color {
	r, g, b, alpha := value.ToSRGB(c)
	return &ast.Color{Model: ast.ColorRGB, Legacy: true,
		C1: float64(r), C2: float64(g), C3: float64(b), Alpha: alpha}
}

// downlevelMedia rewrites range syntax features into min-/max- form.
func downlevelMedia(mr *ast.MediaRule, ctx *Context) {
	if ctx.supports(compat.MediaRangeSyntax) {
		return
	}
	for _, q := range mr.Queries {
		for _, f := range q.Features {
			if f.Kind != ast.MFRange {
				continue
			}
			downlevelRangeFeature(f)
		}
	}
}

// downlevelRangeFeature converts "(width <= 600px)" to
// "(max-width: 600px)". Strict comparisons nudge the bound by 0.001,
// the conventional epsilon for fractional media query bounds.
func downlevelRangeFeature(f *ast.MediaFeature) {
	const epsilon = 0.001
	switch f.Op {
	case "<=":
		f.Name = "max-" + f.Name
	case ">=":
		f.Name = "min-" + f.Name
	case "<":
		f.Name = "max-" + f.Name
		f.Value = nudge(f.Value, -epsilon)
	case ">":
		f.Name = "min-" + f.Name
		f.Value = nudge(f.Value, +epsilon)
	case "=":
		// plain form is exactly equivalent
	default:
		return
	}
	f.Kind = ast.MFPlain
	f.Op = ""
}

func nudge(v ast.Value, delta float64) ast.Value {
	switch v := v.(type) {
	case ast.Dimension:
		return ast.Dimension{Value: v.Value + delta, Unit: v.Unit}
	case ast.Number:
		return ast.Number{Value: v.Value + delta}
	case ast.Percentage:
		return ast.Percentage{Value: v.Value + delta}
	}
	return v
}
