/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package transform

import (
	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/value"
)

// minifyValuesPass rewrites values into their shortest equivalent form:
// calc() expressions are folded where exact, zero lengths drop their
// unit, and colors pick the shorter of keyword and hex spelling. Colors
// that cannot be narrowed to 8-bit channels without loss are left alone.
type minifyValuesPass struct{}

func (minifyValuesPass) Name() string { return "minify-values" }

func (minifyValuesPass) Run(sheet *ast.StyleSheet, ctx *Context) {
	eachDeclaration(sheet.Rules, func(d *ast.Declaration) {
		d.Value = ast.RewriteValue(d.Value, minifyValue)
	})
}

func minifyValue(v ast.Value) ast.Value {
	switch v := v.(type) {
	case *ast.Calc:
		return value.FoldCalc(v)
	case ast.Dimension:
		if v.Value == 0 && value.IsLengthUnit(v.Unit) {
			return ast.Number{Value: 0, Int: true}
		}
	case *ast.Color:
		return minifyColor(v)
	}
	return v
}

// minifyColor rewrites a color to the shorter of its keyword and hex
// spellings, when the channels are exactly 8-bit. Legacy comma syntax
// only survives where downleveling asked for it, and opaque hex is
// universally supported, so opaque rgb()/keyword colors may always
// become hex.
func minifyColor(c *ast.Color) ast.Value {
	var r, g, b uint8
	switch c.Model {
	case ast.ColorNamed:
		resolved, ok := value.NamedColor(c.Name)
		if !ok || !resolved.OpaqueAlpha() {
			return c // transparent and friends stay keywords
		}
		r, g, b, ok = rgb8(resolved)
		if !ok {
			return c
		}
	case ast.ColorHex, ast.ColorRGB:
		if !c.OpaqueAlpha() {
			return c
		}
		var ok bool
		r, g, b, ok = rgb8(c)
		if !ok {
			return c
		}
	default:
		return c
	}
	hexLen := 7
	if r>>4 == r&0xf && g>>4 == g&0xf && b>>4 == b&0xf {
		hexLen = 4
	}
	if name, ok := value.NameOfRGB(r, g, b); ok && len(name) < hexLen {
		return &ast.Color{Model: ast.ColorNamed, Name: name, Alpha: 1}
	}
	return &ast.Color{Model: ast.ColorHex,
		C1: float64(r), C2: float64(g), C3: float64(b), Alpha: 1}
}

func rgb8(c *ast.Color) (uint8, uint8, uint8, bool) {
	r, g, b, ok := c.RGB8()
	return r, g, b, ok
}
