package ast

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import "github.com/npillmayer/csskit/token"

// Value is the closed interface over property values.
type Value interface {
	value()
}

func (Number) value()     {}
func (Dimension) value()  {}
func (Percentage) value() {}
func (Ident) value()      {}
func (String) value()     {}
func (URL) value()        {}
func (*Function) value()  {}
func (*Calc) value()      {}
func (*CalcExpr) value()  {}
func (*VarRef) value()    {}
func (CommaList) value()  {}
func (SpaceList) value()  {}
func (RawValue) value()   {}
func (*Color) value()     {}

// Number is a plain <number>.
type Number struct {
	Value float64
	Int   bool
}

// Dimension is a <number> with a unit: lengths, angles, times,
// frequencies, resolutions. The unit is lowercased.
type Dimension struct {
	Value float64
	Unit  string
	Int   bool
}

// Percentage is a <percentage>; Value is in 0–100 space.
type Percentage struct {
	Value float64
}

// Ident is a keyword value, e.g. "auto" (case preserved, compared
// case-insensitively).
type Ident struct {
	Name string
}

// String is a quoted string value.
type String struct {
	Value string
}

// URL is a url() value.
type URL struct {
	Value string
}

// Function is a functional value the engine has no deeper model for; the
// arguments are parsed values (comma-structure preserved via CommaList).
type Function struct {
	Name string // lowercased
	Args []Value
}

// Calc is a calc()/min()/max()/clamp()-style expression. Root is either a
// single operand or a *CalcExpr tree. Name distinguishes the wrapper
// function ("calc", "min", …); for min/max/clamp, Root is a CommaList of
// subtrees.
type Calc struct {
	Name string
	Root Value
}

// CalcExpr is a binary node of a calc expression tree. Op is one of
// '+', '-', '*', '/'. Operands the engine cannot fold (var(), unresolved
// idents) stay as opaque leaves.
type CalcExpr struct {
	Op    byte
	Left  Value
	Right Value
}

// VarRef is a var(--name, fallback?) reference. The fallback, when
// present, is an arbitrary (possibly raw) value.
type VarRef struct {
	Name     string
	Fallback Value
}

// CommaList is a comma-separated sequence of values.
type CommaList []Value

// SpaceList is a whitespace-separated sequence of values.
type SpaceList []Value

// RawValue preserves the original token run of a value the engine does
// not model (unknown properties, custom properties, out-of-grammar
// values). It reprints from the tokens, byte-faithfully modulo
// insignificant whitespace.
type RawValue struct {
	Tokens []token.Token
}

// --- Colors -----------------------------------------------------------------

// ColorModel discriminates the representations a Color can be in.
type ColorModel int

const (
	ColorNamed ColorModel = iota // keyword: red, transparent, currentcolor
	ColorHex                     // #rgb/#rgba/#rrggbb/#rrggbbaa source form
	ColorRGB                     // rgb()/rgba()
	ColorHSL                     // hsl()/hsla()
	ColorHWB                     // hwb()
	ColorLab                     // lab() / oklab()
	ColorLCH                     // lch() / oklch()
)

// Color is a color value in any supported notation. Channel meaning
// depends on Model:
//
//	ColorNamed       Name only
//	ColorHex, RGB    C1,C2,C3 = R,G,B in 0–255 (float, may be fractional)
//	ColorHSL         C1 = hue in degrees, C2,C3 = S,L in 0–100
//	ColorHWB         C1 = hue, C2,C3 = W,B in 0–100
//	ColorLab         C1 = L, C2,C3 = a,b
//	ColorLCH         C1 = L, C2 = chroma, C3 = hue
//
// Alpha is in 0–1. OK marks the oklab/oklch variants. Legacy records
// whether the source used comma syntax (rgb(1, 2, 3)). Colors retain full
// float precision so they round-trip losslessly; only the minification
// and downlevel passes intentionally narrow them.
type Color struct {
	Model  ColorModel
	Name   string // ColorNamed only
	C1     float64
	C2     float64
	C3     float64
	Alpha  float64
	OK     bool
	Legacy bool
}

// OpaqueAlpha is true when the color is fully opaque.
func (c *Color) OpaqueAlpha() bool {
	return c.Alpha >= 1
}

// RGB8 returns the 8-bit channels, valid for ColorHex/ColorRGB models.
// ok is false when any channel is fractional or out of range, in which
// case narrowing to 8 bits would lose precision.
func (c *Color) RGB8() (r, g, b uint8, ok bool) {
	conv := func(v float64) (uint8, bool) {
		if v < 0 || v > 255 || v != float64(int(v)) {
			return 0, false
		}
		return uint8(v), true
	}
	var o1, o2, o3 bool
	r, o1 = conv(c.C1)
	g, o2 = conv(c.C2)
	b, o3 = conv(c.C3)
	return r, g, b, o1 && o2 && o3
}
