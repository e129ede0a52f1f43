package value

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"math"

	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/token"
)

// HexColor parses the name of a hash token as a hex color. Accepts the
// 3-, 4-, 6- and 8-digit forms.
func HexColor(name string) (*ast.Color, bool) {
	var digits [8]uint8
	switch len(name) {
	case 3, 4, 6, 8:
	default:
		return nil, false
	}
	for i := 0; i < len(name); i++ {
		d, ok := hexVal(name[i])
		if !ok {
			return nil, false
		}
		digits[i] = d
	}
	c := &ast.Color{Model: ast.ColorHex, Alpha: 1}
	switch len(name) {
	case 3, 4:
		c.C1 = float64(digits[0]*16 + digits[0])
		c.C2 = float64(digits[1]*16 + digits[1])
		c.C3 = float64(digits[2]*16 + digits[2])
		if len(name) == 4 {
			c.Alpha = float64(digits[3]*16+digits[3]) / 255
		}
	case 6, 8:
		c.C1 = float64(digits[0]*16 + digits[1])
		c.C2 = float64(digits[2]*16 + digits[3])
		c.C3 = float64(digits[4]*16 + digits[5])
		if len(name) == 8 {
			c.Alpha = float64(digits[6]*16+digits[7]) / 255
		}
	}
	return c, true
}

func hexVal(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// NamedColor resolves a color keyword (ASCII case-insensitive).
// "transparent" maps to a zero-alpha hex color; "currentcolor" and
// system colors stay idents and are not resolved here.
func NamedColor(name string) (*ast.Color, bool) {
	lower := token.ASCIILower(name)
	if lower == "transparent" {
		return &ast.Color{Model: ast.ColorHex, Alpha: 0}, true
	}
	if rgb, ok := namedColors[lower]; ok {
		return &ast.Color{
			Model: ast.ColorNamed,
			Name:  lower,
			C1:    float64(rgb >> 16),
			C2:    float64(rgb >> 8 & 0xff),
			C3:    float64(rgb & 0xff),
			Alpha: 1,
		}, true
	}
	return nil, false
}

// NameOfRGB returns the color keyword for an rgb triple, if one exists.
func NameOfRGB(r, g, b uint8) (string, bool) {
	name, ok := rgbToName[uint32(r)<<16|uint32(g)<<8|uint32(b)]
	return name, ok
}

// parseColorFunction parses the color functions in both the legacy comma
// syntax — rgb(1, 2, 3), rgba(1, 2, 3, .5) — and the modern space
// syntax — rgb(1 2 3 / .5), lab(50% 40 59.5), oklch(40% 0.23 21).
func (p *parser) parseColorFunction(name string) (ast.Value, error) {
	comps, alpha, legacy, err := p.colorComponents()
	if err != nil {
		return nil, err
	}
	if len(comps) != 3 {
		return nil, ErrInvalidValue
	}
	c := &ast.Color{Alpha: alpha, Legacy: legacy}
	switch name {
	case "rgb", "rgba":
		c.Model = ast.ColorRGB
		for i, comp := range comps {
			v, isPct, ok := colorNumber(comp)
			if !ok {
				return nil, ErrInvalidValue
			}
			if isPct {
				v = v / 100 * 255
			}
			setComp(c, i, v)
		}
	case "hsl", "hsla":
		c.Model = ast.ColorHSL
		h, ok := hueNumber(comps[0])
		if !ok {
			return nil, ErrInvalidValue
		}
		c.C1 = h
		for i := 1; i < 3; i++ {
			v, _, ok := colorNumber(comps[i])
			if !ok {
				return nil, ErrInvalidValue
			}
			setComp(c, i, v)
		}
	case "hwb":
		c.Model = ast.ColorHWB
		h, ok := hueNumber(comps[0])
		if !ok {
			return nil, ErrInvalidValue
		}
		c.C1 = h
		for i := 1; i < 3; i++ {
			v, _, ok := colorNumber(comps[i])
			if !ok {
				return nil, ErrInvalidValue
			}
			setComp(c, i, v)
		}
	case "lab", "oklab":
		c.Model = ast.ColorLab
		c.OK = name == "oklab"
		for i, comp := range comps {
			v, isPct, ok := colorNumber(comp)
			if !ok {
				return nil, ErrInvalidValue
			}
			// percentage reference ranges differ: L 100% = 100 (lab)
			// resp. 1.0 (oklab); a/b 100% = ±125 resp. ±0.4
			if isPct {
				if c.OK {
					if i == 0 {
						v /= 100
					} else {
						v = v / 100 * 0.4
					}
				} else if i > 0 {
					v = v / 100 * 125
				}
			}
			setComp(c, i, v)
		}
	case "lch", "oklch":
		c.Model = ast.ColorLCH
		c.OK = name == "oklch"
		for i := 0; i < 2; i++ {
			v, isPct, ok := colorNumber(comps[i])
			if !ok {
				return nil, ErrInvalidValue
			}
			if isPct {
				if c.OK {
					if i == 0 {
						v /= 100
					} else {
						v = v / 100 * 0.4
					}
				} else if i > 0 {
					v = v / 100 * 150
				}
			}
			setComp(c, i, v)
		}
		h, ok := hueNumber(comps[2])
		if !ok {
			return nil, ErrInvalidValue
		}
		c.C3 = h
	}
	return c, nil
}

func setComp(c *ast.Color, i int, v float64) {
	switch i {
	case 0:
		c.C1 = v
	case 1:
		c.C2 = v
	case 2:
		c.C3 = v
	}
}

// colorComponents collects the component values of a color function,
// handling both comma and space/slash syntax. Returns the three channel
// values, the alpha (1 if absent) and whether legacy comma syntax was
// used.
func (p *parser) colorComponents() ([]ast.Value, float64, bool, error) {
	var comps []ast.Value
	alpha := 1.0
	legacy := false
	sawAlpha := false
	for {
		p.skipWS()
		t := p.peek()
		switch {
		case t.Type == token.EOF:
			return nil, 0, false, ErrInvalidValue
		case t.Type == token.RParen:
			p.next()
			return comps, alpha, legacy, nil
		case t.Type == token.Comma:
			p.next()
			legacy = true
			if len(comps) == 3 {
				// legacy alpha component
				p.skipWS()
				a, ok := p.alphaValue()
				if !ok {
					return nil, 0, false, ErrInvalidValue
				}
				alpha = a
				sawAlpha = true
			}
			continue
		case t.IsDelim('/'):
			p.next()
			p.skipWS()
			a, ok := p.alphaValue()
			if !ok {
				return nil, 0, false, ErrInvalidValue
			}
			alpha = a
			sawAlpha = true
			continue
		}
		if sawAlpha {
			return nil, 0, false, ErrInvalidValue
		}
		if len(comps) == 4 {
			return nil, 0, false, ErrInvalidValue
		}
		v, err := p.parseComponent()
		if err != nil {
			return nil, 0, false, err
		}
		comps = append(comps, v)
	}
}

func (p *parser) alphaValue() (float64, bool) {
	t := p.next()
	switch t.Type {
	case token.Number:
		return clamp01(t.Num), true
	case token.Percentage:
		return clamp01(t.Num / 100), true
	}
	return 0, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// colorNumber extracts a number or percentage channel.
func colorNumber(v ast.Value) (val float64, isPct bool, ok bool) {
	switch n := v.(type) {
	case ast.Number:
		return n.Value, false, true
	case ast.Percentage:
		return n.Value, true, true
	case ast.Ident:
		if token.EqualFold(n.Name, "none") {
			return 0, false, true
		}
	}
	return 0, false, false
}

// hueNumber extracts a hue in degrees from a number or angle dimension.
func hueNumber(v ast.Value) (float64, bool) {
	switch n := v.(type) {
	case ast.Number:
		return n.Value, true
	case ast.Dimension:
		switch n.Unit {
		case "deg":
			return n.Value, true
		case "grad":
			return n.Value * 360 / 400, true
		case "rad":
			return n.Value * 180 / math.Pi, true
		case "turn":
			return n.Value * 360, true
		}
	case ast.Ident:
		if token.EqualFold(n.Name, "none") {
			return 0, true
		}
	}
	return 0, false
}

// --- Color space conversions ----------------------------------------------
//
// Downleveling needs sRGB equivalents for the modern color spaces. All
// math is float64; rounding to 8 bits happens in one place, at the end.

// ToSRGB converts any color to 8-bit sRGB channels plus alpha. Channels
// out of gamut are clipped.
func ToSRGB(c *ast.Color) (r, g, b uint8, alpha float64) {
	var fr, fg, fb float64
	switch c.Model {
	case ast.ColorNamed, ast.ColorHex, ast.ColorRGB:
		fr, fg, fb = c.C1/255, c.C2/255, c.C3/255
	case ast.ColorHSL:
		fr, fg, fb = hslToRGB(c.C1, c.C2/100, c.C3/100)
	case ast.ColorHWB:
		fr, fg, fb = hwbToRGB(c.C1, c.C2/100, c.C3/100)
	case ast.ColorLab:
		if c.OK {
			fr, fg, fb = oklabToSRGB(c.C1, c.C2, c.C3)
		} else {
			fr, fg, fb = labToSRGB(c.C1, c.C2, c.C3)
		}
	case ast.ColorLCH:
		a := c.C2 * math.Cos(c.C3*math.Pi/180)
		bb := c.C2 * math.Sin(c.C3*math.Pi/180)
		if c.OK {
			fr, fg, fb = oklabToSRGB(c.C1, a, bb)
		} else {
			fr, fg, fb = labToSRGB(c.C1, a, bb)
		}
	}
	round := func(v float64) uint8 {
		v = clamp01(v)
		return uint8(math.Round(v * 255))
	}
	return round(fr), round(fg), round(fb), c.Alpha
}

func hslToRGB(h, s, l float64) (float64, float64, float64) {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	f := func(n float64) float64 {
		k := math.Mod(n+h/30, 12)
		a := s * math.Min(l, 1-l)
		return l - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1))
	}
	return f(0), f(8), f(4)
}

func hwbToRGB(h, w, bl float64) (float64, float64, float64) {
	if w+bl >= 1 {
		gray := w / (w + bl)
		return gray, gray, gray
	}
	r, g, b := hslToRGB(h, 1, 0.5)
	scale := func(v float64) float64 {
		return v*(1-w-bl) + w
	}
	return scale(r), scale(g), scale(b)
}

// labToSRGB converts CIE Lab (D50 white point) to sRGB.
func labToSRGB(l, a, b float64) (float64, float64, float64) {
	// Lab → XYZ (D50)
	const (
		wx = 0.96422
		wy = 1.0
		wz = 0.82521
	)
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	finv := func(t float64) float64 {
		if t3 := t * t * t; t3 > 0.008856451679035631 {
			return t3
		}
		return (116*t - 16) / 903.2962962962963
	}
	x := finv(fx) * wx
	y := finv(fy) * wy
	z := finv(fz) * wz

	// Bradford-adapted D50 → linear sRGB
	lr := 3.1338561*x - 1.6168667*y - 0.4906146*z
	lg := -0.9787684*x + 1.9161415*y + 0.0334540*z
	lb := 0.0719453*x - 0.2289914*y + 1.4052427*z
	return gamma(lr), gamma(lg), gamma(lb)
}

// oklabToSRGB converts OKLab to sRGB.
func oklabToSRGB(l, a, b float64) (float64, float64, float64) {
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b
	l3 := l_ * l_ * l_
	m3 := m_ * m_ * m_
	s3 := s_ * s_ * s_
	lr := 4.0767416621*l3 - 3.3077115913*m3 + 0.2309699292*s3
	lg := -1.2684380046*l3 + 2.6097574011*m3 - 0.3413193965*s3
	lb := -0.0041960863*l3 - 0.7034186147*m3 + 1.7076147010*s3
	return gamma(lr), gamma(lg), gamma(lb)
}

// gamma applies the sRGB transfer function to a linear channel.
func gamma(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}
