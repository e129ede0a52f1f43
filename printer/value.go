/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/csskit/ast"
)

// Value serializes a declaration value.
func Value(v ast.Value, minify bool) string {
	switch v := v.(type) {
	case nil:
		return ""
	case ast.Number:
		return Number(v.Value, minify)
	case ast.Dimension:
		return Number(v.Value, minify) + v.Unit
	case ast.Percentage:
		return Number(v.Value, minify) + "%"
	case ast.Ident:
		return v.Name
	case ast.String:
		return QuoteString(v.Value)
	case ast.URL:
		return "url(" + QuoteString(v.Value) + ")"
	case *ast.Function:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = Value(a, minify)
		}
		sep := ", "
		if minify {
			sep = ","
		}
		return v.Name + "(" + strings.Join(args, sep) + ")"
	case *ast.Calc:
		return v.Name + "(" + calcExpr(v.Root, minify, 0) + ")"
	case *ast.VarRef:
		if v.Fallback == nil {
			return "var(" + v.Name + ")"
		}
		sep := ", "
		if minify {
			sep = ","
		}
		return "var(" + v.Name + sep + Value(v.Fallback, minify) + ")"
	case ast.CommaList:
		parts := make([]string, len(v))
		for i, m := range v {
			parts[i] = Value(m, minify)
		}
		sep := ", "
		if minify {
			sep = ","
		}
		return strings.Join(parts, sep)
	case ast.SpaceList:
		parts := make([]string, len(v))
		for i, m := range v {
			parts[i] = Value(m, minify)
		}
		return strings.Join(parts, " ")
	case ast.RawValue:
		return Tokens(v.Tokens)
	case *ast.Color:
		return Color(v, minify)
	}
	tracer().Errorf("printer: unhandled value %T", v)
	return ""
}

// calcExpr prints a calc tree with minimal parentheses: a sum nested
// under a product keeps its parens, and so does the right operand of the
// non-commutative - and /, since a - (b + c) is not a - b + c.
func calcExpr(v ast.Value, minify bool, parentPrec int) string {
	e, ok := v.(*ast.CalcExpr)
	if !ok {
		return Value(v, minify)
	}
	prec := 1
	if e.Op == '*' || e.Op == '/' {
		prec = 2
	}
	rightPrec := prec
	if e.Op == '-' || e.Op == '/' {
		rightPrec = prec + 1
	}
	op := string(e.Op)
	var s string
	if e.Op == '+' || e.Op == '-' {
		// additive operators require surrounding whitespace
		s = calcExpr(e.Left, minify, prec) + " " + op + " " + calcExpr(e.Right, minify, rightPrec)
	} else if minify {
		s = calcExpr(e.Left, minify, prec) + op + calcExpr(e.Right, minify, rightPrec)
	} else {
		s = calcExpr(e.Left, minify, prec) + " " + op + " " + calcExpr(e.Right, minify, rightPrec)
	}
	if prec < parentPrec {
		return "(" + s + ")"
	}
	return s
}

// Number formats a numeric value with the shortest exact decimal form.
// Minified output drops the integer zero of a pure fraction.
func Number(v float64, minify bool) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if minify {
		if strings.HasPrefix(s, "0.") {
			s = s[1:]
		} else if strings.HasPrefix(s, "-0.") {
			s = "-" + s[2:]
		}
	}
	return s
}

// Color serializes a color by its model; the minify pass is responsible
// for picking shorter equivalent forms, the printer stays faithful.
func Color(c *ast.Color, minify bool) string {
	switch c.Model {
	case ast.ColorNamed:
		return c.Name
	case ast.ColorHex:
		return hexColor(c, minify)
	case ast.ColorRGB:
		if c.Legacy {
			sep := legacySep(minify)
			if c.OpaqueAlpha() {
				return fmt.Sprintf("rgb(%s%s%s%s%s)", Number(c.C1, false), sep,
					Number(c.C2, false), sep, Number(c.C3, false))
			}
			return fmt.Sprintf("rgba(%s%s%s%s%s%s%s)", Number(c.C1, false), sep,
				Number(c.C2, false), sep, Number(c.C3, false), sep, Number(c.Alpha, minify))
		}
		return modernColor("rgb", Number(c.C1, minify), Number(c.C2, minify),
			Number(c.C3, minify), c, minify)
	case ast.ColorHSL:
		if c.Legacy {
			sep := legacySep(minify)
			if c.OpaqueAlpha() {
				return fmt.Sprintf("hsl(%s%s%s%%%s%s%%)", Number(c.C1, false), sep,
					Number(c.C2, false), sep, Number(c.C3, false))
			}
			return fmt.Sprintf("hsla(%s%s%s%%%s%s%%%s%s)", Number(c.C1, false), sep,
				Number(c.C2, false), sep, Number(c.C3, false), sep, Number(c.Alpha, minify))
		}
		return modernColor("hsl", Number(c.C1, minify), Number(c.C2, minify)+"%",
			Number(c.C3, minify)+"%", c, minify)
	case ast.ColorHWB:
		return modernColor("hwb", Number(c.C1, minify), Number(c.C2, minify)+"%",
			Number(c.C3, minify)+"%", c, minify)
	case ast.ColorLab:
		name := "lab"
		if c.OK {
			name = "oklab"
		}
		return modernColor(name, Number(c.C1, minify), Number(c.C2, minify),
			Number(c.C3, minify), c, minify)
	case ast.ColorLCH:
		name := "lch"
		if c.OK {
			name = "oklch"
		}
		return modernColor(name, Number(c.C1, minify), Number(c.C2, minify),
			Number(c.C3, minify), c, minify)
	}
	tracer().Errorf("printer: unhandled color model %v", c.Model)
	return ""
}

// legacySep is the component separator of the legacy comma color forms.
func legacySep(minify bool) string {
	if minify {
		return ","
	}
	return ", "
}

func modernColor(name, a, b, c string, col *ast.Color, minify bool) string {
	if col.OpaqueAlpha() {
		return fmt.Sprintf("%s(%s %s %s)", name, a, b, c)
	}
	if minify {
		return fmt.Sprintf("%s(%s %s %s/%s)", name, a, b, c, Number(col.Alpha, true))
	}
	return fmt.Sprintf("%s(%s %s %s / %s)", name, a, b, c, Number(col.Alpha, false))
}

const hexDigits = "0123456789abcdef"

func hexColor(c *ast.Color, minify bool) string {
	r, g, b := uint8(c.C1), uint8(c.C2), uint8(c.C3)
	bytes := []uint8{r, g, b}
	if !c.OpaqueAlpha() {
		bytes = append(bytes, uint8(c.Alpha*255+0.5))
	}
	if minify {
		foldable := true
		for _, v := range bytes {
			if v>>4 != v&0xf {
				foldable = false
				break
			}
		}
		if foldable {
			var sb strings.Builder
			sb.WriteByte('#')
			for _, v := range bytes {
				sb.WriteByte(hexDigits[v&0xf])
			}
			return sb.String()
		}
	}
	var sb strings.Builder
	sb.WriteByte('#')
	for _, v := range bytes {
		writeHexByte(&sb, v)
	}
	return sb.String()
}

func writeHexByte(sb *strings.Builder, v uint8) {
	sb.WriteByte(hexDigits[v>>4])
	sb.WriteByte(hexDigits[v&0xf])
}

// QuoteString wraps s in double quotes, escaping quotes, backslashes
// and newlines.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		case '\n':
			sb.WriteString("\\a ")
		default:
			sb.WriteByte(ch)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// EscapeIdent escapes s so it is a valid CSS identifier.
func EscapeIdent(s string) string {
	if s == "" {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_', ch == '-', ch >= 0x80:
			sb.WriteByte(ch)
		case ch >= '0' && ch <= '9':
			if i == 0 || (i == 1 && s[0] == '-') {
				fmt.Fprintf(&sb, "\\3%c ", ch)
			} else {
				sb.WriteByte(ch)
			}
		default:
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}
