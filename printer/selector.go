/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package printer

import (
	"strings"

	"github.com/npillmayer/csskit/ast"
)

// Selectors serializes a selector list.
func Selectors(list ast.SelectorList, minify bool) string {
	parts := make([]string, len(list))
	for i, sel := range list {
		parts[i] = Selector(sel, minify)
	}
	sep := ", "
	if minify {
		sep = ","
	}
	return strings.Join(parts, sep)
}

// Selector serializes one complex selector.
func Selector(sel ast.ComplexSelector, minify bool) string {
	var sb strings.Builder
	for _, comp := range sel {
		switch c := comp.(type) {
		case ast.TypeSelector:
			sb.WriteString(c.Name)
		case ast.UniversalSelector:
			sb.WriteByte('*')
		case ast.ClassSelector:
			sb.WriteByte('.')
			sb.WriteString(EscapeIdent(c.Name))
		case ast.IDSelector:
			sb.WriteByte('#')
			sb.WriteString(EscapeIdent(c.Name))
		case ast.NestingSelector:
			sb.WriteByte('&')
		case ast.AttributeSelector:
			sb.WriteByte('[')
			sb.WriteString(c.Name)
			if c.Op != "" {
				sb.WriteString(c.Op)
				sb.WriteString(attrValue(c, minify))
				if c.CaseFlag != 0 {
					sb.WriteByte(' ')
					sb.WriteByte(c.CaseFlag)
				}
			}
			sb.WriteByte(']')
		case ast.PseudoClassSelector:
			sb.WriteByte(':')
			sb.WriteString(c.Name)
			if len(c.Selectors) > 0 {
				sb.WriteByte('(')
				sb.WriteString(Selectors(c.Selectors, minify))
				sb.WriteByte(')')
			} else if c.HasArgs {
				sb.WriteByte('(')
				sb.WriteString(Tokens(c.Args))
				sb.WriteByte(')')
			}
		case ast.PseudoElementSelector:
			if c.Legacy {
				sb.WriteByte(':')
			} else {
				sb.WriteString("::")
			}
			sb.WriteString(c.Name)
			if c.HasArgs {
				sb.WriteByte('(')
				sb.WriteString(Tokens(c.Args))
				sb.WriteByte(')')
			}
		case ast.Combinator:
			if c.Kind == ast.Descendant {
				sb.WriteByte(' ')
			} else if minify {
				sb.WriteString(c.Kind.String())
			} else {
				sb.WriteByte(' ')
				sb.WriteString(c.Kind.String())
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}

// attrValue prints an attribute comparison operand, dropping quotes
// when the value is a valid identifier and minification is on.
func attrValue(c ast.AttributeSelector, minify bool) string {
	if c.Quoted && !(minify && isIdent(c.Value)) {
		return QuoteString(c.Value)
	}
	if !c.Quoted || isIdent(c.Value) {
		return c.Value
	}
	return QuoteString(c.Value)
}

// isIdent reports whether s can be written as a bare CSS identifier.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_', ch == '-', ch >= 0x80:
		case ch >= '0' && ch <= '9':
			if i == 0 || (i == 1 && s[0] == '-') {
				return false
			}
		default:
			return false
		}
	}
	return s != "-"
}
