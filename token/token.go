/*
Package token defines the lexical tokens of the CSS syntax and their
source spans. Tokens are produced by package scanner and consumed by the
rule and grammar parsers.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package token

import (
	"fmt"

	"github.com/npillmayer/csskit/diag"
)

// Type discriminates the token variants of the CSS token grammar.
type Type int

const (
	EOF Type = iota
	Ident
	Function // ident followed by '(' — the '(' is part of the token
	AtKeyword
	Hash
	String
	BadString
	URL
	BadURL
	Number
	Percentage
	Dimension
	UnicodeRange
	Whitespace
	Colon
	Semicolon
	Comma
	LBracket
	RBracket
	LParen
	RParen
	LBrace
	RBrace
	CDO
	CDC
	Delim
)

var typeNames = [...]string{
	EOF: "EOF", Ident: "Ident", Function: "Function", AtKeyword: "AtKeyword",
	Hash: "Hash", String: "String", BadString: "BadString", URL: "URL",
	BadURL: "BadURL", Number: "Number", Percentage: "Percentage",
	Dimension: "Dimension", UnicodeRange: "UnicodeRange",
	Whitespace: "Whitespace", Colon: "Colon", Semicolon: "Semicolon",
	Comma: "Comma", LBracket: "LBracket", RBracket: "RBracket",
	LParen: "LParen", RParen: "RParen", LBrace: "LBrace", RBrace: "RBrace",
	CDO: "CDO", CDC: "CDC", Delim: "Delim",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Token is a single lexical token. Lexeme is the raw source text; Value
// carries the unescaped name for ident-like tokens and the string content
// for string/URL tokens. Numeric tokens additionally carry the parsed
// number and, for dimensions, the unit.
type Token struct {
	Type   Type
	Lexeme string // raw text, exactly as in the source
	Value  string // unescaped ident/string/url/at-keyword/hash name, unit-less numeric repr
	Num    float64
	Unit   string // dimension unit, already lowercased
	Int    bool   // numeric token matched the <integer> grammar
	IsID   bool   // hash token is a valid id selector name
	Span   diag.Span
}

// EOFToken returns an EOF token positioned at offset.
func EOFToken(offset int) Token {
	return Token{Type: EOF, Span: diag.Span{Start: offset, End: offset}}
}

// Is reports whether the token is an ident with the given (lowercase) name.
// Ident comparison in CSS is ASCII case-insensitive.
func (t Token) Is(name string) bool {
	return t.Type == Ident && EqualFold(t.Value, name)
}

// IsDelim reports whether the token is the given delimiter code point.
func (t Token) IsDelim(ch byte) bool {
	return t.Type == Delim && len(t.Lexeme) == 1 && t.Lexeme[0] == ch
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "EOF"
	case Whitespace:
		return "␣"
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Lexeme)
}

// EqualFold is an ASCII-only case-insensitive comparison. CSS ident
// matching must not apply Unicode folding.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// ASCIILower lowercases ASCII letters only.
func ASCIILower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
