/*
Package scanner implements the CSS tokenizer.

The scanner is a pure function of (source text, byte offset): it holds no
token buffer, only a cursor, and scanning twice from the same offset yields
the identical token sequence. Malformed input never aborts the scan;
unterminated strings, URLs and comments produce bad-tokens or run to the
end of input with a recorded diagnostic, so that downstream consumers can
still process trailing content.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package scanner

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/csskit/diag"
	"github.com/npillmayer/csskit/token"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.scanner")
}

const eof rune = -1

// Scanner tokenizes a CSS source text. The zero value is not usable;
// create instances with New.
type Scanner struct {
	src   string
	pos   int
	diags []diag.Diagnostic
}

// New returns a scanner for the given source text, positioned at offset 0.
func New(src string) *Scanner {
	return &Scanner{src: src}
}

// Offset returns the current cursor position as a byte offset.
func (s *Scanner) Offset() int {
	return s.pos
}

// SetOffset repositions the cursor. Scanning is restartable: tokens after
// a SetOffset are exactly those a fresh scanner would produce there.
func (s *Scanner) SetOffset(off int) {
	if off < 0 {
		off = 0
	}
	if off > len(s.src) {
		off = len(s.src)
	}
	s.pos = off
}

// Diagnostics returns the tokenization errors recorded so far, in input
// order.
func (s *Scanner) Diagnostics() []diag.Diagnostic {
	return s.diags
}

// Source returns the text the scanner operates on.
func (s *Scanner) Source() string {
	return s.src
}

// --- Low-level cursor -------------------------------------------------------

func (s *Scanner) peek(i int) rune {
	p := s.pos + i
	if p >= len(s.src) {
		return eof
	}
	c := s.src[p]
	if c < utf8.RuneSelf {
		return rune(c)
	}
	r, _ := utf8.DecodeRuneInString(s.src[p:])
	return r
}

func (s *Scanner) advance() rune {
	if s.pos >= len(s.src) {
		return eof
	}
	c := s.src[s.pos]
	if c < utf8.RuneSelf {
		s.pos++
		return rune(c)
	}
	r, n := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += n
	return r
}

func (s *Scanner) errorf(kind diag.Kind, span diag.Span, format string, args ...interface{}) {
	d := diag.Errorf(kind, span, format, args...)
	tracer().Debugf("scanner: %v", d)
	s.diags = append(s.diags, d)
}

// --- Token production -------------------------------------------------------

// Next scans and returns the next token. Comments are skipped (an
// unterminated comment is consumed to end of input with a diagnostic).
// At the end of input, Next returns EOF tokens indefinitely.
func (s *Scanner) Next() token.Token {
	for {
		start := s.pos
		ch := s.advance()
		switch {
		case ch == eof:
			return token.EOFToken(start)
		case isWhitespace(ch):
			return s.scanWhitespace(start)
		case ch == '/':
			if s.peek(0) == '*' {
				s.scanComment(start)
				continue
			}
			return s.delim(start)
		case ch == '"' || ch == '\'':
			return s.scanString(start, ch)
		case ch == '#':
			return s.scanHash(start)
		case ch == '(':
			return s.simple(token.LParen, start)
		case ch == ')':
			return s.simple(token.RParen, start)
		case ch == '[':
			return s.simple(token.LBracket, start)
		case ch == ']':
			return s.simple(token.RBracket, start)
		case ch == '{':
			return s.simple(token.LBrace, start)
		case ch == '}':
			return s.simple(token.RBrace, start)
		case ch == ',':
			return s.simple(token.Comma, start)
		case ch == ':':
			return s.simple(token.Colon, start)
		case ch == ';':
			return s.simple(token.Semicolon, start)
		case ch == '+' || ch == '.':
			if s.wouldStartNumberAt(start) {
				s.pos = start
				return s.scanNumeric(start)
			}
			return s.delim(start)
		case ch == '-':
			if s.wouldStartNumberAt(start) {
				s.pos = start
				return s.scanNumeric(start)
			}
			if s.peek(0) == '-' && s.peek(1) == '>' {
				s.pos += 2
				return s.simple(token.CDC, start)
			}
			s.pos = start
			if s.wouldStartIdent() {
				return s.scanIdentLike(start)
			}
			s.pos = start + 1
			return s.delim(start)
		case isDigit(ch):
			s.pos = start
			return s.scanNumeric(start)
		case ch == '<':
			if strings.HasPrefix(s.src[s.pos:], "!--") {
				s.pos += 3
				return s.simple(token.CDO, start)
			}
			return s.delim(start)
		case ch == '@':
			if s.wouldStartIdent() {
				name := s.scanName()
				return token.Token{
					Type:   token.AtKeyword,
					Lexeme: s.src[start:s.pos],
					Value:  name,
					Span:   diag.Span{Start: start, End: s.pos},
				}
			}
			return s.delim(start)
		case ch == '\\':
			s.pos = start
			if s.validEscape(0) {
				return s.scanIdentLike(start)
			}
			s.pos = start + 1
			s.errorf(diag.TokenizationError, diag.Span{Start: start, End: s.pos},
				"unescaped backslash")
			return s.delim(start)
		case ch == 'u' || ch == 'U':
			if s.peek(0) == '+' && (isHexDigit(s.peek(1)) || s.peek(1) == '?') {
				s.pos++ // consume '+'
				return s.scanUnicodeRange(start)
			}
			s.pos = start
			return s.scanIdentLike(start)
		case isNameStart(ch):
			s.pos = start
			return s.scanIdentLike(start)
		default:
			return s.delim(start)
		}
	}
}

func (s *Scanner) simple(t token.Type, start int) token.Token {
	return token.Token{Type: t, Lexeme: s.src[start:s.pos], Span: diag.Span{Start: start, End: s.pos}}
}

func (s *Scanner) delim(start int) token.Token {
	return token.Token{Type: token.Delim, Lexeme: s.src[start:s.pos], Span: diag.Span{Start: start, End: s.pos}}
}

func (s *Scanner) scanWhitespace(start int) token.Token {
	for isWhitespace(s.peek(0)) {
		s.advance()
	}
	return s.simple(token.Whitespace, start)
}

// scanComment consumes a comment including its closing "*/". Comments do
// not become tokens; an unterminated comment runs to end of input and is
// recorded as a tokenization error.
func (s *Scanner) scanComment(start int) {
	s.pos++ // the '*'
	for s.pos < len(s.src) {
		if s.src[s.pos] == '*' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/' {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.errorf(diag.TokenizationError, diag.Span{Start: start, End: s.pos},
		"unterminated comment")
}

// scanString consumes a quoted string. A newline before the closing quote
// yields a bad-string token (the newline is not consumed); EOF terminates
// the string with a diagnostic but still yields a string token, so valid
// trailing content of enclosing constructs can be recovered.
func (s *Scanner) scanString(start int, quote rune) token.Token {
	var buf strings.Builder
	for {
		ch := s.advance()
		switch {
		case ch == quote:
			return token.Token{
				Type:   token.String,
				Lexeme: s.src[start:s.pos],
				Value:  buf.String(),
				Span:   diag.Span{Start: start, End: s.pos},
			}
		case ch == eof:
			s.errorf(diag.TokenizationError, diag.Span{Start: start, End: s.pos},
				"unterminated string")
			return token.Token{
				Type:   token.String,
				Lexeme: s.src[start:s.pos],
				Value:  buf.String(),
				Span:   diag.Span{Start: start, End: s.pos},
			}
		case ch == '\n':
			s.pos-- // leave the newline for the next token
			s.errorf(diag.TokenizationError, diag.Span{Start: start, End: s.pos},
				"newline in string")
			return token.Token{
				Type:   token.BadString,
				Lexeme: s.src[start:s.pos],
				Span:   diag.Span{Start: start, End: s.pos},
			}
		case ch == '\\':
			next := s.peek(0)
			if next == eof {
				continue
			}
			if next == '\n' {
				s.advance() // escaped newline: line continuation
				continue
			}
			buf.WriteRune(s.consumeEscape())
		default:
			buf.WriteRune(ch)
		}
	}
}

func (s *Scanner) scanHash(start int) token.Token {
	if isName(s.peek(0)) || s.validEscape(0) {
		isID := s.wouldStartIdent()
		name := s.scanName()
		return token.Token{
			Type:   token.Hash,
			Lexeme: s.src[start:s.pos],
			Value:  name,
			IsID:   isID,
			Span:   diag.Span{Start: start, End: s.pos},
		}
	}
	return s.delim(start)
}

// scanNumeric consumes a number and greedily matches an immediately
// following unit name (dimension) or percent sign.
func (s *Scanner) scanNumeric(start int) token.Token {
	num, isInt := s.scanNumber()
	repr := s.src[start:s.pos]
	if s.wouldStartIdent() {
		unit := s.scanName()
		return token.Token{
			Type:   token.Dimension,
			Lexeme: s.src[start:s.pos],
			Value:  repr,
			Num:    num,
			Unit:   token.ASCIILower(unit),
			Int:    isInt,
			Span:   diag.Span{Start: start, End: s.pos},
		}
	}
	if s.peek(0) == '%' {
		s.advance()
		return token.Token{
			Type:   token.Percentage,
			Lexeme: s.src[start:s.pos],
			Value:  repr,
			Num:    num,
			Int:    isInt,
			Span:   diag.Span{Start: start, End: s.pos},
		}
	}
	return token.Token{
		Type:   token.Number,
		Lexeme: repr,
		Value:  repr,
		Num:    num,
		Int:    isInt,
		Span:   diag.Span{Start: start, End: s.pos},
	}
}

// scanNumber consumes sign, integer part, fraction and exponent.
func (s *Scanner) scanNumber() (float64, bool) {
	start := s.pos
	isInt := true
	if c := s.peek(0); c == '+' || c == '-' {
		s.advance()
	}
	for isDigit(s.peek(0)) {
		s.advance()
	}
	if s.peek(0) == '.' && isDigit(s.peek(1)) {
		isInt = false
		s.advance()
		for isDigit(s.peek(0)) {
			s.advance()
		}
	}
	if c := s.peek(0); c == 'e' || c == 'E' {
		i := 1
		if c1 := s.peek(1); c1 == '+' || c1 == '-' {
			i = 2
		}
		if isDigit(s.peek(i)) {
			isInt = false
			s.pos += i
			for isDigit(s.peek(0)) {
				s.advance()
			}
		}
	}
	num, _ := strconv.ParseFloat(s.src[start:s.pos], 64)
	return num, isInt
}

// scanIdentLike consumes an ident, function, or url token.
func (s *Scanner) scanIdentLike(start int) token.Token {
	name := s.scanName()
	if s.peek(0) == '(' {
		s.advance()
		if token.EqualFold(name, "url") {
			// url( followed by a quote is a function token wrapping a
			// string argument; otherwise consume a raw URL.
			i := 0
			for isWhitespace(s.peek(i)) {
				i++
			}
			if c := s.peek(i); c != '"' && c != '\'' {
				return s.scanURL(start)
			}
		}
		return token.Token{
			Type:   token.Function,
			Lexeme: s.src[start:s.pos],
			Value:  name,
			Span:   diag.Span{Start: start, End: s.pos},
		}
	}
	return token.Token{
		Type:   token.Ident,
		Lexeme: s.src[start:s.pos],
		Value:  name,
		Span:   diag.Span{Start: start, End: s.pos},
	}
}

// scanURL consumes the contents of an unquoted url() token. "url(" has
// already been consumed.
func (s *Scanner) scanURL(start int) token.Token {
	for isWhitespace(s.peek(0)) {
		s.advance()
	}
	var buf strings.Builder
	for {
		ch := s.advance()
		switch {
		case ch == ')':
			return token.Token{
				Type:   token.URL,
				Lexeme: s.src[start:s.pos],
				Value:  buf.String(),
				Span:   diag.Span{Start: start, End: s.pos},
			}
		case ch == eof:
			s.errorf(diag.TokenizationError, diag.Span{Start: start, End: s.pos},
				"unterminated url")
			return token.Token{
				Type:   token.URL,
				Lexeme: s.src[start:s.pos],
				Value:  buf.String(),
				Span:   diag.Span{Start: start, End: s.pos},
			}
		case isWhitespace(ch):
			for isWhitespace(s.peek(0)) {
				s.advance()
			}
			if c := s.peek(0); c == ')' || c == eof {
				continue
			}
			return s.scanBadURL(start)
		case ch == '"' || ch == '\'' || ch == '(' || isNonPrintable(ch):
			s.errorf(diag.TokenizationError, diag.Span{Start: start, End: s.pos},
				"invalid code point in url")
			return s.scanBadURL(start)
		case ch == '\\':
			s.pos--
			if s.validEscape(0) {
				s.pos++
				buf.WriteRune(s.consumeEscape())
				continue
			}
			s.pos++
			s.errorf(diag.TokenizationError, diag.Span{Start: start, End: s.pos},
				"unescaped backslash in url")
			return s.scanBadURL(start)
		default:
			buf.WriteRune(ch)
		}
	}
}

func (s *Scanner) scanBadURL(start int) token.Token {
	for {
		ch := s.advance()
		if ch == ')' || ch == eof {
			break
		}
		if ch == '\\' {
			s.pos--
			if s.validEscape(0) {
				s.pos++
				s.consumeEscape()
				continue
			}
			s.pos++
		}
	}
	return token.Token{
		Type:   token.BadURL,
		Lexeme: s.src[start:s.pos],
		Span:   diag.Span{Start: start, End: s.pos},
	}
}

// scanUnicodeRange consumes a unicode-range token. "u+" has been consumed.
func (s *Scanner) scanUnicodeRange(start int) token.Token {
	hexStart := s.pos
	n := 0
	for n < 6 && isHexDigit(s.peek(0)) {
		s.advance()
		n++
	}
	q := 0
	for n+q < 6 && s.peek(0) == '?' {
		s.advance()
		q++
	}
	first := s.src[hexStart:s.pos]
	var lo, hi int64
	if q > 0 {
		lo, _ = strconv.ParseInt(strings.ReplaceAll(first, "?", "0"), 16, 64)
		hi, _ = strconv.ParseInt(strings.ReplaceAll(first, "?", "F"), 16, 64)
	} else {
		lo, _ = strconv.ParseInt(first, 16, 64)
		hi = lo
		if s.peek(0) == '-' && isHexDigit(s.peek(1)) {
			s.advance()
			hexStart = s.pos
			for m := 0; m < 6 && isHexDigit(s.peek(0)); m++ {
				s.advance()
			}
			hi, _ = strconv.ParseInt(s.src[hexStart:s.pos], 16, 64)
		}
	}
	return token.Token{
		Type:   token.UnicodeRange,
		Lexeme: s.src[start:s.pos],
		Num:    float64(lo),
		Unit:   strconv.FormatInt(hi, 16),
		Span:   diag.Span{Start: start, End: s.pos},
	}
}

// scanName consumes name code points and escapes, returning the unescaped
// name.
func (s *Scanner) scanName() string {
	var buf strings.Builder
	for {
		ch := s.peek(0)
		if isName(ch) {
			buf.WriteRune(s.advance())
		} else if s.validEscape(0) {
			s.advance() // backslash
			buf.WriteRune(s.consumeEscape())
		} else {
			return buf.String()
		}
	}
}

// consumeEscape consumes an escaped code point; the backslash has already
// been consumed.
func (s *Scanner) consumeEscape() rune {
	ch := s.advance()
	if !isHexDigit(ch) {
		if ch == eof {
			return utf8.RuneError
		}
		return ch
	}
	hexStart := s.pos - 1
	for i := 0; i < 5 && isHexDigit(s.peek(0)); i++ {
		s.advance()
	}
	v, _ := strconv.ParseInt(s.src[hexStart:s.pos], 16, 32)
	if isWhitespace(s.peek(0)) {
		s.advance() // a single whitespace terminates the escape
	}
	if v == 0 || v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return utf8.RuneError
	}
	return rune(v)
}

// --- Lookahead predicates ---------------------------------------------------

// validEscape checks whether peek(i), peek(i+1) form a valid escape.
func (s *Scanner) validEscape(i int) bool {
	return s.peek(i) == '\\' && s.peek(i+1) != '\n' && s.peek(i+1) != eof
}

// wouldStartIdent checks whether the next code points start an identifier.
func (s *Scanner) wouldStartIdent() bool {
	switch c := s.peek(0); {
	case c == '-':
		c1 := s.peek(1)
		return isNameStart(c1) || c1 == '-' || s.validEscape(1)
	case isNameStart(c):
		return true
	case c == '\\':
		return s.validEscape(0)
	}
	return false
}

// wouldStartNumberAt checks the three code points at absolute offset.
func (s *Scanner) wouldStartNumberAt(off int) bool {
	save := s.pos
	s.pos = off
	defer func() { s.pos = save }()
	switch c := s.peek(0); {
	case c == '+' || c == '-':
		if isDigit(s.peek(1)) {
			return true
		}
		return s.peek(1) == '.' && isDigit(s.peek(2))
	case c == '.':
		return isDigit(s.peek(1))
	default:
		return isDigit(c)
	}
}

// --- Code point classes -----------------------------------------------------

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameStart(ch rune) bool {
	return isLetter(ch) || ch == '_' || ch >= 0x80
}

func isName(ch rune) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '-'
}

func isNonPrintable(ch rune) bool {
	return (ch >= 0 && ch <= 0x08) || ch == 0x0B || (ch >= 0x0E && ch <= 0x1F) || ch == 0x7F
}
