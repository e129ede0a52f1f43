/*
Package diag defines the diagnostic model shared by all compiler stages.

Recoverable problems — a malformed declaration, an invalid selector, an
import that cannot be resolved — are collected as Diagnostics and never
abort a compilation. Only structurally unrecoverable input (the token
stream cannot be re-synchronized) surfaces as an error from the top-level
API.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package diag

import "fmt"

// Span is a half-open byte range [Start,End) into the source text a
// diagnostic or AST node originates from.
type Span struct {
	Start int
	End   int
}

// Extend returns the smallest span covering both s and other.
func (s Span) Extend(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// IsZero is true for the empty span at offset 0, used for synthesized nodes.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Kind classifies a diagnostic.
type Kind int

const (
	TokenizationError Kind = iota + 1
	GrammarDepthExceeded
	InvalidSelector
	InvalidDeclarationValue
	UnknownAtRuleViolation
	ImportResolutionFailure
)

func (k Kind) String() string {
	switch k {
	case TokenizationError:
		return "tokenization-error"
	case GrammarDepthExceeded:
		return "grammar-depth-exceeded"
	case InvalidSelector:
		return "invalid-selector"
	case InvalidDeclarationValue:
		return "invalid-declaration-value"
	case UnknownAtRuleViolation:
		return "unknown-at-rule-violation"
	case ImportResolutionFailure:
		return "import-resolution-failure"
	}
	return "unknown"
}

// Severity of a diagnostic. Errors denote constructs which have been
// dropped from the output; warnings denote constructs which were kept,
// possibly in rewritten form.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a recoverable problem found during compilation, localized
// to a byte span of the input.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Span     Span
	Severity Severity
}

// Error makes Diagnostic usable as an error value.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s (at %d–%d)", d.Kind, d.Message, d.Span.Start, d.Span.End)
}

// Errorf creates an error-severity diagnostic.
func Errorf(kind Kind, span Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Severity: Error,
	}
}

// Warnf creates a warning-severity diagnostic.
func Warnf(kind Kind, span Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Severity: Warning,
	}
}
