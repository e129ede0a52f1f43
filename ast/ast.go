package ast

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/csskit/diag"
	"github.com/npillmayer/csskit/token"
)

// StyleSheet is the root of the tree: an ordered sequence of top-level
// rules. Order is semantically meaningful (cascade order) and is preserved
// by every pass unless a pass documents otherwise.
type StyleSheet struct {
	Rules []Rule
}

// Rule is the closed interface over everything that may appear in a rule
// list: style rules, at-rules and — inside declaration blocks —
// declarations.
type Rule interface {
	Span() diag.Span
	rule()
}

func (r *StyleRule) rule()     {}
func (r *Declaration) rule()   {}
func (r *MediaRule) rule()     {}
func (r *ImportRule) rule()    {}
func (r *KeyframesRule) rule() {}
func (r *KnownAtRule) rule()   {}
func (r *UnknownAtRule) rule() {}

// StyleRule is a qualified rule: a selector list and a body of
// declarations and (while nesting is still unflattened) nested rules,
// in source order.
type StyleRule struct {
	Selectors SelectorList
	Body      []Rule
	Loc       diag.Span
}

func (r *StyleRule) Span() diag.Span { return r.Loc }

// Declarations returns the declarations of the rule body, in order.
func (r *StyleRule) Declarations() []*Declaration {
	var decls []*Declaration
	for _, item := range r.Body {
		if d, ok := item.(*Declaration); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// Declaration is a property/value pair. For properties the engine has no
// value grammar for, Value is a RawValue wrapping the original tokens,
// guaranteeing round-trip fidelity. Custom properties (--x) are always
// raw.
type Declaration struct {
	Property  string // lowercased, except custom properties (case-sensitive)
	Value     Value
	Important bool
	Custom    bool
	Loc       diag.Span
}

func (d *Declaration) Span() diag.Span { return d.Loc }

// MediaRule is an @media rule with a parsed query list.
type MediaRule struct {
	Queries []*MediaQuery
	Body    []Rule
	Loc     diag.Span
}

func (r *MediaRule) Span() diag.Span { return r.Loc }

// MediaQuery is one comma-separated member of an @media prelude.
// Conditions the engine does not model are kept as raw tokens.
type MediaQuery struct {
	Modifier  string // "", "not" or "only"
	MediaType string // "", "all", "screen", "print", …
	Features  []*MediaFeature
	Raw       []token.Token // non-nil: reprint verbatim, ignore other fields
}

// MediaFeatureKind discriminates plain, boolean and range-syntax features.
type MediaFeatureKind int

const (
	MFPlain   MediaFeatureKind = iota // (min-width: 600px)
	MFBoolean                         // (color)
	MFRange                           // (width <= 600px)
)

// MediaFeature is a single parenthesized media condition, combined with
// its siblings by "and".
type MediaFeature struct {
	Kind  MediaFeatureKind
	Name  string
	Value Value  // nil for boolean features
	Op    string // range syntax only: "<", "<=", ">", ">=", "="
}

// ImportRule is an @import rule. Media holds the raw supports/media tail
// of the prelude, if any.
type ImportRule struct {
	URL   string
	Media []token.Token
	Loc   diag.Span
}

func (r *ImportRule) Span() diag.Span { return r.Loc }

// KeyframesRule is an @keyframes rule (possibly vendor-prefixed).
type KeyframesRule struct {
	VendorPrefix string // "", "-webkit-", "-moz-", …
	Name         string
	Blocks       []*KeyframeBlock
	Loc          diag.Span
}

func (r *KeyframesRule) Span() diag.Span { return r.Loc }

// KeyframeBlock is one "from | to | <percentage>+ { … }" block.
type KeyframeBlock struct {
	Selectors []string // "from", "to", "25%", …
	Body      []Rule   // declarations only
	Loc       diag.Span
}

// BlockPolicy describes what an at-rule's block contains. The at-rule
// table in the parser assigns a policy per at-keyword.
type BlockPolicy int

const (
	NoBlock          BlockPolicy = iota // @import, @charset, @namespace
	DeclarationBlock                    // @font-face, @page, @property
	RuleListBlock                       // @media, @supports, @layer
)

// KnownAtRule covers at-rules the engine recognizes but models only as a
// prelude plus a typed block: @supports, @font-face, @page, @layer,
// @namespace, @charset, @property, @custom-media.
type KnownAtRule struct {
	Name    string // lowercased, without '@'
	Prelude []token.Token
	Policy  BlockPolicy
	Body    []Rule // nil when Policy == NoBlock
	Loc     diag.Span
}

func (r *KnownAtRule) Span() diag.Span { return r.Loc }

// UnknownAtRule is an at-rule outside the engine's table. Raw holds the
// complete source text of the rule (from '@' through its closing brace or
// semicolon) and is reprinted verbatim — unknown at-rules are never
// dropped or reformatted.
type UnknownAtRule struct {
	Name string
	Raw  string
	Loc  diag.Span
}

func (r *UnknownAtRule) Span() diag.Span { return r.Loc }
