package ast

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import "github.com/npillmayer/csskit/token"

// SelectorList is the comma-separated prelude of a style rule.
type SelectorList []ComplexSelector

// ComplexSelector is an ordered sequence of selector components.
//
// Invariant: the sequence begins with a compound selector component or a
// nesting placeholder; combinators never appear first or last and never
// adjacent. The selector grammar parser enforces this.
type ComplexSelector []SelComponent

// SelComponent is the closed interface over selector components.
type SelComponent interface {
	selComponent()
}

func (TypeSelector) selComponent()          {}
func (UniversalSelector) selComponent()     {}
func (ClassSelector) selComponent()         {}
func (IDSelector) selComponent()            {}
func (AttributeSelector) selComponent()     {}
func (PseudoClassSelector) selComponent()   {}
func (PseudoElementSelector) selComponent() {}
func (Combinator) selComponent()            {}
func (NestingSelector) selComponent()       {}

// TypeSelector matches an element name, e.g. "div".
type TypeSelector struct {
	Name string
}

// UniversalSelector is "*".
type UniversalSelector struct{}

// ClassSelector matches a class, e.g. ".box".
type ClassSelector struct {
	Name string
}

// IDSelector matches an id, e.g. "#app".
type IDSelector struct {
	Name string
}

// AttributeSelector matches "[name]", "[name=value]" and friends.
// Op is one of "", "=", "~=", "|=", "^=", "$=", "*=" ("" means presence
// only). CaseFlag is 0, 'i' or 's'.
type AttributeSelector struct {
	Name     string
	Op       string
	Value    string
	Quoted   bool // value was written as a string
	CaseFlag byte
}

// PseudoClassSelector matches ":hover", ":not(.a)", ":nth-child(2n+1)".
// For the logical pseudo-classes (:not, :is, :where, :has) the argument is
// a parsed selector list; for everything else the raw argument tokens are
// kept.
type PseudoClassSelector struct {
	Name      string
	Selectors SelectorList  // non-nil for logical pseudo-classes
	Args      []token.Token // raw arguments otherwise, nil if none
	HasArgs   bool
}

// PseudoElementSelector matches "::before" and functional pseudo-elements
// like "::part(name)". Legacy is set when the source used the
// single-colon CSS2 form.
type PseudoElementSelector struct {
	Name    string
	Legacy  bool
	Args    []token.Token
	HasArgs bool
}

// CombinatorKind enumerates the four CSS combinators.
type CombinatorKind int

const (
	Descendant CombinatorKind = iota
	Child
	NextSibling
	SubsequentSibling
)

func (k CombinatorKind) String() string {
	switch k {
	case Child:
		return ">"
	case NextSibling:
		return "+"
	case SubsequentSibling:
		return "~"
	}
	return " "
}

// Combinator separates two compound selectors.
type Combinator struct {
	Kind CombinatorKind
}

// NestingSelector is the "&" placeholder inside nested rules.
type NestingSelector struct{}

// Leading reports whether the selector starts with a nesting placeholder.
func (c ComplexSelector) Leading() SelComponent {
	if len(c) == 0 {
		return nil
	}
	return c[0]
}

// HasNesting reports whether the selector contains an "&" anywhere.
func (c ComplexSelector) HasNesting() bool {
	for _, comp := range c {
		if _, ok := comp.(NestingSelector); ok {
			return true
		}
	}
	return false
}

// Specificity computes the (a,b,c) specificity triple of the selector.
// The nesting placeholder contributes nothing here; it assumes the
// specificity of the parent selector after flattening.
func (c ComplexSelector) Specificity() (a, b, cc int) {
	for _, comp := range c {
		switch sc := comp.(type) {
		case IDSelector:
			a++
		case ClassSelector, AttributeSelector:
			b++
		case PseudoClassSelector:
			switch sc.Name {
			case "where":
				// zero specificity
			case "not", "is", "has":
				// specificity of the most specific argument
				var ma, mb, mc int
				for _, s := range sc.Selectors {
					sa, sb, scc := s.Specificity()
					if sa > ma || (sa == ma && (sb > mb || (sb == mb && scc > mc))) {
						ma, mb, mc = sa, sb, scc
					}
				}
				a += ma
				b += mb
				cc += mc
			default:
				b++
			}
		case PseudoElementSelector:
			cc++
		case TypeSelector:
			cc++
		}
	}
	return a, b, cc
}
