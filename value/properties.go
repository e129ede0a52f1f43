package value

import "github.com/npillmayer/csskit/token"

// propertyInfo drives property-name dispatch in the declaration parser.
type propertyInfo struct {
	color bool // value grammar accepts <color> keywords
}

// knownProperties is the set of properties the engine models. Everything
// else keeps its raw token sequence, trading minification for guaranteed
// round-trip fidelity.
var knownProperties = map[string]propertyInfo{
	"color":                 {color: true},
	"background":            {color: true},
	"background-color":      {color: true},
	"border-color":          {color: true},
	"border-top-color":      {color: true},
	"border-right-color":    {color: true},
	"border-bottom-color":   {color: true},
	"border-left-color":     {color: true},
	"outline-color":         {color: true},
	"text-decoration-color": {color: true},
	"caret-color":           {color: true},
	"column-rule-color":     {color: true},
	"accent-color":          {color: true},
	"fill":                  {color: true},
	"stroke":                {color: true},

	"margin":        {},
	"margin-top":    {},
	"margin-right":  {},
	"margin-bottom": {},
	"margin-left":   {},

	"padding":        {},
	"padding-top":    {},
	"padding-right":  {},
	"padding-bottom": {},
	"padding-left":   {},

	"inset":  {},
	"top":    {},
	"right":  {},
	"bottom": {},
	"left":   {},

	"border-width":        {},
	"border-top-width":    {},
	"border-right-width":  {},
	"border-bottom-width": {},
	"border-left-width":   {},
	"border-style":        {},
	"border-top-style":    {},
	"border-right-style":  {},
	"border-bottom-style": {},
	"border-left-style":   {},
	"border-radius":       {},

	"width":      {},
	"height":     {},
	"min-width":  {},
	"min-height": {},
	"max-width":  {},
	"max-height": {},

	"gap":        {},
	"row-gap":    {},
	"column-gap": {},

	"flex":            {},
	"flex-basis":      {},
	"flex-grow":       {},
	"flex-shrink":     {},
	"flex-direction":  {},
	"flex-wrap":       {},
	"justify-content": {},
	"align-items":     {},
	"align-content":   {},
	"align-self":      {},
	"order":           {},

	"display":        {},
	"position":       {},
	"float":          {},
	"clear":          {},
	"overflow":       {},
	"overflow-x":     {},
	"overflow-y":     {},
	"visibility":     {},
	"z-index":        {},
	"box-sizing":     {},
	"vertical-align": {},

	"font-size":       {},
	"font-weight":     {},
	"font-style":      {},
	"line-height":     {},
	"letter-spacing":  {},
	"word-spacing":    {},
	"text-align":      {},
	"text-transform":  {},
	"text-indent":     {},
	"white-space":     {},
	"tab-size":        {},
	"hyphens":         {},
	"user-select":     {},
	"appearance":      {},
	"backdrop-filter": {},
	"mask":            {},
	"mask-image":      {},

	"opacity":                   {},
	"transform":                 {},
	"transform-origin":          {},
	"transition":                {},
	"transition-property":       {},
	"transition-duration":       {},
	"transition-delay":          {},
	"transition-timing-function": {},
	"animation":                 {},
	"animation-name":            {},
	"animation-duration":        {},
	"animation-delay":           {},
	"animation-timing-function": {},
	"animation-iteration-count": {},
	"animation-direction":       {},
	"animation-fill-mode":       {},
	"animation-play-state":      {},
	"will-change":               {},
	"cursor":                    {},
	"content":                   {},
	"background-image":          {},
	"background-position":       {},
	"background-size":           {},
	"background-repeat":         {},
	"box-shadow":                {color: true},
	"text-shadow":               {color: true},
}

// IsKnownProperty reports whether the engine has a value grammar for the
// property. Custom properties are never "known"; they stay raw by design.
func IsKnownProperty(property string) bool {
	_, ok := knownProperties[token.ASCIILower(property)]
	return ok
}

// IsColorProperty reports whether idents in the property's value may be
// color keywords.
func IsColorProperty(property string) bool {
	return knownProperties[token.ASCIILower(property)].color
}

// lengthUnits are the units eligible for the unitless-zero rewrite.
// Angles, times, frequencies and resolutions keep their unit: a bare 0
// is not a valid <angle> or <time> in any property grammar.
var lengthUnits = map[string]bool{
	"px": true, "em": true, "rem": true, "ex": true, "ch": true,
	"cap": true, "ic": true, "lh": true, "rlh": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true, "vb": true, "vi": true,
	"cm": true, "mm": true, "q": true, "in": true, "pt": true, "pc": true,
	"cqw": true, "cqh": true, "cqi": true, "cqb": true, "cqmin": true, "cqmax": true,
}

// IsLengthUnit reports whether unit (lowercase) denotes a length.
func IsLengthUnit(unit string) bool {
	return lengthUnits[unit]
}
