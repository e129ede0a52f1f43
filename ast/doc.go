/*
Package ast defines the syntax tree for one stylesheet: rules, at-rules,
declarations, selectors and property values. It is the shared data model
between the parser, the transform passes and the printer.

The tree is a closed set of tagged variants. Constructs the engine does
not model are carried in explicit Raw/opaque variants (RawValue,
UnknownAtRule) rather than dropped, so that unknown-but-valid input
round-trips faithfully.

An AST is created once per input document, mutated in place by the
transform pipeline, printed exactly once, and then discarded. It owns all
its token-derived data; only diagnostic spans refer back to the input
buffer.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package ast

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.ast'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.ast")
}
