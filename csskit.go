/*
Package csskit compiles CSS stylesheets: it parses a source text into an
AST, applies the configured transformations (nesting flattening,
browser-targeted downleveling, vendor prefixing, minification, module
scoping, dead-code removal) and prints the result, optionally with a
source map.

Compilation is error-tolerant: a malformed declaration, selector or
literal discards only the construct it belongs to and surfaces as a
diagnostic in the result; the rest of the document compiles.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package csskit

import (
	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/compat"
	"github.com/npillmayer/csskit/diag"
	"github.com/npillmayer/csskit/parser"
	"github.com/npillmayer/csskit/printer"
	"github.com/npillmayer/csskit/sourcemap"
	"github.com/npillmayer/csskit/transform"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit'.
func tracer() tracing.Trace {
	return tracing.Select("csskit")
}

// Drafts enables draft CSS features in the parser.
type Drafts struct {
	// Nesting enables nested style rules, which the compiler flattens.
	Nesting bool
	// CustomMedia enables the @custom-media at-rule.
	CustomMedia bool
}

// Options configure a compilation.
type Options struct {
	// Filename names the input; it seeds module scoping and appears in
	// the source map.
	Filename string
	// Targets are the browsers the output must run on; empty disables
	// downleveling and prefixing.
	Targets compat.Targets
	// FeatureTable overrides the built-in capability table.
	FeatureTable compat.FeatureTable
	// Minify produces minimal output and enables the structural
	// minification passes.
	Minify bool
	// Indent is the per-level indentation of pretty output; empty
	// selects two spaces. Ignored when minifying.
	Indent string
	// SourceMap emits a revision-3 source map in Result.Map.
	SourceMap bool
	// CSSModules scopes class, id and keyframes names and fills
	// Result.Exports.
	CSSModules bool
	// ErrorRecovery keeps compiling past recoverable errors; when false,
	// the first error aborts compilation.
	ErrorRecovery bool
	// Drafts enables draft syntax.
	Drafts Drafts
	// MaxNestingDepth bounds grammar recursion; 0 selects the default.
	MaxNestingDepth int
	// ImportResolver loads the text of an @import target. When set,
	// imports are spliced into the output; when nil, @import rules pass
	// through unchanged.
	ImportResolver func(url string) ([]byte, error)
	// UnusedSymbols are class/id/keyframes names known to be
	// unreferenced; rules using them exclusively are removed.
	UnusedSymbols []string
}

// Result is the outcome of a compilation.
type Result struct {
	// Code is the compiled stylesheet.
	Code string
	// Map is the source map, when requested.
	Map []byte
	// Exports maps original names to scoped names, when CSSModules is on.
	Exports map[string]string
	// Warnings are the diagnostics recovered from during compilation.
	Warnings []diag.Diagnostic
}

// importDepthLimit bounds @import recursion; cycles are detected by URL,
// the depth limit catches self-amplifying chains of distinct URLs.
const importDepthLimit = 32

// Compile compiles one stylesheet.
func Compile(source string, opts Options) (*Result, error) {
	popts := parser.Options{
		Nesting:       opts.Drafts.Nesting,
		CustomMedia:   opts.Drafts.CustomMedia,
		MaxDepth:      opts.MaxNestingDepth,
		ErrorRecovery: opts.ErrorRecovery,
	}
	sheet, diags, err := parser.Parse(source, popts)
	if err != nil {
		return nil, err
	}
	if opts.ImportResolver != nil {
		seen := map[string]bool{}
		sheet.Rules, diags, err = spliceImports(sheet.Rules, diags, popts, opts, seen, 0)
		if err != nil {
			return nil, err
		}
	}

	ctx := transform.Run(sheet, transform.Config{
		Targets:       opts.Targets,
		Table:         opts.FeatureTable,
		Minify:        opts.Minify,
		CSSModules:    opts.CSSModules,
		ModuleName:    opts.Filename,
		UnusedSymbols: opts.UnusedSymbols,
	})

	code, mappings := printer.Print(sheet, printer.Options{Minify: opts.Minify, Indent: opts.Indent})
	result := &Result{Code: code, Warnings: diags}
	if opts.CSSModules {
		result.Exports = ctx.Exports
	}
	if opts.SourceMap {
		result.Map, err = sourcemap.Generate(source, code, mappings, sourcemap.Options{
			SourceName: opts.Filename,
		})
		if err != nil {
			return nil, err
		}
	}
	tracer().Debugf("compiled %d bytes with %d warnings", len(code), len(diags))
	return result, nil
}

// spliceImports replaces @import rules with the rules of the imported
// sheet. An import with a media tail keeps its conditionality by
// wrapping the spliced rules in @media. Failed or cyclic imports stay
// in place and produce a diagnostic.
func spliceImports(rules []ast.Rule, diags []diag.Diagnostic, popts parser.Options,
	opts Options, seen map[string]bool, depth int) ([]ast.Rule, []diag.Diagnostic, error) {

	var out []ast.Rule
	for _, r := range rules {
		imp, ok := r.(*ast.ImportRule)
		if !ok {
			out = append(out, r)
			continue
		}
		if seen[imp.URL] || depth >= importDepthLimit {
			d := diag.Warnf(diag.ImportResolutionFailure, imp.Loc,
				"circular @import of %q", imp.URL)
			diags = append(diags, d)
			continue
		}
		data, err := opts.ImportResolver(imp.URL)
		if err != nil {
			d := diag.Errorf(diag.ImportResolutionFailure, imp.Loc,
				"cannot resolve @import %q: %v", imp.URL, err)
			if !opts.ErrorRecovery {
				return nil, append(diags, d), parser.ErrFatalParse
			}
			diags = append(diags, d)
			out = append(out, imp)
			continue
		}
		seen[imp.URL] = true
		inner, innerDiags, err := parser.Parse(string(data), popts)
		if err != nil {
			return nil, append(diags, innerDiags...), err
		}
		diags = append(diags, innerDiags...)
		spliced, spDiags, err := spliceImports(inner.Rules, nil, popts, opts, seen, depth+1)
		if err != nil {
			return nil, append(diags, spDiags...), err
		}
		diags = append(diags, spDiags...)
		delete(seen, imp.URL)
		if len(imp.Media) > 0 {
			out = append(out, &ast.MediaRule{
				Queries: []*ast.MediaQuery{{Raw: imp.Media}},
				Body:    spliced,
				Loc:     imp.Loc,
			})
			continue
		}
		out = append(out, spliced...)
	}
	return out, diags, nil
}
