/*
Package transform rewrites the AST between parsing and printing. Each
pass is total over the tree: it rewrites the constructs it targets and
leaves everything else untouched. The pipeline order is fixed; which
passes are active is a pure function of the configuration.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package transform

import (
	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/compat"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.transform'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.transform")
}

// Config selects and parameterizes the passes.
type Config struct {
	// Targets and Table drive downleveling and prefixing; empty targets
	// disable both.
	Targets compat.Targets
	Table   compat.FeatureTable
	// Minify enables the structural minification passes (value and
	// selector rewrites, shorthand folding, dead-code removal).
	Minify bool
	// CSSModules scopes class, id and keyframes names; ModuleName seeds
	// the scoping hash.
	CSSModules bool
	ModuleName string
	// UnusedSymbols are class/id/keyframes names known to be unreferenced;
	// rules using them exclusively are removed.
	UnusedSymbols []string
}

// Context carries cross-pass state and pass results.
type Context struct {
	Targets compat.Targets
	Table   compat.FeatureTable
	// Exports maps original class/id/keyframes names to their scoped
	// replacements; filled by the module-scoping pass.
	Exports map[string]string
	unused  map[string]bool
	minify  bool
}

// Pass is one AST rewrite.
type Pass interface {
	Name() string
	Run(sheet *ast.StyleSheet, ctx *Context)
}

// Pipeline returns the ordered active passes for a configuration.
// Flattening runs first so later passes see only flat rules; minification
// runs after downleveling so inserted fallbacks are minified too; scoping
// runs late so folded shorthands keep scoped names; dead-code removal is
// always last. Nested rules survive only when every target supports them
// natively and output is not minified.
func Pipeline(cfg Config) []Pass {
	table := cfg.Table
	if table == nil {
		table = compat.DefaultTable()
	}
	keepNesting := !cfg.Minify && !cfg.Targets.IsEmpty() &&
		cfg.Targets.Supports(table, compat.Nesting)
	var passes []Pass
	if !keepNesting {
		passes = append(passes, nestingPass{})
	}
	if !cfg.Targets.IsEmpty() {
		passes = append(passes, downlevelPass{}, prefixPass{})
	}
	if cfg.Minify {
		passes = append(passes, shorthandPass{}, minifyValuesPass{}, minifySelectorsPass{})
	}
	if cfg.CSSModules {
		passes = append(passes, modulesPass{moduleName: cfg.ModuleName})
	}
	if cfg.Minify || len(cfg.UnusedSymbols) > 0 {
		passes = append(passes, deadCodePass{})
	}
	return passes
}

// Run applies the configured pipeline to the stylesheet and returns the
// pass results.
func Run(sheet *ast.StyleSheet, cfg Config) *Context {
	table := cfg.Table
	if table == nil {
		table = compat.DefaultTable()
	}
	ctx := &Context{
		Targets: cfg.Targets,
		Table:   table,
		Exports: map[string]string{},
		unused:  map[string]bool{},
		minify:  cfg.Minify,
	}
	for _, s := range cfg.UnusedSymbols {
		ctx.unused[s] = true
	}
	for _, p := range Pipeline(cfg) {
		tracer().Debugf("pass %s", p.Name())
		p.Run(sheet, ctx)
	}
	return ctx
}

// supports is the capability query all downleveling decisions go through.
func (ctx *Context) supports(f compat.Feature) bool {
	return ctx.Targets.Supports(ctx.Table, f)
}

// eachDeclaration visits every declaration in the tree.
func eachDeclaration(rules []ast.Rule, f func(*ast.Declaration)) {
	ast.WalkRules(rules, func(r ast.Rule) {
		if d, ok := r.(*ast.Declaration); ok {
			f(d)
		}
	})
}
