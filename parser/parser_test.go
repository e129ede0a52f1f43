package parser

import (
	"strings"
	"testing"

	dparser "github.com/aymerick/douceur/parser"
	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/diag"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func mustParse(t *testing.T, src string, opts Options) (*ast.StyleSheet, []diag.Diagnostic) {
	t.Helper()
	sheet, diags, err := Parse(src, opts)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return sheet, diags
}

func TestParseSimpleRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.parser")
	defer teardown()
	//
	sheet, diags := mustParse(t, ".a { color: red; margin: 0 }", Options{ErrorRecovery: true})
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	sr, ok := sheet.Rules[0].(*ast.StyleRule)
	if !ok {
		t.Fatalf("expected style rule, got %T", sheet.Rules[0])
	}
	decls := sr.Declarations()
	if len(decls) != 2 || decls[0].Property != "color" || decls[1].Property != "margin" {
		t.Errorf("declarations parsed wrong: %#v", decls)
	}
	if _, ok := decls[0].Value.(*ast.Color); !ok {
		t.Errorf("expected color value, got %#v", decls[0].Value)
	}
}

func TestParseImportant(t *testing.T) {
	sheet, _ := mustParse(t, "p { width: 10px !important }", Options{ErrorRecovery: true})
	d := sheet.Rules[0].(*ast.StyleRule).Declarations()[0]
	if !d.Important {
		t.Error("expected !important flag")
	}
	if dim, ok := d.Value.(ast.Dimension); !ok || dim.Value != 10 {
		t.Errorf("value parsed wrong: %#v", d.Value)
	}
}

func TestCustomPropertyStaysRaw(t *testing.T) {
	sheet, _ := mustParse(t, ":root { --Main-Color: #00ff00 }", Options{ErrorRecovery: true})
	d := sheet.Rules[0].(*ast.StyleRule).Declarations()[0]
	if !d.Custom || d.Property != "--Main-Color" {
		t.Fatalf("custom property mangled: %#v", d)
	}
	if _, ok := d.Value.(ast.RawValue); !ok {
		t.Errorf("custom property value must stay raw, got %#v", d.Value)
	}
}

func TestUnknownPropertyStaysRaw(t *testing.T) {
	sheet, _ := mustParse(t, "p { -foo-frobnicate: 3 bits }", Options{ErrorRecovery: true})
	d := sheet.Rules[0].(*ast.StyleRule).Declarations()[0]
	if _, ok := d.Value.(ast.RawValue); !ok {
		t.Errorf("unknown property value must stay raw, got %#v", d.Value)
	}
}

func TestErrorContainment(t *testing.T) {
	// the unterminated string poisons one declaration; the sibling rule
	// and the following declaration still compile
	src := ".a { content: \"oops\n; color: red }\n.b { margin: 0 }"
	sheet, diags := mustParse(t, src, Options{ErrorRecovery: true})
	if len(diags) == 0 {
		t.Fatal("expected a tokenization diagnostic")
	}
	if len(sheet.Rules) != 2 {
		t.Fatalf("expected 2 rules to survive, got %d", len(sheet.Rules))
	}
	if got := len(sheet.Rules[1].(*ast.StyleRule).Declarations()); got != 1 {
		t.Errorf("sibling rule should keep its declaration, got %d", got)
	}
}

func TestFatalWithoutRecovery(t *testing.T) {
	_, _, err := Parse(".a { color:: red }", Options{ErrorRecovery: false})
	if err != ErrFatalParse {
		t.Errorf("expected ErrFatalParse, got %v", err)
	}
}

func TestInvalidSelectorDropsRule(t *testing.T) {
	sheet, diags := mustParse(t, ".a >> .b { color: red }\n.c { color: blue }",
		Options{ErrorRecovery: true})
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected broken rule to be dropped, got %d rules", len(sheet.Rules))
	}
	found := false
	for _, d := range diags {
		if d.Kind == diag.InvalidSelector {
			found = true
		}
	}
	if !found {
		t.Error("expected an invalid-selector diagnostic")
	}
}

func TestParseMediaRule(t *testing.T) {
	sheet, _ := mustParse(t, "@media screen and (min-width: 600px) { p { color: red } }",
		Options{ErrorRecovery: true})
	mr, ok := sheet.Rules[0].(*ast.MediaRule)
	if !ok {
		t.Fatalf("expected media rule, got %T", sheet.Rules[0])
	}
	if len(mr.Queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(mr.Queries))
	}
	q := mr.Queries[0]
	if q.MediaType != "screen" || len(q.Features) != 1 {
		t.Fatalf("query parsed wrong: %#v", q)
	}
	f := q.Features[0]
	if f.Kind != ast.MFPlain || f.Name != "min-width" {
		t.Errorf("feature parsed wrong: %#v", f)
	}
	if len(mr.Body) != 1 {
		t.Errorf("expected 1 nested rule, got %d", len(mr.Body))
	}
}

func TestParseMediaRangeSyntax(t *testing.T) {
	sheet, _ := mustParse(t, "@media (width <= 600px) { p { color: red } }",
		Options{ErrorRecovery: true})
	q := sheet.Rules[0].(*ast.MediaRule).Queries[0]
	if len(q.Features) != 1 {
		t.Fatalf("expected 1 feature, got %#v", q)
	}
	f := q.Features[0]
	if f.Kind != ast.MFRange || f.Op != "<=" || f.Name != "width" {
		t.Errorf("range feature parsed wrong: %#v", f)
	}
}

func TestParseImport(t *testing.T) {
	sheet, _ := mustParse(t, `@import "base.css" screen;`, Options{ErrorRecovery: true})
	ir, ok := sheet.Rules[0].(*ast.ImportRule)
	if !ok || ir.URL != "base.css" {
		t.Fatalf("import parsed wrong: %#v", sheet.Rules[0])
	}
	if len(ir.Media) == 0 {
		t.Error("expected media tail to be retained")
	}
	sheet, _ = mustParse(t, `@import url(theme.css);`, Options{ErrorRecovery: true})
	if ir := sheet.Rules[0].(*ast.ImportRule); ir.URL != "theme.css" {
		t.Errorf("url() import parsed wrong: %#v", ir)
	}
}

func TestParseKeyframes(t *testing.T) {
	src := `@keyframes spin { from { transform: rotate(0deg) } 50% { opacity: 0.5 } to { transform: rotate(360deg) } }`
	sheet, diags := mustParse(t, src, Options{ErrorRecovery: true})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	kf, ok := sheet.Rules[0].(*ast.KeyframesRule)
	if !ok || kf.Name != "spin" || kf.VendorPrefix != "" {
		t.Fatalf("keyframes parsed wrong: %#v", sheet.Rules[0])
	}
	if len(kf.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(kf.Blocks))
	}
	if kf.Blocks[1].Selectors[0] != "50%" {
		t.Errorf("percentage selector parsed wrong: %q", kf.Blocks[1].Selectors[0])
	}
}

func TestParseVendorPrefixedKeyframes(t *testing.T) {
	sheet, _ := mustParse(t, `@-webkit-keyframes fade { to { opacity: 0 } }`,
		Options{ErrorRecovery: true})
	kf := sheet.Rules[0].(*ast.KeyframesRule)
	if kf.VendorPrefix != "-webkit-" || kf.Name != "fade" {
		t.Errorf("prefixed keyframes parsed wrong: %#v", kf)
	}
}

func TestUnknownAtRuleKeptVerbatim(t *testing.T) {
	raw := `@font-feature-values Cheese { @styleset { nice: 12; } }`
	sheet, diags := mustParse(t, raw+"\np { color: red }", Options{ErrorRecovery: true})
	if len(diags) != 0 {
		t.Fatalf("unknown at-rule must not produce diagnostics: %v", diags)
	}
	ur, ok := sheet.Rules[0].(*ast.UnknownAtRule)
	if !ok {
		t.Fatalf("expected unknown at-rule, got %T", sheet.Rules[0])
	}
	if ur.Raw != raw {
		t.Errorf("raw text mangled:\n got %q\nwant %q", ur.Raw, raw)
	}
}

func TestUnknownAtRuleInsideBlock(t *testing.T) {
	sheet, _ := mustParse(t, "@media print{@foo x}", Options{ErrorRecovery: true})
	mr, ok := sheet.Rules[0].(*ast.MediaRule)
	if !ok || len(mr.Body) != 1 {
		t.Fatalf("expected media rule with one item, got %#v", sheet.Rules[0])
	}
	ua := mr.Body[0].(*ast.UnknownAtRule)
	if strings.Contains(ua.Raw, "}") {
		t.Errorf("blockless at-rule must not swallow the enclosing brace: %q", ua.Raw)
	}
	if !strings.HasPrefix(ua.Raw, "@foo") {
		t.Errorf("raw text lost: %q", ua.Raw)
	}
}

func TestKnownAtRulesWithPolicies(t *testing.T) {
	src := `@charset "utf-8";
@supports (display: grid) { p { color: red } }
@font-face { font-family: "X"; src: url(x.woff2); }`
	sheet, _ := mustParse(t, src, Options{ErrorRecovery: true})
	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(sheet.Rules))
	}
	cs := sheet.Rules[0].(*ast.KnownAtRule)
	if cs.Name != "charset" || cs.Policy != ast.NoBlock {
		t.Errorf("@charset parsed wrong: %#v", cs)
	}
	sup := sheet.Rules[1].(*ast.KnownAtRule)
	if sup.Policy != ast.RuleListBlock || len(sup.Body) != 1 {
		t.Errorf("@supports parsed wrong: %#v", sup)
	}
	ff := sheet.Rules[2].(*ast.KnownAtRule)
	if ff.Policy != ast.DeclarationBlock || len(ff.Body) != 2 {
		t.Errorf("@font-face parsed wrong: %#v", ff)
	}
}

func TestCharsetOtherThanUTF8Warns(t *testing.T) {
	sheet, diags := mustParse(t, `@charset "iso-8859-15";`, Options{ErrorRecovery: true})
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected the rule to be kept, got %d rules", len(sheet.Rules))
	}
	if len(diags) != 1 || diags[0].Kind != diag.UnknownAtRuleViolation {
		t.Errorf("expected a charset warning, got %v", diags)
	}
	if diags[0].Severity != diag.Warning {
		t.Errorf("charset mismatch must not be fatal: %v", diags[0])
	}
}

func TestParseLayerBothForms(t *testing.T) {
	sheet, _ := mustParse(t, "@layer base, theme;\n@layer base { p { color: red } }",
		Options{ErrorRecovery: true})
	stmt := sheet.Rules[0].(*ast.KnownAtRule)
	if stmt.Policy != ast.NoBlock || len(stmt.Body) != 0 {
		t.Errorf("@layer statement parsed wrong: %#v", stmt)
	}
	blk := sheet.Rules[1].(*ast.KnownAtRule)
	if blk.Policy != ast.RuleListBlock || len(blk.Body) != 1 {
		t.Errorf("@layer block parsed wrong: %#v", blk)
	}
}

func TestDepthExceededDropsOnlyTheValue(t *testing.T) {
	deep := strings.Repeat("calc(", 20) + "1px" + strings.Repeat(")", 20)
	sheet, diags := mustParse(t, ".a { width: "+deep+"; color: red }",
		Options{MaxDepth: 8, ErrorRecovery: true})
	if len(diags) != 1 || diags[0].Kind != diag.GrammarDepthExceeded {
		t.Fatalf("expected one depth diagnostic, got %v", diags)
	}
	decls := sheet.Rules[0].(*ast.StyleRule).Declarations()
	if len(decls) != 1 || decls[0].Property != "color" {
		t.Errorf("sibling declaration must survive: %#v", decls)
	}
}

func TestCustomMediaResolved(t *testing.T) {
	src := `@custom-media --narrow (max-width: 600px);
@media (--narrow) { p { color: red } }`
	sheet, diags := mustParse(t, src, Options{CustomMedia: true, ErrorRecovery: true})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(sheet.Rules) != 1 {
		t.Fatalf("definition should be consumed, got %d rules", len(sheet.Rules))
	}
	mr := sheet.Rules[0].(*ast.MediaRule)
	f := mr.Queries[0].Features[0]
	if f.Kind != ast.MFPlain || f.Name != "max-width" {
		t.Errorf("reference not resolved: %#v", f)
	}
}

func TestCustomMediaCombined(t *testing.T) {
	src := `@custom-media --narrow (max-width: 600px);
@media screen and (--narrow) { p { color: red } }`
	sheet, _ := mustParse(t, src, Options{CustomMedia: true, ErrorRecovery: true})
	q := sheet.Rules[0].(*ast.MediaRule).Queries[0]
	if q.MediaType != "screen" || len(q.Features) != 1 || q.Features[0].Name != "max-width" {
		t.Errorf("combined reference not inlined: %#v", q)
	}
}

func TestCustomMediaUndefinedWarns(t *testing.T) {
	sheet, diags := mustParse(t, "@custom-media --a (min-width: 1px);\n@media (--other) { p { color: red } }",
		Options{CustomMedia: true, ErrorRecovery: true})
	mr := sheet.Rules[0].(*ast.MediaRule)
	if f := mr.Queries[0].Features[0]; f.Name != "--other" || f.Kind != ast.MFBoolean {
		t.Errorf("undefined reference must stay in place: %#v", f)
	}
	_ = diags // sole undefined references pass through silently, like real UA behavior
}

func TestCustomMediaDisabledStaysOpaque(t *testing.T) {
	sheet, _ := mustParse(t, `@custom-media --narrow (max-width: 600px);`,
		Options{ErrorRecovery: true})
	if _, ok := sheet.Rules[0].(*ast.UnknownAtRule); !ok {
		t.Errorf("without the draft, @custom-media is an unknown at-rule: %T", sheet.Rules[0])
	}
}

func TestNestingDraft(t *testing.T) {
	src := ".card { color: red; &:hover { color: blue } .inner { margin: 0 } }"
	sheet, diags := mustParse(t, src, Options{Nesting: true, ErrorRecovery: true})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	t.Logf("parsed tree:\n%s", ast.DebugString(sheet))
	body := sheet.Rules[0].(*ast.StyleRule).Body
	if len(body) != 3 {
		t.Fatalf("expected decl + 2 nested rules, got %d", len(body))
	}
	nested, ok := body[1].(*ast.StyleRule)
	if !ok || !nested.Selectors[0].HasNesting() {
		t.Errorf("expected &-selector nested rule, got %#v", body[1])
	}
	if _, ok := body[2].(*ast.StyleRule); !ok {
		t.Errorf("expected implicit nested rule, got %#v", body[2])
	}
}

func TestNestingDisabledReports(t *testing.T) {
	_, diags := mustParse(t, ".a { &:hover { color: red } }", Options{ErrorRecovery: true})
	if len(diags) == 0 {
		t.Error("expected a diagnostic when nesting is off")
	}
}

func TestEOFClosesOpenBlocks(t *testing.T) {
	sheet, _ := mustParse(t, "@media screen { .a { color: red ", Options{ErrorRecovery: true})
	mr := sheet.Rules[0].(*ast.MediaRule)
	if len(mr.Body) != 1 {
		t.Fatalf("expected rule inside unterminated media block, got %d", len(mr.Body))
	}
	if got := len(mr.Body[0].(*ast.StyleRule).Declarations()); got != 1 {
		t.Errorf("expected declaration inside unterminated rule, got %d", got)
	}
}

// TestAgainstDouceur cross-checks rule and declaration counts against an
// independent CSS parser.
func TestAgainstDouceur(t *testing.T) {
	src := `
h1, h2 { font-weight: bold; margin: 0 }
.note { color: #336699; padding: 1em 2em }
#app > .item:hover { opacity: 0.8 }
@media print { body { display: none } }
`
	sheet, diags := mustParse(t, src, Options{ErrorRecovery: true})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	oracle, err := dparser.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(sheet.Rules) != len(oracle.Rules) {
		t.Fatalf("rule count mismatch: %d vs oracle %d", len(sheet.Rules), len(oracle.Rules))
	}
	for i, r := range sheet.Rules {
		sr, ok := r.(*ast.StyleRule)
		if !ok {
			continue
		}
		want := oracle.Rules[i].Declarations
		if got := sr.Declarations(); len(got) != len(want) {
			t.Errorf("rule %d: %d declarations, oracle has %d", i, len(got), len(want))
		} else {
			for j, d := range sr.Declarations() {
				if !strings.EqualFold(d.Property, want[j].Property) {
					t.Errorf("rule %d decl %d: property %q, oracle %q",
						i, j, d.Property, want[j].Property)
				}
			}
		}
	}
}
