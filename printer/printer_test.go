package printer

import (
	"testing"

	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/parser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func parse(t *testing.T, src string) *ast.StyleSheet {
	t.Helper()
	sheet, diags, err := parser.Parse(src, parser.Options{ErrorRecovery: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return sheet
}

func TestMinifiedOutput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.printer")
	defer teardown()
	//
	sheet := parse(t, ".a { color: red; margin: 0 }")
	out, _ := Print(sheet, Options{Minify: true})
	if out != ".a{color:red;margin:0}" {
		t.Errorf("minified output = %q", out)
	}
}

func TestPrettyOutput(t *testing.T) {
	sheet := parse(t, ".a{color:red}")
	out, _ := Print(sheet, Options{})
	want := ".a {\n  color: red;\n}\n"
	if out != want {
		t.Errorf("pretty output:\n got %q\nwant %q", out, want)
	}
}

func TestDeterminism(t *testing.T) {
	src := `@media screen and (min-width: 600px) { .a, #b > .c { width: calc(100% - 2em); color: #aabbcc } }`
	sheet := parse(t, src)
	first, _ := Print(sheet, Options{Minify: true})
	for i := 0; i < 10; i++ {
		out, _ := Print(sheet, Options{Minify: true})
		if out != first {
			t.Fatalf("printing is not deterministic:\n%q\n%q", first, out)
		}
	}
}

func TestReparseStability(t *testing.T) {
	// printing and reparsing must preserve the rule structure
	src := `h1, h2.title { font-weight: bold; padding: 1px 2px 3px 4px }
@media (width <= 600px) { p { color: rgb(1, 2, 3) } }
@keyframes spin { from { opacity: 0 } to { opacity: 1 } }`
	sheet := parse(t, src)
	out, _ := Print(sheet, Options{Minify: true})
	sheet2 := parse(t, out)
	if len(sheet2.Rules) != len(sheet.Rules) {
		t.Fatalf("rule count changed after reprint: %d vs %d",
			len(sheet2.Rules), len(sheet.Rules))
	}
	out2, _ := Print(sheet2, Options{Minify: true})
	if out2 != out {
		t.Errorf("second print differs:\n%q\n%q", out, out2)
	}
}

func TestUnknownAtRuleVerbatim(t *testing.T) {
	raw := `@font-feature-values Cheese { @styleset { nice: 12; } }`
	sheet := parse(t, raw)
	out, _ := Print(sheet, Options{Minify: true})
	if out != raw {
		t.Errorf("unknown at-rule not byte-identical:\n got %q\nwant %q", out, raw)
	}
}

func TestImportantAndImport(t *testing.T) {
	sheet := parse(t, `@import "a.css" screen; p { width: 10px !important }`)
	out, _ := Print(sheet, Options{Minify: true})
	want := `@import "a.css" screen;p{width:10px!important}`
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestNumberFormatting(t *testing.T) {
	cases := map[float64]string{
		0:     "0",
		0.5:   ".5",
		-0.25: "-.25",
		10:    "10",
		1.25:  "1.25",
	}
	for v, want := range cases {
		if got := Number(v, true); got != want {
			t.Errorf("Number(%v, minify) = %q, want %q", v, got, want)
		}
	}
	if got := Number(0.5, false); got != "0.5" {
		t.Errorf("Number(0.5) = %q", got)
	}
}

func TestColorSerialization(t *testing.T) {
	hex := &ast.Color{Model: ast.ColorHex, C1: 255, C2: 0, C3: 0, Alpha: 1}
	if got := Color(hex, true); got != "#f00" {
		t.Errorf("minified hex = %q", got)
	}
	if got := Color(hex, false); got != "#ff0000" {
		t.Errorf("hex = %q", got)
	}
	hex.Alpha = 0.5
	if got := Color(hex, true); got != "#ff000080" {
		t.Errorf("hex with alpha = %q", got)
	}
	legacy := &ast.Color{Model: ast.ColorRGB, Legacy: true, C1: 1, C2: 2, C3: 3, Alpha: 1}
	if got := Color(legacy, false); got != "rgb(1, 2, 3)" {
		t.Errorf("legacy rgb = %q", got)
	}
	modern := &ast.Color{Model: ast.ColorRGB, C1: 1, C2: 2, C3: 3, Alpha: 0.5}
	if got := Color(modern, true); got != "rgb(1 2 3/.5)" {
		t.Errorf("modern rgb = %q", got)
	}
	translucent := &ast.Color{Model: ast.ColorRGB, Legacy: true, C1: 1, C2: 2, C3: 3, Alpha: 0.5}
	if got := Color(translucent, true); got != "rgba(1,2,3,.5)" {
		t.Errorf("minified legacy rgba = %q", got)
	}
	if got := Color(translucent, false); got != "rgba(1, 2, 3, 0.5)" {
		t.Errorf("pretty legacy rgba = %q", got)
	}
}

func TestCalcSerialization(t *testing.T) {
	sheet := parse(t, "p { width: calc(100% - 2em) }")
	out, _ := Print(sheet, Options{Minify: true})
	if out != "p{width:calc(100% - 2em)}" {
		t.Errorf("calc output = %q", out)
	}
	// a sum nested under a product keeps its parentheses
	sheet = parse(t, "p { width: calc((1px + 2px) * 3) }")
	out, _ = Print(sheet, Options{Minify: true})
	if out != "p{width:calc((1px + 2px)*3)}" {
		t.Errorf("nested calc output = %q", out)
	}
}

// TestCalcNonCommutativeParens pins the parenthesization of subtrees to
// the right of - and /, where dropping parens changes the result.
func TestCalcNonCommutativeParens(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"p { width: calc(100% - (10px + 5px)) }", "p{width:calc(100% - (10px + 5px))}"},
		{"p { width: calc(var(--a) - (var(--b) + var(--c))) }", "p{width:calc(var(--a) - (var(--b) + var(--c)))}"},
		{"p { width: calc(100px / (2 * 3)) }", "p{width:calc(100px/(2*3))}"},
		{"p { width: calc((10px + 5px) - 2px) }", "p{width:calc(10px + 5px - 2px)}"},
		{"p { width: calc(100% - (10px - (5px - 2px))) }", "p{width:calc(100% - (10px - (5px - 2px)))}"},
	}
	for _, tc := range cases {
		sheet := parse(t, tc.src)
		out, _ := Print(sheet, Options{Minify: true})
		if out != tc.want {
			t.Errorf("%q:\n got %q\nwant %q", tc.src, out, tc.want)
		}
	}
}

func TestEscapeIdent(t *testing.T) {
	cases := map[string]string{
		"simple":   "simple",
		"2col":     "\\32 col",
		"a.b":      "a\\.b",
		"-x":       "-x",
		"with ws":  "with\\ ws",
		"ünïcode":  "ünïcode",
	}
	for in, want := range cases {
		if got := EscapeIdent(in); got != want {
			t.Errorf("EscapeIdent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMappingsMonotonic(t *testing.T) {
	src := ".a { color: red }\n.b { margin: 0; padding: 1px }"
	sheet := parse(t, src)
	_, mappings := Print(sheet, Options{Minify: true})
	if len(mappings) < 5 {
		t.Fatalf("expected mappings for 2 rules and 3 declarations, got %d", len(mappings))
	}
	for i := 1; i < len(mappings); i++ {
		if mappings[i].Generated < mappings[i-1].Generated {
			t.Fatalf("generated offsets not monotonic: %v", mappings)
		}
	}
}

func TestSelectorSerialization(t *testing.T) {
	sheet := parse(t, `ul > li.item:hover, input[type="text" i]::placeholder { color: red }`)
	sr := sheet.Rules[0].(*ast.StyleRule)
	if got := Selectors(sr.Selectors, true); got != `ul>li.item:hover,input[type=text i]::placeholder` {
		t.Errorf("minified selectors = %q", got)
	}
	if got := Selectors(sr.Selectors, false); got != `ul > li.item:hover, input[type="text" i]::placeholder` {
		t.Errorf("pretty selectors = %q", got)
	}
}
