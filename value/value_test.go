package value

import (
	"strings"
	"testing"

	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/scanner"
	"github.com/npillmayer/csskit/token"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func toks(t *testing.T, src string) []token.Token {
	t.Helper()
	s := scanner.New(src)
	var out []token.Token
	for {
		tok := s.Next()
		if tok.Type == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func TestParseDimension(t *testing.T) {
	v, err := ParseDeclaration("margin-top", toks(t, "1.5em"), 0)
	if err != nil {
		t.Fatal(err)
	}
	d, ok := v.(ast.Dimension)
	if !ok || d.Value != 1.5 || d.Unit != "em" {
		t.Errorf("expected dimension 1.5em, got %#v", v)
	}
}

func TestParseSpaceAndCommaLists(t *testing.T) {
	v, err := ParseDeclaration("margin", toks(t, "1px 2px 3px 4px"), 0)
	if err != nil {
		t.Fatal(err)
	}
	sl, ok := v.(ast.SpaceList)
	if !ok || len(sl) != 4 {
		t.Fatalf("expected 4-member space list, got %#v", v)
	}
	v, err = ParseDeclaration("transition-property", toks(t, "color, margin"), 0)
	if err != nil {
		t.Fatal(err)
	}
	cl, ok := v.(ast.CommaList)
	if !ok || len(cl) != 2 {
		t.Fatalf("expected 2-member comma list, got %#v", v)
	}
}

func TestParseHexColor(t *testing.T) {
	v, err := ParseDeclaration("color", toks(t, "#FF0000"), 0)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := v.(*ast.Color)
	if !ok || c.Model != ast.ColorHex {
		t.Fatalf("expected hex color, got %#v", v)
	}
	if c.C1 != 255 || c.C2 != 0 || c.C3 != 0 || c.Alpha != 1 {
		t.Errorf("expected 255,0,0 opaque, got %v,%v,%v,%v", c.C1, c.C2, c.C3, c.Alpha)
	}
	r, g, b, ok := c.RGB8()
	if !ok || r != 255 || g != 0 || b != 0 {
		t.Errorf("RGB8 = %v,%v,%v,%v", r, g, b, ok)
	}
}

func TestParseNamedColor(t *testing.T) {
	v, err := ParseDeclaration("color", toks(t, "RebeccaPurple"), 0)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := v.(*ast.Color)
	if !ok || c.Model != ast.ColorNamed || c.Name != "rebeccapurple" {
		t.Fatalf("expected named color, got %#v", v)
	}
	// color keywords outside a color context stay idents
	v, err = ParseDeclaration("animation-name", toks(t, "red"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(ast.Ident); !ok {
		t.Errorf("expected ident in non-color context, got %#v", v)
	}
}

func TestParseModernColorSyntax(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.value")
	defer teardown()
	//
	v, err := ParseDeclaration("color", toks(t, "rgb(255 0 0 / 0.5)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	c := v.(*ast.Color)
	if c.Legacy || c.Alpha != 0.5 || c.C1 != 255 {
		t.Errorf("modern rgb parsed wrong: %#v", c)
	}
	v, err = ParseDeclaration("color", toks(t, "rgba(1, 2, 3, 40%)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	c = v.(*ast.Color)
	if !c.Legacy || c.Alpha != 0.4 || c.C3 != 3 {
		t.Errorf("legacy rgba parsed wrong: %#v", c)
	}
}

func TestParseLabAndConversion(t *testing.T) {
	v, err := ParseDeclaration("color", toks(t, "lab(52.2345% 40.1645 59.9971)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	c := v.(*ast.Color)
	if c.Model != ast.ColorLab || c.OK {
		t.Fatalf("expected lab color, got %#v", c)
	}
	r, g, b, _ := ToSRGB(c)
	// reference value for this lab triple is approximately #c65d07
	if r < 0xc4 || r > 0xc8 || g < 0x5b || g > 0x5f || b > 0x0a {
		t.Errorf("lab → sRGB conversion off: #%02x%02x%02x", r, g, b)
	}
}

func TestParseHSLConversion(t *testing.T) {
	v, err := ParseDeclaration("color", toks(t, "hsl(120deg 100% 25%)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := ToSRGB(v.(*ast.Color))
	if r != 0 || g != 128 || b != 0 {
		t.Errorf("hsl(120 100%% 25%%) should be #008000, got #%02x%02x%02x", r, g, b)
	}
}

func TestParseCalcPrecedence(t *testing.T) {
	v, err := ParseDeclaration("width", toks(t, "calc(1px + 2 * 3px)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	c := v.(*ast.Calc)
	root := c.Root.(*ast.CalcExpr)
	if root.Op != '+' {
		t.Fatalf("expected top-level +, got %c", root.Op)
	}
	if mul, ok := root.Right.(*ast.CalcExpr); !ok || mul.Op != '*' {
		t.Errorf("expected * to bind tighter, got %#v", root.Right)
	}
}

func TestCalcFolding(t *testing.T) {
	v, err := ParseDeclaration("width", toks(t, "calc(1px + 2 * 3px)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	folded := FoldCalc(v.(*ast.Calc))
	d, ok := folded.(ast.Dimension)
	if !ok || d.Value != 7 || d.Unit != "px" {
		t.Errorf("expected folded 7px, got %#v", folded)
	}
}

func TestCalcFoldingPreservesOpaqueOperands(t *testing.T) {
	v, err := ParseDeclaration("width", toks(t, "calc(var(--w) + 2px + 3px)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	folded := FoldCalc(v.(*ast.Calc))
	c, ok := folded.(*ast.Calc)
	if !ok {
		t.Fatalf("calc with var must stay a calc, got %#v", folded)
	}
	// ((var + 2px) + 3px): left-assoc parse means the constant pair is
	// not adjacent; the var leaf must survive unfolded.
	root := c.Root.(*ast.CalcExpr)
	if _, ok := root.Left.(*ast.CalcExpr); !ok {
		t.Errorf("expected nested expr with opaque var, got %#v", root.Left)
	}
}

func TestCalcMixedUnitsNotFolded(t *testing.T) {
	v, err := ParseDeclaration("width", toks(t, "calc(1px + 2em)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	folded := FoldCalc(v.(*ast.Calc))
	if _, ok := folded.(*ast.Calc); !ok {
		t.Errorf("mixed units must not fold, got %#v", folded)
	}
}

func TestDepthLimit(t *testing.T) {
	depth := 20
	src := strings.Repeat("calc(", depth) + "1px" + strings.Repeat(")", depth)
	_, err := ParseDeclaration("width", toks(t, src), 8)
	if err != ErrDepthExceeded {
		t.Errorf("expected ErrDepthExceeded, got %v", err)
	}
	// generous limit: same input parses
	if _, err := ParseDeclaration("width", toks(t, src), 64); err != nil {
		t.Errorf("expected parse within limit, got %v", err)
	}
}

func TestParseVarWithFallback(t *testing.T) {
	v, err := ParseDeclaration("color", toks(t, "var(--main, #00f)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := v.(*ast.VarRef)
	if !ok || ref.Name != "--main" {
		t.Fatalf("expected var ref, got %#v", v)
	}
	if ref.Fallback == nil {
		t.Error("expected fallback to be retained")
	}
}

func TestParseFunctionGeneric(t *testing.T) {
	v, err := ParseDeclaration("transform", toks(t, "translate(10px, 20%)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	f, ok := v.(*ast.Function)
	if !ok || f.Name != "translate" || len(f.Args) != 2 {
		t.Errorf("expected translate with 2 args, got %#v", v)
	}
}
