package selector

import (
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
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

func parse(t *testing.T, src string) ast.SelectorList {
	t.Helper()
	list, err := ParseList(toks(t, src), 0)
	if err != nil {
		t.Fatalf("ParseList(%q): %v", src, err)
	}
	return list
}

func TestParseCompound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.selector")
	defer teardown()
	//
	list := parse(t, "div.note#main")
	if len(list) != 1 || len(list[0]) != 3 {
		t.Fatalf("expected 1 selector with 3 components, got %#v", list)
	}
	if ts, ok := list[0][0].(ast.TypeSelector); !ok || ts.Name != "div" {
		t.Errorf("type selector parsed wrong: %#v", list[0][0])
	}
	if cs, ok := list[0][1].(ast.ClassSelector); !ok || cs.Name != "note" {
		t.Errorf("class selector parsed wrong: %#v", list[0][1])
	}
	if is, ok := list[0][2].(ast.IDSelector); !ok || is.Name != "main" {
		t.Errorf("id selector parsed wrong: %#v", list[0][2])
	}
}

func TestCombinators(t *testing.T) {
	list := parse(t, "a > b + c ~ d e")
	sel := list[0]
	var kinds []ast.CombinatorKind
	for _, comp := range sel {
		if c, ok := comp.(ast.Combinator); ok {
			kinds = append(kinds, c.Kind)
		}
	}
	want := []ast.CombinatorKind{ast.Child, ast.NextSibling, ast.SubsequentSibling, ast.Descendant}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d combinators, got %d", len(want), len(kinds))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("combinator %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestCombinatorPlacement(t *testing.T) {
	for _, src := range []string{"> a", "a >", "a > > b", "a ~ + b", ", a", "a,"} {
		if _, err := ParseList(toks(t, src), 0); err == nil {
			t.Errorf("expected %q to be rejected", src)
		}
	}
}

func TestAttributeSelectors(t *testing.T) {
	list := parse(t, `input[type="text" i][disabled]`)
	sel := list[0]
	attr := sel[1].(ast.AttributeSelector)
	if attr.Name != "type" || attr.Op != "=" || attr.Value != "text" ||
		!attr.Quoted || attr.CaseFlag != 'i' {
		t.Errorf("attribute parsed wrong: %#v", attr)
	}
	boolAttr := sel[2].(ast.AttributeSelector)
	if boolAttr.Name != "disabled" || boolAttr.Op != "" {
		t.Errorf("bare attribute parsed wrong: %#v", boolAttr)
	}
	list = parse(t, "[class~=warn]")
	if a := list[0][0].(ast.AttributeSelector); a.Op != "~=" || a.Quoted {
		t.Errorf("~= attribute parsed wrong: %#v", a)
	}
}

func TestPseudoClassesAndElements(t *testing.T) {
	list := parse(t, "a:hover::before")
	if pc, ok := list[0][1].(ast.PseudoClassSelector); !ok || pc.Name != "hover" {
		t.Errorf("pseudo-class parsed wrong: %#v", list[0][1])
	}
	if pe, ok := list[0][2].(ast.PseudoElementSelector); !ok || pe.Name != "before" || pe.Legacy {
		t.Errorf("pseudo-element parsed wrong: %#v", list[0][2])
	}
	// CSS2 single-colon spelling
	list = parse(t, "p:first-line")
	if pe := list[0][1].(ast.PseudoElementSelector); !pe.Legacy {
		t.Errorf("expected legacy pseudo-element: %#v", pe)
	}
	// functional pseudo-element keeps its arguments
	list = parse(t, "x-card::part(header)")
	pe := list[0][1].(ast.PseudoElementSelector)
	if !pe.HasArgs || len(pe.Args) == 0 {
		t.Errorf("::part() args lost: %#v", pe)
	}
}

func TestLogicalPseudoClasses(t *testing.T) {
	list := parse(t, "a:not(.x, #y):is(div span)")
	not := list[0][1].(ast.PseudoClassSelector)
	if not.Name != "not" || len(not.Selectors) != 2 {
		t.Fatalf(":not parsed wrong: %#v", not)
	}
	is := list[0][2].(ast.PseudoClassSelector)
	if is.Name != "is" || len(is.Selectors) != 1 || len(is.Selectors[0]) != 3 {
		t.Errorf(":is parsed wrong: %#v", is)
	}
}

func TestFunctionalPseudoClassRawArgs(t *testing.T) {
	list := parse(t, "li:nth-child(2n+1)")
	pc := list[0][1].(ast.PseudoClassSelector)
	if !pc.HasArgs || len(pc.Args) == 0 {
		t.Errorf(":nth-child args lost: %#v", pc)
	}
}

func TestNestingSelector(t *testing.T) {
	list := parse(t, "&:hover .child")
	if _, ok := list[0][0].(ast.NestingSelector); !ok {
		t.Fatalf("expected nesting selector head, got %#v", list[0][0])
	}
	if !list[0].HasNesting() {
		t.Error("HasNesting should report true")
	}
}

func TestDepthLimit(t *testing.T) {
	depth := 20
	src := strings.Repeat(":not(", depth) + "a" + strings.Repeat(")", depth)
	if _, err := ParseList(toks(t, src), 8); err != ErrDepthExceeded {
		t.Errorf("expected ErrDepthExceeded, got %v", err)
	}
	if _, err := ParseList(toks(t, src), 64); err != nil {
		t.Errorf("expected parse within limit, got %v", err)
	}
}

// TestSpecificityAgainstCascadia cross-checks specificity triples against
// an independent selector engine. Dynamic pseudo-classes like :hover are
// excluded: cascadia does not count them, so they are asserted directly
// in TestSpecificityDynamicPseudo.
func TestSpecificityAgainstCascadia(t *testing.T) {
	cases := []string{
		"div",
		".note",
		"#main",
		"div.note#main",
		"ul > li.item",
		"a:not(.x)",
		"*",
		"input[type=text]",
	}
	for _, src := range cases {
		list := parse(t, src)
		a, b, c := list[0].Specificity()
		oracle, err := cascadia.Parse(src)
		if err != nil {
			t.Fatalf("cascadia rejects %q: %v", src, err)
		}
		spec := oracle.Specificity()
		if a != spec[0] || b != spec[1] || c != spec[2] {
			t.Errorf("%q: specificity (%d,%d,%d), oracle (%d,%d,%d)",
				src, a, b, c, spec[0], spec[1], spec[2])
		}
	}
}

// TestSpecificityDynamicPseudo pins the triples for pseudo-classes the
// oracle does not count.
func TestSpecificityDynamicPseudo(t *testing.T) {
	cases := []struct {
		src     string
		a, b, c int
	}{
		{"a:hover", 0, 1, 1},
		{":focus", 0, 1, 0},
		{"li:hover:focus", 0, 2, 1},
	}
	for _, tc := range cases {
		list := parse(t, tc.src)
		if a, b, c := list[0].Specificity(); a != tc.a || b != tc.b || c != tc.c {
			t.Errorf("%q: specificity (%d,%d,%d), want (%d,%d,%d)",
				tc.src, a, b, c, tc.a, tc.b, tc.c)
		}
	}
}

func TestWhereHasZeroSpecificity(t *testing.T) {
	list := parse(t, ":where(#main .note)")
	if a, b, c := list[0].Specificity(); a != 0 || b != 0 || c != 0 {
		t.Errorf(":where must contribute zero, got (%d,%d,%d)", a, b, c)
	}
}
