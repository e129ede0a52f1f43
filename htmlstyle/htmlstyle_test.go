package htmlstyle

import (
	"strings"
	"testing"

	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/parser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/net/html"
)

const doc = `<!DOCTYPE html>
<html><head>
<style>.hero { color: red }</style>
</head><body>
<style>p { margin: 0 }</style>
<p class="hero">hi</p>
</body></html>`

func TestStyleTexts(t *testing.T) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	texts := StyleTexts(root)
	if len(texts) != 2 {
		t.Fatalf("expected 2 style elements, got %d", len(texts))
	}
	if !strings.Contains(texts[0], ".hero") || !strings.Contains(texts[1], "margin") {
		t.Errorf("style texts out of order: %q", texts)
	}
}

func TestExtractStyleElements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.htmlstyle")
	defer teardown()
	//
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	sheets, diags, err := ExtractStyleElements(root, parser.Options{ErrorRecovery: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}
	sr := sheets[0].Rules[0].(*ast.StyleRule)
	if got := sr.Declarations()[0].Property; got != "color" {
		t.Errorf("first sheet parsed wrong: %q", got)
	}
}
