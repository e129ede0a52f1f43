package sourcemap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/npillmayer/csskit/printer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestVLQEncoding(t *testing.T) {
	cases := map[int]string{
		0:    "A",
		1:    "C",
		-1:   "D",
		16:   "gB",
		-16:  "hB",
		123:  "2H",
		1000: "w+B",
	}
	for v, want := range cases {
		var sb strings.Builder
		writeVLQ(&sb, v)
		if got := sb.String(); got != want {
			t.Errorf("writeVLQ(%d) = %q, want %q", v, got, want)
		}
	}
}

func TestLineIndex(t *testing.T) {
	idx := newLineIndex("ab\ncd\n\nef")
	cases := []struct{ off, line, col int }{
		{0, 0, 0}, {1, 0, 1}, {3, 1, 0}, {4, 1, 1}, {6, 2, 0}, {7, 3, 0}, {8, 3, 1},
	}
	for _, c := range cases {
		line, col := idx.position(c.off)
		if line != c.line || col != c.col {
			t.Errorf("position(%d) = %d:%d, want %d:%d", c.off, line, col, c.line, c.col)
		}
	}
}

func TestGenerate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.sourcemap")
	defer teardown()
	//
	source := ".a { color: red }\n.b { margin: 0 }"
	generated := ".a{color:red}.b{margin:0}"
	mappings := []printer.Mapping{
		{Generated: 0, Source: 0},   // .a
		{Generated: 3, Source: 5},   // color
		{Generated: 13, Source: 18}, // .b
		{Generated: 16, Source: 23}, // margin
	}
	data, err := Generate(source, generated, mappings, Options{File: "out.css"})
	if err != nil {
		t.Fatal(err)
	}
	var sm map[string]interface{}
	if err := json.Unmarshal(data, &sm); err != nil {
		t.Fatal(err)
	}
	if sm["version"].(float64) != 3 {
		t.Errorf("version = %v", sm["version"])
	}
	sources := sm["sources"].([]interface{})
	if len(sources) != 1 || sources[0] != "input.css" {
		t.Errorf("sources = %v", sources)
	}
	m := sm["mappings"].(string)
	if strings.Contains(m, ";") {
		t.Errorf("single generated line must have no ';': %q", m)
	}
	// 4 segments on one line
	if got := len(strings.Split(m, ",")); got != 4 {
		t.Errorf("expected 4 segments, got %d in %q", got, m)
	}
	// first segment maps 0:0 to line 0 col 0
	if !strings.HasPrefix(m, "AAAA") {
		t.Errorf("first segment should be AAAA, got %q", m)
	}
	// second: gen col +3, src line 0, src col +5
	if !strings.HasPrefix(m, "AAAA,GAAK") {
		t.Errorf("second segment should encode deltas 3,0,0,5, got %q", m)
	}
}

func TestGenerateMultiline(t *testing.T) {
	source := ".a {\n  color: red;\n}\n"
	generated := ".a {\n  color: red;\n}\n"
	mappings := []printer.Mapping{
		{Generated: 0, Source: 0},
		{Generated: 7, Source: 7},
	}
	data, err := Generate(source, generated, mappings, Options{InlineSource: true})
	if err != nil {
		t.Fatal(err)
	}
	var sm sourceMap
	if err := json.Unmarshal(data, &sm); err != nil {
		t.Fatal(err)
	}
	if sm.Mappings != "AAAA;EACE" {
		t.Errorf("mappings = %q", sm.Mappings)
	}
	if len(sm.SourcesContent) != 1 || sm.SourcesContent[0] != source {
		t.Error("sourcesContent should embed the input")
	}
}
