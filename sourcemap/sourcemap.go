/*
Package sourcemap emits source maps (revision 3) for generated CSS.
Mappings come in as byte-offset pairs from the printer; they are
converted to line/column positions and encoded as base64 VLQ segments.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package sourcemap

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/npillmayer/csskit/printer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.sourcemap'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.sourcemap")
}

// sourceMap is the revision-3 JSON shape.
type sourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Options configure map generation.
type Options struct {
	// File names the generated stylesheet.
	File string
	// SourceName names the input; empty selects "input.css".
	SourceName string
	// InlineSource embeds the input text in sourcesContent.
	InlineSource bool
}

// Generate builds a revision-3 source map linking offsets in the
// generated text back to offsets in the source text.
func Generate(source, generated string, mappings []printer.Mapping, opts Options) ([]byte, error) {
	name := opts.SourceName
	if name == "" {
		name = "input.css"
	}
	srcIndex := newLineIndex(source)
	genIndex := newLineIndex(generated)

	sorted := append([]printer.Mapping{}, mappings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Generated < sorted[j].Generated
	})

	var sb strings.Builder
	prevGenLine := 0
	prevGenCol, prevSrcLine, prevSrcCol := 0, 0, 0
	first := true
	for _, m := range sorted {
		genLine, genCol := genIndex.position(m.Generated)
		srcLine, srcCol := srcIndex.position(m.Source)
		for prevGenLine < genLine {
			sb.WriteByte(';')
			prevGenLine++
			prevGenCol = 0
			first = true
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		writeVLQ(&sb, genCol-prevGenCol)
		writeVLQ(&sb, 0) // single source
		writeVLQ(&sb, srcLine-prevSrcLine)
		writeVLQ(&sb, srcCol-prevSrcCol)
		prevGenCol, prevSrcLine, prevSrcCol = genCol, srcLine, srcCol
	}

	sm := sourceMap{
		Version:  3,
		File:     opts.File,
		Sources:  []string{name},
		Names:    []string{},
		Mappings: sb.String(),
	}
	if opts.InlineSource {
		sm.SourcesContent = []string{source}
	}
	tracer().Debugf("source map with %d segments", len(sorted))
	return json.Marshal(sm)
}

// lineIndex converts byte offsets to 0-based line/column pairs.
type lineIndex struct {
	starts []int // byte offset of each line start
}

func newLineIndex(text string) *lineIndex {
	idx := &lineIndex{starts: []int{0}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

func (idx *lineIndex) position(offset int) (line, col int) {
	line = sort.Search(len(idx.starts), func(i int) bool {
		return idx.starts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return line, offset - idx.starts[line]
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ encodes one signed value as base64 VLQ.
func writeVLQ(sb *strings.Builder, v int) {
	u := uint(v) << 1
	if v < 0 {
		u = uint(-v)<<1 | 1
	}
	for {
		digit := u & 0x1f
		u >>= 5
		if u != 0 {
			digit |= 0x20
		}
		sb.WriteByte(base64Chars[digit])
		if u == 0 {
			return
		}
	}
}
