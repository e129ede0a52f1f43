/*
Package htmlstyle extracts embedded stylesheets from HTML documents.
It visits <head> and <body> of a parse tree, collects the text of every
<style> element and compiles each one.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package htmlstyle

import (
	"github.com/npillmayer/csskit/ast"
	"github.com/npillmayer/csskit/diag"
	"github.com/npillmayer/csskit/parser"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'csskit.htmlstyle'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.htmlstyle")
}

// ExtractStyleElements visits <head> and <body> elements in an HTML
// parse tree and searches for embedded <style>s. Each style element is
// parsed into a stylesheet; diagnostics of all sheets are pooled.
func ExtractStyleElements(htmldoc *html.Node, opts parser.Options) ([]*ast.StyleSheet, []diag.Diagnostic, error) {
	var sheets []*ast.StyleSheet
	var diags []diag.Diagnostic
	for _, text := range StyleTexts(htmldoc) {
		sheet, ds, err := parser.Parse(text, opts)
		if err != nil {
			return nil, append(diags, ds...), err
		}
		diags = append(diags, ds...)
		sheets = append(sheets, sheet)
	}
	tracer().Debugf("extracted %d style elements", len(sheets))
	return sheets, diags, nil
}

// StyleTexts returns the raw text of every <style> element under <head>
// and <body>, in document order.
func StyleTexts(htmldoc *html.Node) []string {
	var texts []string
	head := findElement(atom.Head, htmldoc)
	body := findElement(atom.Body, htmldoc)
	texts = append(texts, styleContents(head)...)
	return append(texts, styleContents(body)...)
}

func styleContents(h *html.Node) []string {
	if h == nil {
		return nil
	}
	var texts []string
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.DataAtom == atom.Style && ch.FirstChild != nil {
			texts = append(texts, ch.FirstChild.Data)
		}
	}
	return texts
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}
