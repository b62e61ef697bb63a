package pipeline

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EditHTML parses content, hands it to edit as a goquery document and
// renders the result. Fragments stay fragments unless normalize is set,
// in which case the output is a complete html/head/body document.
func EditHTML(content []byte, normalize bool, edit func(doc *goquery.Document) error) ([]byte, error) {
	var (
		root       *html.Node
		isFragment bool
		err        error
	)
	if normalize {
		root, err = html.Parse(bytes.NewReader(content))
	} else {
		root, isFragment, err = ParseHTML(content)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if err := edit(goquery.NewDocumentFromNode(root)); err != nil {
		return nil, err
	}
	return RenderHTML(root, isFragment)
}

// ParseHTML parses HTML content, handling both full documents and fragments.
// Fragment nodes are collected under a DocumentNode container so callers can
// walk both shapes the same way. The second result reports a fragment.
func ParseHTML(content []byte) (*html.Node, bool, error) {
	trimmed := bytes.ToLower(bytes.TrimSpace(content))

	// Full document: starts with <!DOCTYPE or <html
	if bytes.HasPrefix(trimmed, []byte("<!doctype")) || bytes.HasPrefix(trimmed, []byte("<html")) {
		doc, err := html.Parse(bytes.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(bytes.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// RenderHTML renders a tree produced by ParseHTML. Fragments render only the
// container's children, so no <html><body> wrapper is added.
func RenderHTML(root *html.Node, isFragment bool) ([]byte, error) {
	var buf bytes.Buffer

	if isFragment {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return nil, err
			}
		}
		return buf.Bytes(), nil
	}

	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
