// Package selector compiles the element selectors accepted by the HTML
// postprocessors: CSS selectors, or XPath expressions prefixed with "!".
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// XPathPrefix marks a selector string as an XPath expression.
const XPathPrefix = "!"

// ErrInvalidSelector indicates a selector failed to compile.
var ErrInvalidSelector = errors.New("invalid selector")

// Selector is a compiled CSS or XPath selector.
type Selector struct {
	raw string
	css cascadia.Selector
	xp  *xpath.Expr
}

// Compile parses expr. "!//pre[code]" compiles as XPath, anything else as CSS.
func Compile(expr string) (*Selector, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" || trimmed == XPathPrefix {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidSelector)
	}

	if strings.HasPrefix(trimmed, XPathPrefix) {
		xp, err := xpath.Compile(strings.TrimPrefix(trimmed, XPathPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, expr, err)
		}
		return &Selector{raw: trimmed, xp: xp}, nil
	}

	css, err := cascadia.Compile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, expr, err)
	}
	return &Selector{raw: trimmed, css: css}, nil
}

// CompileAll compiles every expression, failing on the first invalid one.
func CompileAll(exprs []string) ([]*Selector, error) {
	out := make([]*Selector, 0, len(exprs))
	for _, e := range exprs {
		s, err := Compile(e)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// String returns the source expression, including the XPath prefix.
func (s *Selector) String() string {
	return s.raw
}

// IsXPath reports whether the selector is an XPath expression.
func (s *Selector) IsXPath() bool {
	return s.xp != nil
}

// Find returns the elements below sel matched by the selector.
// XPath results that are not elements (text, attributes) are dropped.
func (s *Selector) Find(sel *goquery.Selection) *goquery.Selection {
	if s.css != nil {
		return sel.FindMatcher(s.css)
	}

	var found []*html.Node
	for _, top := range sel.Nodes {
		for _, n := range htmlquery.QuerySelectorAll(top, s.xp) {
			if n.Type == html.ElementNode {
				found = append(found, n)
			}
		}
	}
	return sel.FindNodes(found...)
}

// FindAll returns the union of every selector's matches below sel.
func FindAll(sel *goquery.Selection, selectors []*Selector) *goquery.Selection {
	result := sel.FindNodes()
	for _, s := range selectors {
		result = result.AddSelection(s.Find(sel))
	}
	return result
}
