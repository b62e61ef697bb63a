// Package interlink is a goldmark extension that turns bare page names in
// Markdown links into site URLs.
//
// With base "/docs/" and end ".html", [Setup](install#linux) renders as
// <a href="/docs/install.html#linux">Setup</a>. Destinations containing
// "://" or "." are treated as ordinary URLs or file names and kept.
package interlink

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Priority of the transformer.
const Priority = 200

// Config holds the extension settings.
type Config struct {
	BaseURL string `yaml:"base_url"`
	EndURL  string `yaml:"end_url"`
}

// Extender rewrites internal link destinations.
type Extender struct {
	cfg Config
}

// New returns an Extender.
func New(cfg Config) *Extender {
	return &Extender{cfg: cfg}
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&transformer{cfg: e.cfg}, Priority),
	))
}

type transformer struct {
	cfg Config
}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if link, ok := n.(*ast.Link); ok && entering {
			link.Destination = []byte(Rewrite(string(link.Destination), t.cfg.BaseURL, t.cfg.EndURL))
		}
		return ast.WalkContinue, nil
	})
}

// Rewrite applies the page-name rule to a single destination.
func Rewrite(dest, base, end string) string {
	if strings.Contains(dest, "://") || strings.Contains(dest, ".") {
		return dest
	}
	page, anchor, hasAnchor := strings.Cut(dest, "#")
	if page == "" {
		return dest
	}
	out := base + page + end
	if hasAnchor {
		out += "#" + anchor
	}
	return out
}
