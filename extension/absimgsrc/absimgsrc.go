// Package absimgsrc is a goldmark extension that makes relative image
// sources absolute by resolving them against a base URL.
//
//	md := goldmark.New(goldmark.WithExtensions(
//	    absimgsrc.New(absimgsrc.Config{BaseURL: "https://cdn.example.com/img"}),
//	))
//
// ![logo](logo.png) then renders as <img src="https://cdn.example.com/img/logo.png" ...>.
// Raw HTML <img> tags are left alone.
package absimgsrc

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdsteroids/internal/urlutil"
)

// Priority of the transformer. URL rewriters run after imgsmart has
// probed the original sources and before the figure builders.
const Priority = 200

// Config holds the extension settings.
type Config struct {
	BaseURL string `yaml:"base_url"`
}

// Extender rewrites image destinations.
type Extender struct {
	cfg Config
}

// New returns an Extender. An empty BaseURL disables rewriting.
func New(cfg Config) *Extender {
	return &Extender{cfg: cfg}
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&transformer{base: e.cfg.BaseURL}, Priority),
	))
}

type transformer struct {
	base string
}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	if t.base == "" {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok || !urlutil.IsRelative(string(img.Destination)) {
			return ast.WalkContinue, nil
		}
		abs, err := urlutil.Resolve(t.base, string(img.Destination))
		if err != nil {
			return ast.WalkContinue, nil
		}
		img.Destination = []byte(abs)
		return ast.WalkContinue, nil
	})
}
