// Package replimgsrc is a goldmark extension that runs a find/replace over
// every Markdown image source.
package replimgsrc

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Priority of the transformer.
const Priority = 200

// Config holds the extension settings. With an empty Find, Replace is
// prepended to every source.
type Config struct {
	Find    string `yaml:"find"`
	Replace string `yaml:"replace"`
}

// Extender rewrites image destinations.
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
		util.Prioritized(&transformer{find: []byte(e.cfg.Find), repl: []byte(e.cfg.Replace)}, Priority),
	))
}

type transformer struct {
	find, repl []byte
}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	if len(t.find) == 0 && len(t.repl) == 0 {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := n.(*ast.Image); ok && entering {
			img.Destination = t.rewrite(img.Destination)
		}
		return ast.WalkContinue, nil
	})
}

func (t *transformer) rewrite(dest []byte) []byte {
	if len(t.find) == 0 {
		return append(append([]byte{}, t.repl...), dest...)
	}
	return bytes.ReplaceAll(dest, t.find, t.repl)
}
