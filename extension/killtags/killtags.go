// Package killtags removes elements from the rendered HTML.
//
// Elements matched by the configured selectors are removed together with
// their content; text that followed them stays in place. Selectors are CSS,
// or XPath when prefixed with "!". Listed tags that end up empty (no text
// and no attributes anywhere inside) are removed as well.
//
// killtags runs on HTML, so it implements pipeline.Postprocessor and its
// goldmark Extend method does nothing.
package killtags

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"github.com/alnah/go-mdsteroids/internal/pipeline"
	"github.com/alnah/go-mdsteroids/internal/selector"
)

// KnownSelectors remove struck-out text: fenced blocks tagged "del" and
// every <del> element, including GFM ~~strikethrough~~.
var KnownSelectors = []string{
	"!//pre[code[contains(concat(' ', normalize-space(@class), ' '), ' language-del ')]]",
	"del",
}

// DefaultKillEmpty lists the tags removed when empty.
var DefaultKillEmpty = []string{"p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "pre"}

// Config holds the extension settings.
type Config struct {
	Kill      []string `yaml:"kill"`
	KillKnown bool     `yaml:"kill_known"`
	KillEmpty []string `yaml:"kill_empty"`
	Normalize bool     `yaml:"normalize"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{KillEmpty: append([]string(nil), DefaultKillEmpty...)}
}

// Extender removes elements after rendering.
type Extender struct {
	normalize bool
	kill      []*selector.Selector
	empty     []*selector.Selector
}

// New compiles the selectors in cfg.
func New(cfg Config) (*Extender, error) {
	exprs := append([]string(nil), cfg.Kill...)
	if cfg.KillKnown {
		exprs = append(exprs, KnownSelectors...)
	}
	kill, err := selector.CompileAll(exprs)
	if err != nil {
		return nil, err
	}
	empty, err := selector.CompileAll(cfg.KillEmpty)
	if err != nil {
		return nil, err
	}
	return &Extender{normalize: cfg.Normalize, kill: kill, empty: empty}, nil
}

// DelDel returns an Extender that removes every <del> element.
func DelDel() *Extender {
	e, err := New(Config{Kill: []string{"del"}})
	if err != nil {
		panic(err)
	}
	return e
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(goldmark.Markdown) {}

// Postprocess implements pipeline.Postprocessor.
func (e *Extender) Postprocess(ctx context.Context, content []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(e.kill) == 0 && len(e.empty) == 0 && !e.normalize {
		return content, nil
	}
	return pipeline.EditHTML(content, e.normalize, func(doc *goquery.Document) error {
		selector.FindAll(doc.Selection, e.kill).Remove()
		for _, s := range e.empty {
			s.Find(doc.Selection).FilterFunction(func(_ int, sel *goquery.Selection) bool {
				return isEmpty(sel.Get(0))
			}).Remove()
		}
		return nil
	})
}

// isEmpty reports whether n and its descendants have no attributes and no
// text other than whitespace.
func isEmpty(n *html.Node) bool {
	if len(n.Attr) > 0 {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.Trim(c.Data, " \t\r\n") != "" {
				return false
			}
		case html.ElementNode:
			if !isEmpty(c) {
				return false
			}
		}
	}
	return true
}
