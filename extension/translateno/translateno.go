// Package translateno marks elements that machine translation must skip.
//
// Every element matched by the configured selectors gets translate="no"
// and the notranslate class, which Google Translate and browsers honor.
// By default code, mark, pre and kbd elements are marked.
package translateno

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"

	"github.com/alnah/go-mdsteroids/internal/pipeline"
	"github.com/alnah/go-mdsteroids/internal/selector"
)

// DefaultAdd lists the selectors marked by default.
var DefaultAdd = []string{"code", "mark", "pre", "kbd"}

// Config holds the extension settings.
type Config struct {
	Add       []string `yaml:"add"`
	Normalize bool     `yaml:"normalize"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{Add: append([]string(nil), DefaultAdd...)}
}

// Extender adds no-translate markers after rendering.
type Extender struct {
	normalize bool
	add       []*selector.Selector
}

// New compiles the selectors in cfg.
func New(cfg Config) (*Extender, error) {
	add, err := selector.CompileAll(cfg.Add)
	if err != nil {
		return nil, err
	}
	return &Extender{normalize: cfg.Normalize, add: add}, nil
}

// Extend implements goldmark.Extender. The work happens in Postprocess.
func (e *Extender) Extend(goldmark.Markdown) {}

// Postprocess implements pipeline.Postprocessor.
func (e *Extender) Postprocess(ctx context.Context, content []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(e.add) == 0 && !e.normalize {
		return content, nil
	}
	return pipeline.EditHTML(content, e.normalize, func(doc *goquery.Document) error {
		selector.FindAll(doc.Selection, e.add).
			SetAttr("translate", "no").
			AddClass("notranslate")
		return nil
	})
}
