// Package figcaption is a goldmark extension for figures whose caption is
// written on the lines after the images, each caption line introduced by a
// colon:
//
//	![](chart.png)
//	:   Quarterly revenue, *in millions*.
//	    Source: annual report.
//
// The paragraph becomes a <figure> holding the images and a <figcaption>
// with the caption as a paragraph. Markdown inside the caption is kept.
package figcaption

import (
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdsteroids/extension/figure"
)

// Priority of the transformer. It runs before figcap so that images with
// titles inside a captioned figure are not wrapped twice.
const Priority = 300

var captionPrefix = regexp.MustCompile(`^:[ ]{1,3}`)

// Figcaption is a ready to use Extender.
var Figcaption = &Extender{}

// Extender builds figures from image paragraphs followed by caption lines.
type Extender struct{}

// New returns an Extender.
func New() *Extender {
	return &Extender{}
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&transformer{}, Priority),
	))
	figure.Register(m)
}

type transformer struct{}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var blocks []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && (n.Kind() == ast.KindParagraph || n.Kind() == ast.KindTextBlock) {
			blocks = append(blocks, n)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, b := range blocks {
		convert(b, source)
	}
}

// convert rewrites block into a Figure when it matches the images + caption
// shape, and leaves it untouched otherwise.
func convert(block ast.Node, source []byte) {
	start := captionStart(block, source)
	if start == nil {
		return
	}

	images := 0
	for c := block.FirstChild(); c != start; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Image:
			images++
		case *ast.Text:
			if !util.IsBlank(v.Segment.Value(source)) {
				return
			}
		default:
			return
		}
	}
	if images == 0 {
		return
	}

	fig := figure.NewFigure()
	for c := block.FirstChild(); c != start; {
		next := c.NextSibling()
		if next != start {
			fig.AppendChild(fig, c)
		}
		c = next
	}

	para := ast.NewParagraph()
	for c := start; c != nil; {
		next := c.NextSibling()
		if t, ok := c.(*ast.Text); ok && atLineStart(t) {
			stripPrefix(t, source)
		}
		para.AppendChild(para, c)
		c = next
	}

	caption := figure.NewFigCaption()
	caption.AppendChild(caption, para)
	fig.AppendChild(fig, caption)

	parent := block.Parent()
	parent.ReplaceChild(parent, block, fig)
}

// captionStart returns the first Text node that opens a line with the
// caption prefix, or nil.
func captionStart(block ast.Node, source []byte) ast.Node {
	for c := block.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok || !atLineStart(t) {
			continue
		}
		if captionPrefix.Match(t.Segment.Value(source)) {
			return t
		}
	}
	return nil
}

func atLineStart(t *ast.Text) bool {
	prev, ok := t.PreviousSibling().(*ast.Text)
	return ok && (prev.SoftLineBreak() || prev.HardLineBreak())
}

func stripPrefix(t *ast.Text, source []byte) {
	loc := captionPrefix.FindIndex(t.Segment.Value(source))
	if loc == nil {
		return
	}
	t.Segment = t.Segment.WithStart(t.Segment.Start + loc[1])
}
