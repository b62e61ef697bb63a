// Package figcap is a goldmark extension that turns titled images into
// figures captioned by the title:
//
//	![Mont Blanc](alps.jpg "The summit at dawn")
//
// renders as
//
//	<figure>
//	<img src="alps.jpg" alt="Mont Blanc" title="The summit at dawn" />
//	<figcaption>The summit at dawn</figcaption>
//	</figure>
//
// An image that shares its paragraph with text becomes an inline figure.
package figcap

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdsteroids/extension/figure"
)

// Priority of the transformer.
const Priority = 310

// Figcap is a ready to use Extender.
var Figcap = &Extender{}

// Extender wraps titled images in figures.
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

	var images []*ast.Image
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := n.(*ast.Image); ok && entering && len(img.Title) > 0 && !figure.Owned(img) {
			images = append(images, img)
		}
		return ast.WalkContinue, nil
	})

	for _, img := range images {
		wrap(img, source)
	}
}

func wrap(img *ast.Image, source []byte) {
	fig := figure.NewFigure()
	parent := img.Parent()

	if para, ok := parent.(*ast.Paragraph); ok && soleContent(para, img, source) {
		grand := para.Parent()
		grand.ReplaceChild(grand, para, fig)
	} else {
		parent.ReplaceChild(parent, img, fig)
	}
	fig.AppendChild(fig, img)

	caption := figure.NewFigCaption()
	caption.AppendChild(caption, ast.NewString(append([]byte(nil), img.Title...)))
	fig.AppendChild(fig, caption)
}

// soleContent reports whether img is the only non-blank child of para.
func soleContent(para *ast.Paragraph, img *ast.Image, source []byte) bool {
	for c := para.FirstChild(); c != nil; c = c.NextSibling() {
		if c == img {
			continue
		}
		t, ok := c.(*ast.Text)
		if !ok || !util.IsBlank(t.Segment.Value(source)) {
			return false
		}
	}
	return true
}
