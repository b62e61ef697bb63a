// Package figure defines the <figure> and <figcaption> nodes shared by the
// figcap, figcaption and imgsmart extensions, and their renderer.
package figure

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// KindFigure is the NodeKind of Figure.
var KindFigure = ast.NewNodeKind("Figure")

// KindFigCaption is the NodeKind of FigCaption.
var KindFigCaption = ast.NewNodeKind("FigCaption")

// Figure groups media with an optional FigCaption.
// A Figure may sit inside a paragraph, in which case it renders without
// line breaks.
type Figure struct {
	ast.BaseBlock
}

// NewFigure returns an empty Figure.
func NewFigure() *Figure {
	return &Figure{}
}

// Kind implements ast.Node.
func (n *Figure) Kind() ast.NodeKind {
	return KindFigure
}

// Dump implements ast.Node.
func (n *Figure) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// FigCaption is the caption of its parent Figure.
type FigCaption struct {
	ast.BaseBlock
}

// NewFigCaption returns an empty FigCaption.
func NewFigCaption() *FigCaption {
	return &FigCaption{}
}

// Kind implements ast.Node.
func (n *FigCaption) Kind() ast.NodeKind {
	return KindFigCaption
}

// Dump implements ast.Node.
func (n *FigCaption) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// ImageOwner is implemented by nodes that render their own images. Figure
// builders leave images below such nodes alone.
type ImageOwner interface {
	ast.Node
	OwnsImages() bool
}

// Owned reports whether an ancestor of n already handles it as a figure
// or an ImageOwner.
func Owned(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == KindFigure {
			return true
		}
		if o, ok := p.(ImageOwner); ok && o.OwnsImages() {
			return true
		}
	}
	return false
}

// Renderer renders Figure and FigCaption nodes.
type Renderer struct {
	html.Config
}

// NewRenderer returns a Renderer configured by opts.
func NewRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &Renderer{Config: html.NewConfig()}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *Renderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindFigure, r.renderFigure)
	reg.Register(KindFigCaption, r.renderFigCaption)
}

// Register installs the figure renderer on m. Registering twice is harmless.
func Register(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewRenderer(), 500),
	))
}

func (r *Renderer) renderFigure(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	inline := isInline(node)
	if entering {
		_, _ = w.WriteString("<figure")
		if node.Attributes() != nil {
			html.RenderAttributes(w, node, html.GlobalAttributeFilter)
		}
		_ = w.WriteByte('>')
		if !inline {
			_ = w.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	}
	if !inline {
		if last := node.LastChild(); last != nil && last.Type() == ast.TypeInline {
			_ = w.WriteByte('\n')
		}
	}
	_, _ = w.WriteString("</figure>")
	if !inline {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *Renderer) renderFigCaption(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	inline := isInline(node)
	if entering {
		if prev := node.PreviousSibling(); !inline && prev != nil && prev.Type() == ast.TypeInline {
			_ = w.WriteByte('\n')
		}
		_, _ = w.WriteString("<figcaption")
		if node.Attributes() != nil {
			html.RenderAttributes(w, node, html.GlobalAttributeFilter)
		}
		_ = w.WriteByte('>')
		if first := node.FirstChild(); !inline && first != nil && first.Type() == ast.TypeBlock {
			_ = w.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</figcaption>")
	if !inline {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

// isInline reports whether node sits inside a paragraph-like text block.
func isInline(node ast.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case ast.KindParagraph, ast.KindTextBlock, ast.KindHeading:
			return true
		case KindFigure:
			continue
		default:
			return false
		}
	}
	return false
}
