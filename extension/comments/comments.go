// Package comments is a goldmark extension that strips hidden comments,
// written with three opening dashes:
//
//	<!-- kept in the output -->
//	<!--- removed from the output -->
//
// Only raw HTML is inspected, so comments inside code spans and code
// blocks survive untouched. Raw HTML must be enabled (html.WithUnsafe) for
// the kept comments to be rendered.
package comments

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Priority of the transformer. goldmark runs lower values first, and
// hidden comments go before anything else looks at the tree.
const Priority = 50

var (
	openMarker  = []byte("<!---")
	closeMarker = []byte("-->")
)

// Comments is a ready to use Extender.
var Comments = &Extender{}

// Extender removes hidden comments.
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
}

type transformer struct{}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var inline []ast.Node
	var blocks []*ast.HTMLBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.RawHTML:
			if v.Segments.Len() == 0 {
				break
			}
			if seg := v.Segments.At(0); bytes.HasPrefix(seg.Value(source), openMarker) {
				inline = append(inline, v)
			}
		case *ast.HTMLBlock:
			blocks = append(blocks, v)
		}
		return ast.WalkContinue, nil
	})

	for _, n := range inline {
		n.Parent().RemoveChild(n.Parent(), n)
	}
	for _, b := range blocks {
		stripBlock(b, source)
	}
}

// stripBlock removes hidden comments from an HTML block. The block is
// rebuilt from the source ranges outside the comments, and dropped when
// only whitespace remains.
func stripBlock(b *ast.HTMLBlock, source []byte) {
	lines := b.Lines()
	segs := make([]text.Segment, 0, lines.Len()+1)
	for i := 0; i < lines.Len(); i++ {
		segs = append(segs, lines.At(i))
	}
	if b.HasClosure() {
		segs = append(segs, b.ClosureLine)
	}

	found := false
	for _, s := range segs {
		if bytes.Contains(s.Value(source), openMarker) {
			found = true
			break
		}
	}
	if !found {
		return
	}

	kept := text.NewSegments()
	blank := true
	inComment := false
	for _, s := range segs {
		val := s.Value(source)
		pos := 0
		for pos < len(val) {
			if inComment {
				idx := bytes.Index(val[pos:], closeMarker)
				if idx < 0 {
					pos = len(val)
					break
				}
				pos += idx + len(closeMarker)
				inComment = false
				continue
			}
			idx := bytes.Index(val[pos:], openMarker)
			end := len(val)
			if idx >= 0 {
				end = pos + idx
			}
			if end > pos {
				kept.Append(text.NewSegment(s.Start+pos, s.Start+end))
				if !util.IsBlank(val[pos:end]) {
					blank = false
				}
			}
			if idx < 0 {
				break
			}
			// "<!--->" closes itself, so "-->" is searched from inside the opener.
			pos = end + len(openMarker) - 2
			inComment = true
		}
	}

	if blank {
		b.Parent().RemoveChild(b.Parent(), b)
		return
	}
	b.SetLines(kept)
	b.ClosureLine = text.NewSegment(-1, -1)
}
