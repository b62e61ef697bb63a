package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates goldmark failed to render the document.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// documentTemplate wraps a rendered fragment in a complete HTML5 document.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

// EngineOptions selects the goldmark features of an Engine.
type EngineOptions struct {
	HardWraps      bool
	XHTML          bool
	Unsafe         bool
	Highlight      bool
	HighlightStyle string
	Extensions     []goldmark.Extender
}

// Engine converts Markdown to an HTML fragment with goldmark.
type Engine struct {
	md goldmark.Markdown
}

// NewEngine builds a goldmark instance with GFM, footnotes, heading IDs and
// the given extensions. Extensions are applied after the built-in ones, so
// they can override renderers of the same node kind.
func NewEngine(opts EngineOptions) *Engine {
	exts := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
	}
	if opts.Highlight {
		style := opts.HighlightStyle
		if style == "" {
			style = DefaultHighlightStyle
		}
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // CSS classes, the stylesheet is up to the site
			),
		))
	}
	exts = append(exts, opts.Extensions...)

	var rendererOpts []renderer.Option
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, gmhtml.WithHardWraps()) // Treat newlines as <br>
	}
	if opts.XHTML {
		rendererOpts = append(rendererOpts, gmhtml.WithXHTML())
	}
	if opts.Unsafe {
		// Raw HTML must reach postprocessors and hidden-comment removal.
		rendererOpts = append(rendererOpts, gmhtml.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Engine{md: md}
}

// Markdown exposes the underlying goldmark instance.
func (e *Engine) Markdown() goldmark.Markdown {
	return e.md
}

// Render converts src to an HTML fragment. pc may be nil.
// goldmark has no context support, so the conversion runs in a goroutine
// and Render returns as soon as ctx is done.
func (e *Engine) Render(ctx context.Context, src []byte, pc parser.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pc == nil {
		pc = parser.NewContext()
	}

	type result struct {
		html []byte
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHTMLConversion, r)}
			}
		}()
		var buf bytes.Buffer
		if err := e.md.Convert(src, &buf, parser.WithContext(pc)); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.Bytes()}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// Standalone wraps an HTML fragment in a complete HTML5 document.
// An empty title falls back to "Document".
func Standalone(fragment []byte, title string) []byte {
	if title == "" {
		title = "Document"
	}
	return fmt.Appendf(nil, documentTemplate, html.EscapeString(title), bytes.TrimRight(fragment, "\n"))
}
