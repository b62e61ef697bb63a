package mdsteroids

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"

	"github.com/alnah/go-mdsteroids/extension/killtags"
	"github.com/alnah/go-mdsteroids/extension/metayaml"
	"github.com/alnah/go-mdsteroids/extension/templating"
	"github.com/alnah/go-mdsteroids/extension/translateno"
	"github.com/alnah/go-mdsteroids/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ Preprocessor  = (*templating.Extender)(nil)
	_ Postprocessor = (*killtags.Extender)(nil)
	_ Postprocessor = (*translateno.Extender)(nil)
)

// Preprocessor rewrites Markdown source before goldmark parses it. An
// extension passed to WithExtensions that implements it runs as a text
// stage.
type Preprocessor = pipeline.Preprocessor

// Postprocessor rewrites the HTML fragment goldmark rendered. An extension
// passed to WithExtensions that implements it runs as an HTML stage.
type Postprocessor = pipeline.Postprocessor

// Converter runs the Markdown to HTML pipeline. It is safe for concurrent
// use once built.
type Converter struct {
	cfg    converterConfig
	engine *pipeline.Engine
	pre    []Preprocessor
	post   []Postprocessor
}

// NewConverter creates a Converter. By default it renders XHTML, keeps raw
// HTML and highlights code blocks with chroma CSS classes. Front matter
// is always parsed.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:   defaultTimeout,
			xhtml:     true,
			unsafe:    true,
			highlight: true,
			logger:    slog.Default(),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	exts := make([]goldmark.Extender, 0, len(c.cfg.extensions)+1)
	hasMeta := false
	for _, ext := range c.cfg.extensions {
		if ext == nil {
			return nil, fmt.Errorf("%w: nil extension", ErrExtensionConfig)
		}
		if _, ok := ext.(*metayaml.Extender); ok {
			if hasMeta {
				continue
			}
			hasMeta = true
		}
		exts = append(exts, ext)
		if p, ok := ext.(Preprocessor); ok {
			c.pre = append(c.pre, p)
		}
		if p, ok := ext.(Postprocessor); ok {
			c.post = append(c.post, p)
		}
	}
	if !hasMeta {
		exts = append([]goldmark.Extender{metayaml.New()}, exts...)
	}

	c.engine = pipeline.NewEngine(pipeline.EngineOptions{
		HardWraps:      c.cfg.hardWraps,
		XHTML:          c.cfg.xhtml,
		Unsafe:         c.cfg.unsafe,
		Highlight:      c.cfg.highlight,
		HighlightStyle: c.cfg.highlightStyle,
		Extensions:     exts,
	})
	return c, nil
}

// Markdown exposes the configured goldmark instance, for callers that
// render without the text and HTML stages.
func (c *Converter) Markdown() goldmark.Markdown {
	return c.engine.Markdown()
}

// Convert runs the pipeline:
//
//  1. line ending normalization
//  2. preprocessors, in order, with the front matter as meta
//  3. goldmark, with the source directory in the parser context
//  4. postprocessors, in order
//  5. the optional standalone document wrapper
//
// The context is used for cancellation; the converter timeout applies on
// top of it. Recovers from internal panics to prevent crashes from
// propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()
	start := time.Now()

	src := pipeline.NormalizeLineEndings([]byte(input.Markdown))

	parts, err := metayaml.Split(src)
	if err != nil {
		return nil, err
	}

	src, err = pipeline.RunPreprocessors(ctx, c.pre, src, parts.Meta)
	if err != nil {
		return nil, fmt.Errorf("preprocessing markdown: %w", err)
	}

	pc := pipeline.WithConvertContext(parser.NewContext(), ctx)
	if input.SourceDir != "" {
		pipeline.WithSourceDir(pc, input.SourceDir)
	}
	out, err := c.engine.Render(ctx, src, pc)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	meta, err := metayaml.Get(pc)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		// A preprocessor may have moved the front matter away from line 1.
		meta = parts.Meta
	}

	out, err = pipeline.RunPostprocessors(ctx, c.post, out)
	if err != nil {
		return nil, fmt.Errorf("postprocessing HTML: %w", err)
	}

	if input.Standalone {
		out = pipeline.Standalone(out, documentTitle(input, meta))
	}

	c.cfg.logger.DebugContext(ctx, "converted markdown",
		"source_dir", input.SourceDir,
		"bytes", len(out),
		"duration", time.Since(start))

	return &ConvertResult{HTML: string(out), Meta: meta}, nil
}

// validateInput checks that required fields are present.
func validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	return nil
}

// documentTitle picks the explicit title, then the "title" front matter
// key.
func documentTitle(input Input, meta map[string]any) string {
	if input.Title != "" {
		return input.Title
	}
	switch t := meta["title"].(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
