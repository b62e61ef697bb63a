package mdsteroids

import (
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
)

// Input contains the data for one conversion.
type Input struct {
	Markdown   string // Markdown content (required)
	SourceDir  string // Directory of the document, for relative image paths (optional)
	Standalone bool   // Wrap the fragment in a complete HTML5 document
	Title      string // Document title when Standalone; defaults to meta "title"
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML string         // Rendered HTML fragment or document
	Meta map[string]any // Front matter, nil when the document has none
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	hardWraps      bool
	xhtml          bool
	unsafe         bool
	highlight      bool
	highlightStyle string
	extensions     []goldmark.Extender
	logger         *slog.Logger
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdsteroids: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithExtensions appends goldmark extensions. Extensions that also
// implement Preprocessor or Postprocessor run in the order given.
func WithExtensions(exts ...goldmark.Extender) Option {
	return func(c *Converter) {
		c.cfg.extensions = append(c.cfg.extensions, exts...)
	}
}

// WithHardWraps renders soft line breaks as <br>.
func WithHardWraps() Option {
	return func(c *Converter) {
		c.cfg.hardWraps = true
	}
}

// WithXHTML toggles self-closing void elements. It is on by default.
func WithXHTML(on bool) Option {
	return func(c *Converter) {
		c.cfg.xhtml = on
	}
}

// WithUnsafe toggles raw HTML output. It is on by default; without it
// goldmark drops raw HTML before postprocessors can see it.
func WithUnsafe(on bool) Option {
	return func(c *Converter) {
		c.cfg.unsafe = on
	}
}

// WithHighlighting enables chroma syntax highlighting with the given
// style. An empty style selects the default.
func WithHighlighting(style string) Option {
	return func(c *Converter) {
		c.cfg.highlight = true
		c.cfg.highlightStyle = style
	}
}

// WithoutHighlighting disables syntax highlighting.
func WithoutHighlighting() Option {
	return func(c *Converter) {
		c.cfg.highlight = false
	}
}

// WithLogger sets the logger for conversion diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}
