// Package imgsmart is a goldmark extension for standalone images.
//
// A paragraph holding a single image, optionally followed by an attribute
// list, becomes a SmartImage block:
//
//	![Harbour](photos/harbour.jpg){: .wide data-scale=50%}
//
// The image size is read from the image header (or taken from width and
// height attributes) and scaled down for high-density displays. The
// scaled width selects a size class (ims, imm, iml, imxl). Large images
// are wrapped in a fancybox lightbox link, and with Config.AltFigure the
// alt text becomes a figure caption.
package imgsmart

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdsteroids/extension/figure"
	"github.com/alnah/go-mdsteroids/internal/pipeline"
)

// Priority of the transformer. It runs before the URL rewriters so that
// probing sees the source as written.
const Priority = 100

// defaultScale assumes images are authored at twice their display size.
const defaultScale = 2.0

// Size class thresholds, in scaled pixels.
const (
	xlWidth    = 1280
	largeWidth = 500
	smallWidth = 32
)

// Config holds the extension settings.
type Config struct {
	Find      string        `yaml:"find"`
	ReplPath  string        `yaml:"repl_path"`
	ReplURL   string        `yaml:"repl_url"`
	AltFigure bool          `yaml:"alt_figure"`
	Lazy      bool          `yaml:"lazy"`
	Cache     string        `yaml:"cache"`
	Timeout   time.Duration `yaml:"timeout"`
}

// KindSmartImage is the NodeKind of SmartImage.
var KindSmartImage = ast.NewNodeKind("SmartImage")

// SmartImage is a block wrapping one ast.Image. Its attributes are the
// final <img> attributes.
type SmartImage struct {
	ast.BaseBlock
	// Box wraps the image in a lightbox link.
	Box bool
	// Figure wraps the result in <figure> with the alt text as caption.
	Figure bool
	// Caption is the lightbox caption; empty means the alt text.
	Caption []byte
}

// Kind implements ast.Node.
func (n *SmartImage) Kind() ast.NodeKind { return KindSmartImage }

// Dump implements ast.Node.
func (n *SmartImage) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Box":    strconv.FormatBool(n.Box),
		"Figure": strconv.FormatBool(n.Figure),
	}, nil)
}

// OwnsImages implements figure.ImageOwner.
func (n *SmartImage) OwnsImages() bool { return true }

// Option configures an Extender.
type Option func(*Extender)

// WithLogger sets the logger used for probe failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extender) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHTTPClient sets the client used for remote probes.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extender) {
		if c != nil {
			e.client = c
		}
	}
}

// Extender installs the smart image transformer and renderer.
type Extender struct {
	cfg    Config
	logger *slog.Logger
	client *http.Client
	prober *Prober
}

// New returns an Extender. The size cache, if any, is shared by every
// document converted with it.
func New(cfg Config, opts ...Option) *Extender {
	e := &Extender{cfg: cfg, logger: slog.Default(), client: http.DefaultClient}
	for _, opt := range opts {
		opt(e)
	}
	e.prober = NewProber(e.client, cfg.Timeout, cfg.Cache, e.logger)
	return e
}

// Prober returns the Prober used by e.
func (e *Extender) Prober() *Prober {
	return e.prober
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&transformer{ext: e}, Priority),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewRenderer(), 500),
	))
}

type transformer struct {
	ext *Extender
}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	ctx := pipeline.ConvertContext(pc)

	var paras []*ast.Paragraph
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if p, ok := n.(*ast.Paragraph); ok && entering {
			paras = append(paras, p)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, p := range paras {
		t.apply(ctx, p, source, pc)
	}

	if err := t.ext.prober.Flush(); err != nil {
		t.ext.logger.WarnContext(ctx, "unable to save image size cache", "reason", err)
	}
}

func (t *transformer) apply(ctx context.Context, p *ast.Paragraph, source []byte, pc parser.Context) {
	img, list, ok := standaloneImage(p, source)
	if !ok {
		return
	}
	attrs, ok := parseAttrList(list)
	if !ok {
		return
	}
	cfg := t.ext.cfg

	dest := string(img.Destination)
	probePath, finalURL := dest, dest
	if cfg.Find != "" && cfg.ReplPath != "" {
		probePath = strings.ReplaceAll(probePath, cfg.Find, cfg.ReplPath)
	}
	if cfg.Find != "" && cfg.ReplURL != "" {
		finalURL = strings.ReplaceAll(finalURL, cfg.Find, cfg.ReplURL)
	}

	width := attrs.width
	if attrs.width == 0 && attrs.height == 0 && probePath != "" {
		size, err := t.ext.prober.Probe(ctx, probePath, pipeline.SourceDir(pc))
		if err != nil {
			t.ext.logger.WarnContext(ctx, "unable to read image size", "src", probePath, "reason", err)
		} else {
			width = size.Width
		}
	}

	sizeClass, htmlWidth, box := classify(width, attrs.scale)

	n := &SmartImage{Box: box}
	if attrs.title != "" {
		n.Caption = []byte(attrs.title)
		img.Title = []byte(attrs.title)
	} else if len(img.Title) > 0 {
		n.Caption = img.Title
	}
	n.Figure = cfg.AltFigure && hasText(img, source)

	for _, a := range attrs.others {
		n.SetAttribute(a.Name, a.Value)
	}
	classes := append(append([]string{}, attrs.classes...), "image")
	if sizeClass != "" {
		classes = append(classes, sizeClass)
	}
	n.SetAttributeString("class", []byte(strings.Join(classes, " ")))
	if htmlWidth > 0 {
		n.SetAttributeString("width", []byte(strconv.Itoa(htmlWidth)))
	}
	if cfg.Lazy {
		n.SetAttributeString("loading", []byte("lazy"))
	}

	img.Destination = []byte(finalURL)
	p.Parent().ReplaceChild(p.Parent(), p, n)
	n.AppendChild(n, img)
}

// classify picks the size class and display width for an image width
// at the given scale. box reports whether the image gets a lightbox.
func classify(width int, scale float64) (class string, htmlWidth int, box bool) {
	if scale <= 0 {
		scale = defaultScale
	}
	scaled := int(float64(width) / scale)
	switch {
	case scaled > xlWidth:
		return "imxl", scaled, true
	case scaled > largeWidth:
		return "iml", scaled, true
	case scaled > smallWidth:
		return "imm", scaled, false
	case width > 0:
		return "ims", width, false
	default:
		return "", 0, false
	}
}

// standaloneImage reports whether p holds exactly one image on a single
// line, returning it with the trailing attribute list text, if any.
func standaloneImage(p *ast.Paragraph, source []byte) (*ast.Image, string, bool) {
	var (
		img  *ast.Image
		tail bytes.Buffer
	)
	for c := p.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Image:
			if img != nil || tail.Len() > 0 {
				return nil, "", false
			}
			img = n
		case *ast.Text:
			if n.SoftLineBreak() || n.HardLineBreak() {
				return nil, "", false
			}
			seg := n.Segment.Value(source)
			if img == nil {
				if len(bytes.TrimSpace(seg)) > 0 {
					return nil, "", false
				}
				continue
			}
			tail.Write(seg)
		default:
			return nil, "", false
		}
	}
	if img == nil || figure.Owned(img) {
		return nil, "", false
	}
	list := strings.TrimSpace(tail.String())
	if list != "" && !attrListPattern.MatchString(list) {
		return nil, "", false
	}
	return img, list, true
}

func hasText(img *ast.Image, source []byte) bool {
	found := false
	_ = ast.Walk(img, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			found = len(bytes.TrimSpace(t.Segment.Value(source))) > 0
		case *ast.String:
			found = len(bytes.TrimSpace(t.Value)) > 0
		}
		if found {
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

// Renderer renders SmartImage nodes.
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
	reg.Register(KindSmartImage, r.renderSmartImage)
}

func (r *Renderer) renderSmartImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*SmartImage)
	img, ok := n.FirstChild().(*ast.Image)
	if !ok {
		return ast.WalkSkipChildren, nil
	}

	if n.Figure {
		_, _ = w.WriteString("<figure>\n")
	}
	if n.Box {
		_, _ = w.WriteString(`<a data-fancybox="help" class="fancybox"`)
		switch {
		case len(n.Caption) > 0:
			_, _ = w.WriteString(` data-caption="`)
			r.Writer.Write(w, n.Caption)
			_ = w.WriteByte('"')
		case hasText(img, source):
			_, _ = w.WriteString(` data-caption="`)
			r.writeAlt(w, source, img)
			_ = w.WriteByte('"')
		}
		_, _ = w.WriteString(` href="`)
		r.writeURL(w, img.Destination)
		_, _ = w.WriteString(`">`)
	}

	_, _ = w.WriteString(`<img src="`)
	r.writeURL(w, img.Destination)
	_, _ = w.WriteString(`" alt="`)
	r.writeAlt(w, source, img)
	_ = w.WriteByte('"')
	if len(img.Title) > 0 {
		_, _ = w.WriteString(` title="`)
		r.Writer.Write(w, img.Title)
		_ = w.WriteByte('"')
	}
	html.RenderAttributes(w, n, nil)
	if r.XHTML {
		_, _ = w.WriteString(" />")
	} else {
		_ = w.WriteByte('>')
	}

	if n.Box {
		_, _ = w.WriteString("</a>")
	}
	_ = w.WriteByte('\n')
	if n.Figure {
		_, _ = w.WriteString("<figcaption>")
		r.writeAlt(w, source, img)
		_, _ = w.WriteString("</figcaption>\n</figure>\n")
	}
	return ast.WalkSkipChildren, nil
}

func (r *Renderer) writeURL(w util.BufWriter, dest []byte) {
	if r.Unsafe || !html.IsDangerousURL(dest) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(dest, true)))
	}
}

// writeAlt writes the plain text of the image description.
func (r *Renderer) writeAlt(w util.BufWriter, source []byte, img *ast.Image) {
	_ = ast.Walk(img, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			r.Writer.Write(w, t.Segment.Value(source))
		case *ast.String:
			r.Writer.RawWrite(w, t.Value)
		}
		return ast.WalkContinue, nil
	})
}
