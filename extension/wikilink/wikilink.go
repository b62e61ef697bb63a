// Package wikilink is a goldmark extension for [[Page Name]] links.
//
// The label becomes the link text and its slug becomes the page part of the
// URL: with the defaults, [[Getting Started]] renders as
// <a href="/getting-started/" class="wikilink">Getting Started</a>.
package wikilink

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Priority of the inline parser. It must stay below the link parser (200)
// so that [[...]] is tried before an ordinary link label.
const Priority = 199

var wikiPattern = regexp.MustCompile(`^\[\[([\p{L}\p{N}_ -]+)\]\]`)

// Config holds the extension settings.
type Config struct {
	BaseURL   string `yaml:"base_url"`
	EndURL    string `yaml:"end_url"`
	HTMLClass string `yaml:"html_class"`
	SpaceSep  string `yaml:"space_sep"`
}

// DefaultConfig returns the settings used when a field is left empty by
// the registry.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "/",
		EndURL:    "/",
		HTMLClass: "wikilink",
		SpaceSep:  "-",
	}
}

// Extender installs the wiki link parser.
type Extender struct {
	cfg Config
}

// New returns an Extender using cfg as is.
func New(cfg Config) *Extender {
	return &Extender{cfg: cfg}
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&wikiParser{cfg: e.cfg}, Priority),
	))
}

// URL builds the destination for label.
func (c Config) URL(label string) string {
	return c.BaseURL + Slugify(label, c.SpaceSep) + c.EndURL
}

// Slugify lowercases and transliterates label, joining words with sep.
func Slugify(label, sep string) string {
	s := slug.Make(label)
	if sep != "-" {
		s = strings.ReplaceAll(s, "-", sep)
	}
	return s
}

type wikiParser struct {
	cfg Config
}

func (p *wikiParser) Trigger() []byte {
	return []byte{'['}
}

func (p *wikiParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	m := wikiPattern.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}
	label := string(line[m[2]:m[3]])
	if strings.TrimSpace(label) == "" {
		return nil
	}
	block.Advance(m[1])

	link := ast.NewLink()
	link.Destination = []byte(p.cfg.URL(label))
	link.AppendChild(link, ast.NewTextSegment(text.NewSegment(seg.Start+m[2], seg.Start+m[3])))
	if p.cfg.HTMLClass != "" {
		link.SetAttributeString("class", []byte(p.cfg.HTMLClass))
	}
	return link
}
