// Package metayaml reads document front matter.
//
// YAML front matter is delimited by "---" lines and TOML front matter by
// "+++" lines, both at the very top of the document:
//
//	---
//	title: Release notes
//	author: Jane Roe
//	---
//
// The goldmark extender removes the block from the output and stores it in
// the parser context, where Get decodes it. Split does the same on raw
// source, for stages that run before goldmark. An opening line without a
// matching closing line is not front matter: "---" then stays a thematic
// break.
package metayaml

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	adrg "github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/frontmatter"

	"github.com/alnah/go-mdsteroids/internal/yamlutil"
)

// ErrFrontMatter indicates malformed front matter.
var ErrFrontMatter = errors.New("invalid front matter")

// YAML is the "---" front matter format, decoded with goccy/go-yaml.
var YAML = frontmatter.Format{
	Name:      "YAML",
	Delim:     '-',
	Unmarshal: yamlutil.UnmarshalBlock,
}

// TOML is the "+++" front matter format.
var TOML = frontmatter.TOML

// splitFormats mirrors YAML and TOML for the pre-parse splitter.
var splitFormats = []*adrg.Format{
	adrg.NewFormat("---", "---", yamlutil.UnmarshalBlock),
	adrg.NewFormat("+++", "+++", toml.Unmarshal),
}

// Extender installs the front matter block parser.
type Extender struct{}

// MetaYAML is a ready to use Extender.
var MetaYAML = &Extender{}

// New returns an Extender.
func New() *Extender {
	return &Extender{}
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&fencedParser{
			Parser: &frontmatter.Parser{Formats: []frontmatter.Format{YAML, TOML}},
		}, 0),
	))
}

// fencedParser only opens a front matter block when the document also
// contains its closing line.
type fencedParser struct {
	*frontmatter.Parser
}

func (p *fencedParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if lineno, _ := reader.Position(); lineno > 1 {
		return nil, parser.NoChildren
	}
	_, seg := reader.PeekLine()
	if !fenced(reader.Source()[seg.Start:]) {
		return nil, parser.NoChildren
	}
	return p.Parser.Open(parent, reader, pc)
}

var (
	yamlFence = []byte("---")
	tomlFence = []byte("+++")
)

// fenced reports whether src starts with a "---" or "+++" line that a later
// identical line closes.
func fenced(src []byte) bool {
	open, rest, _ := bytes.Cut(src, []byte("\n"))
	open = bytes.TrimSuffix(open, []byte("\r"))
	if !bytes.Equal(open, yamlFence) && !bytes.Equal(open, tomlFence) {
		return false
	}
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimSuffix(line, []byte("\r")), open) {
			return true
		}
	}
	return false
}

// Get returns the front matter found while parsing with pc, or nil when
// the document had none.
func Get(pc parser.Context) (map[string]any, error) {
	if pc == nil {
		return nil, nil
	}
	data := frontmatter.Get(pc)
	if data == nil {
		return nil, nil
	}
	var meta map[string]any
	if err := data.Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	return meta, nil
}

// Parts is a document split into front matter and body.
type Parts struct {
	// Meta is the decoded front matter, nil when there is none.
	Meta map[string]any
	// FrontMatter is the raw block including its delimiter lines.
	FrontMatter []byte
	// Body is everything after the front matter.
	Body []byte
}

// Split separates the front matter of src from its body. A document
// without front matter, or whose opening line is never closed, is returned
// whole as Body.
func Split(src []byte) (Parts, error) {
	if !fenced(src) {
		return Parts{Body: src}, nil
	}
	var meta map[string]any
	body, err := adrg.Parse(bytes.NewReader(src), &meta, splitFormats...)
	if err != nil {
		return Parts{}, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	head := src[:len(src)-len(body)]
	return Parts{Meta: meta, FrontMatter: head, Body: body}, nil
}
