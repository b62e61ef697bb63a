// Package keys is a goldmark extension for keyboard shortcuts.
//
// ++Ctrl+Alt+Del++ renders as a sequence of <kbd> elements, each carrying a
// key-NAME class so that stylesheets can draw key caps:
//
//	<span class="keys"><kbd class="key-control">Ctrl</kbd><span>+</span>...</span>
//
// Key names are normalized and resolved through an alias table and a key
// map; a sequence containing an unknown key is left as plain text. Quoted
// strings (++"Hello"++) render as bare <kbd> elements.
//
// With Config.Pipes set, the legacy ||text|| form renders as <kbd>text</kbd>.
package keys

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Priority of the inline parsers and the renderer.
const (
	ParserPriority   = 150
	RendererPriority = 500
)

var (
	keysPattern  = regexp.MustCompile(`^\+\+((?:(?:[\w-]+|"(?:\\.|[^"\\])+"|'(?:\\.|[^'\\])+')\+)*?(?:[\w-]+|"(?:\\.|[^"\\])+"|'(?:\\.|[^'\\])+'))\+\+`)
	tokenPattern = regexp.MustCompile(`[\w-]+|"(?:\\.|[^"\\])+"|'(?:\\.|[^'\\])+'`)
	pipesPattern = regexp.MustCompile(`^\|\|([^\s|](?:[^|]*[^\s|])?)\|\|`)
)

// Config holds the extension settings.
type Config struct {
	Separator string            `yaml:"separator"`
	Strict    bool              `yaml:"strict"`
	CamelCase bool              `yaml:"camel_case"`
	Class     string            `yaml:"class"`
	KeyMap    map[string]string `yaml:"key_map"`
	Pipes     bool              `yaml:"pipes"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{Separator: "+", Class: "keys"}
}

// Key is one element of a shortcut.
type Key struct {
	// Name is the canonical key name, empty for a quoted string.
	Name string
	// Display is the text shown inside the <kbd>.
	Display string
}

// KindKeys is the node kind of a Keys node.
var KindKeys = ast.NewNodeKind("Keys")

// Keys is an inline node holding a parsed shortcut.
type Keys struct {
	ast.BaseInline
	Items []Key
}

// Kind implements ast.Node.
func (n *Keys) Kind() ast.NodeKind { return KindKeys }

// Dump implements ast.Node.
func (n *Keys) Dump(source []byte, level int) {
	names := make([]string, 0, len(n.Items))
	for _, k := range n.Items {
		names = append(names, k.Name)
	}
	ast.DumpHelper(n, source, level, map[string]string{"Keys": strings.Join(names, ",")}, nil)
}

// KindKbd is the node kind of a Kbd node.
var KindKbd = ast.NewNodeKind("Kbd")

// Kbd is an inline node for the ||text|| form. Its children hold the text.
type Kbd struct {
	ast.BaseInline
}

// Kind implements ast.Node.
func (n *Kbd) Kind() ast.NodeKind { return KindKbd }

// Dump implements ast.Node.
func (n *Kbd) Dump(source []byte, level int) { ast.DumpHelper(n, source, level, nil, nil) }

// Extender installs the parsers and renderer.
type Extender struct {
	cfg    Config
	keyMap map[string]string
}

// New returns an Extender. cfg.KeyMap entries override and extend the
// built-in key map.
func New(cfg Config) *Extender {
	km := make(map[string]string, len(keyMap)+len(cfg.KeyMap))
	for k, v := range keyMap {
		km[k] = v
	}
	for k, v := range cfg.KeyMap {
		km[k] = v
	}
	return &Extender{cfg: cfg, keyMap: km}
}

// Extend implements goldmark.Extender.
func (e *Extender) Extend(m goldmark.Markdown) {
	parsers := []util.PrioritizedValue{
		util.Prioritized(&keysParser{ext: e}, ParserPriority),
	}
	if e.cfg.Pipes {
		parsers = append(parsers, util.Prioritized(&pipesParser{}, ParserPriority))
	}
	m.Parser().AddOptions(parser.WithInlineParsers(parsers...))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&Renderer{cfg: e.cfg}, RendererPriority),
	))
}

// Normalize turns a raw key token into its lookup form.
func Normalize(key string, camelCase bool) string {
	if camelCase {
		var b strings.Builder
		var prev rune
		for i, r := range key {
			if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			prev = r
		}
		key = b.String()
	}
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// Lookup resolves a raw key token to a Key. It reports false for an
// unknown key.
func (e *Extender) Lookup(raw string) (Key, bool) {
	norm := Normalize(raw, e.cfg.CamelCase)
	if canon, ok := keyAlias[norm]; ok {
		norm = canon
	}
	display, ok := e.keyMap[norm]
	if !ok {
		return Key{}, false
	}
	return Key{Name: norm, Display: display}, true
}

type keysParser struct {
	ext *Extender
}

func (p *keysParser) Trigger() []byte {
	return []byte{'+'}
}

func (p *keysParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	m := keysPattern.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}

	var items []Key
	for _, tok := range tokenPattern.FindAllString(string(line[m[2]:m[3]]), -1) {
		if tok[0] == '"' || tok[0] == '\'' {
			items = append(items, Key{Display: unquote(tok)})
			continue
		}
		k, ok := p.ext.Lookup(tok)
		if !ok {
			return nil
		}
		items = append(items, k)
	}
	block.Advance(m[1])
	return &Keys{Items: items}
}

// unquote strips the surrounding quotes and resolves backslash escapes.
func unquote(tok string) string {
	body := tok[1 : len(tok)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

type pipesParser struct{}

func (p *pipesParser) Trigger() []byte {
	return []byte{'|'}
}

func (p *pipesParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	m := pipesPattern.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}
	block.Advance(m[1])
	n := &Kbd{}
	n.AppendChild(n, ast.NewTextSegment(text.NewSegment(seg.Start+m[2], seg.Start+m[3])))
	return n
}

// Renderer renders Keys and Kbd nodes.
type Renderer struct {
	cfg Config
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *Renderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindKeys, r.renderKeys)
	reg.Register(KindKbd, r.renderKbd)
}

func (r *Renderer) renderKeys(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Keys)

	tag := "span"
	if r.cfg.Strict {
		tag = "kbd"
	}
	_, _ = w.WriteString("<" + tag)
	if r.cfg.Class != "" {
		_, _ = w.WriteString(` class="`)
		_, _ = w.Write(util.EscapeHTML([]byte(r.cfg.Class)))
		_ = w.WriteByte('"')
	}
	_ = w.WriteByte('>')

	for i, k := range n.Items {
		if i > 0 && r.cfg.Separator != "" {
			_, _ = w.WriteString("<span>")
			_, _ = w.Write(util.EscapeHTML([]byte(r.cfg.Separator)))
			_, _ = w.WriteString("</span>")
		}
		if k.Name == "" {
			_, _ = w.WriteString("<kbd>")
		} else {
			_, _ = w.WriteString(`<kbd class="key-`)
			_, _ = w.Write(util.EscapeHTML([]byte(k.Name)))
			_, _ = w.WriteString(`">`)
		}
		_, _ = w.Write(util.EscapeHTML([]byte(k.Display)))
		_, _ = w.WriteString("</kbd>")
	}

	_, _ = w.WriteString("</" + tag + ">")
	return ast.WalkSkipChildren, nil
}

func (r *Renderer) renderKbd(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<kbd>")
	} else {
		_, _ = w.WriteString("</kbd>")
	}
	return ast.WalkContinue, nil
}
