// Package templating runs Markdown through the pongo2 template engine
// before it is parsed, so documents can use variables, loops, conditions
// and includes in Django syntax:
//
//	---
//	author: Jane Roe
//	---
//	{{ author }} wrote this.
//
//	{% for item in items %}
//	- {{ item }}
//	{% endfor %}
//
// Variables come from Config.Meta, overridden by the document front
// matter. The front matter block itself is not templated and is kept in
// place for later stages. Output is not HTML-escaped.
package templating

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/yuin/goldmark"

	"github.com/alnah/go-mdsteroids/extension/metayaml"
)

// ErrTemplate indicates a template failed to compile or render.
var ErrTemplate = errors.New("template error")

// invalidIdentChars matches characters pongo2 rejects in variable names.
var invalidIdentChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Config holds the extension settings.
type Config struct {
	Meta        map[string]any `yaml:"meta"`
	IncludeBase string         `yaml:"include_base"`
	IncludeAuto string         `yaml:"include_auto"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{IncludeBase: "."}
}

// Extender renders documents as templates.
type Extender struct {
	cfg Config
	set *pongo2.TemplateSet

	// pongo2 template sets are not safe for concurrent compilation.
	mu sync.Mutex
}

// New returns an Extender. It fails when IncludeBase is not a directory.
func New(cfg Config) (*Extender, error) {
	base := cfg.IncludeBase
	if base == "" {
		base = "."
	}
	loader, err := pongo2.NewLocalFileSystemLoader(base)
	if err != nil {
		return nil, fmt.Errorf("%w: include base %q: %v", ErrTemplate, base, err)
	}
	return &Extender{cfg: cfg, set: pongo2.NewSet("mdsteroids", loader)}, nil
}

// Extend implements goldmark.Extender. The work happens in Preprocess.
func (e *Extender) Extend(goldmark.Markdown) {}

// Preprocess implements pipeline.Preprocessor. meta is the document front
// matter when the caller already decoded it; otherwise it is read from src.
func (e *Extender) Preprocess(ctx context.Context, src []byte, meta map[string]any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts, err := metayaml.Split(src)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		meta = parts.Meta
	}

	body := string(parts.Body)
	if e.cfg.IncludeAuto != "" {
		body = fmt.Sprintf("{%% include %q %%}\n", e.cfg.IncludeAuto) + body
	}
	body = "{% autoescape off %}" + body + "{% endautoescape %}"

	out, err := e.render(body, e.variables(meta))
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, parts.FrontMatter...), out...), nil
}

func (e *Extender) render(body string, vars pongo2.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tpl, err := e.set.FromString(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	out, err := tpl.Execute(vars)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return out, nil
}

// variables merges the configured variables with meta. Front matter keys
// are lower-cased. Characters pongo2 does not accept in names become "_".
func (e *Extender) variables(meta map[string]any) pongo2.Context {
	vars := make(pongo2.Context, len(e.cfg.Meta)+len(meta))
	for k, v := range e.cfg.Meta {
		if k != "" {
			vars[identifier(k)] = v
		}
	}
	for k, v := range meta {
		if k != "" {
			vars[identifier(strings.ToLower(k))] = v
		}
	}
	return vars
}

func identifier(key string) string {
	return invalidIdentChars.ReplaceAllString(key, "_")
}
