package mdsteroids

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/alnah/go-mdsteroids/extension/absimgsrc"
	"github.com/alnah/go-mdsteroids/extension/comments"
	"github.com/alnah/go-mdsteroids/extension/figcap"
	"github.com/alnah/go-mdsteroids/extension/figcaption"
	"github.com/alnah/go-mdsteroids/extension/imgsmart"
	"github.com/alnah/go-mdsteroids/extension/interlink"
	"github.com/alnah/go-mdsteroids/extension/keys"
	"github.com/alnah/go-mdsteroids/extension/killtags"
	"github.com/alnah/go-mdsteroids/extension/metayaml"
	"github.com/alnah/go-mdsteroids/extension/replimgsrc"
	"github.com/alnah/go-mdsteroids/extension/templating"
	"github.com/alnah/go-mdsteroids/extension/translateno"
	"github.com/alnah/go-mdsteroids/extension/wikilink"
	"github.com/alnah/go-mdsteroids/internal/yamlutil"
)

// builder constructs an extension from a loosely typed config map.
type builder func(raw map[string]any, o *extensionOptions) (goldmark.Extender, error)

// extensionOptions holds settings that do not come from config maps.
type extensionOptions struct {
	logger *slog.Logger
}

// ExtensionOption configures NewExtension.
type ExtensionOption func(*extensionOptions)

// WithExtensionLogger sets the logger for extensions that report soft
// failures, such as img_smart probes.
func WithExtensionLogger(l *slog.Logger) ExtensionOption {
	return func(o *extensionOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// legacyPrefix is accepted in front of extension names, so configs
// written for the Python package keep working.
const legacyPrefix = "mdx_steroids."

// aliases maps alternative names to registry names.
var aliases = map[string]string{
	"md_mako":   "templating",
	"meta":      "meta_yaml",
	"wikilinks": "wikilink",
}

var registry = map[string]builder{
	"absimgsrc": configured(zero[absimgsrc.Config], func(c absimgsrc.Config, _ *extensionOptions) (goldmark.Extender, error) {
		return absimgsrc.New(c), nil
	}),
	"replimgsrc": configured(zero[replimgsrc.Config], func(c replimgsrc.Config, _ *extensionOptions) (goldmark.Extender, error) {
		return replimgsrc.New(c), nil
	}),
	"comments":   bare(func() goldmark.Extender { return comments.New() }),
	"figcap":     bare(func() goldmark.Extender { return figcap.New() }),
	"figcaption": bare(func() goldmark.Extender { return figcaption.New() }),
	"img_smart": configured(zero[imgsmart.Config], func(c imgsmart.Config, o *extensionOptions) (goldmark.Extender, error) {
		return imgsmart.New(c, imgsmart.WithLogger(o.logger)), nil
	}),
	"interlink": configured(zero[interlink.Config], func(c interlink.Config, _ *extensionOptions) (goldmark.Extender, error) {
		return interlink.New(c), nil
	}),
	"wikilink": configured(wikilink.DefaultConfig, func(c wikilink.Config, _ *extensionOptions) (goldmark.Extender, error) {
		return wikilink.New(c), nil
	}),
	"keys": configured(keys.DefaultConfig, func(c keys.Config, _ *extensionOptions) (goldmark.Extender, error) {
		return keys.New(c), nil
	}),
	"kill_tags": configured(killtags.DefaultConfig, func(c killtags.Config, _ *extensionOptions) (goldmark.Extender, error) {
		return killtags.New(c)
	}),
	"del_del": bare(func() goldmark.Extender { return killtags.DelDel() }),
	"translate_no": configured(translateno.DefaultConfig, func(c translateno.Config, _ *extensionOptions) (goldmark.Extender, error) {
		return translateno.New(c)
	}),
	"templating": configured(templating.DefaultConfig, func(c templating.Config, _ *extensionOptions) (goldmark.Extender, error) {
		return templating.New(c)
	}),
	"meta_yaml": bare(func() goldmark.Extender { return metayaml.New() }),
}

// NewExtension builds the extension registered under name from a config
// map, as decoded from YAML. Keys missing from cfg keep their defaults;
// unknown keys are rejected.
func NewExtension(name string, cfg map[string]any, opts ...ExtensionOption) (goldmark.Extender, error) {
	key := canonicalName(name)
	build, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}
	o := &extensionOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	ext, err := build(cfg, o)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrExtensionConfig, key, err)
	}
	return ext, nil
}

// ExtensionNames returns the registered extension names, sorted.
// Aliases are not included.
func ExtensionNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func canonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, legacyPrefix)
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}

// configured decodes raw over the defaults before calling ctor.
func configured[C any](defaults func() C, ctor func(C, *extensionOptions) (goldmark.Extender, error)) builder {
	return func(raw map[string]any, o *extensionOptions) (goldmark.Extender, error) {
		cfg := defaults()
		if err := yamlutil.Decode(raw, &cfg); err != nil {
			return nil, err
		}
		return ctor(cfg, o)
	}
}

// bare wraps an extension that takes no settings.
func bare(ctor func() goldmark.Extender) builder {
	return func(raw map[string]any, _ *extensionOptions) (goldmark.Extender, error) {
		if len(raw) > 0 {
			return nil, fmt.Errorf("takes no settings, got %d", len(raw))
		}
		return ctor(), nil
	}
}

func zero[C any]() C {
	var c C
	return c
}
