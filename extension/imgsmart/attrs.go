package imgsmart

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	// attrListPattern matches a whole {: ...} or {...} list.
	attrListPattern = regexp.MustCompile(`^\{:?([^}]*)\}$`)
	// pairPattern matches key=value with a bare or quoted value.
	pairPattern = regexp.MustCompile(`(^|[\s,])([^\s{}=#.'",][^\s{}='",]*)\s*=\s*("[^"]*"|'[^']*'|[^\s},]+)`)
	// invalidKeyChars matches characters not allowed in attribute names.
	invalidKeyChars = regexp.MustCompile(`[^A-Za-z0-9_:.-]`)
)

// imageAttrs is the interpreted form of an attribute list.
type imageAttrs struct {
	classes []string
	others  []parser.Attribute
	width   int
	height  int
	scale   float64
	title   string
}

// parseAttrList parses an attribute list such as
// {: .lores #hero width=400 data-scale=50% title="At dawn"}.
// It reports false when s is not a well-formed list.
func parseAttrList(s string) (imageAttrs, bool) {
	ia := imageAttrs{scale: defaultScale}
	if s == "" {
		return ia, true
	}
	m := attrListPattern.FindStringSubmatch(s)
	if m == nil {
		return ia, false
	}

	normalized := "{" + quotePairs(m[1]) + "}"
	attrs, ok := parser.ParseAttributes(text.NewReader([]byte(normalized)))
	if !ok {
		return ia, false
	}

	for _, a := range attrs {
		name := string(a.Name)
		value := attrString(a.Value)
		switch name {
		case "class":
			for _, c := range strings.Fields(value) {
				if c == "lores" {
					ia.scale = 1
				}
				ia.classes = append(ia.classes, c)
			}
			continue
		case "data-scale":
			if n, err := strconv.Atoi(strings.TrimSuffix(value, "%")); err == nil && n > 0 {
				ia.scale = 100 / float64(n)
			}
			continue
		case "title":
			ia.title = value
			continue
		case "width":
			ia.width, _ = strconv.Atoi(value)
		case "height":
			ia.height, _ = strconv.Atoi(value)
		}
		ia.others = append(ia.others, parser.Attribute{Name: a.Name, Value: []byte(value)})
	}
	return ia, true
}

// quotePairs rewrites every key=value pair to key="value" with a valid
// attribute name, so goldmark's attribute parser accepts percentages and
// other bare values.
func quotePairs(s string) string {
	return pairPattern.ReplaceAllStringFunc(s, func(pair string) string {
		sm := pairPattern.FindStringSubmatch(pair)
		value := sm[3]
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') {
			value = value[1 : len(value)-1]
		}
		value = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
		return sm[1] + sanitizeKey(sm[2]) + `="` + value + `"`
	})
}

func sanitizeKey(key string) string {
	key = invalidKeyChars.ReplaceAllString(key, "_")
	switch c := key[0]; {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == ':':
		return key
	default:
		return "_" + key
	}
}

func attrString(v any) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return ""
	}
}
