// Package urlutil classifies and resolves the link and image destinations
// that extensions rewrite.
package urlutil

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// schemePattern matches an RFC 3986 scheme followed by ':'. Single letters
// are excluded so Windows drive paths are not mistaken for URLs.
var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]+:`)

// HasScheme reports whether s starts with a URL scheme (http:, data:, mailto:).
func HasScheme(s string) bool {
	return schemePattern.MatchString(s)
}

// IsRelative reports whether s is a relative reference that a base URL
// can be applied to. Empty strings, absolute URLs, protocol-relative URLs
// and bare fragments are not relative.
func IsRelative(s string) bool {
	if s == "" {
		return false
	}
	if HasScheme(s) {
		return false
	}
	if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "#") {
		return false
	}
	return true
}

// Resolve resolves ref against base. A missing trailing slash is added to
// base first, so "https://example.com/images" behaves as a directory.
func Resolve(base, ref string) (string, error) {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing reference %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}

// LocalPath maps an image source to a filesystem path. file:// URLs are
// unwrapped, absolute paths are kept, and relative ones are joined to dir
// when dir is set.
func LocalPath(src, dir string) string {
	if strings.HasPrefix(src, "file://") {
		if u, err := url.Parse(src); err == nil {
			return filepath.FromSlash(u.Path)
		}
	}
	if unescaped, err := url.PathUnescape(src); err == nil {
		src = unescaped
	}
	p := filepath.FromSlash(src)
	if dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
