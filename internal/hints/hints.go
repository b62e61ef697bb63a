// Package hints provides actionable error hints for common CLI failures.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests the --config flag and, when known, the user config directory.
func ForConfigNotFound(userConfigDir string) string {
	hint := "use --config /path/to/file.yaml"
	if userConfigDir != "" {
		hint += " or create a config in " + userConfigDir
	}
	return format(hint)
}

// ForTimeout returns a hint about increasing the per-file timeout.
func ForTimeout() string {
	return format("for large documents, use --timeout or MDSTEROIDS_TIMEOUT")
}

// ForUnknownExtension lists the extension names the registry accepts.
func ForUnknownExtension(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForFrontMatter returns a hint for malformed front matter.
func ForFrontMatter() string {
	return format("front matter must be a YAML or TOML mapping between --- or +++ fences")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// Join concatenates hints, dropping empty and repeated ones.
func Join(hints ...string) string {
	var b strings.Builder
	seen := make(map[string]bool, len(hints))
	for _, h := range hints {
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		b.WriteString(h)
	}
	return b.String()
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
