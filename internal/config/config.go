package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdsteroids/internal/fileutil"
	"github.com/alnah/go-mdsteroids/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// Field length limits.
const (
	MaxPathLength          = 4096 // PATH_MAX on Linux
	MaxStyleLength         = 50   // chroma style names are short
	MaxExtensionNameLength = 64
	MaxExtensionCount      = 64
)

// appDirName is the directory under the user config dir searched for
// named configs.
const appDirName = "go-mdsteroids"

// Config holds all configuration for a conversion run.
type Config struct {
	Input      InputConfig       `yaml:"input"`
	Output     OutputConfig      `yaml:"output"`
	HTML       HTMLConfig        `yaml:"html"`
	Extensions []ExtensionConfig `yaml:"extensions"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// HTMLConfig defines rendering options.
type HTMLConfig struct {
	Standalone     bool   `yaml:"standalone"`     // Full HTML5 document instead of a fragment
	HardWraps      bool   `yaml:"hardWraps"`      // Newlines become <br>
	HighlightStyle string `yaml:"highlightStyle"` // chroma style (empty = default)
	NoHighlight    bool   `yaml:"noHighlight"`    // Disable syntax highlighting
}

// ExtensionConfig names one extension and its settings. Order in the
// config file is the order the extensions are installed in.
type ExtensionConfig struct {
	Name   string         `yaml:"name"`
	Config map[string]any `yaml:"config"`
}

// Validate checks field lengths and extension entries.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("html.highlightStyle", c.HTML.HighlightStyle, MaxStyleLength); err != nil {
		return err
	}

	if len(c.Extensions) > MaxExtensionCount {
		return fmt.Errorf("%w: extensions: %d entries, max %d", ErrInvalidField, len(c.Extensions), MaxExtensionCount)
	}
	seen := make(map[string]bool, len(c.Extensions))
	for i, ext := range c.Extensions {
		field := fmt.Sprintf("extensions[%d].name", i)
		name := strings.TrimSpace(ext.Name)
		if name == "" {
			return fmt.Errorf("%w: %s: required", ErrInvalidField, field)
		}
		if err := validateFieldLength(field, name, MaxExtensionNameLength); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("%w: %s: duplicate extension %q", ErrInvalidField, field, name)
		}
		seen[name] = true
	}

	return nil
}

// ExtensionNames returns the configured extension names in order.
func (c *Config) ExtensionNames() []string {
	names := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		names = append(names, ext.Name)
	}
	return names
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with no extensions and fragment
// output.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{DefaultDir: ""},
		Output: OutputConfig{DefaultDir: ""},
		HTML:   HTMLConfig{},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, the user config directory
// ($XDG_CONFIG_HOME/go-mdsteroids/ on Linux).
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if dir := UserConfigDir(); dir != "" {
		for _, ext := range extensions {
			userPath := filepath.Join(dir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// UserConfigDir returns the directory searched for named configs, or an
// empty string when the platform has no user config directory.
func UserConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDirName)
}
