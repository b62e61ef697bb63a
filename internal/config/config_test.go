package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Input.DefaultDir != "" {
		t.Errorf("Input.DefaultDir = %q, want empty", cfg.Input.DefaultDir)
	}
	if cfg.Output.DefaultDir != "" {
		t.Errorf("Output.DefaultDir = %q, want empty", cfg.Output.DefaultDir)
	}
	if cfg.HTML.Standalone || cfg.HTML.HardWraps || cfg.HTML.NoHighlight {
		t.Errorf("HTML = %+v, want zero value", cfg.HTML)
	}
	if len(cfg.Extensions) != 0 {
		t.Errorf("Extensions = %v, want none", cfg.Extensions)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty", "", 10, false},
		{"at limit", "abcde", 5, false},
		{"over limit", "abcdef", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				if !strings.Contains(err.Error(), "field") {
					t.Errorf("error %q should name the field", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid",
			cfg: Config{
				HTML:       HTMLConfig{HighlightStyle: "monokai"},
				Extensions: []ExtensionConfig{{Name: "keys"}, {Name: "img_smart", Config: map[string]any{"lazy": true}}},
			},
		},
		{
			name:    "input dir too long",
			cfg:     Config{Input: InputConfig{DefaultDir: strings.Repeat("a", MaxPathLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "output dir too long",
			cfg:     Config{Output: OutputConfig{DefaultDir: strings.Repeat("a", MaxPathLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "style too long",
			cfg:     Config{HTML: HTMLConfig{HighlightStyle: strings.Repeat("a", MaxStyleLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "extension without name",
			cfg:     Config{Extensions: []ExtensionConfig{{Name: "  "}}},
			wantErr: ErrInvalidField,
		},
		{
			name:    "extension name too long",
			cfg:     Config{Extensions: []ExtensionConfig{{Name: strings.Repeat("a", MaxExtensionNameLength+1)}}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "duplicate extension",
			cfg:     Config{Extensions: []ExtensionConfig{{Name: "keys"}, {Name: "keys"}}},
			wantErr: ErrInvalidField,
		},
		{
			name:    "too many extensions",
			cfg:     Config{Extensions: make([]ExtensionConfig, MaxExtensionCount+1)},
			wantErr: ErrInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ExtensionNames(t *testing.T) {
	t.Parallel()

	cfg := Config{Extensions: []ExtensionConfig{{Name: "templating"}, {Name: "keys"}, {Name: "kill_tags"}}}
	if diff := cmp.Diff([]string{"templating", "keys", "kill_tags"}, cfg.ExtensionNames()); diff != "" {
		t.Errorf("ExtensionNames mismatch (-want +got):\n%s", diff)
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "site.yaml", `
input:
  defaultDir: ./docs
output:
  defaultDir: ./public
html:
  standalone: true
  hardWraps: true
  highlightStyle: dracula
extensions:
  - name: wikilink
    config:
      base_url: /wiki/
  - name: kill_tags
    config:
      kill_known: true
      kill: [".draft", "!//aside"]
  - name: figcap
`)
		got, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}

		want := &Config{
			Input:  InputConfig{DefaultDir: "./docs"},
			Output: OutputConfig{DefaultDir: "./public"},
			HTML:   HTMLConfig{Standalone: true, HardWraps: true, HighlightStyle: "dracula"},
			Extensions: []ExtensionConfig{
				{Name: "wikilink", Config: map[string]any{"base_url": "/wiki/"}},
				{Name: "kill_tags", Config: map[string]any{"kill_known": true, "kill": []any{".draft", "!//aside"}}},
				{Name: "figcap"},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LoadConfig mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "html:\n  colour: red\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "extensions: [\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("validation runs", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "dup.yaml", "extensions:\n  - name: keys\n  - name: keys\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidField) {
			t.Errorf("error = %v, want ErrInvalidField", err)
		}
	})
}

// Not parallel: changes the working directory and environment.
func TestLoadConfig_ByName(t *testing.T) {
	t.Run("current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "site.yml", "html:\n  standalone: true\n")
		t.Chdir(dir)
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HOME", t.TempDir())

		cfg, err := LoadConfig("site")
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if !cfg.HTML.Standalone {
			t.Error("HTML.Standalone = false, want true")
		}
	})

	t.Run("yaml preferred over yml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "site.yaml", "html:\n  hardWraps: true\n")
		writeConfig(t, dir, "site.yml", "html:\n  standalone: true\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("site")
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if !cfg.HTML.HardWraps || cfg.HTML.Standalone {
			t.Errorf("HTML = %+v, want the .yaml file", cfg.HTML)
		}
	})

	t.Run("user config directory", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("XDG_CONFIG_HOME is only honoured on Linux")
		}
		xdg := t.TempDir()
		if err := os.MkdirAll(filepath.Join(xdg, appDirName), 0o750); err != nil {
			t.Fatal(err)
		}
		writeConfig(t, filepath.Join(xdg, appDirName), "blog.yaml", "output:\n  defaultDir: /srv/www\n")
		t.Chdir(t.TempDir())
		t.Setenv("XDG_CONFIG_HOME", xdg)

		cfg, err := LoadConfig("blog")
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Output.DefaultDir != "/srv/www" {
			t.Errorf("Output.DefaultDir = %q, want /srv/www", cfg.Output.DefaultDir)
		}
	})

	t.Run("not found lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		_, err := LoadConfig("nothing")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		for _, want := range []string{"nothing.yaml", "nothing.yml", appDirName} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q should mention %q", err, want)
			}
		}
	})
}
