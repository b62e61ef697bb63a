package fileutil_test

// Notes:
// - The Write, Close, Chmod and Rename error branches of WriteFileAtomic are
//   not tested because triggering them is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-mdsteroids/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic writes with parent creation
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates parents and writes content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a", "b", "out.html")
		if err := fileutil.WriteFileAtomic(path, []byte("<p>x</p>"), 0o644, 0o750); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading back: %v", err)
		}
		if string(got) != "<p>x</p>" {
			t.Errorf("content = %q, want %q", got, "<p>x</p>")
		}
	})

	t.Run("overwrites and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "cache.json")
		for _, content := range []string{"{}", `{"a":1}`} {
			if err := fileutil.WriteFileAtomic(path, []byte(content), 0o644, 0o750); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		got, _ := os.ReadFile(path)
		if string(got) != `{"a":1}` {
			t.Errorf("content = %q, want second write", got)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("dir has %d entries, want 1", len(entries))
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		err := fileutil.WriteFileAtomic("", nil, 0o644, 0o750)
		if !errors.Is(err, fileutil.ErrEmptyPath) {
			t.Errorf("error = %v, want ErrEmptyPath", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestFileExists
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(file, []byte("# x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		wantFile bool
	}{
		{name: "regular file", path: file, wantFile: true},
		{name: "directory", path: dir},
		{name: "missing", path: filepath.Join(dir, "nope.md")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.wantFile {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFile)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"site", false},
		{"my-site", false},
		{"./site.yaml", true},
		{"/etc/site.yaml", true},
		{`C:\config\site.yaml`, true},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/a.png", true},
		{"http://example.com", true},
		{"ftp://example.com", false},
		{"images/a.png", false},
		{"//cdn.example.com/a.png", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsURL(tt.input); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
