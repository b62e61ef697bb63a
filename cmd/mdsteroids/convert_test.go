package main

// Notes:
// - runConvert is exercised end to end with the real converter on temp
//   directories; the environment is injected so tests stay parallel
// - convertBatch is checked with a stub converter for ordering, the
//   worker limit and cancellation

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	mdsteroids "github.com/alnah/go-mdsteroids"
)

// testEnv returns an Environment writing to buffers and reading vars.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:     time.Now,
		Stdout:  &stdout,
		Stderr:  &stderr,
		Getenv:  fakeEnv(vars),
		Environ: func() []string { return nil },
	}
	return env, &stdout, &stderr
}

// convertArgs parses args and runs the convert command.
func convertArgs(t *testing.T, env *Environment, args ...string) error {
	t.Helper()
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		t.Fatalf("parseConvertFlags: %v", err)
	}
	return runConvert(context.Background(), positional, flags, env, discardLogger())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// TestRunConvert - End to end
// ---------------------------------------------------------------------------

func TestRunConvert_ExtensionFlags(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"doc.md": "See [[Home]] and press ++ctrl+c++.\n",
	})
	env, stdout, _ := testEnv(nil)

	err := convertArgs(t, env, filepath.Join(dir, "doc.md"), "-e", "wikilink", "--extension", "keys", "--no-highlight")
	if err != nil {
		t.Fatalf("runConvert: %v", err)
	}

	got := readFile(t, filepath.Join(dir, "doc.html"))
	for _, want := range []string{
		`<a href="/home/" class="wikilink">Home</a>`,
		`<kbd class="key-control">Ctrl</kbd>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	if !strings.Contains(stdout.String(), "Created "+filepath.Join(dir, "doc.html")) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunConvert_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"docs/index.md":       "---\ntitle: Home\n---\nRead the [guide](guide).\n",
		"docs/guide/intro.md": "# Intro\n\n~~old~~ new\n",
		"site.yaml": `
html:
  standalone: true
extensions:
  - name: interlink
    config:
      base_url: /docs/
      end_url: .html
  - name: kill_tags
    config:
      kill_known: true
`,
	})
	out := filepath.Join(dir, "public")
	env, _, _ := testEnv(nil)

	err := convertArgs(t, env, filepath.Join(dir, "docs"), "-c", filepath.Join(dir, "site.yaml"), "-o", out, "-w", "2")
	if err != nil {
		t.Fatalf("runConvert: %v", err)
	}

	index := readFile(t, filepath.Join(out, "index.html"))
	if !strings.HasPrefix(index, "<!DOCTYPE html>") || !strings.Contains(index, "<title>Home</title>") {
		t.Errorf("expected standalone document, got %q", index)
	}
	if !strings.Contains(index, `href="/docs/guide.html"`) {
		t.Errorf("expected rewritten link, got %q", index)
	}

	intro := readFile(t, filepath.Join(out, "guide", "intro.html"))
	if strings.Contains(intro, "old") || !strings.Contains(intro, "new") {
		t.Errorf("expected <del> removed, got %q", intro)
	}
}

func TestRunConvert_Environment(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"in/a.md": "keep ~~drop~~\n",
	})
	out := filepath.Join(dir, "out")
	env, _, _ := testEnv(map[string]string{
		"MDSTEROIDS_INPUT_DIR":  filepath.Join(dir, "in"),
		"MDSTEROIDS_OUTPUT_DIR": out,
		"MDSTEROIDS_EXTENSIONS": "del_del",
		"MDSTEROIDS_TIMEOUT":    "10s",
		"MDSTEROIDS_WORKERS":    "1",
	})

	if err := convertArgs(t, env); err != nil {
		t.Fatalf("runConvert: %v", err)
	}
	if got := readFile(t, filepath.Join(out, "a.html")); got != "<p>keep </p>\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunConvert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    map[string]string
		args     func(dir string) []string
		wantErr  error
		wantCode int
	}{
		{
			name:     "unknown extension",
			files:    map[string]string{"a.md": "x"},
			args:     func(dir string) []string { return []string{filepath.Join(dir, "a.md"), "-e", "nope"} },
			wantErr:  mdsteroids.ErrUnknownExtension,
			wantCode: ExitUsage,
		},
		{
			name:     "no input",
			args:     func(string) []string { return nil },
			wantErr:  ErrNoInput,
			wantCode: ExitIO,
		},
		{
			name:     "empty directory",
			files:    map[string]string{"notes.txt": "x"},
			args:     func(dir string) []string { return []string{dir} },
			wantErr:  ErrNoInput,
			wantCode: ExitIO,
		},
		{
			name:     "missing input",
			args:     func(dir string) []string { return []string{filepath.Join(dir, "missing.md")} },
			wantErr:  os.ErrNotExist,
			wantCode: ExitIO,
		},
		{
			name:     "invalid timeout",
			files:    map[string]string{"a.md": "x"},
			args:     func(dir string) []string { return []string{filepath.Join(dir, "a.md"), "-t", "soon"} },
			wantErr:  ErrInvalidTimeout,
			wantCode: ExitUsage,
		},
		{
			name:     "invalid workers",
			files:    map[string]string{"a.md": "x"},
			args:     func(dir string) []string { return []string{filepath.Join(dir, "a.md"), "-w", "-3"} },
			wantErr:  ErrInvalidWorkerCount,
			wantCode: ExitUsage,
		},
		{
			name:  "missing config",
			files: map[string]string{"a.md": "x"},
			args: func(dir string) []string {
				return []string{filepath.Join(dir, "a.md"), "-c", filepath.Join(dir, "none.yaml")}
			},
			wantCode: ExitUsage,
		},
		{
			name:  "bad extension config",
			files: map[string]string{"a.md": "x", "c.yaml": "extensions:\n  - name: keys\n    config:\n      colour: red\n"},
			args: func(dir string) []string {
				return []string{filepath.Join(dir, "a.md"), "-c", filepath.Join(dir, "c.yaml")}
			},
			wantErr:  mdsteroids.ErrExtensionConfig,
			wantCode: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := setupTestDir(t, tt.files)
			env, _, _ := testEnv(nil)
			err := convertArgs(t, env, tt.args(dir)...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got := exitCodeFor(err); got != tt.wantCode {
				t.Errorf("exitCodeFor(%v) = %d, want %d", err, got, tt.wantCode)
			}
		})
	}
}

func TestRunConvert_PartialFailure(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"good.md":  "# Good",
		"empty.md": "",
	})
	env, stdout, stderr := testEnv(nil)

	err := convertArgs(t, env, dir)
	if err == nil || !strings.Contains(err.Error(), "1 conversion(s) failed") {
		t.Fatalf("error = %v, want 1 failure", err)
	}
	if !errors.Is(err, mdsteroids.ErrEmptyMarkdown) {
		t.Errorf("error = %v, want ErrEmptyMarkdown in chain", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "good.html")); statErr != nil {
		t.Errorf("good.html not written: %v", statErr)
	}
	if !strings.Contains(stderr.String(), "FAILED "+filepath.Join(dir, "empty.md")) {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "1 succeeded, 1 failed") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestConvertBatch - Concurrency and ordering
// ---------------------------------------------------------------------------

type stubConverter struct {
	active  atomic.Int32
	maxSeen atomic.Int32
	mu      sync.Mutex
	inputs  []mdsteroids.Input
}

func (s *stubConverter) Convert(ctx context.Context, input mdsteroids.Input) (*mdsteroids.ConvertResult, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		old := s.maxSeen.Load()
		if n <= old || s.maxSeen.CompareAndSwap(old, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)

	s.mu.Lock()
	s.inputs = append(s.inputs, input)
	s.mu.Unlock()
	return &mdsteroids.ConvertResult{HTML: "<p>" + input.Markdown + "</p>"}, nil
}

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		files[name+".md"] = name
	}
	dir := setupTestDir(t, files)

	var batch []FileToConvert
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		batch = append(batch, FileToConvert{
			InputPath:  filepath.Join(dir, name+".md"),
			OutputPath: filepath.Join(dir, "out", name+".html"),
		})
	}

	conv := &stubConverter{}
	results := convertBatch(context.Background(), conv, batch, 2, batchOptions{standalone: true})

	if len(results) != len(batch) {
		t.Fatalf("got %d results, want %d", len(results), len(batch))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d: %v", i, r.Err)
		}
		if r.InputPath != batch[i].InputPath {
			t.Errorf("result %d InputPath = %q, want %q", i, r.InputPath, batch[i].InputPath)
		}
	}
	if got := conv.maxSeen.Load(); got > 2 {
		t.Errorf("max concurrency = %d, want <= 2", got)
	}
	for _, in := range conv.inputs {
		if !in.Standalone || in.SourceDir != dir {
			t.Errorf("input = %+v, want standalone with SourceDir %q", in, dir)
		}
	}
	if got := readFile(t, filepath.Join(dir, "out", "c.html")); got != "<p>c</p>" {
		t.Errorf("c.html = %q", got)
	}
}

func TestConvertBatch_Canceled(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"a.md": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := convertBatch(ctx, &stubConverter{}, []FileToConvert{{
		InputPath:  filepath.Join(dir, "a.md"),
		OutputPath: filepath.Join(dir, "a.html"),
	}}, 1, batchOptions{})

	if len(results) != 1 || !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("results = %+v, want context.Canceled", results)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.html")); !os.IsNotExist(err) {
		t.Error("output written despite cancellation")
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := convertBatch(context.Background(), &stubConverter{}, nil, 4, batchOptions{}); got != nil {
		t.Errorf("convertBatch(nil) = %v, want nil", got)
	}
}

// ---------------------------------------------------------------------------
// Resolution helpers
// ---------------------------------------------------------------------------

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		env     time.Duration
		want    time.Duration
		wantErr bool
	}{
		{"default", "", 0, defaultTimeout, false},
		{"env", "", time.Minute, time.Minute, false},
		{"flag wins", "5s", time.Minute, 5 * time.Second, false},
		{"unparseable", "soon", 0, 0, true},
		{"zero", "0s", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTimeout(tt.flag, tt.env)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("error = %v, want ErrInvalidTimeout", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("resolveTimeout() = %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := resolveWorkers(3, 5); got != 3 {
		t.Errorf("flag: got %d, want 3", got)
	}
	if got := resolveWorkers(0, 5); got != 5 {
		t.Errorf("env: got %d, want 5", got)
	}
	if got := resolveWorkers(0, MaxWorkers+10); got != MaxWorkers {
		t.Errorf("env cap: got %d, want %d", got, MaxWorkers)
	}
	if got := resolveWorkers(0, 0); got < 1 || got > MaxWorkers {
		t.Errorf("auto: got %d, want 1..%d", got, MaxWorkers)
	}
}
