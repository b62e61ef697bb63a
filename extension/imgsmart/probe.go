package imgsmart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	// Registered image formats for DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/alnah/go-mdsteroids/internal/fileutil"
	"github.com/alnah/go-mdsteroids/internal/urlutil"
)

// DefaultTimeout bounds a remote probe when Config.Timeout is unset.
const DefaultTimeout = 10 * time.Second

const (
	cacheFilePerm = 0o644
	cacheDirPerm  = 0o755
)

// Sentinel errors for probing.
var (
	ErrProbe      = errors.New("probing image size")
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)

// Size is an image's pixel dimensions.
type Size struct {
	Width  int
	Height int
}

// Prober reads image headers to find their size, remembering results in
// an optional JSON cache file of the form {"path": [width, height]}.
// A Prober is safe for concurrent use.
type Prober struct {
	client    *http.Client
	timeout   time.Duration
	cachePath string
	logger    *slog.Logger

	mu     sync.Mutex
	loaded bool
	dirty  bool
	cache  map[string]Size
}

// NewProber returns a Prober. An empty cachePath disables the file cache;
// results are still remembered in memory.
func NewProber(client *http.Client, timeout time.Duration, cachePath string, logger *slog.Logger) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		client:    client,
		timeout:   timeout,
		cachePath: cachePath,
		logger:    logger,
		cache:     make(map[string]Size),
	}
}

// Probe returns the size of the image at src. http(s) URLs are fetched;
// anything else is read from disk, relative to dir when dir is set.
func (p *Prober) Probe(ctx context.Context, src, dir string) (Size, error) {
	remote := fileutil.IsURL(src)
	key := src
	if !remote {
		key = urlutil.LocalPath(src, dir)
	}

	if s, ok := p.lookup(ctx, key); ok {
		return s, nil
	}

	var (
		cfg image.Config
		err error
	)
	if remote {
		cfg, err = p.fetch(ctx, key)
	} else {
		cfg, err = decodeFile(key)
	}
	if err != nil {
		return Size{}, fmt.Errorf("%w: %s: %v", ErrProbe, key, err)
	}

	s := Size{Width: cfg.Width, Height: cfg.Height}
	p.store(key, s)
	return s, nil
}

// Flush writes the cache file if new sizes were probed since the last
// flush.
func (p *Prober) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cachePath == "" || !p.dirty {
		return nil
	}

	out := make(map[string][2]int, len(p.cache))
	for k, s := range p.cache {
		out[k] = [2]int{s.Width, s.Height}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding size cache: %w", err)
	}
	if err := fileutil.WriteFileAtomic(p.cachePath, append(data, '\n'), cacheFilePerm, cacheDirPerm); err != nil {
		return fmt.Errorf("writing size cache: %w", err)
	}
	p.dirty = false
	return nil
}

// Cached returns the cached keys in sorted order.
func (p *Prober) Cached() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := make([]string, 0, len(p.cache))
	for k := range p.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Prober) lookup(ctx context.Context, key string) (Size, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		p.loaded = true
		p.load(ctx)
	}
	s, ok := p.cache[key]
	return s, ok
}

func (p *Prober) store(key string, s Size) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache[key] = s
	p.dirty = true
}

// load reads the cache file. Callers hold p.mu.
func (p *Prober) load(ctx context.Context) {
	if p.cachePath == "" {
		return
	}
	data, err := os.ReadFile(p.cachePath)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		p.logger.WarnContext(ctx, "unable to read size cache", "path", p.cachePath, "reason", err)
		return
	}

	var entries map[string][2]int
	if err := json.Unmarshal(data, &entries); err != nil {
		p.logger.WarnContext(ctx, "ignoring malformed size cache", "path", p.cachePath, "reason", err)
		return
	}
	for k, v := range entries {
		p.cache[k] = Size{Width: v[0], Height: v[1]}
	}
	p.logger.DebugContext(ctx, "loaded size cache", "path", p.cachePath, "entries", len(entries))
}

func (p *Prober) fetch(ctx context.Context, url string) (image.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return image.Config{}, err
	}
	res, err := p.client.Do(req)
	if err != nil {
		return image.Config{}, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return image.Config{}, fmt.Errorf("%w: %s", ErrHTTPStatus, res.Status)
	}
	cfg, _, err := image.DecodeConfig(res.Body)
	return cfg, err
}

func decodeFile(path string) (image.Config, error) {
	f, err := os.Open(path) // #nosec G304 -- image referenced by the document
	if err != nil {
		return image.Config{}, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}
