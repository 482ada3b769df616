package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/golang/groupcache/lru"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/cardsheet/internal/util"
)

// ErrBadRef reports an image reference the fetcher cannot resolve.
var ErrBadRef = errors.New("unresolvable image reference")

// ErrImageTooLarge rejects a source image above the decode budget.
var ErrImageTooLarge = errors.New("image too large")

const (
	DefaultCacheBytes     = 256 << 20
	DefaultMaxImagePixels = 1 << 26
)

// Source resolves an image reference from a sheet descriptor.
type Source interface {
	Fetch(ctx context.Context, ref string) (image.Image, error)
}

type FetcherOptions struct {
	// BaseURL is stripped from refs before they are read from Root.
	BaseURL string
	Root    fs.FS
	Timeout time.Duration
	// RemoteHosts lists the hosts (host or host:port) http(s) refs may be
	// downloaded from. Empty disables downloads.
	RemoteHosts []string
	// Get downloads absolute http(s) refs. Nil uses util.GetBytes.
	Get func(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
	// CacheBytes bounds the decoded images kept between calls, counted
	// as 4 bytes per pixel. Zero selects DefaultCacheBytes.
	CacheBytes int64
	// MaxPixels refuses larger sources before decoding. Zero selects
	// DefaultMaxImagePixels.
	MaxPixels int64
	Logger    *slog.Logger
}

// Fetcher loads and decodes card and background images. Decoded images
// are cached by ref, least recently used first out; a failed ref is
// retried on the next call.
type Fetcher struct {
	opts   FetcherOptions
	logger *slog.Logger

	mu     sync.Mutex
	cache  *lru.Cache
	cached int64
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Get == nil {
		opts.Get = util.GetBytes
	}
	if opts.CacheBytes <= 0 {
		opts.CacheBytes = DefaultCacheBytes
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxImagePixels
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{
		opts:   opts,
		logger: logger.With("component", "fetch"),
		cache:  lru.New(0),
	}
	f.cache.OnEvicted = func(_ lru.Key, v any) {
		f.cached -= pixelBytes(v.(image.Image))
	}
	return f
}

func (f *Fetcher) Fetch(ctx context.Context, ref string) (image.Image, error) {
	f.mu.Lock()
	v, ok := f.cache.Get(ref)
	f.mu.Unlock()
	if ok {
		return v.(image.Image), nil
	}

	b, err := f.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(b)); err == nil &&
		int64(cfg.Width)*int64(cfg.Height) > f.opts.MaxPixels {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrImageTooLarge, shortRef(ref), cfg.Width, cfg.Height)
	}
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", shortRef(ref), err)
	}
	f.store(ref, img)
	return img, nil
}

func (f *Fetcher) store(ref string, img image.Image) {
	size := pixelBytes(img)
	if size > f.opts.CacheBytes {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cache.Get(ref); ok {
		return
	}
	f.cache.Add(ref, img)
	f.cached += size
	for f.cached > f.opts.CacheBytes && f.cache.Len() > 0 {
		f.cache.RemoveOldest()
	}
}

// CachedBytes is the pixel memory held by the cache.
func (f *Fetcher) CachedBytes() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cached
}

func pixelBytes(img image.Image) int64 {
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// Prefetch warms the cache with up to workers concurrent loads. Individual
// failures are logged and left for the composer to report; only
// cancellation of ctx is returned.
func (f *Fetcher) Prefetch(ctx context.Context, refs []string, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		g.Go(func() error {
			if _, err := f.Fetch(ctx, ref); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				f.logger.Warn("prefetch failed", "ref", shortRef(ref), "err", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (f *Fetcher) load(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, fmt.Errorf("%w: empty", ErrBadRef)
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case f.underRoot(ref):
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		u, err := url.Parse(ref)
		if err != nil || !f.remoteAllowed(u.Host) {
			return nil, fmt.Errorf("%w: host not allowed: %s", ErrBadRef, ref)
		}
		return f.opts.Get(ctx, ref, f.opts.Timeout)
	}

	name := ref
	if f.opts.BaseURL != "" {
		name = strings.TrimPrefix(name, f.opts.BaseURL)
	}
	if u, err := url.PathUnescape(name); err == nil {
		name = u
	}
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if f.opts.Root == nil || !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %s", ErrBadRef, ref)
	}
	b, err := fs.ReadFile(f.opts.Root, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

// underRoot reports an absolute ref below BaseURL; it is read from Root
// instead of being downloaded.
func (f *Fetcher) underRoot(ref string) bool {
	return f.opts.Root != nil && strings.Contains(f.opts.BaseURL, "://") &&
		strings.HasPrefix(ref, f.opts.BaseURL)
}

func (f *Fetcher) remoteAllowed(host string) bool {
	if host == "" {
		return false
	}
	for _, h := range f.opts.RemoteHosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

// decodeDataURI returns the payload of a data: URI, base64 or
// percent-encoded.
func decodeDataURI(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: data URI without payload", ErrBadRef)
	}
	if strings.HasSuffix(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRef, err)
		}
		return b, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRef, err)
	}
	return []byte(s), nil
}

// shortRef keeps data URIs out of log lines.
func shortRef(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		meta, _, _ := strings.Cut(ref, ",")
		return meta + ",…"
	}
	return ref
}
