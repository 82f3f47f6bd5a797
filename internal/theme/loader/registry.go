package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/tmscope/internal/logging"
	"github.com/dshills/tmscope/internal/theme"
)

// DefaultCacheTTL is how long a decoded theme file stays cached.
const DefaultCacheTTL = 10 * time.Minute

// Entry describes one theme file known to a Registry.
type Entry struct {
	Key    string
	Name   string
	Path   string
	Format Format
}

// Catalog is an immutable, key ordered list of entries.
type Catalog struct {
	order []Entry
	index map[string]int
}

func newCatalog(entries []Entry) Catalog {
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Key, b.Key) })
	c := Catalog{order: entries, index: make(map[string]int, len(entries))}
	for i, e := range entries {
		c.index[e.Key] = i
	}
	return c
}

// All returns a copy of the entries.
func (c Catalog) All() []Entry {
	return slices.Clone(c.order)
}

// Keys returns the entry keys in order.
func (c Catalog) Keys() []string {
	keys := make([]string, len(c.order))
	for i, e := range c.order {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the entry for key.
func (c Catalog) Get(key string) (Entry, bool) {
	i, ok := c.index[key]
	if !ok {
		return Entry{}, false
	}
	return c.order[i], true
}

// Len returns the number of entries.
func (c Catalog) Len() int {
	return len(c.order)
}

// Registry indexes theme directories and resolves themes by name. It is safe
// for concurrent use.
type Registry struct {
	dirs  []string
	fs    FileSystem
	ttl   time.Duration
	cache *gocache.Cache // path -> *MapTheme

	base     zerolog.Logger
	log      zerolog.Logger
	watchLog zerolog.Logger
	themeLog zerolog.Logger

	mu      sync.RWMutex
	catalog Catalog
}

var _ theme.Resolver = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithDirs sets the directories searched for theme files. Earlier
// directories take precedence when two files share a key.
func WithDirs(dirs ...string) Option {
	return func(r *Registry) {
		r.dirs = append(r.dirs, dirs...)
	}
}

// WithCacheTTL sets how long decoded themes are cached. A TTL <= 0 caches
// until the file changes.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.ttl = ttl
	}
}

// WithLogger sets the parent logger. The registry, its watcher and the
// themes it builds log through children tagged with their component name.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.base = logger
	}
}

// WithFileSystem replaces the OS file system.
func WithFileSystem(fsys FileSystem) Option {
	return func(r *Registry) {
		if fsys != nil {
			r.fs = fsys
		}
	}
}

// NewRegistry creates a registry. Call Refresh to scan the directories.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		fs:  OSFS{},
		ttl:  DefaultCacheTTL,
		base: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logging.Component(r.base, logging.CompRegistry)
	r.watchLog = logging.Component(r.base, logging.CompWatcher)
	r.themeLog = logging.Component(r.base, logging.CompTheme)

	if r.ttl > 0 {
		r.cache = gocache.New(r.ttl, 2*r.ttl)
	} else {
		r.cache = gocache.New(gocache.NoExpiration, 0)
	}
	return r
}

// Dirs returns the theme directories.
func (r *Registry) Dirs() []string {
	return slices.Clone(r.dirs)
}

// Catalog returns the themes found by the last Refresh.
func (r *Registry) Catalog() Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog
}

// Refresh rescans the theme directories. Files that fail to load are left out
// of the catalog and reported in the joined error; the rest stay usable.
// Missing directories are skipped.
func (r *Registry) Refresh() error {
	var (
		entries []Entry
		errs    error
	)
	used := make(map[string]bool)

	for _, dir := range r.dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		des, err := r.fs.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			r.log.Debug().Str("dir", dir).Msg("theme directory does not exist")
			continue
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("read theme directory %q: %w", dir, err))
			continue
		}

		for _, de := range des {
			if de.IsDir() {
				continue
			}
			format, err := FormatFromPath(de.Name())
			if err != nil {
				continue
			}
			key := keyFor(de.Name())
			if key == "" {
				r.log.Debug().Str("file", de.Name()).Msg("theme file name has no usable key")
				continue
			}
			if used[key] {
				r.log.Debug().Str("file", de.Name()).Str("key", key).Msg("theme key already taken")
				continue
			}

			path := filepath.Join(dir, de.Name())
			raw, err := r.read(path, format, key)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("load theme %q: %w", path, err))
				continue
			}
			used[key] = true
			entries = append(entries, Entry{Key: key, Name: raw.Name(), Path: path, Format: format})
		}
	}

	catalog := newCatalog(entries)
	r.mu.Lock()
	r.catalog = catalog
	r.mu.Unlock()

	r.log.Debug().Int("themes", catalog.Len()).Msg("theme catalog refreshed")
	return errs
}

// Resolve implements theme.Resolver. name may be a catalog key, a file name,
// or a path relative to one of the theme directories.
func (r *Registry) Resolve(name string) (theme.RawTheme, error) {
	entry, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	raw, err := r.read(entry.Path, entry.Format, entry.Key)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Load resolves name and builds the theme, resolving includes through r.
func (r *Registry) Load(name string) (*theme.Theme, error) {
	raw, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	th, err := theme.CreateFromRawTheme(raw, r, theme.WithLogger(r.themeLog))
	if err != nil {
		return nil, fmt.Errorf("load theme %s: %w", name, err)
	}
	return th, nil
}

// Preload loads themes concurrently. The result is in the order of names.
func (r *Registry) Preload(ctx context.Context, names ...string) ([]*theme.Theme, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	out := make([]*theme.Theme, len(names))
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			th, err := r.Load(name)
			if err != nil {
				return err
			}
			out[i] = th
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate drops the cached theme decoded from path.
func (r *Registry) Invalidate(path string) {
	r.cache.Delete(filepath.Clean(path))
}

func (r *Registry) lookup(name string) (Entry, bool) {
	catalog := r.Catalog()
	if e, ok := catalog.Get(name); ok {
		return e, true
	}

	base := filepath.Base(name)
	for _, e := range catalog.order {
		if filepath.Base(e.Path) == base {
			return e, true
		}
	}

	if format, err := FormatFromPath(name); err == nil {
		candidates := make([]string, 0, len(r.dirs)+1)
		if filepath.IsAbs(name) {
			candidates = append(candidates, name)
		} else {
			for _, dir := range r.dirs {
				candidates = append(candidates, filepath.Join(dir, name))
			}
		}
		for _, path := range candidates {
			if info, err := r.fs.Stat(path); err == nil && !info.IsDir() {
				return Entry{Key: keyFor(path), Path: filepath.Clean(path), Format: format}, true
			}
		}
	}

	return catalog.Get(keyFor(name))
}

func (r *Registry) read(path string, format Format, key string) (*MapTheme, error) {
	path = filepath.Clean(path)
	if v, ok := r.cache.Get(path); ok {
		if t, ok := v.(*MapTheme); ok {
			return t, nil
		}
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme %s: %w", path, err)
	}
	doc, err := Decode(path, data, format)
	if err != nil {
		return nil, err
	}

	t := NewMapTheme(humaniseSlug(key), doc)
	r.cache.Set(path, t, gocache.DefaultExpiration)
	r.log.Debug().Str("path", path).Str("theme", t.Name()).Msg("theme decoded")
	return t, nil
}
