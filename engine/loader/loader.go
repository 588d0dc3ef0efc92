package loader

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/campath/engine/path"
	"github.com/Carmen-Shannon/campath/engine/store"
	"golang.org/x/sync/singleflight"
)

// LoaderBackendType identifies where paths are persisted.
type LoaderBackendType int

const (
	// BackendTypeSQLite selects the sqlite path store backend.
	BackendTypeSQLite LoaderBackendType = iota
	// BackendTypeYAML selects the YAML directory backend, one <id>.yaml per path.
	BackendTypeYAML
)

// defaultLoadTimeout bounds a single asynchronous load.
const defaultLoadTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when no persisted path has the requested id.
	ErrNotFound = store.ErrNotFound
	// ErrConflict is returned when a save does not carry a newer version than the persisted copy.
	ErrConflict = store.ErrConflict
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	pathCache map[string]*path.Path

	backend loaderBackend
	group   singleflight.Group

	pathStore   *store.PathStore
	dir         string
	loadTimeout time.Duration
}

// Loader loads and persists camera paths through a pluggable backend and caches what it loaded.
// Loaded paths are handed out as independent copies so an edit session never mutates the cache.
type Loader interface {
	// Load returns the path with the given id, reading it from the backend on a cache miss.
	// Concurrent loads of one id share a single backend read.
	//
	// Parameters:
	//   - ctx: the request context
	//   - id: the path id
	//
	// Returns:
	//   - *path.Path: a copy of the loaded path
	//   - error: ErrNotFound if absent, or a wrapped backend or decode error
	Load(ctx context.Context, id string) (*path.Path, error)

	// LoadAsync loads the path with the given id on a separate goroutine and hands the result
	// to done. done runs on that goroutine.
	//
	// Parameters:
	//   - id: the path id
	//   - done: the continuation receiving the path or the error
	LoadAsync(id string, done func(*path.Path, error))

	// Save persists p and refreshes the cache.
	//
	// Parameters:
	//   - ctx: the request context
	//   - p: the path to persist
	//
	// Returns:
	//   - error: ErrConflict if the persisted version is not older, or a wrapped backend error
	Save(ctx context.Context, p *path.Path) error

	// Delete removes the persisted path and its cache entry.
	//
	// Parameters:
	//   - ctx: the request context
	//   - id: the path id
	//
	// Returns:
	//   - error: ErrNotFound if absent
	Delete(ctx context.Context, id string) error

	// List returns the ids of all persisted paths in ascending order.
	//
	// Parameters:
	//   - ctx: the request context
	//
	// Returns:
	//   - []string: the ids
	//   - error: a wrapped backend error
	List(ctx context.Context) ([]string, error)

	// Get retrieves a cached path by id. Returns nil if not cached.
	//
	// Parameters:
	//   - id: the path id
	//
	// Returns:
	//   - *path.Path: a copy of the cached path or nil
	Get(id string) *path.Path

	// Invalidate drops a cache entry so the next Load reads the backend.
	//
	// Parameters:
	//   - id: the path id
	Invalidate(id string)

	// Paths returns a snapshot of the cache keyed by id.
	//
	// Returns:
	//   - map[string]*path.Path: copies of all cached paths
	Paths() map[string]*path.Path
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the specified backend type and options applied.
// The sqlite backend needs WithStore and the YAML backend needs WithDirectory.
//
// Parameters:
//   - backendType: the backend to persist through
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		pathCache:   make(map[string]*path.Path),
		loadTimeout: defaultLoadTimeout,
	}
	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeSQLite:
		l.backend = newSQLiteLoaderBackend(l.pathStore)
	case BackendTypeYAML:
		l.backend = newYAMLLoaderBackend(l.dir)
	}
	return l
}

func (l *loader) Load(ctx context.Context, id string) (*path.Path, error) {
	l.mu.RLock()
	if cached, ok := l.pathCache[id]; ok {
		l.mu.RUnlock()
		return cached.Clone(), nil
	}
	l.mu.RUnlock()

	v, err, shared := l.group.Do(id, func() (any, error) {
		p, err := l.backend.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.pathCache[id] = p
		l.mu.Unlock()
		return p, nil
	})
	if err != nil {
		log.Printf("[Loader] failed to load path %q: %v", id, err)
		return nil, fmt.Errorf("failed to load path %q: %w", id, err)
	}
	if shared {
		log.Printf("[Loader] path %q load shared with a concurrent caller", id)
	}
	return v.(*path.Path).Clone(), nil
}

func (l *loader) LoadAsync(id string, done func(*path.Path, error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), l.loadTimeout)
		defer cancel()
		p, err := l.Load(ctx, id)
		if done != nil {
			done(p, err)
		}
	}()
}

func (l *loader) Save(ctx context.Context, p *path.Path) error {
	if p == nil || p.Empty() {
		return path.ErrEmptyPath
	}
	if err := l.backend.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save path %q: %w", p.ID(), err)
	}

	l.mu.Lock()
	l.pathCache[p.ID()] = p.Clone()
	l.mu.Unlock()
	log.Printf("[Loader] saved path %q at version %d", p.ID(), p.Version())
	return nil
}

func (l *loader) Delete(ctx context.Context, id string) error {
	l.Invalidate(id)
	if err := l.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete path %q: %w", id, err)
	}
	return nil
}

func (l *loader) List(ctx context.Context) ([]string, error) {
	ids, err := l.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	return ids, nil
}

func (l *loader) Get(id string) *path.Path {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if p, ok := l.pathCache[id]; ok {
		return p.Clone()
	}
	return nil
}

func (l *loader) Invalidate(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pathCache, id)
}

func (l *loader) Paths() map[string]*path.Path {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*path.Path, len(l.pathCache))
	for k, v := range l.pathCache {
		result[k] = v.Clone()
	}
	return result
}
