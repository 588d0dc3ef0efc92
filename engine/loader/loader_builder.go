package loader

import (
	"time"

	"github.com/Carmen-Shannon/campath/engine/path"
	"github.com/Carmen-Shannon/campath/engine/store"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithStore sets the sqlite path store used by BackendTypeSQLite.
//
// Parameters:
//   - s: the path store
//
// Returns:
//   - LoaderBuilderOption: a function that applies the store option to a loader
func WithStore(s *store.PathStore) LoaderBuilderOption {
	return func(l *loader) {
		l.pathStore = s
	}
}

// WithDirectory sets the directory used by BackendTypeYAML.
//
// Parameters:
//   - dir: the directory holding <id>.yaml files
//
// Returns:
//   - LoaderBuilderOption: a function that applies the directory option to a loader
func WithDirectory(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.dir = dir
	}
}

// WithLoadTimeout bounds each asynchronous load.
func WithLoadTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		if d > 0 {
			l.loadTimeout = d
		}
	}
}

// WithPath pre-populates the cache with a path.
//
// Parameters:
//   - p: the path to cache under its id
//
// Returns:
//   - LoaderBuilderOption: a function that applies the path option to a loader
func WithPath(p *path.Path) LoaderBuilderOption {
	return func(l *loader) {
		if p != nil {
			l.pathCache[p.ID()] = p.Clone()
		}
	}
}
