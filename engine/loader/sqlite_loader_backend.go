package loader

import (
	"context"
	"errors"

	"github.com/Carmen-Shannon/campath/engine/path"
	"github.com/Carmen-Shannon/campath/engine/store"
)

var errNoStore = errors.New("sqlite loader backend has no path store")

// sqliteLoaderBackend delegates to a sqlite PathStore.
type sqliteLoaderBackend struct {
	store *store.PathStore
}

var _ loaderBackend = &sqliteLoaderBackend{}

func newSQLiteLoaderBackend(s *store.PathStore) *sqliteLoaderBackend {
	return &sqliteLoaderBackend{store: s}
}

func (b *sqliteLoaderBackend) Load(ctx context.Context, id string) (*path.Path, error) {
	if b.store == nil {
		return nil, errNoStore
	}
	return b.store.Load(ctx, id)
}

func (b *sqliteLoaderBackend) Save(ctx context.Context, p *path.Path) error {
	if b.store == nil {
		return errNoStore
	}
	return b.store.Save(ctx, p)
}

func (b *sqliteLoaderBackend) Delete(ctx context.Context, id string) error {
	if b.store == nil {
		return errNoStore
	}
	return b.store.Delete(ctx, id)
}

func (b *sqliteLoaderBackend) List(ctx context.Context) ([]string, error) {
	if b.store == nil {
		return nil, errNoStore
	}

	var ids []string
	for page := 0; ; page++ {
		summaries, err := b.store.List(ctx, page, store.DefaultPageSize)
		if err != nil {
			return nil, err
		}
		for _, s := range summaries {
			ids = append(ids, s.ID)
		}
		if len(summaries) < store.DefaultPageSize {
			return ids, nil
		}
	}
}
