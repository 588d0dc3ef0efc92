package loader

import (
	"context"

	"github.com/Carmen-Shannon/campath/engine/path"
)

// loaderBackend is the persistence contract the Loader delegates to.
// Implementations map a missing id to ErrNotFound and a stale save to ErrConflict.
type loaderBackend interface {
	// Load reads and decodes one path.
	//
	// Parameters:
	//   - ctx: the request context
	//   - id: the path id
	//
	// Returns:
	//   - *path.Path: the decoded path
	//   - error: ErrNotFound if absent
	Load(ctx context.Context, id string) (*path.Path, error)

	// Save persists p when its version is newer than the stored copy.
	//
	// Parameters:
	//   - ctx: the request context
	//   - p: the path
	//
	// Returns:
	//   - error: ErrConflict if the stored version is not older
	Save(ctx context.Context, p *path.Path) error

	// Delete removes one path.
	//
	// Parameters:
	//   - ctx: the request context
	//   - id: the path id
	//
	// Returns:
	//   - error: ErrNotFound if absent
	Delete(ctx context.Context, id string) error

	// List returns all stored ids in ascending order.
	//
	// Parameters:
	//   - ctx: the request context
	//
	// Returns:
	//   - []string: the ids
	//   - error: if the backend cannot be enumerated
	List(ctx context.Context) ([]string, error)
}
