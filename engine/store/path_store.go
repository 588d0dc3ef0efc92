package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/campath/engine/path"
)

var (
	// ErrNotFound is returned when no stored path has the requested id.
	ErrNotFound = errors.New("path not found")
	// ErrConflict is returned when a save does not carry a newer version than the stored copy.
	ErrConflict = errors.New("path version conflict")
)

// DefaultPageSize is the List page size used when a non-positive size is requested.
const DefaultPageSize = 50

// PathSummary describes a stored path without decoding its keyframes.
type PathSummary struct {
	ID           string    `json:"id"`
	Version      int64     `json:"version"`
	LastModifier string    `json:"last_modifier,omitempty"`
	Native       bool      `json:"native"`
	Keyframes    int       `json:"keyframes"`
	Length       int       `json:"length"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PathStore persists camera paths in sqlite.
// Saves use optimistic concurrency: a path is only written when its version is strictly
// greater than the stored one.
type PathStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPathStore creates a new PathStore.
func NewPathStore(db *sql.DB) *PathStore {
	return &PathStore{db: db, now: time.Now}
}

// Load reads and decodes the path stored under id.
//
// Parameters:
//   - ctx: the request context
//   - id: the path id
//
// Returns:
//   - *path.Path: the decoded path
//   - error: ErrNotFound if absent, or a wrapped decode error
func (s *PathStore) Load(ctx context.Context, id string) (*path.Path, error) {
	query := `
		SELECT version, last_modifier, native, anchor_json, keyframes_json
		FROM camera_paths
		WHERE path_id = ?
	`

	doc := path.Document{ID: id}
	var anchorJSON sql.NullString
	var keyframesJSON string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.Version,
		&doc.LastModifier,
		&doc.Native,
		&anchorJSON,
		&keyframesJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get path: %w", err)
	}

	if err := json.Unmarshal([]byte(keyframesJSON), &doc.Keyframes); err != nil {
		return nil, fmt.Errorf("decode keyframes of %q: %w", id, err)
	}
	if anchorJSON.Valid && anchorJSON.String != "" {
		doc.Anchor = &path.AnchorDocument{}
		if err := json.Unmarshal([]byte(anchorJSON.String), doc.Anchor); err != nil {
			return nil, fmt.Errorf("decode anchor of %q: %w", id, err)
		}
	}

	p, err := path.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("decode path %q: %w", id, err)
	}
	return p, nil
}

// Save inserts p, or replaces the stored copy when p carries a newer version.
//
// Parameters:
//   - ctx: the request context
//   - p: the path to store
//
// Returns:
//   - error: path.ErrEmptyPath for an empty path, ErrConflict if the stored version is not older
func (s *PathStore) Save(ctx context.Context, p *path.Path) error {
	if p == nil || p.Empty() {
		return path.ErrEmptyPath
	}

	doc := p.Document()
	keyframesJSON, err := json.Marshal(doc.Keyframes)
	if err != nil {
		return fmt.Errorf("encode keyframes of %q: %w", doc.ID, err)
	}
	var anchorJSON sql.NullString
	if doc.Anchor != nil {
		b, err := json.Marshal(doc.Anchor)
		if err != nil {
			return fmt.Errorf("encode anchor of %q: %w", doc.ID, err)
		}
		anchorJSON = sql.NullString{String: string(b), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UnixNano()
	var stored int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM camera_paths WHERE path_id = ?`, doc.ID).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO camera_paths (
				path_id, version, last_modifier, native, anchor_json, keyframes_json,
				keyframe_count, length_ticks, created_at_ns, updated_at_ns
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			doc.ID, doc.Version, doc.LastModifier, doc.Native, anchorJSON, string(keyframesJSON),
			p.Len(), p.Length(), now, now,
		)
		if err != nil {
			return fmt.Errorf("insert path: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read stored version of %q: %w", doc.ID, err)
	case doc.Version <= stored:
		return fmt.Errorf("%w: %q stored at version %d, incoming %d", ErrConflict, doc.ID, stored, doc.Version)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE camera_paths
			SET version = ?, last_modifier = ?, native = ?, anchor_json = ?, keyframes_json = ?,
			    keyframe_count = ?, length_ticks = ?, updated_at_ns = ?
			WHERE path_id = ?
		`,
			doc.Version, doc.LastModifier, doc.Native, anchorJSON, string(keyframesJSON),
			p.Len(), p.Length(), now, doc.ID,
		)
		if err != nil {
			return fmt.Errorf("update path: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// List returns one page of path summaries ordered by id.
//
// Parameters:
//   - ctx: the request context
//   - page: zero-based page index
//   - size: page size; non-positive values use DefaultPageSize
//
// Returns:
//   - []PathSummary: the summaries on the page
//   - error: if the query fails
func (s *PathStore) List(ctx context.Context, page, size int) ([]PathSummary, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = max(page, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT path_id, version, last_modifier, native, keyframe_count, length_ticks, updated_at_ns
		FROM camera_paths
		ORDER BY path_id
		LIMIT ? OFFSET ?
	`, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	defer rows.Close()

	var out []PathSummary
	for rows.Next() {
		var ps PathSummary
		var updatedAtNs int64
		if err := rows.Scan(
			&ps.ID,
			&ps.Version,
			&ps.LastModifier,
			&ps.Native,
			&ps.Keyframes,
			&ps.Length,
			&updatedAtNs,
		); err != nil {
			return nil, fmt.Errorf("scan path summary: %w", err)
		}
		ps.UpdatedAt = time.Unix(0, updatedAtNs)
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	return out, nil
}

// Delete removes the path stored under id.
//
// Parameters:
//   - ctx: the request context
//   - id: the path id
//
// Returns:
//   - error: ErrNotFound if absent
func (s *PathStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM camera_paths WHERE path_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete path: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete path: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
