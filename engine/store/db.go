package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB is the sqlite database holding stored camera paths.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the sqlite database at dsn and applies all pending migrations.
// Use ":memory:" for a throwaway database.
//
// Parameters:
//   - dsn: the sqlite file path or DSN
//
// Returns:
//   - *DB: the migrated database
//   - error: if the database cannot be opened or migrated
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}

	// One connection serializes writers and keeps ":memory:" databases on a single handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	d := &DB{db}
	if err := d.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}
