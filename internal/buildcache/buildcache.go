// Package buildcache persists build info across Driver.Build runs so a rebuild can
// skip re-checking a file whose dependencies' export signatures haven't
// changed.
//
// Grounded on the funxy-family repos' own use of modernc.org/sqlite: funxy's
// sibling repo's internal/evaluator/builtins_sql.go opens the "sqlite"
// database/sql driver with sql.Open("sqlite", dsn) and pings it before use;
// Store.Open follows that exact open-then-ping shape.
package buildcache

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// FileRecord is one file's persisted build state.
type FileRecord struct {
	Path          string
	Version       string // content hash or mtime-derived version token
	SignatureHash string // checker.ExportedSignatures, hashed (internal/build's exportSignatureHash)
	Dependencies  []string

	// DepSignatures snapshots each dependency's SignatureHash as of this
	// file's last successful check, so NeedsRecheck can tell "a dependency
	// resolved to the same file but its export shape changed" apart from
	// "nothing about any dependency changed" without re-running the checker.
	DepSignatures map[string]string

	DiagnosticJSON string // the file's diagnostics, serialized by the caller
}

// BuildInfo is one persisted build's top-level state.
type BuildInfo struct {
	RootFiles       []string
	LatestDtsPath   string
	OptionsJSON     string
	Files           []FileRecord
}

// Store is a modernc.org/sqlite-backed build info cache. The schema is
// intentionally tiny: one row per build (for root files/options/latest
// .d.ts path) and one row per file (for the incremental dependency check),
// nothing more.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a build cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("buildcache: opening %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("buildcache: pinging %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS build (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	root_files TEXT NOT NULL,
	latest_dts_path TEXT NOT NULL,
	options_json TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS file_record (
	path TEXT PRIMARY KEY,
	version TEXT NOT NULL,
	signature_hash TEXT NOT NULL,
	dependencies TEXT NOT NULL,
	dep_signatures TEXT NOT NULL,
	diagnostic_json TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("buildcache: migrating schema: %w", err)
	}
	return nil
}
