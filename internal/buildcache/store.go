package buildcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SaveBuildInfo upserts the single build-level row (root files, options,
// latest .d.ts path) and every file's record in one transaction, so a
// build's persisted state never straddles a half-written build row and a
// fresh set of file rows.
func (s *Store) SaveBuildInfo(ctx context.Context, info *BuildInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("buildcache: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rootFiles, err := json.Marshal(info.RootFiles)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO build (id, root_files, latest_dts_path, options_json) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET root_files = excluded.root_files,
	latest_dts_path = excluded.latest_dts_path, options_json = excluded.options_json`,
		string(rootFiles), info.LatestDtsPath, info.OptionsJSON); err != nil {
		return fmt.Errorf("buildcache: saving build row: %w", err)
	}

	for _, rec := range info.Files {
		if err := s.putFileTx(ctx, tx, rec); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) putFileTx(ctx context.Context, tx *sql.Tx, rec FileRecord) error {
	deps, err := json.Marshal(rec.Dependencies)
	if err != nil {
		return err
	}
	depSigs, err := json.Marshal(rec.DepSignatures)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO file_record (path, version, signature_hash, dependencies, dep_signatures, diagnostic_json)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET version = excluded.version,
	signature_hash = excluded.signature_hash, dependencies = excluded.dependencies,
	dep_signatures = excluded.dep_signatures, diagnostic_json = excluded.diagnostic_json`,
		rec.Path, rec.Version, rec.SignatureHash, string(deps), string(depSigs), rec.DiagnosticJSON)
	if err != nil {
		return fmt.Errorf("buildcache: saving file record for %s: %w", rec.Path, err)
	}
	return nil
}

// PutFile upserts a single file's record outside of a full SaveBuildInfo
// call, for the Build Driver to record a just-rechecked file as it goes
// rather than batching every file until the end of the build.
func (s *Store) PutFile(ctx context.Context, rec FileRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := s.putFileTx(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

// GetBuildInfo loads the single persisted build row, if a build has ever
// been saved.
func (s *Store) GetBuildInfo(ctx context.Context) (*BuildInfo, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT root_files, latest_dts_path, options_json FROM build WHERE id = 1`)

	var rootFiles string
	info := &BuildInfo{}
	if err := row.Scan(&rootFiles, &info.LatestDtsPath, &info.OptionsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("buildcache: loading build row: %w", err)
	}
	if err := json.Unmarshal([]byte(rootFiles), &info.RootFiles); err != nil {
		return nil, false, err
	}
	return info, true, nil
}

// GetFile loads the persisted record for path, if any.
func (s *Store) GetFile(ctx context.Context, path string) (*FileRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT path, version, signature_hash, dependencies, dep_signatures, diagnostic_json
FROM file_record WHERE path = ?`, path)

	var rec FileRecord
	var deps, depSigs string
	if err := row.Scan(&rec.Path, &rec.Version, &rec.SignatureHash, &deps, &depSigs, &rec.DiagnosticJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("buildcache: loading file record for %s: %w", path, err)
	}
	if err := json.Unmarshal([]byte(deps), &rec.Dependencies); err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(depSigs), &rec.DepSignatures); err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

// NeedsRecheck decides whether path must be re-checked: true when there is
// no prior record, the file's own version changed, the dependency set
// changed, or any dependency's current signature hash differs from the
// hash recorded the last time path was checked. currentDepHashes is the
// current build's dependency-path -> signature-hash map (internal/build
// computes this from exportSignatureHash per file).
func (s *Store) NeedsRecheck(ctx context.Context, path, version string, currentDepHashes map[string]string) (bool, error) {
	rec, ok, err := s.GetFile(ctx, path)
	if err != nil {
		return false, err
	}
	if !ok || rec.Version != version {
		return true, nil
	}
	if len(rec.Dependencies) != len(currentDepHashes) {
		return true, nil
	}
	for _, dep := range rec.Dependencies {
		current, present := currentDepHashes[dep]
		if !present {
			return true, nil
		}
		if rec.DepSignatures[dep] != current {
			return true, nil
		}
	}
	return false, nil
}
