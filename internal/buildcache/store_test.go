package buildcache

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadBuildInfoRoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	info := &BuildInfo{
		RootFiles:     []string{"a.ts", "b.ts"},
		LatestDtsPath: "dist/a.d.ts",
		OptionsJSON:   `{"strict":true}`,
		Files: []FileRecord{
			{Path: "a.ts", Version: "v1", SignatureHash: "hash-a", Dependencies: []string{"b.ts"}, DepSignatures: map[string]string{"b.ts": "hash-b"}},
			{Path: "b.ts", Version: "v1", SignatureHash: "hash-b"},
		},
	}
	if err := s.SaveBuildInfo(ctx, info); err != nil {
		t.Fatalf("SaveBuildInfo: %v", err)
	}

	loaded, ok, err := s.GetBuildInfo(ctx)
	if err != nil || !ok {
		t.Fatalf("GetBuildInfo: ok=%v err=%v", ok, err)
	}
	if loaded.LatestDtsPath != "dist/a.d.ts" || len(loaded.RootFiles) != 2 {
		t.Fatalf("unexpected build info: %+v", loaded)
	}

	rec, ok, err := s.GetFile(ctx, "a.ts")
	if err != nil || !ok {
		t.Fatalf("GetFile: ok=%v err=%v", ok, err)
	}
	if rec.SignatureHash != "hash-a" || rec.DepSignatures["b.ts"] != "hash-b" {
		t.Fatalf("unexpected file record: %+v", rec)
	}
}

func TestNeedsRecheckOnMissingRecord(t *testing.T) {
	s := openTestStore(t)
	needs, err := s.NeedsRecheck(context.Background(), "never-seen.ts", "v1", nil)
	if err != nil {
		t.Fatalf("NeedsRecheck: %v", err)
	}
	if !needs {
		t.Fatalf("expected recheck for a file with no prior record")
	}
}

func TestNeedsRecheckOnVersionChange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := FileRecord{Path: "a.ts", Version: "v1", SignatureHash: "hash-a"}
	if err := s.PutFile(ctx, rec); err != nil {
		t.Fatalf("PutFile: %v", err)
	}

	needs, err := s.NeedsRecheck(ctx, "a.ts", "v2", map[string]string{})
	if err != nil {
		t.Fatalf("NeedsRecheck: %v", err)
	}
	if !needs {
		t.Fatalf("expected recheck when the file's own version changed")
	}
}

func TestNeedsRecheckSkipsWhenDependencySignaturesUnchanged(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := FileRecord{
		Path:          "main.ts",
		Version:       "v1",
		SignatureHash: "hash-main",
		Dependencies:  []string{"util.ts"},
		DepSignatures: map[string]string{"util.ts": "hash-util-1"},
	}
	if err := s.PutFile(ctx, rec); err != nil {
		t.Fatalf("PutFile: %v", err)
	}

	needs, err := s.NeedsRecheck(ctx, "main.ts", "v1", map[string]string{"util.ts": "hash-util-1"})
	if err != nil {
		t.Fatalf("NeedsRecheck: %v", err)
	}
	if needs {
		t.Fatalf("expected no recheck when version and dependency signatures are unchanged")
	}

	needs, err = s.NeedsRecheck(ctx, "main.ts", "v1", map[string]string{"util.ts": "hash-util-2"})
	if err != nil {
		t.Fatalf("NeedsRecheck: %v", err)
	}
	if !needs {
		t.Fatalf("expected recheck when a dependency's signature hash changed")
	}
}
