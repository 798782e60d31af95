package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/novalang/novac/internal/config"
	"github.com/novalang/novac/internal/diagnostics"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBuildOrdersFilesByImportDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.ts"), `export const base: number = 1;`)
	writeFile(t, filepath.Join(dir, "main.ts"), `import { base } from './util'; export const derived: number = base;`)

	cfg := config.Default()
	cfg.RootDir = dir
	cfg.Include = []string{"**/*.ts"}
	d := NewDriver(cfg)

	res, err := d.Build(context.Background(), DefaultParse)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(res.Files))
	}
	if filepath.Base(res.Files[0].Path) != "util.ts" {
		t.Fatalf("expected util.ts checked before main.ts, got order %s, %s",
			res.Files[0].Path, res.Files[1].Path)
	}
	if res.BuildID == "" {
		t.Fatalf("expected a non-empty BuildID")
	}
}

func TestBuildReportsUnresolvedImportAsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.ts"), `import { x } from './missing'; export const y: number = 1;`)

	cfg := config.Default()
	cfg.RootDir = dir
	d := NewDriver(cfg)

	res, err := d.Build(context.Background(), DefaultParse)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	found := false
	for _, diag := range res.Diagnostics {
		if diag.Code == diagnostics.CodeCannotFindModule {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a CodeCannotFindModule diagnostic, got %+v", res.Diagnostics)
	}
}

func TestBuildComputesStableExportSignatureHash(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), `export const a: number = 1;`)

	cfg := config.Default()
	cfg.RootDir = dir
	d := NewDriver(cfg)

	res1, err := d.Build(context.Background(), DefaultParse)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res2, err := d.Build(context.Background(), DefaultParse)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res1.Files[0].SignatureHash == "" {
		t.Fatalf("expected a non-empty signature hash")
	}
	if res1.Files[0].SignatureHash != res2.Files[0].SignatureHash {
		t.Fatalf("expected signature hash to be stable across builds with identical source")
	}
}

func TestTopoOrderFallsBackToInsertionOrderOnCycle(t *testing.T) {
	g := &depGraph{nodes: map[string]*fileNode{
		"a": {path: "a", deps: []string{"b"}},
		"b": {path: "b", deps: []string{"a"}},
	}, order: []string{"a", "b"}}

	ordered := g.topoOrder()
	if len(ordered) != 2 || ordered[0].path != "a" || ordered[1].path != "b" {
		t.Fatalf("expected cycle fallback to original order, got %+v", ordered)
	}
}

func TestMatchesPatternHandlesRecursiveGlob(t *testing.T) {
	if !matchesPattern("**/*.ts", "src/nested/util.ts") {
		t.Fatalf("expected **/*.ts to match a nested .ts file")
	}
	if matchesPattern("**/*.ts", "src/nested/util.js") {
		t.Fatalf("expected **/*.ts not to match a .js file")
	}
}

func TestDiscoverRootFilesRespectsExcludeAndNodeModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "keep.ts"), "export const keep = 1;")
	writeFile(t, filepath.Join(dir, "src", "keep.test.ts"), "export const t = 1;")
	writeFile(t, filepath.Join(dir, "node_modules", "pkg", "index.ts"), "export const p = 1;")

	cfg := config.Default()
	cfg.RootDir = dir
	cfg.Include = []string{"**/*.ts"}
	cfg.Exclude = []string{"**/*.test.ts"}
	d := NewDriver(cfg)

	paths, err := d.discoverRootFiles()
	if err != nil {
		t.Fatalf("discoverRootFiles: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "keep.ts" {
		t.Fatalf("expected only src/keep.ts, got %+v", paths)
	}
}
