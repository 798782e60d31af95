package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/novalang/novac/internal/config"
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

func TestResolvesRelativeSpecifierByExtensionSearch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.ts"), "export const x = 1;")
	writeFile(t, filepath.Join(dir, "main.ts"), "import { x } from './util';")

	r := New(config.Default())
	res, fail := r.Resolve("./util", filepath.Join(dir, "main.ts"), KindImport)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if res.FileName != filepath.Join(dir, "util.ts") {
		t.Fatalf("expected util.ts, got %s", res.FileName)
	}
}

func TestResolvesDirectoryIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib", "index.ts"), "export const y = 2;")

	r := New(config.Default())
	res, fail := r.Resolve("./lib", filepath.Join(dir, "main.ts"), KindImport)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if res.FileName != filepath.Join(dir, "lib", "index.ts") {
		t.Fatalf("expected lib/index.ts, got %s", res.FileName)
	}
}

func TestMissingRelativeModuleFails(t *testing.T) {
	dir := t.TempDir()
	r := New(config.Default())
	_, fail := r.Resolve("./missing", filepath.Join(dir, "main.ts"), KindImport)
	if fail == nil || fail.Kind != FailureNotFound {
		t.Fatalf("expected FailureNotFound, got %+v", fail)
	}
}

func TestExplicitTsExtensionRequiresFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.ts"), "export const x = 1;")

	cfg := config.Default()
	r := New(cfg)
	_, fail := r.Resolve("./util.ts", filepath.Join(dir, "main.ts"), KindImport)
	if fail == nil || fail.Kind != FailureModuleKindMismatch {
		t.Fatalf("expected FailureModuleKindMismatch, got %+v", fail)
	}

	cfg.AllowImportingTsExtensions = true
	r2 := New(cfg)
	res, fail2 := r2.Resolve("./util.ts", filepath.Join(dir, "main.ts"), KindImport)
	if fail2 != nil {
		t.Fatalf("unexpected failure: %+v", fail2)
	}
	if res.FileName != filepath.Join(dir, "util.ts") {
		t.Fatalf("expected util.ts, got %s", res.FileName)
	}
}

func TestJsonModuleRequiresResolveJsonModuleFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.json"), `{"a":1}`)

	cfg := config.Default()
	r := New(cfg)
	_, fail := r.Resolve("./data.json", filepath.Join(dir, "main.ts"), KindImport)
	if fail == nil || fail.Kind != FailureJsonWithoutFlag {
		t.Fatalf("expected FailureJsonWithoutFlag, got %+v", fail)
	}

	cfg.ResolveJsonModule = true
	r2 := New(cfg)
	res, fail2 := r2.Resolve("./data.json", filepath.Join(dir, "main.ts"), KindImport)
	if fail2 != nil {
		t.Fatalf("unexpected failure: %+v", fail2)
	}
	if res.Extension != ".json" {
		t.Fatalf("expected .json extension, got %s", res.Extension)
	}
}

func TestResolvesBareSpecifierThroughNodeModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "node_modules", "left-pad", "index.ts"), "export function pad() {}")
	writeFile(t, filepath.Join(dir, "src", "main.ts"), "import { pad } from 'left-pad';")

	r := New(config.Default())
	res, fail := r.Resolve("left-pad", filepath.Join(dir, "src", "main.ts"), KindImport)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if !res.IsExternalLibraryImport || res.PackageName != "left-pad" {
		t.Fatalf("expected external library import for left-pad, got %+v", res)
	}
}

func TestResolvesPackageJsonExportsWithCustomCondition(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "node_modules", "widgets", "package.json"), `{
  "name": "widgets",
  "exports": { ".": { "novac": "./novac-entry.ts", "default": "./index.js" } }
}`)
	writeFile(t, filepath.Join(dir, "node_modules", "widgets", "novac-entry.ts"), "export const w = 1;")
	writeFile(t, filepath.Join(dir, "node_modules", "widgets", "index.js"), "module.exports = {};")

	cfg := config.Default()
	cfg.CustomConditions = []string{"novac"}
	r := New(cfg)
	res, fail := r.Resolve("widgets", filepath.Join(dir, "main.ts"), KindImport)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if res.FileName != filepath.Join(dir, "node_modules", "widgets", "novac-entry.ts") {
		t.Fatalf("expected novac-entry.ts via custom condition, got %s", res.FileName)
	}
}

func TestPathsMappingRedirectsBareSpecifier(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "components", "button.ts"), "export const Button = {};")

	cfg := config.Default()
	cfg.BaseUrl = "."
	cfg.Paths = map[string][]string{"@app/*": {"src/*"}}
	r := New(cfg)
	res, fail := r.Resolve("@app/components/button", filepath.Join(dir, "main.ts"), KindImport)
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if res.FileName != filepath.Join(dir, "src", "components", "button.ts") {
		t.Fatalf("expected mapped button.ts, got %s", res.FileName)
	}
}

func TestNoResolveDisablesResolution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.ts"), "export const x = 1;")

	cfg := config.Default()
	cfg.NoResolve = true
	r := New(cfg)
	_, fail := r.Resolve("./util", filepath.Join(dir, "main.ts"), KindImport)
	if fail == nil || fail.Kind != FailureNotFound {
		t.Fatalf("expected resolution disabled to fail, got %+v", fail)
	}
}
