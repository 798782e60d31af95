package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/novalang/novac/internal/flags"
)

func TestLoadParsesYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	body := "strict: true\nnoImplicitReturns: true\noutDir: build\nlib:\n  - es2020\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Strict || !cfg.NoImplicitReturns {
		t.Fatalf("expected strict + noImplicitReturns to be true, got %+v", cfg)
	}
	if cfg.OutDir != "build" {
		t.Fatalf("expected outDir build, got %q", cfg.OutDir)
	}
}

func TestFlagsProjectsStrictToAllStrictBits(t *testing.T) {
	cfg := Default()
	cfg.Strict = true
	f := cfg.Flags()
	if !f.Has(flags.StrictNullChecks) || !f.Has(flags.NoImplicitAny) {
		t.Fatalf("expected strict mode to set the AllStrict bundle, got %v", f)
	}
	if f.Has(flags.NoImplicitReturns) {
		t.Fatalf("noImplicitReturns should stay off when not requested")
	}
}

func TestFindAndLoadWalksAncestors(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("outDir: out\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, found, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if found == "" {
		t.Fatalf("expected to find novac.yaml in an ancestor directory")
	}
	if cfg.OutDir != "out" {
		t.Fatalf("expected outDir out, got %q", cfg.OutDir)
	}
}

func TestFindAndLoadFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, found, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if found != "" {
		t.Fatalf("expected no config file found, got %q", found)
	}
	if cfg.Module != ModuleESNext {
		t.Fatalf("expected default module kind, got %q", cfg.Module)
	}
}
