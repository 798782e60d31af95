package main

import (
	"os"
	"path/filepath"
	"testing"
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

func TestRunBuildReturnsZeroForCleanProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.ts"), `export const ok: number = 1;`)

	if code := runBuild([]string{dir}); code != 0 {
		t.Fatalf("expected exit code 0 for a clean project, got %d", code)
	}
}

func TestRunBuildReturnsNonZeroOnTypeError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.ts"), `const broken: number = "oops";`)

	if code := runBuild([]string{dir}); code == 0 {
		t.Fatalf("expected a non-zero exit code for a project with a type error")
	}
}

func TestRunBuildReturnsOneForMissingDirectory(t *testing.T) {
	if code := runBuild([]string{filepath.Join(t.TempDir(), "does-not-exist")}); code != 1 {
		t.Fatalf("expected exit code 1 for a missing project directory, got %d", code)
	}
}
