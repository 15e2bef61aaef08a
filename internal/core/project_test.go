package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverArchiveFromFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "dump.sqlite")
	if err := os.WriteFile(dbPath, nil, 0o644); err != nil {
		t.Fatalf("write db: %v", err)
	}

	archive, err := DiscoverArchive(dbPath, "")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if archive.DBPath != dbPath {
		t.Fatalf("unexpected db path: %s", archive.DBPath)
	}
	if archive.InputDir != dir {
		t.Fatalf("unexpected input dir: %s", archive.InputDir)
	}
	if archive.OutputDir != filepath.Join(dir, DefaultOutputDirName) {
		t.Fatalf("unexpected output dir: %s", archive.OutputDir)
	}
}

func TestDiscoverArchiveFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultDBName), nil, 0o644); err != nil {
		t.Fatalf("write db: %v", err)
	}
	out := filepath.Join(t.TempDir(), "site")

	archive, err := DiscoverArchive(dir, out)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if archive.DBPath != filepath.Join(dir, DefaultDBName) {
		t.Fatalf("unexpected db path: %s", archive.DBPath)
	}
	if archive.OutputDir != out {
		t.Fatalf("unexpected output dir: %s", archive.OutputDir)
	}

	if err := EnsureOutputDir(archive); err != nil {
		t.Fatalf("ensure output: %v", err)
	}
	if info, err := os.Stat(out); err != nil || !info.IsDir() {
		t.Fatalf("expected output dir to exist: %v", err)
	}
}

func TestDiscoverArchiveErrors(t *testing.T) {
	if _, err := DiscoverArchive("", ""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := DiscoverArchive(filepath.Join(t.TempDir(), "nope.sqlite"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := DiscoverArchive(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for directory without database")
	}
}
