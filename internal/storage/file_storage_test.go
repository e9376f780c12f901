package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStorage_StagingPath(t *testing.T) {
	fs := NewFileStorage()
	dest := filepath.Join("some", "dir", "file.iso")

	first := fs.StagingPath(dest)
	second := fs.StagingPath(dest)

	if filepath.Dir(first) != filepath.Dir(dest) {
		t.Errorf("expected staging file in %q, got %q", filepath.Dir(dest), first)
	}
	if !strings.HasSuffix(first, ".part") {
		t.Errorf("expected .part suffix, got %q", first)
	}
	if first == second {
		t.Errorf("expected unique staging paths, got %q twice", first)
	}
}

func TestFileStorage_CreateCommit(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorage()
	dest := filepath.Join(dir, "nested", "out.bin")

	f, staging, err := fs.CreateStaging(dest)
	if err != nil {
		t.Fatalf("CreateStaging error: %v", err)
	}
	if _, err := f.Write([]byte("data")); err != nil {
		t.Fatalf("write error: %v", err)
	}
	f.Close()

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination must not exist before commit, stat err=%v", err)
	}

	if err := fs.Commit(staging, dest); err != nil {
		t.Fatalf("Commit error: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat error: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("expected size 4, got %d", info.Size())
	}
	if _, err := os.Stat(staging); !os.IsNotExist(err) {
		t.Errorf("staging file should be gone after commit, stat err=%v", err)
	}
}

func TestFileStorage_Discard(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorage()

	f, staging, err := fs.CreateStaging(filepath.Join(dir, "out.bin"))
	if err != nil {
		t.Fatalf("CreateStaging error: %v", err)
	}
	f.Close()

	if err := fs.Discard(staging); err != nil {
		t.Fatalf("Discard error: %v", err)
	}
	if _, err := os.Stat(staging); !os.IsNotExist(err) {
		t.Errorf("expected staging file removed, stat err=%v", err)
	}
	if err := fs.Discard(staging); err != nil {
		t.Errorf("discarding a missing file should succeed, got %v", err)
	}
}
