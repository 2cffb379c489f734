package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkDefaultIncludes(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "sub", "b.docx"))
	touch(t, filepath.Join(dir, "c.txt"))
	touch(t, filepath.Join(dir, "skip.png"))

	w := NewWalker(nil, nil)
	files, err := w.Walk(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	for _, f := range files {
		if filepath.Ext(f.Path) == ".png" {
			t.Errorf("png should not match: %s", f.Path)
		}
	}
}

func TestWalkExcludesDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "keep.txt"))
	touch(t, filepath.Join(dir, "drafts", "old.txt"))

	w := NewWalker(nil, []string{"drafts/**"})
	files, err := w.Walk(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if filepath.Base(files[0].Path) != "keep.txt" {
		t.Errorf("unexpected file: %s", files[0].Path)
	}
}

func TestWalkSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contract.pdf")
	touch(t, path)

	w := NewWalker(nil, nil)
	files, err := w.Walk(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
}

func TestWalkMissingRoot(t *testing.T) {
	w := NewWalker(nil, nil)
	if _, err := w.Walk(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}
