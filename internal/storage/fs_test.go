package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("---\ntitle: x\n---\nbody\n")
	if err := s.Write("blog/post.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("blog/post.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content = %q", got)
	}
}

func TestRead_NotExistIsDetectable(t *testing.T) {
	s := tempRoot(t)
	_, err := s.Read("missing.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestList_OnlyMarkdown(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("blog/a.md", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.Write("blog/deep/b.md", []byte("b")); err != nil {
		t.Fatal(err)
	}
	// Non-markdown file should be skipped.
	if err := os.WriteFile(filepath.Join(s.root, "blog", "img.png"), []byte{1}, 0o644); err != nil {
		t.Fatal(err)
	}

	metas, err := s.List("blog")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(metas), metas)
	}
	for _, m := range metas {
		if m.Checksum == "" {
			t.Errorf("missing checksum for %s", m.Path)
		}
	}
}

func TestDelete(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("x.md", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("x.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("x.md"); err == nil {
		t.Error("file still readable after delete")
	}
}

func TestSafePath_RejectsTraversal(t *testing.T) {
	s := tempRoot(t)
	if _, err := s.Read("../escape.md"); err == nil {
		t.Error("traversal should be rejected")
	}
	if err := s.Write("/abs.md", []byte("x")); err == nil {
		t.Error("absolute path should be rejected")
	}
}
