package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"absolute path", "/tmp/test"},
		{"relative path", "."},
		{"missing path", "does/not/exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalizePath(tt.input); !filepath.IsAbs(got) {
				t.Errorf("CanonicalizePath(%q) = %q, want absolute path", tt.input, got)
			}
		})
	}
}

func TestCanonicalizePathSymlink(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	if got, want := CanonicalizePath(link), CanonicalizePath(target); got != want {
		t.Errorf("CanonicalizePath(link) = %q, want %q", got, want)
	}
	if !SamePath(link, target) {
		t.Error("SamePath(link, target) = false")
	}
}

func TestFindUp(t *testing.T) {
	root := t.TempDir()
	store := filepath.Join(root, ".bugs")
	deep := filepath.Join(root, "a", "b", "c")
	for _, dir := range []string{store, deep} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	got := FindUp(deep, ".bugs")
	if !SamePath(got, store) {
		t.Errorf("FindUp from nested dir = %q, want %q", got, store)
	}

	if got := FindUp(deep, ".no-such-dir-for-b-tests"); got != "" {
		t.Errorf("FindUp for missing name = %q, want empty", got)
	}
}

func TestFindUpIgnoresFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".bugs"), []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := FindUp(root, ".bugs"); got != "" && SamePath(filepath.Dir(got), root) {
		t.Errorf("FindUp returned a regular file: %q", got)
	}
}
