package vfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LICENSE")
	if err := os.WriteFile(path, []byte("MIT License\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := OS{}.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "MIT License\n" {
		t.Errorf("ReadFile = %q", got)
	}

	_, err = OS{}.ReadFile(filepath.Join(dir, "missing"))
	if !IsNotExist(err) {
		t.Errorf("IsNotExist(%v) = false, want true", err)
	}

	// A file used as a directory is treated as absent.
	_, err = OS{}.ReadFile(filepath.Join(path, "package.json"))
	if !IsNotExist(err) {
		t.Errorf("IsNotExist(%v) = false, want true for ENOTDIR", err)
	}
}

func TestOSReadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "LICENSE", "a.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "license.d"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := OS{}.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	want := []DirEntry{
		{Name: "LICENSE", IsFile: true},
		{Name: "a.md", IsFile: true},
		{Name: "b.txt", IsFile: true},
		{Name: "license.d", IsFile: false},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestOSReadDirSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	entries, err := OS{}.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name == "link" && !e.IsFile {
			t.Error("symlink to regular file should be reported as file")
		}
	}
}

func TestIsNotExistNil(t *testing.T) {
	if IsNotExist(nil) {
		t.Error("IsNotExist(nil) = true")
	}
}
