// Package vfs is the small file-system surface the license builders need:
// read a text file and list a directory.
//
// Path resolvers embed an [FS] so that callers read package files through the
// same view of the disk that located them.
package vfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// DirEntry is one item of a directory listing.
type DirEntry struct {
	Name   string
	IsFile bool
}

// FS reads files and lists directories.
//
// Implementations must return errors satisfying errors.Is(err, fs.ErrNotExist)
// for missing paths so callers can treat absence as a skip.
type FS interface {
	ReadFile(path string) (string, error)
	ReadDir(path string) ([]DirEntry, error)
}

// OS is the host file system.
type OS struct{}

// ReadFile returns the content of path as text.
func (OS) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the resolved install location
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadDir lists path sorted by name. Symlinks to regular files count as files.
func (OS) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		isFile := e.Type().IsRegular()
		if e.Type()&fs.ModeSymlink != 0 {
			if st, err := os.Stat(filepath.Join(path, e.Name())); err == nil {
				isFile = st.Mode().IsRegular()
			}
		}
		out = append(out, DirEntry{Name: e.Name(), IsFile: isFile})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// IsNotExist reports whether err means the path is absent. A path whose
// parent is a regular file also counts as absent.
func IsNotExist(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var pe *fs.PathError
	if errors.As(err, &pe) && errors.Is(pe.Err, syscall.ENOTDIR) {
		return true
	}
	return false
}
