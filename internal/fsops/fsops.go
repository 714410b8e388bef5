// Package fsops wraps the filesystem operations the browser performs:
// directory listing, metadata lookup, and the create/rename/delete
// mutations. All calls are synchronous and block the caller.
package fsops

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel errors. os/io errors are translated to these at the package
// boundary so callers can match with errors.Is instead of inspecting
// platform error strings.
var (
	ErrNotFound    = errors.New("no such file or directory")
	ErrPermission  = errors.New("permission denied")
	ErrExists      = errors.New("already exists")
	ErrInvalidName = errors.New("invalid name")
	ErrIO          = errors.New("i/o error")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermission
	case errors.Is(err, fs.ErrExist):
		return ErrExists
	case errors.Is(err, fs.ErrInvalid):
		return ErrInvalidName
	default:
		return ErrIO
	}
}

// validName rejects names that would escape the target directory.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsRune(name, os.PathSeparator)
}

// List returns the entry names of dir. Dotfiles are filtered out unless
// showHidden; with dirsFirst, directories precede files and each group
// is alphabetical, otherwise the whole listing is alphabetical. A
// permission failure yields an empty listing rather than an error.
func List(dir string, showHidden, dirsFirst bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return []string{}, nil
		}
		return nil, translate(err)
	}

	var dirs, files []string
	for _, entry := range entries {
		name := entry.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if dirsFirst && entry.IsDir() {
			dirs = append(dirs, name)
		} else {
			files = append(files, name)
		}
	}

	sort.Strings(dirs)
	sort.Strings(files)
	return append(dirs, files...), nil
}

// Exists reports whether path names an existing entry.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir reports whether path names a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsExecutable reports whether path is executable by someone.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0111 != 0
}

// CreateFile creates an empty file named name inside dir.
func CreateFile(dir, name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	path := filepath.Join(dir, name)
	if Exists(path) {
		return ErrExists
	}
	file, err := os.Create(path)
	if err != nil {
		return translate(err)
	}
	return translate(file.Close())
}

// CreateDir creates a directory named name inside dir.
func CreateDir(dir, name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	return translate(os.Mkdir(filepath.Join(dir, name), 0755))
}

// Rename renames the entry at oldPath to newName within its directory.
// Renaming onto an existing entry fails and leaves both untouched.
func Rename(oldPath, newName string) error {
	if !validName(newName) {
		return ErrInvalidName
	}
	if !Exists(oldPath) {
		return ErrNotFound
	}
	newPath := filepath.Join(filepath.Dir(oldPath), newName)
	if Exists(newPath) {
		return ErrExists
	}
	return translate(os.Rename(oldPath, newPath))
}

// Delete removes the entry at path. Directories are removed recursively
// with no rollback: a failure mid-tree leaves a partially deleted tree
// and is surfaced as an error.
func Delete(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return translate(err)
	}
	if info.IsDir() {
		return translate(os.RemoveAll(path))
	}
	return translate(os.Remove(path))
}
