// Package vfs provides the virtual file system used to locate extensions,
// templates and placement documents. Virtual paths are slash separated and
// relative to the root of the file system, e.g. "Modules/Orchard.Title/Views".
package vfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileSystem is the contract the display layer needs from storage.
type FileSystem interface {
	// Exists reports whether a regular file exists at the virtual path.
	Exists(virtualPath string) bool
	// OpenRead opens the file for reading. The caller must close it.
	OpenRead(virtualPath string) (io.ReadCloser, error)
	// DirectoryExists reports whether a directory exists at the virtual path.
	DirectoryExists(virtualPath string) bool
	// ListFileNames returns the names (not paths) of the regular files
	// directly inside the directory, in lexical order.
	ListFileNames(virtualPath string) ([]string, error)
	// ListDirectoryNames returns the names of the sub-directories directly
	// inside the directory, in lexical order.
	ListDirectoryNames(virtualPath string) ([]string, error)
	// Combine joins two virtual path segments.
	Combine(a, b string) string
}

// PhysicalMapper is implemented by file systems backed by the operating
// system, allowing callers to watch the real location of a virtual path.
type PhysicalMapper interface {
	PhysicalPath(virtualPath string) (string, bool)
}

// IOFS adapts an io/fs.FS to FileSystem.
type IOFS struct {
	fsys fs.FS
	root string
}

// New wraps an arbitrary fs.FS. It has no physical location.
func New(fsys fs.FS) *IOFS {
	return &IOFS{fsys: fsys}
}

// NewDisk returns a FileSystem rooted at the given directory on disk.
func NewDisk(root string) (*IOFS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	return &IOFS{fsys: os.DirFS(abs), root: abs}, nil
}

// clean converts a virtual path into an fs.FS name. Leading "~/" and "/"
// are accepted and ".." can never escape the root.
func clean(virtualPath string) string {
	p := strings.TrimPrefix(virtualPath, "~")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}

func (f *IOFS) Exists(virtualPath string) bool {
	info, err := fs.Stat(f.fsys, clean(virtualPath))
	return err == nil && info.Mode().IsRegular()
}

func (f *IOFS) OpenRead(virtualPath string) (io.ReadCloser, error) {
	file, err := f.fsys.Open(clean(virtualPath))
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", virtualPath, err)
	}
	return file, nil
}

func (f *IOFS) DirectoryExists(virtualPath string) bool {
	info, err := fs.Stat(f.fsys, clean(virtualPath))
	return err == nil && info.IsDir()
}

func (f *IOFS) ListFileNames(virtualPath string) ([]string, error) {
	return f.list(virtualPath, fs.FileMode.IsRegular)
}

func (f *IOFS) ListDirectoryNames(virtualPath string) ([]string, error) {
	return f.list(virtualPath, fs.FileMode.IsDir)
}

// list returns the names of the entries of a directory whose mode satisfies
// keep. Symbolic links are judged by what they point to, as Exists does.
func (f *IOFS) list(virtualPath string, keep func(fs.FileMode) bool) ([]string, error) {
	dir := clean(virtualPath)
	entries, err := fs.ReadDir(f.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", virtualPath, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := fs.Stat(f.fsys, path.Join(dir, entry.Name()))
			if err != nil {
				continue // dangling link
			}
			mode = info.Mode()
		}
		if keep(mode) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (f *IOFS) Combine(a, b string) string {
	if a == "" {
		return path.Clean(b)
	}
	return path.Join(a, b)
}

// PhysicalPath maps a virtual path to its location on disk. It reports
// false for file systems that are not disk backed.
func (f *IOFS) PhysicalPath(virtualPath string) (string, bool) {
	if f.root == "" {
		return "", false
	}
	return filepath.Join(f.root, filepath.FromSlash(clean(virtualPath))), true
}

// IsNotExist reports whether err indicates a missing file or directory.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
