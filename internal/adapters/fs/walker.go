// Package fs provides file system adapters for scanning source trees and
// probing include directories.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root as a path that starts with root.
// Symlinked directories are followed, including root itself; a link back to a
// directory that is already being walked is not entered again. Hidden
// directories are not descended into and unreadable directories are skipped
// without error, the same way shell globbing treats them.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		w.walk(root, make(map[string]struct{}), yield)
	}
}

// walk lists dir and recurses into its sub-directories. ancestors holds the
// resolved paths of the directories on the current descent. It reports false
// once yield asked to stop.
func (w *Walker) walk(dir string, ancestors map[string]struct{}, yield func(string) bool) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return true
	}
	if _, cycle := ancestors[resolved]; cycle {
		return true
	}
	ancestors[resolved] = struct{}{}
	defer delete(ancestors, resolved)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if w.isDir(path, entry) {
			if w.shouldSkipDir(entry.Name()) {
				continue
			}
			if !w.walk(path, ancestors, yield) {
				return false
			}
			continue
		}

		if !yield(path) {
			return false
		}
	}
	return true
}

// isDir reports whether entry is a directory, following symlinks. A dangling
// link counts as a file so that callers get to report it.
func (w *Walker) isDir(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// shouldSkipDir reports whether a directory is hidden (.git, .jj, .svn, ...).
func (w *Walker) shouldSkipDir(name string) bool {
	return strings.HasPrefix(name, ".")
}
