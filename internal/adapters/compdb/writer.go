// Package compdb serializes compile commands into a JSON compilation database.
package compdb

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DatabaseWriter = (*Writer)(nil)

// Writer implements ports.DatabaseWriter using an atomic replace of the output file.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Encode renders entries as an indented JSON array terminated by a newline.
// A nil or empty slice renders as [].
func Encode(entries []domain.CompileCommand) ([]byte, error) {
	if entries == nil {
		entries = []domain.CompileCommand{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, zerr.Wrap(err, domain.ErrOutputMarshalFailed.Error())
	}
	return buf.Bytes(), nil
}

// Write stores entries at path. When the file already holds the same bytes it
// is left untouched and the result is marked unchanged.
func (w *Writer) Write(path string, entries []domain.CompileCommand) (domain.WriteResult, error) {
	result := domain.WriteResult{Path: path, Entries: len(entries)}

	data, err := Encode(entries)
	if err != nil {
		return result, err
	}

	target := resolveLink(path)

	//nolint:gosec // Output path is chosen by the user
	if existing, readErr := os.ReadFile(target); readErr == nil && len(existing) == len(data) {
		if xxhash.Sum64(existing) == xxhash.Sum64(data) {
			result.Unchanged = true
			return result, nil
		}
	}

	if err := writeAtomic(target, data); err != nil {
		return result, zerr.With(err, "path", path)
	}
	return result, nil
}

// resolveLink returns the file a symlinked output points to, so the link
// survives the rename. A dangling link resolves to its destination, which is
// then created. Any other path is returned as is.
func resolveLink(path string) string {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	dest, err := os.Readlink(path)
	if err != nil {
		return path
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return dest
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename has happened.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}
	return nil
}
