package fs

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceScanner = (*Scanner)(nil)

// Scanner finds C and C++ sources below the fixed scan directories of a tree.
type Scanner struct {
	walker *Walker
}

// NewScanner creates a new Scanner.
func NewScanner(walker *Walker) *Scanner {
	return &Scanner{walker: walker}
}

// Scan returns the sorted, root-relative source files below the scan directories.
func (s *Scanner) Scan(ctx context.Context, root string) ([]string, error) {
	files := make([]string, 0)

	for _, dir := range domain.ScanDirs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		base := filepath.Join(root, dir)
		info, err := os.Stat(base)
		if err != nil || !info.IsDir() {
			continue
		}

		for path := range s.walker.WalkFiles(base) {
			if !domain.IsSourceFile(path) {
				continue
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "path", path)
			}
			files = append(files, rel)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}
