package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TargetDetector = (*Detector)(nil)

// Detector lists previously built targets below the project's bin directory.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// BuiltTargets returns the names of the directories in <root>/bin, sorted by name.
// Symlinks to directories count as directories.
func (d *Detector) BuiltTargets(root string) (domain.BuildScan, error) {
	dir := domain.DetectDir(root)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.BuildScan{}, nil
		}
		return domain.BuildScan{}, zerr.With(zerr.Wrap(err, domain.ErrDetectFailed.Error()), "path", dir)
	}

	scan := domain.BuildScan{DirExists: true, Targets: make([]string, 0, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() {
			scan.Targets = append(scan.Targets, entry.Name())
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, entry.Name())); err == nil && info.IsDir() {
				scan.Targets = append(scan.Targets, entry.Name())
			}
		}
	}
	return scan, nil
}
