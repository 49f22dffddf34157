package fs

import (
	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports"
)

var _ ports.IncludeResolver = (*IncludeResolver)(nil)

// IncludeResolver probes the include candidates of a target on every call.
type IncludeResolver struct {
	fsys ports.FileSystem
}

// NewIncludeResolver creates a new IncludeResolver backed by fsys.
func NewIncludeResolver(fsys ports.FileSystem) *IncludeResolver {
	return &IncludeResolver{fsys: fsys}
}

// Resolve returns -I flags for the candidates that exist, keeping their order.
func (r *IncludeResolver) Resolve(root, buildDir string, target domain.Target) []string {
	candidates := domain.IncludeCandidates(root, buildDir, target)
	flags := make([]string, 0, len(candidates))
	for _, dir := range candidates {
		if _, err := r.fsys.Stat(dir); err != nil {
			continue
		}
		flags = append(flags, "-I"+dir)
	}
	return flags
}
