package ports

import "go.trai.ch/compdb/internal/core/domain"

// IncludeResolver turns the include candidates of a target into compiler flags.
//
//go:generate go run go.uber.org/mock/mockgen -source=includes.go -destination=mocks/mock_includes.go -package=mocks
type IncludeResolver interface {
	// Resolve returns ordered -I flags for the candidates that exist on disk.
	Resolve(root, buildDir string, target domain.Target) []string
}
