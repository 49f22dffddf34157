// Package ports defines the core interfaces for the application.
package ports

import "context"

// SourceScanner discovers the source files of a project tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type SourceScanner interface {
	// Scan returns the source files below root as root-relative paths.
	// Scan directories that do not exist are skipped. The result is sorted.
	Scan(ctx context.Context, root string) ([]string, error)
}
