package ports

import "go.trai.ch/compdb/internal/core/domain"

// DatabaseWriter persists a compilation database.
//
//go:generate go run go.uber.org/mock/mockgen -source=writer.go -destination=mocks/mock_writer.go -package=mocks
type DatabaseWriter interface {
	// Write stores commands as a JSON array at path.
	Write(path string, commands []domain.CompileCommand) (domain.WriteResult, error)
}
