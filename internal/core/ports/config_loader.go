package ports

import "go.trai.ch/compdb/internal/core/domain"

// ConfigLoader defines the interface for loading per-checkout settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file below root.
	// A missing file is not an error and yields empty settings.
	Load(root string) (*domain.Settings, error)
}
