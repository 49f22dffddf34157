// Package config provides the configuration loader for compdb.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file at the project root.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads compdb.yaml below root. Relative paths in the file resolve
// against root.
func (l *Loader) Load(root string) (*domain.Settings, error) {
	configPath := domain.ConfigPath(root)

	var file Compdbfile
	found, err := readAndUnmarshalYAML(configPath, &file)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	if !found {
		return &domain.Settings{}, nil
	}

	if file.Version != "" && file.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, expected %q",
			domain.ConfigFileName, file.Version, SupportedVersion))
	}

	return &domain.Settings{
		Path:      configPath,
		Target:    file.Target,
		BuildBase: resolvePath(root, file.BuildBase),
		Output:    resolvePath(root, file.Output),
	}, nil
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func readAndUnmarshalYAML[T any](configPath string, target *T) (bool, error) {
	// #nosec G304 -- configPath is derived from the project root
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if parseErr := dec.Decode(target); parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return false, zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return true, nil
}
