package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/compdb/internal/adapters/config"
	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), domain.FilePerm)
	require.NoError(t, err)
}

func TestLoader_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, `
version: "1"
target: pc-i386
build_base: ../out
output: .cache/compile_commands.json
`)

	settings, err := config.NewLoader(mockLogger).Load(root)
	require.NoError(t, err)

	assert.Equal(t, domain.ConfigPath(root), settings.Path)
	assert.Equal(t, "pc-i386", settings.Target)
	assert.Equal(t, filepath.Join(filepath.Dir(root), "out"), settings.BuildBase)
	assert.Equal(t, filepath.Join(root, ".cache", "compile_commands.json"), settings.Output)
}

func TestLoader_Load_AbsolutePaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	base := filepath.Join(t.TempDir(), "builds")
	createFile(t, root, domain.ConfigFileName, "build_base: "+base+"\n")

	settings, err := config.NewLoader(mockLogger).Load(root)
	require.NoError(t, err)

	assert.Equal(t, base, settings.BuildBase)
	assert.Empty(t, settings.Target)
	assert.Empty(t, settings.Output)
}

func TestLoader_Load_Missing(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	settings, err := config.NewLoader(mockLogger).Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &domain.Settings{}, settings)
}

func TestLoader_Load_EmptyFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "")

	settings, err := config.NewLoader(mockLogger).Load(root)
	require.NoError(t, err)
	assert.Equal(t, domain.ConfigPath(root), settings.Path)
	assert.Empty(t, settings.Target)
}

func TestLoader_Load_UnknownField(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "targets: [pc-i386]\n")

	_, err := config.NewLoader(mockLogger).Load(root)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "target: [unterminated\n")

	_, err := config.NewLoader(mockLogger).Load(root)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}

func TestLoader_Load_TargetNotValidated(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "target: vax-vms\n")

	settings, err := config.NewLoader(mockLogger).Load(root)
	require.NoError(t, err)
	assert.Equal(t, "vax-vms", settings.Target)
}

func TestLoader_Load_VersionWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(`compdb.yaml declares version "2", expected "1"`).Times(1)

	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "version: \"2\"\ntarget: amiga-m68k\n")

	settings, err := config.NewLoader(mockLogger).Load(root)
	require.NoError(t, err)
	assert.Equal(t, "amiga-m68k", settings.Target)
}
