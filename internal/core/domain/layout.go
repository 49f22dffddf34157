package domain

import (
	"path/filepath"
	"strings"
)

const (
	// OutputFileName is the name of the compilation database written at the project root.
	OutputFileName = "compile_commands.json"

	// ConfigFileName is the name of the optional per-checkout configuration file.
	ConfigFileName = "compdb.yaml"

	// BinDirName is the directory under the project root whose children name built targets.
	BinDirName = "bin"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// scanDirs are the top-level directories searched for sources, in scan order.
var scanDirs = []string{
	"arch",
	"rom",
	"workbench",
	"compiler",
	"external",
	"tools",
}

// sourceExtensions are matched case-sensitively, so ".C" is C++ and ".c" is C.
var sourceExtensions = map[string]Language{
	".c":   LanguageC,
	".cpp": LanguageCXX,
	".cc":  LanguageCXX,
	".cxx": LanguageCXX,
	".C":   LanguageCXX,
}

// ScanDirs returns the top-level directories searched for source files.
func ScanDirs() []string {
	return append([]string(nil), scanDirs...)
}

// IsSourceFile reports whether the base name of path is a visible file with a source extension.
func IsSourceFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	_, ok := sourceExtensions[filepath.Ext(name)]
	return ok
}

// DefaultBuildBase returns the directory that holds per-target build outputs
// when none is configured. It sits next to the project root.
func DefaultBuildBase(root string) string {
	return filepath.Join(filepath.Dir(root), "abiv1", "bin")
}

// BuildDir returns the build output directory of a target below base.
func BuildDir(base, target string) string {
	return filepath.Join(base, target, "AROS")
}

// DetectDir returns the directory listed when auto-detecting a built target.
func DetectDir(root string) string {
	return filepath.Join(root, BinDirName)
}

// DefaultOutputPath returns the default location of the compilation database.
func DefaultOutputPath(root string) string {
	return filepath.Join(root, OutputFileName)
}

// ConfigPath returns the location of the configuration file for a project root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}
