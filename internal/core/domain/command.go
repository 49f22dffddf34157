package domain

import "path/filepath"

// CompileCommand is one entry of the compilation database.
type CompileCommand struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
}

// Language is the source language selected from a file extension.
type Language int

const (
	// LanguageC compiles with the C driver.
	LanguageC Language = iota
	// LanguageCXX compiles with the C++ driver.
	LanguageCXX
)

// LanguageOf returns the language for a source path. Anything that is not a
// known C++ extension is compiled as C.
func LanguageOf(path string) Language {
	if lang, ok := sourceExtensions[filepath.Ext(path)]; ok {
		return lang
	}
	return LanguageC
}

// String implements fmt.Stringer.
func (l Language) String() string {
	if l == LanguageCXX {
		return "c++"
	}
	return "c"
}

// Compiler returns the compiler driver for the language.
func (l Language) Compiler() string {
	if l == LanguageCXX {
		return "clang++"
	}
	return "clang"
}

// StandardFlags returns the language standard selection flags.
func (l Language) StandardFlags() []string {
	if l == LanguageCXX {
		return []string{"-std=c++14"}
	}
	return []string{"-std=c99"}
}

// WriteResult describes a finished write of the compilation database.
type WriteResult struct {
	Path      string
	Entries   int
	Unchanged bool
}

// BuildScan is the result of listing the build output directory for auto-detection.
type BuildScan struct {
	// DirExists is false when the listed directory is missing.
	DirExists bool
	// Targets are the names of the sub-directories, sorted.
	Targets []string
}

// Settings are optional per-checkout defaults read from the config file.
type Settings struct {
	// Path is the config file the settings came from, empty when none exists.
	Path      string
	Target    string
	BuildBase string
	Output    string
}
