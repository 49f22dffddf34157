package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownTarget is returned when a target identifier is not in the configuration table.
	ErrUnknownTarget = zerr.New("unknown target")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrRootNotDirectory is returned when the project root is missing or is not a directory.
	ErrRootNotDirectory = zerr.New("project root is not a directory")

	// ErrScanFailed is returned when the source tree cannot be scanned.
	ErrScanFailed = zerr.New("failed to scan source tree")

	// ErrSourceUnreadable is returned when a discovered source file can no longer be read.
	ErrSourceUnreadable = zerr.New("source file is not readable")

	// ErrSourceNotRegular is returned when a discovered source path is not a regular file.
	ErrSourceNotRegular = zerr.New("source path is not a regular file")

	// ErrSourceOutsideRoot is returned when a source path escapes the project root.
	ErrSourceOutsideRoot = zerr.New("source path is outside project root")

	// ErrDetectFailed is returned when the build output directory cannot be listed.
	ErrDetectFailed = zerr.New("failed to detect built targets")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrOutputMarshalFailed is returned when the compilation database cannot be encoded.
	ErrOutputMarshalFailed = zerr.New("failed to encode compilation database")

	// ErrOutputWriteFailed is returned when the compilation database cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write compilation database")

	// ErrWatchFailed is returned when the file system watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch source tree")
)
