package config

import "errors"

// Configuration validation errors returned by Config.Validate and the loaders.
var (
	// ErrNoInput is returned when no input pattern is given.
	ErrNoInput = errors.New("no input specified: use --input with a file or glob pattern")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified: use --output")

	// ErrNoStatsDestination is returned when the stats destination is empty.
	ErrNoStatsDestination = errors.New("no statistics destination specified: use --stats stderr, stdout or a file path")

	// ErrInvalidJobs is returned when the worker count is not positive.
	ErrInvalidJobs = errors.New("invalid jobs: must be positive")

	// ErrInvalidStatsFormat is returned for an unknown statistics format.
	ErrInvalidStatsFormat = errors.New("invalid statistics format: must be text, json or markdown")

	// ErrInvalidTimeout is returned when the recognizer timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxFileSize is returned when the file size limit is negative.
	ErrInvalidMaxFileSize = errors.New("invalid max file size: must be non-negative")

	// ErrUnknownCategory is returned for a category name the redactor does not know.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
