package config

import (
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/redactor/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "redactor"

	// DefaultStatsDestination sends statistics to standard error.
	DefaultStatsDestination = "stderr"

	// DefaultNERTimeout bounds one recognizer round trip. Large documents on
	// a CPU-only transformer sidecar can take tens of seconds.
	DefaultNERTimeout = 30 * time.Second

	// DefaultMaxFileSize is the largest source document read (64 MiB).
	DefaultMaxFileSize int64 = 64 << 20
)

// StatsFormat selects how statistics are rendered.
type StatsFormat string

// Statistics formats.
const (
	// StatsFormatText is the five line "Names redacted: N" report.
	StatsFormatText StatsFormat = "text"
	// StatsFormatJSON is a JSON object with counts and run metadata.
	StatsFormatJSON StatsFormat = "json"
	// StatsFormatMarkdown is a Markdown table.
	StatsFormatMarkdown StatsFormat = "markdown"
)

// IsValid reports whether f is a known format.
func (f StatsFormat) IsValid() bool {
	switch f {
	case StatsFormatText, StatsFormatJSON, StatsFormatMarkdown:
		return true
	default:
		return false
	}
}

// Config holds all settings for one redaction run.
type Config struct {
	// Inputs are file paths or glob patterns.
	Inputs []string

	// OutputDir receives the <basename>.censored files.
	OutputDir string

	// Categories are the active built-in categories.
	Categories model.CategorySet

	// Concepts are phrases whose sentences are redacted whole.
	Concepts []string

	// StatsDestination is "stderr", "stdout" or a file path.
	StatsDestination string

	// StatsFormat selects the statistics rendering.
	StatsFormat StatsFormat

	// Jobs is the number of documents processed concurrently.
	Jobs int

	// NERURL is the general entity recognizer endpoint. Empty disables it.
	NERURL string

	// TransformerURL is the transformer recognizer endpoint. Empty disables it.
	TransformerURL string

	// NERProxy is an optional SOCKS5 "host:port" used to reach the recognizers.
	NERProxy string

	// NERToken is sent as a bearer token to the recognizers when set.
	NERToken string

	// NERTimeout bounds one recognizer request.
	NERTimeout time.Duration

	// MaxFileSize is the largest input file read, in bytes.
	MaxFileSize int64

	// DryRun detects and counts without writing censored copies.
	DryRun bool

	// History records the run in the audit database.
	History bool

	// HistoryDir is where the audit database lives.
	HistoryDir string

	// ConfigFilePath is an explicit configuration file.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		StatsDestination: DefaultStatsDestination,
		StatsFormat:      StatsFormatText,
		Jobs:             runtime.NumCPU(),
		NERTimeout:       DefaultNERTimeout,
		MaxFileSize:      DefaultMaxFileSize,
		History:          true,
		HistoryDir:       XDGDataDir(),
	}
}

// ActiveCategories returns the categories to redact. Concepts are active
// whenever at least one concept phrase is configured.
func (c *Config) ActiveCategories() model.CategorySet {
	active := model.NewCategorySet(c.Categories.Slice()...)
	if len(c.Concepts) > 0 {
		active.Add(model.CategoryConcepts)
	}
	return active
}

// XDGDataDir returns the XDG data directory for the redactor.
// On Linux: ~/.local/share/redactor
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the redactor.
// On Linux: ~/.config/redactor
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.StatsDestination == "" {
		return ErrNoStatsDestination
	}
	if c.Jobs <= 0 {
		return ErrInvalidJobs
	}
	if !c.StatsFormat.IsValid() {
		return ErrInvalidStatsFormat
	}
	if c.NERTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxFileSize < 0 {
		return ErrInvalidMaxFileSize
	}
	return nil
}
