package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/redactor/internal/model"
)

// File represents the structure of the .redactor configuration file.
// Every field is optional; zero values leave the current setting alone.
type File struct {
	// Categories lists the categories redacted by default
	// (names, dates, phones, addresses).
	Categories []string `yaml:"categories,omitempty"`

	// Concepts are phrases whose sentences are always redacted.
	Concepts []string `yaml:"concepts,omitempty"`

	// Output is the default output directory.
	Output string `yaml:"output,omitempty"`

	// Stats configures the statistics report.
	Stats StatsSection `yaml:"stats,omitempty"`

	// Jobs is the default number of concurrent documents.
	Jobs int `yaml:"jobs,omitempty"`

	// NER configures the recognizer sidecars.
	NER NERSection `yaml:"ner,omitempty"`

	// History enables or disables the audit database.
	History *bool `yaml:"history,omitempty"`

	// MaxFileSize is the largest input file read, in bytes.
	MaxFileSize int64 `yaml:"max_file_size,omitempty"`
}

// StatsSection is the "stats" block of the configuration file.
type StatsSection struct {
	// Destination is "stderr", "stdout" or a file path.
	Destination string `yaml:"destination,omitempty"`

	// Format is text, json or markdown.
	Format string `yaml:"format,omitempty"`
}

// NERSection is the "ner" block of the configuration file.
type NERSection struct {
	// URL is the general recognizer endpoint.
	URL string `yaml:"url,omitempty"`

	// TransformerURL is the transformer recognizer endpoint.
	TransformerURL string `yaml:"transformer_url,omitempty"`

	// Proxy is a SOCKS5 "host:port".
	Proxy string `yaml:"proxy,omitempty"`

	// Timeout is a Go duration string such as "45s".
	Timeout string `yaml:"timeout,omitempty"`
}

// Apply copies every set field of the file onto cfg.
func (f *File) Apply(cfg *Config) error {
	if len(f.Categories) > 0 {
		var set model.CategorySet
		for _, name := range f.Categories {
			cat := model.ParseCategory(name)
			if !cat.IsValid() {
				return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
			}
			if cat == model.CategoryConcepts {
				continue
			}
			set.Add(cat)
		}
		cfg.Categories = set
	}

	if len(f.Concepts) > 0 {
		cfg.Concepts = append([]string(nil), f.Concepts...)
	}
	if f.Output != "" {
		cfg.OutputDir = f.Output
	}
	if f.Stats.Destination != "" {
		cfg.StatsDestination = f.Stats.Destination
	}
	if f.Stats.Format != "" {
		cfg.StatsFormat = StatsFormat(strings.ToLower(f.Stats.Format))
	}
	if f.Jobs != 0 {
		cfg.Jobs = f.Jobs
	}
	if f.NER.URL != "" {
		cfg.NERURL = f.NER.URL
	}
	if f.NER.TransformerURL != "" {
		cfg.TransformerURL = f.NER.TransformerURL
	}
	if f.NER.Proxy != "" {
		cfg.NERProxy = f.NER.Proxy
	}
	if f.NER.Timeout != "" {
		d, err := time.ParseDuration(f.NER.Timeout)
		if err != nil {
			return fmt.Errorf("%w: ner.timeout %q: %w", ErrInvalidTimeout, f.NER.Timeout, err)
		}
		cfg.NERTimeout = d
	}
	if f.History != nil {
		cfg.History = *f.History
	}
	if f.MaxFileSize != 0 {
		cfg.MaxFileSize = f.MaxFileSize
	}
	return nil
}
