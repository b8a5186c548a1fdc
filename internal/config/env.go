package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvNERURL         = "REDACTOR_NER_URL"
	EnvTransformerURL = "REDACTOR_TRANSFORMER_URL"
	EnvNERProxy       = "REDACTOR_NER_PROXY"
	EnvNERToken       = "REDACTOR_NER_TOKEN"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. With no
// arguments it loads ".env" from the current directory. Missing files are
// not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// ApplyEnv overrides recognizer settings from the environment.
// lookup is usually os.LookupEnv; empty values are ignored.
func ApplyEnv(cfg *Config, lookup func(key string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			if v = strings.TrimSpace(v); v != "" {
				*dst = v
			}
		}
	}

	set(EnvNERURL, &cfg.NERURL)
	set(EnvTransformerURL, &cfg.TransformerURL)
	set(EnvNERProxy, &cfg.NERProxy)
	set(EnvNERToken, &cfg.NERToken)
}
