package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/redactor/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
categories: [names, phone, address]
concepts:
  - merger
  - layoff
output: censored
stats:
  destination: stdout
  format: JSON
jobs: 3
ner:
  url: http://localhost:8001/ner
  transformer_url: http://localhost:8002/ner
  proxy: 127.0.0.1:1080
  timeout: 45s
history: false
max_file_size: 1024
`)
		file, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		if err := file.Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := model.NewCategorySet(model.CategoryNames, model.CategoryPhones, model.CategoryAddresses)
		if got := cfg.Categories.Strings(); len(got) != 3 || got[0] != "names" || got[1] != "phones" || got[2] != "addresses" {
			t.Errorf("expected %v, got %v", want.Strings(), got)
		}
		if len(cfg.Concepts) != 2 || cfg.Concepts[0] != "merger" {
			t.Errorf("unexpected concepts %v", cfg.Concepts)
		}
		if cfg.OutputDir != "censored" || cfg.StatsDestination != "stdout" || cfg.StatsFormat != StatsFormatJSON {
			t.Errorf("unexpected output settings %+v", cfg)
		}
		if cfg.Jobs != 3 {
			t.Errorf("expected 3 jobs, got %d", cfg.Jobs)
		}
		if cfg.NERURL != "http://localhost:8001/ner" || cfg.TransformerURL != "http://localhost:8002/ner" {
			t.Errorf("unexpected recognizer URLs %q %q", cfg.NERURL, cfg.TransformerURL)
		}
		if cfg.NERProxy != "127.0.0.1:1080" || cfg.NERTimeout != 45*time.Second {
			t.Errorf("unexpected proxy settings %q %v", cfg.NERProxy, cfg.NERTimeout)
		}
		if cfg.History {
			t.Error("expected history to be disabled")
		}
		if cfg.MaxFileSize != 1024 {
			t.Errorf("expected max file size 1024, got %d", cfg.MaxFileSize)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		file, err := LoadConfigFile(writeConfig(t, ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg := NewConfig()
		if err := file.Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.StatsDestination != DefaultStatsDestination || !cfg.History {
			t.Errorf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(writeConfig(t, "outptu: typo\n")); err == nil {
			t.Error("expected error for unknown key")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		file, err := LoadConfigFile(writeConfig(t, "categories: [names, passports]\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := file.Apply(NewConfig()); !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
	})

	t.Run("bad timeout", func(t *testing.T) {
		t.Parallel()

		file, err := LoadConfigFile(writeConfig(t, "ner:\n  timeout: soon\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := file.Apply(NewConfig()); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path found", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "jobs: 1\n")
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit path missing", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvNERURL:         "http://ner:8001",
		EnvTransformerURL: "  ",
		EnvNERToken:       "s3cret",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := NewConfig()
	cfg.TransformerURL = "http://from-file"
	cfg.NERProxy = "127.0.0.1:1080"
	ApplyEnv(cfg, lookup)

	if cfg.NERURL != "http://ner:8001" {
		t.Errorf("expected env URL, got %q", cfg.NERURL)
	}
	if cfg.TransformerURL != "http://from-file" {
		t.Errorf("expected blank env value to be ignored, got %q", cfg.TransformerURL)
	}
	if cfg.NERProxy != "127.0.0.1:1080" {
		t.Errorf("expected unset env to keep value, got %q", cfg.NERProxy)
	}
	if cfg.NERToken != "s3cret" {
		t.Errorf("expected token from env, got %q", cfg.NERToken)
	}
}

// TestLoadDotEnv mutates the process environment and must not run in parallel.
func TestLoadDotEnv(t *testing.T) {
	const key = "REDACTOR_TEST_DOTENV_VALUE"

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	if err := LoadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "from-dotenv" {
		t.Errorf("expected value from .env, got %q", got)
	}

	t.Setenv(key, "from-process")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "from-process" {
		t.Errorf("expected process value to win, got %q", got)
	}
}
