package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/redactor/internal/config"
	"github.com/nao1215/redactor/internal/database"
	"github.com/nao1215/redactor/internal/model"
	"github.com/nao1215/redactor/internal/ner"
	"github.com/nao1215/redactor/internal/pipeline"
	"github.com/nao1215/redactor/internal/redact"
	"github.com/nao1215/redactor/internal/report"
)

// categoryFlags maps each category flag to its category.
var categoryFlags = []struct {
	name     string
	category model.Category
	usage    string
}{
	{"names", model.CategoryNames, "Redact person names"},
	{"dates", model.CategoryDates, "Redact calendar dates"},
	{"phones", model.CategoryPhones, "Redact phone numbers"},
	{"address", model.CategoryAddresses, "Redact street addresses and locations"},
}

// NewRedactCmd creates the redact command.
func NewRedactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redact",
		Short: "Redact personal information from text files",
		Long: `Redact reads every file matched by --input, masks the selected categories
and writes <output>/<name>.censored. Counts per category are written to the
--stats destination once all files are processed.

A file that cannot be read, analyzed or written is reported on stderr and
skipped; the remaining files are still processed.

Examples:
  # Names and phone numbers in every .txt file, stats on stderr
  redactor redact --input '*.txt' --output censored --names --phones --stats stderr

  # Several patterns, whole sentences about a concept, stats to a file
  redactor redact -i 'notes/*.txt' -i 'mail/*.eml' -o out \
    --names --dates --address --concept merger --stats stats.txt

  # Use a general entity recognizer sidecar
  redactor redact -i '*.txt' -o out --names --ner-url http://127.0.0.1:8001/ner`,
		Args: cobra.NoArgs,
		RunE: runRedactCmd,
	}

	cmd.Flags().StringArrayP("input", "i", nil,
		"Input file or glob pattern (repeatable)")
	cmd.Flags().StringP("output", "o", "",
		"Directory receiving the censored files")

	for _, f := range categoryFlags {
		cmd.Flags().Bool(f.name, false, f.usage)
	}
	cmd.Flags().StringArray("concept", nil,
		"Redact every sentence mentioning this phrase (repeatable)")

	cmd.Flags().StringP("stats", "s", config.DefaultStatsDestination,
		"Statistics destination: stderr, stdout or a file path")
	cmd.Flags().String("stats-format", string(config.StatsFormatText),
		"Statistics format: text, json or markdown")

	cmd.Flags().IntP("jobs", "j", 0,
		"Number of files processed concurrently (default: number of CPUs)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .redactor in current or home directory)")

	cmd.Flags().String("ner-url", "", "General entity recognizer endpoint")
	cmd.Flags().String("transformer-url", "", "Transformer entity recognizer endpoint")
	cmd.Flags().String("ner-proxy", "", "SOCKS5 proxy (host:port) for the recognizers")
	cmd.Flags().Duration("ner-timeout", config.DefaultNERTimeout, "Timeout for one recognizer request")

	cmd.Flags().Int64("max-file-size", config.DefaultMaxFileSize,
		"Largest input file read in bytes")
	cmd.Flags().Bool("dry-run", false,
		"Detect and count without writing censored files")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().String("history-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

func runRedactCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runRedact(ctx, cfg, logger, report.Streams{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
}

// buildConfig layers defaults, the configuration file, the environment and
// finally the command line flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	config.ApplyEnv(cfg, os.LookupEnv)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("input") {
		if cfg.Inputs, err = flags.GetStringArray("input"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return err
		}
	}

	selected, err := selectedCategories(cmd)
	if err != nil {
		return err
	}
	if selected != nil {
		cfg.Categories = *selected
	}

	if flags.Changed("concept") {
		if cfg.Concepts, err = flags.GetStringArray("concept"); err != nil {
			return err
		}
	}
	if flags.Changed("stats") {
		if cfg.StatsDestination, err = flags.GetString("stats"); err != nil {
			return err
		}
	}
	if flags.Changed("stats-format") {
		format, err := flags.GetString("stats-format")
		if err != nil {
			return err
		}
		cfg.StatsFormat = config.StatsFormat(strings.ToLower(format))
	}
	if flags.Changed("jobs") {
		if cfg.Jobs, err = flags.GetInt("jobs"); err != nil {
			return err
		}
	}
	if flags.Changed("ner-url") {
		if cfg.NERURL, err = flags.GetString("ner-url"); err != nil {
			return err
		}
	}
	if flags.Changed("transformer-url") {
		if cfg.TransformerURL, err = flags.GetString("transformer-url"); err != nil {
			return err
		}
	}
	if flags.Changed("ner-proxy") {
		if cfg.NERProxy, err = flags.GetString("ner-proxy"); err != nil {
			return err
		}
	}
	if flags.Changed("ner-timeout") {
		if cfg.NERTimeout, err = flags.GetDuration("ner-timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("max-file-size") {
		if cfg.MaxFileSize, err = flags.GetInt64("max-file-size"); err != nil {
			return err
		}
	}
	if cfg.DryRun, err = flags.GetBool("dry-run"); err != nil {
		return err
	}
	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return err
	}
	if noHistory {
		cfg.History = false
	}
	if flags.Changed("history-dir") {
		if cfg.HistoryDir, err = flags.GetString("history-dir"); err != nil {
			return err
		}
	}
	return nil
}

// selectedCategories returns the categories chosen on the command line, or
// nil when no category flag was given.
func selectedCategories(cmd *cobra.Command) (*model.CategorySet, error) {
	var (
		set     model.CategorySet
		touched bool
	)
	for _, f := range categoryFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		touched = true
		on, err := cmd.Flags().GetBool(f.name)
		if err != nil {
			return nil, err
		}
		if on {
			set.Add(f.category)
		}
	}
	if !touched {
		return nil, nil
	}
	return &set, nil
}

// newRecognizers creates one client per configured sidecar. Unconfigured
// sidecars stay nil so their detectors are not registered.
func newRecognizers(cfg *config.Config, logger *slog.Logger) (redact.Recognizers, error) {
	opts := []ner.Option{
		ner.WithTimeout(cfg.NERTimeout),
		ner.WithLogger(logger),
	}
	if cfg.NERProxy != "" {
		opts = append(opts, ner.WithProxy(cfg.NERProxy))
	}
	if cfg.NERToken != "" {
		opts = append(opts, ner.WithHeader("Authorization", "Bearer "+cfg.NERToken))
	}

	var recs redact.Recognizers
	if cfg.NERURL != "" {
		c, err := ner.New(cfg.NERURL, opts...)
		if err != nil {
			return recs, fmt.Errorf("failed to create NER client: %w", err)
		}
		recs.General = c
	}
	if cfg.TransformerURL != "" {
		c, err := ner.New(cfg.TransformerURL, opts...)
		if err != nil {
			return recs, fmt.Errorf("failed to create transformer client: %w", err)
		}
		recs.Transformer = c
	}
	return recs, nil
}

// runRedact processes every input, emits the statistics and records the run.
func runRedact(ctx context.Context, cfg *config.Config, logger *slog.Logger, streams report.Streams) error {
	recognizers, err := newRecognizers(cfg, logger)
	if err != nil {
		return err
	}

	active := cfg.ActiveCategories()
	aggregator := redact.NewStandardAggregator(recognizers, cfg.Concepts, redact.WithLogger(logger))

	logger.Info("starting redaction",
		"categories", active.Strings(),
		"concepts", len(cfg.Concepts),
		"detectors", aggregator.Detectors(),
		"jobs", cfg.Jobs,
		"dryRun", cfg.DryRun,
	)

	paths := pipeline.ExpandInputs(cfg.Inputs, func(pattern string) {
		fmt.Fprintf(streams.Stderr, "No files matched the pattern: %s\n", pattern)
	})

	if !cfg.DryRun {
		if err := pipeline.EnsureOutputDir(cfg.OutputDir); err != nil {
			return err
		}
	}

	docOpts := pipeline.DocumentOptions{
		Aggregator:  aggregator,
		Active:      active,
		OutputDir:   cfg.OutputDir,
		DryRun:      cfg.DryRun,
		MaxFileSize: cfg.MaxFileSize,
		Logger:      logger,
	}
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline { return pipeline.NewDocumentPipeline(docOpts) },
		pipeline.WithConcurrency(cfg.Jobs),
		pipeline.WithBatchLogger(logger),
		pipeline.WithDocumentCallback(func(result *model.DocumentResult) {
			reportDocument(streams.Stderr, logger, result)
		}),
	)

	run := model.NewRun(active, len(cfg.Concepts))
	results, batchErr := bp.ProcessBatch(ctx, run, paths)

	// A statistics failure is reported but never fails the run.
	_ = streams.Emit(run, cfg.StatsDestination, string(cfg.StatsFormat)) //nolint:errcheck // reported by Emit

	if cfg.History {
		// The run is recorded even when it was interrupted.
		if err := saveHistory(context.WithoutCancel(ctx), cfg.HistoryDir, run, results); err != nil {
			logger.Error("failed to record run history", "dir", cfg.HistoryDir, "error", err)
			fmt.Fprintf(streams.Stderr, "Warning: %v\n", err)
		}
	}

	if batchErr != nil {
		return fmt.Errorf("redaction interrupted: %w", batchErr)
	}
	return nil
}

// reportDocument prints a per-file error in the redactor's stderr format.
func reportDocument(w io.Writer, logger *slog.Logger, result *model.DocumentResult) {
	if !result.Failed() {
		logger.Debug("document redacted",
			"path", result.Path,
			"output", result.OutputPath,
			"detections", len(result.Detections),
			"regions", len(result.Plan),
			"counts", result.Counters.String(),
		)
		return
	}

	switch {
	case errors.Is(result.Error, context.Canceled), errors.Is(result.Error, context.DeadlineExceeded):
		return
	case errors.Is(result.Error, pipeline.ErrReadInput):
		fmt.Fprintf(w, "Error reading file %s: %v\n", result.Path, result.Error)
	case errors.Is(result.Error, pipeline.ErrWriteOutput):
		fmt.Fprintf(w, "Error writing to file %s: %v\n", result.OutputPath, result.Error)
	default:
		fmt.Fprintf(w, "Error processing file %s: %v\n", result.Path, result.Error)
	}
}

// saveHistory stores the run and its documents in the audit database.
func saveHistory(ctx context.Context, dir string, run *model.Run, results []*model.DocumentResult) error {
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(ctx, run, results); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}
