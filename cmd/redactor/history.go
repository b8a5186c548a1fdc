package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/nao1215/redactor/internal/config"
	"github.com/nao1215/redactor/internal/database"
	"github.com/nao1215/redactor/internal/model"
)

// historyTimeLayout formats run timestamps in listings.
const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded redaction runs",
		Long: `History lists the runs recorded in the audit database.

Every redact run stores its per-category counts and, for each document, the
source and output paths, the SHA3-256 digest of the source and any error.
Document contents are never stored.

A run ID may be abbreviated to any unique prefix.

Examples:
  # List the 20 most recent runs
  redactor history

  # Show the documents of one run
  redactor history 3f2a9c1e

  # Find every run that processed a given source file
  redactor history --hash 9a7c...e1

  # Compare the counts of two runs
  redactor history --compare 3f2a9c1e 77b0d412

  # Machine-readable output
  redactor history --json`,
		Args: cobra.MaximumNArgs(2),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs listed (0 = all)")
	cmd.Flags().String("hash", "", "List documents whose source has this SHA3-256 digest")
	cmd.Flags().Bool("compare", false, "Compare the counts of two runs")
	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	cmd.Flags().String("history-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	hash, err := flags.GetString("hash")
	if err != nil {
		return err
	}
	compare, err := flags.GetBool("compare")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	dir, err := flags.GetString("history-dir")
	if err != nil {
		return err
	}
	if dir == "" {
		dir = config.XDGDataDir()
	}

	// Validate arguments before opening the database.
	switch {
	case compare && len(args) != 2:
		return errors.New("--compare requires two run IDs")
	case !compare && len(args) > 1:
		return errors.New("at most one run ID may be given (use --compare for two)")
	case hash != "" && len(args) > 0:
		return errors.New("--hash cannot be combined with a run ID")
	}

	db, err := database.Open(dir, database.Options{CreateIfNotExists: false})
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
			return nil
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case compare:
		return compareRuns(ctx, out, db, args[0], args[1], jsonOutput)
	case hash != "":
		return listDocumentsByHash(ctx, out, db, hash, jsonOutput)
	case len(args) == 1:
		return showRun(ctx, out, db, args[0], jsonOutput)
	default:
		return listRuns(ctx, out, db, limit, jsonOutput)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// listRuns prints the most recent runs.
func listRuns(ctx context.Context, w io.Writer, db *database.HistoryDB, limit int, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(w, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(w, "  %-8s  %-19s  %5s  %6s  %s\n", "Run", "Started", "Docs", "Failed", "Redacted")
	for _, r := range runs {
		fmt.Fprintf(w, "  %-8s  %-19s  %5d  %6d  %s\n",
			shortID(r.ID),
			r.StartedAt.Local().Format(historyTimeLayout),
			r.Documents,
			r.Failed,
			formatCounts(r.Counts),
		)
	}
	return nil
}

// runDetail is the JSON shape of one run with its documents.
type runDetail struct {
	Run       *database.RunRecord       `json:"run"`
	Documents []database.DocumentRecord `json:"documents"`
}

// showRun prints one run and its documents.
func showRun(ctx context.Context, w io.Writer, db *database.HistoryDB, id string, jsonOutput bool) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	docs, err := db.GetRunDocuments(ctx, run.ID)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(w, runDetail{Run: run, Documents: docs})
	}

	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  Started:    %s\n", run.StartedAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(w, "  Finished:   %s\n", run.FinishedAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(w, "  Categories: %s\n", strings.Join(run.Categories, ", "))
	fmt.Fprintf(w, "  Concepts:   %d phrase(s)\n", run.Concepts)
	fmt.Fprintf(w, "  Redacted:   %s\n", formatCounts(run.Counts))
	fmt.Fprintf(w, "\nDocuments (%d, %d failed):\n", run.Documents, run.Failed)
	writeDocuments(w, docs)
	return nil
}

// listDocumentsByHash prints every recorded document with the given digest.
func listDocumentsByHash(ctx context.Context, w io.Writer, db *database.HistoryDB, hash string, jsonOutput bool) error {
	docs, err := db.FindDocumentsByHash(ctx, strings.ToLower(hash))
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(w, docs)
	}
	if len(docs) == 0 {
		fmt.Fprintf(w, "No documents recorded with digest %s\n", hash)
		return nil
	}
	fmt.Fprintf(w, "Documents with digest %s (%d):\n", hash, len(docs))
	writeDocuments(w, docs)
	return nil
}

func writeDocuments(w io.Writer, docs []database.DocumentRecord) {
	for _, d := range docs {
		status := "ok"
		switch {
		case d.Error != "":
			status = "error: " + d.Error
		case !d.Written:
			status = "not written"
		}
		fmt.Fprintf(w, "  [%s] %s\n", shortID(d.RunID), d.Path)
		if d.OutputPath != "" {
			fmt.Fprintf(w, "      output:   %s\n", d.OutputPath)
		}
		if d.SourceHash != "" {
			fmt.Fprintf(w, "      sha3:     %s\n", d.SourceHash)
		}
		fmt.Fprintf(w, "      redacted: %s\n", formatCounts(d.Counts))
		fmt.Fprintf(w, "      status:   %s\n", status)
	}
}

// RunComparison is the difference in counts between two runs.
type RunComparison struct {
	Previous *database.RunRecord `json:"previous"`
	Current  *database.RunRecord `json:"current"`
	Delta    map[string]int      `json:"delta"`
}

// compareRuns prints the per-category change from the older run to the newer.
func compareRuns(ctx context.Context, w io.Writer, db *database.HistoryDB, idA, idB string, jsonOutput bool) error {
	a, err := db.GetRun(ctx, idA)
	if err != nil {
		return err
	}
	b, err := db.GetRun(ctx, idB)
	if err != nil {
		return err
	}
	if b.StartedAt.Before(a.StartedAt) {
		a, b = b, a
	}

	result := RunComparison{Previous: a, Current: b, Delta: make(map[string]int)}
	for _, cat := range model.AllCategories() {
		key := cat.String()
		result.Delta[key] = b.Counts[key] - a.Counts[key]
	}
	if jsonOutput {
		return writeJSON(w, result)
	}

	fmt.Fprintf(w, "Previous run: %s (%s)\n", shortID(a.ID), a.StartedAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(w, "Current run:  %s (%s)\n\n", shortID(b.ID), b.StartedAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(w, "  %-14s  %-10s  %-10s  %-10s\n", "Category", "Previous", "Current", "Change")
	for _, cat := range model.AllCategories() {
		key := cat.String()
		fmt.Fprintf(w, "  %-14s  %-10d  %-10d  %-10s\n",
			cat.Label(), a.Counts[key], b.Counts[key], formatDelta(result.Delta[key]))
	}
	return nil
}

// formatCounts renders counts in report order, e.g. "names=2 dates=0 ...".
func formatCounts(counts map[string]int) string {
	return model.CountersFromMap(counts).String()
}

// formatDelta formats a delta value with sign.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}

// shortID abbreviates a run ID for listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
