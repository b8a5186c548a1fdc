package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/nao1215/redactor/internal/database"
	"github.com/nao1215/redactor/internal/model"
)

// seedHistory stores two runs and returns the history directory and run IDs.
func seedHistory(t *testing.T) (string, *model.Run, *model.Run) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	newRun := func(started time.Time, names int) *model.Run {
		run := model.NewRun(model.NewCategorySet(model.CategoryNames), 0)
		run.StartedAt = started
		run.FinishedAt = started.Add(time.Second)

		doc := model.NewDocumentResult("in/report.txt")
		doc.OutputPath = "out/report.txt.censored"
		doc.SourceHash = strings.Repeat("ab", 32)
		doc.Written = true
		doc.Counters.Add(model.CategoryNames, names)
		run.Record(doc)

		if err := db.SaveRun(context.Background(), run, []*model.DocumentResult{doc}); err != nil {
			t.Fatal(err)
		}
		return run
	}

	first := newRun(base, 2)
	second := newRun(base.Add(time.Hour), 5)
	return dir, first, second
}

func runHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"history"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	// Subtests share one database file and run sequentially.
	dir, first, second := seedHistory(t)

	t.Run("lists runs newest first", func(t *testing.T) {
		out, err := runHistory(t, "--history-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Recorded runs (2)") {
			t.Errorf("unexpected output %q", out)
		}
		if strings.Index(out, shortID(second.ID)) > strings.Index(out, shortID(first.ID)) {
			t.Error("expected newest run first")
		}
	})

	t.Run("limit", func(t *testing.T) {
		out, err := runHistory(t, "--history-dir", dir, "-n", "1")
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(out, shortID(first.ID)) {
			t.Error("expected only the newest run")
		}
	})

	t.Run("shows one run by prefix", func(t *testing.T) {
		out, err := runHistory(t, "--history-dir", dir, first.ID[:8])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Run " + first.ID, "in/report.txt", "names=2", "status:   ok"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output %q", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := runHistory(t, "--history-dir", dir, "--json")
		if err != nil {
			t.Fatal(err)
		}
		var runs []database.RunRecord
		if err := json.Unmarshal([]byte(out), &runs); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(runs) != 2 || runs[0].ID != second.ID {
			t.Errorf("unexpected runs %+v", runs)
		}
	})

	t.Run("compare", func(t *testing.T) {
		out, err := runHistory(t, "--history-dir", dir, "--compare", second.ID, first.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Previous run: "+shortID(first.ID)) {
			t.Errorf("expected older run as previous, got %q", out)
		}
		if !strings.Contains(out, "+3") {
			t.Errorf("expected names delta +3, got %q", out)
		}
	})

	t.Run("hash", func(t *testing.T) {
		out, err := runHistory(t, "--history-dir", dir, "--hash", strings.Repeat("AB", 32))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "(2):") {
			t.Errorf("expected both documents, got %q", out)
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		if _, err := runHistory(t, "--history-dir", dir, "zzzz"); err == nil {
			t.Error("expected error for unknown run")
		}
	})

	t.Run("argument validation", func(t *testing.T) {
		if _, err := runHistory(t, "--history-dir", dir, "--compare", first.ID); err == nil {
			t.Error("expected error for --compare with one ID")
		}
		if _, err := runHistory(t, "--history-dir", dir, "--hash", "ab", first.ID); err == nil {
			t.Error("expected error for --hash with a run ID")
		}
	})
}

func TestHistoryCmd_NoDatabase(t *testing.T) {
	t.Parallel()

	out, err := runHistory(t, "--history-dir", filepath.Join(t.TempDir(), "none"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No runs recorded yet.") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta int
		want  string
	}{
		{delta: 3, want: "+3"},
		{delta: 0, want: "0"},
		{delta: -2, want: "-2"},
	}
	for _, tt := range tests {
		if got := formatDelta(tt.delta); got != tt.want {
			t.Errorf("formatDelta(%d) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}
