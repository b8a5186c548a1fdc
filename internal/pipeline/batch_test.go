package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/redactor/internal/model"
	"github.com/nao1215/redactor/internal/redact"
)

func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(5))
		if bp.concurrency != 5 {
			t.Errorf("expected concurrency 5, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency < 1 {
			t.Errorf("expected positive default concurrency, got %d", bp.concurrency)
		}
	})
}

func TestBatchProcessor_ProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("redacts every file and merges counters", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		paths := []string{
			writeFile(t, in, "a.txt", "Call 123-456-7890 now."),
			writeFile(t, in, "b.txt", "Call 555-000-1111 or 555-000-2222."),
			writeFile(t, in, "c.txt", "Nothing to see."),
		}
		active := model.NewCategorySet(model.CategoryPhones)
		agg := redact.NewStandardAggregator(redact.Recognizers{}, nil, redact.WithLogger(quietLogger()))

		var seen []string
		bp := NewBatchProcessor(func() *Pipeline {
			return NewDocumentPipeline(DocumentOptions{
				Aggregator: agg,
				Active:     active,
				OutputDir:  out,
				Logger:     quietLogger(),
			})
		},
			WithConcurrency(2),
			WithBatchLogger(quietLogger()),
			WithDocumentCallback(func(r *model.DocumentResult) { seen = append(seen, r.Path) }),
		)

		run := model.NewRun(active, 0)
		results, err := bp.ProcessBatch(context.Background(), run, paths)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != 3 || len(seen) != 3 {
			t.Fatalf("expected 3 results and callbacks, got %d and %d", len(results), len(seen))
		}
		for i, r := range results {
			if r.Path != paths[i] {
				t.Errorf("result %d out of order: %s", i, r.Path)
			}
		}
		if run.Documents != 3 || run.Failed != 0 {
			t.Errorf("expected 3 documents and no failures, got %d/%d", run.Documents, run.Failed)
		}
		if n := run.Counters.Get(model.CategoryPhones); n != 3 {
			t.Errorf("expected 3 phones in total, got %d", n)
		}
		if run.FinishedAt.IsZero() {
			t.Error("expected FinishedAt to be set")
		}

		data, err := os.ReadFile(filepath.Join(out, "a.txt.censored"))
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}
		if string(data) != "Call ████████████ now." {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("failure does not stop other files", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		paths := []string{
			filepath.Join(in, "missing.txt"),
			writeFile(t, in, "ok.txt", "Call 123-456-7890."),
		}
		active := model.NewCategorySet(model.CategoryPhones)
		agg := redact.NewStandardAggregator(redact.Recognizers{}, nil, redact.WithLogger(quietLogger()))

		bp := NewBatchProcessor(func() *Pipeline {
			return NewDocumentPipeline(DocumentOptions{Aggregator: agg, Active: active, OutputDir: out, Logger: quietLogger()})
		}, WithBatchLogger(quietLogger()))

		run := model.NewRun(active, 0)
		results, err := bp.ProcessBatch(context.Background(), run, paths)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !errors.Is(results[0].Error, ErrReadInput) {
			t.Errorf("expected read error for missing file, got %v", results[0].Error)
		}
		if !results[1].Written {
			t.Error("expected second file to be written")
		}
		if run.Failed != 1 || run.Documents != 2 {
			t.Errorf("expected 1 failure of 2 documents, got %d of %d", run.Failed, run.Documents)
		}
		if n := run.Counters.Get(model.CategoryPhones); n != 1 {
			t.Errorf("expected only the readable file to be counted, got %d", n)
		}
	})

	t.Run("detector failure writes nothing", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		path := writeFile(t, in, "doc.txt", "Jane Smith")

		agg := redact.NewAggregator(redact.WithLogger(quietLogger()))
		agg.Register(failingDetector{})

		bp := NewBatchProcessor(func() *Pipeline {
			return NewDocumentPipeline(DocumentOptions{Aggregator: agg, Active: allActive(), OutputDir: out, Logger: quietLogger()})
		}, WithBatchLogger(quietLogger()))

		results, err := bp.ProcessBatch(context.Background(), model.NewRun(allActive(), 0), []string{path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !errors.Is(results[0].Error, redact.ErrDetector) {
			t.Errorf("expected detector error, got %v", results[0].Error)
		}
		if _, err := os.Stat(filepath.Join(out, "doc.txt.censored")); !os.IsNotExist(err) {
			t.Errorf("expected no output file, got %v", err)
		}
	})

	t.Run("write failure still counts detections", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		path := writeFile(t, in, "doc.txt", "Call 123-456-7890.")
		// A regular file where the output directory should be.
		out := writeFile(t, t.TempDir(), "not-a-dir", "")
		active := model.NewCategorySet(model.CategoryPhones)
		agg := redact.NewStandardAggregator(redact.Recognizers{}, nil, redact.WithLogger(quietLogger()))

		bp := NewBatchProcessor(func() *Pipeline {
			return NewDocumentPipeline(DocumentOptions{Aggregator: agg, Active: active, OutputDir: out, Logger: quietLogger()})
		}, WithBatchLogger(quietLogger()))

		run := model.NewRun(active, 0)
		results, err := bp.ProcessBatch(context.Background(), run, []string{path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !errors.Is(results[0].Error, ErrWriteOutput) {
			t.Fatalf("expected write error, got %v", results[0].Error)
		}
		if run.Failed != 1 {
			t.Errorf("expected 1 failure, got %d", run.Failed)
		}
		if n := run.Counters.Get(model.CategoryPhones); n != 1 {
			t.Errorf("expected phones=1, got %d", n)
		}
	})

	t.Run("detector failure counts nothing", func(t *testing.T) {
		t.Parallel()

		in, out := t.TempDir(), t.TempDir()
		path := writeFile(t, in, "doc.txt", "Jane Smith called 123-456-7890.")
		agg := redact.NewStandardAggregator(redact.Recognizers{}, nil, redact.WithLogger(quietLogger()))
		agg.Register(failingDetector{})

		bp := NewBatchProcessor(func() *Pipeline {
			return NewDocumentPipeline(DocumentOptions{Aggregator: agg, Active: allActive(), OutputDir: out, Logger: quietLogger()})
		}, WithBatchLogger(quietLogger()))

		run := model.NewRun(allActive(), 0)
		if _, err := bp.ProcessBatch(context.Background(), run, []string{path}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Failed != 1 || run.Counters.Total() != 0 {
			t.Errorf("expected one failure and no counts, got %d failed and %s", run.Failed, run.Counters)
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		step := funcStep{name: "slow", fn: func(context.Context, *model.DocumentResult) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			return nil
		}}

		bp := NewBatchProcessor(func() *Pipeline {
			p := New(WithLogger(quietLogger()))
			p.AddStep(step)
			return p
		}, WithConcurrency(2), WithBatchLogger(quietLogger()))

		paths := []string{"a", "b", "c", "d", "e", "f"}
		if _, err := bp.ProcessBatch(context.Background(), model.NewRun(allActive(), 0), paths); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent documents, got %d", peak.Load())
		}
	})

	t.Run("cancelled context starts nothing", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline { return New(WithLogger(quietLogger())) }, WithBatchLogger(quietLogger()))
		run := model.NewRun(allActive(), 0)
		results, err := bp.ProcessBatch(ctx, run, []string{"a", "b"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if !reflect.DeepEqual(results, []*model.DocumentResult{nil, nil}) {
			t.Errorf("expected no results, got %v", results)
		}
		if run.Documents != 0 {
			t.Errorf("expected no documents recorded, got %d", run.Documents)
		}
	})
}

// funcStep is a stateless Step safe to share between workers.
type funcStep struct {
	name string
	fn   func(ctx context.Context, result *model.DocumentResult) error
}

func (s funcStep) Name() string { return s.name }

func (s funcStep) Do(ctx context.Context, result *model.DocumentResult) error {
	return s.fn(ctx, result)
}

type failingDetector struct{}

func (failingDetector) Name() string { return "failing" }

func (failingDetector) Detect(context.Context, *model.Document, model.CategorySet) ([]model.Detection, error) {
	return nil, errors.New("sidecar unavailable")
}

func TestExpandInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "a")
	b := writeFile(t, dir, "b.txt", "b")
	writeFile(t, dir, "c.md", "c")

	var empty []string
	got := ExpandInputs([]string{
		filepath.Join(dir, "*.txt"),
		filepath.Join(dir, "a.*"),
		filepath.Join(dir, "*.csv"),
	}, func(p string) { empty = append(empty, p) })

	if !reflect.DeepEqual(got, []string{a, b}) {
		t.Errorf("expected %v, got %v", []string{a, b}, got)
	}
	if !reflect.DeepEqual(empty, []string{filepath.Join(dir, "*.csv")}) {
		t.Errorf("expected one empty pattern, got %v", empty)
	}
}

func TestExpandInputs_MalformedPatternIsSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "good")

	var empty []string
	got := ExpandInputs([]string{"[", good}, func(p string) { empty = append(empty, p) })

	if !reflect.DeepEqual(got, []string{good}) {
		t.Errorf("expected %v, got %v", []string{good}, got)
	}
	if !reflect.DeepEqual(empty, []string{"["}) {
		t.Errorf("expected malformed pattern to be reported, got %v", empty)
	}
}
