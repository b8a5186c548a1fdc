package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/redactor/internal/model"
)

// DBFileName is the SQLite file created inside the history directory.
const DBFileName = "history.db"

// HistoryDB provides SQLite-based storage for redaction runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	dsn := dbPath + "?mode=rwc"
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		categories TEXT NOT NULL,
		concept_phrases INTEGER NOT NULL DEFAULT 0,
		documents INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		names INTEGER NOT NULL DEFAULT 0,
		dates INTEGER NOT NULL DEFAULT 0,
		phones INTEGER NOT NULL DEFAULT 0,
		addresses INTEGER NOT NULL DEFAULT 0,
		concepts INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Documents never store source text, only its digest.
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		output_path TEXT,
		source_hash TEXT,
		written INTEGER NOT NULL DEFAULT 0,
		names INTEGER NOT NULL DEFAULT 0,
		dates INTEGER NOT NULL DEFAULT 0,
		phones INTEGER NOT NULL DEFAULT 0,
		addresses INTEGER NOT NULL DEFAULT 0,
		concepts INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
	CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(source_hash);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored run.
type RunRecord struct {
	ID         string         `json:"id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Categories []string       `json:"categories"`
	Concepts   int            `json:"concepts"`
	Documents  int            `json:"documents"`
	Failed     int            `json:"failed"`
	Counts     map[string]int `json:"counts"`
}

// DocumentRecord is a stored document result.
type DocumentRecord struct {
	ID         int64          `json:"id"`
	RunID      string         `json:"run_id"`
	Path       string         `json:"path"`
	OutputPath string         `json:"output_path,omitempty"`
	SourceHash string         `json:"source_hash,omitempty"`
	Written    bool           `json:"written"`
	Counts     map[string]int `json:"counts"`
	Duration   time.Duration  `json:"duration"`
	Error      string         `json:"error,omitempty"`
}

// SaveRun stores run and its documents in a single transaction.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *model.Run, docs []*model.DocumentResult) (err error) {
	if run == nil {
		return ErrNilRun
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	c := run.Counters
	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, finished_at, categories, concept_phrases, documents, failed,
		names, dates, phones, addresses, concepts)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		formatTimestamp(run.StartedAt),
		formatTimestamp(run.FinishedAt),
		strings.Join(run.Categories, ","),
		run.Concepts,
		run.Documents,
		run.Failed,
		c.Get(model.CategoryNames),
		c.Get(model.CategoryDates),
		c.Get(model.CategoryPhones),
		c.Get(model.CategoryAddresses),
		c.Get(model.CategoryConcepts),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO documents (run_id, path, output_path, source_hash, written,
		names, dates, phones, addresses, concepts, duration_ms, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		dc := doc.Counters
		if _, err = stmt.ExecContext(ctx,
			run.ID,
			doc.Path,
			doc.OutputPath,
			doc.SourceHash,
			doc.Written,
			dc.Get(model.CategoryNames),
			dc.Get(model.CategoryDates),
			dc.Get(model.CategoryPhones),
			dc.Get(model.CategoryAddresses),
			dc.Get(model.CategoryConcepts),
			doc.Duration.Milliseconds(),
			doc.ErrorMessage,
		); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.Path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, categories, concept_phrases, documents, failed,
	names, dates, phones, addresses, concepts`

// ListRuns returns the most recent runs, newest first.
// A limit of zero or less returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	results := make([]RunRecord, 0)
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *rec)
	}
	return results, rows.Err()
}

// GetRun returns the run whose ID equals or starts with id.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if id == "" {
		return nil, ErrRunNotFound
	}

	rows, err := hdb.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR substr(id, 1, ?) = ? LIMIT 2`,
		id, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var found []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if rec.ID == id {
			return rec, nil
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, id)
	}
}

const documentColumns = `d.id, d.run_id, d.path, d.output_path, d.source_hash, d.written,
	d.names, d.dates, d.phones, d.addresses, d.concepts, d.duration_ms, d.error`

// GetRunDocuments returns the documents of a run in insertion order.
func (hdb *HistoryDB) GetRunDocuments(ctx context.Context, runID string) ([]DocumentRecord, error) {
	return hdb.queryDocuments(ctx,
		`SELECT `+documentColumns+` FROM documents d WHERE d.run_id = ? ORDER BY d.id`, runID)
}

// FindDocumentsByHash returns every stored document whose source had the
// given SHA3-256 digest, newest run first.
func (hdb *HistoryDB) FindDocumentsByHash(ctx context.Context, hash string) ([]DocumentRecord, error) {
	return hdb.queryDocuments(ctx, `SELECT `+documentColumns+`
	FROM documents d JOIN runs r ON r.id = d.run_id
	WHERE d.source_hash = ?
	ORDER BY r.started_at DESC, d.id`, hash)
}

func (hdb *HistoryDB) queryDocuments(ctx context.Context, query string, args ...any) ([]DocumentRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	results := make([]DocumentRecord, 0)
	for rows.Next() {
		var (
			rec                             DocumentRecord
			outputPath, sourceHash, errText sql.NullString
			names, dates, phones            int
			addresses, concepts             int
			durationMS                      int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Path, &outputPath, &sourceHash, &rec.Written,
			&names, &dates, &phones, &addresses, &concepts, &durationMS, &errText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		rec.OutputPath = outputPath.String
		rec.SourceHash = sourceHash.String
		rec.Error = errText.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.Counts = countsMap(names, dates, phones, addresses, concepts)
		results = append(results, rec)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		rec                         RunRecord
		startedAt, finishedAt, cats string
		names, dates, phones        int
		addresses, concepts         int
	)
	if err := row.Scan(
		&rec.ID, &startedAt, &finishedAt, &cats, &rec.Concepts, &rec.Documents, &rec.Failed,
		&names, &dates, &phones, &addresses, &concepts,
	); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	rec.StartedAt = parseTimestamp(startedAt)
	rec.FinishedAt = parseTimestamp(finishedAt)
	rec.Categories = []string{}
	if cats != "" {
		rec.Categories = strings.Split(cats, ",")
	}
	rec.Counts = countsMap(names, dates, phones, addresses, concepts)
	return &rec, nil
}

func countsMap(names, dates, phones, addresses, concepts int) map[string]int {
	return map[string]int{
		model.CategoryNames.String():     names,
		model.CategoryDates.String():     dates,
		model.CategoryPhones.String():    phones,
		model.CategoryAddresses.String(): addresses,
		model.CategoryConcepts.String():  concepts,
	}
}

// storedTimestampFormat sorts lexically in chronological order.
const storedTimestampFormat = "2006-01-02 15:04:05.000000000"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimestampFormat)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimestampFormat,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, it returns the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
