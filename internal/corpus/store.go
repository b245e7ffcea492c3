// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists references and answers the retrieval queries of
// the survey pipeline. References live in a SQLite database with an FTS5
// index over title and content; ranking is bm25.
//
// Build with -tags sqlite_fts5 so go-sqlite3 compiles the FTS5 module.
package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/autosurvey/pkg/types"
)

const (
	sourcesDir = "sources"
	indexDir   = "index"
	dbFile     = "corpus.db"
)

// ErrNotFound reports a lookup that matched no reference.
var ErrNotFound = errors.New("no matching reference")

// Store manages the corpus SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	log        *zap.Logger
}

// NewStore opens or creates the corpus database at dir/index/corpus.db and
// creates the schema if it does not exist. A nil logger discards output.
func NewStore(cfg types.CorpusConfig, log *zap.Logger) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("corpus directory is required")
	}
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		log:        log,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS refs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			source TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_source ON refs(source)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			source TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='refs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE refs_fts USING fts5(title, content, content=refs, content_rowid=rowid)`,
			`CREATE TRIGGER refs_ai AFTER INSERT ON refs BEGIN
				INSERT INTO refs_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
			END`,
			`CREATE TRIGGER refs_ad AFTER DELETE ON refs BEGIN
				INSERT INTO refs_fts(refs_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
			END`,
			`CREATE TRIGGER refs_au AFTER UPDATE ON refs BEGIN
				INSERT INTO refs_fts(refs_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
				INSERT INTO refs_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Count returns the number of stored references.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM refs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting references: %w", err)
	}
	return n, nil
}

// Add inserts or replaces references attributed to source. Existing
// references of the same source are removed first.
func (s *Store) Add(ctx context.Context, source string, refs []types.Reference) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRefs(ctx, tx, source, refs); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRefs(ctx context.Context, tx *sql.Tx, source string, refs []types.Reference) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM refs WHERE source = ?`, source); err != nil {
		return fmt.Errorf("deleting old references: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO refs (id, title, content, source) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, content=excluded.content, source=excluded.source`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range refs {
		if r.ID == "" || r.Title == "" {
			return fmt.Errorf("reference %q: id and title are required", r.ID)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Title, r.Content, source); err != nil {
			return fmt.Errorf("inserting reference %s: %w", r.ID, err)
		}
	}
	return nil
}

// IngestSummary holds counts from a corpus ingest run.
type IngestSummary struct {
	Indexed    int
	Updated    int
	Skipped    int
	Failed     int
	References int
}

// Total returns the number of source files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads reference files from dir/sources/ and populates the
// database. YAML files hold a list of {id, title, content}; Markdown files
// hold one reference each, titled by their first "# " heading. Files whose
// modification time is unchanged since the last ingest are skipped.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	srcDir := filepath.Join(s.dir, sourcesDir)
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading sources directory %s: %w", srcDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isSourceFile(name) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE source = ?`, name,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		refs, err := readSource(filepath.Join(srcDir, name))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestSource(ctx, name, refs, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		summary.References += len(refs)
		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d references)\n", name, len(refs))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d references)\n", name, len(refs))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx); err != nil {
			s.log.Warn("export.yaml write failed", zap.Error(err))
		}
	}

	return summary, nil
}

func (s *Store) ingestSource(ctx context.Context, source string, refs []types.Reference, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRefs(ctx, tx, source, refs); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (source, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		source, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}

func isSourceFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".md":
		return true
	}
	return false
}

// readSource parses one source file into references.
func readSource(path string) ([]types.Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) == ".md" {
		stem := strings.TrimSuffix(filepath.Base(path), ".md")
		return []types.Reference{markdownReference(stem, string(data))}, nil
	}

	var refs []types.Reference
	if err := yaml.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return refs, nil
}

// markdownReference builds a reference from a Markdown document. The first
// "# " heading is the title; without one the file stem is used.
func markdownReference(stem, doc string) types.Reference {
	ref := types.Reference{ID: stem, Title: stem, Content: strings.TrimSpace(doc)}
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			ref.Title = strings.TrimSpace(title)
			ref.Content = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			break
		}
	}
	return ref
}
