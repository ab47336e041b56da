// Package history keeps a SQLite journal of link runs and recently used
// source folders. It is bookkeeping only: callers log and ignore its
// errors.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmunix/hardbound/internal/linker"
	"github.com/vmunix/hardbound/internal/migrations"
	_ "modernc.org/sqlite"
)

// Run is one recorded invocation.
type Run struct {
	ID        int64
	RunID     string // correlates the row with the run's log lines
	Command   string // "link" or "batch"
	Mode      string // "direct" or "red"
	Src       string
	Dst       string
	DryRun    bool
	Items     int
	Stats     linker.Stats
	Elapsed   time.Duration
	CreatedAt time.Time
}

// Store persists runs.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database. The schema must already be applied.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

// Migrate applies the schema.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run and fills in its ID and CreatedAt.
func (s *Store) Record(r *Run) error {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO runs (run_id, command, mode, src, dst, dry_run, items,
			linked, replaced, already, exists_, excluded, skipped, errors,
			elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Command, r.Mode, r.Src, r.Dst, r.DryRun, r.Items,
		r.Stats.Linked, r.Stats.Replaced, r.Stats.Already, r.Stats.Exists,
		r.Stats.Excluded, r.Stats.Skipped, r.Stats.Errors,
		r.Elapsed.Milliseconds(), now,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	r.ID = id
	r.CreatedAt = now
	return nil
}

// Recent returns up to limit runs, most recent first. A limit <= 0 returns all.
func (s *Store) Recent(limit int) ([]*Run, error) {
	query := `SELECT id, run_id, command, mode, src, dst, dry_run, items,
		linked, replaced, already, exists_, excluded, skipped, errors,
		elapsed_ms, created_at
		FROM runs ORDER BY id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Run
	for rows.Next() {
		r := &Run{}
		var elapsedMS int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.Command, &r.Mode, &r.Src, &r.Dst, &r.DryRun, &r.Items,
			&r.Stats.Linked, &r.Stats.Replaced, &r.Stats.Already, &r.Stats.Exists,
			&r.Stats.Excluded, &r.Stats.Skipped, &r.Stats.Errors,
			&elapsedMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return results, nil
}

// TouchSource marks a source folder as used now.
func (s *Store) TouchSource(path string) error {
	_, err := s.db.Exec(`
		INSERT INTO recent_sources (path, uses, last_used) VALUES (?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET uses = uses + 1, last_used = excluded.last_used`,
		path, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("touch source: %w", err)
	}
	return nil
}

// RecentSources returns up to limit source folders, most recently used first.
func (s *Store) RecentSources(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`SELECT path FROM recent_sources ORDER BY last_used DESC, path ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
