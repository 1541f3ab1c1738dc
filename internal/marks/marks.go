// Package marks persists bookmarked paths in a local sqlite database. Marks
// are grouped by the root directory they were made under.
package marks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotMarked = errors.New("not marked")

type Mark struct {
	Root      string    `json:"root"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens (creating if needed) the marks database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("marks: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("marks: mkdir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS marks (
			root TEXT NOT NULL,
			path TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			PRIMARY KEY(root, path)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_marks_created ON marks(root, created_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("marks: migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add marks path under root. Marking an already marked path is a no-op.
func (s *Store) Add(ctx context.Context, root, path string) error {
	root, path = filepath.Clean(root), filepath.Clean(path)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO marks(root, path, created_at_unixms) VALUES(?, ?, ?)`,
		root, path, s.now().UnixMilli())
	return err
}

func (s *Store) Remove(ctx context.Context, root, path string) error {
	root, path = filepath.Clean(root), filepath.Clean(path)
	res, err := s.db.ExecContext(ctx, `DELETE FROM marks WHERE root = ? AND path = ?`, root, path)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", path, ErrNotMarked)
	}
	return nil
}

// Toggle adds the mark if absent, otherwise removes it. It reports whether
// path is marked afterwards.
func (s *Store) Toggle(ctx context.Context, root, path string) (bool, error) {
	marked, err := s.Has(ctx, root, path)
	if err != nil {
		return false, err
	}
	if marked {
		return false, s.Remove(ctx, root, path)
	}
	return true, s.Add(ctx, root, path)
}

func (s *Store) Has(ctx context.Context, root, path string) (bool, error) {
	root, path = filepath.Clean(root), filepath.Clean(path)
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM marks WHERE root = ? AND path = ?`, root, path).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns the marks under root in the order they were made.
func (s *Store) List(ctx context.Context, root string) ([]Mark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT root, path, created_at_unixms FROM marks WHERE root = ? ORDER BY created_at_unixms, path`,
		filepath.Clean(root))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Mark
	for rows.Next() {
		var (
			m  Mark
			ms int64
		)
		if err := rows.Scan(&m.Root, &m.Path, &ms); err != nil {
			return nil, err
		}
		m.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// Rebase rewrites marks at or below oldPath to live under newPath, following
// a rename or move.
func (s *Store) Rebase(ctx context.Context, root, oldPath, newPath string) error {
	list, err := s.List(ctx, root)
	if err != nil {
		return err
	}
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, m := range list {
		rel, err := filepath.Rel(oldPath, m.Path)
		if err != nil || rel == ".." || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
			continue
		}
		moved := filepath.Join(newPath, rel)
		if _, err := tx.ExecContext(ctx,
			`UPDATE OR REPLACE marks SET path = ? WHERE root = ? AND path = ?`,
			moved, m.Root, m.Path); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Forget drops marks at or below path, following a delete.
func (s *Store) Forget(ctx context.Context, root, path string) error {
	path = filepath.Clean(path)
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM marks WHERE root = ? AND (path = ? OR path LIKE ? ESCAPE '\')`,
		filepath.Clean(root), path, escapeLike(path+string(filepath.Separator))+"%")
	return err
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
