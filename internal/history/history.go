// Package history records generation runs in a SQLite database so the
// endpoints of consecutive runs can be compared.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alexbrand/apidocs/internal/apidoc"
)

// ErrNoRuns is returned when the store holds no recorded run.
var ErrNoRuns = errors.New("no runs recorded")

// Run is one recorded generation.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Endpoints int       `json:"endpoints"`
}

// Diff lists endpoint names added and removed between two runs. From is
// nil when To is the only recorded run.
type Diff struct {
	From    *Run     `json:"from,omitempty"`
	To      *Run     `json:"to"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Store is a run history backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the history database at path and migrates it.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a new run holding endpoints.
func (s *Store) Record(ctx context.Context, endpoints []*apidoc.Endpoint) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC().Truncate(time.Second),
		Endpoints: len(endpoints),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, created_at) VALUES (?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	for _, e := range endpoints {
		groupKey := ""
		if e.Group != nil {
			groupKey = e.Group.Key
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO endpoints (run_id, name, verb, path, group_key, examples) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, e.Name(), e.Verb, e.Path, groupKey, len(e.Examples)); err != nil {
			return nil, fmt.Errorf("inserting endpoint %s: %w", e.Name(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// Runs returns up to limit runs, newest first. A limit of 0 returns all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT r.id, r.created_at, COUNT(e.id)
		FROM runs r LEFT JOIN endpoints e ON e.run_id = r.id
		GROUP BY r.seq ORDER BY r.seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			created string
		)
		if err := rows.Scan(&run.ID, &created, &run.Endpoints); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("run %s has invalid timestamp %q: %w", run.ID, created, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// EndpointNames returns the endpoint names recorded for a run, sorted.
func (s *Store) EndpointNames(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM endpoints WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing endpoints of run %s: %w", runID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Diff compares the latest run with the one before it.
func (s *Store) Diff(ctx context.Context) (*Diff, error) {
	runs, err := s.Runs(ctx, 2)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}

	diff := &Diff{To: &runs[0], Added: []string{}, Removed: []string{}}
	current, err := s.EndpointNames(ctx, runs[0].ID)
	if err != nil {
		return nil, err
	}

	var previous []string
	if len(runs) > 1 {
		diff.From = &runs[1]
		if previous, err = s.EndpointNames(ctx, runs[1].ID); err != nil {
			return nil, err
		}
	}

	diff.Added = subtract(current, previous)
	diff.Removed = subtract(previous, current)
	return diff, nil
}

// subtract returns the sorted names in a that are not in b.
func subtract(a, b []string) []string {
	seen := make(map[string]struct{}, len(b))
	for _, name := range b {
		seen[name] = struct{}{}
	}
	out := []string{}
	for _, name := range a {
		if _, ok := seen[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
