package history

import (
	"database/sql"
	"fmt"
)

// migrations is the ordered list of schema changes.
var migrations = []string{
	`CREATE TABLE runs (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT UNIQUE NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE endpoints (
		id        INTEGER PRIMARY KEY,
		run_id    TEXT NOT NULL REFERENCES runs(id),
		name      TEXT NOT NULL,
		verb      TEXT NOT NULL,
		path      TEXT NOT NULL,
		group_key TEXT NOT NULL,
		examples  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX endpoints_run_id ON endpoints(run_id)`,
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return fmt.Errorf("checking schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("initializing schema version: %w", err)
		}
	}

	var current int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("updating schema version to %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}
