package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent, so it runs on
// each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS phase_logs (
		id TEXT PRIMARY KEY,
		phase TEXT NOT NULL CHECK(phase IN ('work','short_break','long_break')),
		planned_min INTEGER NOT NULL CHECK(planned_min > 0),
		work_session_number INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_phase_logs_completed ON phase_logs(completed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_phase_logs_phase ON phase_logs(phase)`,
}
