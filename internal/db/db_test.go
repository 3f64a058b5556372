package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"kv_store", "phase_logs"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_PhaseCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO phase_logs (id, phase, planned_min, completed_at) VALUES ('x', 'nap', 5, 'now')`)
	assert.Error(t, err)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "studymate.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestWithinTx_CommitAndRollback(t *testing.T) {
	database := openTestDB(t)
	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	insert := func(key string) func(ctx context.Context, tx DBTX) error {
		return func(ctx context.Context, tx DBTX) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO kv_store (key, value, updated_at) VALUES (?, '{}', 'now')`, key)
			return err
		}
	}

	require.NoError(t, uow.WithinTx(ctx, insert("committed")))

	boom := errors.New("boom")
	err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		if err := insert("rolled-back")(ctx, tx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
			_ = insert("panicked")(ctx, tx)
			panic("boom")
		})
	})

	var keys []string
	rows, err := database.Query(`SELECT key FROM kv_store ORDER BY key`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		keys = append(keys, k)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"committed"}, keys)
}
