package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/studymate/internal/db"
)

// FailingExecUoW runs the work in a real transaction but makes the first
// write whose SQL contains Match return Err, so callers can assert that the
// earlier writes were rolled back. An empty Match fails the first write.
type FailingExecUoW struct {
	DB    *sql.DB
	Match string
	Err   error

	// Failed reports whether the injected error fired.
	Failed bool
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin test tx: %w", err)
	}
	if err := fn(ctx, &failingExec{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	uow *FailingExecUoW
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !f.uow.Failed && strings.Contains(query, f.uow.Match) {
		f.uow.Failed = true
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
