package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/studymate/internal/db"
	"github.com/alexanderramin/studymate/internal/domain"
)

// SQLitePhaseLogRepo implements PhaseLogRepo using a SQLite database.
type SQLitePhaseLogRepo struct {
	db db.DBTX
}

func NewSQLitePhaseLogRepo(conn db.DBTX) *SQLitePhaseLogRepo {
	return &SQLitePhaseLogRepo{db: conn}
}

func (r *SQLitePhaseLogRepo) Create(ctx context.Context, l *domain.PhaseLog) error {
	if !domain.ValidPhases[string(l.Phase)] {
		return fmt.Errorf("inserting phase log: unknown phase %q", l.Phase)
	}
	query := `INSERT INTO phase_logs (id, phase, planned_min, work_session_number, completed_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		string(l.Phase),
		l.PlannedMinutes,
		l.WorkSessionNumber,
		formatTime(l.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting phase log: %w", err)
	}
	return nil
}

// ListSince returns logs completed at or after since, newest first.
func (r *SQLitePhaseLogRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.PhaseLog, error) {
	query := `SELECT id, phase, planned_min, work_session_number, completed_at
		FROM phase_logs WHERE completed_at >= ? ORDER BY completed_at DESC`
	rows, err := r.db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("listing phase logs: %w", err)
	}
	defer rows.Close()
	return scanPhaseLogs(rows)
}

// Summarize groups logs completed at or after since by phase.
func (r *SQLitePhaseLogRepo) Summarize(ctx context.Context, since time.Time) ([]domain.PhaseSummary, error) {
	query := `SELECT phase, COUNT(*), COALESCE(SUM(planned_min), 0)
		FROM phase_logs WHERE completed_at >= ?
		GROUP BY phase
		ORDER BY CASE phase WHEN 'work' THEN 0 WHEN 'short_break' THEN 1 ELSE 2 END`
	rows, err := r.db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("summarizing phase logs: %w", err)
	}
	defer rows.Close()

	var out []domain.PhaseSummary
	for rows.Next() {
		var s domain.PhaseSummary
		var phase string
		if err := rows.Scan(&phase, &s.Count, &s.TotalMinutes); err != nil {
			return nil, fmt.Errorf("scanning phase summary: %w", err)
		}
		s.Phase = domain.Phase(phase)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phase summary: %w", err)
	}
	return out, nil
}

func (r *SQLitePhaseLogRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM phase_logs`); err != nil {
		return fmt.Errorf("deleting phase logs: %w", err)
	}
	return nil
}

func scanPhaseLogs(rows *sql.Rows) ([]*domain.PhaseLog, error) {
	var logs []*domain.PhaseLog
	for rows.Next() {
		var l domain.PhaseLog
		var phase, completedAt string
		if err := rows.Scan(&l.ID, &phase, &l.PlannedMinutes, &l.WorkSessionNumber, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning phase log row: %w", err)
		}
		l.Phase = domain.Phase(phase)

		t, err := parseTime(completedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at: %w", err)
		}
		l.CompletedAt = t
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phase logs: %w", err)
	}
	return logs, nil
}
