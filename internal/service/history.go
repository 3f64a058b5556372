package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/studymate/internal/db"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/events"
	"github.com/alexanderramin/studymate/internal/repository"
	"github.com/alexanderramin/studymate/internal/settings"
)

// History lists the phases completed since the given time.
func (c *Companion) History(ctx context.Context, since time.Time) (*HistoryReport, error) {
	if c.phaseLogs == nil {
		return &HistoryReport{Since: since}, nil
	}
	logs, err := c.phaseLogs.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	summaries, err := c.phaseLogs.Summarize(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("summarizing history: %w", err)
	}
	return &HistoryReport{Since: since, Logs: logs, Summaries: summaries}, nil
}

// ResetAll restores default settings and clears the phase history in one
// transaction, then reloads the countdown.
func (c *Companion) ResetAll(ctx context.Context) (err error) {
	done := c.observe(ctx, "reset-all", nil)
	defer func() { done(err) }()

	if c.uow == nil {
		return errors.New("reset requires a database")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	err = c.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := settings.NewStore(repository.NewSQLiteKVRepo(tx)).Reset(ctx); err != nil {
			return err
		}
		return repository.NewSQLitePhaseLogRepo(tx).DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("resetting: %w", err)
	}

	defaults := domain.DefaultSettings()
	c.mu.Lock()
	c.settings = defaults.Clone()
	c.mu.Unlock()

	if _, err := c.runner.ApplySettings(func(e *engine.Engine) ([]engine.Effect, error) {
		return e.ApplySettings(defaults.Durations())
	}); err != nil {
		return err
	}
	c.runner.Do((*engine.Engine).Restart)
	c.syncAmbient(c.runner.State())
	c.publish(events.Event{Type: events.SettingsUpdated, Settings: &defaults})
	return nil
}
