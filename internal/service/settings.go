package service

import (
	"context"
	"strings"

	"github.com/alexanderramin/studymate/internal/coach"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/events"
)

// Settings returns a copy of the current settings.
func (c *Companion) Settings() domain.StudySettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Clone()
}

// ReplaceSettings swaps in a whole settings blob, e.g. from an import.
func (c *Companion) ReplaceSettings(ctx context.Context, s domain.StudySettings) (domain.StudySettings, error) {
	return c.mutate(ctx, "replace-settings", func(cur *domain.StudySettings) error {
		*cur = s.Clone()
		if cur.Flashcards == nil {
			cur.Flashcards = []domain.Flashcard{}
		}
		return nil
	})
}

// UpdateDurations changes the phase lengths. While paused the countdown is
// reloaded; a running countdown keeps going and the new lengths apply from
// the next phase.
func (c *Companion) UpdateDurations(ctx context.Context, d domain.Durations) (domain.StudySettings, error) {
	return c.mutate(ctx, "update-durations", func(cur *domain.StudySettings) error {
		if err := d.Validate(); err != nil {
			return err
		}
		cur.WorkDuration = d.WorkMin
		cur.ShortBreakDuration = d.ShortBreakMin
		cur.LongBreakDuration = d.LongBreakMin
		return nil
	})
}

func (c *Companion) SetVoiceEnabled(ctx context.Context, enabled bool) (domain.StudySettings, error) {
	s, err := c.mutate(ctx, "set-voice", func(cur *domain.StudySettings) error {
		cur.VoiceEnabled = enabled
		return nil
	})
	if err != nil {
		return s, err
	}
	if !enabled {
		c.voice.Cancel()
	} else if !c.voice.Supported() {
		c.appendMessage(newMessage(domain.RoleAssistant, domain.KindNotice, coach.VoiceUnsupported, nil))
	}
	return s, nil
}

func (c *Companion) UpdateVoiceSettings(ctx context.Context, v domain.VoiceSettings) (domain.StudySettings, error) {
	return c.mutate(ctx, "update-voice-settings", func(cur *domain.StudySettings) error {
		if err := v.Validate(); err != nil {
			return err
		}
		cur.VoiceSettings = v
		return nil
	})
}

// SelectVibe applies a built-in vibe, which also sets the background audio.
func (c *Companion) SelectVibe(ctx context.Context, vibeID string) (domain.StudySettings, error) {
	return c.mutate(ctx, "select-vibe", func(cur *domain.StudySettings) error {
		vibe, err := domain.LookupVibe(vibeID)
		if err != nil {
			return err
		}
		url := vibe.AudioURL
		cur.StudyVibe = vibe.ID
		cur.AudioURL = &url
		return nil
	})
}

// SetBackgroundAudio sets a custom background track. An empty url clears it.
func (c *Companion) SetBackgroundAudio(ctx context.Context, url string) (domain.StudySettings, error) {
	return c.mutate(ctx, "set-background-audio", func(cur *domain.StudySettings) error {
		url = strings.TrimSpace(url)
		if url == "" {
			cur.AudioURL = nil
			return nil
		}
		cur.AudioURL = &url
		return nil
	})
}

// mutate applies fn to a copy of the settings, validates and persists the
// result, then hands the durations to the engine.
func (c *Companion) mutate(ctx context.Context, name string, fn func(cur *domain.StudySettings) error) (out domain.StudySettings, err error) {
	done := c.observe(ctx, name, nil)
	defer func() { done(err) }()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	next := c.Settings()
	if err := fn(&next); err != nil {
		return c.Settings(), err
	}
	if err := next.Validate(); err != nil {
		return c.Settings(), err
	}
	if err := c.store.Save(ctx, next); err != nil {
		return c.Settings(), err
	}

	c.mu.Lock()
	c.settings = next.Clone()
	c.mu.Unlock()

	if _, err := c.runner.ApplySettings(func(e *engine.Engine) ([]engine.Effect, error) {
		return e.ApplySettings(next.Durations())
	}); err != nil {
		return next, err
	}
	c.syncAmbient(c.runner.State())

	published := next.Clone()
	c.publish(events.Event{Type: events.SettingsUpdated, Settings: &published})
	return next, nil
}
