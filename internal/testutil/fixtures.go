package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/studymate/internal/domain"
)

// PhaseLog options
type PhaseLogOption func(*domain.PhaseLog)

func WithCompletedAt(t time.Time) PhaseLogOption {
	return func(l *domain.PhaseLog) {
		l.CompletedAt = t
	}
}

func WithWorkSessionNumber(n int) PhaseLogOption {
	return func(l *domain.PhaseLog) {
		l.WorkSessionNumber = n
	}
}

func NewTestPhaseLog(phase domain.Phase, minutes int, opts ...PhaseLogOption) *domain.PhaseLog {
	l := &domain.PhaseLog{
		ID:             uuid.New().String(),
		Phase:          phase,
		PlannedMinutes: minutes,
		CompletedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Settings options
type SettingsOption func(*domain.StudySettings)

func WithDurations(work, short, long int) SettingsOption {
	return func(s *domain.StudySettings) {
		s.WorkDuration = work
		s.ShortBreakDuration = short
		s.LongBreakDuration = long
	}
}

func WithVoice(enabled bool) SettingsOption {
	return func(s *domain.StudySettings) {
		s.VoiceEnabled = enabled
	}
}

func WithFlashcards(cards ...domain.Flashcard) SettingsOption {
	return func(s *domain.StudySettings) {
		s.Flashcards = cards
	}
}

func WithVibe(id string) SettingsOption {
	return func(s *domain.StudySettings) {
		s.StudyVibe = id
	}
}

func NewTestSettings(opts ...SettingsOption) domain.StudySettings {
	s := domain.DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
