package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/studymate/internal/backend"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/events"
)

type SessionService interface {
	Snapshot() engine.State
	Start(ctx context.Context) engine.State
	Pause(ctx context.Context) engine.State
	Toggle(ctx context.Context) engine.State
	Restart(ctx context.Context) engine.State
}

type ChatService interface {
	Send(ctx context.Context, text string) (domain.ChatMessage, error)
	Messages() []domain.ChatMessage
}

type SettingsService interface {
	Settings() domain.StudySettings
	ReplaceSettings(ctx context.Context, s domain.StudySettings) (domain.StudySettings, error)
	UpdateDurations(ctx context.Context, d domain.Durations) (domain.StudySettings, error)
	SetVoiceEnabled(ctx context.Context, enabled bool) (domain.StudySettings, error)
	UpdateVoiceSettings(ctx context.Context, v domain.VoiceSettings) (domain.StudySettings, error)
	SelectVibe(ctx context.Context, vibeID string) (domain.StudySettings, error)
	SetBackgroundAudio(ctx context.Context, url string) (domain.StudySettings, error)
}

type FlashcardService interface {
	Flashcards() []domain.Flashcard
	AddFlashcard(ctx context.Context, front, back string) (domain.Flashcard, error)
	RemoveFlashcard(ctx context.Context, id string) error
	ImportGeneratedFlashcards(ctx context.Context, cards []backend.GeneratedCard) ([]domain.Flashcard, error)
	GenerateFlashcards(ctx context.Context, filename string, content io.Reader, count int) ([]domain.Flashcard, error)
	GenerateFlashcardsFromText(ctx context.Context, text string, count int) ([]domain.Flashcard, error)
}

type HistoryService interface {
	History(ctx context.Context, since time.Time) (*HistoryReport, error)
	ResetAll(ctx context.Context) error
}

// Subscriber is implemented by the event bus for surfaces that stream
// companion events.
type Subscriber interface {
	Subscribe(ctx context.Context, buffer int) (<-chan events.Event, error)
}

// Publisher is the outbound half of the event bus.
type Publisher interface {
	Publish(ev events.Event) error
}

// HistoryReport lists completed phases newest first with per-phase totals.
type HistoryReport struct {
	Since     time.Time
	Logs      []*domain.PhaseLog
	Summaries []domain.PhaseSummary
}
