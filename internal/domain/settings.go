package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDuration indicates a phase duration outside its allowed range.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidFlashcard indicates a flashcard with an empty side or duplicate ID.
	ErrInvalidFlashcard = errors.New("invalid flashcard")

	// ErrInvalidVoiceSettings indicates a voice parameter outside its range.
	ErrInvalidVoiceSettings = errors.New("invalid voice settings")
)

// Duration bounds in minutes.
const (
	MinDurationMin      = 1
	MaxWorkDurationMin  = 120
	MaxBreakDurationMin = 60
)

// Speaking rate bounds accepted by the audio backend.
const (
	MinVoiceSpeed = 0.5
	MaxVoiceSpeed = 2.0
)

// Flashcard is a single question/answer card.
type Flashcard struct {
	ID    string `json:"id" yaml:"id"`
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

// VoiceSettings holds speech synthesis parameters sent to the audio backend.
type VoiceSettings struct {
	VoiceID           string  `json:"voiceId" yaml:"voice_id"`
	Speed             float64 `json:"speed" yaml:"speed"`
	Stability         float64 `json:"stability" yaml:"stability"`
	Similarity        float64 `json:"similarity" yaml:"similarity"`
	StyleExaggeration float64 `json:"styleExaggeration" yaml:"style_exaggeration"`
	SpeakerBoost      bool    `json:"speakerBoost" yaml:"speaker_boost"`
}

// Durations groups the three configured phase lengths in minutes.
type Durations struct {
	WorkMin       int
	ShortBreakMin int
	LongBreakMin  int
}

// StudySettings is the full persisted user configuration.
type StudySettings struct {
	WorkDuration       int           `json:"workDuration" yaml:"work_duration"`
	ShortBreakDuration int           `json:"shortBreakDuration" yaml:"short_break_duration"`
	LongBreakDuration  int           `json:"longBreakDuration" yaml:"long_break_duration"`
	Flashcards         []Flashcard   `json:"flashcards" yaml:"flashcards"`
	AudioURL           *string       `json:"audioUrl" yaml:"audio_url"`
	VoiceEnabled       bool          `json:"voiceEnabled" yaml:"voice_enabled"`
	StudyVibe          string        `json:"studyVibe" yaml:"study_vibe"`
	VoiceSettings      VoiceSettings `json:"voiceSettings" yaml:"voice_settings"`
}

// DefaultVoiceSettings returns the voice parameters used when none are stored.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		VoiceID:           "rachel",
		Speed:             1.0,
		Stability:         0.5,
		Similarity:        0.75,
		StyleExaggeration: 0.0,
		SpeakerBoost:      true,
	}
}

// DefaultFlashcards returns the starter deck.
func DefaultFlashcards() []Flashcard {
	return []Flashcard{
		{
			ID:    "1",
			Front: "What is the Pomodoro Technique?",
			Back:  "A time management method using 25-minute focused work intervals followed by short breaks.",
		},
		{
			ID:    "2",
			Front: "What is spaced repetition?",
			Back:  "A learning technique that incorporates increasing intervals of time between reviews of previously learned material.",
		},
		{
			ID:    "3",
			Front: "Why are breaks important when studying?",
			Back:  "Breaks help prevent mental fatigue, improve focus, and enhance long-term retention of information.",
		},
	}
}

// DefaultSettings returns the settings used on first launch.
func DefaultSettings() StudySettings {
	return StudySettings{
		WorkDuration:       25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		Flashcards:         DefaultFlashcards(),
		AudioURL:           nil,
		VoiceEnabled:       true,
		StudyVibe:          DefaultVibeID,
		VoiceSettings:      DefaultVoiceSettings(),
	}
}

// Durations extracts the phase lengths.
func (s StudySettings) Durations() Durations {
	return Durations{
		WorkMin:       s.WorkDuration,
		ShortBreakMin: s.ShortBreakDuration,
		LongBreakMin:  s.LongBreakDuration,
	}
}

// Clone returns a deep copy so callers can mutate without aliasing the
// flashcard slice or audio pointer.
func (s StudySettings) Clone() StudySettings {
	out := s
	if s.Flashcards != nil {
		out.Flashcards = make([]Flashcard, len(s.Flashcards))
		copy(out.Flashcards, s.Flashcards)
	}
	if s.AudioURL != nil {
		url := *s.AudioURL
		out.AudioURL = &url
	}
	return out
}

// FindFlashcard returns the index of the card with the given ID, or -1.
func (s StudySettings) FindFlashcard(id string) int {
	for i, c := range s.Flashcards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// MinutesFor returns the configured duration for a phase.
func (d Durations) MinutesFor(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return d.ShortBreakMin
	case PhaseLongBreak:
		return d.LongBreakMin
	default:
		return d.WorkMin
	}
}

// SecondsFor returns the configured duration for a phase in seconds.
func (d Durations) SecondsFor(p Phase) int {
	return d.MinutesFor(p) * 60
}

// Validate checks every duration against its bounds.
func (d Durations) Validate() error {
	if d.WorkMin < MinDurationMin || d.WorkMin > MaxWorkDurationMin {
		return fmt.Errorf("%w: work duration must be %d-%d minutes, got %d",
			ErrInvalidDuration, MinDurationMin, MaxWorkDurationMin, d.WorkMin)
	}
	if d.ShortBreakMin < MinDurationMin || d.ShortBreakMin > MaxBreakDurationMin {
		return fmt.Errorf("%w: short break must be %d-%d minutes, got %d",
			ErrInvalidDuration, MinDurationMin, MaxBreakDurationMin, d.ShortBreakMin)
	}
	if d.LongBreakMin < MinDurationMin || d.LongBreakMin > MaxBreakDurationMin {
		return fmt.Errorf("%w: long break must be %d-%d minutes, got %d",
			ErrInvalidDuration, MinDurationMin, MaxBreakDurationMin, d.LongBreakMin)
	}
	return nil
}

// Validate checks voice parameters against the ranges the audio backend accepts.
func (v VoiceSettings) Validate() error {
	if strings.TrimSpace(v.VoiceID) == "" {
		return fmt.Errorf("%w: voice id is required", ErrInvalidVoiceSettings)
	}
	if v.Speed < MinVoiceSpeed || v.Speed > MaxVoiceSpeed {
		return fmt.Errorf("%w: speed must be %.1f-%.1f, got %.2f",
			ErrInvalidVoiceSettings, MinVoiceSpeed, MaxVoiceSpeed, v.Speed)
	}
	for name, val := range map[string]float64{
		"stability":          v.Stability,
		"similarity":         v.Similarity,
		"style exaggeration": v.StyleExaggeration,
	} {
		if val < 0 || val > 1 {
			return fmt.Errorf("%w: %s must be 0-1, got %.2f", ErrInvalidVoiceSettings, name, val)
		}
	}
	return nil
}

// ValidateFlashcard checks that both sides of a card are non-empty.
func ValidateFlashcard(c Flashcard) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidFlashcard)
	}
	if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
		return fmt.Errorf("%w: front and back are required", ErrInvalidFlashcard)
	}
	return nil
}

// Validate checks the whole settings blob before it is persisted or used to
// construct an engine.
func (s StudySettings) Validate() error {
	if err := s.Durations().Validate(); err != nil {
		return err
	}
	if err := s.VoiceSettings.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(s.Flashcards))
	for _, c := range s.Flashcards {
		if err := ValidateFlashcard(c); err != nil {
			return err
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidFlashcard, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}
