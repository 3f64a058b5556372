// Package media defines the speech and audio capabilities the companion
// drives, with process-backed and no-op implementations.
package media

import (
	"context"
	"errors"

	"github.com/alexanderramin/studymate/internal/domain"
)

// ErrUnsupported is returned by capabilities that are unavailable on this
// system.
var ErrUnsupported = errors.New("capability not supported")

// Speaker synthesizes speech. Speak blocks until the utterance finishes or
// ctx is cancelled.
type Speaker interface {
	Speak(ctx context.Context, text string, voice domain.VoiceSettings) error
	Supported() bool
}

// AudioPlayer plays one audio resource to completion or until ctx is
// cancelled.
type AudioPlayer interface {
	Play(ctx context.Context, url string) error
	Supported() bool
}

// AmbientPlayer loops background audio.
type AmbientPlayer interface {
	Load(url string)
	Resume()
	Pause()
	Playing() bool
	Close()
}

type NoopSpeaker struct{}

func (NoopSpeaker) Speak(context.Context, string, domain.VoiceSettings) error { return ErrUnsupported }
func (NoopSpeaker) Supported() bool                                         { return false }

type NoopPlayer struct{}

func (NoopPlayer) Play(context.Context, string) error { return ErrUnsupported }
func (NoopPlayer) Supported() bool                    { return false }
