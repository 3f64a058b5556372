package media

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/alexanderramin/studymate/internal/domain"
)

// WriterSpeaker "speaks" by printing each utterance, for terminals without a
// speech program.
type WriterSpeaker struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSpeaker(w io.Writer) *WriterSpeaker {
	return &WriterSpeaker{w: w}
}

func (s *WriterSpeaker) Supported() bool { return s.w != nil }

func (s *WriterSpeaker) Speak(ctx context.Context, text string, _ domain.VoiceSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "🔊 %s\n", text)
	return err
}
