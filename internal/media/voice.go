package media

import (
	"context"
	"sync"

	"github.com/alexanderramin/studymate/internal/domain"
)

// Voice serializes speech: a new Say cancels whatever is still being spoken.
type Voice struct {
	speaker Speaker
	onError func(error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	current string
	seq     uint64
	wg      sync.WaitGroup
}

// NewVoice wraps speaker. onError, if set, receives speech failures.
func NewVoice(speaker Speaker, onError func(error)) *Voice {
	if speaker == nil {
		speaker = NoopSpeaker{}
	}
	return &Voice{speaker: speaker, onError: onError}
}

func (v *Voice) Supported() bool {
	return v.speaker.Supported()
}

// Say starts speaking text in the background.
func (v *Voice) Say(text string, settings domain.VoiceSettings) {
	if !v.speaker.Supported() || text == "" {
		return
	}

	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.current = text
	v.seq++
	seq := v.seq
	v.wg.Add(1)
	v.mu.Unlock()

	go func() {
		defer v.wg.Done()
		defer cancel()

		err := v.speaker.Speak(ctx, text, settings)
		if err != nil && ctx.Err() == nil && v.onError != nil {
			v.onError(err)
		}

		v.mu.Lock()
		if v.seq == seq {
			v.current = ""
			v.cancel = nil
		}
		v.mu.Unlock()
	}()
}

// Cancel stops the utterance in flight, if any.
func (v *Voice) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.current = ""
}

// Current returns the text being spoken, or "".
func (v *Voice) Current() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Wait blocks until every utterance goroutine has returned.
func (v *Voice) Wait() {
	v.wg.Wait()
}
