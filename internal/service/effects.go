package service

import (
	"errors"

	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/events"
	"github.com/alexanderramin/studymate/internal/media"
)

var effectEvents = map[engine.EffectKind]events.Type{
	engine.EffectTick:           events.SessionTick,
	engine.EffectReset:          events.SessionReset,
	engine.EffectRunningChanged: events.SessionRunning,
	engine.EffectPhaseCompleted: events.PhaseCompleted,
	engine.EffectPhaseChanged:   events.PhaseChanged,
}

// HandleEffects executes engine effects in order. The runner calls it with
// its lock held, so it must not call back into the runner.
func (c *Companion) HandleEffects(effects []engine.Effect) {
	if len(effects) == 0 {
		return
	}
	c.mu.Lock()
	voice := c.settings.VoiceSettings
	c.mu.Unlock()

	var cues []engine.EffectKind
	for _, e := range effects {
		switch e.Kind {
		case engine.EffectMessage:
			c.appendMessage(newMessage(domain.RoleAssistant, e.MessageKind, e.Text, nil))
		case engine.EffectPhaseCompleted:
			c.recordPhase(e)
		case engine.EffectPlayPhaseEnd, engine.EffectPlayPhaseStart:
			cues = append(cues, e.Kind)
		}
		if typ, ok := effectEvents[e.Kind]; ok {
			st := e.State
			c.publish(events.Event{Type: typ, Session: &st, Phase: e.Phase})
		}
	}

	if len(cues) > 0 {
		c.playCues(cues, voice)
	}
	c.syncAmbient(effects[len(effects)-1].State)
}

// playCues fetches and plays the phase audio in order without blocking the
// timer. Failures only reach the log.
func (c *Companion) playCues(cues []engine.EffectKind, voice domain.VoiceSettings) {
	if c.backend == nil || c.ctx.Err() != nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for _, kind := range cues {
			var url string
			if kind == engine.EffectPlayPhaseEnd {
				url = c.backend.PhaseEndAudio(c.ctx, voice)
			} else {
				url = c.backend.PhaseStartAudio(c.ctx, voice)
			}
			if url == "" || c.ctx.Err() != nil {
				continue
			}
			c.publish(events.Event{Type: events.AudioCue, AudioURL: url})
			if err := c.player.Play(c.ctx, url); err != nil && !errors.Is(err, media.ErrUnsupported) {
				c.log.Warn().Err(err).Str("cue", string(kind)).Msg("playing phase audio")
			}
		}
	}()
}

func (c *Companion) publish(ev events.Event) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(ev); err != nil {
		c.log.Warn().Err(err).Str("type", string(ev.Type)).Msg("publishing event")
	}
}
