// Package engine implements the focus/break countdown as a pure state
// machine. Operations return effects describing the I/O the caller should
// perform; the engine itself never sleeps, logs or plays anything.
package engine

import (
	"fmt"

	"github.com/alexanderramin/studymate/internal/domain"
)

// State is a snapshot of the session.
type State struct {
	Phase                 domain.Phase `json:"phase"`
	RemainingSeconds      int          `json:"remainingSeconds"`
	Running               bool         `json:"isRunning"`
	CompletedWorkSessions int          `json:"completedWorkSessions"`
}

// Engine holds one session. It is not safe for concurrent use; wrap it in a
// Runner when a ticker drives it.
type Engine struct {
	durations domain.Durations
	state     State
}

// New returns an engine idle at the start of a work phase.
func New(d domain.Durations) (*Engine, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	return &Engine{
		durations: d,
		state: State{
			Phase:            domain.PhaseWork,
			RemainingSeconds: d.SecondsFor(domain.PhaseWork),
		},
	}, nil
}

// State returns the current snapshot.
func (e *Engine) State() State {
	return e.state
}

// Durations returns the durations the engine currently counts with.
func (e *Engine) Durations() domain.Durations {
	return e.durations
}

// Tick advances the countdown by one second. When the countdown reaches zero
// the phase transition fires in the same call.
func (e *Engine) Tick() []Effect {
	if !e.state.Running {
		return nil
	}
	if e.state.RemainingSeconds > 1 {
		e.state.RemainingSeconds--
		return []Effect{e.effect(EffectTick)}
	}
	e.state.RemainingSeconds = 0
	return e.complete()
}

// complete ends the current phase and loads the next one.
func (e *Engine) complete() []Effect {
	finished := e.state.Phase
	var next domain.Phase
	var text string

	if finished == domain.PhaseWork {
		e.state.CompletedWorkSessions++
		if e.state.CompletedWorkSessions%domain.LongBreakEvery == 0 {
			next = domain.PhaseLongBreak
			text = longBreakMessage(e.durations.LongBreakMin)
		} else {
			next = domain.PhaseShortBreak
			text = shortBreakMessage(e.durations.ShortBreakMin)
		}
	} else {
		next = domain.PhaseWork
		text = backToFocusMessage(e.durations.WorkMin)
	}

	e.state.Phase = next
	e.state.RemainingSeconds = e.durations.SecondsFor(next)
	e.state.Running = false

	completed := e.effect(EffectPhaseCompleted)
	completed.Phase = finished
	completed.PlannedMinutes = e.durations.MinutesFor(finished)

	msg := e.effect(EffectMessage)
	msg.MessageKind = domain.KindTimer
	msg.Text = text

	return []Effect{
		completed,
		e.effect(EffectPhaseChanged),
		e.effect(EffectRunningChanged),
		msg,
		e.effect(EffectPlayPhaseEnd),
		e.effect(EffectPlayPhaseStart),
	}
}

// Start resumes the countdown. Starting a running engine does nothing.
func (e *Engine) Start() []Effect {
	return e.setRunning(true)
}

// Pause freezes the countdown, keeping the remaining time.
func (e *Engine) Pause() []Effect {
	return e.setRunning(false)
}

// Toggle flips between running and paused.
func (e *Engine) Toggle() []Effect {
	return e.setRunning(!e.state.Running)
}

func (e *Engine) setRunning(running bool) []Effect {
	if e.state.Running == running {
		return nil
	}
	e.state.Running = running
	return []Effect{e.effect(EffectRunningChanged)}
}

// Restart reloads the full duration of the current phase and stops.
func (e *Engine) Restart() []Effect {
	wasRunning := e.state.Running
	e.state.Running = false
	e.state.RemainingSeconds = e.durations.SecondsFor(e.state.Phase)

	effects := []Effect{e.effect(EffectReset)}
	if wasRunning {
		effects = append(effects, e.effect(EffectRunningChanged))
	}
	return effects
}

// BeginFocus jumps to a fresh, running work phase. The session counter is
// kept.
func (e *Engine) BeginFocus() []Effect {
	phaseChanged := e.state.Phase != domain.PhaseWork
	wasRunning := e.state.Running

	e.state.Phase = domain.PhaseWork
	e.state.RemainingSeconds = e.durations.SecondsFor(domain.PhaseWork)
	e.state.Running = true

	var effects []Effect
	if phaseChanged {
		effects = append(effects, e.effect(EffectPhaseChanged))
	} else {
		effects = append(effects, e.effect(EffectReset))
	}
	if !wasRunning {
		effects = append(effects, e.effect(EffectRunningChanged))
	}
	return effects
}

// ApplySettings replaces the durations. A paused engine reloads the current
// phase's remaining time from the new durations; a running countdown is left
// alone and picks the new values up at its next transition.
func (e *Engine) ApplySettings(d domain.Durations) ([]Effect, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("apply settings: %w", err)
	}
	changed := d != e.durations
	e.durations = d
	if !changed || e.state.Running {
		return nil, nil
	}
	e.state.RemainingSeconds = d.SecondsFor(e.state.Phase)
	return []Effect{e.effect(EffectReset)}, nil
}

func (e *Engine) effect(kind EffectKind) Effect {
	return Effect{
		Kind:           kind,
		State:          e.state,
		Phase:          e.state.Phase,
		PlannedMinutes: e.durations.MinutesFor(e.state.Phase),
	}
}
