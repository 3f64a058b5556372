package engine

import "github.com/alexanderramin/studymate/internal/domain"

// EffectKind identifies a side effect requested by the engine.
type EffectKind string

const (
	// EffectTick reports a one-second countdown decrement.
	EffectTick EffectKind = "tick"
	// EffectReset reports that the remaining time was reloaded without a
	// phase change (restart or a duration edit while paused).
	EffectReset EffectKind = "reset"
	// EffectRunningChanged reports a start or pause.
	EffectRunningChanged EffectKind = "running_changed"
	// EffectPhaseCompleted reports that a phase ran down to zero.
	EffectPhaseCompleted EffectKind = "phase_completed"
	// EffectPhaseChanged reports entry into a new phase.
	EffectPhaseChanged EffectKind = "phase_changed"
	// EffectMessage asks for a coaching message to be appended to the chat.
	EffectMessage EffectKind = "message"
	// EffectPlayPhaseEnd asks for the phase-end audio cue.
	EffectPlayPhaseEnd EffectKind = "play_phase_end"
	// EffectPlayPhaseStart asks for the phase-start audio cue.
	EffectPlayPhaseStart EffectKind = "play_phase_start"
)

// Effect is a command returned by the engine. The engine never performs I/O;
// callers execute effects in order.
type Effect struct {
	Kind EffectKind

	// State is the engine state after the operation that produced the effect.
	State State

	// Phase is the phase the effect refers to: the completed phase for
	// EffectPhaseCompleted, the new phase for EffectPhaseChanged.
	Phase domain.Phase

	// PlannedMinutes is the configured length of Phase.
	PlannedMinutes int

	// MessageKind and Text are set for EffectMessage.
	MessageKind domain.MessageKind
	Text        string
}

// Kinds returns the effect kinds in order. Handy for assertions and logging.
func Kinds(effects []Effect) []EffectKind {
	kinds := make([]EffectKind, len(effects))
	for i, e := range effects {
		kinds[i] = e.Kind
	}
	return kinds
}

// Messages returns the text of every EffectMessage in order.
func Messages(effects []Effect) []string {
	var out []string
	for _, e := range effects {
		if e.Kind == EffectMessage {
			out = append(out, e.Text)
		}
	}
	return out
}
